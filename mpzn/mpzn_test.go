package mpzn

import (
	"errors"
	"testing"
)

// countingReader returns canned byte sequences, used to exercise
// SetRandomModulo's rejection loop deterministically.
type countingReader struct {
	draws [][]byte
	next  int
}

func (r *countingReader) Read(p []byte) (int, error) {
	if r.next >= len(r.draws) {
		return 0, errors.New("countingReader: out of draws")
	}
	copy(p, r.draws[r.next])
	r.next++
	return len(p), nil
}

// The secp256k1 field prime, chosen only because it is a well-known 256-bit
// prime that fits in four 64-bit limbs, not because this package has any
// connection to that curve.
const testPrimeHex = "FFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFFEFFFFFC2F"

func testModulus(t *testing.T) Value {
	t.Helper()
	m := New(Size256)
	if err := SetHex(m, testPrimeHex); err != nil {
		t.Fatalf("SetHex(modulus): %v", err)
	}
	return m
}

func mustHex(t *testing.T, s string) Value {
	t.Helper()
	v := New(Size256)
	if err := SetHex(v, s); err != nil {
		t.Fatalf("SetHex(%q): %v", s, err)
	}
	return v
}

func TestSetBytesRoundTrip(t *testing.T) {
	a := mustHex(t, "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	b := New(Size256)
	if err := SetBytes(b, a.Bytes()); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}
	if Cmp(a, b) != 0 {
		t.Fatalf("round trip mismatch: %s vs %s", a.Hex(), b.Hex())
	}
}

func TestCmp(t *testing.T) {
	a := mustHex(t, "01")
	b := mustHex(t, "02")
	if Cmp(a, b) >= 0 {
		t.Fatalf("expected a < b")
	}
	if Cmp(b, a) <= 0 {
		t.Fatalf("expected b > a")
	}
	if Cmp(a, a) != 0 {
		t.Fatalf("expected a == a")
	}
}

func TestAddSubRoundTrip(t *testing.T) {
	m := testModulus(t)
	a := mustHex(t, "10")
	b := mustHex(t, "20")

	sum := New(Size256)
	Add(sum, a, b, m)
	if CmpUint64(sum, 0x30) != 0 {
		t.Fatalf("Add: got %s, want 0x30", sum.Hex())
	}

	back := New(Size256)
	Sub(back, sum, b, m)
	if Cmp(back, a) != 0 {
		t.Fatalf("Sub did not invert Add: got %s, want %s", back.Hex(), a.Hex())
	}
}

func TestAddWrapsModulus(t *testing.T) {
	m := testModulus(t)
	// m-1 + 2 == 1 (mod m)
	one := New(Size256)
	SetUint64(one, 1)
	mMinus1 := New(Size256)
	Sub(mMinus1, m, one, m)

	two := New(Size256)
	SetUint64(two, 2)

	sum := New(Size256)
	Add(sum, mMinus1, two, m)
	if CmpUint64(sum, 1) != 0 {
		t.Fatalf("Add did not wrap: got %s, want 1", sum.Hex())
	}
}

func TestSubWrapsModulus(t *testing.T) {
	m := testModulus(t)
	one := New(Size256)
	SetUint64(one, 1)
	two := New(Size256)
	SetUint64(two, 2)

	diff := New(Size256)
	Sub(diff, one, two, m)

	mMinus1 := New(Size256)
	Sub(mMinus1, m, one, m)
	if Cmp(diff, mMinus1) != 0 {
		t.Fatalf("Sub did not wrap: got %s, want %s", diff.Hex(), mMinus1.Hex())
	}
}

func TestRemReducesAboveModulus(t *testing.T) {
	m := testModulus(t)
	// a = m + 5, so a mod m == 5.
	five := New(Size256)
	SetUint64(five, 5)
	a := New(Size256)
	addLimbs(a, m, five)

	out := New(Size256)
	Rem(out, a, m)
	if CmpUint64(out, 5) != 0 {
		t.Fatalf("Rem: got %s, want 5", out.Hex())
	}
}

func TestRemLeavesSmallValueUnchanged(t *testing.T) {
	m := testModulus(t)
	a := mustHex(t, "2a")
	out := New(Size256)
	Rem(out, a, m)
	if CmpUint64(out, 0x2a) != 0 {
		t.Fatalf("Rem changed a value already below the modulus: got %s", out.Hex())
	}
}

func TestMulUint64(t *testing.T) {
	a := mustHex(t, "100000000000000002")
	out := New(Size256)
	carry := MulUint64(out, a, 3)
	if carry != 0 {
		t.Fatalf("MulUint64: unexpected carry %d", carry)
	}
	want := mustHex(t, "300000000000000006")
	if Cmp(out, want) != 0 {
		t.Fatalf("MulUint64: got %s, want %s", out.Hex(), want.Hex())
	}
}

func TestMulUint64Overflow(t *testing.T) {
	a := New(Size256)
	for i := range a {
		a[i] = 0xFFFFFFFFFFFFFFFF
	}
	out := New(Size256)
	carry := MulUint64(out, a, 2)
	if carry != 1 {
		t.Fatalf("MulUint64: carry = %d, want 1", carry)
	}
	want := New(Size256)
	for i := range want {
		want[i] = 0xFFFFFFFFFFFFFFFF
	}
	want[0] = 0xFFFFFFFFFFFFFFFE
	if Cmp(out, want) != 0 {
		t.Fatalf("MulUint64: got %s", out.Hex())
	}
}

func TestLshiftLimbs(t *testing.T) {
	a := mustHex(t, "000000000000000000000000000000000000000000000001000000000000000f")
	out := New(Size256)
	LshiftLimbs(out, a, 1)
	want := mustHex(t, "00000000000000000000000000000001000000000000000f0000000000000000")
	if Cmp(out, want) != 0 {
		t.Fatalf("LshiftLimbs: got %s, want %s", out.Hex(), want.Hex())
	}
}

// TestMontgomeryRoundTrip checks to_natural(to_mont(x)) == x mod m.
func TestMontgomeryRoundTrip(t *testing.T) {
	m := testModulus(t)
	n0 := N0(m)
	r2 := R2(m)

	x := mustHex(t, "deadbeefcafef00d0123456789abcdef0011223344556677889900aabbccdd")

	xm := New(Size256)
	ToMontgomery(xm, x, r2, m, n0)

	back := New(Size256)
	FromMontgomery(back, xm, m, n0)

	if Cmp(back, x) != 0 {
		t.Fatalf("Montgomery round trip: got %s, want %s", back.Hex(), x.Hex())
	}
}

// TestMontgomeryMulAgreesWithNaturalProduct checks that multiplying two
// Montgomery-encoded values and converting back equals the natural-domain
// product reduced modulo m.
func TestMontgomeryMulAgreesWithNaturalProduct(t *testing.T) {
	m := testModulus(t)
	n0 := N0(m)
	r2 := R2(m)

	a := mustHex(t, "1234")
	b := mustHex(t, "5678")

	// Natural-domain expected value: a*b == 0x1234*0x5678 == 0x6260060.
	want := mustHex(t, "6260060")

	am := New(Size256)
	bm := New(Size256)
	ToMontgomery(am, a, r2, m, n0)
	ToMontgomery(bm, b, r2, m, n0)

	prodM := New(Size256)
	MulMontgomery(prodM, am, bm, m, n0)

	prod := New(Size256)
	FromMontgomery(prod, prodM, m, n0)

	if Cmp(prod, want) != 0 {
		t.Fatalf("Montgomery product: got %s, want %s", prod.Hex(), want.Hex())
	}
}

// TestOneIsMultiplicativeIdentity checks that One(m) behaves as 1 under
// MulMontgomery: multiplying any Montgomery-encoded value by it is a no-op.
func TestOneIsMultiplicativeIdentity(t *testing.T) {
	m := testModulus(t)
	n0 := N0(m)
	r2 := R2(m)
	one := One(m, n0)

	a := mustHex(t, "abcdef0123456789")
	am := New(Size256)
	ToMontgomery(am, a, r2, m, n0)

	product := New(Size256)
	MulMontgomery(product, am, one, m, n0)

	if Cmp(product, am) != 0 {
		t.Fatalf("One is not a multiplicative identity: got %s, want %s", product.Hex(), am.Hex())
	}
}

// TestModPowMontgomeryFermat checks Fermat's little theorem: a^(m-1) == 1
// (mod m) for prime m and a not a multiple of m, carried out entirely in
// the Montgomery domain.
func TestModPowMontgomeryFermat(t *testing.T) {
	m := testModulus(t)
	n0 := N0(m)
	r2 := R2(m)
	one := One(m, n0)

	a := mustHex(t, "2")
	am := New(Size256)
	ToMontgomery(am, a, r2, m, n0)

	mMinus1 := New(Size256)
	oneNat := New(Size256)
	SetUint64(oneNat, 1)
	Sub(mMinus1, m, oneNat, m)

	resultM := New(Size256)
	ModPowMontgomery(resultM, am, mMinus1, m, n0)

	if Cmp(resultM, one) != 0 {
		t.Fatalf("Fermat check failed: got %s, want Montgomery-1 %s", resultM.Hex(), one.Hex())
	}
}

// TestSetRandomModuloRejectsZeroAndOverflow checks that SetRandomModulo
// redraws on an all-zero sample and on a sample >= m, only accepting the
// third draw here.
func TestSetRandomModuloRejectsZeroAndOverflow(t *testing.T) {
	m := testModulus(t)
	zero := make([]byte, Size256*8)
	tooBig := m.Bytes() // == m, not < m, must be rejected
	good := mustHex(t, "2a").Bytes()

	rng := &countingReader{draws: [][]byte{zero, tooBig, good}}

	out := New(Size256)
	if err := SetRandomModulo(out, m, rng); err != nil {
		t.Fatalf("SetRandomModulo: %v", err)
	}
	if CmpUint64(out, 0x2a) != 0 {
		t.Fatalf("SetRandomModulo: got %s, want 0x2a", out.Hex())
	}
	if rng.next != 3 {
		t.Fatalf("SetRandomModulo drew %d samples, want 3 (reject zero, reject >=m, accept)", rng.next)
	}
}

// TestModPowMontgomeryExponentZero checks a^0 == 1, a boundary the
// square-and-multiply scanner must still get right when every exponent bit
// is zero.
func TestModPowMontgomeryExponentZero(t *testing.T) {
	m := testModulus(t)
	n0 := N0(m)
	r2 := R2(m)
	one := One(m, n0)

	a := mustHex(t, "123456789abcdef")
	am := New(Size256)
	ToMontgomery(am, a, r2, m, n0)

	zero := New(Size256)
	resultM := New(Size256)
	ModPowMontgomery(resultM, am, zero, m, n0)

	if Cmp(resultM, one) != 0 {
		t.Fatalf("a^0: got %s, want Montgomery-1 %s", resultM.Hex(), one.Hex())
	}
}
