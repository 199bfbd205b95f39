package mpzn

import "math/bits"

// MulMontgomery computes c <- a*b*r^-1 mod m, where r = 2^(64*len(m)), using
// the CIOS algorithm. Preconditions: a, b < m. n0 must satisfy
// n0 = -m[0]^-1 mod 2^64 (see N0). c may alias a or b.
//
// If a and b are both Montgomery-domain representatives of a', b' (i.e.
// a = a'r mod m, b = b'r mod m), the result is the Montgomery-domain
// representative of a'*b' mod m. If a is Montgomery-domain and b is
// natural-domain, the result is the natural-domain product a'*b mod m; with
// b the natural value 1 this is how a value leaves Montgomery form
// (FromMontgomery), and with b = r2 it is how a natural value enters it
// (ToMontgomery).
func MulMontgomery(c, a, b, m Value, n0 uint64) {
	n := len(m)
	t := make(Value, n+2)

	for i := 0; i < n; i++ {
		// t += a[i]*b
		var carry uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(a[i], b[j])
			var c1, c2 uint64
			lo, c1 = bits.Add64(lo, t[j], 0)
			lo, c2 = bits.Add64(lo, carry, 0)
			hi += c1 + c2
			t[j] = lo
			carry = hi
		}
		carryOut, topCarry := addCarry(t[n], carry)
		t[n] = carryOut
		t[n+1] += topCarry

		// m_i chosen so that (t + m_i*m) has a zero low limb.
		mi := t[0] * n0

		var carry2 uint64
		for j := 0; j < n; j++ {
			hi, lo := bits.Mul64(mi, m[j])
			var c1, c2 uint64
			lo, c1 = bits.Add64(lo, t[j], 0)
			lo, c2 = bits.Add64(lo, carry2, 0)
			hi += c1 + c2
			t[j] = lo
			carry2 = hi
		}
		carryOut, topCarry = addCarry(t[n], carry2)
		t[n] = carryOut
		t[n+1] += topCarry

		// t[0] is now zero by construction of m_i; shift one limb down.
		copy(t[0:n+1], t[1:n+2])
		t[n+1] = 0
	}

	// t holds an (n+1)-limb result (t[n] is 0 or 1); reduce once if needed.
	reduced := New(n)
	borrow := subLimbs(reduced, t[:n], m)
	needSub := maskFromBit(t[n] | (borrow ^ 1))
	ctSelect(c, reduced, t[:n], needSub)
}

// addCarry adds b into a, returning (sum mod 2^64, carry-out).
func addCarry(a, b uint64) (uint64, uint64) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry
}

// N0 computes n0 = -m[0]^-1 mod 2^64 via Newton's iteration on the odd
// low limb of m (m must be odd, as every curve modulus used here is).
func N0(m Value) uint64 {
	m0 := m[0]
	// x_{k+1} = x_k*(2 - m0*x_k) mod 2^64 converges to m0^-1 mod 2^64 in
	// O(log 64) iterations starting from x_0 = m0 (correct to 3 bits for an
	// odd m0); six iterations is enough to saturate 64 bits.
	x := m0
	for i := 0; i < 6; i++ {
		x = x * (2 - m0*x)
	}
	return -x
}

// R2 computes r2 = r^2 mod m, where r = 2^(64*len(m)), by repeated modular
// doubling starting from 1 (the textbook way to build R2 without a
// wide division): r mod m takes 64*len(m) doublings from 1, and r2 mod m
// takes 64*len(m) more doublings of that.
func R2(m Value) Value {
	n := len(m)
	acc := New(n)
	SetUint64(acc, 1)
	for i := 0; i < 2*n*64; i++ {
		Add(acc, acc, acc, m)
	}
	return acc
}

// One returns the Montgomery-domain representative of 1 mod m (i.e. r mod
// m), derived from r2 via a single Montgomery multiplication by the
// natural value 1.
func One(m Value, n0 uint64) Value {
	n := len(m)
	r2 := R2(m)
	one := New(n)
	SetUint64(one, 1)
	out := New(n)
	MulMontgomery(out, r2, one, m, n0)
	return out
}

// ToMontgomery computes out <- a*r mod m given r2 = r^2 mod m, moving a
// from natural to Montgomery domain.
func ToMontgomery(out, a, r2, m Value, n0 uint64) {
	MulMontgomery(out, a, r2, m, n0)
}

// FromMontgomery computes out <- a*r^-1 mod m, moving a from Montgomery to
// natural domain.
func FromMontgomery(out, a, m Value, n0 uint64) {
	one := New(len(m))
	SetUint64(one, 1)
	MulMontgomery(out, a, one, m, n0)
}

// ModPowMontgomery computes c <- a^e mod m (Montgomery domain in, Montgomery
// domain out) via left-to-right square-and-multiply. e is a natural-domain
// exponent; the loop always runs len(e)*64 iterations and always computes
// both the squaring and the multiply-candidate, selecting branchlessly on
// each exponent bit so the instruction sequence does not depend on e's
// value, only on its bit width.
func ModPowMontgomery(c, a, e, m Value, n0 uint64) {
	n := len(m)
	result := One(m, n0)
	base := New(n)
	base.Set(a)

	bitLen := len(e) * 64
	for i := 0; i < bitLen; i++ {
		squared := New(n)
		MulMontgomery(squared, result, result, m, n0)

		multiplied := New(n)
		MulMontgomery(multiplied, squared, base, m, n0)

		bit := bitAt(e, i)
		ctSelect(result, multiplied, squared, maskFromBit(bit))
	}
	c.Set(result)
}
