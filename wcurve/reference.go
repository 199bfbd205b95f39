package wcurve

import (
	"fmt"
	"math/big"

	"github.com/ak-go/gostsign/mpzn"
	"github.com/cronokirby/safenum"
)

// referenceCurve is an independent safenum-based Jacobian-point
// implementation used only to cross-check the production mpzn/wpoint engine
// in SelfTest. It shares no arithmetic code with the production path: a
// bug in the hand-rolled Montgomery engine cannot hide behind the same bug
// here. The formulas take an arbitrary short-Weierstrass a coefficient,
// with none of the a=-3 shortcuts NIST-curve code usually hardwires.
type referenceCurve struct {
	p *safenum.Modulus
	a *safenum.Nat
	b *safenum.Nat
}

func natFromBytes(b []byte) *safenum.Nat {
	return new(safenum.Nat).SetBytes(b)
}

func modulusFromBytes(b []byte) *safenum.Modulus {
	nat := natFromBytes(b)
	return safenum.ModulusFromNat(*nat)
}

func newReferenceCurve(pBytes, aBytes, bBytes []byte) *referenceCurve {
	return &referenceCurve{
		p: modulusFromBytes(pBytes),
		a: natFromBytes(aBytes),
		b: natFromBytes(bBytes),
	}
}

// isOnCurve reports whether (x, y) satisfies y^2 = x^3 + a*x + b (mod p).
func (rc *referenceCurve) isOnCurve(x, y *safenum.Nat) bool {
	y2 := new(safenum.Nat).ModMul(y, y, rc.p)
	x3 := new(safenum.Nat).ModMul(x, x, rc.p)
	x3.ModMul(x3, x, rc.p)
	ax := new(safenum.Nat).ModMul(rc.a, x, rc.p)
	rhs := new(safenum.Nat).ModAdd(x3, ax, rc.p)
	rhs.ModAdd(rhs, rc.b, rc.p)
	return y2.Cmp(rhs) == 0
}

func (rc *referenceCurve) affineFromJacobian(x, y, z *safenum.Nat) (xOut, yOut *safenum.Nat, isInfinity bool) {
	if z.Cmp(new(safenum.Nat).SetUint64(0)) == 0 {
		return nil, nil, true
	}
	zinv := new(safenum.Nat).ModInverse(z, rc.p)
	zinvsq := new(safenum.Nat).ModMul(zinv, zinv, rc.p)
	xOut = new(safenum.Nat).ModMul(x, zinvsq, rc.p)
	zinvsq.ModMul(zinvsq, zinv, rc.p)
	yOut = new(safenum.Nat).ModMul(y, zinvsq, rc.p)
	return xOut, yOut, false
}

// doubleJacobian doubles (x, y, z) with the general-a Jacobian formula.
func (rc *referenceCurve) doubleJacobian(x, y, z *safenum.Nat) (*safenum.Nat, *safenum.Nat, *safenum.Nat) {
	xx := new(safenum.Nat).ModMul(x, x, rc.p)
	yy := new(safenum.Nat).ModMul(y, y, rc.p)
	yyyy := new(safenum.Nat).ModMul(yy, yy, rc.p)
	zz := new(safenum.Nat).ModMul(z, z, rc.p)

	s := new(safenum.Nat).ModAdd(x, yy, rc.p)
	s.ModMul(s, s, rc.p)
	s.ModSub(s, xx, rc.p)
	s.ModSub(s, yyyy, rc.p)
	s.ModAdd(s, s, rc.p)

	zz2 := new(safenum.Nat).ModMul(zz, zz, rc.p)
	azz2 := new(safenum.Nat).ModMul(rc.a, zz2, rc.p)
	m := new(safenum.Nat).ModAdd(xx, xx, rc.p)
	m.ModAdd(m, xx, rc.p)
	m.ModAdd(m, azz2, rc.p)

	t := new(safenum.Nat).ModMul(m, m, rc.p)
	s2 := new(safenum.Nat).ModAdd(s, s, rc.p)
	t.ModSub(t, s2, rc.p)

	y3 := new(safenum.Nat).ModSub(s, t, rc.p)
	y3.ModMul(m, y3, rc.p)
	eight := new(safenum.Nat).SetUint64(8)
	yyyy8 := new(safenum.Nat).ModMul(yyyy, eight, rc.p)
	y3.ModSub(y3, yyyy8, rc.p)

	z3 := new(safenum.Nat).ModAdd(y, z, rc.p)
	z3.ModMul(z3, z3, rc.p)
	z3.ModSub(z3, yy, rc.p)
	z3.ModSub(z3, zz, rc.p)

	return t, y3, z3
}

// addJacobian adds two Jacobian points with the general-a formula.
func (rc *referenceCurve) addJacobian(x1, y1, z1, x2, y2, z2 *safenum.Nat) (*safenum.Nat, *safenum.Nat, *safenum.Nat) {
	zero := new(safenum.Nat).SetUint64(0)
	if z1.Cmp(zero) == 0 {
		return x2, y2, z2
	}
	if z2.Cmp(zero) == 0 {
		return x1, y1, z1
	}

	z1z1 := new(safenum.Nat).ModMul(z1, z1, rc.p)
	z2z2 := new(safenum.Nat).ModMul(z2, z2, rc.p)

	u1 := new(safenum.Nat).ModMul(x1, z2z2, rc.p)
	u2 := new(safenum.Nat).ModMul(x2, z1z1, rc.p)
	h := new(safenum.Nat).ModSub(u2, u1, rc.p)

	i := new(safenum.Nat).ModAdd(h, h, rc.p)
	i.ModMul(i, i, rc.p)
	j := new(safenum.Nat).ModMul(h, i, rc.p)

	s1 := new(safenum.Nat).ModMul(y1, z2, rc.p)
	s1.ModMul(s1, z2z2, rc.p)
	s2 := new(safenum.Nat).ModMul(y2, z1, rc.p)
	s2.ModMul(s2, z1z1, rc.p)
	r := new(safenum.Nat).ModSub(s2, s1, rc.p)

	if h.Cmp(zero) == 0 {
		if r.Cmp(zero) == 0 {
			return rc.doubleJacobian(x1, y1, z1)
		}
		return new(safenum.Nat).SetUint64(0), new(safenum.Nat).SetUint64(1), new(safenum.Nat).SetUint64(0)
	}

	r.ModAdd(r, r, rc.p)
	v := new(safenum.Nat).ModMul(u1, i, rc.p)

	x3 := new(safenum.Nat).ModMul(r, r, rc.p)
	x3.ModSub(x3, j, rc.p)
	x3.ModSub(x3, v, rc.p)
	x3.ModSub(x3, v, rc.p)

	y3 := new(safenum.Nat).ModSub(v, x3, rc.p)
	y3.ModMul(r, y3, rc.p)
	s1j := new(safenum.Nat).ModMul(s1, j, rc.p)
	s1j.ModAdd(s1j, s1j, rc.p)
	y3.ModSub(y3, s1j, rc.p)

	z3 := new(safenum.Nat).ModAdd(z1, z2, rc.p)
	z3.ModMul(z3, z3, rc.p)
	z3.ModSub(z3, z1z1, rc.p)
	z3.ModSub(z3, z2z2, rc.p)
	z3.ModMul(z3, h, rc.p)

	return x3, y3, z3
}

// scalarMult computes [k](bx, by) with a byte-by-byte double-and-add scan.
func (rc *referenceCurve) scalarMult(bx, by *safenum.Nat, k []byte) (x, y *safenum.Nat, isInfinity bool) {
	bz := new(safenum.Nat).SetUint64(1)
	x, y, z := new(safenum.Nat), new(safenum.Nat), new(safenum.Nat)

	for _, b := range k {
		for bitNum := 0; bitNum < 8; bitNum++ {
			x, y, z = rc.doubleJacobian(x, y, z)
			if b&0x80 == 0x80 {
				x, y, z = rc.addJacobian(bx, by, bz, x, y, z)
			}
			b <<= 1
		}
	}

	return rc.affineFromJacobian(x, y, z)
}

// SelfTest cross-checks c's compiled-in parameters against this independent
// safenum-based implementation: P and Q are probably prime, the
// discriminant is non-zero, the generator lies on the curve, and the
// generator has order exactly Q. Compiled-in curves are trusted at runtime;
// this check runs in tests and explicit self-test calls only, never on the
// signing/verifying hot path.
func SelfTest(c *Curve) error {
	pBig := bigFromLimbBytes(c.P.Bytes())
	qBig := bigFromLimbBytes(c.Q.Bytes())

	if !pBig.ProbablyPrime(40) {
		return fmt.Errorf("wcurve: %s: P is not probably prime", c.Name)
	}
	if !qBig.ProbablyPrime(40) {
		return fmt.Errorf("wcurve: %s: Q is not probably prime", c.Name)
	}

	aBig := demontgomery(c.A, c)
	bBig := demontgomery(c.B, c)
	gxBig := demontgomery(c.Gx, c)
	gyBig := demontgomery(c.Gy, c)

	a3 := new(big.Int).Exp(aBig, big.NewInt(3), pBig)
	disc := new(big.Int).Mul(big.NewInt(4), a3)
	b2 := new(big.Int).Mul(bBig, bBig)
	b2.Mod(b2, pBig)
	disc.Add(disc, new(big.Int).Mul(big.NewInt(27), b2))
	disc.Mod(disc, pBig)
	if disc.Sign() == 0 {
		return fmt.Errorf("wcurve: %s: discriminant is zero", c.Name)
	}

	disc16 := new(big.Int).Mul(disc, big.NewInt(16))
	disc16.Mod(disc16, pBig)
	if disc16.Cmp(demontgomery(Discriminant(c), c)) != 0 {
		return fmt.Errorf("wcurve: %s: Discriminant disagrees with the reference computation", c.Name)
	}

	rc := newReferenceCurve(pBig.Bytes(), aBig.Bytes(), bBig.Bytes())

	gx := natFromBytes(gxBig.Bytes())
	gy := natFromBytes(gyBig.Bytes())
	if !rc.isOnCurve(gx, gy) {
		return fmt.Errorf("wcurve: %s: generator is not on the curve", c.Name)
	}

	_, _, infAtQ := rc.scalarMult(gx, gy, qBig.Bytes())
	if !infAtQ {
		return fmt.Errorf("wcurve: %s: generator does not have order Q", c.Name)
	}

	return nil
}

// demontgomery converts a Montgomery-mod-P value back to a natural-domain
// big.Int, used only by SelfTest to hand the reference implementation
// plain values.
func demontgomery(v mpzn.Value, c *Curve) *big.Int {
	nat := mpzn.New(c.Size)
	mpzn.FromMontgomery(nat, v, c.P, c.N0P)
	return bigFromLimbBytes(nat.Bytes())
}

func bigFromLimbBytes(b []byte) *big.Int {
	// b is little-endian (mpzn.Value.Bytes' wire encoding); big.Int wants
	// big-endian, so reverse it.
	rev := make([]byte, len(b))
	for i, v := range b {
		rev[len(b)-1-i] = v
	}
	return new(big.Int).SetBytes(rev)
}
