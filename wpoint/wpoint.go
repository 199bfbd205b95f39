// Package wpoint implements projective point arithmetic over a
// wcurve.Curve, with every coordinate held permanently in Montgomery form
// mod P: no point operation here converts a coordinate in or out of that
// domain, it only ever calls mpzn.MulMontgomery directly on already-encoded
// limbs, per the fixed-domain design the production signing/verifying path
// requires. The one exception is ScalarX, which takes a natural-domain copy
// of a reduced point's x-coordinate to produce a scalar mod Q.
package wpoint

import (
	"github.com/ak-go/gostsign/mpzn"
	"github.com/ak-go/gostsign/wcurve"
)

// Point is (x, y, z) representing the affine point (x/z, y/z); z ≡ 0
// (mod p) encodes the point at infinity. Every reachable point satisfies
// y^2*z ≡ x^3 + a*x*z^2 + b*z^3 (mod p).
type Point struct {
	X, Y, Z mpzn.Value
}

// New allocates a Point with coordinates of the given limb width.
func New(size int) *Point {
	return &Point{X: mpzn.New(size), Y: mpzn.New(size), Z: mpzn.New(size)}
}

// montOne returns the Montgomery representative of 1 mod P, derived from
// the curve's precomputed R2P rather than rebuilt from scratch.
func montOne(wc *wcurve.Curve) mpzn.Value {
	one := mpzn.New(wc.Size)
	mpzn.SetUint64(one, 1)
	out := mpzn.New(wc.Size)
	mpzn.MulMontgomery(out, wc.R2P, one, wc.P, wc.N0P)
	return out
}

// SetInfinity sets p to the point at infinity, (0, 1, 0) with y in
// Montgomery form; any z = 0 triple is infinity, y = 1 just keeps the
// value distinguishable from an uninitialized all-zero Point.
func SetInfinity(p *Point, wc *wcurve.Curve) {
	p.X = mpzn.New(wc.Size)
	p.Y = montOne(wc)
	p.Z = mpzn.New(wc.Size)
}

// SetGenerator copies wc's distinguished base point into p, with z set to
// the Montgomery representative of 1.
func SetGenerator(p *Point, wc *wcurve.Curve) {
	p.X = mpzn.New(wc.Size)
	p.Y = mpzn.New(wc.Size)
	p.X.Set(wc.Gx)
	p.Y.Set(wc.Gy)
	p.Z = montOne(wc)
}

// Set copies src into p (both must already be allocated to the same width).
func (p *Point) Set(src *Point) {
	p.X.Set(src.X)
	p.Y.Set(src.Y)
	p.Z.Set(src.Z)
}

// IsInfinity reports whether p is the point at infinity.
func IsInfinity(p *Point) bool {
	return p.Z.IsZero()
}

// IsOnCurve reports whether y^2*z ≡ x^3 + a*x*z^2 + b*z^3 (mod p), the
// homogeneous form of the curve equation that holds for every valid
// projective triple regardless of z.
func IsOnCurve(p *Point, wc *wcurve.Curve) bool {
	if IsInfinity(p) {
		return true
	}
	n := wc.Size
	lhs := mpzn.New(n)
	y2 := mpzn.New(n)
	mpzn.MulMontgomery(y2, p.Y, p.Y, wc.P, wc.N0P)
	mpzn.MulMontgomery(lhs, y2, p.Z, wc.P, wc.N0P)

	x2 := mpzn.New(n)
	mpzn.MulMontgomery(x2, p.X, p.X, wc.P, wc.N0P)
	x3 := mpzn.New(n)
	mpzn.MulMontgomery(x3, x2, p.X, wc.P, wc.N0P)

	z2 := mpzn.New(n)
	mpzn.MulMontgomery(z2, p.Z, p.Z, wc.P, wc.N0P)
	axz2 := mpzn.New(n)
	mpzn.MulMontgomery(axz2, wc.A, p.X, wc.P, wc.N0P)
	mpzn.MulMontgomery(axz2, axz2, z2, wc.P, wc.N0P)

	z3 := mpzn.New(n)
	mpzn.MulMontgomery(z3, z2, p.Z, wc.P, wc.N0P)
	bz3 := mpzn.New(n)
	mpzn.MulMontgomery(bz3, wc.B, z3, wc.P, wc.N0P)

	rhs := mpzn.New(n)
	mpzn.Add(rhs, x3, axz2, wc.P)
	mpzn.Add(rhs, rhs, bz3, wc.P)

	return mpzn.Cmp(lhs, rhs) == 0
}

// Double sets dst = 2*p. The formula is the general-a projective doubling
// (no a=-3 shortcut, since GOST curves do not specialize a):
//
//	w = a*z^2 + 3*x^2, s = 2*y*z, R = y*s, B = (x+R)^2 - x^2 - R^2,
//	h = w^2 - 2B, x' = h*s, y' = w*(B-h) - 2R^2, z' = s^3.
//
// A point of order two (y = 0) and the point at infinity both land on
// z' = 0, the correct result in each case.
func Double(dst, p *Point, wc *wcurve.Curve) {
	if IsInfinity(p) {
		SetInfinity(dst, wc)
		return
	}

	n := wc.Size
	mm := func(c, a, b mpzn.Value) { mpzn.MulMontgomery(c, a, b, wc.P, wc.N0P) }
	add := func(c, a, b mpzn.Value) { mpzn.Add(c, a, b, wc.P) }
	sub := func(c, a, b mpzn.Value) { mpzn.Sub(c, a, b, wc.P) }

	xx, zz := mpzn.New(n), mpzn.New(n)
	mm(xx, p.X, p.X)
	mm(zz, p.Z, p.Z)

	w := mpzn.New(n)
	mm(w, wc.A, zz)
	add(w, w, xx)
	add(w, w, xx)
	add(w, w, xx)

	s := mpzn.New(n)
	mm(s, p.Y, p.Z)
	add(s, s, s)
	ss := mpzn.New(n)
	mm(ss, s, s)
	sss := mpzn.New(n)
	mm(sss, ss, s)

	r := mpzn.New(n)
	mm(r, p.Y, s)
	rr := mpzn.New(n)
	mm(rr, r, r)

	b := mpzn.New(n)
	add(b, p.X, r)
	mm(b, b, b)
	sub(b, b, xx)
	sub(b, b, rr)

	h := mpzn.New(n)
	mm(h, w, w)
	sub(h, h, b)
	sub(h, h, b)

	x3 := mpzn.New(n)
	mm(x3, h, s)

	y3 := mpzn.New(n)
	sub(y3, b, h)
	mm(y3, w, y3)
	sub(y3, y3, rr)
	sub(y3, y3, rr)

	dst.X, dst.Y, dst.Z = x3, y3, sss
}

// Add sets dst = p1 + p2, the general-a projective addition formula. The
// degenerate cases are dispatched explicitly: either operand at infinity
// returns the other, equal points fall through to Double, and opposite
// points produce infinity. Equality is decided on cross-multiplied
// coordinates (x1*z2 against x2*z1), so two different representatives of
// the same affine point compare equal.
func Add(dst, p1, p2 *Point, wc *wcurve.Curve) {
	if IsInfinity(p1) {
		dst.Set(p2)
		return
	}
	if IsInfinity(p2) {
		dst.Set(p1)
		return
	}

	n := wc.Size
	mm := func(c, a, b mpzn.Value) { mpzn.MulMontgomery(c, a, b, wc.P, wc.N0P) }
	sub := func(c, a, b mpzn.Value) { mpzn.Sub(c, a, b, wc.P) }

	y1z2 := mpzn.New(n)
	mm(y1z2, p1.Y, p2.Z)
	x1z2 := mpzn.New(n)
	mm(x1z2, p1.X, p2.Z)
	z1z2 := mpzn.New(n)
	mm(z1z2, p1.Z, p2.Z)

	u := mpzn.New(n)
	mm(u, p2.Y, p1.Z)
	sub(u, u, y1z2)

	v := mpzn.New(n)
	mm(v, p2.X, p1.Z)
	sub(v, v, x1z2)

	if v.IsZero() {
		if u.IsZero() {
			Double(dst, p1, wc)
			return
		}
		SetInfinity(dst, wc)
		return
	}

	uu := mpzn.New(n)
	mm(uu, u, u)
	vv := mpzn.New(n)
	mm(vv, v, v)
	vvv := mpzn.New(n)
	mm(vvv, vv, v)

	r := mpzn.New(n)
	mm(r, vv, x1z2)

	a := mpzn.New(n)
	mm(a, uu, z1z2)
	sub(a, a, vvv)
	sub(a, a, r)
	sub(a, a, r)

	x3 := mpzn.New(n)
	mm(x3, v, a)

	y3 := mpzn.New(n)
	sub(y3, r, a)
	mm(y3, u, y3)
	t := mpzn.New(n)
	mm(t, vvv, y1z2)
	sub(y3, y3, t)

	z3 := mpzn.New(n)
	mm(z3, vvv, z1z2)

	dst.X, dst.Y, dst.Z = x3, y3, z3
}

// ctSelectValue sets dst = a if mask == allOnes, dst = b if mask == 0.
func ctSelectValue(dst, a, b mpzn.Value, mask uint64) {
	for i := range dst {
		dst[i] = (a[i] & mask) | (b[i] &^ mask)
	}
}

func maskFromBit(bit uint64) uint64 { return 0 - (bit & 1) }

// Pow sets dst = [k]base, an MSB-to-LSB double-and-add scan over k's bits
// (k is a fixed-width natural-domain scalar, not Montgomery). Every step
// computes both the doubled-only and doubled-then-added states and
// branchlessly selects between them, so the sequence of point operations
// performed does not depend on k's bit pattern.
func Pow(dst, base *Point, wc *wcurve.Curve, k mpzn.Value) {
	n := wc.Size
	acc := New(n)
	SetInfinity(acc, wc)

	bitLen := len(k) * 64
	for i := 0; i < bitLen; i++ {
		doubled := New(n)
		Double(doubled, acc, wc)

		added := New(n)
		Add(added, doubled, base, wc)

		bit := bitAt(k, i)
		mask := maskFromBit(bit)
		next := New(n)
		ctSelectValue(next.X, added.X, doubled.X, mask)
		ctSelectValue(next.Y, added.Y, doubled.Y, mask)
		ctSelectValue(next.Z, added.Z, doubled.Z, mask)
		acc = next
	}

	dst.X, dst.Y, dst.Z = acc.X, acc.Y, acc.Z
}

// bitAt returns bit index idx of v counting from the most significant bit
// of the whole fixed-width value, matching mpzn's own bit-scan order so
// Pow and mpzn.ModPowMontgomery walk a scalar's bits identically.
func bitAt(v mpzn.Value, idx int) uint64 {
	pos := len(v)*64 - 1 - idx
	limb := pos / 64
	off := uint(pos % 64)
	return (v[limb] >> off) & 1
}

// Reduce normalizes p in place from projective to affine form: (x/z, y/z, 1)
// with every coordinate still Montgomery-mod-P. z^-1 is computed via Fermat
// (z^(p-2) mod p) using ModPowMontgomery, since p is prime. Reduce does not
// detect the point at infinity: z ≡ 0 has no inverse, and the result is then
// (0, 0, 1), which is not on the curve.
func Reduce(p *Point, wc *wcurve.Curve) {
	n := wc.Size
	two := mpzn.New(n)
	mpzn.SetUint64(two, 2)
	pMinus2 := mpzn.New(n)
	mpzn.Sub(pMinus2, wc.P, two, wc.P)

	zInv := mpzn.New(n)
	mpzn.ModPowMontgomery(zInv, p.Z, pMinus2, wc.P, wc.N0P)

	xAff := mpzn.New(n)
	yAff := mpzn.New(n)
	mpzn.MulMontgomery(xAff, p.X, zInv, wc.P, wc.N0P)
	mpzn.MulMontgomery(yAff, p.Y, zInv, wc.P, wc.N0P)

	p.X = xAff
	p.Y = yAff
	p.Z = montOne(wc)
}

// ScalarX converts an already-reduced (affine, z == Montgomery-1) point's
// x-coordinate out of Montgomery-mod-P form and reduces it modulo Q,
// producing the r scalar signatures are built from and compared against.
// out must be wc.Size limbs wide.
func ScalarX(out mpzn.Value, p *Point, wc *wcurve.Curve) {
	natX := mpzn.New(wc.Size)
	mpzn.FromMontgomery(natX, p.X, wc.P, wc.N0P)
	mpzn.Rem(out, natX, wc.Q)
}

// CheckOrder reports whether [wc.Q]p is the point at infinity.
func CheckOrder(p *Point, wc *wcurve.Curve) bool {
	result := New(wc.Size)
	Pow(result, p, wc, wc.Q)
	return IsInfinity(result)
}
