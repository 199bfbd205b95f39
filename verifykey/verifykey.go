// Package verifykey implements the GOST R 34.10-2012 public key: an
// immutable curve point Q = [d]P plus a bound hash collaborator, and the
// signature verification operation.
package verifykey

import (
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/ak-go/gostsign/mpzn"
	"github.com/ak-go/gostsign/signkey"
	"github.com/ak-go/gostsign/wcurve"
	"github.com/ak-go/gostsign/wpoint"
	"github.com/ak-go/gostsign/xerr"
)

// PublicKey is an immutable public point bound to a curve and a hash
// collaborator. It is safe to share across goroutines: nothing here ever
// mutates after New returns.
type PublicKey struct {
	curve *wcurve.Curve
	q     *wpoint.Point
	hash  hash.Hash
}

// New derives pk = [d]P from sk without ever materializing d in the clear:
// sk.PublicPoint does the two Montgomery-domain scalar multiplications and
// refreshes sk's mask immediately afterward.
func New(sk *signkey.SecretKey, h hash.Hash) (*PublicKey, error) {
	q, err := sk.PublicPoint()
	if err != nil {
		return nil, err
	}
	return &PublicKey{curve: sk.Curve(), q: q, hash: h}, nil
}

// NewBlake2b256 derives a PublicKey from sk exactly as New does, binding it
// to blake2b-256 for VerifyMessage. sk must itself be a 256-bit key.
func NewBlake2b256(sk *signkey.SecretKey) (*PublicKey, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	return New(sk, h)
}

// NewBlake2b512 is NewBlake2b256's 512-bit-curve counterpart, bound to
// blake2b-512.
func NewBlake2b512(sk *signkey.SecretKey) (*PublicKey, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	return New(sk, h)
}

// Curve returns the curve pk is bound to.
func (pk *PublicKey) Curve() *wcurve.Curve {
	return pk.curve
}

// Point returns pk's public point, in affine Montgomery-mod-P form.
func (pk *PublicKey) Point() *wpoint.Point {
	return pk.q
}

// Verify checks a GOST R 34.10-2012 signature sig (2*Curve.Size*8 bytes,
// r||s little-endian-limb) against message representative e
// (Curve.Size*8 bytes, typically a hash digest).
func (pk *PublicKey) Verify(e, sig []byte) (bool, error) {
	n := pk.curve.Size
	wc := pk.curve

	if len(e) != n*8 {
		return false, xerr.ErrWrongLength
	}
	if len(sig) != 2*n*8 {
		return false, xerr.ErrWrongLength
	}

	r := mpzn.New(n)
	if err := mpzn.SetBytes(r, sig[:n*8]); err != nil {
		return false, err
	}
	s := mpzn.New(n)
	if err := mpzn.SetBytes(s, sig[n*8:]); err != nil {
		return false, err
	}

	if r.IsZero() || s.IsZero() || mpzn.Cmp(r, wc.Q) >= 0 || mpzn.Cmp(s, wc.Q) >= 0 {
		return false, nil
	}

	// v <- e mod q; 0 is remapped to 1, matching the signing side's
	// treatment of a degenerate hash representative.
	vNat := mpzn.New(n)
	if err := mpzn.SetBytes(vNat, e); err != nil {
		return false, err
	}
	mpzn.Rem(vNat, vNat, wc.Q)
	if vNat.IsZero() {
		mpzn.SetUint64(vNat, 1)
	}
	vMont := mpzn.New(n)
	mpzn.ToMontgomery(vMont, vNat, wc.R2Q, wc.Q, wc.N0Q)

	qMinus2 := mpzn.New(n)
	two := mpzn.New(n)
	mpzn.SetUint64(two, 2)
	mpzn.Sub(qMinus2, wc.Q, two, wc.Q)
	// vInv <- v^(q-2) (mod q), the modular inverse of the hash.
	vInv := mpzn.New(n)
	mpzn.ModPowMontgomery(vInv, vMont, qMinus2, wc.Q, wc.N0Q)

	sMont := mpzn.New(n)
	mpzn.ToMontgomery(sMont, s, wc.R2Q, wc.Q, wc.N0Q)
	z1Mont := mpzn.New(n)
	mpzn.MulMontgomery(z1Mont, sMont, vInv, wc.Q, wc.N0Q)
	z1 := mpzn.New(n)
	mpzn.FromMontgomery(z1, z1Mont, wc.Q, wc.N0Q)

	negR := mpzn.New(n)
	mpzn.Sub(negR, wc.Q, r, wc.Q)
	negRMont := mpzn.New(n)
	mpzn.ToMontgomery(negRMont, negR, wc.R2Q, wc.Q, wc.N0Q)
	z2Mont := mpzn.New(n)
	mpzn.MulMontgomery(z2Mont, negRMont, vInv, wc.Q, wc.N0Q)
	z2 := mpzn.New(n)
	mpzn.FromMontgomery(z2, z2Mont, wc.Q, wc.N0Q)

	gen := wpoint.New(n)
	wpoint.SetGenerator(gen, wc)
	cPoint := wpoint.New(n)
	wpoint.Pow(cPoint, gen, wc, z1)

	tPoint := wpoint.New(n)
	wpoint.Pow(tPoint, pk.q, wc, z2)

	wpoint.Add(cPoint, cPoint, tPoint, wc)
	wpoint.Reduce(cPoint, wc)

	got := mpzn.New(n)
	wpoint.ScalarX(got, cPoint, wc)

	return mpzn.Cmp(got, r) == 0, nil
}

// VerifyMessage hashes msg with pk's bound hash collaborator and verifies
// sig against the resulting digest.
func (pk *PublicKey) VerifyMessage(msg, sig []byte) (bool, error) {
	pk.hash.Reset()
	if _, err := pk.hash.Write(msg); err != nil {
		return false, err
	}
	e := pk.hash.Sum(nil)
	return pk.Verify(e, sig)
}
