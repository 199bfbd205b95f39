// Package signkey implements the GOST R 34.10-2012 secret signing key: a
// scalar d held only in multiplicatively masked form (k_masked, mask), with
// the mask refreshed on every sign. No code path in this package lets the
// unmasked scalar outlive a single function call.
package signkey

import (
	"hash"

	"golang.org/x/crypto/blake2b"

	"github.com/ak-go/gostsign/internal/zeroize"
	"github.com/ak-go/gostsign/mpzn"
	"github.com/ak-go/gostsign/random"
	"github.com/ak-go/gostsign/wcurve"
	"github.com/ak-go/gostsign/wpoint"
	"github.com/ak-go/gostsign/xerr"
)

// SecretKey is a masked GOST secret scalar bound to one curve, one hash
// collaborator and one RNG. It is not safe for concurrent signing: Sign
// mutates kMasked and mask on every call (the mask-refresh step), so callers
// must serialize access to a single key.
type SecretKey struct {
	curve *wcurve.Curve

	kMasked mpzn.Value // Montgomery mod Q; undefined until maskSet
	mask    mpzn.Value // Montgomery mod Q; undefined until maskSet
	maskSet bool

	hash hash.Hash
	rng  random.Source
}

// New returns an empty SecretKey bound to wc, h (the streaming hash
// collaborator SignMessage uses) and rng (the entropy source SetKeyRandom,
// Sign and the mask refresh draw from). The key holds no scalar until
// SetKey or SetKeyRandom is called.
func New(wc *wcurve.Curve, h hash.Hash, rng random.Source) *SecretKey {
	return &SecretKey{
		curve:   wc,
		kMasked: mpzn.New(wc.Size),
		mask:    mpzn.New(wc.Size),
		hash:    h,
		rng:     rng,
	}
}

// NewBlake2b256 returns a SecretKey for wc bound to blake2b-256 as its
// streaming hash collaborator, the 256-bit message-representative digest
// SignMessage needs when no caller-supplied hash.Hash is at hand.
func NewBlake2b256(wc *wcurve.Curve, rng random.Source) (*SecretKey, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, err
	}
	return New(wc, h, rng), nil
}

// NewBlake2b512 is NewBlake2b256's 512-bit-curve counterpart, bound to
// blake2b-512.
func NewBlake2b512(wc *wcurve.Curve, rng random.Source) (*SecretKey, error) {
	h, err := blake2b.New512(nil)
	if err != nil {
		return nil, err
	}
	return New(wc, h, rng), nil
}

// Curve returns the curve sk is bound to.
func (sk *SecretKey) Curve() *wcurve.Curve {
	return sk.curve
}

// SetKey installs d, a Curve.Size*8-byte little-endian scalar, as the
// secret key: d is reduced mod Q and immediately masked, so the key never
// sits in memory unblinded. d is not retained; the caller's buffer is not
// modified.
func (sk *SecretKey) SetKey(d []byte) error {
	n := sk.curve.Size
	if len(d) != n*8 {
		return xerr.ErrWrongLength
	}
	natural := mpzn.New(n)
	if err := mpzn.SetBytes(natural, d); err != nil {
		return err
	}
	defer zeroize.Limbs(natural)

	mpzn.Rem(sk.kMasked, natural, sk.curve.Q)
	sk.maskSet = false
	return sk.refreshMask()
}

// SetKeyRandom samples a fresh secret scalar from sk's bound RNG and
// installs it exactly as SetKey would.
func (sk *SecretKey) SetKeyRandom() error {
	n := sk.curve.Size
	d := mpzn.New(n)
	if err := mpzn.SetRandomModulo(d, sk.curve.Q, sk.rng); err != nil {
		return err
	}
	defer zeroize.Limbs(d)

	sk.kMasked.Set(d)
	sk.maskSet = false
	return sk.refreshMask()
}

// refreshMask installs or re-randomizes the multiplicative mask. On the
// first call it samples m, replaces kMasked (currently the natural-domain
// reduced scalar) by d*m (mod Q) in Montgomery form, and stores m^-1 as
// mask. On every later call it blinds by a fresh zeta instead: kMasked *=
// zeta, mask *= zeta^-1, which preserves kMasked*mask == d (mod Q).
//
// The freshly sampled mask bytes are reduced mod Q and then treated as
// already Montgomery-encoded rather than lifted via R2Q. A uniformly random
// residue is its own uniformly random Montgomery representative, up to a
// negligible boundary bias near Q.
func (sk *SecretKey) refreshMask() error {
	n := sk.curve.Size
	wc := sk.curve

	qMinus2 := mpzn.New(n)
	two := mpzn.New(n)
	mpzn.SetUint64(two, 2)
	mpzn.Sub(qMinus2, wc.Q, two, wc.Q)

	if !sk.maskSet {
		m, err := sampleLimbs(n, sk.rng)
		if err != nil {
			return err
		}
		mpzn.Rem(m, m, wc.Q)

		mpzn.Rem(sk.kMasked, sk.kMasked, wc.Q)
		mpzn.ToMontgomery(sk.kMasked, sk.kMasked, wc.R2Q, wc.Q, wc.N0Q)
		mpzn.MulMontgomery(sk.kMasked, sk.kMasked, m, wc.Q, wc.N0Q)

		mpzn.ModPowMontgomery(m, m, qMinus2, wc.Q, wc.N0Q)
		sk.mask = m
		sk.maskSet = true
		return nil
	}

	zeta, err := sampleLimbs(n, sk.rng)
	if err != nil {
		return err
	}
	mpzn.Rem(zeta, zeta, wc.Q)

	mpzn.MulMontgomery(sk.kMasked, sk.kMasked, zeta, wc.Q, wc.N0Q)
	mpzn.ModPowMontgomery(zeta, zeta, qMinus2, wc.Q, wc.N0Q)
	mpzn.MulMontgomery(sk.mask, sk.mask, zeta, wc.Q, wc.N0Q)
	return nil
}

// sampleLimbs draws size*8 raw bytes from rng and loads them as an mpzn
// Value, with no rejection sampling: refreshMask's inputs (the mask m and
// the blinding factor zeta) are reduced mod Q by the caller immediately
// after, so an unreduced draw is the correct raw material, unlike
// mpzn.SetRandomModulo's uniform-residue contract.
func sampleLimbs(size int, rng random.Source) (mpzn.Value, error) {
	buf := make([]byte, size*8)
	if _, err := rng.Read(buf); err != nil {
		return nil, err
	}
	v := mpzn.New(size)
	if err := mpzn.SetBytes(v, buf); err != nil {
		return nil, err
	}
	return v, nil
}

// Unmask returns the natural-domain secret scalar d, the only place in this
// package the raw key is ever materialized. Callers must treat the result
// as secret and wipe it themselves; it exists for key destruction/export
// paths, never for signing (Sign always works through kMasked/mask).
func (sk *SecretKey) Unmask() (mpzn.Value, error) {
	if !sk.maskSet {
		return nil, xerr.ErrUndefinedFunction
	}
	n := sk.curve.Size
	wc := sk.curve
	natural := mpzn.New(n)
	mpzn.MulMontgomery(natural, sk.kMasked, sk.mask, wc.Q, wc.N0Q)
	mpzn.FromMontgomery(natural, natural, wc.Q, wc.N0Q)
	return natural, nil
}

// PublicPoint derives Q = [d]P using only the masked representation,
// exploiting that scalar multiplication is a group homomorphism:
// [mask]([k_masked]P) == [k_masked*mask]P == [d]P. Both scalars are taken
// out of Montgomery form before the scan, since wpoint.Pow expects a
// natural-domain scalar. The mask is refreshed before returning, since this
// is the one derivation that reads kMasked and mask in the same operation.
func (sk *SecretKey) PublicPoint() (*wpoint.Point, error) {
	if !sk.maskSet {
		return nil, xerr.ErrUndefinedFunction
	}
	n := sk.curve.Size
	wc := sk.curve

	kNat := mpzn.New(n)
	mpzn.FromMontgomery(kNat, sk.kMasked, wc.Q, wc.N0Q)

	gen := wpoint.New(n)
	wpoint.SetGenerator(gen, wc)

	q := wpoint.New(n)
	wpoint.Pow(q, gen, wc, kNat)

	maskNat := mpzn.New(n)
	mpzn.FromMontgomery(maskNat, sk.mask, wc.Q, wc.N0Q)
	wpoint.Pow(q, q, wc, maskNat)

	wpoint.Reduce(q, wc)

	if err := sk.refreshMask(); err != nil {
		return nil, err
	}
	return q, nil
}

// signWithK computes the raw (r, s) pair for a caller-supplied nonce k and
// message representative e, with no restart-on-zero handling and no mask
// refresh; both of those belong to the callers. r and s are natural-domain
// Q-scalars.
func (sk *SecretKey) signWithK(k mpzn.Value, e []byte) (r, s mpzn.Value, err error) {
	n := sk.curve.Size
	wc := sk.curve
	if len(e) != n*8 {
		return nil, nil, xerr.ErrWrongLength
	}

	gen := wpoint.New(n)
	wpoint.SetGenerator(gen, wc)
	c := wpoint.New(n)
	wpoint.Pow(c, gen, wc, k)
	wpoint.Reduce(c, wc)

	r = mpzn.New(n)
	wpoint.ScalarX(r, c, wc)

	rMont := mpzn.New(n)
	mpzn.ToMontgomery(rMont, r, wc.R2Q, wc.Q, wc.N0Q)

	s = mpzn.New(n)
	mpzn.MulMontgomery(s, rMont, sk.kMasked, wc.Q, wc.N0Q)
	mpzn.MulMontgomery(s, s, sk.mask, wc.Q, wc.N0Q)

	kMont := mpzn.New(n)
	mpzn.ToMontgomery(kMont, k, wc.R2Q, wc.Q, wc.N0Q)

	eNat := mpzn.New(n)
	if err := mpzn.SetBytes(eNat, e); err != nil {
		return nil, nil, err
	}
	mpzn.Rem(eNat, eNat, wc.Q)
	if eNat.IsZero() {
		mpzn.SetUint64(eNat, 1)
	}
	eMont := mpzn.New(n)
	mpzn.ToMontgomery(eMont, eNat, wc.R2Q, wc.Q, wc.N0Q)

	ke := mpzn.New(n)
	mpzn.MulMontgomery(ke, kMont, eMont, wc.Q, wc.N0Q)
	mpzn.Add(s, s, ke, wc.Q)
	mpzn.FromMontgomery(s, s, wc.Q, wc.N0Q)

	return r, s, nil
}

// encodeSignature writes r||s as the 2*Curve.Size*8-byte little-endian-limb
// wire signature.
func encodeSignature(r, s mpzn.Value) []byte {
	out := make([]byte, 0, len(r)*8+len(s)*8)
	out = append(out, r.Bytes()...)
	out = append(out, s.Bytes()...)
	return out
}

// SignDeterministic signs e with the caller-supplied nonce k instead of a
// freshly sampled one. This is the entry point the GOST R 34.10-2012
// Annex A known-answer tests need, since those fix k; it performs no
// r=0/s=0 restart (a fixed k leaves nothing to restart with). The mask is
// still refreshed before returning.
func (sk *SecretKey) SignDeterministic(k mpzn.Value, e []byte) ([]byte, error) {
	if !sk.maskSet {
		return nil, xerr.ErrUndefinedFunction
	}
	r, s, err := sk.signWithK(k, e)
	if err != nil {
		return nil, err
	}
	out := encodeSignature(r, s)
	if err := sk.refreshMask(); err != nil {
		return nil, err
	}
	return out, nil
}

// Sign produces a GOST R 34.10-2012 signature over message representative e
// (Curve.Size*8 bytes, typically a hash digest). A freshly sampled nonce k
// is retried whenever r or s comes out zero, an astronomically unlikely
// event for a uniform 256/512-bit q but one the standard requires handling.
// The nonce is wiped before return; the mask is refreshed exactly once,
// after a signature is accepted.
func (sk *SecretKey) Sign(e []byte) ([]byte, error) {
	if !sk.maskSet {
		return nil, xerr.ErrUndefinedFunction
	}
	n := sk.curve.Size

	var r, s mpzn.Value
	k := mpzn.New(n)
	for {
		if err := mpzn.SetRandomModulo(k, sk.curve.Q, sk.rng); err != nil {
			return nil, err
		}
		var err error
		r, s, err = sk.signWithK(k, e)
		if err != nil {
			zeroize.Limbs(k)
			return nil, err
		}
		if r.IsZero() || s.IsZero() {
			continue
		}
		break
	}
	zeroize.Limbs(k)

	out := encodeSignature(r, s)
	if err := sk.refreshMask(); err != nil {
		return nil, err
	}
	return out, nil
}

// SignMessage hashes msg with sk's bound hash collaborator and signs the
// resulting digest.
func (sk *SecretKey) SignMessage(msg []byte) ([]byte, error) {
	sk.hash.Reset()
	if _, err := sk.hash.Write(msg); err != nil {
		return nil, err
	}
	e := sk.hash.Sum(nil)
	return sk.Sign(e)
}

// Destroy wipes kMasked and mask and clears maskSet. The key is unusable
// afterward; a new scalar must be installed before it can sign again.
func (sk *SecretKey) Destroy() {
	zeroize.Limbs(sk.kMasked)
	zeroize.Limbs(sk.mask)
	sk.maskSet = false
}
