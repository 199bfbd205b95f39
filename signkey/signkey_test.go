package signkey

import (
	"bytes"
	"testing"

	"github.com/ak-go/gostsign/mpzn"
	"github.com/ak-go/gostsign/random"
	"github.com/ak-go/gostsign/wcurve"
)

// The secret keys, message representatives, nonces and expected signatures
// below are the two worked examples from GOST R 34.10-2012 Annex A. Each
// mpzn.Value literal is the little-endian limb sequence of the standard's
// big-endian hex constant, so .Bytes() reproduces the exact wire encoding
// this package expects.

var annexA256D = mpzn.Value{0x1D19CE9891EC3B28, 0x1B60961F49397EEE, 0x10ED359DD39A72C1, 0x7A929ADE789BB9BE}
var annexA256E = mpzn.Value{0x67ECE6672B043EE5, 0xCE52032AB1022E8E, 0x88C09C52E0EEC61F, 0x2DFBC1B372D89A11}
var annexA256K = mpzn.Value{0x4FED924594DCEAB3, 0x6DE33814E95B7FE6, 0x2823C8CF6FCC7B95, 0x77105C9B20BCD312}

var annexA256Sign = []byte{
	0x93, 0x04, 0xDC, 0x39, 0xFD, 0x43, 0xD0, 0x3A, 0xB8, 0x67, 0x27, 0xA4, 0x54, 0x35, 0x05, 0x74,
	0x19, 0xA4, 0xED, 0x6F, 0xD5, 0x9E, 0xCD, 0x80, 0x82, 0x14, 0xAB, 0xF1, 0xD2, 0x28, 0xAA, 0x41,
	0x40, 0x9C, 0xBF, 0xC5, 0xF6, 0x14, 0x80, 0x92, 0xDF, 0x31, 0xB6, 0x46, 0xF7, 0xD3, 0xD6, 0xBC,
	0x49, 0x02, 0xA6, 0x98, 0x5A, 0x23, 0x3C, 0x65, 0xA1, 0x42, 0x46, 0xBA, 0x64, 0x6C, 0x45, 0x01,
}

var annexA512D = mpzn.Value{
	0xC62967821FA18DD4, 0xA2636B7BFD18AADF, 0x3322DAD2827E2714, 0x72E8123B2200A056,
	0x0EE7508E508B1020, 0x3091A0E851466970, 0xA40936D47756D7C9, 0x0BA6048AADAE241B,
}
var annexA512E = mpzn.Value{
	0xC6777D2972075B8C, 0x407ADEDB1D560C4F, 0x4339976C647C5D5A, 0x7184EE536593F441,
	0xA71D147035B0C591, 0x1B09B6F9C170C533, 0x5C4F4A7C4D8DAB53, 0x3754F3CFACC9E061,
}
var annexA512K = mpzn.Value{
	0xA3AF71BB1AE679F1, 0x212273A6D14CF70E, 0x4434006011842286, 0x86748ED7A44B3E79,
	0xD455986E364F3658, 0x946312120B39D019, 0xCC570456C6801496, 0x0359E7F4B1410FEA,
}

var annexA512Sign = []byte{
	0x36, 0xAE, 0x73, 0xE1, 0x44, 0x93, 0xE1, 0x17, 0x33, 0x5C, 0x9C, 0xCD, 0xCB, 0x3B, 0xC9, 0x60,
	0x02, 0x85, 0x99, 0x06, 0xC9, 0x97, 0xC1, 0x9E, 0x1C, 0x0F, 0xB2, 0x86, 0x84, 0x55, 0x92, 0x54,
	0xD3, 0xAC, 0xFC, 0xA8, 0xEE, 0x78, 0x3C, 0x64, 0xC2, 0xDC, 0xE0, 0x2E, 0xC8, 0xA3, 0x12, 0xE5,
	0x9E, 0x68, 0x3C, 0x1E, 0x5E, 0x79, 0xDD, 0x23, 0x1A, 0x09, 0x81, 0xA0, 0x60, 0xFA, 0x86, 0x2F,
	0x4A, 0x5B, 0x3E, 0xE7, 0xBD, 0x53, 0x98, 0x2A, 0xB9, 0x9C, 0x91, 0x56, 0x1F, 0xEB, 0x6E, 0x6A,
	0x40, 0xCE, 0x70, 0x7F, 0xDF, 0x80, 0x60, 0x52, 0x62, 0xF3, 0xC4, 0xE8, 0x88, 0xE2, 0x3C, 0x82,
	0xF5, 0x2F, 0xD5, 0x33, 0xE9, 0xFB, 0x0B, 0x1C, 0x08, 0xBC, 0xAD, 0x8A, 0x77, 0x56, 0x5F, 0x32,
	0xB6, 0x26, 0x2D, 0x36, 0xA9, 0xE7, 0x85, 0x65, 0x8E, 0xFE, 0x6F, 0x69, 0x94, 0xB3, 0x81, 0x10,
}

func TestSignDeterministicMatchesAnnexAVector256(t *testing.T) {
	sk := New(wcurve.Curve256(), nil, random.NewLCGSource(1))
	if err := sk.SetKey(annexA256D.Bytes()); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	sig, err := sk.SignDeterministic(annexA256K, annexA256E.Bytes())
	if err != nil {
		t.Fatalf("SignDeterministic: %v", err)
	}
	if !bytes.Equal(sig, annexA256Sign) {
		t.Fatalf("SignDeterministic mismatch:\n got %x\nwant %x", sig, annexA256Sign)
	}
}

func TestSignDeterministicMatchesAnnexAVector512(t *testing.T) {
	sk := New(wcurve.Curve512(), nil, random.NewLCGSource(1))
	if err := sk.SetKey(annexA512D.Bytes()); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	sig, err := sk.SignDeterministic(annexA512K, annexA512E.Bytes())
	if err != nil {
		t.Fatalf("SignDeterministic: %v", err)
	}
	if !bytes.Equal(sig, annexA512Sign) {
		t.Fatalf("SignDeterministic mismatch:\n got %x\nwant %x", sig, annexA512Sign)
	}
}

func TestSetKeyRejectsWrongLength(t *testing.T) {
	sk := New(wcurve.Curve256(), nil, random.NewLCGSource(1))
	if err := sk.SetKey(make([]byte, 10)); err == nil {
		t.Fatalf("SetKey: expected an error for a short key")
	}
}

func TestSignBeforeSetKeyFails(t *testing.T) {
	sk := New(wcurve.Curve256(), nil, random.NewLCGSource(1))
	if _, err := sk.Sign(make([]byte, wcurve.Curve256().Size*8)); err == nil {
		t.Fatalf("Sign: expected an error before any key material is installed")
	}
}

func TestSignProducesVaryingSignaturesAcrossCalls(t *testing.T) {
	sk := New(wcurve.Curve256(), nil, random.NewLCGSource(7))
	if err := sk.SetKeyRandom(); err != nil {
		t.Fatalf("SetKeyRandom: %v", err)
	}
	e := make([]byte, wcurve.Curve256().Size*8)
	e[0] = 0x42

	sig1, err := sk.Sign(e)
	if err != nil {
		t.Fatalf("Sign (1): %v", err)
	}
	sig2, err := sk.Sign(e)
	if err != nil {
		t.Fatalf("Sign (2): %v", err)
	}
	if bytes.Equal(sig1, sig2) {
		t.Fatalf("Sign produced identical signatures for the same message on two calls")
	}
}

func TestUnmaskRecoversInstalledScalar(t *testing.T) {
	sk := New(wcurve.Curve256(), nil, random.NewLCGSource(3))
	if err := sk.SetKey(annexA256D.Bytes()); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	wc := wcurve.Curve256()
	want := mpzn.New(wc.Size)
	mpzn.Rem(want, annexA256D, wc.Q)

	got, err := sk.Unmask()
	if err != nil {
		t.Fatalf("Unmask: %v", err)
	}
	if mpzn.Cmp(got, want) != 0 {
		t.Fatalf("Unmask: got %s, want %s", got.Hex(), want.Hex())
	}
}

func TestPublicPointIsStableAcrossMaskRefreshes(t *testing.T) {
	sk := New(wcurve.Curve256(), nil, random.NewLCGSource(11))
	if err := sk.SetKey(annexA256D.Bytes()); err != nil {
		t.Fatalf("SetKey: %v", err)
	}

	p1, err := sk.PublicPoint()
	if err != nil {
		t.Fatalf("PublicPoint (1): %v", err)
	}
	p2, err := sk.PublicPoint()
	if err != nil {
		t.Fatalf("PublicPoint (2): %v", err)
	}
	if mpzn.Cmp(p1.X, p2.X) != 0 || mpzn.Cmp(p1.Y, p2.Y) != 0 {
		t.Fatalf("PublicPoint changed across calls despite the mask being re-randomized each time")
	}
}

func TestDestroyClearsKeyMaterial(t *testing.T) {
	sk := New(wcurve.Curve256(), nil, random.NewLCGSource(5))
	if err := sk.SetKey(annexA256D.Bytes()); err != nil {
		t.Fatalf("SetKey: %v", err)
	}
	sk.Destroy()

	if sk.maskSet {
		t.Fatalf("Destroy left maskSet true")
	}
	if !sk.kMasked.IsZero() || !sk.mask.IsZero() {
		t.Fatalf("Destroy did not wipe kMasked/mask")
	}
	if _, err := sk.Sign(make([]byte, wcurve.Curve256().Size*8)); err == nil {
		t.Fatalf("Sign succeeded after Destroy")
	}
}

func TestSign512ProducesFullLengthSignature(t *testing.T) {
	wc := wcurve.Curve512()
	sk := New(wc, nil, random.NewLCGSource(99))
	if err := sk.SetKeyRandom(); err != nil {
		t.Fatalf("SetKeyRandom: %v", err)
	}

	e := make([]byte, wc.Size*8)
	e[0] = 0x01
	sig, err := sk.Sign(e)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if len(sig) != 2*wc.Size*8 {
		t.Fatalf("Sign: signature length %d, want %d", len(sig), 2*wc.Size*8)
	}
}
