// Package wcurve holds the compiled-in short-Weierstrass curve parameter
// bundles this module supports. Curves are never constructed at runtime;
// each one is built exactly once, on first use, from literal hex parameter
// strings.
package wcurve

import (
	"fmt"
	"sync"

	"github.com/ak-go/gostsign/mpzn"
)

// Curve is an immutable parameter bundle for one short-Weierstrass curve
// y^2 = x^3 + ax + b (mod P), plus its prime-order subgroup of order Q
// generated by (Gx, Gy). A, B, Gx and Gy are stored in Montgomery form mod
// P; P and Q themselves are natural-domain values. R2P/N0P and R2Q/N0Q are
// the Montgomery constants for modulus P and Q respectively.
type Curve struct {
	Name     string
	Size     int // mpzn.Size256 or mpzn.Size512
	Cofactor uint64

	P mpzn.Value
	Q mpzn.Value

	R2P mpzn.Value
	N0P uint64
	R2Q mpzn.Value
	N0Q uint64

	A  mpzn.Value // Montgomery mod P
	B  mpzn.Value // Montgomery mod P
	Gx mpzn.Value // Montgomery mod P
	Gy mpzn.Value // Montgomery mod P
}

// params is the literal, big-endian-hex description of one curve, the
// source of truth a Curve is built from.
type params struct {
	name           string
	size           int
	cofactor       uint64
	pHex, qHex     string
	aHex, bHex     string
	gxHex, gyHex   string
}

func build(p params) *Curve {
	c := &Curve{Name: p.name, Size: p.size, Cofactor: p.cofactor}

	c.P = mpzn.New(p.size)
	if err := mpzn.SetHex(c.P, p.pHex); err != nil {
		panic(fmt.Sprintf("wcurve: %s: bad P literal: %v", p.name, err))
	}
	c.Q = mpzn.New(p.size)
	if err := mpzn.SetHex(c.Q, p.qHex); err != nil {
		panic(fmt.Sprintf("wcurve: %s: bad Q literal: %v", p.name, err))
	}

	c.N0P = mpzn.N0(c.P)
	c.R2P = mpzn.R2(c.P)
	c.N0Q = mpzn.N0(c.Q)
	c.R2Q = mpzn.R2(c.Q)

	aNat := mpzn.New(p.size)
	if err := mpzn.SetHex(aNat, p.aHex); err != nil {
		panic(fmt.Sprintf("wcurve: %s: bad A literal: %v", p.name, err))
	}
	bNat := mpzn.New(p.size)
	if err := mpzn.SetHex(bNat, p.bHex); err != nil {
		panic(fmt.Sprintf("wcurve: %s: bad B literal: %v", p.name, err))
	}
	gxNat := mpzn.New(p.size)
	if err := mpzn.SetHex(gxNat, p.gxHex); err != nil {
		panic(fmt.Sprintf("wcurve: %s: bad Gx literal: %v", p.name, err))
	}
	gyNat := mpzn.New(p.size)
	if err := mpzn.SetHex(gyNat, p.gyHex); err != nil {
		panic(fmt.Sprintf("wcurve: %s: bad Gy literal: %v", p.name, err))
	}

	c.A = mpzn.New(p.size)
	c.B = mpzn.New(p.size)
	c.Gx = mpzn.New(p.size)
	c.Gy = mpzn.New(p.size)
	mpzn.ToMontgomery(c.A, aNat, c.R2P, c.P, c.N0P)
	mpzn.ToMontgomery(c.B, bNat, c.R2P, c.P, c.N0P)
	mpzn.ToMontgomery(c.Gx, gxNat, c.R2P, c.P, c.N0P)
	mpzn.ToMontgomery(c.Gy, gyNat, c.R2P, c.P, c.N0P)

	return c
}

var (
	once256  sync.Once
	curve256 *Curve
	once512  sync.Once
	curve512 *Curve
)

// initCurve256 builds the 256-bit GOST R 34.10-2012 test curve from Annex A
// of the standard.
func initCurve256() {
	curve256 = build(params{
		name:     "id-tc26-gost-3410-2012-256-paramSetTest",
		size:     mpzn.Size256,
		cofactor: 1,
		pHex:     "8000000000000000000000000000000000000000000000000000000000000431",
		qHex:     "8000000000000000000000000000000150FE8A1892976154C59CFC193ACCF5B3",
		aHex:     "0000000000000000000000000000000000000000000000000000000000000007",
		bHex:     "5FBFF498AA938CE739B8E022FBAFEF40563F6E6A3472FC2A514C0CE9DAE23B7E",
		gxHex:    "0000000000000000000000000000000000000000000000000000000000000002",
		gyHex:    "08E2A8A0E65147D4BD6316030E16D19C85C97F0A9CA267122B96ABBCEA7E8FC8",
	})
}

// Curve256 returns the 256-bit test curve, building it on first call.
func Curve256() *Curve {
	once256.Do(initCurve256)
	return curve256
}

// initCurve512 builds the 512-bit GOST R 34.10-2012 test curve from Annex A
// of the standard.
func initCurve512() {
	curve512 = build(params{
		name:     "id-tc26-gost-3410-2012-512-paramSetTest",
		size:     mpzn.Size512,
		cofactor: 1,
		pHex:     "4531ACD1FE0023C7550D267B6B2FEE80922B14B2FFB90F04D4EB7C09B5D2D15DF1D852741AF4704A0458047E80E4546D35B8336FAC224DD81664BBF528BE6373",
		qHex:     "4531ACD1FE0023C7550D267B6B2FEE80922B14B2FFB90F04D4EB7C09B5D2D15DA82F2D7ECB1DBAC719905C5EECC423F1D86E25EDBE23C595D644AAF187E6E6DF",
		aHex:     "00000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000007",
		bHex:     "1CFF0806A31116DA29D8CFA54E57EB748BC5F377E49400FDD788B649ECA1AC4361834013B2AD7322480A89CA58E0CF74BC9E540C2ADD6897FAD0A3084F302ADC",
		gxHex:    "24D19CC64572EE30F396BF6EBBFD7A6C5213B3B3D7057CC825F91093A68CD762FD60611262CD838DC6B60AA7EEE804E28BC849977FAC33B4B530F1B120248A9A",
		gyHex:    "2BB312A43BD2CE6E0D020613C857ACDDCFBF061E91E5F2C3F32447C259F39B2C83AB156D77F1496BF7EB3351E1EE4E43DC1A18B91B24640B6DBB92CB1ADD371E",
	})
}

// Curve512 returns the compiled-in 512-bit parameter set, building it on
// first call.
func Curve512() *Curve {
	once512.Do(initCurve512)
	return curve512
}

// All returns every compiled-in curve, the set the OID registry's
// wcurve_params entries expose.
func All() []*Curve {
	return []*Curve{Curve256(), Curve512()}
}

// Discriminant computes 16*(4*a^3 + 27*b^2) mod P in the Montgomery domain,
// using only Montgomery multiplications and modular doublings so the result
// stays in the same domain A and B are stored in. A zero result means the
// curve is singular.
func Discriminant(c *Curve) mpzn.Value {
	n := c.Size
	mm := func(out, x, y mpzn.Value) { mpzn.MulMontgomery(out, x, y, c.P, c.N0P) }
	dbl := func(v mpzn.Value) { mpzn.Add(v, v, v, c.P) }

	a3 := mpzn.New(n)
	mm(a3, c.A, c.A)
	mm(a3, a3, c.A)
	dbl(a3)
	dbl(a3)

	b2 := mpzn.New(n)
	mm(b2, c.B, c.B)
	// 27*b^2 assembled as b^2 + 2*b^2 + 8*b^2 + 16*b^2.
	acc := mpzn.New(n)
	acc.Set(b2)
	dbl(b2)
	mpzn.Add(acc, acc, b2, c.P)
	dbl(b2)
	dbl(b2)
	mpzn.Add(acc, acc, b2, c.P)
	dbl(b2)
	mpzn.Add(acc, acc, b2, c.P)

	out := mpzn.New(n)
	mpzn.Add(out, a3, acc, c.P)
	dbl(out)
	dbl(out)
	dbl(out)
	dbl(out)
	return out
}

// IsOK reports whether c passes the full parameter self-test.
func IsOK(c *Curve) bool {
	return SelfTest(c) == nil
}
