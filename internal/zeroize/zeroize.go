// Package zeroize wipes secret material from memory at the end of its
// useful lifetime. Callers defer a wipe immediately next to every secret
// allocation (a mask, an unmasked scalar, a sampled nonce) rather than
// relying on the garbage collector.
package zeroize

import "runtime"

// Bytes overwrites b with zeros in place.
func Bytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// Limbs overwrites a uint64 limb slice with zeros in place. It takes
// []uint64 directly rather than an mpzn.Value so this package has no
// dependency on mpzn.
func Limbs(v []uint64) {
	for i := range v {
		v[i] = 0
	}
	runtime.KeepAlive(v)
}
