// Package xerr defines the sentinel errors this module returns. Callers
// compare with errors.Is; error strings are not part of the contract.
package xerr

import "errors"

var (
	// ErrNullPointer is returned when a required argument is nil.
	ErrNullPointer = errors.New("mpzn/wcurve/wpoint/signkey/verifykey: null argument")

	// ErrWrongLength is returned when a byte slice or limb slice does not
	// match the width a curve or key requires.
	ErrWrongLength = errors.New("wrong length")

	// ErrZeroLength is returned when a required buffer is empty.
	ErrZeroLength = errors.New("zero length")

	// ErrCurveNotSupported is returned when a curve name or OID does not
	// resolve to a compiled-in parameter bundle.
	ErrCurveNotSupported = errors.New("curve not supported")

	// ErrOIDEngine is returned when an OID lookup's engine does not match
	// any registered entry.
	ErrOIDEngine = errors.New("oid: unknown engine")

	// ErrOIDMode is returned when an OID lookup's mode does not match any
	// registered entry.
	ErrOIDMode = errors.New("oid: unknown mode")

	// ErrOIDID is returned when an OID lookup's identifier does not match
	// any registered entry.
	ErrOIDID = errors.New("oid: unknown id")

	// ErrOIDName is returned when an OID lookup's name does not match any
	// registered entry.
	ErrOIDName = errors.New("oid: unknown name")

	// ErrNotEqualData names a signature that does not verify. Verify does
	// not return it: a failed verification is a false result with a nil
	// error.
	ErrNotEqualData = errors.New("signature does not verify")

	// ErrUndefinedFunction is returned when an operation has no
	// meaning for the object it was handed (e.g. signing, unmasking or
	// deriving a public point from a SecretKey that holds no scalar).
	ErrUndefinedFunction = errors.New("undefined for this argument")

	// ErrSingularPoint names the point at infinity reaching a context that
	// requires an affine result. No function in this module returns it;
	// wpoint.Reduce has no error result.
	ErrSingularPoint = errors.New("point at infinity")
)

// Allocation failure has no sentinel: in Go it is a runtime panic, not a
// recoverable error value.
