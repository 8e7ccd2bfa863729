package mldsa

import "errors"

// Sentinel errors surfaced by the package's error-returning operations.
//
// Verify and VerifyExtMu never return these directly — per FIPS 204 they
// collapse every internal mismatch into a single boolean — but Sign, Open
// and the PCT-checked key constructors do, so callers can tell a malformed
// context apart from a malformed signature blob.
var (
	// ErrBadContext is returned when a context string longer than 255
	// bytes is passed to Sign, SignWithContext, SignAttached, Open or
	// VerifyWithError. Verify reports it as a plain false.
	ErrBadContext = errors.New("mldsa: context too long")

	// ErrBadSignatureEncoding is returned when a blob fails a structural
	// check: a signature of the wrong length, a hint block whose
	// cumulative counts are not monotonic, per-polynomial indices that
	// are not strictly increasing, a non-zero byte in the unused tail
	// of the hint prefix, a signed message shorter than a signature, or
	// a secret-key s1/s2 coefficient outside [-eta, eta]. A secret key of
	// the wrong length is reported with a different, untyped error.
	ErrBadSignatureEncoding = errors.New("mldsa: malformed signature encoding")

	// ErrNormViolation is returned by VerifyWithError and the internal
	// verification paths when a decoded z exceeds its declared bound.
	// Signing never returns it. The public Verify/VerifyExtMu methods
	// report this as a plain false.
	ErrNormViolation = errors.New("mldsa: norm violation")

	// ErrChallengeMismatch is returned by VerifyWithError when the
	// recomputed challenge hash does not match the one embedded in the
	// signature, and by Open whenever verification of the signed message
	// fails, whatever the cause.
	ErrChallengeMismatch = errors.New("mldsa: challenge mismatch")

	// ErrPctFailure is returned by the PCT-checked key constructors when
	// the post-keygen sign/verify self-test fails.
	ErrPctFailure = errors.New("mldsa: pairwise consistency test failed")
)
