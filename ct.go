package mldsa

import "crypto/subtle"

// Constant-time helpers used where control flow or memory access would
// otherwise depend on secret-derived data (decoded signature/key material),
// per the branch/memory-access independence requirement of spec §5.
//
// These mirror the value-barrier based mld_ct_sel_int32 / mld_ct_cmask_neg_i32
// / mld_ct_abs_i32 helpers of the original C implementation, built instead on
// crypto/subtle — the standard constant-time primitive used throughout the Go
// cryptographic ecosystem (circl, x/crypto) rather than hand-rolled asm.

// ctSelU32 returns a if cond == 1, b if cond == 0. cond must be 0 or 1.
func ctSelU32(a, b uint32, cond int) uint32 {
	var out [4]byte
	var av, bv [4]byte
	putU32(av[:], a)
	putU32(bv[:], b)
	subtle.ConstantTimeCopy(1-cond, out[:], bv[:])
	subtle.ConstantTimeCopy(cond, out[:], av[:])
	return getU32(out[:])
}

// ctCmaskNegI32 returns 0xFFFFFFFF if x < 0, 0 otherwise.
func ctCmaskNegI32(x int32) uint32 {
	return uint32(x >> 31)
}

// ctAbsI32 returns |x| without a data-dependent branch.
func ctAbsI32(x int32) uint32 {
	mask := ctCmaskNegI32(x)
	u := uint32(x)
	return (u ^ mask) - mask
}

// ctEqual reports whether a and b are byte-for-byte equal, in time
// independent of where they first differ. Used for signature/challenge
// comparison instead of bytes.Equal.
func ctEqual(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
