package mldsa

import "testing"

func TestUnpackEta2RejectsOutOfRange(t *testing.T) {
	b := make([]byte, encodingSize3)
	b[0] = 0xFF // first two 3-bit groups hold value 7, out of [0,4] range
	if _, err := unpackEta2(b); err != ErrBadSignatureEncoding {
		t.Errorf("unpackEta2 on out-of-range input: got err %v, want %v", err, ErrBadSignatureEncoding)
	}
}

func TestUnpackEta4RejectsOutOfRange(t *testing.T) {
	b := make([]byte, encodingSize4)
	b[0] = 0xFF // both nibbles hold 15, out of [0,8] range
	if _, err := unpackEta4(b); err != ErrBadSignatureEncoding {
		t.Errorf("unpackEta4 on out-of-range input: got err %v, want %v", err, ErrBadSignatureEncoding)
	}
}

func TestEta2PackUnpackRoundtrip(t *testing.T) {
	var f ringElement
	for i := range f {
		// packEta2 expects coefficients already in field form (fieldSub(2, v)
		// for v in [0,4]), the same form sampleBoundedPoly produces.
		f[i] = fieldSub(2, fieldElement(i%5))
	}
	packed := packEta2(f)
	got, err := unpackEta2(packed)
	if err != nil {
		t.Fatalf("unpackEta2 failed on packEta2 output: %v", err)
	}
	if got != f {
		t.Error("eta2 pack/unpack roundtrip mismatch")
	}
}

func TestPackHintUnpackHintRoundtrip(t *testing.T) {
	const k, omega = 4, 80
	hints := make([]ringElement, k)
	hints[0][3] = 1
	hints[0][200] = 1
	hints[2][0] = 1

	packed := packHint(hints, omega)
	got := make([]ringElement, k)
	if !unpackHint(packed, got, omega) {
		t.Fatal("unpackHint rejected a valid packing")
	}
	for i := range hints {
		if hints[i] != got[i] {
			t.Errorf("hint vector %d mismatch: got %v, want %v", i, got[i], hints[i])
		}
	}
}

func TestUnpackHintRejectsNonMonotonicCounts(t *testing.T) {
	const k, omega = 2, 4
	b := make([]byte, omega+k)
	b[1] = 1       // poly 0's indices 0, 1 are strictly increasing
	b[omega] = 2   // poly 0 claims indices [0,2)
	b[omega+1] = 1 // poly 1 claims indices [2,1), not monotonic
	hints := make([]ringElement, k)
	if unpackHint(b, hints, omega) {
		t.Error("unpackHint accepted non-monotonic cumulative counts")
	}
}

func TestUnpackHintRejectsNonIncreasingIndices(t *testing.T) {
	const k, omega = 1, 4
	b := make([]byte, omega+k)
	b[0] = 5
	b[1] = 5 // duplicate index, not strictly increasing
	b[omega] = 2
	hints := make([]ringElement, k)
	if unpackHint(b, hints, omega) {
		t.Error("unpackHint accepted a non-strictly-increasing index sequence")
	}
}

func TestUnpackHintRejectsNonZeroTail(t *testing.T) {
	const k, omega = 1, 4
	b := make([]byte, omega+k)
	b[0] = 1
	b[omega] = 1
	b[1] = 0xAB // unused tail byte must be zero
	hints := make([]ringElement, k)
	if unpackHint(b, hints, omega) {
		t.Error("unpackHint accepted a non-zero byte in the unused hint tail")
	}
}
