package mldsa

import (
	"bytes"
	"crypto/rand"
	"crypto/sha3"
	"testing"
)

// computeMu recomputes mu the same way signInternal/verifyInternal do, so
// tests can drive SignExtMu/VerifyExtMu with the same input a pure
// Sign/Verify call would derive internally.
func computeMu(tr [64]byte, context, message []byte) [64]byte {
	mPrime, err := buildMPrime(context, message)
	if err != nil {
		panic(err)
	}
	h := sha3.NewSHAKE256()
	h.Write(tr[:])
	h.Write(mPrime)
	var mu [64]byte
	h.Read(mu[:])
	return mu
}

func TestSignExtMuEquivalence44(t *testing.T) {
	key, err := GenerateKey44(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey44 failed: %v", err)
	}
	message := []byte("hello, external mu")

	mu := computeMu(key.tr, nil, message)
	sig, err := key.SignExtMu(rand.Reader, mu)
	if err != nil {
		t.Fatalf("SignExtMu failed: %v", err)
	}

	pk := key.PublicKey()
	if !pk.VerifyExtMu(sig, mu) {
		t.Error("VerifyExtMu returned false for a signature it produced")
	}
	if !pk.Verify(sig, message, nil) {
		t.Error("a SignExtMu signature did not verify under the pure Verify entry point")
	}

	wrongMu := mu
	wrongMu[0] ^= 0xFF
	if pk.VerifyExtMu(sig, wrongMu) {
		t.Error("VerifyExtMu accepted a signature under the wrong mu")
	}
}

func TestSignExtMuEquivalence65(t *testing.T) {
	key, err := GenerateKey65(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey65 failed: %v", err)
	}
	message := []byte("hello, external mu")

	mu := computeMu(key.tr, nil, message)
	sig, err := key.SignExtMu(rand.Reader, mu)
	if err != nil {
		t.Fatalf("SignExtMu failed: %v", err)
	}

	pk := key.PublicKey()
	if !pk.VerifyExtMu(sig, mu) {
		t.Error("VerifyExtMu returned false for a signature it produced")
	}
	if !pk.Verify(sig, message, nil) {
		t.Error("a SignExtMu signature did not verify under the pure Verify entry point")
	}
}

func TestSignExtMuEquivalence87(t *testing.T) {
	key, err := GenerateKey87(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey87 failed: %v", err)
	}
	message := []byte("hello, external mu")

	mu := computeMu(key.tr, nil, message)
	sig, err := key.SignExtMu(rand.Reader, mu)
	if err != nil {
		t.Fatalf("SignExtMu failed: %v", err)
	}

	pk := key.PublicKey()
	if !pk.VerifyExtMu(sig, mu) {
		t.Error("VerifyExtMu returned false for a signature it produced")
	}
	if !pk.Verify(sig, message, nil) {
		t.Error("a SignExtMu signature did not verify under the pure Verify entry point")
	}
}

func TestSignExtMuWithContext(t *testing.T) {
	key, err := GenerateKey65(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey65 failed: %v", err)
	}
	message := []byte("message with context")
	context := []byte("ext-mu context")

	mu := computeMu(key.tr, context, message)
	sig, err := key.SignExtMu(rand.Reader, mu)
	if err != nil {
		t.Fatalf("SignExtMu failed: %v", err)
	}

	pk := key.PublicKey()
	if !pk.Verify(sig, message, context) {
		t.Error("SignExtMu signature did not verify against its context-tagged message")
	}
	if pk.Verify(sig, message, nil) {
		t.Error("SignExtMu signature verified without the context it was signed under")
	}
}

func TestBadContextLength(t *testing.T) {
	key, err := GenerateKey65(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey65 failed: %v", err)
	}
	longContext := bytes.Repeat([]byte{0x42}, 256)

	if _, err := key.SignWithContext(rand.Reader, []byte("msg"), longContext); err != ErrBadContext {
		t.Errorf("SignWithContext with 256-byte context: got err %v, want %v", err, ErrBadContext)
	}

	if _, err := key.SignAttached(rand.Reader, []byte("msg"), longContext); err != ErrBadContext {
		t.Errorf("SignAttached with 256-byte context: got err %v, want %v", err, ErrBadContext)
	}

	pk := key.PublicKey()
	sig, _ := key.SignWithContext(rand.Reader, []byte("msg"), nil)
	if pk.Verify(sig, []byte("msg"), longContext) {
		t.Error("Verify accepted a 256-byte context")
	}
	if _, err := pk.Open(append(sig, []byte("msg")...), longContext); err != ErrBadContext {
		t.Errorf("Open with 256-byte context: got err %v, want %v", err, ErrBadContext)
	}
}
