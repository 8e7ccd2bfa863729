package mldsa

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestPower2RoundReconstructs(t *testing.T) {
	for r := fieldElement(0); r < q; r += 997 {
		r1, r0 := power2Round(r)
		got := fieldAdd(r1<<d, r0)
		if got != r {
			t.Fatalf("power2Round(%d) = (%d, %d), reconstructed %d", r, r1, r0, got)
		}
	}
}

func TestDecomposeUseHintAgree(t *testing.T) {
	gammas := []uint32{gamma2QMinus1Div32, gamma2QMinus1Div88}
	for _, gamma2 := range gammas {
		for r := fieldElement(0); r < q; r += 131 {
			r1, _ := decompose(r, gamma2)
			got := useHint(0, r, gamma2)
			if got != fieldElement(r1) {
				t.Fatalf("gamma2=%d: useHint(0, %d) = %d, want %d", gamma2, r, got, r1)
			}
		}
	}
}

func TestMakeHintUseHintRoundtrip(t *testing.T) {
	gammas := []uint32{gamma2QMinus1Div32, gamma2QMinus1Div88}
	for _, gamma2 := range gammas {
		for r := fieldElement(1); r < q; r += 521 {
			for z := fieldElement(1); z < 50; z += 7 {
				hint := makeHint(z, r, gamma2)
				sum := fieldAdd(r, z)
				want, _ := decompose(sum, gamma2)
				got := useHint(hint, r, gamma2)
				if got != fieldElement(want) {
					t.Fatalf("gamma2=%d r=%d z=%d: useHint(%d, r)=%d, want %d",
						gamma2, r, z, hint, got, want)
				}
			}
		}
	}
}

func TestInfinityNormSymmetric(t *testing.T) {
	for a := fieldElement(0); a < q; a += 839 {
		want := uint32(a)
		if uint32(q)-want < want {
			want = uint32(q) - want
		}
		if got := infinityNorm(a); got != want {
			t.Fatalf("infinityNorm(%d) = %d, want %d", a, got, want)
		}
	}
}

func TestChallengeWeight(t *testing.T) {
	taus := []int{tau39, tau49, tau60}
	seed := make([]byte, 64)
	for _, tau := range taus {
		for trial := 0; trial < 8; trial++ {
			seed[0] = byte(trial)
			c := sampleChallenge(seed, tau)
			nonzero := 0
			for _, coeff := range c {
				switch coeff {
				case 0:
				case 1, q - 1:
					nonzero++
				default:
					t.Fatalf("tau=%d trial=%d: coefficient %d is not in {0, 1, q-1}", tau, trial, coeff)
				}
			}
			if nonzero != tau {
				t.Errorf("tau=%d trial=%d: got %d non-zero coefficients, want %d", tau, trial, nonzero, tau)
			}
		}
	}
}

func TestDeterministicSigning(t *testing.T) {
	key, err := GenerateKey65(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey65 failed: %v", err)
	}
	mPrime, err := buildMPrime(nil, []byte("deterministic path"))
	if err != nil {
		t.Fatalf("buildMPrime failed: %v", err)
	}
	rnd := make([]byte, 32)

	sig1, err := key.signInternal(rnd, mPrime)
	if err != nil {
		t.Fatalf("signInternal failed: %v", err)
	}
	sig2, err := key.signInternal(rnd, mPrime)
	if err != nil {
		t.Fatalf("signInternal failed: %v", err)
	}
	if !bytes.Equal(sig1, sig2) {
		t.Error("signInternal with an all-zero rnd produced non-identical signatures")
	}
}

func TestCtAbsI32(t *testing.T) {
	cases := []int32{0, 1, -1, 12345, -12345, 1 << 20, -(1 << 20)}
	for _, c := range cases {
		want := c
		if want < 0 {
			want = -want
		}
		if got := int32(ctAbsI32(c)); got != want {
			t.Errorf("ctAbsI32(%d) = %d, want %d", c, got, want)
		}
	}
}
