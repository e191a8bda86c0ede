/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package entropy

import (
	"math/rand"
	"testing"

	ransalias "github.com/vovach777/ransalias"
)

func TestNewFrequencyModelRejectsBadScale(t *testing.T) {
	if _, err := NewFrequencyModel(7); err == nil {
		t.Fatalf("expected error for scale bits below minimum")
	}

	if _, err := NewFrequencyModel(17); err == nil {
		t.Fatalf("expected error for scale bits above maximum")
	}
}

func TestNormalizeSumsToScale(t *testing.T) {
	model, err := NewFrequencyModel(DefaultScaleBits)

	if err != nil {
		t.Fatalf("NewFrequencyModel: %v", err)
	}

	model.Count([]byte("the quick brown fox jumps over the lazy dog"))

	if err := model.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	var sum uint32

	for i := 0; i < ransalias.AlphabetSize; i++ {
		sum += model.Freq(byte(i))
	}

	if sum != model.Scale() {
		t.Fatalf("frequencies sum to %d, want %d", sum, model.Scale())
	}
}

func TestNormalizePreservesNonzeroSet(t *testing.T) {
	input := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaab")
	model, _ := NewFrequencyModel(8) // smallest allowed scale

	model.Count(input)

	var rawNonzero [ransalias.AlphabetSize]bool

	for i := 0; i < ransalias.AlphabetSize; i++ {
		rawNonzero[i] = model.Freq(byte(i)) != 0
	}

	if err := model.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	for i := 0; i < ransalias.AlphabetSize; i++ {
		got := model.Freq(byte(i)) != 0

		if got != rawNonzero[i] {
			t.Fatalf("symbol %d: nonzero-ness changed by normalization (raw=%v normalized=%v)", i, rawNonzero[i], got)
		}
	}
}

func TestNormalizeAlphabetSaturating(t *testing.T) {
	// Every byte value appears at least once, with a skewed tail so the
	// rescale step must round, not just pass through: an
	// alphabet-saturating boundary case for normalize_freqs.
	input := make([]byte, 0, ransalias.AlphabetSize*3)

	for i := 0; i < ransalias.AlphabetSize; i++ {
		input = append(input, byte(i))
	}

	r := rand.New(rand.NewSource(42))

	for i := 0; i < ransalias.AlphabetSize*2; i++ {
		input = append(input, byte(r.Intn(ransalias.AlphabetSize)))
	}

	model, _ := NewFrequencyModel(DefaultScaleBits)
	model.Count(input)

	if err := model.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	for i := 0; i < ransalias.AlphabetSize; i++ {
		if model.Freq(byte(i)) == 0 {
			t.Fatalf("symbol %d observed in input but normalized to zero frequency", i)
		}
	}
}

func TestLoadRejectsBadSum(t *testing.T) {
	model, _ := NewFrequencyModel(DefaultScaleBits)
	var raw [ransalias.AlphabetSize]uint16
	raw[0] = 1 // sums to 1, not M

	if err := model.Load(raw); err == nil {
		t.Fatalf("expected ErrBadHeader for a table that does not sum to M")
	}
}

func TestSerializeLoadRoundTrip(t *testing.T) {
	model, _ := NewFrequencyModel(DefaultScaleBits)
	model.Count([]byte("mississippi river"))

	if err := model.Normalize(); err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	raw := model.Serialize()

	reloaded, _ := NewFrequencyModel(DefaultScaleBits)

	if err := reloaded.Load(raw); err != nil {
		t.Fatalf("Load: %v", err)
	}

	for i := 0; i < ransalias.AlphabetSize; i++ {
		if reloaded.Freq(byte(i)) != model.Freq(byte(i)) {
			t.Fatalf("symbol %d: freq mismatch after serialize/load round trip", i)
		}
	}
}
