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
	"bytes"
	"testing"
)

func TestNewInterleavedEncoderRejectsBadK(t *testing.T) {
	for _, k := range []int{0, 3, 5, -1} {
		if _, err := NewInterleavedEncoder(k, nil); err == nil {
			t.Fatalf("k=%d: expected error for invalid interleave width", k)
		}
	}
}

func roundTripInterleaved(t *testing.T, k int, input []byte) {
	t.Helper()

	model := buildModel(t, DefaultScaleBits, sampleCorpus())
	table, err := BuildAliasTable(model)

	if err != nil {
		t.Fatalf("k=%d: BuildAliasTable: %v", k, err)
	}

	enc, err := NewInterleavedEncoder(k, table)

	if err != nil {
		t.Fatalf("k=%d: NewInterleavedEncoder: %v", k, err)
	}

	sink := &byteStack{}
	enc.Encode(input, sink)
	sink.prepareForReading()

	dec, err := NewInterleavedDecoder(k, table, sink)

	if err != nil {
		t.Fatalf("k=%d: NewInterleavedDecoder: %v", k, err)
	}

	out, err := dec.Decode(len(input), sink)

	if err != nil {
		t.Fatalf("k=%d: Decode: %v", k, err)
	}

	if !bytes.Equal(out, input) {
		t.Fatalf("k=%d: round trip mismatch\n got: %v\nwant: %v", k, out, input)
	}
}

// sampleCorpus is large and varied enough that every symbol the test
// inputs below use gets a nonzero modeled frequency.
func sampleCorpus() []byte {
	return []byte("the quick brown fox jumps over the lazy dog 0123456789 ABCXYZabcxyz!? the quick brown fox jumps over the lazy dog again and again")
}

func TestInterleavedRoundTripAllWidths(t *testing.T) {
	lengths := []int{0, 1, 2, 3, 4, 5, 7, 8, 9, 16, 17, 100, 101, 103}

	for _, k := range []int{1, 2, 4} {
		for _, n := range lengths {
			input := make([]byte, n)
			corpus := sampleCorpus()

			for i := range input {
				input[i] = corpus[i%len(corpus)]
			}

			roundTripInterleaved(t, k, input)
		}
	}
}

func TestInterleavedRoundTripTwoSymbolAlternating(t *testing.T) {
	input := make([]byte, 250)

	for i := range input {
		if i%2 == 0 {
			input[i] = 'A'
		} else {
			input[i] = 'B'
		}
	}

	for _, k := range []int{1, 2, 4} {
		roundTripInterleaved(t, k, input)
	}
}
