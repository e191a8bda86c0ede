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

// Package entropy implements the numerical core of the rANS
// alias-table codec: frequency counting and normalization, Vose
// alias-table construction, the single rANS coder register, and the
// interleaved multi-stream driver.
//
// Ported from the public-domain "ryg_rans" reference (Fabian Giesen,
// 2014) and its alias-table extension, in the idiom of
// github.com/flanglet/kanzi-go/v2/entropy.
package entropy

import (
	"fmt"
	"math"

	ransalias "github.com/vovach777/ransalias"
)

const (
	// MinScaleBits and MaxScaleBits bound P, the scale exponent.
	MinScaleBits = 8
	MaxScaleBits = 16

	// DefaultScaleBits is the scale exponent used when none is given.
	DefaultScaleBits = 14

	// countOverflow is the per-symbol count at which FrequencyModel.Count
	// halves every bucket to avoid overflowing a 32-bit accumulator on
	// very long inputs.
	countOverflow = 1 << 24
)

// FrequencyModel holds byte frequencies normalized to sum to a fixed
// power of two M = 1<<ScaleBits, plus the derived cumulative table.
// It is built once per file (or, via Load, reconstructed from a
// container header) and is read-only for the rest of its lifetime;
// multiple interleaved CoderStates and the AliasTable all hold
// immutable borrows of it.
type FrequencyModel struct {
	scaleBits uint
	freq      [ransalias.AlphabetSize]uint32
	cum       [ransalias.AlphabetSize + 1]uint32
}

// NewFrequencyModel creates an empty model for the given scale
// exponent. Call Count then Normalize to build it from raw data, or
// Load to reconstruct it from a serialized frequency table.
func NewFrequencyModel(scaleBits uint) (*FrequencyModel, error) {
	if scaleBits < MinScaleBits || scaleBits > MaxScaleBits {
		return nil, fmt.Errorf("ransalias: invalid scale bits %d (must be in [%d..%d])", scaleBits, MinScaleBits, MaxScaleBits)
	}

	return &FrequencyModel{scaleBits: scaleBits}, nil
}

// ScaleBits returns P.
func (this *FrequencyModel) ScaleBits() uint {
	return this.scaleBits
}

// Scale returns M = 1<<P, the total probability mass.
func (this *FrequencyModel) Scale() uint32 {
	return uint32(1) << this.scaleBits
}

// Freq returns freq[s], the normalized frequency of symbol s.
func (this *FrequencyModel) Freq(s byte) uint32 {
	return this.freq[s]
}

// Cum returns cum[s], the cumulative frequency before symbol s.
// Cum(256) == Scale().
func (this *FrequencyModel) Cum(s int) uint32 {
	return this.cum[s]
}

// Count scans block and increments freq[b] for every byte b. Safe to
// call repeatedly (e.g. over successive chunks) before Normalize.
func (this *FrequencyModel) Count(block []byte) {
	for _, b := range block {
		this.freq[b]++

		if this.freq[b] == countOverflow {
			for j := range this.freq {
				this.freq[j] = (this.freq[j] + 1) >> 1
			}
		}
	}
}

// Normalize rescales the raw counts accumulated by Count so they sum
// to exactly Scale(), preserving the nonzero set: every symbol with a
// nonzero raw count keeps freq[s] >= 1 after normalization.
//
// This follows the original ryg_rans SymbolStats::normalize_freqs
// single-steal repair exactly (rescale cum[] by M/S in 64-bit, then
// for each symbol nuked to zero steal one unit of mass from the
// lowest-frequency symbol with freq > 1) rather than kanzi's
// EntropyUtils.NormalizeFrequencies, which spreads rounding error
// across many symbols via a priority queue. The two produce different
// bitstreams for the same input, and this exact algorithm, including
// its lowest-index tie-break, is required for interoperability with rans.hpp: the wire
// format carries no redundancy to disambiguate which one produced a
// given frequency table.
func (this *FrequencyModel) Normalize() error {
	this.calcCumFreqs()
	curTotal := this.cum[ransalias.AlphabetSize]

	if curTotal == 0 {
		return fmt.Errorf("ransalias: cannot normalize an empty frequency model")
	}

	target := this.Scale()

	// Resample the distribution based on cumulative frequencies.
	for i := 1; i <= ransalias.AlphabetSize; i++ {
		this.cum[i] = uint32((uint64(target) * uint64(this.cum[i])) / uint64(curTotal))
	}

	// Repair any originally-nonzero symbol that rescaling nuked to zero
	// by stealing one unit of mass from the lowest-frequency surviving
	// symbol (ties broken by lowest index).
	for i := 0; i < ransalias.AlphabetSize; i++ {
		if this.freq[i] != 0 && this.cum[i+1] == this.cum[i] {
			bestFreq := ^uint32(0)
			bestSteal := -1

			for j := 0; j < ransalias.AlphabetSize; j++ {
				f := this.cum[j+1] - this.cum[j]

				if f > 1 && f < bestFreq {
					bestFreq = f
					bestSteal = j
				}
			}

			if bestSteal == -1 {
				return fmt.Errorf("%w: no symbol to steal frequency from", ransalias.ErrInvariantViolation)
			}

			if bestSteal < i {
				for j := bestSteal + 1; j <= i; j++ {
					this.cum[j]--
				}
			} else {
				for j := i + 1; j <= bestSteal; j++ {
					this.cum[j]++
				}
			}
		}
	}

	if this.cum[0] != 0 || this.cum[ransalias.AlphabetSize] != target {
		return fmt.Errorf("%w: normalization failed to reach scale", ransalias.ErrInvariantViolation)
	}

	for i := 0; i < ransalias.AlphabetSize; i++ {
		this.freq[i] = this.cum[i+1] - this.cum[i]
	}

	return nil
}

func (this *FrequencyModel) calcCumFreqs() {
	this.cum[0] = 0

	for i := 0; i < ransalias.AlphabetSize; i++ {
		this.cum[i+1] = this.cum[i] + this.freq[i]
	}
}

// Serialize returns the frequency table in the little-endian 16-bit
// layout the container writes at header offset 8.
func (this *FrequencyModel) Serialize() [ransalias.AlphabetSize]uint16 {
	var out [ransalias.AlphabetSize]uint16

	for i := 0; i < ransalias.AlphabetSize; i++ {
		out[i] = uint16(this.freq[i])
	}

	return out
}

// Load reconstructs a FrequencyModel from a serialized frequency
// table (as read from a container header) and recomputes cum[].
// Returns ErrBadHeader if the table does not sum to exactly Scale().
func (this *FrequencyModel) Load(raw [ransalias.AlphabetSize]uint16) error {
	for i, f := range raw {
		this.freq[i] = uint32(f)
	}

	this.calcCumFreqs()

	if this.cum[ransalias.AlphabetSize] != this.Scale() {
		return fmt.Errorf("%w: frequency table sums to %d, want %d", ransalias.ErrBadHeader, this.cum[ransalias.AlphabetSize], this.Scale())
	}

	return nil
}

// Stats is a small diagnostic summary used by the CLI's verbose dump.
type Stats struct {
	AlphabetSize int
	EntropyBits  float64
}

// Stats computes the alphabet size and the zero-order entropy (in
// bits/symbol) implied by the normalized frequencies, for the
// optional -v diagnostic dump. main.cpp prints a frequency dump
// unconditionally; here it is opt-in.
func (this *FrequencyModel) Stats() Stats {
	var s Stats
	scale := float64(this.Scale())

	for _, f := range this.freq {
		if f == 0 {
			continue
		}

		s.AlphabetSize++
		p := float64(f) / scale
		s.EntropyBits -= p * math.Log2(p)
	}

	return s
}
