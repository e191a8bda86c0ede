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
	"fmt"

	ransalias "github.com/vovach777/ransalias"
)

// AliasTable is a Vose-style alias structure over a FrequencyModel's
// normalized distribution: N buckets of equal height T = M/N, each
// shared by at most two symbols, letting decode map a draw in [0,M)
// to a symbol with a single comparison regardless of N.
//
// Ported from SymbolStats::make_alias_table in the ryg_rans alias
// extension (original_source/include/rans.hpp); the two-phase sweep
// and its tie-breaks are load-bearing for interoperability and are
// not open to restyling.
type AliasTable struct {
	model *FrequencyModel

	bucketHeight uint32 // T = M/N

	divider    [ransalias.AlphabetSize]uint32     // absolute threshold i*T+h0
	symID      [2 * ransalias.AlphabetSize]byte   // [2i+1]=primary, [2i+0]=alias/donor
	slotFreqs  [2 * ransalias.AlphabetSize]uint32 // freq[symID[slot]]
	slotAdjust [2 * ransalias.AlphabetSize]uint32 // decode's single MAD+subtract adjustment

	aliasRemap []uint32 // encode-side inverse permutation, length M
}

// BuildAliasTable constructs the alias table for a normalized
// FrequencyModel. The model must already have been through Normalize
// or Load; Scale() must be divisible by AlphabetSize (guaranteed
// since M is a power of two >= 256).
func BuildAliasTable(model *FrequencyModel) (*AliasTable, error) {
	scale := model.Scale()

	if scale == 0 || scale%ransalias.AlphabetSize != 0 {
		return nil, fmt.Errorf("%w: scale %d does not divide %d buckets", ransalias.ErrInvariantViolation, scale, ransalias.AlphabetSize)
	}

	t := &AliasTable{
		model:        model,
		bucketHeight: scale / ransalias.AlphabetSize,
	}

	if err := t.vosesweep(); err != nil {
		return nil, err
	}

	t.materializeSlots()
	return t, nil
}

// vosesweep is phase 1: distribute each symbol's frequency into
// equal-height buckets, recording for each bucket which symbol donates
// slots to it (symID[2*i+0]) and how tall the bucket's primary segment
// is (divider[i], temporarily a height rather than an absolute
// threshold; materializeSlots converts it in phase 2).
func (this *AliasTable) vosesweep() error {
	tgt := this.bucketHeight
	var remaining [ransalias.AlphabetSize]uint32

	for i := 0; i < ransalias.AlphabetSize; i++ {
		remaining[i] = this.model.Freq(byte(i))
		this.divider[i] = tgt
		this.symID[2*i+0] = byte(i)
		this.symID[2*i+1] = byte(i)
	}

	curLarge := 0
	curSmall := 0

	for curLarge < ransalias.AlphabetSize && remaining[curLarge] < tgt {
		curLarge++
	}

	for curSmall < ransalias.AlphabetSize && remaining[curSmall] >= tgt {
		curSmall++
	}

	// curSmall is definitely a small bucket; nextSmall *might* be.
	nextSmall := curSmall + 1

	for curLarge < ransalias.AlphabetSize && curSmall < ransalias.AlphabetSize {
		// This bucket is split between curSmall (primary) and curLarge (donor).
		this.symID[curSmall*2+0] = byte(curLarge)
		this.divider[curSmall] = remaining[curSmall]

		// Take the amount we took out of curLarge's remaining slots.
		remaining[curLarge] -= tgt - this.divider[curSmall]

		if remaining[curLarge] >= tgt || nextSmall <= curLarge {
			// The donor is still large, or we haven't processed it yet:
			// find the next small bucket to process.
			curSmall = nextSmall

			for curSmall < ransalias.AlphabetSize && remaining[curSmall] >= tgt {
				curSmall++
			}

			nextSmall = curSmall + 1
		} else {
			// The large bucket we just made small is behind us; back-track.
			curSmall = curLarge
		}

		for curLarge < ransalias.AlphabetSize && remaining[curLarge] < tgt {
			curLarge++
		}
	}

	return nil
}

// materializeSlots is phase 2: fix up divider[] into absolute
// thresholds, fill slotFreqs/slotAdjust for the decode-side lookup,
// and fill aliasRemap for the encode-side inverse permutation.
func (this *AliasTable) materializeSlots() {
	tgt := this.bucketHeight
	this.aliasRemap = make([]uint32, this.model.Scale())
	var assigned [ransalias.AlphabetSize]uint32

	for i := 0; i < ransalias.AlphabetSize; i++ {
		j := int(this.symID[i*2+0])
		h0 := this.divider[i] // primary's height within the bucket
		h1 := tgt - h0        // donor's height within the bucket

		base0 := assigned[i]
		base1 := assigned[j]
		cbase0 := this.model.Cum(i) + base0
		cbase1 := this.model.Cum(j) + base1

		this.divider[i] = uint32(i)*tgt + h0

		this.slotFreqs[i*2+1] = this.model.Freq(byte(i))
		this.slotFreqs[i*2+0] = this.model.Freq(byte(j))
		this.slotAdjust[i*2+1] = uint32(i)*tgt - base0
		this.slotAdjust[i*2+0] = uint32(i)*tgt - (base1 - h0)

		for k := uint32(0); k < h0; k++ {
			this.aliasRemap[cbase0+k] = k + uint32(i)*tgt
		}

		for k := uint32(0); k < h1; k++ {
			this.aliasRemap[cbase1+k] = (k + h0) + uint32(i)*tgt
		}

		assigned[i] += h0
		assigned[j] += h1
	}
}

// Decode maps a draw y in [0,M) to its symbol and the two values
// needed by CoderState.Advance to reconstruct the pre-image state:
// the half-bucket's frequency and adjustment.
func (this *AliasTable) Decode(y uint32) (sym byte, freq uint32, adjust uint32) {
	bucket := y >> (this.model.ScaleBits() - 8)
	slot := bucket * 2

	if y < this.divider[bucket] {
		slot++
	}

	return this.symID[slot], this.slotFreqs[slot], this.slotAdjust[slot]
}

// Remap returns the absolute position in [0,M) that encoding symbol s
// with in-symbol offset delta (0 <= delta < freq[s]) must place into
// the coder register, per the alias_remap bijection built by
// materializeSlots.
func (this *AliasTable) Remap(s byte, delta uint32) uint32 {
	return this.aliasRemap[this.model.Cum(int(s))+delta]
}

// Model returns the FrequencyModel this table was built from.
func (this *AliasTable) Model() *FrequencyModel {
	return this.model
}
