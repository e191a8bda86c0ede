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
	ransalias "github.com/vovach777/ransalias"
)

const (
	// ransL is L, the lower bound of the normalization interval.
	ransL = uint32(1) << 23

	// byteShift is B, the emission base: one byte per renorm step.
	byteShift = 8
)

// CoderState is a single 32-bit rANS register plus the encode/decode
// primitives built around it. Ported from rANS::State in
// original_source/include/rans.hpp. The invariant ransL <= r <
// ransL<<byteShift holds at every point outside a renormalization
// step; PutSymbol/Advance have no error paths because that invariant
// makes every code path defined.
//
// A CoderState lives for exactly one encode or one decode pass of its
// stream slice; the FrequencyModel and AliasTable it's used with are
// shared, read-only borrows.
type CoderState struct {
	r uint32
}

// NewCoderState returns a CoderState initialized to the encoder's
// starting register value ransL.
func NewCoderState() *CoderState {
	return &CoderState{r: ransL}
}

// PutSymbol encodes one symbol s against table, emitting bytes to sink
// in the reverse order the container contract expects. Symbols must
// be put in reverse order relative to the original byte stream: rANS
// is a stack.
func (this *CoderState) PutSymbol(sink ransalias.ByteSink, table *AliasTable, s byte) {
	freq := table.Model().Freq(s)
	scaleBits := table.Model().ScaleBits()

	// Renormalize: shrink r below the threshold that would overflow
	// after the update below.
	xMax := ((ransL >> scaleBits) << byteShift) * freq

	for this.r >= xMax {
		sink.PutByte(byte(this.r))
		this.r >>= byteShift
	}

	delta := this.r % freq
	this.r = ((this.r / freq) << scaleBits) + table.Remap(s, delta)
}

// Flush emits the four bytes of the final register value,
// most-significant first, into sink.
func (this *CoderState) Flush(sink ransalias.ByteSink) {
	sink.PutByte(byte(this.r >> 24))
	sink.PutByte(byte(this.r >> 16))
	sink.PutByte(byte(this.r >> 8))
	sink.PutByte(byte(this.r))
}

// DecodeInit reads the four bytes of the initial register value,
// least-significant first, from source.
func (this *CoderState) DecodeInit(source ransalias.ByteSource) error {
	var r uint32

	for shift := uint(0); shift < 32; shift += byteShift {
		b, ok := source.GetByte()

		if !ok {
			return ransalias.ErrTruncatedInput
		}

		r |= uint32(b) << shift
	}

	this.r = r
	return nil
}

// Advance looks up the symbol the register currently encodes via
// table's alias buckets and updates the register to its pre-image
// state (the decoder's analog of PutSymbol). It does not renormalize;
// call Renorm afterwards once all interleaved states have advanced,
// so the driver can batch the get/advance step separately from the
// renorm step.
func (this *CoderState) Advance(table *AliasTable) byte {
	mask := table.Model().Scale() - 1
	xm := this.r & mask
	sym, freq, adjust := table.Decode(xm)
	this.r = freq*(this.r>>table.Model().ScaleBits()) + xm - adjust
	return sym
}

// Renorm pulls r back above ransL by reading bytes from source,
// matching PutSymbol's renormalization in reverse.
func (this *CoderState) Renorm(source ransalias.ByteSource) error {
	for this.r < ransL {
		b, ok := source.GetByte()

		if !ok {
			return ransalias.ErrTruncatedInput
		}

		this.r = (this.r << byteShift) | uint32(b)
	}

	return nil
}

// Register returns the current raw register value r. Exposed mainly
// for tests asserting the ransL <= r < ransL<<byteShift invariant.
func (this *CoderState) Register() uint32 {
	return this.r
}
