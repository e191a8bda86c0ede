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

// Package ransalias defines the top level interfaces and error values
// shared by the rANS alias-table entropy codec.
//
// The implementations of these interfaces live in sub-packages:
// entropy (frequency model, alias table, coder state, interleaved
// driver) and container (file-format framing). The cmd/ransalias
// binary wires them together with real file I/O.
package ransalias

import "errors"

// AlphabetSize is N, the number of distinct byte values the codec models.
const AlphabetSize = 256

// Errors returned across the codec/container boundary. The entropy
// hot-loop primitives PutSymbol and Advance have no error conditions
// by construction; ErrTruncatedInput is raised by the decoder's
// DecodeInit and Renorm when the byte source runs dry, and the others
// at model build time or at the container/header boundary.
var (
	// ErrBadHeader is returned when the frequency table read from a
	// container does not sum to exactly M, or the original-length
	// field is nonsensical.
	ErrBadHeader = errors.New("ransalias: bad header")

	// ErrTruncatedInput is returned when a byte source is exhausted
	// before the expected number of symbols has been decoded.
	ErrTruncatedInput = errors.New("ransalias: truncated input")

	// ErrInvariantViolation indicates a condition asserted by the
	// frequency model or alias table builder failed. It signals a bug
	// in this package, not bad input, and callers should treat it as
	// fatal.
	ErrInvariantViolation = errors.New("ransalias: invariant violation")
)

// ByteSink is the capability a coder's hot loop needs to emit bytes.
// Encode calls PutByte once per renormalization step and four times on
// flush, in reverse-emission order, the same contract rANS::State
// uses in the ryg_rans reference; the sink does not need to know
// that, it just appends whatever it's given.
type ByteSink interface {
	PutByte(b byte)
}

// ByteSource is the capability a coder's hot loop needs to pull bytes
// from during decode/renormalization. ok is false once the source is
// exhausted; callers turn that into ErrTruncatedInput.
type ByteSource interface {
	GetByte() (b byte, ok bool)
}

// Options parameterizes both Encode and Decode. Decode's Options MUST
// match the Options used at Encode time. ScaleBits is a build-time
// agreement between encoder and decoder and is not stored in the
// container.
type Options struct {
	// ScaleBits is P; M = 1<<ScaleBits is the total probability mass.
	// Must be in [8,16].
	ScaleBits uint

	// Interleave is K, the number of independent coder states run in
	// lockstep over the byte stream. Must be 1, 2 or 4.
	Interleave int
}
