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

package container

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"

	ransalias "github.com/vovach777/ransalias"
	"github.com/vovach777/ransalias/entropy"
)

const (
	// originalLenSize is the width of the header's original-length field.
	originalLenSize = 8

	// freqTableSize is the width of the header's frequency table:
	// AlphabetSize little-endian uint16 words.
	freqTableSize = ransalias.AlphabetSize * 2

	// HeaderSize is the total fixed header width; the payload starts here.
	HeaderSize = originalLenSize + freqTableSize

	// maxOriginalLen guards against a corrupted or adversarial header
	// claiming an absurd original length.
	maxOriginalLen = 1 << 40
)

// Encode compresses input into the fixed container format: an 8-byte
// length, a 512-byte frequency table, then the rANS payload,
// forward-readable from offset 520. model stats are returned for the
// CLI's optional verbose dump.
func Encode(input []byte, opts ransalias.Options) ([]byte, entropy.Stats, error) {
	model, err := entropy.NewFrequencyModel(opts.ScaleBits)

	if err != nil {
		return nil, entropy.Stats{}, errors.Wrap(err, "create frequency model")
	}

	// Empty input: there are no symbols to model or encode. Write an
	// all-zero frequency table (it is never consulted; Decode returns
	// before touching it) and flush K untouched coder registers.
	if len(input) == 0 {
		enc, err := entropy.NewInterleavedEncoder(opts.Interleave, nil)

		if err != nil {
			return nil, entropy.Stats{}, errors.Wrap(err, "create interleaved encoder")
		}

		sink := NewGrowableBuffer()
		enc.Encode(nil, sink)
		buf := sink.Bytes()
		reverseBytes(buf)

		out := make([]byte, HeaderSize+len(buf))
		copy(out[HeaderSize:], buf)
		return out, entropy.Stats{}, nil
	}

	model.Count(input)

	if err := model.Normalize(); err != nil {
		return nil, entropy.Stats{}, errors.Wrap(err, "normalize frequencies")
	}

	table, err := entropy.BuildAliasTable(model)

	if err != nil {
		return nil, entropy.Stats{}, errors.Wrap(err, "build alias table")
	}

	enc, err := entropy.NewInterleavedEncoder(opts.Interleave, table)

	if err != nil {
		return nil, entropy.Stats{}, errors.Wrap(err, "create interleaved encoder")
	}

	payload := NewGrowableBuffer()
	enc.Encode(input, payload)
	buf := payload.Bytes()
	reverseBytes(buf)

	out := make([]byte, HeaderSize+len(buf))
	binary.LittleEndian.PutUint64(out[0:originalLenSize], uint64(len(input)))

	freqs := model.Serialize()

	for i, f := range freqs {
		binary.LittleEndian.PutUint16(out[originalLenSize+2*i:], f)
	}

	copy(out[HeaderSize:], buf)
	return out, model.Stats(), nil
}

// Decode reconstructs the original byte sequence from a container
// produced by Encode. opts (ScaleBits, Interleave) must match the
// values used at encode time; they are a build-time agreement, not
// part of the wire format.
func Decode(data []byte, opts ransalias.Options) ([]byte, error) {
	if len(data) < HeaderSize {
		return nil, errors.Wrap(ransalias.ErrBadHeader, "container shorter than fixed header")
	}

	origLen := binary.LittleEndian.Uint64(data[0:originalLenSize])

	if origLen > maxOriginalLen || origLen > math.MaxInt32 {
		return nil, errors.Wrap(ransalias.ErrBadHeader, "implausible original length")
	}

	// Empty container: the frequency table was never meaningful (see
	// Encode) and there is nothing to decode.
	if origLen == 0 {
		return []byte{}, nil
	}

	var raw [ransalias.AlphabetSize]uint16

	for i := range raw {
		raw[i] = binary.LittleEndian.Uint16(data[originalLenSize+2*i:])
	}

	model, err := entropy.NewFrequencyModel(opts.ScaleBits)

	if err != nil {
		return nil, errors.Wrap(err, "create frequency model")
	}

	if err := model.Load(raw); err != nil {
		return nil, err
	}

	table, err := entropy.BuildAliasTable(model)

	if err != nil {
		return nil, errors.Wrap(err, "build alias table")
	}

	src := NewGrowableBuffer()
	src.Reset(data[HeaderSize:])

	dec, err := entropy.NewInterleavedDecoder(opts.Interleave, table, src)

	if err != nil {
		return nil, errors.Wrap(err, "init interleaved decoder")
	}

	out, err := dec.Decode(int(origLen), src)

	if err != nil {
		return nil, errors.Wrap(err, "decode payload")
	}

	return out, nil
}
