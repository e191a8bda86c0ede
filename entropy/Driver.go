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

// validInterleave reports whether k is one of the mandatory
// interleave widths.
func validInterleave(k int) bool {
	return k == 1 || k == 2 || k == 4
}

// InterleavedEncoder runs K independent CoderStates in lockstep over
// one byte stream to hide renormalization latency. This is
// instruction-level parallelism of scalar operations, not goroutine
// concurrency. It is the Go-idiom generalization of the two-stream
// unroll in
// original_source/demo/main_alias.cpp's "interleaved rANS encode"
// section to any K in {1,2,4}.
type InterleavedEncoder struct {
	table  *AliasTable
	states []*CoderState
}

// NewInterleavedEncoder creates an encoder with k interleaved streams
// sharing table.
func NewInterleavedEncoder(k int, table *AliasTable) (*InterleavedEncoder, error) {
	if !validInterleave(k) {
		return nil, fmt.Errorf("ransalias: invalid interleave %d (must be 1, 2 or 4)", k)
	}

	states := make([]*CoderState, k)

	for j := range states {
		states[j] = NewCoderState()
	}

	return &InterleavedEncoder{table: table, states: states}, nil
}

// Encode puts every byte of block into the K interleaved states, last
// byte first, and flushes all states. Bytes reach sink in the exact
// order the interleaved main_alias.cpp driver uses: the tail first
// (one state at a time, descending index), then the main K-wide loop
// (each group of K bytes put in descending j order), then flush in
// descending j order. Swapping any of these orderings corrupts the
// stream.
func (this *InterleavedEncoder) Encode(block []byte, sink ransalias.ByteSink) {
	k := len(this.states)
	n := len(block)
	t := n % k

	for i := n - 1; i >= n-t; i-- {
		this.states[i%k].PutSymbol(sink, this.table, block[i])
	}

	for i := n - t; i > 0; i -= k {
		for j := k - 1; j >= 0; j-- {
			this.states[j].PutSymbol(sink, this.table, block[i-k+j])
		}
	}

	for j := k - 1; j >= 0; j-- {
		this.states[j].Flush(sink)
	}
}

// InterleavedDecoder is the forward-reading counterpart of
// InterleavedEncoder.
type InterleavedDecoder struct {
	table  *AliasTable
	states []*CoderState
}

// NewInterleavedDecoder creates a decoder with k interleaved streams
// sharing table, and initializes each state by reading 4*k bytes from
// source in ascending stream order.
func NewInterleavedDecoder(k int, table *AliasTable, source ransalias.ByteSource) (*InterleavedDecoder, error) {
	if !validInterleave(k) {
		return nil, fmt.Errorf("ransalias: invalid interleave %d (must be 1, 2 or 4)", k)
	}

	states := make([]*CoderState, k)

	for j := range states {
		states[j] = NewCoderState()

		if err := states[j].DecodeInit(source); err != nil {
			return nil, err
		}
	}

	return &InterleavedDecoder{table: table, states: states}, nil
}

// Decode reads exactly n symbols from source into a newly allocated
// slice, in the inverse order of Encode: the K-wide main loop (K
// symbols fetched in ascending j order, then all K states
// renormalized in ascending order), then the tail (remaining symbols,
// one state at a time starting from state 0).
func (this *InterleavedDecoder) Decode(n int, source ransalias.ByteSource) ([]byte, error) {
	k := len(this.states)
	out := make([]byte, n)
	i := 0

	for ; i+k <= n; i += k {
		for j := 0; j < k; j++ {
			out[i+j] = this.states[j].Advance(this.table)
		}

		for j := 0; j < k; j++ {
			if err := this.states[j].Renorm(source); err != nil {
				return nil, err
			}
		}
	}

	for j := 0; i < n; i, j = i+1, j+1 {
		out[i] = this.states[j].Advance(this.table)

		if err := this.states[j].Renorm(source); err != nil {
			return nil, err
		}
	}

	return out, nil
}
