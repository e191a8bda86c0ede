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

// Package container implements the fixed file-level framing: an
// 8-byte original length, a 512-byte frequency table, and the rANS
// payload arranged for forward reading.
package container

// GrowableBuffer is the in-memory ByteSink/ByteSource the driver
// writes to and reads from. It plays the role of the "growable output
// buffer" collaborator the codec is oblivious to, adapted from the
// closable byte-buffer stream in
// flanglet-kanzi-go/v2/internal/BufferStream.go down to the
// single-byte capability entropy.CoderState's hot loop actually needs.
//
// The original reference implementation (original_source/src/main.cpp)
// grows a memory-mapped output file and writes end-first, preserving a
// "back-window" of already-written bytes across each remap. This
// module instead appends forward and reverses the whole payload once
// after Encode finishes (see reverse.go), the simpler of the two
// container strategies the reverse-emission contract allows once file
// growth is someone else's problem (the CLI's).
type GrowableBuffer struct {
	buf []byte
	pos int
}

// NewGrowableBuffer returns an empty buffer ready for PutByte.
func NewGrowableBuffer() *GrowableBuffer {
	return &GrowableBuffer{}
}

// PutByte appends b. Implements ransalias.ByteSink.
func (this *GrowableBuffer) PutByte(b byte) {
	this.buf = append(this.buf, b)
}

// GetByte returns the next unread byte, or ok=false once the buffer is
// exhausted. Implements ransalias.ByteSource.
func (this *GrowableBuffer) GetByte() (byte, bool) {
	if this.pos >= len(this.buf) {
		return 0, false
	}

	b := this.buf[this.pos]
	this.pos++
	return b, true
}

// Bytes returns the buffer's current contents.
func (this *GrowableBuffer) Bytes() []byte {
	return this.buf
}

// Reset discards any buffered data and makes data available for
// reading from the start via GetByte.
func (this *GrowableBuffer) Reset(data []byte) {
	this.buf = data
	this.pos = 0
}
