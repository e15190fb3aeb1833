// Package content implements the content buffer that backs every simulated
// file: a structurally-shared, copy-on-write byte slice supporting sparse
// writes at arbitrary offsets.
//
// Buffer is the Go-native reshaping of the teacher's page-oriented, dirty-
// byte tracking (backend/store/pagedfile.Page) and the original source's
// SnapBuf: a clone is an O(1) reference-count bump, and a write only pays
// for a copy of the backing array the first time it diverges from a clone
// still holding a reference to it.
package content

import "sync/atomic"

// Buffer is a byte sequence with cheap (O(1)) logical clones. The zero value
// is an empty, usable buffer.
type Buffer struct {
	back *backing
}

type backing struct {
	data []byte
	refs atomic.Int32
}

func newBacking(data []byte) *backing {
	b := &backing{data: data}
	b.refs.Store(1)
	return b
}

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int64 {
	if b.back == nil {
		return 0
	}
	return int64(len(b.back.data))
}

// Clone returns a logically independent copy of b. The clone shares b's
// backing array until either b or the clone is written to, at which point
// the writer forks its own array.
func (b *Buffer) Clone() Buffer {
	if b.back == nil {
		return Buffer{}
	}
	b.back.refs.Add(1)
	return Buffer{back: b.back}
}

// Read returns a copy of the contiguous run of bytes starting at offset and
// extending to the end of the content. Reads beyond the end of the content
// return an empty, non-nil slice rather than an error.
func (b *Buffer) Read(offset int64) []byte {
	if b.back == nil || offset < 0 || offset >= int64(len(b.back.data)) {
		return []byte{}
	}
	out := make([]byte, int64(len(b.back.data))-offset)
	copy(out, b.back.data[offset:])
	return out
}

// Write stores bytes at offset, extending the buffer's length to
// max(current length, offset+len(bytes)) and zero-filling any gap between
// the previous end of content and offset. If the backing array is currently
// shared with a live clone, Write forks a private copy before mutating it.
func (b *Buffer) Write(offset int64, bytes []byte) {
	needed := offset + int64(len(bytes))

	switch {
	case b.back == nil:
		b.back = newBacking(make([]byte, needed))
	case b.back.refs.Load() > 1:
		forked := make([]byte, maxInt64(int64(len(b.back.data)), needed))
		copy(forked, b.back.data)
		b.back.refs.Add(-1)
		b.back = newBacking(forked)
	case needed > int64(len(b.back.data)):
		grown := make([]byte, needed)
		copy(grown, b.back.data)
		b.back.data = grown
	}

	copy(b.back.data[offset:needed], bytes)
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
