// Package nativefs is the pass-through escape hatch spec.md §6 calls for:
// when a harness run is not wired to a simnet.Simulator, code can use this
// package's OpenOptions/File instead of simfs's, and every operation
// delegates straight through to *os.File - no virtual time, no dirty-page
// modeling, real disk. The surface intentionally mirrors simfs so callers
// can swap between the two with a single import change, mirroring the
// teacher's own os.OpenFile(path, flags, 0600) convention in
// backend/store/file/file.go.
package nativefs

import (
	"context"
	"io"
	"os"
)

// OpenOptions configures a native Open the same way simfs.OpenOptions does,
// so callers that switch between the two packages don't have to relearn an
// options shape.
type OpenOptions struct {
	read      bool
	write     bool
	append    bool
	truncate  bool
	create    bool
	createNew bool
}

// NewOpenOptions returns an empty options builder.
func NewOpenOptions() *OpenOptions { return &OpenOptions{} }

func (o *OpenOptions) Read(v bool) *OpenOptions      { o.read = v; return o }
func (o *OpenOptions) Write(v bool) *OpenOptions     { o.write = v; return o }
func (o *OpenOptions) Append(v bool) *OpenOptions    { o.append = v; return o }
func (o *OpenOptions) Truncate(v bool) *OpenOptions  { o.truncate = v; return o }
func (o *OpenOptions) Create(v bool) *OpenOptions    { o.create = v; return o }
func (o *OpenOptions) CreateNew(v bool) *OpenOptions { o.createNew = v; return o }

func (o *OpenOptions) flags() int {
	var flags int
	switch {
	case o.read && (o.write || o.append):
		flags = os.O_RDWR
	case o.write || o.append:
		flags = os.O_WRONLY
	default:
		flags = os.O_RDONLY
	}
	if o.append {
		flags |= os.O_APPEND
	}
	if o.truncate {
		flags |= os.O_TRUNC
	}
	switch {
	case o.createNew:
		flags |= os.O_CREATE | os.O_EXCL
	case o.create:
		flags |= os.O_CREATE
	}
	return flags
}

// Open resolves path against the real filesystem, ignoring ctx - the
// standard library's file I/O has no cancellation seam, same as
// original_source/'s own non-simulated escape hatch.
func (o *OpenOptions) Open(ctx context.Context, path string) (*File, error) {
	f, err := os.OpenFile(path, o.flags(), 0600)
	if err != nil {
		return nil, err
	}
	return &File{f: f}, nil
}

// File wraps an *os.File behind the same method surface as simfs.File.
type File struct {
	f       *os.File
	pending *int64
}

func (h *File) Write(ctx context.Context, data []byte) (int, error) {
	return h.f.Write(data)
}

func (h *File) Read(ctx context.Context, buf []byte) (int, error) {
	n, err := h.f.Read(buf)
	if err == io.EOF {
		err = nil
	}
	return n, err
}

func (h *File) Flush(ctx context.Context) error { return h.f.Sync() }

func (h *File) Shutdown(ctx context.Context) error {
	if err := h.f.Sync(); err != nil {
		return err
	}
	return h.f.Close()
}

func (h *File) SyncAll(ctx context.Context) error  { return h.f.Sync() }
func (h *File) SyncData(ctx context.Context) error { return h.f.Sync() }

// SeekFrom mirrors simfs.SeekFrom so callers can share seek-construction
// helper code across both packages.
type SeekFrom struct {
	whence int
	offset int64
}

func SeekFromStart(offset int64) SeekFrom   { return SeekFrom{io.SeekStart, offset} }
func SeekFromEnd(offset int64) SeekFrom     { return SeekFrom{io.SeekEnd, offset} }
func SeekFromCurrent(offset int64) SeekFrom { return SeekFrom{io.SeekCurrent, offset} }

// StartSeek and PollComplete split os.File.Seek into the same two-phase
// shape as simfs.File, even though the native implementation has no
// suspension to model: StartSeek performs the seek immediately and
// PollComplete simply returns its already-known result.
func (h *File) StartSeek(pos SeekFrom) error {
	n, err := h.f.Seek(pos.offset, pos.whence)
	if err != nil {
		return err
	}
	h.pending = &n
	return nil
}

func (h *File) PollComplete(ctx context.Context) (int64, error) {
	if h.pending == nil {
		return 0, os.ErrInvalid
	}
	n := *h.pending
	h.pending = nil
	return n, nil
}
