package simfs

import "context"

// OpenOptions configures how Open resolves or creates a file, mirroring
// original_source/src/fs.rs's define_open_options! macro: six boolean
// toggles set through fluent setters, with Open as the terminal call.
type OpenOptions struct {
	fs *Filesystem

	read      bool
	write     bool
	append    bool
	truncate  bool
	create    bool
	createNew bool
}

// Read toggles whether the resulting handle permits Read.
func (o *OpenOptions) Read(v bool) *OpenOptions { o.read = v; return o }

// Write toggles whether the resulting handle permits Write.
func (o *OpenOptions) Write(v bool) *OpenOptions { o.write = v; return o }

// Append toggles append mode: every Write re-resolves its offset to the
// file's current length at the moment it is applied.
func (o *OpenOptions) Append(v bool) *OpenOptions { o.append = v; return o }

// Truncate discards any existing content for the opened path before the
// handle is returned.
func (o *OpenOptions) Truncate(v bool) *OpenOptions { o.truncate = v; return o }

// Create creates the file if it does not already exist.
func (o *OpenOptions) Create(v bool) *OpenOptions { o.create = v; return o }

// CreateNew creates the file, failing with AlreadyExists if it is already
// present.
func (o *OpenOptions) CreateNew(v bool) *OpenOptions { o.createNew = v; return o }

// Open resolves path against the bound Filesystem according to the
// configured options, creating it if Create/CreateNew was set.
func (o *OpenOptions) Open(ctx context.Context, path string) (*File, error) {
	return o.fs.open(ctx, path, o)
}
