// Package simfs implements the simulated, deterministic file API: the
// OpenOptions/File/Filesystem surface restyled from original_source/src/fs.rs
// (Filesystem, File, OpenOptions, FsConfig) in the idiom of the teacher's
// backend/store/file package - a mutex-guarded table of file state machines,
// Flush naming, and errors wrapped in a PathError.
package simfs

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/madsim-go/simfs/filestate"
	"github.com/madsim-go/simfs/vclock"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Filesystem is a single simulated node's path -> file-state-machine table.
// It is safe for concurrent use by multiple Files and goroutines.
type Filesystem struct {
	clock *vclock.Clock
	log   zerolog.Logger

	mu    sync.Mutex
	cfg   Config
	files map[string]*filestate.Machine
}

// New creates an empty Filesystem ticking against clock. An unset
// (zero-value) log defaults to zerolog.Nop(), matching the harness-
// embeddable, silent-by-default convention the corpus's own logging-facade
// packages follow.
func New(clock *vclock.Clock, log zerolog.Logger) *Filesystem {
	return &Filesystem{
		clock: clock,
		log:   defaultLogger(log),
		cfg:   DefaultConfig(),
		files: make(map[string]*filestate.Machine),
	}
}

// defaultLogger substitutes zerolog.Nop() for a caller-supplied zero-value
// zerolog.Logger{}, the only way this struct type can express "no logger
// given" (it has no pointer or nil to check).
func defaultLogger(log zerolog.Logger) zerolog.Logger {
	if reflect.ValueOf(log).IsZero() {
		return zerolog.Nop()
	}
	return log
}

// Configure atomically replaces the node's configuration. It never
// retroactively reprograms an already-armed flush deadline; only writes and
// flushes issued after the call observe the new policy.
func (fs *Filesystem) Configure(opts ...Option) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for _, opt := range opts {
		opt(&fs.cfg)
	}
	fs.log.Debug().Msg("filesystem configured")
}

func (fs *Filesystem) config() Config {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.cfg
}

// Reset discards every resident file and restores the default
// configuration, used by simnet.Simulator.ResetNode to model a crash and
// restart with no persisted state.
func (fs *Filesystem) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files = make(map[string]*filestate.Machine)
	fs.cfg = DefaultConfig()
	fs.log.Debug().Msg("filesystem reset")
}

// OpenOptions returns a fresh options builder bound to fs, the entry point
// for opening or creating a file on this node.
func (fs *Filesystem) OpenOptions() *OpenOptions {
	return &OpenOptions{fs: fs}
}

func (fs *Filesystem) open(ctx context.Context, path string, o *OpenOptions) (*File, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	fs.mu.Lock()
	machine, existed := fs.files[path]
	switch {
	case existed && o.createNew:
		fs.mu.Unlock()
		return nil, wrapErr("open", path, AlreadyExists)
	case !existed && (o.create || o.createNew):
		machine = filestate.New()
		fs.files[path] = machine
		fs.log.Debug().Str("path", path).Msg("file created")
	case !existed:
		fs.mu.Unlock()
		return nil, wrapErr("open", path, NotExist)
	}
	fs.mu.Unlock()

	if o.truncate {
		machine.Reset()
	}

	return &File{
		fs:         fs,
		path:       path,
		machine:    machine,
		allowRead:  o.read,
		allowWrite: o.write || o.append,
		appendMode: o.append,
	}, nil
}

// FlushAll concurrently flushes every file currently resident on the node,
// joining every failure rather than stopping at the first - a capability
// original_source/ never exposed (its Filesystem::reset is a no-op) but
// that a clean node-shutdown story needs. The fan-out and wait discipline
// is golang.org/x/sync/errgroup; errors are accumulated independently of
// errgroup's own short-circuiting so that one stuck flush never hides the
// others.
func (fs *Filesystem) FlushAll(ctx context.Context) error {
	fs.mu.Lock()
	machines := make([]*filestate.Machine, 0, len(fs.files))
	for _, m := range fs.files {
		machines = append(machines, m)
	}
	cfg := fs.cfg
	fs.mu.Unlock()

	var (
		g       errgroup.Group
		errsMu  sync.Mutex
		allErrs []error
	)
	for _, m := range machines {
		m := m
		g.Go(func() error {
			if err := m.FlushNow(ctx, cfg, fs.clock); err != nil {
				errsMu.Lock()
				allErrs = append(allErrs, err)
				errsMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(allErrs) == 0 {
		return nil
	}
	return errors.Join(allErrs...)
}
