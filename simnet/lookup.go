package simnet

import (
	"context"

	"github.com/madsim-go/simfs/simfs"
)

// OpenOnNode resolves id through lookup and opens path with the options
// configure builds, for harness code that only needs registry lookup and
// shouldn't have to depend on the rest of Simulator's surface.
func OpenOnNode(ctx context.Context, lookup NodeLookup, id NodeID, path string, configure func(*simfs.OpenOptions) *simfs.OpenOptions) (*simfs.File, error) {
	fs, err := lookup.Lookup(id)
	if err != nil {
		return nil, err
	}
	return configure(fs.OpenOptions()).Open(ctx, path)
}
