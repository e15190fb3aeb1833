package simnet

import (
	"context"
	"math/rand"
	"testing"

	"github.com/madsim-go/simfs/simfs"
	"github.com/madsim-go/simfs/vclock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestSimulator() *Simulator {
	return New(rand.New(rand.NewSource(1)), vclock.New(), DefaultConfig(), zerolog.Nop())
}

func TestLookupUnknownNodeFails(t *testing.T) {
	s := newTestSimulator()
	_, err := s.Lookup(NodeID(42))
	require.Error(t, err)
}

func TestCreateNodeThenLookupReturnsIndependentFilesystems(t *testing.T) {
	s := newTestSimulator()
	s.CreateNode(1)
	s.CreateNode(2)

	fs1, err := s.Lookup(1)
	require.NoError(t, err)
	fs2, err := s.Lookup(2)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = fs1.OpenOptions().Write(true).Create(true).Open(ctx, "/a")
	require.NoError(t, err)

	_, err = fs2.OpenOptions().Read(true).Open(ctx, "/a")
	require.Error(t, err)
}

func TestResetNodeDiscardsItsFiles(t *testing.T) {
	s := newTestSimulator()
	s.CreateNode(1)
	fs, err := s.Lookup(1)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = fs.OpenOptions().Write(true).Create(true).Open(ctx, "/a")
	require.NoError(t, err)

	require.NoError(t, s.ResetNode(1))

	_, err = fs.OpenOptions().Read(true).Open(ctx, "/a")
	require.Error(t, err)
}

func TestSetConfigAppliesToRegisteredNode(t *testing.T) {
	s := newTestSimulator()
	s.CreateNode(1)

	cfg := simfs.NewConfig(simfs.WithAllowDirtyWrite(false))
	require.NoError(t, s.SetConfig(1, cfg))

	require.Error(t, s.SetConfig(NodeID(99), cfg))
}

func TestNodeIDsReportsEveryRegisteredNode(t *testing.T) {
	s := newTestSimulator()
	s.CreateNode(1)
	s.CreateNode(2)
	s.CreateNode(3)

	ids := s.NodeIDs()
	require.Len(t, ids, 3)
	require.ElementsMatch(t, []NodeID{1, 2, 3}, ids)
}
