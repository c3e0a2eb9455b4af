package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newLeafNode() Node {
	n := make(Node, PageSize)
	n.InitializeLeaf()
	return n
}

func TestNode_LeafHeaderRoundTrip(t *testing.T) {
	n := newLeafNode()
	require.True(t, n.IsLeaf())
	require.False(t, n.IsRoot())
	require.Equal(t, uint32(0), n.NumCells())

	n.SetIsRoot(true)
	require.True(t, n.IsRoot())

	n.SetParentPageNum(3)
	require.Equal(t, uint32(3), n.ParentPageNum())
}

func TestNode_LeafKeyValueRoundTrip(t *testing.T) {
	n := newLeafNode()
	n.SetNumCells(2)
	n.SetKey(0, 10)
	n.SetKey(1, 20)

	SerializeRecord(Record{ID: 10, Username: "a", Email: "a@a.com"}, n.Value(0))
	SerializeRecord(Record{ID: 20, Username: "b", Email: "b@b.com"}, n.Value(1))

	require.Equal(t, uint32(10), n.Key(0))
	require.Equal(t, uint32(20), n.Key(1))
	require.Equal(t, uint32(20), n.MaxKey())

	r0 := DeserializeRecord(n.Value(0))
	require.Equal(t, "a", r0.Username)
}

func TestNode_InternalChildAccessors(t *testing.T) {
	n := make(Node, PageSize)
	n.InitializeInternal()
	n.SetNumKeys(2)
	n.SetChild(0, 5)
	n.SetChild(1, 6)
	n.SetRightChild(7)
	n.SetInternalKey(0, 100)
	n.SetInternalKey(1, 200)

	require.Equal(t, uint32(5), n.Child(0))
	require.Equal(t, uint32(6), n.Child(1))
	require.Equal(t, uint32(7), n.Child(2))
	require.Equal(t, uint32(200), n.MaxKey())
}

func TestNode_ChildPanicsOnOutOfRange(t *testing.T) {
	n := make(Node, PageSize)
	n.InitializeInternal()
	n.SetNumKeys(1)

	require.Panics(t, func() {
		n.Child(2)
	})
}

func TestLeafMaxCells_MatchesFixedLayout(t *testing.T) {
	require.Equal(t, 13, LeafMaxCells)
	require.Equal(t, 7, LeafRightSplitCount)
	require.Equal(t, 7, LeafLeftSplitCount)
	require.Equal(t, 6, CommonNodeHeaderSize)
	require.Equal(t, 10, LeafNodeHeaderSize)
	require.Equal(t, 297, LeafCellSize)
}

func TestChecksum_RoundTripAndMismatch(t *testing.T) {
	page := make([]byte, PageSize)
	Node(page).InitializeLeaf()
	writeChecksum(page)
	require.NoError(t, verifyChecksum(page))

	page[0] ^= 0xFF
	require.Error(t, verifyChecksum(page))
}
