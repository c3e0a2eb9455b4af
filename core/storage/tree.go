package storage

import (
	"go.uber.org/zap"
)

// Tree is the B+-tree proper: root management, ordered lookup, ordered
// insert, leaf split, and the first root split. It owns no file state
// directly — all page I/O goes through Pager.
type Tree struct {
	pager       *Pager
	rootPageNum uint32
	log         *zap.Logger
}

// NewTree wraps pager with tree operations rooted at rootPageNum (always
// 0, per spec invariant 4).
func NewTree(pager *Pager, rootPageNum uint32, log *zap.Logger) *Tree {
	return &Tree{pager: pager, rootPageNum: rootPageNum, log: log}
}

// Find performs ordered key lookup starting at the root (spec §4.4).
// Internal nodes are searched recursively for the child whose subtree
// can contain key; only a leaf produces the returned cursor.
func (t *Tree) Find(key uint32) (*Cursor, error) {
	return t.findFrom(t.rootPageNum, key)
}

func (t *Tree) findFrom(pageNum uint32, key uint32) (*Cursor, error) {
	node, err := t.pager.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	if node.IsLeaf() {
		return t.leafFind(pageNum, node, key), nil
	}
	return t.internalFind(pageNum, node, key)
}

// leafFind is the binary search over a half-open window [min,
// onePastMax) described in spec §4.4: it returns either the exact match
// index or the insertion point.
func (t *Tree) leafFind(pageNum uint32, node Node, key uint32) *Cursor {
	numCells := node.NumCells()
	min, onePastMax := uint32(0), numCells

	for min != onePastMax {
		mid := (min + onePastMax) / 2
		keyAtMid := node.Key(mid)
		if key == keyAtMid {
			return &Cursor{tree: t, PageNum: pageNum, CellNum: mid}
		}
		if key < keyAtMid {
			onePastMax = mid
		} else {
			min = mid + 1
		}
	}
	return &Cursor{tree: t, PageNum: pageNum, CellNum: min}
}

// internalFind descends to the smallest child whose stored max-key is
// >= key, using the right child when no such key exists (spec §4.4).
func (t *Tree) internalFind(pageNum uint32, node Node, key uint32) (*Cursor, error) {
	numKeys := node.NumKeys()

	childIndex := numKeys
	for i := uint32(0); i < numKeys; i++ {
		if node.InternalKey(i) >= key {
			childIndex = i
			break
		}
	}
	childPageNum := node.Child(childIndex)
	return t.findFrom(childPageNum, key)
}

// Insert writes (key, record) at the cursor position produced by Find.
// It rejects an exact duplicate, inserts in-place when the leaf has
// room, and otherwise splits (spec §4.4).
func (t *Tree) Insert(cursor *Cursor, key uint32, record Record) error {
	node, err := t.pager.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}

	numCells := node.NumCells()
	if cursor.CellNum < numCells && node.Key(cursor.CellNum) == key {
		return ErrDuplicateKey
	}

	if numCells >= LeafMaxCells {
		return t.splitAndInsert(cursor, key, record)
	}

	if cursor.CellNum < numCells {
		for i := numCells; i > cursor.CellNum; i-- {
			copy(node.cellBytes(i), node.cellBytes(i-1))
		}
	}
	node.SetNumCells(numCells + 1)
	node.SetKey(cursor.CellNum, key)
	SerializeRecord(record, node.Value(cursor.CellNum))
	return nil
}

// cellBytes returns the raw key+value bytes of leaf cell i, used for the
// shift-right memmove done by Insert.
func (n Node) cellBytes(i uint32) []byte {
	off := n.leafCellOffset(i)
	return n[off : off+LeafCellSize]
}

// splitAndInsert redistributes a full leaf's cells (plus the incoming
// one) over the old leaf and a newly allocated leaf, per spec §4.4's
// "Leaf split-and-insert". The loop counter is a plain Go int, so unlike
// the original C (spec §9 OQ1) there is no unsigned-underflow hazard.
func (t *Tree) splitAndInsert(cursor *Cursor, key uint32, record Record) error {
	oldNode, err := t.pager.GetPage(cursor.PageNum)
	if err != nil {
		return err
	}

	newPageNum := t.pager.UnusedPageNum()
	if newPageNum >= MaxPages {
		return ErrTableFull
	}
	newNode, err := t.pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newNode.InitializeLeaf()

	for i := int(LeafMaxCells); i >= 0; i-- {
		var dest Node
		if uint32(i) >= LeafLeftSplitCount {
			dest = newNode
		} else {
			dest = oldNode
		}
		indexWithinNode := uint32(i) % LeafLeftSplitCount
		destCell := dest.cellBytes(indexWithinNode)

		switch {
		case uint32(i) == cursor.CellNum:
			destKey := dest.leafCellOffset(indexWithinNode)
			putLEUint32(dest[destKey:], key)
			SerializeRecord(record, dest.Value(indexWithinNode))
		case uint32(i) > cursor.CellNum:
			copy(destCell, oldNode.cellBytes(uint32(i)-1))
		default:
			copy(destCell, oldNode.cellBytes(uint32(i)))
		}
	}
	// Cell counts are set once, after redistribution completes (spec §9 OQ2),
	// not per loop iteration as the original source mistakenly did.
	oldNode.SetNumCells(LeafLeftSplitCount)
	newNode.SetNumCells(LeafRightSplitCount)

	// oldNode keeps its old sibling (becoming the new leaf's sibling) and
	// now points at newNode, so an ordered scan can walk across the split
	// without needing to revisit the parent (DESIGN.md "sibling-leaf
	// traversal").
	newNode.SetNextLeaf(oldNode.NextLeaf())
	oldNode.SetNextLeaf(newPageNum)

	if oldNode.IsRoot() {
		return t.createNewRoot(newPageNum)
	}
	return ErrParentSplitNotSupported
}

// createNewRoot performs the first (and, per spec's Non-goals, only)
// root split: the old root's contents become a new left child, and page
// 0 is rewritten as a 2-child internal root (spec §3 invariant 4, §4.4).
func (t *Tree) createNewRoot(rightChildPageNum uint32) error {
	root, err := t.pager.GetPage(t.rootPageNum)
	if err != nil {
		return err
	}

	leftChildPageNum := t.pager.UnusedPageNum()
	if leftChildPageNum >= MaxPages {
		return ErrTableFull
	}
	leftChild, err := t.pager.GetPage(leftChildPageNum)
	if err != nil {
		return err
	}

	copy(leftChild, root)
	leftChild.SetIsRoot(false)

	root.InitializeInternal()
	root.SetIsRoot(true)
	root.SetNumKeys(1)
	root.SetChild(0, leftChildPageNum)
	root.SetInternalKey(0, leftChild.MaxKey())
	root.SetRightChild(rightChildPageNum)

	t.log.Debug("root split",
		zap.Uint32("left_child", leftChildPageNum),
		zap.Uint32("right_child", rightChildPageNum))
	return nil
}

// leftmostLeaf descends child(0) from pageNum until it reaches a leaf,
// resolving spec §9 OQ4 (table_start assumed a leaf root).
func (t *Tree) leftmostLeaf(pageNum uint32) (uint32, Node, error) {
	node, err := t.pager.GetPage(pageNum)
	if err != nil {
		return 0, nil, err
	}
	for !node.IsLeaf() {
		childPageNum := node.Child(0)
		node, err = t.pager.GetPage(childPageNum)
		if err != nil {
			return 0, nil, err
		}
		pageNum = childPageNum
	}
	return pageNum, node, nil
}

func putLEUint32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}
