package storage

// Cursor is a positional iterator over leaf cells: the pair
// (PageNum, CellNum) plus a derived EndOfTable flag (spec §4.5).
type Cursor struct {
	tree *Tree

	PageNum     uint32
	CellNum     uint32
	EndOfTable  bool
}

// TableStart returns a cursor at the first cell of the leftmost leaf.
// Unlike the original source (spec §9 OQ4), this descends through
// internal nodes rather than assuming the root is always a leaf, so it
// stays correct after a root split.
func (t *Tree) TableStart() (*Cursor, error) {
	pageNum, node, err := t.leftmostLeaf(t.rootPageNum)
	if err != nil {
		return nil, err
	}
	return &Cursor{
		tree:       t,
		PageNum:    pageNum,
		CellNum:    0,
		EndOfTable: node.NumCells() == 0,
	}, nil
}

// TableFind returns the cursor produced by tree lookup of key (spec §4.5).
func (t *Tree) TableFind(key uint32) (*Cursor, error) {
	return t.Find(key)
}

// Value returns a mutable byte view into the current cell's value slot.
func (c *Cursor) Value() ([]byte, error) {
	node, err := c.tree.pager.GetPage(c.PageNum)
	if err != nil {
		return nil, err
	}
	return node.Value(c.CellNum), nil
}

// Advance moves to the next cell, following the current leaf's sibling
// link once its own cells are exhausted so a scan crosses a split
// instead of stopping at the first leaf's boundary (spec §8 testable
// property 1, scenario S5(b): select must yield every row in ascending
// order across however many leaves the tree has).
func (c *Cursor) Advance() error {
	node, err := c.tree.pager.GetPage(c.PageNum)
	if err != nil {
		return err
	}
	c.CellNum++
	if c.CellNum < node.NumCells() {
		return nil
	}

	next := node.NextLeaf()
	if next == NoNextLeaf {
		c.EndOfTable = true
		return nil
	}

	nextNode, err := c.tree.pager.GetPage(next)
	if err != nil {
		return err
	}
	c.PageNum = next
	c.CellNum = 0
	c.EndOfTable = nextNode.NumCells() == 0
	return nil
}
