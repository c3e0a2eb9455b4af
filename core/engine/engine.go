// Package engine implements the C6 facade from spec §4.6: Open, Close,
// ExecuteInsert, ExecuteSelect and the .btree/.constants debug dumps.
// It is the only entry point the CLI (internal/cli) talks to.
package engine

import (
	"fmt"

	"github.com/sushant-115/rowdb/core/storage"
	"go.uber.org/zap"
)

const rootPageNum = 0

// Engine is one open database file plus its in-memory B+-tree.
type Engine struct {
	pager *storage.Pager
	tree  *storage.Tree
	log   *zap.Logger
}

// Open opens path (creating it if it doesn't exist) and, for a brand
// new file, materializes page 0 as an empty leaf root (spec §4.6).
func Open(path string, log *zap.Logger) (*Engine, error) {
	pager, err := storage.OpenPager(path, log.Named("pager"))
	if err != nil {
		return nil, err
	}

	if pager.NumPages() == 0 {
		root, err := pager.GetPage(rootPageNum)
		if err != nil {
			pager.Close()
			return nil, err
		}
		root.InitializeLeaf()
		root.SetIsRoot(true)
	}

	tree := storage.NewTree(pager, rootPageNum, log.Named("tree"))
	return &Engine{pager: pager, tree: tree, log: log}, nil
}

// Close flushes every loaded page and closes the file (spec §4.6).
func (e *Engine) Close() error {
	return e.pager.Close()
}

// ExecuteInsert inserts record, returning storage.ErrDuplicateKey if its
// id already exists and storage.ErrTableFull if the page-number space is
// exhausted (spec §4.6, §9 OQ5).
func (e *Engine) ExecuteInsert(record storage.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	cursor, err := e.tree.Find(record.ID)
	if err != nil {
		return err
	}
	return e.tree.Insert(cursor, record.ID, record)
}

// ExecuteSelect calls yield for every record in ascending id order,
// stopping early if yield returns an error.
func (e *Engine) ExecuteSelect(yield func(storage.Record) error) error {
	cursor, err := e.tree.TableStart()
	if err != nil {
		return err
	}
	for !cursor.EndOfTable {
		raw, err := cursor.Value()
		if err != nil {
			return err
		}
		record := storage.DeserializeRecord(raw)
		if err := yield(record); err != nil {
			return err
		}
		if err := cursor.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// BTreeDump is the ".btree" meta-command's payload: the root leaf's size
// and ordered key list (spec §4.6). It only describes the root page,
// matching the source's print_leaf_node.
type BTreeDump struct {
	NumCells uint32
	Keys     []uint32
}

// Meta dumps debug information for ".btree".
func (e *Engine) Meta() (BTreeDump, error) {
	root, err := e.pager.GetPage(rootPageNum)
	if err != nil {
		return BTreeDump{}, err
	}
	if !root.IsLeaf() {
		return BTreeDump{}, fmt.Errorf("root is an internal node, .btree dump only covers a leaf root")
	}
	numCells := root.NumCells()
	keys := make([]uint32, numCells)
	for i := uint32(0); i < numCells; i++ {
		keys[i] = root.Key(i)
	}
	return BTreeDump{NumCells: numCells, Keys: keys}, nil
}

// Constants is the ".constants" meta-command's payload (spec §4.6).
type Constants struct {
	RowSize              int
	CommonNodeHeaderSize int
	LeafNodeHeaderSize   int
	LeafNodeCellSize     int
	LeafNodeSpaceForCells int
	LeafNodeMaxCells     int
}

// ConstantsDump returns the fixed layout sizes spec §8 testable
// property 5 pins down.
func ConstantsDump() Constants {
	return Constants{
		RowSize:               storage.RowSize,
		CommonNodeHeaderSize:  storage.CommonNodeHeaderSize,
		LeafNodeHeaderSize:    storage.LeafNodeHeaderSize,
		LeafNodeCellSize:      storage.LeafCellSize,
		LeafNodeSpaceForCells: storage.PageSize - storage.LeafNodeHeaderSize,
		LeafNodeMaxCells:      storage.LeafMaxCells,
	}
}
