package storage

import (
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
)

// MaxPages bounds the page-number space (TABLE_MAX_PAGES in the
// original), matching spec §4.3. Once an allocation would need a page
// number beyond this, ExecuteInsert surfaces ErrTableFull (spec §9 OQ5).
const MaxPages = 100

// Pager owns the single open file and a fixed-size slab of page
// buffers, addressed directly by page number. Unlike the teacher's
// btree_core.BufferPoolManager, there is no LRU and no eviction: spec §3
// says pages "persist in memory until close", so every page fetched is
// kept until Close flushes and releases it (DESIGN.md explains the
// simplification).
type Pager struct {
	file     *os.File
	pageSize int
	numPages uint32
	pages    [MaxPages]Node // nil until loaded

	mu  sync.Mutex
	log *zap.Logger
}

// OpenPager opens or creates path read/write and validates that its
// length is a whole multiple of PageSize (spec §4.3, §6 "File format").
func OpenPager(path string, log *zap.Logger) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0666)
	if err != nil {
		return nil, fmt.Errorf("opening db file %s: %w", path, err)
	}

	fileLength, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("seeking db file %s: %w", path, err)
	}
	if fileLength%PageSize != 0 {
		f.Close()
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrCorruptFile, path, fileLength)
	}

	p := &Pager{
		file:     f,
		pageSize: PageSize,
		numPages: uint32(fileLength / PageSize),
		log:      log,
	}
	p.log.Debug("pager opened", zap.String("path", path), zap.Uint32("num_pages", p.numPages))
	return p, nil
}

// NumPages reports the highest allocated page index plus one.
func (p *Pager) NumPages() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.numPages
}

// UnusedPageNum returns the next page number a caller should allocate
// (a bump allocator over numPages, matching get_unused_page_num). The
// caller materializes it with GetPage.
func (p *Pager) UnusedPageNum() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.numPages
}

// GetPage returns the in-memory buffer for page n, loading it from disk
// on first access. Accessing n >= MaxPages is fatal (spec §4.3).
func (p *Pager) GetPage(n uint32) (Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n >= MaxPages {
		return nil, fmt.Errorf("%w: page %d >= %d", ErrPageOutOfRange, n, MaxPages)
	}

	if p.pages[n] != nil {
		return p.pages[n], nil
	}

	buf := make([]byte, p.pageSize)
	if n < p.numPages {
		if _, err := p.file.ReadAt(buf, int64(n)*int64(p.pageSize)); err != nil && err != io.EOF {
			return nil, fmt.Errorf("%w: reading page %d: %v", ErrCorruptFile, n, err)
		}
		if err := verifyChecksum(buf); err != nil {
			return nil, err
		}
	}

	p.pages[n] = Node(buf)
	if n >= p.numPages {
		p.numPages = n + 1
	}
	p.log.Debug("page loaded", zap.Uint32("page", n))
	return p.pages[n], nil
}

// Flush writes page n's buffer back to disk, stamping a fresh checksum
// first. Requires page n to already be loaded (spec §4.3).
func (p *Pager) Flush(n uint32) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.flushLocked(n)
}

func (p *Pager) flushLocked(n uint32) error {
	if p.pages[n] == nil {
		return fmt.Errorf("%w: page %d", ErrPageNotLoaded, n)
	}
	page := []byte(p.pages[n])
	writeChecksum(page)
	if _, err := p.file.WriteAt(page, int64(n)*int64(p.pageSize)); err != nil {
		return fmt.Errorf("writing page %d: %w", n, err)
	}
	return nil
}

// Close flushes every loaded page, in ascending page-number order, and
// closes the file (spec §4.3, §5 "persistence is guaranteed only after
// a clean close").
func (p *Pager) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for n := uint32(0); n < p.numPages; n++ {
		if p.pages[n] == nil {
			continue
		}
		if err := p.flushLocked(n); err != nil {
			return err
		}
		p.pages[n] = nil
	}
	if err := p.file.Close(); err != nil {
		return fmt.Errorf("closing db file: %w", err)
	}
	p.log.Debug("pager closed", zap.Uint32("num_pages", p.numPages))
	return nil
}
