// Command btree times a bulk sequential insert followed by a full scan
// against a fresh rowdb file, the same write-then-read shape as the
// teacher's B-tree load generator, stripped of concurrency: this
// engine serves exactly one reader or writer at a time.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/sushant-115/rowdb/core/engine"
	"github.com/sushant-115/rowdb/core/storage"
	"github.com/sushant-115/rowdb/pkg/logger"
)

// rowCount stays within the engine's single-root-split capacity: this
// is a smoke benchmark, not a stress test, since unbounded internal
// splits are out of scope.
const rowCount = 10

func main() {
	baseDataDir := filepath.Join(os.TempDir(), "rowdb-bench")
	if err := os.MkdirAll(baseDataDir, 0755); err != nil {
		log.Fatalf("creating bench dir: %v", err)
	}
	dbPath := filepath.Join(baseDataDir, "bench.db")
	os.Remove(dbPath)

	zlogger, err := logger.New(logger.Config{Level: "error"})
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	eng, err := engine.Open(dbPath, zlogger.Named("engine"))
	if err != nil {
		log.Fatalf("failed to open engine: %v", err)
	}
	defer eng.Close()

	write(eng)
	read(eng)
}

func write(eng *engine.Engine) {
	start := time.Now()
	for i := 0; i < rowCount; i++ {
		record := storage.Record{
			ID:       uint32(i),
			Username: fmt.Sprintf("user-%d", i),
			Email:    fmt.Sprintf("user-%d@example.com", i),
		}
		if err := eng.ExecuteInsert(record); err != nil {
			log.Printf("insert %d failed: %v", i, err)
			return
		}
	}
	log.Printf("inserted %d rows in %s", rowCount, time.Since(start))
}

func read(eng *engine.Engine) {
	start := time.Now()
	count := 0
	err := eng.ExecuteSelect(func(r storage.Record) error {
		count++
		return nil
	})
	if err != nil {
		log.Printf("select failed: %v", err)
		return
	}
	log.Printf("scanned %d rows in %s", count, time.Since(start))
}
