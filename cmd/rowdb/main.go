// Command rowdb is the interactive shell spec.md §6 describes: invoked
// as "rowdb <filename>", it opens (or creates) a single database file
// and serves a "db > " prompt over it until ".exit" or EOF.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/sushant-115/rowdb/core/engine"
	"github.com/sushant-115/rowdb/internal/cli"
	"github.com/sushant-115/rowdb/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	logFormat := flag.String("log-format", "console", "log format: console or json")
	logOutput := flag.String("log-output", "stderr", "log output: stdout, stderr, or a file path")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Must supply a database filename.")
		os.Exit(1)
	}
	dbPath := flag.Arg(0)

	log, err := logger.New(logger.Config{
		Level:      *logLevel,
		Format:     *logFormat,
		OutputFile: *logOutput,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	eng, err := engine.Open(dbPath, log.Named("engine"))
	if err != nil {
		log.Error("failed to open database file", zap.Error(err))
		fmt.Fprintf(os.Stderr, "failed to open %s: %v\n", dbPath, err)
		os.Exit(1)
	}

	historyFile := filepath.Join(os.TempDir(), "rowdb_history.txt")
	repl, err := cli.NewREPL(eng, log, historyFile, os.Stdout)
	if err != nil {
		log.Error("failed to start REPL", zap.Error(err))
		fmt.Fprintf(os.Stderr, "failed to start shell: %v\n", err)
		os.Exit(1)
	}
	defer repl.CloseReadline()
	defer repl.CloseEngine()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		log.Info("received interrupt, closing database")
		repl.CloseEngine()
		repl.CloseReadline()
		os.Exit(0)
	}()

	if err := repl.Run(); err != nil {
		log.Error("shell terminated with error", zap.Error(err))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
