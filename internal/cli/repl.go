package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/sushant-115/rowdb/core/engine"
	"github.com/sushant-115/rowdb/core/storage"
	"github.com/sushant-115/rowdb/pkg/logger"
	"go.uber.org/zap"
)

// prompt matches spec §6 exactly.
const prompt = "db > "

// REPL owns the readline instance and dispatches parsed lines to the
// engine facade, producing exactly the output strings spec §6 requires.
type REPL struct {
	eng *engine.Engine
	log *zap.Logger
	rl  *readline.Instance
	out io.Writer

	closeOnce sync.Once
	closeErr  error
}

// NewREPL wires a readline-backed prompt loop around eng. Each session
// gets a random id attached to its logger via logger.WithSession
// (SPEC_FULL.md §5), the same way the reference REPL pattern in the
// example pack tags a readline session for later log correlation.
func NewREPL(eng *engine.Engine, log *zap.Logger, historyFile string, out io.Writer) (*REPL, error) {
	sessLog, _ := logger.WithSession(log)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:      prompt,
		HistoryFile: historyFile,
		Stdout:      out,
	})
	if err != nil {
		return nil, fmt.Errorf("starting readline: %w", err)
	}

	sessLog.Info("repl session started")
	return &REPL{eng: eng, log: sessLog, rl: rl, out: out}, nil
}

// CloseEngine flushes and closes the underlying database file exactly
// once, however the REPL terminates (normal ".exit", EOF, or an
// external interrupt caught by cmd/rowdb).
func (r *REPL) CloseEngine() error {
	r.closeOnce.Do(func() {
		r.closeErr = r.eng.Close()
	})
	return r.closeErr
}

// CloseReadline releases the terminal/history resources readline holds.
func (r *REPL) CloseReadline() error {
	return r.rl.Close()
}

// Run executes the prompt loop until ".exit", EOF, or a fatal error.
// A clean ".exit" or EOF closes the engine and returns nil; any other
// error is a fatal condition per spec §7 and is returned unclosed so
// the caller can decide how to report it (the engine may already be
// partially flushed and further writes would be unsafe).
func (r *REPL) Run() error {
	for {
		line, err := r.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			continue
		case errors.Is(err, io.EOF):
			return r.CloseEngine()
		case err != nil:
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if quit, err := r.doMetaCommand(line); quit || err != nil {
				return err
			}
			continue
		}

		if err := r.doStatement(line); err != nil {
			return err
		}
	}
}

// doMetaCommand handles ".exit", ".btree", ".constants" (spec §4.6, §6).
// It returns quit=true only for ".exit", after a clean engine close.
func (r *REPL) doMetaCommand(line string) (quit bool, err error) {
	switch line {
	case ".exit":
		return true, r.CloseEngine()
	case ".btree":
		dump, err := r.eng.Meta()
		if err != nil {
			return false, err
		}
		fmt.Fprintln(r.out, "Tree:")
		fmt.Fprintf(r.out, "leaf (size %d)\n", dump.NumCells)
		for i, key := range dump.Keys {
			fmt.Fprintf(r.out, "  - %d  :  %d\n", i, key)
		}
		return false, nil
	case ".constants":
		c := engine.ConstantsDump()
		fmt.Fprintln(r.out, "Constants:")
		fmt.Fprintf(r.out, "ROW_SIZE: %d\n", c.RowSize)
		fmt.Fprintf(r.out, "COMMON_NODE_HEADER_SIZE: %d\n", c.CommonNodeHeaderSize)
		fmt.Fprintf(r.out, "LEAF_NODE_HEADER_SIZE: %d\n", c.LeafNodeHeaderSize)
		fmt.Fprintf(r.out, "LEAF_NODE_CELL_SIZE: %d\n", c.LeafNodeCellSize)
		fmt.Fprintf(r.out, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", c.LeafNodeSpaceForCells)
		fmt.Fprintf(r.out, "LEAF_NODE_MAX_CELLS: %d\n", c.LeafNodeMaxCells)
		return false, nil
	default:
		fmt.Fprintf(r.out, "Unrecognized command '%s'\n", line)
		return false, nil
	}
}

// doStatement parses and executes one insert/select command, printing
// the exact messages spec §6/§7 specifies.
func (r *REPL) doStatement(line string) error {
	stmt, perr := ParseStatement(line)
	switch perr {
	case ParseOK:
	case ParseNegativeID:
		fmt.Fprintln(r.out, "Id must be postive number.")
		return nil
	case ParseStringTooLong:
		fmt.Fprintln(r.out, "String is too long.")
		return nil
	case ParseSyntaxError:
		fmt.Fprintln(r.out, "Syntax error. Could not parse statement.")
		return nil
	case ParseUnrecognizedStatement:
		fmt.Fprintf(r.out, "Unrecognized keyword at start of '%s'.\n", line)
		return nil
	}

	switch stmt.Type {
	case StatementInsert:
		err := r.eng.ExecuteInsert(stmt.RowToInsert)
		switch {
		case err == nil:
			fmt.Fprintln(r.out, "Executed.")
		case errors.Is(err, storage.ErrDuplicateKey):
			fmt.Fprintln(r.out, "Error: Duplicate key.")
		case errors.Is(err, storage.ErrTableFull):
			fmt.Fprintln(r.out, "Error: Table full.")
		case errors.Is(err, storage.ErrStringTooLong):
			fmt.Fprintln(r.out, "String is too long.")
		default:
			return err
		}
	case StatementSelect:
		err := r.eng.ExecuteSelect(func(rec storage.Record) error {
			fmt.Fprintf(r.out, "(%d, %s, %s)\n", rec.ID, rec.Username, rec.Email)
			return nil
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, "Executed.")
	}
	return nil
}
