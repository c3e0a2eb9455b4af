// Package cli implements the external collaborator spec.md §6 describes:
// the line-oriented command parser, the REPL loop, and output
// formatting. It is deliberately the only package that knows about exact
// user-facing strings and exit codes.
package cli

import (
	"errors"
	"strconv"
	"strings"

	"github.com/sushant-115/rowdb/core/storage"
)

// StatementType distinguishes insert from select (original StatementType enum).
type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

// Statement is a parsed SQL-like command, mirroring the original's
// Statement struct.
type Statement struct {
	Type          StatementType
	RowToInsert   storage.Record
}

// ParseError is a parse outcome: ParseOK or one of the four named parse
// failures from spec §6/§7.
type ParseError int

const (
	ParseOK ParseError = iota
	ParseSyntaxError
	ParseNegativeID
	ParseStringTooLong
	ParseUnrecognizedStatement
)

// ParseStatement implements prepare_statement/prepare_insert from the
// original source: it recognizes "insert ..." and "select", and
// validates an insert's fields before the engine ever sees them (spec
// §8 testable property 7, "bounded parse").
func ParseStatement(line string) (Statement, ParseError) {
	switch {
	case strings.HasPrefix(line, "insert"):
		return parseInsert(line)
	case line == "select":
		return Statement{Type: StatementSelect}, ParseOK
	default:
		return Statement{}, ParseUnrecognizedStatement
	}
}

func parseInsert(line string) (Statement, ParseError) {
	fields := strings.Fields(line)
	// fields[0] is the "insert" keyword itself.
	if len(fields) != 4 {
		return Statement{}, ParseSyntaxError
	}
	idStr, username, email := fields[1], fields[2], fields[3]

	id, err := strconv.Atoi(idStr)
	if err != nil {
		return Statement{}, ParseSyntaxError
	}
	if err := storage.ValidateID(id); errors.Is(err, storage.ErrNegativeID) {
		return Statement{}, ParseNegativeID
	}
	if len(username) > storage.UsernameMaxLen || len(email) > storage.EmailMaxLen {
		return Statement{}, ParseStringTooLong
	}

	return Statement{
		Type: StatementInsert,
		RowToInsert: storage.Record{
			ID:       uint32(id),
			Username: username,
			Email:    email,
		},
	}, ParseOK
}
