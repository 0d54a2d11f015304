// Package csvspan implements a zero-copy, permissive CSV reader built
// around a 16-byte vectorized character-class scan and a goto-style row
// state machine. Cells are exposed as views directly into the reader's
// input buffer; decoding (quote/escape removal, numeric parsing) happens
// lazily, only when a caller asks for it.
//
// There is no ParseError: the grammar is permissive by design, so every
// byte stream parses to some sequence of rows. Errors only arise from the
// surrounding resource (file open, mmap placement, or a read syscall
// failure), all surfaced at construction time or collapsed into end of
// input.
package csvspan

import (
	"io"

	"github.com/shapestone/csvspan/internal/cursor"
	"github.com/shapestone/csvspan/internal/rowparser"
)

// Row is an ordered, reusable sequence of CellView. Cells borrow their
// bytes from the Reader's buffer and are valid only until the next Next
// call.
type Row = rowparser.Row

// CellView is a passive reference into a Reader's buffer.
type CellView = rowparser.CellView

// Reader parses rows from an input cursor. It is not safe for concurrent
// use; each Reader owns one cursor exclusively for its lifetime.
type Reader struct {
	cursor cursorCloser
	parser *rowparser.Parser
}

// cursorCloser is the subset of internal/cursor.Cursor plus io.Closer that
// the Reader needs to hold directly, so it can call Close without going
// back through the parser.
type cursorCloser interface {
	rowparser.Cursor
	io.Closer
}

// Open maps path read-only and returns a Reader over its entire contents.
// Resource errors (path not found, stat failure, mmap placement failure)
// are returned here rather than surfacing later during iteration.
func Open(path string, cfg Config) (*Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c, err := cursor.OpenMapped(path)
	if err != nil {
		return nil, err
	}
	return newReader(c, cfg), nil
}

// NewReader returns a Reader that pulls bytes from r on demand, growing and
// refilling an owned buffer as rows are consumed.
func NewReader(r io.Reader, cfg Config) (*Reader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return newReader(cursor.NewBuffered(r), cfg), nil
}

func newReader(c cursorCloser, cfg Config) *Reader {
	cfg = cfg.withDefaults()
	return &Reader{
		cursor: c,
		parser: rowparser.New(c, rowparser.Config{
			Delimiter:          cfg.Delimiter,
			Quotechar:          cfg.Quotechar,
			Escapechar:         cfg.Escapechar,
			YieldIncompleteRow: cfg.YieldIncompleteRow,
		}),
	}
}

// Next attempts to parse the next row. It returns false once input is
// exhausted; Row exposes the parsed cells until the next Next call.
func (r *Reader) Next() (bool, error) {
	return r.parser.ReadRow()
}

// Row returns the most recently parsed row. It is only valid to call after
// Next has returned true.
func (r *Reader) Row() *Row {
	return r.parser.Row()
}

// Close releases the underlying cursor's resources (unmapping a file or
// releasing a buffered reader's backing array).
func (r *Reader) Close() error {
	return r.cursor.Close()
}
