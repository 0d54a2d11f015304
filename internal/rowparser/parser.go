package rowparser

import "github.com/shapestone/csvspan/internal/spanner"

// Config holds the dialect knobs a Parser is constructed with. It is
// immutable for the parser's lifetime. A zero escapechar means "no escape
// character configured."
type Config struct {
	Delimiter          byte
	Quotechar          byte
	Escapechar         byte
	YieldIncompleteRow bool
}

// state names a position in the row grammar. The goto-style control flow of
// the grammar this parser implements is represented here as an explicit
// enumeration driven by a single loop, so the scan pointer and current cell
// start stay in local variables for the lifetime of one ReadRow call rather
// than being threaded through separate functions.
type state int

const (
	stNewlineSkip state = iota
	stCellStart
	stInQuotedCell
	stAfterQuotedBreak
	stInUnquotedCell
	stAfterUnquotedBreak
)

type tryParseResult int

const (
	resultOkay tryParseResult = iota
	resultOverflow
	resultUnderrun
)

// Parser is the row-level state machine. It holds an exclusive borrow of
// one Cursor for its lifetime; it never copies or retains bytes beyond what
// CellView's borrowed ranges point at.
type Parser struct {
	cursor Cursor
	cfg    Config

	quotedSpanner   *spanner.Spanner
	unquotedSpanner *spanner.Spanner

	row *Row
}

// Cursor is the subset of internal/cursor.Cursor the parser needs; declared
// locally so this package does not import internal/cursor directly and can
// be driven by any buffer source satisfying the same two operations.
type Cursor interface {
	Buf() []byte
	Size() int
	Consume(n int)
	Fill() (bool, error)
}

// New builds a Parser that reads rows from cursor according to cfg.
func New(cursor Cursor, cfg Config) *Parser {
	return &Parser{
		cursor:          cursor,
		cfg:             cfg,
		quotedSpanner:   spanner.New(cfg.Quotechar, cfg.Escapechar, 0, 0),
		unquotedSpanner: spanner.New(cfg.Delimiter, '\r', '\n', cfg.Escapechar),
		row:             newRow(),
	}
}

// ReadRow attempts to parse the next row. It returns false once input is
// exhausted (and no partial row was eligible to be yielded); on true, Row
// exposes the parsed cells until the next ReadRow call.
func (p *Parser) ReadRow() (bool, error) {
	final := false
	for {
		buf := p.cursor.Buf()
		size := p.cursor.Size()

		consumed, result := p.tryParse(buf, size, final)
		switch result {
		case resultOkay:
			p.cursor.Consume(consumed)
			return true, nil
		case resultOverflow:
			p.row.grow()
			continue
		case resultUnderrun:
			if final {
				return false, nil
			}
		}

		more, err := p.cursor.Fill()
		if err != nil {
			// A read failure is treated as end of input.
			more = false
		}
		if !more {
			if !p.cfg.YieldIncompleteRow {
				return false, nil
			}
			// No further bytes are coming; reparse the same remaining
			// window treating the buffer's end as a virtual terminator, so
			// a trailing row with no line terminator still gets emitted.
			final = true
		}
	}
}

// Row returns the most recently parsed row.
func (p *Parser) Row() *Row {
	return p.row
}

// tryParse attempts one complete row parse against buf. size is the number
// of logically valid bytes in buf; buf itself must additionally carry at
// least spanner.WindowSize-1 readable bytes past size (the cursor's safety
// margin), since spanner calls always read a full window starting at the
// current scan position regardless of where size falls within it.
//
// final is set once the cursor has permanently run out of input (Fill has
// reported no further progress is possible). In that mode, reaching the end
// of the buffer mid-row is treated as a virtual line terminator instead of
// an underrun, so a trailing row lacking a real terminator can still be
// emitted when the parser is configured to yield incomplete rows; a
// quotechar matched immediately before end-of-buffer is taken as a closing
// quote.
//
// consumed is only meaningful when result is resultOkay: it is the number
// of bytes to advance the cursor by.
func (p *Parser) tryParse(buf []byte, size int, final bool) (consumed int, result tryParseResult) {
	p.row.count = 0

	st := stNewlineSkip
	pos := 0
	cellStart := 0
	escaped := false

	for {
		switch st {
		case stNewlineSkip:
			if pos >= size {
				return 0, resultUnderrun
			}
			c := buf[pos]
			if c == '\r' || c == '\n' {
				pos++
				continue
			}
			st = stCellStart

		case stCellStart:
			if pos >= size {
				if !final {
					return 0, resultUnderrun
				}
				if !p.emitCell(buf[size:size], false) {
					return 0, resultOverflow
				}
				return size, resultOkay
			}
			escaped = false
			c := buf[pos]
			switch {
			case c == '\r' || c == '\n':
				if !p.emitCell(buf[pos:pos], false) {
					return 0, resultOverflow
				}
				return pos + 1, resultOkay
			case c == p.cfg.Quotechar:
				pos++
				cellStart = pos
				st = stInQuotedCell
			default:
				cellStart = pos
				st = stInUnquotedCell
			}

		case stInQuotedCell:
			if pos >= size {
				if !final {
					return 0, resultUnderrun
				}
				if !p.emitCell(buf[cellStart:size], escaped) {
					return 0, resultOverflow
				}
				return size, resultOkay
			}
			rc := p.quotedSpanner.Span(buf[pos:])
			if rc == spanner.WindowSize {
				pos += spanner.WindowSize
				continue
			}
			pos += rc + 1
			st = stAfterQuotedBreak

		case stAfterQuotedBreak:
			if pos >= size {
				if !final {
					return 0, resultUnderrun
				}
				// Only a quote at the buffer's last byte closes the cell; a
				// match found past size lies outside the valid input.
				end := size
				if pos == size {
					end = size - 1
				}
				if !p.emitCell(buf[cellStart:end], escaped) {
					return 0, resultOverflow
				}
				return size, resultOkay
			}
			c := buf[pos]
			switch {
			case c == p.cfg.Delimiter:
				if !p.emitCell(buf[cellStart:pos-1], escaped) {
					return 0, resultOverflow
				}
				pos++
				st = stCellStart
			case c == '\r' || c == '\n':
				if !p.emitCell(buf[cellStart:pos-1], escaped) {
					return 0, resultOverflow
				}
				return pos + 1, resultOkay
			default:
				escaped = true
				pos++
				st = stInQuotedCell
			}

		case stInUnquotedCell:
			if pos >= size {
				if !final {
					return 0, resultUnderrun
				}
				if !p.emitCell(buf[cellStart:size], escaped) {
					return 0, resultOverflow
				}
				return size, resultOkay
			}
			rc := p.unquotedSpanner.Span(buf[pos:])
			if rc == spanner.WindowSize {
				pos += spanner.WindowSize
				continue
			}
			pos += rc
			st = stAfterUnquotedBreak

		case stAfterUnquotedBreak:
			if pos >= size {
				if !final {
					return 0, resultUnderrun
				}
				if !p.emitCell(buf[cellStart:size], escaped) {
					return 0, resultOverflow
				}
				return size, resultOkay
			}
			c := buf[pos]
			switch {
			case c == p.cfg.Delimiter:
				if !p.emitCell(buf[cellStart:pos], escaped) {
					return 0, resultOverflow
				}
				pos++
				st = stCellStart
			case c == '\r' || c == '\n':
				if !p.emitCell(buf[cellStart:pos], escaped) {
					return 0, resultOverflow
				}
				return pos + 1, resultOkay
			default:
				escaped = true
				pos++
				st = stInUnquotedCell
			}
		}
	}
}

// emitCell appends a cell to the current row, reporting false (overflow)
// if the row's cell-vector capacity is exhausted.
func (p *Parser) emitCell(raw []byte, escaped bool) bool {
	if p.row.count == p.row.capacity() {
		return false
	}
	p.row.cells[p.row.count] = CellView{
		raw:        raw,
		escaped:    escaped,
		quotechar:  p.cfg.Quotechar,
		escapechar: p.cfg.Escapechar,
	}
	p.row.count++
	return true
}
