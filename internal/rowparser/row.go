package rowparser

// initialRowCapacity matches the original csvmonkey CsvCursor's starting
// cell-vector size.
const initialRowCapacity = 32

// Row is an ordered, reusable sequence of CellView. Its backing storage
// grows monotonically by doubling; count is reset to zero at the start of
// each ReadRow attempt so the storage can be reused across rows without
// reallocating in the common case.
type Row struct {
	cells []CellView
	count int
}

func newRow() *Row {
	return &Row{cells: make([]CellView, initialRowCapacity)}
}

// Len returns the number of populated cells in the row.
func (r *Row) Len() int {
	return r.count
}

// Cell returns the i'th cell of the row. It panics if i is out of
// [0, Len()), matching slice-indexing semantics.
func (r *Row) Cell(i int) CellView {
	if i < 0 || i >= r.count {
		panic("rowparser: cell index out of range")
	}
	return r.cells[i]
}

// ByValue scans the row's cells left to right for one whose decoded string
// equals value, returning the first match. This mirrors a lookup a caller
// would otherwise write by hand against Cell/Len, provided here because the
// original row cursor this package is modeled on offers the same
// convenience.
func (r *Row) ByValue(value string) (CellView, bool) {
	for i := 0; i < r.count; i++ {
		if r.cells[i].String() == value {
			return r.cells[i], true
		}
	}
	return CellView{}, false
}

// capacity returns the number of cell slots currently allocated.
func (r *Row) capacity() int {
	return len(r.cells)
}

// grow doubles the cell-vector capacity, discarding any in-progress
// partial content; callers only grow between retries of the same row, at
// which point count is about to be reset to zero anyway.
func (r *Row) grow() {
	r.cells = make([]CellView, 2*len(r.cells))
}
