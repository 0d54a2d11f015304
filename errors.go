package csvspan

import "github.com/shapestone/csvspan/internal/cursor"

// OpenError reports failure to open or stat an input file, surfaced at
// Open time. It is an alias for the cursor package's error type so callers
// can use errors.As against a single exported type regardless of which
// internal layer produced it.
type OpenError = cursor.OpenError

// MapError reports failure at some step of installing the mmap guard page.
type MapError = cursor.MapError

// ReadError reports failure to read more bytes from an underlying
// io.Reader. Reader.Next does not return it: a read failure ends the input.
type ReadError = cursor.ReadError
