//go:build !(linux && (amd64 || arm64))

package cursor

import "os"

// MappedCursor, on platforms where the guard-page mmap dance in
// mmap_unix.go is not available (the real mmap(2)+MAP_FIXED overlay
// requires knowing the platform's raw mmap syscall number, which
// golang.org/x/sys/unix only defines for a subset of unix/arch pairs),
// reads the file fully into an owned, padded buffer instead. This keeps the
// safety invariant (size()+15 always readable) trivially true at the cost
// of one copy, exactly as the teacher's non-unix MmapFile fallback reads
// the whole file rather than mapping it.
type MappedCursor struct {
	data   []byte // file content followed by MinSafetyMargin zero bytes
	fileSz int
	pos    int
}

// OpenMapped reads path fully into memory and pads it with the cursor
// safety margin.
func OpenMapped(path string) (*MappedCursor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	data := make([]byte, len(raw)+MinSafetyMargin)
	copy(data, raw)

	return &MappedCursor{data: data, fileSz: len(raw)}, nil
}

func (c *MappedCursor) Buf() []byte {
	if c.pos >= len(c.data) {
		return c.data[len(c.data):]
	}
	return c.data[c.pos:]
}

func (c *MappedCursor) Size() int {
	if c.pos >= c.fileSz {
		return 0
	}
	return c.fileSz - c.pos
}

func (c *MappedCursor) Consume(n int) {
	remain := c.Size()
	if n > remain {
		n = remain
	}
	c.pos += n
}

func (c *MappedCursor) Fill() (bool, error) {
	return false, nil
}

func (c *MappedCursor) Close() error {
	c.data = nil
	return nil
}
