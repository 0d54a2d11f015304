//go:build linux && (amd64 || arm64)

package cursor

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MappedCursor makes an entire file visible via a POSIX mmap, with a guard
// page installed immediately past the file's content so that a 16-byte
// spanner load issued at the very last valid byte never faults.
//
// The guard page is installed using the "reserve anonymous, then overlay
// fixed" dance from the original csvmonkey: mmap an anonymous region sized
// file-size-rounded-up-to-page plus one guard page (letting the kernel pick
// the address), then mmap the file on top of the low portion of that region
// with MAP_FIXED. Because the anonymous reservation already owns the
// address range, the fixed overlay cannot race with any other mapping
// request in the process. golang.org/x/sys/unix does not expose a MAP_FIXED
// overlay through its high-level Mmap wrapper (which never takes an
// explicit address), so the overlay step issues the mmap(2) syscall
// directly via unix.Syscall6.
type MappedCursor struct {
	data   []byte // anonymous reservation: file content + guard page
	fileSz int     // valid byte count (excludes the guard page)
	pos    int
}

// OpenMapped opens path read-only and maps it per the guard-page dance
// described above. A zero-length file is mapped as an empty cursor with no
// guard page needed.
func OpenMapped(path string) (*MappedCursor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}

	size := int(st.Size())
	if size == 0 {
		return &MappedCursor{data: nil, fileSz: 0}, nil
	}

	pageSize := os.Getpagesize()
	rounded := roundUpToPage(size, pageSize)

	// PROT_READ, not PROT_NONE: the file overlay below only covers the first
	// size bytes, so whatever of this reservation the overlay leaves
	// untouched (the padding up to the page boundary, plus the whole guard
	// page when size is already page-aligned) must stay legally readable —
	// a spanner load issued near end-of-file reads into it as readable
	// garbage rather than faulting.
	reservation, err := unix.Mmap(-1, 0, rounded+pageSize, unix.PROT_READ,
		unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, &MapError{Path: path, Op: "reserve guard region", Err: err}
	}

	addr := uintptr(unsafe.Pointer(&reservation[0]))
	r1, _, errno := unix.Syscall6(unix.SYS_MMAP, addr, uintptr(size),
		unix.PROT_READ, uintptr(unix.MAP_SHARED|unix.MAP_FIXED), f.Fd(), 0)
	if errno != 0 {
		_ = unix.Munmap(reservation)
		return nil, &MapError{Path: path, Op: "overlay file mapping", Err: errno}
	}
	if r1 != addr {
		_ = unix.Munmap(reservation)
		return nil, &MapError{Path: path, Op: "overlay file mapping", Err: unix.EINVAL}
	}

	_ = unix.Madvise(reservation[:size], unix.MADV_SEQUENTIAL)

	return &MappedCursor{data: reservation, fileSz: size}, nil
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

// Fill always reports false: the entire file is already visible.
func (c *MappedCursor) Fill() (bool, error) {
	return false, nil
}

// Close unmaps the file content and the trailing guard page in one call,
// since both live in the same anonymous reservation.
func (c *MappedCursor) Close() error {
	if c.data == nil {
		return nil
	}
	data := c.data
	c.data = nil
	return unix.Munmap(data)
}

func roundUpToPage(n, pageSize int) int {
	if n%pageSize == 0 {
		return n
	}
	return (n/pageSize + 1) * pageSize
}
