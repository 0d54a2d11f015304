package cursor

import "io"

// initialBufferSize matches the original csvmonkey BufferedStreamCursor's
// starting allocation; it doubles from here whenever a single row does not
// fit.
const initialBufferSize = 32 * 1024

// BufferedCursor grows and refills an owned buffer by reading from an
// io.Reader, for input sources that cannot be mapped (pipes, network
// sockets, stdin, compressed streams). It follows the same overall shape as
// the original csvmonkey BufferedStreamCursor: unread bytes are shifted down
// to the front of the buffer, then Read is called to append past them. When
// even a full buffer has no safety margin left after a shift (a single row
// longer than the current buffer), the buffer doubles.
type BufferedCursor struct {
	r    io.Reader
	buf  []byte // backing storage, len(buf) is capacity, not validity
	pos  int     // logical start within buf
	end  int     // one past the last valid byte within buf
	eof  bool
	err  error
}

// NewBuffered wraps r in a BufferedCursor with the standard starting
// capacity.
func NewBuffered(r io.Reader) *BufferedCursor {
	return &BufferedCursor{
		r:   r,
		buf: make([]byte, initialBufferSize),
	}
}

// Buf returns the valid region starting at the logical read position,
// extended to the full backing array rather than cut off at end: Fill
// guarantees at least MinSafetyMargin allocated bytes past end, and callers
// are entitled to read up to Size()+15 bytes past Buf()'s start.
func (c *BufferedCursor) Buf() []byte {
	return c.buf[c.pos:]
}

func (c *BufferedCursor) Size() int {
	return c.end - c.pos
}

func (c *BufferedCursor) Consume(n int) {
	remain := c.Size()
	if n > remain {
		n = remain
	}
	c.pos += n
}

// Fill shifts any unread bytes to the front of the buffer, growing it first
// if that would not leave room for at least MinSafetyMargin bytes of slack
// past the refilled content, then reads more bytes from the underlying
// reader. It returns false once the reader has reached EOF and no further
// bytes were appended.
func (c *BufferedCursor) Fill() (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	if c.eof {
		return false, nil
	}

	c.shiftDown()

	// Grow until there is room for at least one byte of read target beyond
	// the margin the invariant reserves, so a Read that fills its whole
	// target slice still leaves MinSafetyMargin bytes unused past the new
	// end.
	for len(c.buf)-c.end <= MinSafetyMargin {
		c.grow()
	}

	readTarget := c.buf[c.end : len(c.buf)-MinSafetyMargin]
	n, err := c.r.Read(readTarget)
	if n > 0 {
		c.end += n
	}
	if err != nil {
		if err == io.EOF {
			c.eof = true
		} else {
			c.err = &ReadError{Err: err}
			return false, c.err
		}
	}
	return n > 0, nil
}

func (c *BufferedCursor) shiftDown() {
	if c.pos == 0 {
		return
	}
	n := copy(c.buf, c.buf[c.pos:c.end])
	c.end = n
	c.pos = 0
}

func (c *BufferedCursor) grow() {
	next := make([]byte, len(c.buf)*2)
	copy(next, c.buf[c.pos:c.end])
	c.end -= c.pos
	c.pos = 0
	c.buf = next
}

func (c *BufferedCursor) Close() error {
	c.buf = nil
	c.pos, c.end = 0, 0
	c.eof = true
	if rc, ok := c.r.(io.Closer); ok {
		return rc.Close()
	}
	return nil
}
