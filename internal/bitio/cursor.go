// Package bitio reads arbitrary bit-widths out of a byte slice, MSB-first
// within each byte and big-endian across bytes.
package bitio

import "fmt"

// InsufficientBitsError reports a read past the end of the underlying buffer.
type InsufficientBitsError struct {
	Offset    int // bit offset the read started at
	Needed    int
	Available int
}

func (e *InsufficientBitsError) Error() string {
	return fmt.Sprintf("bitio: insufficient bits at offset %d: need %d, have %d", e.Offset, e.Needed, e.Available)
}

// Cursor tracks a read position, in bits, within a byte slice.
type Cursor struct {
	buf    []byte
	bitPos int
}

// NewCursor returns a cursor positioned at the start of buf.
func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// RemainingBits returns how many bits are left to read.
func (c *Cursor) RemainingBits() int {
	total := len(c.buf) * 8
	if c.bitPos >= total {
		return 0
	}
	return total - c.bitPos
}

// ByteOffset returns the current position rounded down to a whole byte.
func (c *Cursor) ByteOffset() int {
	return c.bitPos / 8
}

// Clone returns an independent cursor over the same backing buffer at the
// same position; advancing the clone does not affect the receiver. Used
// for non-consuming lookahead (§4.3 UAP selection).
func (c *Cursor) Clone() *Cursor {
	return &Cursor{buf: c.buf, bitPos: c.bitPos}
}

// Skip advances the cursor by n bits without reading them.
func (c *Cursor) Skip(n int) error {
	if n < 0 {
		return fmt.Errorf("bitio: negative skip %d", n)
	}
	if c.RemainingBits() < n {
		return &InsufficientBitsError{Offset: c.bitPos, Needed: n, Available: c.RemainingBits()}
	}
	c.bitPos += n
	return nil
}

// ReadBits reads the next n bits (1 <= n <= 64) MSB-first and advances the
// cursor. The result is always unsigned; callers sign-extend if needed.
func (c *Cursor) ReadBits(n int) (uint64, error) {
	if n <= 0 || n > 64 {
		return 0, fmt.Errorf("bitio: bit width %d out of range [1,64]", n)
	}
	if c.RemainingBits() < n {
		return 0, &InsufficientBitsError{Offset: c.bitPos, Needed: n, Available: c.RemainingBits()}
	}

	var result uint64
	remaining := n
	for remaining > 0 {
		byteIdx := c.bitPos / 8
		bitInByte := c.bitPos % 8
		bitsLeftInByte := 8 - bitInByte
		take := bitsLeftInByte
		if take > remaining {
			take = remaining
		}

		shift := bitsLeftInByte - take
		mask := byte((1 << take) - 1)
		chunk := (c.buf[byteIdx] >> uint(shift)) & mask

		result = (result << uint(take)) | uint64(chunk)
		c.bitPos += take
		remaining -= take
	}
	return result, nil
}

// ReadBytes reads n whole bytes. If the cursor is byte-aligned it slices the
// underlying buffer directly; otherwise it falls back to ReadBits per byte.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("bitio: negative length %d", n)
	}
	if c.RemainingBits() < n*8 {
		return nil, &InsufficientBitsError{Offset: c.bitPos, Needed: n * 8, Available: c.RemainingBits()}
	}

	if c.bitPos%8 == 0 {
		start := c.bitPos / 8
		out := c.buf[start : start+n]
		c.bitPos += n * 8
		return out, nil
	}

	out := make([]byte, n)
	for i := 0; i < n; i++ {
		v, err := c.ReadBits(8)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

// ReadFlag reads a single bit as a bool.
func (c *Cursor) ReadFlag() (bool, error) {
	v, err := c.ReadBits(1)
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// Extract reads bits [from,to] (1-based, inclusive, spec-numbered from the
// LSB of the full field, per ASTERIX convention) out of a standalone byte
// slice without mutating any cursor state, returning the raw value either
// as signed two's-complement or unsigned.
func Extract(data []byte, from, to int, signed bool) (int64, error) {
	if from < 1 || to < from {
		return 0, fmt.Errorf("bitio: invalid bit range [%d,%d]", from, to)
	}
	totalBits := len(data) * 8
	if to > totalBits {
		return 0, &InsufficientBitsError{Offset: 0, Needed: to, Available: totalBits}
	}

	width := to - from + 1
	// Spec bit numbers count from 1 at the LSB of the whole field; the
	// cursor reads MSB-first, so translate into an offset from the start
	// of the buffer.
	msbOffset := totalBits - to

	cur := &Cursor{buf: data, bitPos: msbOffset}
	raw, err := cur.ReadBits(width)
	if err != nil {
		return 0, err
	}

	if signed && width < 64 && raw&(1<<(width-1)) != 0 {
		return int64(raw) - int64(1<<width), nil
	}
	return int64(raw), nil
}
