// Package bitio provides the bit-level writer and reader that the posting
// list codecs are built on. A Writer accumulates bits in insertion order
// and tracks the logical bit length; a Reader consumes them in the same
// order with a cursor. Bits are packed MSB-first within each byte. The
// byte view zero-fills the final partial byte, but the logical length is
// authoritative: reading past it yields ErrOutOfBits.
package bitio

import "errors"

// ErrOutOfBits is returned when a read runs past the logical end of the
// stream. A truncated stream must surface this rather than decode into a
// plausible-looking value.
var ErrOutOfBits = errors.New("bitio: out of bits")

// Writer accumulates a bit stream in insertion order.
type Writer struct {
	buf   []byte
	curr  byte
	nBits uint8 // bits buffered in curr, 0..7
}

// NewWriter creates an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// WriteBit appends a single bit. Any non-zero value is written as 1.
func (w *Writer) WriteBit(bit uint8) {
	if bit != 0 {
		w.curr |= 1 << (7 - w.nBits)
	}
	w.nBits++
	if w.nBits == 8 {
		w.buf = append(w.buf, w.curr)
		w.curr = 0
		w.nBits = 0
	}
}

// WriteBits appends the low `width` bits of v, most significant first.
func (w *Writer) WriteBits(v uint64, width int) {
	for i := width - 1; i >= 0; i-- {
		w.WriteBit(uint8((v >> uint(i)) & 1))
	}
}

// Len returns the number of bits written so far.
func (w *Writer) Len() int {
	return len(w.buf)*8 + int(w.nBits)
}

// Bytes returns the accumulated stream with the final partial byte
// zero-filled. The writer remains usable afterwards.
func (w *Writer) Bytes() []byte {
	out := make([]byte, len(w.buf), len(w.buf)+1)
	copy(out, w.buf)
	if w.nBits > 0 {
		out = append(out, w.curr)
	}
	return out
}

// Reset discards all written bits.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.curr = 0
	w.nBits = 0
}

// Reader returns a cursor over everything written so far.
func (w *Writer) Reader() *Reader {
	return NewReader(w.Bytes(), w.Len())
}

// String renders the stream as a string of '0' and '1' runes, in write
// order. Intended for tests and debug logging.
func (w *Writer) String() string {
	r := w.Reader()
	out := make([]byte, 0, w.Len())
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return string(out)
		}
		out = append(out, '0'+bit)
	}
}

// Reader consumes a bit stream in write order.
type Reader struct {
	data []byte
	n    int // logical length in bits
	pos  int // read cursor in bits
}

// NewReader creates a Reader over data holding n logical bits.
func NewReader(data []byte, n int) *Reader {
	if max := len(data) * 8; n > max {
		n = max
	}
	return &Reader{data: data, n: n}
}

// ReadBit returns the next bit, or ErrOutOfBits if the stream is
// exhausted. The cursor is unchanged on error.
func (r *Reader) ReadBit() (uint8, error) {
	if r.pos >= r.n {
		return 0, ErrOutOfBits
	}
	bit := (r.data[r.pos/8] >> (7 - uint(r.pos%8))) & 1
	r.pos++
	return bit, nil
}

// ReadBits reads a fixed-width run of up to 64 bits, most significant
// first. If fewer than `width` bits remain, it returns ErrOutOfBits and
// leaves the cursor unchanged.
func (r *Reader) ReadBits(width int) (uint64, error) {
	if width > r.n-r.pos {
		return 0, ErrOutOfBits
	}
	var v uint64
	for i := 0; i < width; i++ {
		bit, _ := r.ReadBit()
		v = v<<1 | uint64(bit)
	}
	return v, nil
}

// Pos returns the current cursor position in bits.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int {
	return r.n - r.pos
}
