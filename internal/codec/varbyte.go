package codec

import "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/bitio"

// VariableByte encodes an integer as base-128 digit groups of 8 bits
// each, most significant digit first. The low 7 bits of every group hold
// the digit; the high bit is set only on the terminal (least significant)
// group. Zero is representable as a single terminal group of digit zero.
// Cost is 8 bits per started 7 bits of magnitude.
//
// See https://nlp.stanford.edu/IR-book/pdf/05comp.pdf, figure 5.8.
type VariableByte struct{}

func (VariableByte) Name() string { return VariableByteName }

func (VariableByte) Encode(v uint64, w *bitio.Writer) (int, error) {
	// A uint64 splits into at most ten base-128 digits.
	var digits [10]byte
	n := 0
	for {
		digits[n] = byte(v & 0x7F)
		n++
		v >>= 7
		if v == 0 {
			break
		}
	}
	for i := n - 1; i >= 1; i-- {
		w.WriteBits(uint64(digits[i]), 8)
	}
	w.WriteBits(uint64(digits[0])|0x80, 8)
	return n * 8, nil
}

func (VariableByte) Decode(r *bitio.Reader) (uint64, error) {
	var v uint64
	for {
		group, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		v = v<<7 | (group & 0x7F)
		if group&0x80 != 0 {
			return v, nil
		}
	}
}
