package codec

import (
	"math/bits"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/bitio"
)

// EliasGamma encodes a positive integer v as N-1 zero bits followed by
// the N-bit binary form of v, where N is the bit length of v. The leading
// one of the binary form doubles as the unary terminator, so the cost is
// exactly 2*floor(log2 v) + 1 bits: a single bit for v = 1, growing
// roughly twice as fast as the binary magnitude. Favourable for term
// frequencies, which are overwhelmingly small; unfavourable against
// variable-byte once values reach the thousands.
//
// Zero is not representable. Callers that need it must shift their
// domain, encoding v+1 and subtracting one after decode.
type EliasGamma struct{}

func (EliasGamma) Name() string { return EliasGammaName }

func (EliasGamma) Encode(v uint64, w *bitio.Writer) (int, error) {
	if v == 0 {
		return 0, ErrZeroValue
	}
	n := bits.Len64(v)
	for i := 0; i < n-1; i++ {
		w.WriteBit(0)
	}
	w.WriteBits(v, n)
	return 2*n - 1, nil
}

func (EliasGamma) Decode(r *bitio.Reader) (uint64, error) {
	zeros := 0
	for {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit == 1 {
			break
		}
		zeros++
	}
	// The one-bit just consumed is the leading bit of the value.
	v := uint64(1)
	for i := 0; i < zeros; i++ {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		v = v<<1 | uint64(bit)
	}
	return v, nil
}
