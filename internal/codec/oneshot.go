package codec

import "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/bitio"

// Oneshot special-cases the value one, which dominates document-gap
// sequences, and falls back to VariableByte for everything else. A one
// costs a single 0 bit; any other value costs a 1 flag bit plus its full
// variable-byte encoding. The flag alone discriminates the two cases, so
// the fallback encodes v unmodified. Net win whenever ones are frequent
// enough to amortise the one-bit tax on the rest of the sequence.
//
// Like EliasGamma, zero is outside the domain.
type Oneshot struct{}

func (Oneshot) Name() string { return OneshotName }

func (Oneshot) Encode(v uint64, w *bitio.Writer) (int, error) {
	if v == 0 {
		return 0, ErrZeroValue
	}
	if v == 1 {
		w.WriteBit(0)
		return 1, nil
	}
	w.WriteBit(1)
	n, err := VariableByte{}.Encode(v, w)
	return n + 1, err
}

func (Oneshot) Decode(r *bitio.Reader) (uint64, error) {
	flag, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	if flag == 0 {
		return 1, nil
	}
	return VariableByte{}.Decode(r)
}
