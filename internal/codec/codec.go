// Package codec implements the posting-list integer codecs: variable-byte,
// Elias-Gamma, and the oneshot hybrid. Each codec maps non-negative
// integers to a self-delimiting bit stream and back. Codecs are stateless;
// a single instance is safe to share across goroutines.
package codec

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/bitio"
)

var (
	// ErrUnknown is returned by Lookup for an unregistered codec name.
	ErrUnknown = errors.New("codec: unknown codec")

	// ErrZeroValue is returned by codecs whose domain starts at one.
	// Callers that need to encode zero must offset their input domain.
	ErrZeroValue = errors.New("codec: value zero is outside this codec's domain")
)

// Codec encodes single integers onto a bit stream and decodes them back.
// Encodings are self-delimiting: decoding concatenated values requires
// only that the reader stop after the same number of values the writer
// wrote.
type Codec interface {
	// Name returns the registry name of the codec.
	Name() string

	// Encode appends the encoding of v to w and returns the number of
	// bits written.
	Encode(v uint64, w *bitio.Writer) (int, error)

	// Decode reads the next value from r. A stream that ends before the
	// value is complete yields bitio.ErrOutOfBits.
	Decode(r *bitio.Reader) (uint64, error)
}

// Registry names.
const (
	VariableByteName = "variable-byte"
	EliasGammaName   = "elias-gamma"
	OneshotName      = "oneshot"
)

var registry = map[string]Codec{
	VariableByteName: VariableByte{},
	EliasGammaName:   EliasGamma{},
	OneshotName:      Oneshot{},
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return c, nil
}

// Names returns all registered codec names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncodeAll encodes values onto w in order and returns the total number
// of bits written.
func EncodeAll(c Codec, values []uint64, w *bitio.Writer) (int, error) {
	total := 0
	for _, v := range values {
		n, err := c.Encode(v, w)
		if err != nil {
			return total, fmt.Errorf("encoding value %d: %w", v, err)
		}
		total += n
	}
	return total, nil
}

// DecodeAll reads n consecutive values from r.
func DecodeAll(c Codec, r *bitio.Reader, n int) ([]uint64, error) {
	values := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		v, err := c.Decode(r)
		if err != nil {
			return nil, fmt.Errorf("decoding value %d of %d: %w", i+1, n, err)
		}
		values = append(values, v)
	}
	return values, nil
}
