package codec

import (
	"errors"
	"math"
	"math/bits"
	"testing"
)

func TestEliasGammaEncodeOne(t *testing.T) {
	w, n := encodeOne(t, EliasGamma{}, 1)
	if n != 1 {
		t.Fatalf("Encode(1) wrote %d bits, want 1", n)
	}
	if got := w.String(); got != "1" {
		t.Fatalf("Encode(1) = %q, want %q", got, "1")
	}
}

func TestEliasGammaEncodeFour(t *testing.T) {
	// N = 3: prefix 00, binary 100.
	w, n := encodeOne(t, EliasGamma{}, 4)
	if n != 5 {
		t.Fatalf("Encode(4) wrote %d bits, want 5", n)
	}
	if got := w.String(); got != "00100" {
		t.Fatalf("Encode(4) = %q, want %q", got, "00100")
	}
	assertRoundTrip(t, EliasGamma{}, 4)
}

func TestEliasGammaCostFormula(t *testing.T) {
	// 2*floor(log2 v) + 1 bits for every v >= 1.
	for v := uint64(1); v <= 2048; v++ {
		_, n := encodeOne(t, EliasGamma{}, v)
		want := 2*(bits.Len64(v)-1) + 1
		if n != want {
			t.Fatalf("Encode(%d) wrote %d bits, want %d", v, n, want)
		}
	}
	_, n := encodeOne(t, EliasGamma{}, math.MaxUint64)
	if n != 127 {
		t.Fatalf("Encode(MaxUint64) wrote %d bits, want 127", n)
	}
}

func TestEliasGammaRejectsZero(t *testing.T) {
	w, _ := encodeOne(t, EliasGamma{}, 1)
	before := w.Len()
	if _, err := (EliasGamma{}).Encode(0, w); !errors.Is(err, ErrZeroValue) {
		t.Fatalf("Encode(0): got %v, want ErrZeroValue", err)
	}
	if w.Len() != before {
		t.Fatalf("Encode(0) wrote %d bits to the stream", w.Len()-before)
	}
}

func TestEliasGammaRoundTrip(t *testing.T) {
	values := []uint64{1, 2, 3, 4, 5, 7, 8, 15, 16, 100, 1023, 1024,
		5000, 1<<32 - 1, 1 << 32, math.MaxUint64}
	for _, v := range values {
		assertRoundTrip(t, EliasGamma{}, v)
	}
}

func TestEliasGammaTruncation(t *testing.T) {
	// Cuts land both inside the unary prefix and inside the binary field.
	for _, v := range []uint64{1, 2, 4, 100, 5000, 1 << 40} {
		assertTruncationSafe(t, EliasGamma{}, v)
	}
}
