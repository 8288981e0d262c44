package comparator

import (
	"context"
	"errors"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/codec"
	pkgerrors "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/errors"
)

// referenceDataset is the worked example from the course material: a gap
// sequence dominated by ones with one large jump, and small frequencies.
func referenceDataset() *Dataset {
	return &Dataset{
		PostingLists: []PostingList{
			{
				Term:        "compression",
				Gaps:        []uint64{1, 1, 1, 5000},
				Frequencies: []uint64{1, 1, 2, 1},
			},
		},
	}
}

func TestRunKnownTotalsVariableByte(t *testing.T) {
	c := New(Options{})
	report, err := c.Run(context.Background(), referenceDataset(),
		codec.VariableByteName, codec.VariableByteName)
	if err != nil {
		t.Fatal(err)
	}

	// Gaps: three single-group values plus one two-group value. Each
	// frequency fits a single group.
	if report.Gaps.Bits != 8+8+8+16 {
		t.Fatalf("gap bits = %d, want 40", report.Gaps.Bits)
	}
	if report.Frequencies.Bits != 4*8 {
		t.Fatalf("frequency bits = %d, want 32", report.Frequencies.Bits)
	}
	if report.TotalBits != 72 {
		t.Fatalf("total bits = %d, want 72", report.TotalBits)
	}
	if report.BaselineBits != 8*32 {
		t.Fatalf("baseline bits = %d, want 256", report.BaselineBits)
	}
}

func TestRunKnownTotalsOneshotGamma(t *testing.T) {
	c := New(Options{})
	report, err := c.Run(context.Background(), referenceDataset(),
		codec.OneshotName, codec.EliasGammaName)
	if err != nil {
		t.Fatal(err)
	}

	// Oneshot: one bit per one, flag plus two variable-byte groups for
	// the 5000. Elias-Gamma: one bit per one, three bits for the 2.
	if report.Gaps.Bits != 1+1+1+17 {
		t.Fatalf("gap bits = %d, want 20", report.Gaps.Bits)
	}
	if report.Frequencies.Bits != 1+1+3+1 {
		t.Fatalf("frequency bits = %d, want 6", report.Frequencies.Bits)
	}
	if report.TotalBits != 26 {
		t.Fatalf("total bits = %d, want 26", report.TotalBits)
	}
	if report.CompressionRatio <= 1 {
		t.Fatalf("compression ratio = %f, want > 1", report.CompressionRatio)
	}
}

func TestOneshotGammaBeatsVariableByteOnGapHeavyData(t *testing.T) {
	c := New(Options{})
	d := referenceDataset()

	vbc, err := c.Run(context.Background(), d, codec.VariableByteName, codec.VariableByteName)
	if err != nil {
		t.Fatal(err)
	}
	hybrid, err := c.Run(context.Background(), d, codec.OneshotName, codec.EliasGammaName)
	if err != nil {
		t.Fatal(err)
	}
	if hybrid.TotalBits >= vbc.TotalBits {
		t.Fatalf("oneshot/elias-gamma total %d bits, variable-byte total %d bits; want strictly fewer",
			hybrid.TotalBits, vbc.TotalBits)
	}
}

func TestSerialAndParallelPassesAgree(t *testing.T) {
	d := &Dataset{}
	for i := 0; i < 50; i++ {
		pl := PostingList{Term: "t"}
		for j := 0; j < 40; j++ {
			gap := uint64(1)
			if (i+j)%7 == 0 {
				gap = uint64(1 + i*j*13)
			}
			pl.Gaps = append(pl.Gaps, gap)
			pl.Frequencies = append(pl.Frequencies, uint64(1+j%5))
		}
		d.PostingLists = append(d.PostingLists, pl)
	}

	serial := New(Options{Parallelism: 1})
	parallel := New(Options{Parallelism: 8})

	for _, name := range codec.Names() {
		sr, err := serial.Run(context.Background(), d, name, name)
		if err != nil {
			t.Fatalf("%s serial: %v", name, err)
		}
		pr, err := parallel.Run(context.Background(), d, name, name)
		if err != nil {
			t.Fatalf("%s parallel: %v", name, err)
		}
		if sr.TotalBits != pr.TotalBits || sr.Gaps.Bits != pr.Gaps.Bits || sr.Frequencies.Bits != pr.Frequencies.Bits {
			t.Fatalf("%s: serial totals (%d,%d,%d) != parallel totals (%d,%d,%d)",
				name, sr.Gaps.Bits, sr.Frequencies.Bits, sr.TotalBits,
				pr.Gaps.Bits, pr.Frequencies.Bits, pr.TotalBits)
		}
	}
}

func TestRunRejectsUnknownCodec(t *testing.T) {
	c := New(Options{})
	_, err := c.Run(context.Background(), referenceDataset(), "lz4", codec.EliasGammaName)
	if !errors.Is(err, pkgerrors.ErrUnknownCodec) {
		t.Fatalf("got %v, want ErrUnknownCodec", err)
	}
	_, err = c.Run(context.Background(), referenceDataset(), codec.OneshotName, "snappy")
	if !errors.Is(err, pkgerrors.ErrUnknownCodec) {
		t.Fatalf("got %v, want ErrUnknownCodec", err)
	}
}

func TestRunRejectsInvalidDataset(t *testing.T) {
	c := New(Options{})
	cases := []*Dataset{
		{},
		{PostingLists: []PostingList{{Gaps: []uint64{1, 2}, Frequencies: []uint64{1}}}},
		{PostingLists: []PostingList{{Gaps: []uint64{1, 0}, Frequencies: []uint64{1, 1}}}},
		{PostingLists: []PostingList{{Gaps: []uint64{1, 1}, Frequencies: []uint64{0, 1}}}},
	}
	for i, d := range cases {
		_, err := c.Run(context.Background(), d, codec.VariableByteName, codec.VariableByteName)
		if !errors.Is(err, pkgerrors.ErrInvalidDataset) {
			t.Fatalf("case %d: got %v, want ErrInvalidDataset", i, err)
		}
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(Options{})
	if _, err := c.Run(ctx, referenceDataset(), codec.OneshotName, codec.EliasGammaName); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestReportTimingFieldsPopulated(t *testing.T) {
	c := New(Options{})
	report, err := c.Run(context.Background(), referenceDataset(),
		codec.VariableByteName, codec.VariableByteName)
	if err != nil {
		t.Fatal(err)
	}
	if report.EncodeDuration <= 0 {
		t.Fatalf("encode duration = %v, want > 0", report.EncodeDuration)
	}
	if report.CreatedAt.IsZero() {
		t.Fatal("created_at not set")
	}
}
