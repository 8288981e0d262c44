// Package comparator drives the posting-list codecs over a dataset of
// gap and term-frequency sequences, sums encoded bit lengths, and times
// the encode pass against an uncompressed fixed-width baseline. It does
// no correctness checking beyond delegating to the codecs.
package comparator

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/codec"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/bitio"
	pkgerrors "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/logger"
)

// Options tunes a Comparator. Zero values select the defaults: a serial
// pass and a 32-bit uncompressed baseline.
type Options struct {
	// Parallelism bounds how many posting lists are encoded concurrently.
	// Posting lists share no state, so the fan-out changes timing only.
	Parallelism int

	// BaselineValueBits is the fixed width per value assumed for the
	// no-compression baseline.
	BaselineValueBits int
}

// Comparator encodes datasets with a chosen codec per field and reports
// totals. Safe for concurrent use.
type Comparator struct {
	parallelism  int
	baselineBits int
	logger       *slog.Logger
}

// New creates a Comparator.
func New(opts Options) *Comparator {
	parallelism := opts.Parallelism
	if parallelism < 1 {
		parallelism = 1
	}
	baselineBits := opts.BaselineValueBits
	if baselineBits <= 0 {
		baselineBits = 32
	}
	return &Comparator{
		parallelism:  parallelism,
		baselineBits: baselineBits,
		logger:       logger.WithComponent("comparator"),
	}
}

// FieldResult is the encoded total for one posting-list field.
type FieldResult struct {
	Codec string `json:"codec"`
	Bits  uint64 `json:"bits"`
}

// Report is the outcome of one comparison run.
type Report struct {
	DatasetChecksum  string        `json:"dataset_checksum"`
	PostingLists     int           `json:"posting_lists"`
	Values           int           `json:"values"`
	Gaps             FieldResult   `json:"gaps"`
	Frequencies      FieldResult   `json:"frequencies"`
	TotalBits        uint64        `json:"total_bits"`
	BaselineBits     uint64        `json:"baseline_bits"`
	CompressionRatio float64       `json:"compression_ratio"`
	EncodeDuration   time.Duration `json:"encode_duration_ns"`
	BaselineDuration time.Duration `json:"baseline_duration_ns"`
	TimeRatio        float64       `json:"time_ratio"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Run encodes every posting list in d with gapCodecName for gaps and
// freqCodecName for frequencies, and returns the aggregated Report.
func (c *Comparator) Run(ctx context.Context, d *Dataset, gapCodecName, freqCodecName string) (*Report, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	gapCodec, err := codec.Lookup(gapCodecName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", pkgerrors.ErrUnknownCodec, gapCodecName)
	}
	freqCodec, err := codec.Lookup(freqCodecName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", pkgerrors.ErrUnknownCodec, freqCodecName)
	}

	start := time.Now()
	var gapBits, freqBits uint64
	if c.parallelism > 1 {
		gapBits, freqBits, err = c.encodeParallel(ctx, d, gapCodec, freqCodec)
	} else {
		gapBits, freqBits, err = c.encodeSerial(ctx, d, gapCodec, freqCodec)
	}
	if err != nil {
		return nil, err
	}
	encodeDuration := time.Since(start)

	start = time.Now()
	baselineBits := c.baselinePass(d)
	baselineDuration := time.Since(start)

	report := &Report{
		DatasetChecksum:  d.Checksum(),
		PostingLists:     len(d.PostingLists),
		Values:           d.Values(),
		Gaps:             FieldResult{Codec: gapCodec.Name(), Bits: gapBits},
		Frequencies:      FieldResult{Codec: freqCodec.Name(), Bits: freqBits},
		TotalBits:        gapBits + freqBits,
		BaselineBits:     baselineBits,
		EncodeDuration:   encodeDuration,
		BaselineDuration: baselineDuration,
		CreatedAt:        time.Now().UTC(),
	}
	if report.TotalBits > 0 {
		report.CompressionRatio = float64(report.BaselineBits) / float64(report.TotalBits)
	}
	if baselineDuration > 0 {
		report.TimeRatio = float64(encodeDuration) / float64(baselineDuration)
	}

	c.logger.Info("comparison run complete",
		"gap_codec", gapCodec.Name(),
		"frequency_codec", freqCodec.Name(),
		"posting_lists", report.PostingLists,
		"total_bits", report.TotalBits,
		"baseline_bits", report.BaselineBits,
		"compression_ratio", report.CompressionRatio,
		"encode_duration", encodeDuration,
	)
	return report, nil
}

// encodeList encodes one posting list into fresh buffers and returns the
// bit totals per field.
func encodeList(pl *PostingList, gapCodec, freqCodec codec.Codec) (uint64, uint64, error) {
	w := bitio.NewWriter()
	gn, err := codec.EncodeAll(gapCodec, pl.Gaps, w)
	if err != nil {
		return 0, 0, fmt.Errorf("encoding gaps for term %q: %w", pl.Term, err)
	}
	w.Reset()
	fn, err := codec.EncodeAll(freqCodec, pl.Frequencies, w)
	if err != nil {
		return 0, 0, fmt.Errorf("encoding frequencies for term %q: %w", pl.Term, err)
	}
	return uint64(gn), uint64(fn), nil
}

func (c *Comparator) encodeSerial(ctx context.Context, d *Dataset, gapCodec, freqCodec codec.Codec) (uint64, uint64, error) {
	var gapBits, freqBits uint64
	for i := range d.PostingLists {
		if err := ctx.Err(); err != nil {
			return 0, 0, fmt.Errorf("encode pass cancelled: %w", err)
		}
		gn, fn, err := encodeList(&d.PostingLists[i], gapCodec, freqCodec)
		if err != nil {
			return 0, 0, err
		}
		gapBits += gn
		freqBits += fn
	}
	return gapBits, freqBits, nil
}

func (c *Comparator) encodeParallel(ctx context.Context, d *Dataset, gapCodec, freqCodec codec.Codec) (uint64, uint64, error) {
	var gapBits, freqBits atomic.Uint64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)
	for i := range d.PostingLists {
		pl := &d.PostingLists[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("encode pass cancelled: %w", err)
			}
			gn, fn, err := encodeList(pl, gapCodec, freqCodec)
			if err != nil {
				return err
			}
			gapBits.Add(gn)
			freqBits.Add(fn)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, 0, err
	}
	return gapBits.Load(), freqBits.Load(), nil
}

// baselinePass writes every value at the fixed baseline width and returns
// the total bits, timing the same per-list buffer discipline as the
// codec pass.
func (c *Comparator) baselinePass(d *Dataset) uint64 {
	var total uint64
	for i := range d.PostingLists {
		pl := &d.PostingLists[i]
		w := bitio.NewWriter()
		for _, v := range pl.Gaps {
			w.WriteBits(v, c.baselineBits)
		}
		for _, v := range pl.Frequencies {
			w.WriteBits(v, c.baselineBits)
		}
		total += uint64(w.Len())
	}
	return total
}
