// Package benchmark contains Go benchmarks for the bit-level codecs and
// the comparison pass, measuring throughput and allocation behaviour.
package benchmark

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/codec"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/bitio"
)

// gapValues builds a deterministic sequence shaped like real document
// gaps: mostly small with occasional large jumps.
func gapValues(n int) []uint64 {
	rng := rand.New(rand.NewSource(42))
	values := make([]uint64, n)
	for i := range values {
		if rng.Intn(20) == 0 {
			values[i] = uint64(rng.Intn(100000) + 1)
		} else {
			values[i] = uint64(rng.Intn(16) + 1)
		}
	}
	return values
}

// BenchmarkEncode measures per-value encode throughput for each codec
// over a gap-shaped value stream.
func BenchmarkEncode(b *testing.B) {
	values := gapValues(4096)
	for _, name := range codec.Names() {
		c, err := codec.Lookup(name)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			w := bitio.NewWriter()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				w.Reset()
				if _, err := codec.EncodeAll(c, values, w); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkDecode measures per-value decode throughput for each codec.
func BenchmarkDecode(b *testing.B) {
	values := gapValues(4096)
	for _, name := range codec.Names() {
		c, err := codec.Lookup(name)
		if err != nil {
			b.Fatal(err)
		}
		w := bitio.NewWriter()
		if _, err := codec.EncodeAll(c, values, w); err != nil {
			b.Fatal(err)
		}
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				r := w.Reader()
				decoded, err := codec.DecodeAll(c, r, len(values))
				if err != nil {
					b.Fatal(err)
				}
				_ = decoded
			}
		})
	}
}

// benchDataset builds a dataset of lists posting lists with values
// values each.
func benchDataset(lists, values int) *comparator.Dataset {
	rng := rand.New(rand.NewSource(7))
	d := &comparator.Dataset{PostingLists: make([]comparator.PostingList, lists)}
	for i := range d.PostingLists {
		gaps := make([]uint64, values)
		freqs := make([]uint64, values)
		for j := range gaps {
			gaps[j] = uint64(rng.Intn(5000) + 1)
			freqs[j] = uint64(rng.Intn(4) + 1)
		}
		d.PostingLists[i] = comparator.PostingList{
			Term:        fmt.Sprintf("term-%d", i),
			Gaps:        gaps,
			Frequencies: freqs,
		}
	}
	return d
}

// BenchmarkComparatorRun measures a full comparison pass at various
// dataset sizes using the default codec pair.
func BenchmarkComparatorRun(b *testing.B) {
	sizes := []int{10, 100, 500}
	for _, lists := range sizes {
		b.Run(fmt.Sprintf("lists_%d", lists), func(b *testing.B) {
			d := benchDataset(lists, 128)
			comp := comparator.New(comparator.Options{})
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				report, err := comp.Run(context.Background(), d, codec.OneshotName, codec.EliasGammaName)
				if err != nil {
					b.Fatal(err)
				}
				_ = report
			}
		})
	}
}

// BenchmarkComparatorRunParallel measures the same pass with the encode
// fan-out enabled.
func BenchmarkComparatorRunParallel(b *testing.B) {
	for _, parallelism := range []int{2, 4, 8} {
		b.Run(fmt.Sprintf("parallelism_%d", parallelism), func(b *testing.B) {
			d := benchDataset(500, 128)
			comp := comparator.New(comparator.Options{Parallelism: parallelism})
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				report, err := comp.Run(context.Background(), d, codec.VariableByteName, codec.VariableByteName)
				if err != nil {
					b.Fatal(err)
				}
				_ = report
			}
		})
	}
}
