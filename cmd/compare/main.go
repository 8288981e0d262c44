// Command compare is the one-shot comparison runner. It loads a dataset
// file, encodes it with a codec pair (or every pair when -all is set),
// and logs each report.
//
// Usage:
//
//	go run ./cmd/compare -dataset testdata/postings.json -gaps oneshot -freqs elias-gamma
//	go run ./cmd/compare -dataset testdata/postings.json -all
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/codec"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	datasetPath := flag.String("dataset", "", "path to dataset JSON (overrides config)")
	gapCodec := flag.String("gaps", "", "codec for document gaps (overrides config)")
	freqCodec := flag.String("freqs", "", "codec for term frequencies (overrides config)")
	all := flag.Bool("all", false, "run every codec pair instead of a single one")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	path := *datasetPath
	if path == "" {
		path = cfg.Comparator.DatasetPath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no dataset: pass -dataset or set comparator.datasetPath")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dataset, err := comparator.LoadFile(path)
	if err != nil {
		slog.Error("loading dataset", "path", path, "error", err)
		os.Exit(1)
	}
	slog.Info("dataset loaded",
		"path", path,
		"posting_lists", len(dataset.PostingLists),
		"values", dataset.Values(),
	)

	comp := comparator.New(comparator.Options{
		Parallelism:       cfg.Comparator.Parallelism,
		BaselineValueBits: cfg.Comparator.BaselineValueBits,
	})

	var pairs [][2]string
	if *all {
		names := codec.Names()
		for _, g := range names {
			for _, f := range names {
				pairs = append(pairs, [2]string{g, f})
			}
		}
	} else {
		g := *gapCodec
		if g == "" {
			g = cfg.Comparator.GapCodec
		}
		f := *freqCodec
		if f == "" {
			f = cfg.Comparator.FrequencyCodec
		}
		pairs = [][2]string{{g, f}}
	}

	var best *comparator.Report
	for _, pair := range pairs {
		report, err := comp.Run(ctx, dataset, pair[0], pair[1])
		if err != nil {
			slog.Error("comparison failed",
				"gap_codec", pair[0],
				"frequency_codec", pair[1],
				"error", err,
			)
			os.Exit(1)
		}
		slog.Info("report",
			"gap_codec", report.Gaps.Codec,
			"frequency_codec", report.Frequencies.Codec,
			"gap_bits", report.Gaps.Bits,
			"frequency_bits", report.Frequencies.Bits,
			"total_bits", report.TotalBits,
			"baseline_bits", report.BaselineBits,
			"compression_ratio", report.CompressionRatio,
			"time_ratio", report.TimeRatio,
		)
		if best == nil || report.TotalBits < best.TotalBits {
			best = report
		}
	}

	if len(pairs) > 1 {
		slog.Info("best pair",
			"gap_codec", best.Gaps.Codec,
			"frequency_codec", best.Frequencies.Codec,
			"total_bits", best.TotalBits,
			"compression_ratio", best.CompressionRatio,
		)
	}
}
