// Package handler exposes the comparison API over HTTP: run a codec
// comparison, list registered codecs, and browse run history.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/codec"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/report"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/config"
	pkgerrors "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/metrics"
)

// Deps wires the handler's collaborators. Cache, Store, Publisher, and
// Metrics are optional; the handler degrades to pure in-memory
// comparisons when they are nil.
type Deps struct {
	Comparator *comparator.Comparator
	Defaults   config.ComparatorConfig
	Cache      *report.Cache
	Store      *report.Store
	Publisher  *report.Publisher
	Metrics    *metrics.Metrics
}

// Handler serves the comparison API.
type Handler struct {
	comp      *comparator.Comparator
	defaults  config.ComparatorConfig
	cache     *report.Cache
	store     *report.Store
	publisher *report.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates a Handler.
func New(deps Deps) *Handler {
	return &Handler{
		comp:      deps.Comparator,
		defaults:  deps.Defaults,
		cache:     deps.Cache,
		store:     deps.Store,
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		logger:    logger.WithComponent("comparator-handler"),
	}
}

type compareRequest struct {
	GapCodec       string             `json:"gap_codec"`
	FrequencyCodec string             `json:"frequency_codec"`
	Dataset        comparator.Dataset `json:"dataset"`
}

type compareResponse struct {
	Cached bool               `json:"cached"`
	Report *comparator.Report `json:"report"`
}

// Compare handles POST /api/v1/compare.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, pkgerrors.Newf(pkgerrors.ErrInvalidDataset,
			http.StatusBadRequest, "decoding request body: %v", err))
		return
	}
	if req.GapCodec == "" {
		req.GapCodec = h.defaults.GapCodec
	}
	if req.FrequencyCodec == "" {
		req.FrequencyCodec = h.defaults.FrequencyCodec
	}

	checksum := req.Dataset.Checksum()
	compute := func() (*comparator.Report, error) {
		return h.comp.Run(ctx, &req.Dataset, req.GapCodec, req.FrequencyCodec)
	}

	var (
		rep    *comparator.Report
		cached bool
		err    error
	)
	if h.cache != nil {
		rep, cached, err = h.cache.GetOrCompute(ctx, checksum, req.GapCodec, req.FrequencyCodec, compute)
	} else {
		rep, err = compute()
	}
	if err != nil {
		h.recordComparison(req.GapCodec, req.FrequencyCodec, "error")
		log.Error("comparison failed",
			"gap_codec", req.GapCodec,
			"frequency_codec", req.FrequencyCodec,
			"error", err,
		)
		h.writeError(w, err)
		return
	}

	h.recordComparison(req.GapCodec, req.FrequencyCodec, "ok")
	h.recordReport(rep, cached)
	if !cached {
		h.deliver(rep)
	}

	h.writeJSON(w, http.StatusOK, compareResponse{Cached: cached, Report: rep})
}

// Codecs handles GET /api/v1/codecs.
func (h *Handler) Codecs(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string][]string{"codecs": codec.Names()})
}

// Runs handles GET /api/v1/runs.
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.writeError(w, pkgerrors.New(pkgerrors.ErrStorageUnavailable,
			http.StatusServiceUnavailable, "run history is not configured"))
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	runs, err := h.store.List(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"count": len(runs),
		"runs":  runs,
	})
}

// deliver hands a fresh report to the history store and the Kafka topic.
// Delivery is best effort and never blocks the response.
func (h *Handler) deliver(rep *comparator.Report) {
	if h.store != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.store.Save(ctx, rep); err != nil {
				h.sinkError("postgres")
				h.logger.Error("saving run failed", "error", err)
			}
		}()
	}
	if h.publisher != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.publisher.Publish(ctx, rep); err != nil {
				h.sinkError("kafka")
				h.logger.Error("publishing run failed", "error", err)
			}
		}()
	}
}

func (h *Handler) recordComparison(gapCodec, freqCodec, status string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ComparisonsTotal.WithLabelValues(gapCodec, freqCodec, status).Inc()
}

func (h *Handler) recordReport(rep *comparator.Report, cached bool) {
	if h.metrics == nil {
		return
	}
	if cached {
		h.metrics.ReportCacheHitsTotal.Inc()
		return
	}
	h.metrics.ReportCacheMisses.Inc()
	h.metrics.EncodedBitsTotal.WithLabelValues(rep.Gaps.Codec, "gaps").Add(float64(rep.Gaps.Bits))
	h.metrics.EncodedBitsTotal.WithLabelValues(rep.Frequencies.Codec, "frequencies").Add(float64(rep.Frequencies.Bits))
	h.metrics.EncodeDuration.WithLabelValues(rep.Gaps.Codec, rep.Frequencies.Codec).
		Observe(rep.EncodeDuration.Seconds())
	h.metrics.CompressionRatio.WithLabelValues(rep.Gaps.Codec, rep.Frequencies.Codec).
		Observe(rep.CompressionRatio)
	h.metrics.DatasetPostingLists.Observe(float64(rep.PostingLists))
}

func (h *Handler) sinkError(sink string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ReportSinkErrors.WithLabelValues(sink).Inc()
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := pkgerrors.HTTPStatusCode(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
