package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/codec"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/config"
)

func newTestHandler() *Handler {
	return New(Deps{
		Comparator: comparator.New(comparator.Options{}),
		Defaults: config.ComparatorConfig{
			GapCodec:       codec.OneshotName,
			FrequencyCodec: codec.EliasGammaName,
		},
	})
}

func postCompare(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/compare", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.Compare(rec, req)
	return rec
}

func TestCompareWithExplicitCodecs(t *testing.T) {
	rec := postCompare(t, newTestHandler(), `{
		"gap_codec": "variable-byte",
		"frequency_codec": "variable-byte",
		"dataset": {"posting_lists": [
			{"gaps": [1, 1, 1, 5000], "frequencies": [1, 1, 2, 1]}
		]}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp compareResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Cached {
		t.Fatal("fresh comparison reported as cached")
	}
	if resp.Report.TotalBits != 72 {
		t.Fatalf("total bits = %d, want 72", resp.Report.TotalBits)
	}
}

func TestCompareFallsBackToDefaultCodecs(t *testing.T) {
	rec := postCompare(t, newTestHandler(), `{
		"dataset": {"posting_lists": [
			{"gaps": [1, 1, 1, 5000], "frequencies": [1, 1, 2, 1]}
		]}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp compareResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Report.Gaps.Codec != codec.OneshotName {
		t.Fatalf("gap codec = %q, want default %q", resp.Report.Gaps.Codec, codec.OneshotName)
	}
	if resp.Report.Frequencies.Codec != codec.EliasGammaName {
		t.Fatalf("frequency codec = %q, want default %q", resp.Report.Frequencies.Codec, codec.EliasGammaName)
	}
	if resp.Report.TotalBits != 26 {
		t.Fatalf("total bits = %d, want 26", resp.Report.TotalBits)
	}
}

func TestCompareRejectsUnknownCodec(t *testing.T) {
	rec := postCompare(t, newTestHandler(), `{
		"gap_codec": "zstd",
		"dataset": {"posting_lists": [{"gaps": [1], "frequencies": [1]}]}
	}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCompareRejectsInvalidDataset(t *testing.T) {
	for name, body := range map[string]string{
		"malformed_json": `{"dataset": `,
		"empty_dataset":  `{"dataset": {"posting_lists": []}}`,
		"zero_gap":       `{"dataset": {"posting_lists": [{"gaps": [0], "frequencies": [1]}]}}`,
		"length_skew":    `{"dataset": {"posting_lists": [{"gaps": [1, 1], "frequencies": [1]}]}}`,
	} {
		rec := postCompare(t, newTestHandler(), body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", name, rec.Code)
		}
	}
}

func TestCodecsEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/codecs", nil)
	rec := httptest.NewRecorder()
	newTestHandler().Codecs(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp["codecs"]) != 3 {
		t.Fatalf("codecs = %v, want three entries", resp["codecs"])
	}
}

func TestRunsWithoutStoreAnswers503(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs", nil)
	rec := httptest.NewRecorder()
	newTestHandler().Runs(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "storage unavailable") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
