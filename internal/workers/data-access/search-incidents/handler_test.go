package searchincidents

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rehab-workers/internal/common/logger"
)

// ==========================================
// Test Helpers
// ==========================================

func newTestHandler(t *testing.T, handlerFunc http.HandlerFunc) *Handler {
	t.Helper()

	srv := httptest.NewServer(handlerFunc)
	t.Cleanup(srv.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{srv.URL},
	})
	require.NoError(t, err)

	return NewHandler(LoadConfig(), client, logger.NewZapAdapter(zaptest.NewLogger(t)))
}

func searchResponse(hits []map[string]interface{}, maxScore float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")

		wrapped := make([]map[string]interface{}, 0, len(hits))
		for i, source := range hits {
			wrapped = append(wrapped, map[string]interface{}{
				"_id":     fmt.Sprintf("doc-%d", i),
				"_source": source,
			})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"took": 3,
			"hits": map[string]interface{}{
				"total":     map[string]interface{}{"value": len(hits)},
				"max_score": maxScore,
				"hits":      wrapped,
			},
		})
	}
}

// ==========================================
// Execute Tests
// ==========================================

func TestExecute_ReturnsHits(t *testing.T) {
	h := newTestHandler(t, searchResponse([]map[string]interface{}{
		{"case_number": "INC-2026-0101", "severity": "high", "description": "fall from ladder"},
		{"case_number": "INC-2026-0117", "severity": "high", "description": "ladder slipped"},
	}, 2.4))

	output, err := h.Execute(context.Background(), &Input{
		IndexName: "incidents",
		Filters:   map[string]interface{}{"keywords": "ladder", "severity": "high"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), output.TotalHits)
	assert.Equal(t, 2.4, output.MaxScore)
	require.Len(t, output.Data, 2)
	assert.Equal(t, "INC-2026-0101", output.Data[0]["case_number"])
}

func TestExecute_SendsBoolQueryToIndex(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}

	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		searchResponse(nil, 0)(w, r)
	})

	input := &Input{
		IndexName: "incidents",
		WorkerID:  "worker-7",
		Filters:   map[string]interface{}{"keywords": "forklift"},
	}
	_, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "/incidents/_search", gotPath)
	bq := gotBody["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Contains(t, bq, "must")
	assert.Contains(t, bq, "filter")
}

func TestExecute_NoHits(t *testing.T) {
	h := newTestHandler(t, searchResponse(nil, 0))

	output, err := h.Execute(context.Background(), &Input{
		IndexName: "incidents",
		Filters:   map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(0), output.TotalHits)
	assert.Empty(t, output.Data)
}

func TestExecute_MissingIndex(t *testing.T) {
	h := newTestHandler(t, searchResponse(nil, 0))

	_, err := h.Execute(context.Background(), &Input{
		Filters: map[string]interface{}{},
	})

	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestExecute_SearchFailure(t *testing.T) {
	h := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"type": "parsing_exception"},
		})
	})

	_, err := h.Execute(context.Background(), &Input{
		IndexName: "incidents",
		Filters:   map[string]interface{}{},
	})

	assert.ErrorIs(t, err, ErrSearchQueryFailed)
}

func TestExecute_NilInput(t *testing.T) {
	h := newTestHandler(t, searchResponse(nil, 0))

	_, err := h.Execute(context.Background(), nil)
	assert.Error(t, err)
}

// ==========================================
// Error Mapping Tests
// ==========================================

func TestMapErrorToCode(t *testing.T) {
	h := &Handler{logger: logger.NewNoOpLogger()}

	tests := []struct {
		err      error
		expected string
	}{
		{ErrIndexNotFound, "INDEX_NOT_FOUND"},
		{ErrSearchTimeout, "SEARCH_TIMEOUT"},
		{fmt.Errorf("%w: boom", ErrSearchQueryFailed), "SEARCH_QUERY_FAILED"},
		{ErrElasticsearchConnectionFailed, "ELASTICSEARCH_CONNECTION_FAILED"},
		{fmt.Errorf("something else"), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, h.mapErrorToCode(tt.err))
	}
}

func TestGetRetryCount(t *testing.T) {
	h := &Handler{logger: logger.NewNoOpLogger()}

	assert.Equal(t, int32(3), h.getRetryCount(ErrElasticsearchConnectionFailed))
	assert.Equal(t, int32(3), h.getRetryCount(fmt.Errorf("%w: boom", ErrSearchQueryFailed)))
	assert.Equal(t, int32(2), h.getRetryCount(ErrSearchTimeout))
	assert.Equal(t, int32(0), h.getRetryCount(ErrIndexNotFound))
}
