package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"
	"github.com/supplydesk/search-agent/internal/api"
	"github.com/supplydesk/search-agent/internal/api/middleware"
	"github.com/supplydesk/search-agent/internal/models"
	"github.com/supplydesk/search-agent/internal/search"
)

// stubBackend serves a canned vector-search response.
type stubBackend struct {
	body string
	err  error
}

func (s *stubBackend) Get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	if s.err != nil {
		return nil, s.err
	}
	return json.RawMessage(s.body), nil
}

func setupTestAPI(backend *stubBackend) *restful.Container {
	logger := zerolog.Nop()
	searcher := search.NewSearcher(backend, search.Options{}, &logger)
	handler := api.NewHandler(searcher, &logger)

	container := restful.NewContainer()
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)
	return container
}

const stubVectorBody = `{"success": true, "totalFound": 1, "products": [{"code": 7, "name": "PVC Pipe", "unit": "M", "priceEstimated": 4.2, "similarity": 0.9}], "cacheInfo": {"hit": false}}`

func TestAPI_Health(t *testing.T) {
	container := setupTestAPI(&stubBackend{body: stubVectorBody})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	recorder := httptest.NewRecorder()

	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}

	var response api.HealthResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("Expected status 'ok', got '%s'", response.Status)
	}
}

func postJSON(t *testing.T, container *restful.Container, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to marshal request: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	container.ServeHTTP(recorder, req)
	return recorder
}

func TestAPI_Search(t *testing.T) {
	container := setupTestAPI(&stubBackend{body: stubVectorBody})

	recorder := postJSON(t, container, "/api/v1/search", api.SearchRequest{Query: "pvc pipe"})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var result models.SearchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !result.Success {
		t.Errorf("Expected success, got error %q", result.Error)
	}
	if len(result.Products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(result.Products))
	}
	if result.Products[0].EstimatedPrice != 4.2 {
		t.Errorf("Expected estimatedPrice 4.2, got %g", result.Products[0].EstimatedPrice)
	}
}

func TestAPI_Search_MissingQuery(t *testing.T) {
	container := setupTestAPI(&stubBackend{body: stubVectorBody})

	recorder := postJSON(t, container, "/api/v1/search", api.SearchRequest{})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", recorder.Code)
	}

	var response middleware.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Error == "" {
		t.Error("Expected error message in response")
	}
}

func TestAPI_VectorSearch(t *testing.T) {
	container := setupTestAPI(&stubBackend{body: stubVectorBody})

	recorder := postJSON(t, container, "/api/v1/search/vector", api.VectorSearchRequest{
		Query:     "plastic tube for plumbing",
		Limit:     5,
		Threshold: 0.8,
	})

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", recorder.Code, recorder.Body.String())
	}

	var result models.SearchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Threshold == nil {
		t.Fatal("Expected threshold in vector search result")
	}
	if len(result.CacheInfo) == 0 {
		t.Error("Expected cacheInfo passed through")
	}
}

func TestAPI_Search_BackendDown_ReturnsEnvelope(t *testing.T) {
	container := setupTestAPI(&stubBackend{err: errors.New("connection refused")})

	recorder := postJSON(t, container, "/api/v1/search", api.SearchRequest{Query: "pvc pipe"})

	// Backend failures degrade to a success:false result, not an HTTP error.
	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	var result models.SearchResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if result.Success {
		t.Error("Expected success=false")
	}
	if result.Error == "" {
		t.Error("Expected non-empty error string")
	}
	if result.Products == nil {
		t.Error("Expected products to marshal as an empty array")
	}
}
