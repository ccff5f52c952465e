package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/base-angewandte/baseauth/pkg/concepts"
	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/lookup"
	"github.com/base-angewandte/baseauth/pkg/models"
	"github.com/base-angewandte/baseauth/pkg/router"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	registry := concepts.Registry{
		"skills": func(context.Context) []models.ConceptRecord {
			return []models.ConceptRecord{
				{Source: "http://voc/1", Label: models.Label{"en": "Sculpture", "de": "Bildhauerei"}},
				{Source: "http://voc/2", Label: models.Label{"en": "Café design"}},
			}
		},
		"panics": func(context.Context) []models.ConceptRecord { panic("boom") },
	}
	cfg.Autosuggest["broken"] = config.FieldConfig{Local: "panics"}
	svc, err := lookup.New(router.New(cfg), registry, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return New(cfg, svc, nil)
}

func get(t *testing.T, s *Server, path string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decodeRecords(t *testing.T, rec *httptest.ResponseRecorder) []models.ConceptRecord {
	t.Helper()
	var records []models.ConceptRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return records
}

func TestAutosuggestAll(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/autosuggest/expertise/", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := decodeRecords(t, rec); len(got) != 2 {
		t.Errorf("expected 2 records, got %d", len(got))
	}
	if rec.Header().Get("Content-Language") != "en" {
		t.Errorf("expected Content-Language en, got %q", rec.Header().Get("Content-Language"))
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a generated request ID")
	}
}

func TestAutosuggestSearch(t *testing.T) {
	s := newTestServer(t, nil)

	rec := get(t, s, "/autosuggest/expertise/cafe/", nil)
	got := decodeRecords(t, rec)
	if len(got) != 1 || got[0].Source != "http://voc/2" {
		t.Errorf("unexpected records: %+v", got)
	}

	rec = get(t, s, "/autosuggest/expertise/bild/", map[string]string{"Accept-Language": "de-AT,de;q=0.9"})
	got = decodeRecords(t, rec)
	if len(got) != 1 || got[0].Source != "http://voc/1" {
		t.Errorf("unexpected records for de: %+v", got)
	}
	if rec.Header().Get("Content-Language") != "de" {
		t.Errorf("expected Content-Language de, got %q", rec.Header().Get("Content-Language"))
	}

	rec = get(t, s, "/autosuggest/expertise/zzzz/", nil)
	if rec.Body.String() != "[]" {
		t.Errorf("expected empty array, got %s", rec.Body.String())
	}
}

func TestUnknownField(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/autosuggest/nope/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "unknown_field" {
		t.Errorf("expected unknown_field, got %+v", body.Error)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/healthz", map[string]string{RequestIDHeader: "abc-123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("request ID not echoed: %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestPanicRecovered(t *testing.T) {
	s := newTestServer(t, nil)
	rec := get(t, s, "/autosuggest/broken/", nil)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	cfg := config.Default()
	cfg.CORS.AllowedOrigins = []string{"https://base.example"}
	s := newTestServer(t, cfg)

	req := httptest.NewRequest(http.MethodOptions, "/autosuggest/expertise/", nil)
	req.Header.Set("Origin", "https://base.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://base.example" {
		t.Errorf("unexpected allow-origin header: %q", got)
	}
	if CORS(config.CORSConfig{}) != nil {
		t.Error("expected no CORS middleware without origins")
	}
}
