// Package skosmostest provides an in-process fake of the Skosmos REST API for
// tests.
package skosmostest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/base-angewandte/baseauth/pkg/config"
	"github.com/base-angewandte/baseauth/pkg/skosmos"
)

const basePath = "/rest/v1/"

// Server is a fake Skosmos instance that counts requests.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	graphs   map[string][]skosmos.Node
	children map[string][]skosmos.ChildConcept
	calls    map[string]int
	failing  bool
	delay    time.Duration
}

// NewServer starts a fake server. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		graphs:   make(map[string][]skosmos.Node),
		children: make(map[string][]skosmos.ChildConcept),
		calls:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Config returns a Skosmos configuration pointing at the fake.
func (s *Server) Config() config.SkosmosConfig {
	cfg := config.Default().Skosmos
	cfg.APIBase = s.URL + basePath
	cfg.Timeout = 2 * time.Second
	return cfg
}

func graphKey(vocID, uri string) string { return vocID + "|" + uri }

// AddGraph registers the graph returned for uri under vocID ("" for the
// global data endpoint).
func (s *Server) AddGraph(vocID, uri string, nodes ...skosmos.Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[graphKey(vocID, uri)] = append(s.graphs[graphKey(vocID, uri)], nodes...)
}

// AddChildren registers search hits below parent.
func (s *Server) AddChildren(parent string, kids ...skosmos.ChildConcept) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.children[parent] = append(s.children[parent], kids...)
}

// SetFailing makes every request answer 503.
func (s *Server) SetFailing(failing bool) {
	s.mu.Lock()
	s.failing = failing
	s.mu.Unlock()
}

// SetDelay makes every request wait d before answering.
func (s *Server) SetDelay(d time.Duration) {
	s.mu.Lock()
	s.delay = d
	s.mu.Unlock()
}

// Calls returns how many requests hit endpoint ("data" or "search").
func (s *Server) Calls(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[endpoint]
}

// TotalCalls returns the number of requests served.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// Concept builds a concept node with labels given as lang, value pairs.
func Concept(uri string, labels ...string) skosmos.Node {
	n := skosmos.Node{URI: uri, Type: skosmos.Types{skosmos.ConceptType}}
	for i := 0; i+1 < len(labels); i += 2 {
		n.PrefLabel = append(n.PrefLabel, skosmos.LangValue{Lang: labels[i], Value: labels[i+1]})
	}
	return n
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, basePath)
	q := r.URL.Query()

	s.mu.Lock()
	delay := s.delay
	s.mu.Unlock()
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case rest == "search":
		s.calls["search"]++
		if s.failing {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, map[string]any{"results": nonNil(s.children[q.Get("parent")])})
	case rest == "data" || strings.HasSuffix(rest, "/data"):
		s.calls["data"]++
		if s.failing {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		vocID := strings.TrimSuffix(strings.TrimSuffix(rest, "data"), "/")
		nodes := s.graphs[graphKey(vocID, q.Get("uri"))]
		if nodes == nil {
			nodes = []skosmos.Node{}
		}
		writeJSON(w, map[string]any{"graph": nodes})
	default:
		http.NotFound(w, r)
	}
}

func nonNil(kids []skosmos.ChildConcept) []skosmos.ChildConcept {
	if kids == nil {
		return []skosmos.ChildConcept{}
	}
	return kids
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
