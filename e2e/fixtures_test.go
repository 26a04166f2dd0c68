//go:build e2e && unix

package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Hit mirrors one entry of the search service's "hits" array
type Hit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Author      string `json:"author"`
	NumComments int    `json:"num_comments"`
	Points      int    `json:"points"`
}

// StoryServer answers search requests from a fixed term -> hits table
type StoryServer struct {
	*httptest.Server

	mu      sync.Mutex
	results map[string][]Hit
	queries []string
	failing bool
}

// NewStoryServer starts a server that returns no hits for unknown terms
func NewStoryServer() *StoryServer {
	s := &StoryServer{results: map[string][]Hit{}}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

func (s *StoryServer) serve(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("query")

	s.mu.Lock()
	s.queries = append(s.queries, term)
	failing := s.failing
	hits := s.results[term]
	s.mu.Unlock()

	if failing {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	if hits == nil {
		hits = []Hit{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"hits": hits})
}

// Endpoint returns the prefix the app appends the escaped term to
func (s *StoryServer) Endpoint() string {
	return s.URL + "/api/v1/search?query="
}

// Set registers the hits returned for term
func (s *StoryServer) Set(term string, hits ...Hit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[term] = hits
}

// Fail makes every following request return 503
func (s *StoryServer) Fail(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing = fail
}

// Queries returns the terms requested so far
func (s *StoryServer) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.queries...)
}

// CountQueries returns how many requests asked for term
func (s *StoryServer) CountQueries(term string) int {
	n := 0
	for _, q := range s.Queries() {
		if q == term {
			n++
		}
	}
	return n
}

// CreateTestWorkspace creates an isolated HOME for the app
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tf.t.Helper()
	dir, err := os.MkdirTemp("", "hnstories-e2e-*")
	if err != nil {
		return "", err
	}
	tf.workspace = dir
	return dir, nil
}

// ServeStories starts the story server the app talks to
func (tf *TUITestFramework) ServeStories() *StoryServer {
	tf.t.Helper()
	if tf.server == nil {
		tf.server = NewStoryServer()
	}
	return tf.server
}

// StorePath is where the file store keeps the persisted search term
func (tf *TUITestFramework) StorePath() string {
	return filepath.Join(tf.workspace, "state", "hnstories.json")
}

// StoreContents returns the raw store file, empty when it does not exist
func (tf *TUITestFramework) StoreContents() string {
	data, err := os.ReadFile(tf.StorePath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// DefaultStories is the set returned for the default term
func DefaultStories() []Hit {
	return []Hit{
		{ObjectID: "0", Title: "React", URL: "https://reactjs.org/", Author: "Jordan Walke", NumComments: 3, Points: 4},
		{ObjectID: "1", Title: "Redux", URL: "https://redux.js.org/", Author: "Dan Abramov, Andrew Clark", NumComments: 2, Points: 5},
	}
}
