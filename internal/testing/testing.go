// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/hottest100/internal/models"
	"github.com/desertthunder/hottest100/internal/services"
)

// Method names recorded in [Call.Method].
const (
	MethodCurrentUser    = "CurrentUser"
	MethodSearchTracks   = "SearchTracks"
	MethodCreatePlaylist = "CreatePlaylist"
	MethodAddItems       = "AddItems"
)

// Call is one recorded [MockService] invocation.
type Call struct {
	Method string
	Args   []string
	URIs   []string
}

// MockService is a scriptable test double for [services.Service].
//
// Catalog maps a search query to the URI it resolves to; unknown queries return no hits.
// Throttle makes the first N calls of a method fail with a [*services.RateLimitError].
// Errors makes a method fail, on every call or only on call FailAt[method] (1-based).
type MockService struct {
	UserID     string
	Catalog    map[string]string
	Throttle   map[string]int
	RetryAfter time.Duration
	Errors     map[string]error
	FailAt     map[string]int

	mu        sync.Mutex
	calls     []Call
	counts    map[string]int
	playlists int
}

// NewMockService creates a [MockService] for user "test-user" with the given catalog.
func NewMockService(catalog map[string]string) *MockService {
	return &MockService{
		UserID:     "test-user",
		Catalog:    catalog,
		Throttle:   map[string]int{},
		Errors:     map[string]error{},
		FailAt:     map[string]int{},
		RetryAfter: time.Second,
	}
}

func (m *MockService) record(c Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.calls = append(m.calls, c)
	m.counts[c.Method]++
	n := m.counts[c.Method]

	if m.Throttle[c.Method] > 0 {
		m.Throttle[c.Method]--
		return &services.RateLimitError{Status: http.StatusTooManyRequests, RetryAfter: m.RetryAfter, Method: c.Method}
	}
	if err, ok := m.Errors[c.Method]; ok {
		if at, scoped := m.FailAt[c.Method]; !scoped || at == n {
			return err
		}
	}
	return nil
}

func (m *MockService) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := m.record(Call{Method: MethodCurrentUser}); err != nil {
		return nil, err
	}
	return &models.User{ID: m.UserID, DisplayName: "Test User"}, nil
}

func (m *MockService) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	if err := m.record(Call{Method: MethodSearchTracks, Args: []string{query, fmt.Sprint(limit)}}); err != nil {
		return nil, err
	}
	uri, ok := m.Catalog[query]
	if !ok {
		return nil, nil
	}
	return []models.Track{{ID: string(services.TrackID(uri)), URI: uri}}, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, userID, name, description string) (*models.Playlist, error) {
	if err := m.record(Call{Method: MethodCreatePlaylist, Args: []string{userID, name, description}}); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.playlists++
	id := fmt.Sprintf("playlist-%d", m.playlists)
	m.mu.Unlock()
	return &models.Playlist{ID: id, Name: name}, nil
}

func (m *MockService) AddItems(ctx context.Context, playlistID string, uris []string) error {
	return m.record(Call{Method: MethodAddItems, Args: []string{playlistID}, URIs: append([]string(nil), uris...)})
}

func (m *MockService) Name() string { return "mock" }

// Calls returns a copy of the recorded calls, in order.
func (m *MockService) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallsTo returns the recorded calls to method, in order.
func (m *MockService) CallsTo(method string) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// NoSleep is an [services.Invoker] wait function that records delays instead of sleeping.
type NoSleep struct {
	mu    sync.Mutex
	Slept []time.Duration
}

func (n *NoSleep) Sleep(_ context.Context, d time.Duration) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Slept = append(n.Slept, d)
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, target: target}
}

// WriteSongs writes a songs document to dir/name and returns its path.
func WriteSongs(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// SampleSongs is the two-song poll used across package tests.
const SampleSongs = `{
  "songs": [
    {"id": "1", "track": "Buy Me a Pony", "artist": "Spiderbait", "position": 1,
     "pollyear": 1996, "alltime": false, "country": "AU", "releaseyear": "1996"},
    {"id": "2", "track": "Stinkfist", "artist": "Tool", "position": 2,
     "pollyear": 1998, "alltime": true, "country": "US", "releaseyear": "1996"}
  ]
}`

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
