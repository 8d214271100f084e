// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/playlistctl/internal/models"
)

// FakeService is an in-memory test double for [services.PlaylistService].
//
// Set any of the *Err fields to make the matching operation fail without touching state.
// Calls are recorded in order as "create:<name>", "find_all", "find:<name>", "delete:<name>".
type FakeService struct {
	mu        sync.Mutex
	playlists []models.Playlist
	calls     []string

	CreateErr  error
	FindAllErr error
	FindErr    error
	DeleteErr  error
	NotFound   error // Returned when a name is missing; defaults to ErrFakeNotFound
	Exists     error // Returned when creating a duplicate; defaults to ErrFakeExists

	// AfterDelete runs once a delete succeeded, outside the lock, so it may call back into the fake.
	AfterDelete func(name string)
}

var (
	ErrFakeNotFound = errors.New("Resource not found")
	ErrFakeExists   = errors.New("Resource already exists")
)

// NewFakeService creates a FakeService seeded with playlists.
func NewFakeService(playlists ...models.Playlist) *FakeService {
	f := &FakeService{}
	for _, p := range playlists {
		f.playlists = append(f.playlists, p.Clone())
	}
	return f
}

func (f *FakeService) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *FakeService) index(name string) int {
	for i, p := range f.playlists {
		if p.Name == name {
			return i
		}
	}
	return -1
}

func (f *FakeService) notFound() error {
	if f.NotFound != nil {
		return f.NotFound
	}
	return ErrFakeNotFound
}

func (f *FakeService) Create(ctx context.Context, playlist models.Playlist) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create:" + playlist.Name)

	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	if f.index(playlist.Name) >= 0 {
		if f.Exists != nil {
			return nil, f.Exists
		}
		return nil, ErrFakeExists
	}

	stored := playlist.Clone()
	f.playlists = append(f.playlists, stored)
	out := stored.Clone()
	return &out, nil
}

func (f *FakeService) FindAll(ctx context.Context) ([]models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("find_all")

	if f.FindAllErr != nil {
		return nil, f.FindAllErr
	}
	out := make([]models.Playlist, len(f.playlists))
	for i, p := range f.playlists {
		out[i] = p.Clone()
	}
	return out, nil
}

func (f *FakeService) FindByName(ctx context.Context, name string) (*models.Playlist, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("find:" + name)

	if f.FindErr != nil {
		return nil, f.FindErr
	}
	i := f.index(name)
	if i < 0 {
		return nil, f.notFound()
	}
	out := f.playlists[i].Clone()
	return &out, nil
}

func (f *FakeService) DeleteByName(ctx context.Context, name string) error {
	if err := f.delete(name); err != nil {
		return err
	}
	if f.AfterDelete != nil {
		f.AfterDelete(name)
	}
	return nil
}

func (f *FakeService) delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("delete:" + name)

	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	i := f.index(name)
	if i < 0 {
		return f.notFound()
	}
	f.playlists = append(f.playlists[:i], f.playlists[i+1:]...)
	return nil
}

// Calls returns the recorded operations in order.
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CountCalls returns how many recorded calls equal call.
func (f *FakeService) CountCalls(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

// Stored returns the playlist currently held under name.
func (f *FakeService) Stored(name string) (models.Playlist, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.index(name)
	if i < 0 {
		return models.Playlist{}, false
	}
	return f.playlists[i].Clone(), true
}

// Put stores playlist directly, replacing any playlist with the same name. No call is recorded.
func (f *FakeService) Put(playlist models.Playlist) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.index(playlist.Name); i >= 0 {
		f.playlists[i] = playlist.Clone()
		return
	}
	f.playlists = append(f.playlists, playlist.Clone())
}

// Len returns the number of stored playlists.
func (f *FakeService) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.playlists)
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

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

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

// Playlists builds n playlists named "Playlist 01".."Playlist n" where playlist i holds i songs.
func Playlists(n int) []models.Playlist {
	out := make([]models.Playlist, n)
	for i := range n {
		p := models.Playlist{Name: playlistName(i + 1)}
		for j := 0; j <= i; j++ {
			p.Songs = append(p.Songs, models.Song{Title: "Song", Artist: "Artist"})
		}
		out[i] = p
	}
	return out
}

func playlistName(i int) string {
	return "Playlist " + string(rune('0'+i/10)) + string(rune('0'+i%10))
}
