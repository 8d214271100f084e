package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/playlistctl/internal/models"
	tu "github.com/desertthunder/playlistctl/internal/testing"
)

var (
	testUser  = Credentials{Username: "user", Password: "user123"}
	testAdmin = Credentials{Username: "admin", Password: "admin123"}
)

func newTestClient(url string) *PlaylistClient {
	return NewPlaylistClient(ClientOpts{BaseURL: url, User: testUser, Admin: testAdmin})
}

func TestPlaylistClient(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			c := NewPlaylistClient(ClientOpts{BaseURL: "http://example.com/", HTTPClient: customClient})

			if c.BaseURL() != "http://example.com" {
				t.Errorf("expected trailing slash trimmed, got %s", c.BaseURL())
			}
			if c.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			c := NewPlaylistClient(ClientOpts{})
			if c.BaseURL() != "http://localhost:8080" {
				t.Errorf("expected default baseURL, got %s", c.BaseURL())
			}
			if c.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient without a timeout")
			}
			if c.limiter != nil {
				t.Error("expected no limiter by default")
			}
		})

		t.Run("With Timeout", func(t *testing.T) {
			c := NewPlaylistClient(ClientOpts{Timeout: 3 * time.Second})
			if c.httpClient.Timeout != 3*time.Second {
				t.Errorf("expected 3s timeout, got %v", c.httpClient.Timeout)
			}
		})
	})

	t.Run("Create", func(t *testing.T) {
		t.Run("Posts JSON With User Credentials", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/lists" {
					t.Errorf("expected /lists, got %s", r.URL.Path)
				}
				user, pass, ok := r.BasicAuth()
				if !ok || user != "user" || pass != "user123" {
					t.Errorf("expected user credentials, got %s:%s", user, pass)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected JSON content type, got %s", r.Header.Get("Content-Type"))
				}

				body, _ := io.ReadAll(r.Body)
				var raw map[string]any
				if err := json.Unmarshal(body, &raw); err != nil {
					t.Fatalf("invalid request body: %v", err)
				}
				if raw["nombre"] != "Road Trip" {
					t.Errorf("expected nombre Road Trip, got %v", raw["nombre"])
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusCreated)
				w.Write(body)
			}))
			defer server.Close()

			c := newTestClient(server.URL)
			created, err := c.Create(context.Background(), models.Playlist{
				Name:  "Road Trip",
				Songs: []models.Song{{Title: "Viva la Vida", Artist: "Coldplay"}},
			})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if created.Name != "Road Trip" || created.SongCount() != 1 {
				t.Errorf("unexpected created playlist: %+v", created)
			}
		})

		t.Run("Empty Body Falls Back To Input", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
			}))
			defer server.Close()

			created, err := newTestClient(server.URL).Create(context.Background(), models.Playlist{Name: "Quiet"})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if created.Name != "Quiet" {
				t.Errorf("expected input playlist back, got %+v", created)
			}
		})

		t.Run("Conflict Passes Body Message Through", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"error":"Conflict","message":"Ya existe la lista: Road Trip","status":409}`))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).Create(context.Background(), models.Playlist{Name: "Road Trip"})
			if err == nil || err.Error() != "Ya existe la lista: Road Trip" {
				t.Errorf("expected conflict message from body, got %v", err)
			}
		})
	})

	t.Run("FindAll", func(t *testing.T) {
		t.Run("Decodes Playlists", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet || r.URL.Path != "/lists" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`[{"nombre":"A","descripcion":"first","canciones":[{"titulo":"t","artista":"a","anno":"1999"}]},{"nombre":"B","canciones":[]}]`))
			}))
			defer server.Close()

			playlists, err := newTestClient(server.URL).FindAll(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(playlists) != 2 {
				t.Fatalf("expected 2 playlists, got %d", len(playlists))
			}
			if playlists[0].Songs[0].Year != "1999" {
				t.Errorf("expected year 1999, got %s", playlists[0].Songs[0].Year)
			}
		})

		t.Run("Null Body Is Empty Slice", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`null`))
			}))
			defer server.Close()

			playlists, err := newTestClient(server.URL).FindAll(context.Background())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if playlists == nil || len(playlists) != 0 {
				t.Errorf("expected empty non-nil slice, got %#v", playlists)
			}
		})

		t.Run("Malformed Body Is A Client Error", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{not json`))
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).FindAll(context.Background())
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %T", err)
			}
			if !strings.HasPrefix(apiErr.Message(), "Error: ") {
				t.Errorf("expected client error message, got %s", apiErr.Message())
			}
		})
	})

	t.Run("FindByName", func(t *testing.T) {
		t.Run("Escapes The Name", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.EscapedPath() != "/lists/Rock%20&%20Roll%2F80s" && r.URL.EscapedPath() != "/lists/Rock%20%26%20Roll%2F80s" {
					t.Errorf("unexpected escaped path %s", r.URL.EscapedPath())
				}
				w.Write([]byte(`{"nombre":"Rock & Roll/80s","canciones":[]}`))
			}))
			defer server.Close()

			p, err := newTestClient(server.URL).FindByName(context.Background(), "Rock & Roll/80s")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p.Name != "Rock & Roll/80s" {
				t.Errorf("unexpected name %s", p.Name)
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			}))
			defer server.Close()

			_, err := newTestClient(server.URL).FindByName(context.Background(), "missing")
			if err == nil || err.Error() != "Resource not found" {
				t.Errorf("expected not found message, got %v", err)
			}
		})
	})

	t.Run("DeleteByName", func(t *testing.T) {
		t.Run("Uses Admin Credentials", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete {
					t.Errorf("expected DELETE, got %s", r.Method)
				}
				user, pass, _ := r.BasicAuth()
				if user != "admin" || pass != "admin123" {
					t.Errorf("expected admin credentials, got %s:%s", user, pass)
				}
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			if err := newTestClient(server.URL).DeleteByName(context.Background(), "Road Trip"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Forbidden", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusForbidden)
			}))
			defer server.Close()

			err := newTestClient(server.URL).DeleteByName(context.Background(), "Road Trip")
			if err == nil || err.Error() != "Forbidden - insufficient permissions" {
				t.Errorf("expected forbidden message, got %v", err)
			}
		})
	})

	t.Run("Transport Failures", func(t *testing.T) {
		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))}
			c := NewPlaylistClient(ClientOpts{BaseURL: "http://example.com", HTTPClient: client})

			_, err := c.FindAll(context.Background())
			if err == nil {
				t.Fatal("expected error for failed request")
			}
			if !strings.HasPrefix(err.Error(), "Error: ") || !strings.Contains(err.Error(), "connection refused") {
				t.Errorf("expected client error carrying the cause, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
				StatusCode: http.StatusOK,
				Body:       &tu.FCloser{},
				Header:     http.Header{},
			}, nil)}
			c := NewPlaylistClient(ClientOpts{BaseURL: "http://example.com", HTTPClient: client})

			_, err := c.FindAll(context.Background())
			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected read failure, got %v", err)
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			c := NewPlaylistClient(ClientOpts{BaseURL: "http://example.com\x00"})
			_, err := c.FindAll(context.Background())
			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected request creation failure, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`[]`))
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := newTestClient(server.URL).FindAll(ctx)
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Errorf("expected *APIError for canceled context, got %v", err)
			}
		})
	})

	t.Run("Rate Limit", func(t *testing.T) {
		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewPlaylistClient(ClientOpts{BaseURL: server.URL, RateLimit: 20})
		if c.limiter == nil {
			t.Fatal("expected limiter to be configured")
		}

		start := time.Now()
		for range 3 {
			if _, err := c.FindAll(context.Background()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if hits.Load() != 3 {
			t.Errorf("expected 3 requests, got %d", hits.Load())
		}
		if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
			t.Errorf("expected requests to be spaced by the limiter, took %v", elapsed)
		}
	})
}

func TestErrorForStatus(t *testing.T) {
	tc := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "unauthorized", status: 401, want: "Unauthorized - invalid credentials"},
		{name: "forbidden", status: 403, want: "Forbidden - insufficient permissions"},
		{name: "not found ignores body", status: 404, body: `{"message":"No existe"}`, want: "Resource not found"},
		{name: "conflict with message", status: 409, body: `{"message":"duplicate"}`, want: "duplicate"},
		{name: "conflict without body", status: 409, want: "Resource already exists"},
		{name: "server error", status: 500, body: `{"message":"boom"}`, want: "Server error"},
		{name: "bad gateway", status: 502, want: "Server error"},
		{name: "bad request with message", status: 400, body: `{"message":"nombre: must not be blank"}`, want: "nombre: must not be blank"},
		{name: "bad request without body", status: 400, want: "HTTP error 400"},
		{name: "teapot with non-json body", status: 418, body: "short and stout", want: "HTTP error 418"},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := errorForStatus(tt.status, []byte(tt.body))
			if got.Error() != tt.want {
				t.Errorf("errorForStatus(%d) = %q, want %q", tt.status, got.Error(), tt.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(errorForStatus(404, nil)) {
		t.Error("expected 404 error to be not found")
	}
	if IsNotFound(errorForStatus(500, nil)) {
		t.Error("server error is not a not found error")
	}
	if !IsNotFound(tu.ErrFakeNotFound) {
		t.Error("expected fake not found error to match")
	}
	if IsNotFound(nil) {
		t.Error("nil is not a not found error")
	}
}
