// HTTP implementation of [PlaylistService]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlistctl/internal/models"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "http://localhost:8080"
	listsPath      = "/lists"
)

var _ PlaylistService = (*PlaylistClient)(nil)

// ClientOpts configures a [PlaylistClient].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	User       Credentials
	Admin      Credentials
	RateLimit  float64       // Requests per second; 0 disables limiting
	Timeout    time.Duration // Applied only when HTTPClient is nil; 0 keeps the transport default
	Logger     *log.Logger
}

// PlaylistClient talks to the /lists resource of the playlist API.
type PlaylistClient struct {
	baseURL    string
	httpClient *http.Client
	creds      map[Role]Credentials
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewPlaylistClient creates a new client. An empty BaseURL points at localhost:8080.
func NewPlaylistClient(opts ClientOpts) *PlaylistClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.HTTPClient == nil {
		if opts.Timeout > 0 {
			opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
		} else {
			opts.HTTPClient = http.DefaultClient
		}
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &PlaylistClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		creds:      map[Role]Credentials{RoleUser: opts.User, RoleAdmin: opts.Admin},
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// BaseURL returns the API root the client sends requests to.
func (c *PlaylistClient) BaseURL() string {
	return c.baseURL
}

// Create posts a new playlist with user credentials.
func (c *PlaylistClient) Create(ctx context.Context, playlist models.Playlist) (*models.Playlist, error) {
	body, err := json.Marshal(playlist)
	if err != nil {
		return nil, newClientError(err)
	}

	var created models.Playlist
	if err := c.do(ctx, http.MethodPost, listsPath, RoleUser, body, &created); err != nil {
		return nil, err
	}
	if created.Name == "" {
		created = playlist.Clone()
	}
	return &created, nil
}

// FindAll fetches every playlist with user credentials.
func (c *PlaylistClient) FindAll(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, listsPath, RoleUser, nil, &playlists); err != nil {
		return nil, err
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	return playlists, nil
}

// FindByName fetches one playlist with user credentials.
func (c *PlaylistClient) FindByName(ctx context.Context, name string) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodGet, namePath(name), RoleUser, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// DeleteByName removes one playlist with admin credentials.
func (c *PlaylistClient) DeleteByName(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, namePath(name), RoleAdmin, nil, nil)
}

func namePath(name string) string {
	return listsPath + "/" + url.PathEscape(name)
}

// do sends one request and decodes a 2xx JSON body into out when out is non-nil.
//
// Every failure is converted to an [*APIError].
func (c *PlaylistClient) do(ctx context.Context, method, path string, role Role, body []byte, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return newClientError(err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return newClientError(fmt.Errorf("failed to create request: %w", err))
	}

	creds := c.creds[role]
	req.SetBasicAuth(creds.Username, creds.Password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.debug("request", "method", method, "path", path, "role", role)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newClientError(fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return newClientError(fmt.Errorf("failed to read response: %w", err))
	}

	c.debug("response", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errorForStatus(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return newClientError(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

func (c *PlaylistClient) debug(msg string, kv ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, kv...)
	}
}
