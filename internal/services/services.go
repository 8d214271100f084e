// package services defines interface PlaylistService for the playlist REST API
package services

import (
	"context"

	"github.com/desertthunder/playlistctl/internal/models"
)

// PlaylistService defines the operations the playlist API exposes.
type PlaylistService interface {
	// Create stores a new playlist and returns it as the server saved it.
	Create(ctx context.Context, playlist models.Playlist) (*models.Playlist, error)

	// FindAll returns every playlist.
	FindAll(ctx context.Context) ([]models.Playlist, error)

	// FindByName returns the playlist with the given name.
	FindByName(ctx context.Context, name string) (*models.Playlist, error)

	// DeleteByName removes the playlist with the given name. Requires the admin role.
	DeleteByName(ctx context.Context, name string) error
}

// Role selects which fixed credentials a request is sent with.
type Role int

const (
	RoleUser Role = iota
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleAdmin:
		return "admin"
	default:
		return ""
	}
}

// Credentials is a Basic auth username/password pair.
type Credentials struct {
	Username string
	Password string
}
