package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// API and service errors
	ErrAPIRequest         = fmt.Errorf("API request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrPlaylistExists     = fmt.Errorf("playlist already exists")
	ErrPlaylistNotLoaded  = fmt.Errorf("playlist not loaded")

	// Form and input validation errors
	ErrInvalidInput      = fmt.Errorf("invalid input")
	ErrMissingArgument   = fmt.Errorf("missing required argument")
	ErrInvalidArgument   = fmt.Errorf("invalid argument")
	ErrInvalidFlag       = fmt.Errorf("invalid flag value")
	ErrSubmitInProgress  = fmt.Errorf("submission already in progress")
	ErrRemovalCancelled  = fmt.Errorf("removal cancelled")
	ErrSongIndexOutRange = fmt.Errorf("song index out of range")

	// Storage errors
	ErrSnapshotNotFound  = fmt.Errorf("snapshot not found")
	ErrStorage           = fmt.Errorf("storage failure")
	ErrNothingToRollBack = fmt.Errorf("no applied migrations to roll back")
)
