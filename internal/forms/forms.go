package forms

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// IncompleteMessage is shown when a submit is blocked by validation.
const IncompleteMessage = "Please complete all required fields"

// Creator stores a new playlist on the server.
type Creator interface {
	Create(ctx context.Context, playlist models.Playlist) (*models.Playlist, error)
}

// FieldError names one invalid field, e.g. "name" or "songs[1].artist".
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every invalid field of a form. It matches [shared.ErrInvalidInput].
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("%v: %s", shared.ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return shared.ErrInvalidInput
}

// Has reports whether field failed validation.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// SongForm holds the raw text of one song row.
type SongForm struct {
	Title  string
	Artist string
	Album  string
	Year   string
	Genre  string
}

func (s SongForm) check(prefix string, verr *ValidationError) {
	if strings.TrimSpace(s.Title) == "" {
		verr.add(prefix+"title", "is required")
	}
	if strings.TrimSpace(s.Artist) == "" {
		verr.add(prefix+"artist", "is required")
	}
	if year := strings.TrimSpace(s.Year); year != "" && !yearPattern.MatchString(year) {
		verr.add(prefix+"year", "must be exactly 4 digits")
	}
}

// Validate requires title and artist, and a 4 digit year when one is given.
func (s SongForm) Validate() error {
	verr := &ValidationError{}
	s.check("", verr)
	return verr.orNil()
}

// Song converts the row to a model with every field trimmed.
func (s SongForm) Song() models.Song {
	return models.Song{
		Title:  strings.TrimSpace(s.Title),
		Artist: strings.TrimSpace(s.Artist),
		Album:  strings.TrimSpace(s.Album),
		Year:   strings.TrimSpace(s.Year),
		Genre:  strings.TrimSpace(s.Genre),
	}
}

// IsBlank reports whether no field of the row has been filled in.
func (s SongForm) IsBlank() bool {
	return strings.TrimSpace(s.Title+s.Artist+s.Album+s.Year+s.Genre) == ""
}

// PlaylistForm is the create form: playlist fields plus a variable list of song rows.
type PlaylistForm struct {
	Name        string
	Description string
	Songs       []SongForm

	submitting bool
}

// NewPlaylistForm returns an empty form with one blank song row.
func NewPlaylistForm() *PlaylistForm {
	return &PlaylistForm{Songs: []SongForm{{}}}
}

// Reset clears every field and leaves a single blank song row.
func (f *PlaylistForm) Reset() {
	f.Name = ""
	f.Description = ""
	f.Songs = []SongForm{{}}
}

// AddSong appends a blank row and returns its index.
func (f *PlaylistForm) AddSong() int {
	f.Songs = append(f.Songs, SongForm{})
	return len(f.Songs) - 1
}

// InsertSong puts a blank row at i, shifting later rows down.
func (f *PlaylistForm) InsertSong(i int) error {
	if i < 0 || i > len(f.Songs) {
		return fmt.Errorf("%w: %d", shared.ErrSongIndexOutRange, i)
	}
	f.Songs = append(f.Songs, SongForm{})
	copy(f.Songs[i+1:], f.Songs[i:])
	f.Songs[i] = SongForm{}
	return nil
}

// RemoveSong deletes row i when confirm approves it. A nil confirm never approves.
func (f *PlaylistForm) RemoveSong(i int, confirm func(SongForm) bool) error {
	if i < 0 || i >= len(f.Songs) {
		return fmt.Errorf("%w: %d", shared.ErrSongIndexOutRange, i)
	}
	if confirm == nil || !confirm(f.Songs[i]) {
		return shared.ErrRemovalCancelled
	}
	f.Songs = append(f.Songs[:i], f.Songs[i+1:]...)
	return nil
}

// Validate checks the name and every song row and reports all failures at once.
func (f *PlaylistForm) Validate() error {
	verr := &ValidationError{}
	if strings.TrimSpace(f.Name) == "" {
		verr.add("name", "is required")
	}
	for i, s := range f.Songs {
		s.check(fmt.Sprintf("songs[%d].", i), verr)
	}
	return verr.orNil()
}

// DTO builds the request body: trimmed name and description, songs in row order.
func (f *PlaylistForm) DTO() models.Playlist {
	songs := make([]models.Song, len(f.Songs))
	for i, s := range f.Songs {
		songs[i] = s.Song()
	}
	return models.Playlist{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Songs:       songs,
	}
}

// Submitting reports whether a submit is in flight.
func (f *PlaylistForm) Submitting() bool {
	return f.submitting
}

// Begin validates the form and marks it as submitting. The returned playlist is what should be sent.
//
// A form that is already submitting fails with [shared.ErrSubmitInProgress].
func (f *PlaylistForm) Begin() (models.Playlist, error) {
	if f.submitting {
		return models.Playlist{}, shared.ErrSubmitInProgress
	}
	if err := f.Validate(); err != nil {
		return models.Playlist{}, err
	}
	f.submitting = true
	return f.DTO(), nil
}

// Finish ends a submit. The submitting flag always clears; the form resets only when err is nil.
func (f *PlaylistForm) Finish(err error) {
	f.submitting = false
	if err == nil {
		f.Reset()
	}
}

// Submit validates, sends and finishes in one call. onCreated runs after a successful create.
// Invalid forms never reach svc.
func (f *PlaylistForm) Submit(ctx context.Context, svc Creator, onCreated func(models.Playlist)) (*models.Playlist, error) {
	dto, err := f.Begin()
	if err != nil {
		return nil, err
	}

	created, err := svc.Create(ctx, dto)
	f.Finish(err)
	if err != nil {
		return nil, err
	}

	if onCreated != nil {
		onCreated(*created)
	}
	return created, nil
}

// CreatedMessage is the success text for a create.
func CreatedMessage(name string) string {
	return fmt.Sprintf("Playlist %q created successfully", name)
}

// CreateErrorMessage is the failure text for a create.
func CreateErrorMessage(err error) string {
	return fmt.Sprintf("Error creating playlist: %v", err)
}
