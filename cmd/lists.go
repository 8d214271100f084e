package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/playlistctl/internal/browse"
	"github.com/desertthunder/playlistctl/internal/formatter"
	"github.com/desertthunder/playlistctl/internal/forms"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
	"github.com/desertthunder/playlistctl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// List prints playlists filtered, sorted and paged like the shell's list tab.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	sort, err := browse.ParseSort(cmd.String("sort"))
	if err != nil {
		return err
	}

	var playlists []models.Playlist
	err = r.withSpinner(ctx, "Loading playlists...", func(ctx context.Context) error {
		var err error
		playlists, err = r.service().FindAll(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	r.logger.Debug("fetched playlists", "count", len(playlists))

	result := browse.SortPlaylists(browse.Filter(playlists, cmd.String("search")), sort)
	total := len(result)

	if size := cmd.Int("page-size"); size > 0 {
		page, pages := cmd.Int("page"), browse.PageCount(total, size)
		if page < 1 || (pages > 0 && page > pages) {
			return fmt.Errorf("%w: page %d is outside 1..%d", shared.ErrInvalidFlag, page, max(pages, 1))
		}
		result = browse.PageSlice(result, page, size)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if len(result) == 0 {
		return r.writePlain("No playlists found.\n")
	}
	r.writePlain("%s\n", formatter.ListTable(result))
	return r.writePlain("%d of %d %s\n", len(result), total, shared.Plural(total, "playlist", "playlists"))
}

// Show prints one playlist as a table or in an export format.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	playlist, err := r.fetch(ctx, name)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	if format != "table" {
		data, err := formatter.Render(*playlist, format)
		if err != nil {
			return err
		}
		if _, err := r.output.Write(data); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if !strings.HasSuffix(string(data), "\n") {
			return r.writePlain("\n")
		}
		return nil
	}

	r.writePlainHeader(playlist.Name)
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}
	if playlist.SongCount() == 0 {
		return r.writePlain("\nThis playlist has no songs.\n")
	}
	return r.writePlain("\n%s\n", formatter.SongTable(*playlist))
}

func (r *Runner) fetch(ctx context.Context, name string) (*models.Playlist, error) {
	var playlist *models.Playlist
	err := r.withSpinner(ctx, fmt.Sprintf("Loading %q...", name), func(ctx context.Context) error {
		var err error
		playlist, err = r.service().FindByName(ctx, name)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	return playlist, nil
}

// Create submits a playlist built from flags, or read from --file, through the create form.
func (r *Runner) Create(ctx context.Context, cmd *cli.Command) error {
	form, err := r.formFromFlags(cmd)
	if err != nil {
		return err
	}

	var created *models.Playlist
	err = r.withSpinner(ctx, "Creating playlist...", func(ctx context.Context) error {
		var err error
		created, err = form.Submit(ctx, r.service(), func(p models.Playlist) {
			r.logger.Debug("playlist created", "name", p.Name, "songs", p.SongCount())
		})
		return err
	})

	var verr *forms.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("%s: %w", forms.IncompleteMessage, err)
	case err != nil:
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, forms.CreateErrorMessage(err))
	}

	return r.writePlain("%s\n", forms.CreatedMessage(created.Name))
}

func (r *Runner) formFromFlags(cmd *cli.Command) (*forms.PlaylistForm, error) {
	form := forms.NewPlaylistForm()
	form.Songs = nil

	if path := cmd.String("file"); path != "" {
		playlist, err := tasks.ReadPlaylistFile(path)
		if err != nil {
			return nil, err
		}
		form.Name = playlist.Name
		form.Description = playlist.Description
		for _, s := range playlist.Songs {
			form.Songs = append(form.Songs, forms.SongForm{
				Title: s.Title, Artist: s.Artist, Album: s.Album, Year: s.Year, Genre: s.Genre,
			})
		}
		return form, nil
	}

	form.Name = cmd.StringArg("name")
	form.Description = cmd.String("description")
	for _, raw := range cmd.StringSlice("song") {
		song, err := parseSong(raw)
		if err != nil {
			return nil, err
		}
		form.Songs = append(form.Songs, song)
	}
	return form, nil
}

// parseSong reads "title|artist|album|year|genre". Trailing fields may be left out.
func parseSong(raw string) (forms.SongForm, error) {
	parts := strings.Split(raw, "|")
	if len(parts) > 5 {
		return forms.SongForm{}, fmt.Errorf("%w: song %q has more than 5 fields", shared.ErrInvalidFlag, raw)
	}

	fields := make([]string, 5)
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return forms.SongForm{Title: fields[0], Artist: fields[1], Album: fields[2], Year: fields[3], Genre: fields[4]}, nil
}

// Delete removes a playlist after confirmation.
func (r *Runner) Delete(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") {
		if !r.interactive {
			return fmt.Errorf("%w: pass --yes to delete %q without a terminal", shared.ErrMissingArgument, name)
		}
		ok, err := r.confirm(fmt.Sprintf("Delete playlist %q?", name))
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Cancelled.\n")
		}
	}

	err := r.withSpinner(ctx, fmt.Sprintf("Deleting %q...", name), func(ctx context.Context) error {
		return r.service().DeleteByName(ctx, name)
	})
	if err != nil {
		return fmt.Errorf("%w: error deleting playlist: %v", shared.ErrAPIRequest, err)
	}
	return r.writePlain("Playlist %q deleted successfully\n", name)
}

// confirm asks a yes/no question on the runner's input. Anything but y or yes is a no.
func (r *Runner) confirm(question string) (bool, error) {
	if err := r.writePlain("%s [y/N] ", question); err != nil {
		return false, err
	}

	answer, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && answer == "" {
		return false, nil
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Append adds one song to the end of a playlist by deleting and recreating it.
func (r *Runner) Append(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: playlist name", shared.ErrMissingArgument)
	}

	song := forms.SongForm{
		Title:  cmd.String("title"),
		Artist: cmd.String("artist"),
		Album:  cmd.String("album"),
		Year:   cmd.String("year"),
		Genre:  cmd.String("genre"),
	}
	if err := song.Validate(); err != nil {
		return fmt.Errorf("%s: %w", forms.IncompleteMessage, err)
	}

	engine, err := r.engine(!cmd.Bool("no-snapshot"))
	if err != nil {
		return err
	}
	view := tasks.NewDetailView(engine, name)

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Debug(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	var updated *models.Playlist
	err = r.withSpinner(ctx, fmt.Sprintf("Adding %q to %q...", song.Title, name), func(ctx context.Context) error {
		if _, err := view.Load(ctx); err != nil {
			return err
		}
		var err error
		updated, err = view.AppendSong(ctx, song, progress)
		return err
	})
	close(progress)
	<-done

	if err != nil {
		var appendErr *tasks.AppendError
		if errors.As(err, &appendErr) && appendErr.Lost() && appendErr.Snapshot != nil {
			r.logger.Error("playlist was deleted but could not be recreated",
				"name", name, "restore", fmt.Sprintf("playlistctl restore --snapshot %d", appendErr.Snapshot.Sequence))
		}
		return err
	}

	r.writePlain("%s\n", tasks.SongAddedMessage)
	return r.writePlain("%s\n", formatter.SongTable(*updated))
}
