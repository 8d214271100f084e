package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/playlistctl/internal/formatter"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/repositories"
	"github.com/desertthunder/playlistctl/internal/shared"
	"github.com/desertthunder/playlistctl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Backup exports every playlist to a directory and writes a manifest.
func (r *Runner) Backup(ctx context.Context, cmd *cli.Command) error {
	workers := cmd.Int("workers")
	if workers < 1 || workers > 10 {
		return fmt.Errorf("%w: --workers must be between 1 and 10", shared.ErrInvalidFlag)
	}

	engine, err := r.engine(false)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "step", update.Step, "total", update.Total)
		}
	}()

	result, err := engine.Backup(ctx, progress, tasks.BackupOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: workers,
		RateLimit:  cmd.Float("rate-limit"),
	})
	close(progress)
	<-done

	if result == nil {
		return err
	}

	r.writePlainHeader("Backup Summary")
	r.writePlain("Format:     %s\n", result.Format)
	r.writePlain("Directory:  %s\n", result.OutputDirectory)
	r.writePlain("Playlists:  %d\n", result.TotalPlaylists)
	r.writePlain("Successful: %d\n", result.Successful)
	r.writePlain("Failed:     %d\n", result.Failed)
	if result.ManifestPath != "" {
		r.writePlain("Manifest:   %s\n", result.ManifestPath)
	}

	if result.Failed > 0 {
		r.writePlainln("Failures:")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  %s: %s\n", res.Name, res.Error)
			}
		}
	}
	return err
}

// Restore recreates a playlist from a JSON backup file or a local snapshot.
func (r *Runner) Restore(ctx context.Context, cmd *cli.Command) error {
	file, ref := cmd.String("file"), cmd.String("snapshot")
	switch {
	case file == "" && ref == "":
		return fmt.Errorf("%w: either --file or --snapshot must be provided", shared.ErrMissingArgument)
	case file != "" && ref != "":
		return fmt.Errorf("%w: cannot specify both --file and --snapshot", shared.ErrInvalidArgument)
	}

	var playlist models.Playlist
	var snapshot *models.Snapshot
	if file != "" {
		p, err := tasks.ReadPlaylistFile(file)
		if err != nil {
			return err
		}
		playlist = p
	} else {
		repo, err := r.snapshotRepo()
		if err != nil {
			return err
		}
		if snapshot, err = findSnapshot(repo, ref); err != nil {
			return err
		}
		playlist = snapshot.Playlist
	}

	engine, err := r.engine(false)
	if err != nil {
		return err
	}

	var created *models.Playlist
	err = r.withSpinner(ctx, fmt.Sprintf("Restoring %q...", playlist.Name), func(ctx context.Context) error {
		var err error
		created, err = engine.Restore(ctx, playlist, nil)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to restore %q: %w", playlist.Name, err)
	}

	if snapshot != nil && !snapshot.Resolved() {
		if err := r.snapshots.Resolve(snapshot.ID); err != nil {
			r.logger.Warn("restored playlist but could not resolve snapshot", "id", snapshot.ID, "error", err)
		}
	}

	return r.writePlain("Restored %q with %d %s\n", created.Name, created.SongCount(), shared.Plural(created.SongCount(), "song", "songs"))
}

// findSnapshot accepts a sequence number or a snapshot ID.
func findSnapshot(repo *repositories.SnapshotRepository, ref string) (*models.Snapshot, error) {
	if seq, err := strconv.Atoi(ref); err == nil {
		return repo.GetBySequence(seq)
	}
	return repo.Get(ref)
}

// SnapshotsList prints local snapshots in sequence order, or newest first for one playlist.
func (r *Runner) SnapshotsList(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.snapshotRepo()
	if err != nil {
		return err
	}

	var snapshots []*models.Snapshot
	if name := cmd.String("name"); name != "" {
		snapshots, err = repo.ListByName(name)
	} else {
		snapshots, err = repo.List(cmd.Bool("all"))
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(snapshots, cmd.Bool("pretty"))
	}
	if len(snapshots) == 0 {
		return r.writePlain("No snapshots found.\n")
	}
	return r.writePlain("%s\n", formatter.SnapshotTable(snapshots))
}

// SnapshotsResolve marks a snapshot as resolved so it no longer shows up by default.
func (r *Runner) SnapshotsResolve(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("id")
	if ref == "" {
		return fmt.Errorf("%w: snapshot ID or sequence", shared.ErrMissingArgument)
	}

	repo, err := r.snapshotRepo()
	if err != nil {
		return err
	}
	snapshot, err := findSnapshot(repo, ref)
	if err != nil {
		return err
	}
	if snapshot.Resolved() {
		return fmt.Errorf("%w: snapshot %d is already resolved", shared.ErrInvalidArgument, snapshot.Sequence)
	}
	if err := repo.Resolve(snapshot.ID); err != nil {
		return err
	}
	return r.writePlain("Snapshot %d of %q resolved\n", snapshot.Sequence, snapshot.Name)
}
