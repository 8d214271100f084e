package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/playlistctl/internal/formatter"
	"github.com/desertthunder/playlistctl/internal/models"
	"github.com/desertthunder/playlistctl/internal/shared"
	"golang.org/x/time/rate"
)

// ManifestFile is the name of the summary written next to the exported playlists.
const ManifestFile = "manifest.json"

// BackupOpts contains configuration for a bulk backup.
type BackupOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Output directory (default: playlists_backup_{epoch})
	NumWorkers int     // Concurrent writers, 1..10 (default: 5)
	RateLimit  float64 // Fetches per second (default: 5)
}

// PlaylistBackupResult is the outcome for one playlist.
type PlaylistBackupResult struct {
	Name    string `json:"name"`
	Songs   int    `json:"songs"`
	Success bool   `json:"success"`
	File    string `json:"file,omitempty"`
	Error   string `json:"error,omitempty"`
}

// BackupResult summarizes a bulk backup and is written as the manifest.
type BackupResult struct {
	Format          string                 `json:"format"`
	TotalPlaylists  int                    `json:"total_playlists"`
	Successful      int                    `json:"successful"`
	Failed          int                    `json:"failed"`
	OutputDirectory string                 `json:"output_directory"`
	ManifestPath    string                 `json:"-"`
	StartedAt       time.Time              `json:"started_at"`
	FinishedAt      time.Time              `json:"finished_at"`
	Results         []PlaylistBackupResult `json:"results"`
}

type backupJob struct {
	index    int
	playlist models.Playlist
}

// Backup exports every playlist on the server.
//
// A producer fetches playlists one by one under a rate limiter and hands them to a pool of workers that write
// the files. Individual failures are recorded in the result; only setup and manifest errors are returned.
func (e *PlaylistEngine) Backup(ctx context.Context, progress chan<- ProgressUpdate, opts BackupOpts) (*BackupResult, error) {
	if e.svc == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if !slices.Contains(formatter.Formats, opts.Format) {
		return nil, fmt.Errorf("%w: unknown format %q (want one of %s)", shared.ErrInvalidFlag, opts.Format, strings.Join(formatter.Formats, ", "))
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playlists_backup_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	sendProgress(progress, fetchPlaylistsUpdate())
	summaries, err := e.svc.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list playlists: %v", shared.ErrAPIRequest, err)
	}
	sendProgress(progress, foundPlaylistsUpdate(len(summaries)))

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	total := len(summaries)
	result := &BackupResult{
		Format:          opts.Format,
		TotalPlaylists:  total,
		OutputDirectory: opts.OutputDir,
		StartedAt:       time.Now().UTC(),
		Results:         make([]PlaylistBackupResult, 0, total),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan backupJob, total)
	results := make(chan PlaylistBackupResult, total)

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.backupWorker(&wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, summary := range summaries {
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			sendProgress(progress, exportingPlaylistUpdate(i+1, total, summary.Name))
			playlist, err := e.svc.FindByName(ctx, summary.Name)
			if err != nil {
				results <- PlaylistBackupResult{
					Name:  summary.Name,
					Songs: summary.SongCount(),
					Error: fmt.Sprintf("failed to fetch playlist: %v", err),
				}
				continue
			}

			jobs <- backupJob{index: i, playlist: *playlist}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.Successful++
			sendProgress(progress, exportCompletedUpdate(completed, total, res.Name, res.File))
		} else {
			result.Failed++
			sendProgress(progress, exportFailedUpdate(completed, total, res.Name, fmt.Errorf("%s", res.Error)))
		}
	}

	slices.SortFunc(result.Results, func(a, b PlaylistBackupResult) int {
		return strings.Compare(a.Name, b.Name)
	})
	result.FinishedAt = time.Now().UTC()

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("backup interrupted: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	sendProgress(progress, manifestUpdate(manifestPath))
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("backup completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// backupWorker writes playlists from the jobs channel until it is closed.
func (e *PlaylistEngine) backupWorker(wg *sync.WaitGroup, jobs <-chan backupJob, results chan<- PlaylistBackupResult, opts BackupOpts) {
	defer wg.Done()

	for job := range jobs {
		results <- writeBackup(job, opts)
	}
}

func writeBackup(job backupJob, opts BackupOpts) PlaylistBackupResult {
	res := PlaylistBackupResult{Name: job.playlist.Name, Songs: job.playlist.SongCount()}

	stem := fmt.Sprintf("%03d-%s", job.index+1, formatter.Slug(job.playlist.Name))
	path, err := formatter.WriteExport(job.playlist, opts.OutputDir, stem, opts.Format)
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.File = filepath.Base(path)
	res.Success = true
	return res
}

// ReadPlaylistFile loads a playlist from a JSON file in the API's wire format, such as a json backup.
func ReadPlaylistFile(path string) (models.Playlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.Playlist{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var playlist models.Playlist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return models.Playlist{}, fmt.Errorf("%w: %s is not a playlist: %v", shared.ErrInvalidInput, path, err)
	}
	if playlist.Name == "" {
		return models.Playlist{}, fmt.Errorf("%w: %s has no nombre", shared.ErrInvalidInput, path)
	}
	return playlist, nil
}
