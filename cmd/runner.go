package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh/spinner"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlistctl/internal/repositories"
	"github.com/desertthunder/playlistctl/internal/services"
	"github.com/desertthunder/playlistctl/internal/shared"
	"github.com/desertthunder/playlistctl/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config      *shared.Config
	configPath  string
	client      services.PlaylistService
	logger      *log.Logger
	output      io.Writer
	input       io.Reader
	interactive bool
	db          *sql.DB
	snapshots   *repositories.SnapshotRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config      *shared.Config
	ConfigPath  string
	Client      services.PlaylistService
	Snapshots   *repositories.SnapshotRepository
	Logger      *log.Logger
	Output      io.Writer
	Input       io.Reader // Answers to confirmation prompts
	Interactive bool      // Show spinners and prompts
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}

	return &Runner{
		config:      opts.Config,
		configPath:  opts.ConfigPath,
		client:      opts.Client,
		logger:      opts.Logger,
		output:      opts.Output,
		input:       opts.Input,
		interactive: opts.Interactive,
		snapshots:   opts.Snapshots,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		listCommand, showCommand, createCommand, deleteCommand, appendCommand,
		backupCommand, restoreCommand, snapshotsCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// SetLogger replaces the logger, as the TUI does to keep output off the screen.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

// configure loads the config file named by --config, applies environment overrides and validates the result.
//
// A missing config file is not an error; the embedded defaults are used.
func (r *Runner) configure(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	r.configPath = path

	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else {
		r.logger.Debug("config file not found, using defaults", "path", path)
	}

	if err := r.config.ApplyEnv(os.LookupEnv); err != nil {
		return ctx, err
	}
	if err := r.config.Validate(); err != nil {
		return ctx, err
	}

	if cmd.Bool("verbose") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	}
	return ctx, nil
}

// service returns the API client, building it from the config on first use.
func (r *Runner) service() services.PlaylistService {
	if r.client == nil {
		r.client = services.NewPlaylistClient(services.ClientOpts{
			BaseURL:   r.config.API.BaseURL,
			User:      services.Credentials(r.config.Credentials.User),
			Admin:     services.Credentials(r.config.Credentials.Admin),
			RateLimit: r.config.API.RateLimit,
			Timeout:   r.config.API.Timeout(),
			Logger:    shared.WithLogger(r.logger, "component", "client"),
		})
	}
	return r.client
}

// snapshotRepo opens the snapshot database on first use. Migrations run on open.
func (r *Runner) snapshotRepo() (*repositories.SnapshotRepository, error) {
	if r.snapshots != nil {
		return r.snapshots, nil
	}

	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot database: %w", err)
	}
	r.db = db
	r.snapshots = repositories.NewSnapshotRepository(db)
	return r.snapshots, nil
}

// engine builds a [tasks.PlaylistEngine]. With snapshots set, appends record a local copy first.
func (r *Runner) engine(snapshots bool) (*tasks.PlaylistEngine, error) {
	var store tasks.SnapshotStore
	if snapshots {
		repo, err := r.snapshotRepo()
		if err != nil {
			return nil, err
		}
		store = repo
	}
	return tasks.NewPlaylistEngine(r.service(), store, shared.WithLogger(r.logger, "component", "engine")), nil
}

// Close releases the snapshot database if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// withSpinner runs action behind a spinner on a terminal, and directly otherwise.
func (r *Runner) withSpinner(ctx context.Context, title string, action func(context.Context) error) error {
	if !r.interactive {
		return action(ctx)
	}
	return spinner.New().Title(title).Context(ctx).ActionWithErr(action).Run()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
