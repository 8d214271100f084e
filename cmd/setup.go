package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/playlistctl/internal/repositories"
	"github.com/desertthunder/playlistctl/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup writes config.toml from the embedded template when it is missing, then initializes the snapshot database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = cmd.String("config")
	}

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("using existing config file", "path", configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	r.config = config

	if cmd.Bool("rollback") {
		return r.rollbackSchema(config.Database, cmd.Bool("force"))
	}

	r.logger.Info("initializing database", "path", config.Database.Path)
	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	version, _, err := shared.CurrentVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	r.logger.Infof("setup complete for database: %v (schema version %d)", config.Database.Path, version)

	r.writePlain("✓ Configuration ready at %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url and the [credentials] sections in %s\n", configPath)
	r.writePlain("   or export %s, %s and %s\n", shared.EnvBaseURL, shared.EnvUserName, shared.EnvAdminName)
	r.writePlain("2. Run 'playlistctl list' to check the connection\n")
	return r.writePlain("3. Run 'playlistctl tui' for the interactive shell\n")
}

// rollbackSchema reverts the newest schema migration. Unresolved snapshots block it unless force is set.
func (r *Runner) rollbackSchema(cfg shared.DatabaseConfig, force bool) error {
	db, err := shared.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if !force {
		pending, err := repositories.NewSnapshotRepository(db).List(false)
		if err != nil {
			return err
		}
		if n := len(pending); n > 0 {
			return fmt.Errorf("%w: %d unresolved %s would be dropped; restore or resolve them first, or pass --force",
				shared.ErrInvalidArgument, n, shared.Plural(n, "snapshot", "snapshots"))
		}
	}

	m, err := shared.RollbackMigration(db)
	if err != nil {
		return err
	}
	r.logger.Info("schema migration rolled back", "path", cfg.Path, "version", m.Version, "name", m.Name)
	return r.writePlain("✓ Rolled back schema migration %04d (%s)\n", m.Version, m.Name)
}
