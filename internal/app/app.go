// Package app wires resolved settings into the services used by CLI
// commands. Commands call Load once and Close when done.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/user"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nathanbeddoewebdev/dirctl/internal/auditlog"
	"nathanbeddoewebdev/dirctl/internal/config"
	"nathanbeddoewebdev/dirctl/internal/database"
	"nathanbeddoewebdev/dirctl/internal/executor"
	"nathanbeddoewebdev/dirctl/internal/logging"
	"nathanbeddoewebdev/dirctl/internal/metastore"
	"nathanbeddoewebdev/dirctl/internal/reconcile"
	"nathanbeddoewebdev/dirctl/internal/samba"
	"nathanbeddoewebdev/dirctl/internal/scripts"
	"nathanbeddoewebdev/dirctl/internal/services/auth"
	"nathanbeddoewebdev/dirctl/internal/services/directory"
	"nathanbeddoewebdev/dirctl/internal/swrcache"
)

// App holds the services for one CLI invocation.
type App struct {
	Settings   config.Settings
	Logger     zerolog.Logger
	Executor   *executor.Executor
	Tool       *samba.Tool
	Scripts    *scripts.Runner
	Audit      *auditlog.Log
	Meta       *metastore.SQLiteRepository
	Directory  *directory.Service
	Reconciler *reconcile.Reconciler
}

// Settings resolves configuration: .env files, the config file, the
// environment, keychain secrets and the root persistent flags, in that order
// of increasing precedence. It also installs the default logger.
func Settings(cmd *cobra.Command, store auth.Store) (config.Settings, zerolog.Logger, error) {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		return config.Settings{}, zerolog.Nop(), err
	}
	s, err := config.Resolve(cfg)
	if err != nil {
		return config.Settings{}, zerolog.Nop(), err
	}

	if f := cmd.Flag("dry-run"); f != nil && f.Changed {
		s.DryRun = f.Value.String() == "true"
	}
	if f := cmd.Flag("log-level"); f != nil && f.Changed {
		s.LogLevel = f.Value.String()
	}
	var format string
	if f := cmd.Flag("log-format"); f != nil {
		format = f.Value.String()
	}

	logger := logging.NewFromConfig(logging.Config{Level: s.LogLevel, Format: format, Output: cmd.ErrOrStderr()})
	logging.SetDefault(logger)

	if store != nil {
		if err := auth.Apply(&s, store); err != nil {
			logger.Warn().Err(err).Msg("keychain unavailable, using environment credentials only")
		}
	}
	if s.DBPath != "" {
		database.SetPath(s.DBPath)
	}
	return s, logger, nil
}

// Load resolves settings and opens every service.
func Load(cmd *cobra.Command) (*App, error) {
	s, logger, err := Settings(cmd, auth.DefaultStore())
	if err != nil {
		return nil, err
	}

	a := &App{Settings: s, Logger: logger}
	a.Executor = executor.New(executor.Options{
		DefaultTimeout: s.Timeout,
		MaxConcurrent:  s.MaxProcs,
		Logger:         &logger,
	})
	a.Tool = samba.New(a.Executor, s)

	a.Scripts, err = scripts.NewRunner(a.Executor, s)
	if err != nil {
		return nil, err
	}

	a.Audit, err = auditlog.Open()
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	a.Meta, err = metastore.Open()
	if err != nil {
		a.Audit.Close()
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}

	a.Directory = directory.New(a.Tool,
		directory.WithAudit(a.Audit),
		directory.WithCache(swrcache.ForRealm(s.Realm)),
		directory.WithDisabledGroupsOU(s.DisabledGroupsOU),
	)
	a.Reconciler = reconcile.New(reconcile.Options{
		Source: a.Source(),
		Store:  a.Meta,
		Audit:  a.Audit,
		Logger: &logger,
	})
	return a, nil
}

// Source returns the snapshot source selected by the sync-source setting.
func (a *App) Source() reconcile.Source {
	if a.Settings.SyncSource == config.SourceScripts {
		return &reconcile.BulkSource{Runner: a.Scripts}
	}
	return &reconcile.PerEntitySource{Lister: a.Tool, Concurrency: a.Settings.MaxProcs}
}

// Context returns cmd's context carrying the logger and the audit actor.
func (a *App) Context(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, &a.Logger)
	return auditlog.WithMetadata(ctx, auditlog.Metadata{Actor: Actor(a.Settings)})
}

// Close releases the database handles.
func (a *App) Close() error {
	var errs []error
	if a.Meta != nil {
		errs = append(errs, a.Meta.Close())
	}
	if a.Audit != nil {
		errs = append(errs, a.Audit.Close())
	}
	return errors.Join(errs...)
}

// Actor names who is performing the operation: DIRCTL_ACTOR, then the OS
// user, then the configured admin account.
func Actor(s config.Settings) string {
	if v := os.Getenv("DIRCTL_ACTOR"); v != "" {
		return v
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if s.AuthUser != "" {
		return s.AuthUser
	}
	return "system"
}
