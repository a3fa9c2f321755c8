// Package cli implements the todo command line. Without a subcommand it
// starts the terminal UI.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/store"
	"github.com/nhle/todo/internal/todo"
)

// options holds the global flags.
type options struct {
	configPath string
	logLevel   string
}

// NewRootCommand builds the command tree.
func NewRootCommand(version string) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A small to-do list for the terminal",
		Long: `todo keeps a single list of tasks in a local key-value store.

Run without arguments for the interactive list, or use the subcommands
from scripts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", model.DefaultConfigPath(), "config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	root.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newToggleCmd(opts),
		newEditCmd(opts),
		newRemoveCmd(opts),
		newCompleteAllCmd(opts),
		newClearCompletedCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newInitCmd(opts),
	)

	return root
}

// Execute runs the command tree and prints any error to stderr.
func Execute(ctx context.Context, version string, stderr io.Writer) error {
	root := NewRootCommand(version)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig reads the config file named by the global flags.
func (o *options) loadConfig() (*model.AppConfig, error) {
	cfg, err := model.LoadConfig(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// newLogger returns a leveled logger writing to w.
func newLogger(w io.Writer, level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:  lvl,
		Prefix: "todo",
	}), nil
}

// session is an open board together with the resources behind it.
type session struct {
	cfg    *model.AppConfig
	logger *log.Logger
	kv     store.KV
	board  *todo.Board
}

// openSession loads config, opens the configured backend and loads the
// board. The caller must Close the session.
func openSession(ctx context.Context, cfg *model.AppConfig, logger *log.Logger) (*session, error) {
	kv, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Storage.Backend, err)
	}

	bridge := store.NewBridge(kv, store.BridgeConfig{
		Key:       cfg.Storage.Key,
		OnCorrupt: cfg.Storage.OnCorrupt,
		Logger:    logger,
	})

	filter, err := model.ParseFilterMode(cfg.Display.DefaultFilter)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	board, err := todo.NewBoard(ctx, bridge, todo.Options{
		Filter: filter,
		Logger: logger,
	})
	if err != nil {
		_ = kv.Close()
		return nil, err
	}

	logger.Debug("store opened", "backend", cfg.Storage.Backend, "key", bridge.Key())
	return &session{cfg: cfg, logger: logger, kv: kv, board: board}, nil
}

// Close releases the backend.
func (s *session) Close() error {
	return s.kv.Close()
}

// withBoard runs fn against a board opened from the global flags, logging
// to the command's stderr.
func (o *options) withBoard(cmd *cobra.Command, fn func(ctx context.Context, b *todo.Board) error) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); cerr != nil {
			logger.Warn("closing store", "err", cerr)
		}
	}()

	return fn(ctx, s.board)
}
