package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/nhle/todo/internal/credential"
	"github.com/nhle/todo/internal/model"
	"github.com/nhle/todo/internal/store"
)

// initAnswers collects the wizard's results on the heap so huh's Value()
// pointers stay valid.
type initAnswers struct {
	backend       string
	sqlitePath    string
	fileDir       string
	redisAddr     string
	redisDB       string
	redisPassword string
	onCorrupt     string
	defaultFilter string
}

func newInitCmd(opts *options) *cobra.Command {
	var (
		yes   bool
		force bool
		ans   = &initAnswers{}
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file",
		Long: `Write a config file, asking for the storage backend and display defaults.

With --yes the questions are skipped and the flag values are written as is.
A Redis password is stored in the system keyring, never in the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(opts.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.configPath)
			}

			if !yes {
				if err := runInitWizard(ans); err != nil {
					return err
				}
			}

			cfg, err := ans.config()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Storage.Backend == model.BackendRedis && ans.redisPassword != "" {
				if err := credential.Set(store.RedisPasswordKey, ans.redisPassword); err != nil {
					return err
				}
			}

			if err := model.SaveConfig(opts.configPath, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.configPath)
			return nil
		},
	}

	d := model.DefaultAppConfig()
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the questions")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	cmd.Flags().StringVar(&ans.backend, "backend", d.Storage.Backend, "sqlite, file or redis")
	cmd.Flags().StringVar(&ans.sqlitePath, "sqlite-path", d.Storage.SQLitePath, "SQLite database file")
	cmd.Flags().StringVar(&ans.fileDir, "file-dir", d.Storage.FileDir, "directory for the file backend")
	cmd.Flags().StringVar(&ans.redisAddr, "redis-addr", d.Storage.RedisAddr, "Redis host:port")
	cmd.Flags().StringVar(&ans.redisDB, "redis-db", strconv.Itoa(d.Storage.RedisDB), "Redis database number")
	cmd.Flags().StringVar(&ans.onCorrupt, "on-corrupt", d.Storage.OnCorrupt, "reset or fail when saved tasks are unreadable")
	cmd.Flags().StringVar(&ans.defaultFilter, "default-filter", d.Display.DefaultFilter, "all, active or completed")

	return cmd
}

// config turns the answers into a full configuration.
func (a *initAnswers) config() (*model.AppConfig, error) {
	cfg := model.DefaultAppConfig()
	cfg.Storage.Backend = a.backend
	cfg.Storage.SQLitePath = a.sqlitePath
	cfg.Storage.FileDir = a.fileDir
	cfg.Storage.RedisAddr = a.redisAddr
	cfg.Storage.OnCorrupt = a.onCorrupt
	cfg.Display.DefaultFilter = a.defaultFilter

	if a.redisDB != "" {
		db, err := strconv.Atoi(a.redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %q", a.redisDB)
		}
		cfg.Storage.RedisDB = db
	}
	return cfg, nil
}

// runInitWizard asks for the settings, pre-filled with the flag values.
func runInitWizard(a *initAnswers) error {
	backendForm := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Where should tasks be stored?").
				Options(
					huh.NewOption("SQLite database", model.BackendSQLite),
					huh.NewOption("JSON files in a directory", model.BackendFile),
					huh.NewOption("Redis server", model.BackendRedis),
				).
				Value(&a.backend),
		),
	)
	if err := backendForm.Run(); err != nil {
		return wizardErr(err)
	}

	var storage *huh.Group
	switch a.backend {
	case model.BackendFile:
		storage = huh.NewGroup(
			huh.NewInput().Title("Directory").Value(&a.fileDir).Validate(notBlank),
		)
	case model.BackendRedis:
		storage = huh.NewGroup(
			huh.NewInput().Title("Redis address").Value(&a.redisAddr).Validate(notBlank),
			huh.NewInput().Title("Database number").Value(&a.redisDB).Validate(isInt),
			huh.NewInput().Title("Password (kept in the system keyring)").
				EchoMode(huh.EchoModePassword).
				Value(&a.redisPassword),
		)
	default:
		storage = huh.NewGroup(
			huh.NewInput().Title("Database file").Value(&a.sqlitePath).Validate(notBlank),
		)
	}

	prefs := huh.NewGroup(
		huh.NewSelect[string]().
			Title("When saved tasks are unreadable").
			Options(
				huh.NewOption("Set them aside and start empty", model.OnCorruptReset),
				huh.NewOption("Stop with an error", model.OnCorruptFail),
			).
			Value(&a.onCorrupt),
		huh.NewSelect[string]().
			Title("Show on start").
			Options(
				huh.NewOption("All tasks", string(model.FilterAll)),
				huh.NewOption("Active tasks", string(model.FilterActive)),
				huh.NewOption("Completed tasks", string(model.FilterCompleted)),
			).
			Value(&a.defaultFilter),
	)

	if err := huh.NewForm(storage, prefs).Run(); err != nil {
		return wizardErr(err)
	}
	return nil
}

func wizardErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return errors.New("init cancelled")
	}
	return fmt.Errorf("running setup: %w", err)
}

func notBlank(s string) error {
	if s == "" {
		return errors.New("required")
	}
	return nil
}

func isInt(s string) error {
	if _, err := strconv.Atoi(s); err != nil {
		return errors.New("must be a number")
	}
	return nil
}
