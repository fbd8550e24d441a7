package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/leitbox/internal/deck"
	"github.com/abhisek/leitbox/internal/schedule"
	"github.com/abhisek/leitbox/internal/screen"
	"github.com/abhisek/leitbox/internal/store"
)

// errCategoryNotFound is returned when a path names no category.
var errCategoryNotFound = errors.New("category not found")

// workspace bundles what a command works on: the logger, the open store, the
// effective settings and the loaded category tree.
type workspace struct {
	logger   *log.Logger
	store    *store.Store
	settings *schedule.Settings
	repo     store.CategoryRepo
	root     *deck.Category
	closers  []io.Closer
}

// openWorkspace resolves paths, opens the database and loads the tree. When
// tui is set, logs go to --log-file only, since the terminal belongs to the
// program.
func openWorkspace(cmd *cobra.Command, tui bool) (*workspace, error) {
	w := &workspace{}
	logger, closer, err := newLogger(cmd, tui)
	if err != nil {
		return nil, err
	}
	w.logger = logger
	if closer != nil {
		w.closers = append(w.closers, closer)
	}

	w.settings, err = loadSettings(cmd)
	if err != nil {
		w.Close()
		return nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	w.store, err = store.Open(dbPath, store.WithLogger(logger))
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	w.closers = append([]io.Closer{w.store}, w.closers...)
	logger.Debug("store opened", "path", dbPath)

	w.repo = w.store.CategoryRepo(w.settings)
	w.root, err = w.repo.Load(cmd.Context())
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return w, nil
}

// Close releases the store and the log file.
func (w *workspace) Close() {
	for _, c := range w.closers {
		c.Close()
	}
	w.closers = nil
}

// save persists the category tree.
func (w *workspace) save(cmd *cobra.Command) error {
	if err := w.repo.Save(cmd.Context(), w.root); err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// category finds path in the tree. The empty path and "." name the root.
func (w *workspace) category(path string) (*deck.Category, error) {
	if path == "." {
		path = ""
	}
	c := w.root.Find(path)
	if c == nil {
		return nil, fmt.Errorf("%w: %q", errCategoryNotFound, path)
	}
	return c, nil
}

// env builds the state shared by the TUI screens.
func (w *workspace) env() *screen.Env {
	return &screen.Env{
		Root:     w.root,
		Repo:     w.repo,
		History:  w.store.HistoryRepo(),
		Settings: w.settings,
		Logger:   w.logger,
	}
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LEITBOX_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// loadSettings reads the settings file named by --settings, LEITBOX_SETTINGS
// or the XDG default. Only a missing default file falls back to defaults.
func loadSettings(cmd *cobra.Command) (*schedule.Settings, error) {
	path, explicit, err := resolveSettingsPath(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := schedule.LoadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return schedule.Default(), nil
	case err != nil:
		return nil, err
	}
	return schedule.NewSettings(cfg)
}

func resolveSettingsPath(cmd *cobra.Command) (path string, explicit bool, err error) {
	if p, _ := cmd.Flags().GetString("settings"); p != "" {
		return p, true, nil
	}
	explicit = os.Getenv("LEITBOX_SETTINGS") != ""
	path, err = schedule.DefaultSettingsPath()
	return path, explicit, err
}

// newLogger builds the program logger. The returned closer, if any, owns the
// log file.
func newLogger(cmd *cobra.Command, tui bool) (*log.Logger, io.Closer, error) {
	levelName, _ := cmd.Flags().GetString("log-level")
	if levelName == "" {
		levelName = os.Getenv("LEITBOX_LOG_LEVEL")
	}
	level := log.WarnLevel
	if levelName != "" {
		var err error
		if level, err = log.ParseLevel(levelName); err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
	}

	var out io.Writer = cmd.ErrOrStderr()
	var closer io.Closer
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	} else if tui {
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		Prefix:          "leitbox",
		Level:           level,
		ReportTimestamp: true,
	})
	log.SetDefault(logger)
	return logger, closer, nil
}
