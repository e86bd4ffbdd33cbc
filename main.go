// Command shapeboard is a local vector shape editor. With no subcommand it
// opens the editor window; "replay" runs an input script headless.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ShapeBoard/internal/config"
	"ShapeBoard/internal/editor"
	"ShapeBoard/internal/logging"
	"ShapeBoard/internal/persist"
	"ShapeBoard/internal/ui"
)

const appID = "io.shapeboard.editor"

var errNeedsWindow = errors.New("preferences backend needs the editor window")

var (
	// Set by persistent flags.
	configFile string
	logLevel   string

	// Set by PersistentPreRunE.
	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "shapeboard",
	Short:             "ShapeBoard is a local vector shape editor",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runEditor,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides log.level")

	rootCmd.AddCommand(replayCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	l, err := logging.New(c.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	cfg, logger = c, l
	return nil
}

func runEditor(cmd *cobra.Command, args []string) error {
	a := app.NewWithID(appID)

	kv, closeStore, err := openStore(cfg.Store, a.Preferences)
	if err != nil {
		return err
	}
	defer closeStore()

	adapter := persist.NewAdapter(kv, persist.WithKey(cfg.Store.Key), persist.WithLogger(logger))
	ctrl := editor.New(
		editor.WithLogger(logger),
		editor.WithStyle(styleFrom(cfg.Style)),
		editor.WithChangeHook(adapter.Save),
	)
	ctrl.Restore(adapter.Load())
	logger.Info("editor starting",
		zap.String("session", ctrl.Session()),
		zap.String("backend", cfg.Store.Backend))

	ui.RunApp(a, ctrl, fyne.NewSize(cfg.Window.Width, cfg.Window.Height))
	return nil
}

func styleFrom(s config.StyleConfig) editor.Style {
	return editor.Style{Stroke: s.Stroke, Fill: s.Fill, LineWidth: s.LineWidth}
}

// openStore returns the configured key/value store and its closer. prefs
// is only called for the preferences backend.
func openStore(sc config.StoreConfig, prefs func() fyne.Preferences) (persist.KeyValue, func(), error) {
	noop := func() {}
	switch sc.Backend {
	case config.BackendSQLite:
		s, err := persist.OpenSQLite(sc.Path)
		if err != nil {
			return nil, noop, fmt.Errorf("open store: %w", err)
		}
		return s, func() {
			if err := s.Close(); err != nil {
				logger.Warn("close store", zap.Error(err))
			}
		}, nil
	case config.BackendMemory:
		return persist.NewMemoryStore(), noop, nil
	case config.BackendPreferences:
		if prefs == nil {
			return nil, noop, errNeedsWindow
		}
		return persist.NewPreferencesStore(prefs()), noop, nil
	default:
		return nil, noop, fmt.Errorf("%w: %q", config.ErrUnknownBackend, sc.Backend)
	}
}
