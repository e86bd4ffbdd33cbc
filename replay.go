package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ShapeBoard/internal/editor"
	"ShapeBoard/internal/persist"
	"ShapeBoard/internal/replay"
)

var flagPersist bool

var replayCmd = &cobra.Command{
	Use:   "replay <script.jsonl>",
	Short: "Run an input script without a window and print the resulting document",
	Long: `Replay feeds a JSON-lines script of pointer, tool, style and history
events to the editor and prints the stored document it ends with.

With --persist the board is loaded from and saved to the configured store,
which must be the sqlite or memory backend.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagPersist, "persist", false, "load from and save to the configured store")
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open script: %w", err)
	}
	defer f.Close()

	events, err := replay.Parse(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	opts := []editor.Option{
		editor.WithLogger(logger),
		editor.WithStyle(styleFrom(cfg.Style)),
		editor.WithSurface(editor.SurfaceFunc(func(editor.Frame) {})),
	}
	var adapter *persist.Adapter
	if flagPersist {
		kv, closeStore, err := openStore(cfg.Store, nil)
		if err != nil {
			return err
		}
		defer closeStore()
		adapter = persist.NewAdapter(kv, persist.WithKey(cfg.Store.Key), persist.WithLogger(logger))
		opts = append(opts, editor.WithChangeHook(adapter.Save))
	}

	ctrl := editor.New(opts...)
	if adapter != nil {
		ctrl.Restore(adapter.Load())
	}
	if err := replay.Run(cmd.Context(), ctrl, events); err != nil {
		return fmt.Errorf("replay: %w", err)
	}
	logger.Info("replay finished",
		zap.Int("events", len(events)),
		zap.Int("shapes", len(ctrl.Shapes())))

	data, err := persist.Encode(ctrl.Shapes(), ctrl.Log())
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
