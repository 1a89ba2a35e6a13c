// Package main implements export, which writes a learner's activity log to
// monitize_activity_log_<date>.json. The log is kept; a corrupt or oversized
// stored value is repaired in place before it is exported.
package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/monitize/monitize-api/internal/activity"
	"github.com/monitize/monitize-api/internal/config"
	"github.com/monitize/monitize-api/internal/platform/storage"
	"github.com/monitize/monitize-api/internal/service/auth"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		learnerID string
		configDir string
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "export [--learner <id>] [--out <dir>|-]",
		Short: "Export an activity log as JSON",
		Long: `Reads the activity log from the configured backend and writes the stored JSON
array to a dated file. Without --learner the anonymous log is exported.
Use --out - to write to standard output.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if learnerID != "" && !auth.ValidLearnerID(learnerID) {
				return fmt.Errorf("%w: %q", auth.ErrInvalidLearnerID, learnerID)
			}

			activityCfg, err := config.LoadActivity(configDir)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			st, closeStore, err := storage.Open(cmd.Context(), activityCfg, logger)
			if err != nil {
				return err
			}
			defer func() { _ = closeStore() }()

			log := activity.NewLog(st, logger, activity.WithMaxEntries(activityCfg.MaxEntries))
			key := activity.KeyFor(activityCfg.StorageKey, learnerID)

			if outDir == "-" {
				return log.Export(cmd.Context(), key, cmd.OutOrStdout())
			}
			path := filepath.Join(outDir, activity.ExportFilename(time.Now()))
			if err := writeExport(cmd.Context(), log, key, path); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}

	cmd.Flags().StringVar(&learnerID, "learner", "", "learner ID; empty exports the anonymous log")
	cmd.Flags().StringVar(&configDir, "config-dir", ".", "directory containing config.yaml")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory, or - for stdout")

	return cmd
}

// writeExport renders the log before touching the filesystem so a failed
// load leaves no file behind.
func writeExport(ctx context.Context, log *activity.Log, key, path string) error {
	var buf bytes.Buffer
	if err := log.Export(ctx, key, &buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	return nil
}
