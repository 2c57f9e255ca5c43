// Command reelforge is the store maintenance tool: it merges duplicate
// project directories (which must happen before any traffic touches the
// store) and then reconciles and lists every project.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/minhokang/reelforge/internal/config"
	"github.com/minhokang/reelforge/internal/domain/project"
	"github.com/minhokang/reelforge/internal/fsstore"
)

func main() {
	root := pflag.String("root", "", "projects root directory (overrides config)")
	logLevel := pflag.String("log-level", "", "log level: debug, info, warn, error")
	force := pflag.Bool("force", false, "force-reconcile every project even when facts match")
	migrateOnly := pflag.Bool("migrate-only", false, "run the duplicate migration and exit")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *root != "" {
		cfg.Store.Root = *root
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	store, err := fsstore.New(cfg.Store.Root, cfg.Store.FilesBase, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	svc := project.NewService(store, store, store, logger)

	ctx := context.Background()

	report, err := svc.Migrate(ctx)
	if err != nil {
		logger.Error("duplicate migration failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("scanned %d projects, %d duplicates, %d folders retired, %d files copied, %d replaced, %d skipped\n",
		report.ProjectsScanned, report.DuplicatesFound, report.FoldersRenamed,
		report.FilesCopied, report.FilesReplaced, report.FilesSkipped)
	if *migrateOnly {
		return
	}

	if *force {
		ids, err := svc.ListIDs(ctx)
		if err != nil {
			logger.Error("listing projects failed", "error", err)
			os.Exit(1)
		}
		for _, id := range ids {
			if _, err := svc.Reconcile(ctx, id, true); err != nil {
				logger.Warn("force reconcile failed", "id", id, "error", err)
			}
		}
	}

	metas, err := svc.List(ctx)
	if err != nil {
		logger.Error("listing projects failed", "error", err)
		os.Exit(1)
	}
	for _, meta := range metas {
		fmt.Printf("%s  %-8s  scenes=%d images=%d tts=%d video=%v  %s\n",
			meta.ID, meta.Status, meta.ScenesCount, meta.ImagesCount,
			meta.TTSCount, meta.HasVideo, meta.Title)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
