package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/docbridge/pkg/adapters/fs"
	"github.com/aretw0/docbridge/pkg/adapters/lifecycle"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Merge update files dropped into the watch directory",
	Long: `Watch the configured directory and import every file matching the pattern
into the document, saving a snapshot after each successful merge.`,
	Run: func(cmd *cobra.Command, args []string) {
		s := mustSession()
		defer s.close()

		if err := os.MkdirAll(cfg.Watch.Dir, 0755); err != nil {
			fatal("Failed to create watch dir", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		w := fs.NewWatcher(fs.WatcherConfig{
			Dir:      cfg.Watch.Dir,
			Pattern:  cfg.Watch.Pattern,
			Target:   s.doc,
			Debounce: watchDebounce,
			Logger:   slog.Default(),
		})
		if err := w.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}

		src := lifecycle.NewSource(w.Events())
		if err := src.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		fmt.Printf("Watching %s for %s (Ctrl+C to stop)\n", cfg.Watch.Dir, cfg.Watch.Pattern)
		for e := range src.Events() {
			fmt.Println(e.String())
			if err := s.save(); err != nil {
				slog.Error("save failed", "error", err)
			}
		}

		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.Stop(stopCtx); err != nil {
			slog.Warn("watcher stop", "error", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 100*time.Millisecond, "Quiet period before a changed file is read")
}
