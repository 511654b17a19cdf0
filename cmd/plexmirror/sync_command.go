package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"plexmirror/internal/images"
	"plexmirror/internal/notifications"
	"plexmirror/internal/services"
	"plexmirror/internal/services/plex"
	"plexmirror/internal/store"
	syncengine "plexmirror/internal/sync"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var (
		parallel   bool
		noParallel bool
		noImages   bool
		rebuildDB  bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Mirror the configured libraries into the local catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if parallel {
				cfg.Sync.Parallel = true
			}
			if noParallel {
				cfg.Sync.Parallel = false
			}
			if noImages {
				cfg.Sync.DownloadImages = false
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			// One writer per database. A second invocation exits
			// instead of interleaving with the running sync.
			lock := flock.New(cfg.Paths.DatabasePath + ".lock")
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire sync lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another sync is already running against %s", cfg.Paths.DatabasePath)
			}
			defer lock.Unlock()

			if rebuildDB {
				logger.Warn("rebuilding database, all mirrored data will be refetched")
				if err := store.Destroy(cfg.Paths.DatabasePath); err != nil {
					return fmt.Errorf("rebuild database: %w", err)
				}
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			st, err := store.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer st.Close()

			client := plex.NewHTTPClient(cfg.Plex.URL, cfg.Plex.Token,
				time.Duration(cfg.Plex.RequestTimeout)*time.Second, nil)
			retry := services.RetryPolicy{
				Attempts: cfg.Sync.RetryAttempts,
				Backoff:  time.Duration(cfg.Sync.RetryBackoff) * time.Second,
			}
			pipeline := images.New(client, images.JPEGNormalizer{}, retry, cfg.Sync.ImageWorkers, logger)
			engine := syncengine.New(cfg, client, st, pipeline, logger)

			notifier := notifications.NewService(cfg)
			if err := notifier.NotifySyncStarted(runCtx, cfg.Plex.Libraries); err != nil {
				logger.Warn("start notification failed", "error", err)
			}

			summary, runErr := engine.Run(runCtx)
			if runErr != nil {
				if err := notifier.NotifyError(runCtx, runErr, "sync"); err != nil {
					logger.Warn("error notification failed", "error", err)
				}
				return runErr
			}
			if err := notifier.NotifySyncCompleted(runCtx,
				summary.Items(), summary.Removed(), summary.Failed(), summary.Duration); err != nil {
				logger.Warn("completion notification failed", "error", err)
			}

			printSummary(cmd, summary)
			if failed := summary.Failed(); failed > 0 {
				return fmt.Errorf("%d of %d libraries failed", failed, len(summary.Libraries))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&parallel, "parallel", false, "Download thumbnails through the worker pool")
	cmd.Flags().BoolVar(&noParallel, "no-parallel", false, "Download thumbnails one at a time and skip unchanged ones")
	cmd.Flags().BoolVar(&noImages, "no-images", false, "Skip thumbnail downloads")
	cmd.Flags().BoolVar(&rebuildDB, "rebuild-db", false, "Drop and recreate the database before syncing")
	return cmd
}

func printSummary(cmd *cobra.Command, summary syncengine.Summary) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(summary.Libraries))
	for _, lib := range summary.Libraries {
		status := "ok"
		if lib.Err != nil {
			status = "failed: " + lib.Err.Error()
		}
		rows = append(rows, []string{
			lib.Library,
			lib.Type,
			strconv.Itoa(lib.Items),
			strconv.FormatInt(lib.Removed, 10),
			strconv.Itoa(lib.Images.Downloaded),
			strconv.Itoa(lib.Images.Failed),
			status,
		})
	}

	fmt.Fprintln(out, renderTable(out,
		[]string{"Library", "Type", "Items", "Removed", "Images", "Img Failed", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft}))
	fmt.Fprintf(out, "Run %s finished in %s: %d items, %d removed\n",
		summary.RunID, summary.Duration.Round(time.Millisecond), summary.Items(), summary.Removed())
}
