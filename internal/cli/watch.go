package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/assetq/internal/logger"
)

// watchDebounce coalesces the burst of events one save produces.
const watchDebounce = 150 * time.Millisecond

func (a *app) newWatchCmd() *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "watch <assets|activity|certs>",
		Short: "Re-run a query whenever a snapshot file changes",
		Long: `Runs a query like "query" does, then runs it again every time one of the
snapshot files is written or replaced. Stops on interrupt.`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: surfaces,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := f.resolve(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(a.commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Close()

			files := make([]string, 0, len(f.files))
			dirs := make(map[string]bool)
			for _, p := range f.files {
				abs, err := filepath.Abs(p)
				if err != nil {
					return err
				}
				files = append(files, abs)
				// Editors and exporters replace files by rename, so watch the directory.
				if dir := filepath.Dir(abs); !dirs[dir] {
					if err := w.Add(dir); err != nil {
						return fmt.Errorf("watch %s: %w", dir, err)
					}
					dirs[dir] = true
				}
			}

			run := func() {
				listing, err := a.run(ctx, args[0], f.files, q)
				if err != nil {
					cmd.PrintErrln("query failed:", err)
					return
				}
				if err := a.render(cmd.OutOrStdout(), args[0], listing); err != nil {
					cmd.PrintErrln("render failed:", err)
				}
			}
			run()
			return watchLoop(ctx, w.Events, w.Errors, files, watchDebounce, run)
		},
	}
	f.register(cmd)
	return cmd
}

// watchLoop calls run once per burst of writes to any of files, until ctx is done or the
// event channel closes.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	files []string,
	debounce time.Duration,
	run func(),
) error {
	watched := make(map[string]bool, len(files))
	for _, f := range files {
		watched[filepath.Clean(f)] = true
	}
	log := logpkg.FromContext(ctx)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !watched[filepath.Clean(ev.Name)] || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Debug("Snapshot file changed", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			run()
		case err, ok := <-errs:
			if !ok {
				return nil
			}
			log.Warn("Watcher error", zap.Error(err))
		}
	}
}
