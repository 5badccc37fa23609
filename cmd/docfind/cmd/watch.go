package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docfind/docfind/internal/config"
	"github.com/docfind/docfind/internal/session"
	"github.com/docfind/docfind/internal/ui"
	"github.com/docfind/docfind/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Index a directory and keep the index fresh",
		Long: `Watch scans the directory, then follows file system events and
folds new or changed documents into the index until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runWatch(cmd.Context(), root)
		},
	}
	return cmd
}

func runWatch(ctx context.Context, root string) error {
	w := ui.NewWriter(os.Stdout, ui.GetStyles(noColor))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	sess, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	stats, err := sess.Scan(ctx, root)
	if err != nil {
		w.Errorf("Initial scan failed: %v", err)
		return err
	}
	w.ScanSummary(stats.Documents, stats.Failed, stats.Terms, stats.Elapsed)

	tw, err := watcher.NewTreeWatcher(watcher.DefaultDebounceWindow)
	if err != nil {
		return err
	}
	defer tw.Stop()

	if err := tw.Start(ctx, root); err != nil {
		return err
	}
	w.Infof("Watching %s (press Ctrl-C to stop)", root)

	for {
		select {
		case <-ctx.Done():
			w.Infof("Stopped.")
			return nil

		case batch, ok := <-tw.Events():
			if !ok {
				return nil
			}
			for _, event := range batch {
				switch event.Operation {
				case watcher.OpCreate, watcher.OpModify:
					if err := sess.AddFile(ctx, event.Path); err != nil {
						w.Warningf("Skipped %s: %v", event.Path, err)
						continue
					}
					w.Successf("Indexed %s", event.Path)
				case watcher.OpDelete:
					// Deletions are picked up by the next full scan.
					w.Infof("Removed %s (rescan to drop it from results)", event.Path)
				}
			}
		}
	}
}
