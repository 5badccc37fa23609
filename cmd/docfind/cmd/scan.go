package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/docfind/docfind/internal/config"
	"github.com/docfind/docfind/internal/session"
	"github.com/docfind/docfind/internal/ui"
)

func newScanCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Index the documents under a directory",
		Long: `Scan walks the given directory (default: current directory),
processes every Word and PDF document, and reports what was indexed.
Results are cached, so unchanged files cost almost nothing on the
next scan.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			return runScan(cmd.Context(), root, workers)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Worker pool size (default: computed from CPU count)")
	return cmd
}

func runScan(ctx context.Context, root string, workers int) error {
	w := ui.NewWriter(os.Stdout, ui.GetStyles(noColor))

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}
	if workers > 0 {
		cfg.Scan.Workers = workers
	}

	sess, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	// Render progress while the scan runs.
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				w.Progress(sess.Progress())
			}
		}
	}()

	stats, err := sess.Scan(ctx, root)
	close(done)
	if err != nil {
		w.Errorf("Scan failed: %v", err)
		return err
	}

	w.Progress(sess.Progress())
	w.ScanSummary(stats.Documents, stats.Failed, stats.Terms, stats.Elapsed)
	return nil
}
