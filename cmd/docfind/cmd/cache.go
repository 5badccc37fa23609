package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/docfind/docfind/internal/config"
	"github.com/docfind/docfind/internal/session"
	"github.com/docfind/docfind/internal/ui"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the document cache",
	}
	cmd.AddCommand(newCacheStatsCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

func newCacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *session.Session, w *ui.Writer) error {
				n, err := sess.CacheCount(ctx)
				if err != nil {
					return err
				}
				w.Infof("%d cached document(s)", n)
				return nil
			})
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withSession(cmd.Context(), func(ctx context.Context, sess *session.Session, w *ui.Writer) error {
				if err := sess.ClearCache(ctx); err != nil {
					return err
				}
				w.Successf("Cache cleared")
				return nil
			})
		},
	}
}

// withSession runs fn against a session built from the working
// directory's configuration.
func withSession(ctx context.Context, fn func(context.Context, *session.Session, *ui.Writer) error) error {
	w := ui.NewWriter(os.Stdout, ui.GetStyles(noColor))

	cfg, err := config.Load(".")
	if err != nil {
		return err
	}
	sess, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	return fn(ctx, sess, w)
}
