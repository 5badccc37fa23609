package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docfind/docfind/internal/config"
	"github.com/docfind/docfind/internal/search"
	"github.com/docfind/docfind/internal/session"
	"github.com/docfind/docfind/internal/ui"
)

func newSearchCmd() *cobra.Command {
	var (
		root     string
		limit    int
		snippets bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>...",
		Short: "Search the indexed documents",
		Long: `Search indexes the documents under --path (cached scans make this
fast) and ranks them against the query. Keywords that match no indexed
term are expanded to close spellings at a reduced weight.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd.Context(), root, query, limit, snippets)
		},
	}

	cmd.Flags().StringVar(&root, "path", ".", "Directory to search")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum results to show")
	cmd.Flags().BoolVar(&snippets, "snippets", true, "Show a content excerpt per result")
	return cmd
}

func runSearch(ctx context.Context, root, query string, limit int, withSnippets bool) error {
	w := ui.NewWriter(os.Stdout, ui.GetStyles(noColor))

	cfg, err := config.Load(root)
	if err != nil {
		return err
	}

	sess, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer sess.Close()

	if _, err := sess.Scan(ctx, root); err != nil {
		w.Errorf("Scan failed: %v", err)
		return err
	}

	results := sess.Search(query)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	snippets := map[int]string{}
	if withSnippets {
		for _, r := range results {
			snippets[r.DocID] = search.Snippet(r.Content, r.Matches)
		}
	}

	w.Results(results, snippets)
	return nil
}
