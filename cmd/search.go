package cmd

import (
	"fmt"
	"strings"

	"github.com/brogergvhs/mangafox/internal/config"

	"github.com/spf13/cobra"
)

func init() {
	searchCmd := &cobra.Command{
		Use:   "search <name>",
		Short: "Search the catalog for comics whose title contains name",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSearch,
	}

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	sess, err := newSession(config.Options{})
	if err != nil {
		return err
	}

	results, err := sess.site.Search(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No results found")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(out, "name: %s\nurl: %s\n\n", r.Name, r.URL)
	}

	return nil
}
