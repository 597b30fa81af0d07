package cmd

import (
	"fmt"
	"slices"

	"github.com/brogergvhs/mangafox/internal/config"

	"github.com/spf13/cobra"
)

var flagNewestFirst bool

func init() {
	listCmd := &cobra.Command{
		Use:   "list <comic-url>",
		Short: "List the chapters of a comic with their selection indices",
		Args:  cobra.ExactArgs(1),
		RunE:  runList,
	}

	listCmd.Flags().BoolVar(&flagNewestFirst, "newest-first", false, "print the newest chapter first")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	sess, err := newSession(config.Options{})
	if err != nil {
		return err
	}

	all, err := sess.chapters(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if flagNewestFirst {
		slices.Reverse(all)
	}

	out := cmd.OutOrStdout()
	for _, c := range all {
		fmt.Fprintf(out, "%s : %s\n", c.Label(), c.Name)
	}

	return nil
}
