package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mercurychat/mercury-cli/internal/outfmt"
	"github.com/mercurychat/mercury-cli/internal/rank"
)

func newConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv", "c"},
		Short:   "Work with the conversation list snapshot",
	}
	cmd.AddCommand(newConversationsListCmd())
	return cmd
}

func newConversationsListCmd() *cobra.Command {
	var sortBy string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List every conversation in default picker order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortBy != "recent" && sortBy != "title" {
				return fmt.Errorf("invalid --sort %q (use 'recent' or 'title')", sortBy)
			}

			snap, profile, err := loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			// Empty query: the default sorters, nothing filtered.
			var results []rank.Result
			if sortBy == "title" {
				results = rank.ByTitle(snap.Conversations, "", profile.Region, profile.Locale)
			} else {
				results = rank.ByRecency(snap.Conversations, "", profile.Region)
			}
			conversations := rank.Conversations(results)

			if outfmt.IsJSON(cmd.Context()) || flags.JQ != "" {
				items := make([]any, len(conversations))
				for i, c := range conversations {
					items[i] = c
				}
				return writeStructured(cmd, conversations, items)
			}

			w := cmd.OutOrStdout()
			for _, c := range conversations {
				_, _ = fmt.Fprintf(w, "%-30s  %s\n", c.Title, formatAge(c.ActiveAt))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sortBy, "sort", "recent", "Order: recent|title")
	return cmd
}
