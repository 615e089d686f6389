package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mercurychat/mercury-cli/internal/model"
	"github.com/mercurychat/mercury-cli/internal/outfmt"
	"github.com/mercurychat/mercury-cli/internal/rank"
)

// searchResult is one ranked conversation in command output.
type searchResult struct {
	model.Conversation
	Score *float64 `json:"score,omitempty"` // lower = better; absent for exact/command matches
}

// searchOutput is the full payload for json output.
type searchOutput struct {
	Query   string         `json:"query"`
	Sort    string         `json:"sort"`
	Region  string         `json:"region,omitempty"`
	Locale  string         `json:"locale,omitempty"`
	Results []searchResult `json:"results"`
}

func newSearchCmd() *cobra.Command {
	var (
		by     string
		region string
		locale string
		limit  int
	)

	cmd := &cobra.Command{
		Use:     "search [query]",
		Aliases: []string{"find", "s"},
		Short:   "Search and rank conversations the way the picker does",
		Long: `Search the conversation list with the picker's ranking.

With an empty query every conversation is returned, just reordered. Queries
of the form "!idEndsWith:123" (also serviceIdEndsWith, e164EndsWith,
groupIdEndsWith) run an exact suffix filter instead of fuzzy search. A query
that parses as a phone number for the region also matches by normalized
number.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) == 1 {
				query = args[0]
			}
			if by != "recent" && by != "title" {
				return fmt.Errorf("invalid --by %q (use 'recent' or 'title')", by)
			}

			snap, profile, err := loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}
			if region == "" {
				region = profile.Region
			}
			if locale == "" {
				locale = profile.Locale
			}

			var results []rank.Result
			if by == "title" {
				results = rank.ByTitle(snap.Conversations, query, region, locale)
			} else {
				results = rank.ByRecency(snap.Conversations, query, region)
			}
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			out := searchOutput{
				Query:   query,
				Sort:    by,
				Region:  region,
				Locale:  locale,
				Results: make([]searchResult, len(results)),
			}
			items := make([]any, len(results))
			for i, r := range results {
				out.Results[i] = searchResult{Conversation: r.Conversation, Score: r.Score}
				items[i] = out.Results[i]
			}

			if outfmt.IsJSON(cmd.Context()) || flags.JQ != "" {
				return writeStructured(cmd, out, items)
			}

			w := cmd.OutOrStdout()
			if len(out.Results) == 0 {
				_, _ = fmt.Fprintln(w, "No conversations matched.")
				return nil
			}
			for i, r := range out.Results {
				line := fmt.Sprintf("%2d. %s", i+1, r.Title)
				if r.Conversation.ActiveAt > 0 {
					line += fmt.Sprintf("  (%s)", formatAge(r.Conversation.ActiveAt))
				}
				if r.Score != nil {
					line += fmt.Sprintf("  score=%.3f", *r.Score)
				}
				_, _ = fmt.Fprintln(w, line)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "recent", "Ranking mode: recent|title")
	cmd.Flags().StringVar(&region, "region", "", "Phone region for number queries (default from profile)")
	cmd.Flags().StringVar(&locale, "locale", "", "BCP 47 tag for title ordering (default from profile)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results (0 = no limit)")
	return cmd
}
