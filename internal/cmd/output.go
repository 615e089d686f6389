package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mercurychat/mercury-cli/internal/filter"
	"github.com/mercurychat/mercury-cli/internal/outfmt"
)

// writeStructured emits v according to the output mode in context, applying
// the global --jq filter first when one is set. items is the per-line view
// used for jsonl output.
func writeStructured(cmd *cobra.Command, v any, items []any) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if flags.JQ != "" {
		filtered, err := filter.ApplyToValue(v, flags.JQ)
		if err != nil {
			return err
		}
		return outfmt.WriteJSON(out, filtered)
	}
	if outfmt.IsJSONL(ctx) {
		return outfmt.WriteJSONL(out, items)
	}
	return outfmt.WriteJSON(out, v)
}

// formatAge renders activity age for text output.
func formatAge(activeAt int64) string {
	if activeAt == 0 {
		return "never"
	}
	d := time.Since(time.UnixMilli(activeAt))
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
