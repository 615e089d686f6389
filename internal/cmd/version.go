package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mercurychat/mercury-cli/internal/update"
)

// version is set at build time via ldflags
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "mercury-cli version %s\n", version)

			if version == "dev" || version == "" {
				return
			}
			rel, err := update.Latest(cmd.Context())
			if err != nil {
				slog.Debug("release check failed", "error", err)
				return
			}
			if !rel.Newer(version) {
				return
			}
			errOut := cmd.ErrOrStderr()
			_, _ = fmt.Fprintf(errOut, "\nUpdate available: %s -> %s\n", version, rel.Version)
			if rel.URL != "" {
				_, _ = fmt.Fprintf(errOut, "Download: %s\n", rel.URL)
			}
		},
	}
}
