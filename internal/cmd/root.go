// Package cmd implements the mercury CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mercurychat/mercury-cli/internal/debug"
	"github.com/mercurychat/mercury-cli/internal/iocontext"
	"github.com/mercurychat/mercury-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output string
	JSON   bool
	Debug  bool
	Quiet  bool
	JQ     string
}

// flags holds the global command flags. This is package-level mutable state
// that is reset at the start of every Execute() call; tests depend on that
// reset for isolation.
var flags = rootFlags{
	Output: defaultOutput(),
}

func defaultOutput() string {
	value := strings.TrimSpace(os.Getenv("MERCURY_OUTPUT"))
	if value != "" {
		return normalizeOutputFormat(value)
	}
	return "text"
}

func normalizeOutputFormat(value string) string {
	value = strings.TrimSpace(value)
	if value == "ndjson" {
		return "jsonl"
	}
	return value
}

// loadUserEnv loads environment variables from the user's mercury-cli .env
// if present. Variables already set in the environment are not overwritten,
// so explicit exports always take precedence.
func loadUserEnv() {
	dir, err := os.UserConfigDir()
	if err != nil {
		return
	}
	path := filepath.Join(dir, "mercury-cli", ".env")
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	loadUserEnv()

	// Reset flags to defaults for each execution; see the invariant comment
	// on the flags declaration above.
	flags = rootFlags{
		Output: defaultOutput(),
	}

	root := &cobra.Command{
		Use:           "mercury",
		Short:         "Companion CLI for the Mercury desktop messenger",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			flags.Output = normalizeOutputFormat(flags.Output)
			if flags.JSON {
				if cmd.Flags().Changed("output") && flags.Output != "json" {
					return fmt.Errorf("--json conflicts with --output %s", flags.Output)
				}
				flags.Output = "json"
			}
			// jq filtering only makes sense over structured output.
			if flags.JQ != "" && flags.Output != "json" && flags.Output != "jsonl" {
				if cmd.Flags().Changed("output") {
					return fmt.Errorf("--jq requires --output json or jsonl (or --json)")
				}
				flags.Output = "json"
			}

			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			ctx = outfmt.WithMode(ctx, mode)

			ioStreams := iocontext.DefaultIO()
			if flags.Quiet {
				ioStreams.ErrOut = io.Discard
			}
			ctx = iocontext.WithIO(ctx, ioStreams)
			cmd.SetOut(ioStreams.Out)
			cmd.SetErr(ioStreams.ErrOut)

			debug.SetupLogger(flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	root.PersistentFlags().StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl|ndjson (env MERCURY_OUTPUT)")
	root.PersistentFlags().BoolVarP(&flags.JSON, "json", "j", false, "Shorthand for --output json")
	root.PersistentFlags().StringVar(&flags.JQ, "jq", "", "JQ expression to filter JSON output")
	root.PersistentFlags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVarP(&flags.Quiet, "quiet", "Q", false, "Suppress non-error output to stderr")

	root.AddCommand(newSearchCmd())
	root.AddCommand(newConversationsCmd())
	root.AddCommand(newCallsCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())

	return root.ExecuteContext(ctx)
}
