package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mercurychat/mercury-cli/internal/config"
	"github.com/mercurychat/mercury-cli/internal/outfmt"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the connection profile",
	}
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigClearCmd())
	return cmd
}

func newConfigSetCmd() *cobra.Command {
	var (
		addr   string
		region string
		locale string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store connection details in the OS keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				profile.Addr = addr
			}
			if cmd.Flags().Changed("region") {
				profile.Region = region
			}
			if cmd.Flags().Changed("locale") {
				profile.Locale = locale
			}
			if err := saveProfile(profile); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Profile saved.")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "App snapshot address (host:port)")
	cmd.Flags().StringVar(&region, "region", "", "Default phone region (e.g. US, SE)")
	cmd.Flags().StringVar(&locale, "locale", "", "Locale tag for title sorting (e.g. sv, en-GB)")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile()
			if err != nil {
				return err
			}
			if outfmt.IsJSON(cmd.Context()) || flags.JQ != "" {
				return writeStructured(cmd, profile, []any{profile})
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "addr:   %s\n", profile.Addr)
			_, _ = fmt.Fprintf(w, "region: %s\n", orUnset(profile.Region))
			_, _ = fmt.Fprintf(w, "locale: %s\n", orUnset(profile.Locale))
			return nil
		},
	}
}

func newConfigClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the stored profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deleteProfile(); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Profile removed.")
			return nil
		},
	}
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

// Test seams.
var (
	saveProfile   = config.Save
	deleteProfile = config.Delete
)
