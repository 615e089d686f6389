package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mercurychat/mercury-cli/internal/callstate"
	"github.com/mercurychat/mercury-cli/internal/outfmt"
)

// callsStatus is the json payload for "calls status".
type callsStatus struct {
	InCall  bool            `json:"in_call"`
	Active  *callstate.Call `json:"active,omitempty"`
	Ringing *callstate.Call `json:"ringing,omitempty"`
}

func newCallsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calls",
		Short: "Inspect the app's calling state",
	}
	cmd.AddCommand(newCallsStatusCmd())
	return cmd
}

func newCallsStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current and ringing calls",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, _, err := loadSnapshot(cmd.Context())
			if err != nil {
				return err
			}

			status := callsStatus{InCall: callstate.IsInCall(snap.Calls)}
			if active, ok := callstate.ActiveCall(snap.Calls); ok {
				status.Active = &active
			}
			if ringing, ok := callstate.RingingCall(snap.Calls); ok {
				status.Ringing = &ringing
			}

			if outfmt.IsJSON(cmd.Context()) || flags.JQ != "" {
				return writeStructured(cmd, status, []any{status})
			}

			w := cmd.OutOrStdout()
			if status.Active != nil {
				_, _ = fmt.Fprintf(w, "In a %s call (conversation %s)\n", status.Active.Mode, status.Active.ConversationID)
			} else {
				_, _ = fmt.Fprintln(w, "Not in a call")
			}
			if status.Ringing != nil {
				_, _ = fmt.Fprintf(w, "Incoming %s call ringing (conversation %s)\n", status.Ringing.Mode, status.Ringing.ConversationID)
			}
			return nil
		},
	}
}
