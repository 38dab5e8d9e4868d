package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/chatsim/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persistent sessions",
	Long: `List, inspect, and remove sessions kept in Redis (CHATSIM_REDIS_ADDR) or on
disk (CHATSIM_SESSION_DIR, default .chatsim/sessions).`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		ids, err := stack.Store.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing sessions: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintln(out, "No sessions found.")
			return nil
		}
		fmt.Fprintln(out, "Sessions:")
		for _, id := range ids {
			fmt.Fprintln(out, "- "+id)
		}
		return nil
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Print the state of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		state, err := stack.Store.Load(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("error loading session '%s': %w", args[0], err)
		}
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("error marshaling state: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		stack, err := openSessions(cmd)
		if err != nil {
			return err
		}
		defer stack.Close()

		var errs []error
		for _, id := range args {
			if err := stack.Store.Delete(cmd.Context(), id); err != nil {
				errs = append(errs, fmt.Errorf("error removing '%s': %w", id, err))
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed session '%s'\n", id)
		}
		return errors.Join(errs...)
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
}

// openSessions opens the persistent store. Loading goes through the store
// middleware so encrypted sessions are readable.
func openSessions(cmd *cobra.Command) (*cli.Stack, error) {
	return cli.OpenStore(cfg)
}
