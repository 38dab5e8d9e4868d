package main

import (
	"github.com/aretw0/chatsim/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [flow]",
	Short: "Chat through a flow in the terminal",
	Long: `Starts a chat session and reads button presses from the terminal.
Type a button number, id or name (followed by a value for input buttons),
cN for carousel card N, or exit to leave.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		opts := cli.RunOptions{
			FlowPath: flowPath(cmd, args),
			Config:   cfg,
			In:       cmd.InOrStdin(),
			Out:      cmd.OutOrStdout(),
		}
		opts.SessionID, _ = flags.GetString("session")
		opts.JSON, _ = flags.GetBool("json")
		opts.Watch, _ = flags.GetBool("watch")
		opts.Fresh, _ = flags.GetBool("fresh")
		opts.Debug, _ = flags.GetBool("debug")
		opts.Confirm, _ = flags.GetBool("confirm")
		opts.Plain, _ = flags.GetBool("plain")
		return cli.Execute(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("session", "s", "", "Session id. Sessions with an id are kept on disk and resumed")
	runCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON frames out, one command per line in)")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the flow when its files change")
	runCmd.Flags().Bool("fresh", false, "Discard the saved session before starting")
	runCmd.Flags().Bool("debug", false, "Enable debug logging")
	runCmd.Flags().Bool("confirm", false, "Ask before following links and fetching remote flows")
	runCmd.Flags().Bool("plain", false, "Disable Markdown rendering and form dialogs")

	rootCmd.RunE = runCmd.RunE
	rootCmd.Args = runCmd.Args
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
