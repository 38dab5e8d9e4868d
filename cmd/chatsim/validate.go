package main

import (
	"fmt"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/compiler"
	"github.com/aretw0/chatsim/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flow]",
	Short: "Check the flow for broken links",
	Long: `Crawls the flow from its entry node and reports buttons pointing at missing
nodes and nodes no path reaches. Targets of FetchChatFlow buttons live in the
remote flow and are not checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []chatsim.Option{}
		if cfg.EntryNode != "" {
			opts = append(opts, chatsim.WithEntryNode(cfg.EntryNode))
		}
		eng, err := chatsim.New(flowPath(cmd, args), opts...)
		if err != nil {
			return fmt.Errorf("failed to init engine: %w", err)
		}
		entry, err := eng.EntryNode()
		if err != nil {
			return err
		}

		report, err := validator.Crawl(eng.Loader(), compiler.NewParser(), entry)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, id := range report.Unreachable {
			fmt.Fprintf(out, "warning: node %q is unreachable from %q\n", id, entry)
		}
		if err := report.Err(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(out, "Flow is valid: %d nodes reachable from %q.\n", len(report.Visited), entry)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
