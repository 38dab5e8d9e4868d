package main

import (
	"encoding/json"
	"fmt"

	"github.com/aretw0/chatsim"
	"github.com/aretw0/chatsim/internal/presentation/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph [flow]",
	Short: "Export the flow graph visualization",
	Long:  `Inspects the flow and outputs a Mermaid diagram (graph TD) of its nodes, buttons and carousel cards.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		opts := []chatsim.Option{}
		if cfg.EntryNode != "" {
			opts = append(opts, chatsim.WithEntryNode(cfg.EntryNode))
		}
		engine, err := chatsim.New(flowPath(cmd, args), opts...)
		if err != nil {
			return fmt.Errorf("error initializing engine: %w", err)
		}
		nodes, err := engine.Inspect()
		if err != nil {
			return fmt.Errorf("error inspecting graph: %w", err)
		}

		out := cmd.OutOrStdout()
		switch format {
		case "mermaid":
			entry, _ := engine.EntryNode()
			fmt.Fprint(out, graph.GenerateMermaid(nodes, entry, nil))
		case "json":
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(nodes)
		default:
			return fmt.Errorf("unknown format %q, supported: mermaid, json", format)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("format", "mermaid", "Output format: mermaid or json")
}
