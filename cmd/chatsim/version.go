package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/chatsim"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of chatsim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "chatsim version %s\n", strings.TrimSpace(chatsim.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
