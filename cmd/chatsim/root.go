package main

import (
	"fmt"
	"os"
	"time"

	"github.com/aretw0/chatsim/internal/config"
	"github.com/spf13/cobra"
)

// cfg is loaded from the environment before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "chatsim",
	Short: "chatsim simulates button-driven chatbot flows",
	Long: `chatsim loads a chat flow (a JSON/YAML flow file or a directory of node documents)
and plays it like a chat client would: rendering sections, pressing buttons and
recording the transcript.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return applyFlags(cmd)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("flow", ".", "Flow file (.json, .yaml) or directory of node documents")
	flags.String("log-level", "", "Log level: debug, info, warn, error (env CHATSIM_LOG_LEVEL)")
	flags.String("redis-addr", "", "Store sessions in Redis at this address (env CHATSIM_REDIS_ADDR)")
	flags.String("session-dir", "", "Store sessions as JSON files in this directory (env CHATSIM_SESSION_DIR)")
	flags.String("otp", "", "Fixed one-time passcode (env CHATSIM_OTP)")
	flags.String("entry", "", "Node new sessions start at (env CHATSIM_ENTRY_NODE)")
	flags.String("timezone", "", "IANA zone for date and time pickers (env CHATSIM_TIMEZONE)")
	flags.Duration("fetch-timeout", 0, "Timeout of FetchChatFlow requests (env CHATSIM_FETCH_TIMEOUT)")
}

// applyFlags overrides the environment with the flags set on the command line.
func applyFlags(cmd *cobra.Command) error {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	str("log-level", &cfg.LogLevel)
	str("redis-addr", &cfg.RedisAddr)
	str("session-dir", &cfg.SessionDir)
	str("otp", &cfg.OTP)
	str("entry", &cfg.EntryNode)
	str("timezone", &cfg.Timezone)

	if flags.Changed("fetch-timeout") {
		d, _ := flags.GetDuration("fetch-timeout")
		if d <= time.Duration(0) {
			return fmt.Errorf("--fetch-timeout must be positive, got %s", d)
		}
		cfg.FetchTimeout = d
	}
	return nil
}

// flowPath returns the first positional argument when --flow was not given.
func flowPath(cmd *cobra.Command, args []string) string {
	path, _ := cmd.Flags().GetString("flow")
	if !cmd.Flags().Changed("flow") && len(args) > 0 {
		path = args[0]
	}
	return path
}
