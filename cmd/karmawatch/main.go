package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/karmawatch/karmawatch/internal/common/logger"
	"github.com/karmawatch/karmawatch/internal/common/output"
)

var (
	verbose    bool
	quiet      bool
	noColor    bool
	configPath string
	dryRun     bool
	wait       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "karmawatch",
	Short: "Desktop notifications for testing updates awaiting your feedback",
	Long: `karmawatch checks the updates-testing feed for pending updates that cover
packages installed on this machine, filters out the ones you submitted or
already commented on, and raises one clickable desktop notification per
remaining update.

It is meant to be run from login autostart or a systemd user timer, not as
a daemon: each invocation is a single pass over the feed.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
	Run: runRoot,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print actionable updates instead of notifying")
	rootCmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "How long to keep listening for notification clicks")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
