package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/karmawatch/karmawatch/internal/bodhi"
	"github.com/karmawatch/karmawatch/internal/common/config"
	"github.com/karmawatch/karmawatch/internal/common/logger"
	"github.com/karmawatch/karmawatch/internal/common/output"
	"github.com/karmawatch/karmawatch/internal/filter"
	"github.com/karmawatch/karmawatch/internal/notify"
	"github.com/karmawatch/karmawatch/internal/rpm"
)

// runRoot executes one pass: load config, query the local package database,
// fetch the testing feed, filter, notify. Config and source failures are
// fatal; everything after the filter affects at most single items.
func runRoot(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	querier := rpm.NewDNFRunner()

	release := cfg.Release
	if release == "" {
		release, err = querier.Release()
		if err != nil {
			logger.Error("%v", err)
			os.Exit(1)
		}
	}
	logger.Debug("checking testing updates for %s as %s", release, cfg.Username)

	installed, warnings, err := querier.Installed()
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	for _, w := range warnings {
		logger.Warn("%s", w)
	}
	logger.Debug("%d installed source packages", len(installed))

	candidates, err := bodhi.NewClient().QueryTesting(release)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
	logger.Debug("%d candidate updates in testing", len(candidates))

	result := filter.Run(installed, candidates, filter.Identity{
		Username:  cfg.Username,
		Interests: cfg.Interests,
	})
	for _, s := range result.Skipped {
		logger.Warn("skipping malformed record: %s", s)
	}

	if len(result.Matches) == 0 {
		logger.Info("no updates are waiting for feedback")
		return
	}

	if dryRun {
		printMatches(result.Matches)
		return
	}

	deliver(cmd, cfg, result.Matches)
}

// loadConfig loads from the explicit --config path if given, otherwise from
// the standard search path
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// deliver sends one notification per match and keeps listening for clicks.
// Delivery problems are logged per item and never change the exit code.
func deliver(cmd *cobra.Command, cfg *config.Config, matches []filter.Match) {
	notifier, err := notify.New()
	if err != nil {
		logger.Warn("%v; printing instead", err)
		printMatches(matches)
		return
	}
	defer notifier.Close()

	sent := 0
	for _, m := range matches {
		if err := notifier.Send(m); err != nil {
			logger.Warn("notification for %s failed: %v", m.Update.Alias, err)
			continue
		}
		sent++
	}
	logger.Info("%d of %d notifications sent", sent, len(matches))

	waitDur := wait
	if cfg.WaitSeconds > 0 && !cmd.Flags().Changed("wait") {
		waitDur = time.Duration(cfg.WaitSeconds) * time.Second
	}
	notifier.WaitActions(waitDur)
}

// printMatches lists the actionable updates on stdout
func printMatches(matches []filter.Match) {
	output.PrintInfo("%d updates are waiting for feedback", len(matches))
	for _, m := range matches {
		names := make([]string, len(m.Packages))
		for i, name := range m.Packages {
			names[i] = output.FormatPackage(name)
		}
		fmt.Printf("  %s  %s\n", output.FormatUpdate(m.Update.Alias), strings.Join(names, ", "))
		fmt.Printf("    %s\n", output.Dim.Sprint(m.Update.URL))
	}
}
