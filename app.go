// Package main is the entry point for the cerebro application.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/flag"
	"github.com/quantworks/cerebro/service/profile"
	"github.com/quantworks/cerebro/service/storage"
	"github.com/quantworks/cerebro/service/strategy"
	"github.com/quantworks/cerebro/shared/banner"
	"github.com/quantworks/cerebro/shared/trends"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "db", "history":
			return runStorageCommand(os.Args[1], os.Args[2:])
		}
	}

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	versionInfo := model.VersionInfo{Version: version, Commit: commit, Date: date}

	if flags.Version {
		return printVersion(flags, versionInfo)
	}

	if flags.ListStrategies {
		for _, name := range strategy.Names() {
			fmt.Println(name)
		}
		return nil
	}

	profileService := profile.NewService()
	prof, err := profileService.Load(flags.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: profile unavailable: %v\n", err)
	}
	profileService.Apply(prof, &flags, flagService.Changed)

	logger := zap.NewNop()
	if flags.Verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck
	}

	if flags.Trends || flags.Compare {
		storageService, err := storage.NewService(flags.DBPath)
		if err != nil {
			return fmt.Errorf("failed to initialize storage: %w", err)
		}
		defer storageService.Close()
		// --strategy has a default, filter only when set explicitly
		strategyFilter := ""
		if flagService.Changed("strategy") {
			strategyFilter = flags.Strategy
		}
		return runTrendWorkflow(storageService, flags, strategyFilter)
	}

	if strings.TrimSpace(flags.Data) == "" {
		return fmt.Errorf("--data is required, see --help")
	}

	if flags.Output != "json" {
		banner.DrawBannerTitle()
	}

	if flags.Optimize {
		return runOptimizeWorkflow(flags, logger)
	}
	return runBacktestWorkflow(flags, versionInfo, logger)
}

func printVersion(flags model.Flags, info model.VersionInfo) error {
	if flags.Output == "json" {
		b, err := json.MarshalIndent(map[string]string{
			"version": info.Version,
			"commit":  info.Commit,
			"date":    info.Date,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(b))
		return nil
	}
	fmt.Printf("cerebro %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
	return nil
}

func runTrendWorkflow(store storage.Service, flags model.Flags, strategyFilter string) error {
	if flags.Trends {
		points, err := store.GetTrends(strategyFilter, flags.TrendDays)
		if err != nil {
			return err
		}
		trends.RenderTrendTable(points)
	}

	if flags.Compare {
		runs, err := store.GetRecentRuns(strategyFilter, 2)
		if err != nil {
			return err
		}
		if len(runs) < 2 {
			return fmt.Errorf("--compare needs at least two stored runs")
		}
		cmp, err := store.GetRunComparison(runs[1].RunID, runs[0].RunID)
		if err != nil {
			return err
		}
		trends.RenderComparisonTable(cmp)
	}

	return nil
}
