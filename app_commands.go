package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/quantworks/cerebro/service/storage"
	"github.com/quantworks/cerebro/shared/trends"
)

func runStorageCommand(cmd string, args []string) error {
	switch cmd {
	case "db":
		return runDBCommand(args)
	case "history":
		return runHistoryCommand(args)
	default:
		return fmt.Errorf("unsupported command: %s", cmd)
	}
}

func runDBCommand(args []string) error {
	fs := pflag.NewFlagSet("db", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	olderThan := fs.Int("older-than", 30, "Purge runs older than N days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: cerebro db <vacuum|reindex|purge> [--db-path ...]")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "vacuum":
		return store.Vacuum(context.Background())
	case "reindex":
		return store.Reindex(context.Background())
	case "purge":
		count, err := store.PurgeOlderThan(context.Background(), *olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d runs\n", count)
		return nil
	default:
		return fmt.Errorf("unsupported db command: %s", sub)
	}
}

func runHistoryCommand(args []string) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath := fs.String("db-path", "", "SQLite database path")
	strategy := fs.String("strategy", "", "Strategy name filter")
	limit := fs.Int("limit", 20, "Number of rows to list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: cerebro history <list|show>")
	}

	store, err := storage.NewService(*dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "list":
		runs, err := store.GetRecentRuns(*strategy, *limit)
		if err != nil {
			return err
		}
		trends.RenderHistoryTable(runs)
		return nil
	case "show":
		if len(rest) < 2 {
			return fmt.Errorf("usage: cerebro history show <run-id>")
		}
		runID, err := strconv.ParseInt(rest[1], 10, 64)
		if err != nil {
			return err
		}
		r, err := store.GetRun(runID)
		if err != nil {
			return err
		}
		fmt.Printf("Run %d (%s)\n", r.RunID, r.RunUUID)
		fmt.Printf("  %s on %s at %s\n", r.Strategy, r.DataName, r.Timestamp)
		if r.Params != "" {
			fmt.Printf("  params: %s\n", r.Params)
		}
		fmt.Printf("  start cash %.2f -> end value %.2f (%.2f%%)\n", r.StartCash, r.EndValue, r.PnLPct)
		fmt.Printf("  trades %d, win rate %.1f%%, sharpe %.2f, max drawdown %.2f%%\n",
			r.TotalTrades, r.WinRate, r.Sharpe, r.MaxDrawdown)

		tradeRows, err := store.ListTrades(runID)
		if err != nil {
			return err
		}
		for _, tr := range tradeRows {
			fmt.Printf("  %s -> %s\tsize %.0f\t%.2f -> %.2f\tpnl %.2f\n",
				tr.EntryTime, tr.ExitTime, tr.Size, tr.EntryPrice, tr.ExitPrice, tr.PnLComm)
		}
		return nil
	default:
		return fmt.Errorf("unsupported history command: %s", sub)
	}
}
