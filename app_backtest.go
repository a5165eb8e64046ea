package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/analyzer"
	"github.com/quantworks/cerebro/service/broker"
	"github.com/quantworks/cerebro/service/engine"
	"github.com/quantworks/cerebro/service/feed"
	"github.com/quantworks/cerebro/service/observer"
	"github.com/quantworks/cerebro/service/optimizer"
	"github.com/quantworks/cerebro/service/output"
	"github.com/quantworks/cerebro/service/series"
	"github.com/quantworks/cerebro/service/storage"
	"github.com/quantworks/cerebro/service/strategy"
	"github.com/quantworks/cerebro/service/writer"
	"github.com/quantworks/cerebro/shared/spinner"
)

func runBacktestWorkflow(flags model.Flags, versionInfo model.VersionInfo, logger *zap.Logger) error {
	dataFeed, err := buildFeed(flags)
	if err != nil {
		return err
	}

	params, err := model.ParseParams(flags.Params)
	if err != nil {
		return fmt.Errorf("failed to parse strategy params: %w", err)
	}
	strat, err := strategy.Create(flags.Strategy, params)
	if err != nil {
		return err
	}
	sizer, err := strategy.NewSizer(flags.Sizer, flags.Stake, flags.Percent)
	if err != nil {
		return err
	}

	eng := engine.NewService(engine.Config{
		Cash:         flags.Cash,
		Scheme:       buildScheme(flags),
		Slippage:     broker.Slippage{Perc: flags.SlipPerc, Fixed: flags.SlipFixed},
		CheatOnClose: flags.CheatOnClose,
		Sizer:        sizer,
		Logger:       logger,
	})
	eng.AddFeed(dataFeed)
	eng.SetStrategy(flags.Strategy, strat)
	eng.SetParams(params)
	for _, a := range analyzer.Defaults() {
		eng.AddAnalyzer(a)
	}
	// the drawdown observer feeds an extra column in the equity export
	drawdownObs := observer.NewDrawDown()
	eng.AddObserver(drawdownObs)

	outputService := output.NewService(flags.Output)
	if flags.Output != "json" {
		spinner.StartSpinner(fmt.Sprintf("Backtesting %s on %s...", flags.Strategy, dataFeed.Name()))
	}

	result, err := eng.Run(context.Background())
	outputService.StopSpinner()
	if err != nil {
		return fmt.Errorf("backtest failed: %w", err)
	}

	if err := outputService.RenderRun(model.RenderRunInput{
		Result:     result,
		ShowTrades: true,
		Version:    versionInfo.Version,
	}); err != nil {
		return err
	}

	if err := exportArtifacts(flags, result, drawdownObs.Lines()...); err != nil {
		return err
	}

	if flags.Store {
		storeRun(flags, versionInfo, result)
	}
	return nil
}

func runOptimizeWorkflow(flags model.Flags, logger *zap.Logger) error {
	if len(flags.OptParams) == 0 {
		return fmt.Errorf("--optimize requires at least one --opt-param")
	}

	dataFeed, err := buildFeed(flags)
	if err != nil {
		return err
	}
	if err := dataFeed.Load(); err != nil {
		return err
	}
	bars := dataFeed.Bars()

	baseParams, err := model.ParseParams(flags.Params)
	if err != nil {
		return fmt.Errorf("failed to parse strategy params: %w", err)
	}

	grid := optimizer.NewGrid()
	for _, spec := range flags.OptParams {
		dim, err := optimizer.ParseDimension(spec)
		if err != nil {
			return err
		}
		if err := grid.Add(dim); err != nil {
			return err
		}
	}

	// every combination runs on its own engine over the shared bars
	runOne := func(ctx context.Context, p model.Params) (*model.RunResult, error) {
		params := baseParams.Clone()
		for k, v := range p {
			params[k] = v
		}
		strat, err := strategy.Create(flags.Strategy, params)
		if err != nil {
			return nil, err
		}
		sizer, err := strategy.NewSizer(flags.Sizer, flags.Stake, flags.Percent)
		if err != nil {
			return nil, err
		}
		eng := engine.NewService(engine.Config{
			Cash:         flags.Cash,
			Scheme:       buildScheme(flags),
			Slippage:     broker.Slippage{Perc: flags.SlipPerc, Fixed: flags.SlipFixed},
			CheatOnClose: flags.CheatOnClose,
			Sizer:        sizer,
		})
		eng.AddFeed(feed.NewMemory(dataFeed.Name(), bars))
		eng.SetStrategy(flags.Strategy, strat)
		eng.SetParams(params)
		for _, a := range analyzer.Defaults() {
			eng.AddAnalyzer(a)
		}
		return eng.Run(ctx)
	}

	outputService := output.NewService(flags.Output)
	if flags.Output != "json" {
		spinner.StartSpinner(fmt.Sprintf("Optimizing %s over %d combinations...", flags.Strategy, grid.Count()))
	}

	optService := optimizer.NewService(optimizer.Config{MaxWorkers: flags.MaxCPU, Logger: logger})
	results, err := optService.Run(context.Background(), grid, runOne)
	outputService.StopSpinner()
	if err != nil {
		return fmt.Errorf("optimization failed: %w", err)
	}

	summary := optimizer.Summarize(results)
	top := optimizer.TopN(results, flags.SortBy, flags.Top)

	if err := outputService.RenderOpt(model.RenderOptInput{
		Strategy: flags.Strategy,
		DataName: dataFeed.Name(),
		SortBy:   flags.SortBy,
		Total:    summary.Total,
		Failed:   summary.Failed,
		Results:  top,
	}); err != nil {
		return err
	}

	for _, dim := range grid.Dimensions() {
		outputService.RenderSensitivity(dim.Name, optimizer.Sensitivity(results, dim.Name))
	}
	return nil
}

// buildFeed assembles the bar source from the CSV flags. Resampling and
// session filtering work on the loaded bars, so a transformed stream is
// rewrapped as a memory feed.
func buildFeed(flags model.Flags) (feed.Feed, error) {
	opts := feed.PresetOptions(flags.Format)
	if flags.DateFormat != "" {
		opts.DateFormat = flags.DateFormat
	}
	csvFeed := feed.NewCSV(flags.Data, opts)

	if flags.SessionStart == "" && flags.SessionEnd == "" && flags.Timeframe == "" {
		return csvFeed, nil
	}

	if err := csvFeed.Load(); err != nil {
		return nil, err
	}
	bars := csvFeed.Bars()

	if flags.SessionStart != "" || flags.SessionEnd != "" {
		filter, err := feed.NewSessionFilter(flags.SessionStart, flags.SessionEnd)
		if err != nil {
			return nil, err
		}
		bars = filter.Apply(bars)
	}

	if flags.Timeframe != "" {
		tf, err := model.ParseTimeframe(flags.Timeframe)
		if err != nil {
			return nil, err
		}
		compression := flags.Compression
		if compression <= 0 {
			compression = 1
		}
		bars = feed.NewResampler(tf, compression).Apply(bars)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars left after session/resample filtering")
	}
	return feed.NewMemory(csvFeed.Name(), bars), nil
}

func buildScheme(flags model.Flags) broker.Scheme {
	if flags.Margin > 0 {
		return broker.NewFuturesScheme(flags.Commission, flags.Margin, flags.Mult)
	}
	if flags.Commission > 0 {
		return broker.NewPercScheme(flags.Commission, true)
	}
	return nil
}

func exportArtifacts(flags model.Flags, result *model.RunResult, extras ...*series.Line) error {
	writerService := writer.NewService()
	if strings.TrimSpace(flags.ExportTrades) != "" {
		if err := writerService.WriteTrades(flags.ExportTrades, result.Trades); err != nil {
			return err
		}
	}
	if strings.TrimSpace(flags.ExportEquity) != "" {
		if err := writerService.WriteEquity(flags.ExportEquity, result.Equity, extras...); err != nil {
			return err
		}
	}
	return nil
}

// storeRun persists the result; a broken history store degrades to a
// warning instead of failing the finished run.
func storeRun(flags model.Flags, versionInfo model.VersionInfo, result *model.RunResult) {
	storageService, err := storage.NewService(flags.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: history store unavailable: %v\n", err)
		return
	}
	defer storageService.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := storageService.SaveRun(ctx, storage.SaveRunInput{Result: result, Version: versionInfo.Version}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to store run: %v\n", err)
	}
}
