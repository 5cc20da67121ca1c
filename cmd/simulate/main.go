package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/bootstrap"
	"bond-market-maker/internal/interfaces"
	"bond-market-maker/internal/logger"
	"bond-market-maker/internal/report"
	"bond-market-maker/internal/risk"
	"bond-market-maker/internal/simulation"
	"bond-market-maker/internal/store"
	"bond-market-maker/internal/tradelog"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (.yaml or .toml)")
	steps := flag.Int("steps", 0, "number of simulated periods (overrides config)")
	flag.Parse()

	if err := bootstrap.InitializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer bootstrap.Shutdown(context.Background())

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := run(ctx, *configPath, *steps, os.Stdout); err != nil && ctx.Err() == nil {
		logger.ErrorWithErr(ctx, "Simulation failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, steps int, w io.Writer) error {
	cfg, err := bootstrap.LoadConfig(ctx, configPath)
	if err != nil {
		return err
	}
	if steps > 0 {
		cfg.Simulation.Steps = steps
	}

	start, err := cfg.BuildCurve()
	if err != nil {
		return err
	}

	gen := simulation.NewGenerator(cfg.Simulation.Seed)
	universe, err := buildUniverse(cfg, gen)
	if err != nil {
		return err
	}

	bk, _ := bootstrap.InitializeBook(cfg)
	journal := bootstrap.InitializeJournal(ctx, cfg)

	// keep a disabled journal a true nil interface
	var fj interfaces.FillJournal
	if journal != nil {
		fj = journal
	}

	sim, err := simulation.New(simulation.Config{
		BaseSpread:     cfg.Book.BaseSpread,
		ShockStdDevBps: cfg.Simulation.ShockStdDevBps,
		SizeMean:       cfg.Simulation.SizeMean,
		SizeStdDev:     cfg.Simulation.SizeStdDev,
	}, bk, fj, gen, start, universe)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "--- GENERATING INVENTORY ---")
	if err := sim.Seed(ctx); err != nil {
		return err
	}
	if err := report.WriteRiskReport(w, bk.RiskReport(ctx, sim.Curve())); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n--- STARTING LIVE SIMULATION ---")
	runErr := sim.Run(ctx, cfg.Simulation.Steps, cfg.Simulation.StepInterval, func(r simulation.StepResult) {
		printStep(w, r)
		if journal != nil {
			appendQuote(ctx, journal, r)
		}
	})

	final := sim.Curve()
	fmt.Fprintln(w, "\n--- FINAL RISK REPORT ---")
	if err := report.WriteRiskReport(w, bk.RiskReport(ctx, final)); err != nil {
		return err
	}

	// the ladder still runs after an interrupt, so it gets its own context
	ladder, err := risk.StressLadder(context.Background(), sim.Universe(), final, cfg.Stress.Scenarios)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "\n--- STRESS ---")
	if err := report.WriteStressReports(w, ladder); err != nil {
		return err
	}

	if journal != nil {
		if p, err := bootstrap.InitializeEOD(journal).SummarizeDay(time.Now()); err == nil && p != "" {
			fmt.Fprintln(w, "\nEOD CSV written:", p)
		}
	}
	return runErr
}

// buildUniverse uses the configured instruments when present, otherwise a random
// portfolio.
func buildUniverse(cfg *store.Config, gen *simulation.Generator) ([]bond.Bond, error) {
	if len(cfg.Instruments) > 0 {
		return cfg.BuildInstruments()
	}
	return gen.Portfolio(cfg.Simulation.Instruments)
}

func printStep(w io.Writer, r simulation.StepResult) {
	fmt.Fprintf(w, "\n[STEP %d] market moved %+.2f bps\n", r.Step, r.ShiftBps)
	fmt.Fprintf(w, "Ticker: %s | Inv: %g | Mid: %.4f | Skew: %.4f | Quote: %.4f / %.4f\n",
		r.Ticker, r.Inventory, r.Mid, r.Quote.Skew, r.Quote.Bid, r.Quote.Ask)

	side := "sells to us"
	if r.ClientBuys {
		side = "buys from us"
	}
	if !r.Accepted {
		fmt.Fprintf(w, "Client rejected quote (%s %.0f)\n", side, r.Size)
		return
	}
	fmt.Fprintf(w, "Client %s %.0f @ %.4f | edge %.2f | position %g\n",
		side, r.Size, r.Fill.Price, r.Fill.Edge, r.Fill.PositionQty)
}

func appendQuote(ctx context.Context, j *tradelog.Journal, r simulation.StepResult) {
	err := j.AppendQuote(tradelog.QuoteEntry{
		Ticker:   r.Ticker,
		Mid:      r.Mid,
		Bid:      r.Quote.Bid,
		Ask:      r.Quote.Ask,
		Skew:     r.Quote.Skew,
		Position: r.Inventory,
	})
	if err != nil {
		logger.Warn(ctx, "Failed to journal quote", "ticker", r.Ticker, "error", err)
	}
}
