package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/bootstrap"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/interfaces"
	"bond-market-maker/internal/logger"
	"bond-market-maker/internal/report"
	"bond-market-maker/internal/risk"
	"bond-market-maker/internal/types"
)

type output struct {
	Pricing []report.PriceRow    `json:"pricing"`
	Risk    types.RiskReport     `json:"risk"`
	Stress  []types.StressReport `json:"stress"`
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file (.yaml or .toml)")
	format := flag.String("format", "text", "output format: text or json")
	csvPath := flag.String("csv", "", "also write the risk blotter as CSV to this path")
	flag.Parse()

	if err := bootstrap.InitializeSystem(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	ctx := context.Background()
	defer bootstrap.Shutdown(ctx)

	if err := run(ctx, *configPath, *format, *csvPath, os.Stdout); err != nil {
		logger.ErrorWithErr(ctx, "Book run failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath, format, csvPath string, w io.Writer) error {
	cfg, err := bootstrap.LoadConfig(ctx, configPath)
	if err != nil {
		return err
	}
	c, err := cfg.BuildCurve()
	if err != nil {
		return err
	}
	instruments, err := cfg.BuildInstruments()
	if err != nil {
		return err
	}

	bk, _ := bootstrap.InitializeBook(cfg)
	journal := bootstrap.InitializeJournal(ctx, cfg)

	fills, err := bootstrap.RegisterAndSeed(ctx, bk, instruments, cfg.SeedTrades, c)
	if err != nil {
		return err
	}
	if journal != nil {
		for _, f := range fills {
			if err := journal.Append(f); err != nil {
				logger.Warn(ctx, "Failed to journal seed fill", "fill_id", f.ID, "error", err)
			}
		}
	}

	out := output{
		Pricing: pricing(ctx, bk, instruments, c, cfg.Book.BaseSpread),
		Risk:    bk.RiskReport(ctx, c),
	}
	out.Stress, err = risk.StressLadder(ctx, instruments, c, cfg.Stress.Scenarios)
	if err != nil {
		return err
	}

	if err := render(w, format, out); err != nil {
		return err
	}

	if csvPath != "" {
		if err := writeCSV(csvPath, out.Risk); err != nil {
			return err
		}
		logger.Info(ctx, "Risk CSV written", "path", csvPath)
	}

	if journal != nil && len(fills) > 0 {
		if _, err := bootstrap.InitializeEOD(journal).SummarizeDay(time.Now()); err != nil {
			logger.Warn(ctx, "EOD summary failed", "error", err)
		}
	}
	return nil
}

// pricing quotes every instrument around its model mid with the book's
// current inventory skew.
func pricing(ctx context.Context, bk interfaces.Book, instruments []bond.Bond, c *curve.Curve, baseSpread float64) []report.PriceRow {
	rows := make([]report.PriceRow, 0, len(instruments))
	for _, b := range instruments {
		mid := bond.Price(b, c)
		pv01 := risk.PV01(b, c)
		q := bk.QuotedSpread(ctx, b.Ticker(), mid, pv01, baseSpread)
		rows = append(rows, report.PriceRow{
			Ticker:      b.Ticker(),
			Description: b.Description(),
			Price:       mid,
			PV01:        pv01,
			Bid:         q.Bid,
			Ask:         q.Ask,
			Position:    bk.PositionQty(b.Ticker()),
		})
	}
	return rows
}

func render(w io.Writer, format string, out output) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintln(w, "--- PRICING ---")
	if err := report.WritePricing(w, out.Pricing); err != nil {
		return err
	}
	fmt.Fprintln(w, "\n--- RISK REPORT ---")
	if err := report.WriteRiskReport(w, out.Risk); err != nil {
		return err
	}
	fmt.Fprintln(w, "\n--- STRESS ---")
	return report.WriteStressReports(w, out.Stress)
}

func writeCSV(path string, rep types.RiskReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteRiskCSV(f, rep); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
