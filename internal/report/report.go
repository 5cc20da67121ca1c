// Package report renders book and stress results as aligned text tables and
// CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"bond-market-maker/internal/types"
)

// PriceRow is one line of the pricing blotter.
type PriceRow struct {
	Ticker      string
	Description string
	Price       float64
	PV01        float64
	Bid         float64
	Ask         float64
	Position    float64
}

func money(v float64) string { return decimal.NewFromFloat(v).StringFixed(2) }
func price(v float64) string { return decimal.NewFromFloat(v).StringFixed(4) }
func pv01(v float64) string  { return decimal.NewFromFloat(v).StringFixed(6) }
func qty(v float64) string   { return strconv.FormatFloat(v, 'f', -1, 64) }

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
}

// WritePricing prints model prices, per-bond PV01 and the two-way quote.
func WritePricing(w io.Writer, rows []PriceRow) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "TICKER\tDESCRIPTION\tPRICE\tPV01\tBID\tASK\tPOSITION\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			r.Ticker, r.Description, price(r.Price), pv01(r.PV01),
			price(r.Bid), price(r.Ask), qty(r.Position))
	}
	return tw.Flush()
}

// WriteRiskReport prints the position blotter followed by book totals.
func WriteRiskReport(w io.Writer, rep types.RiskReport) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "TICKER\tDESCRIPTION\tQTY\tPRICE\tAVG COST\tMKT VALUE\tREALIZED\tUNREALIZED\tPV01\t")
	for _, p := range rep.Positions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			p.Ticker, p.Description, qty(p.Quantity), price(p.MarketPrice), price(p.AverageCost),
			money(p.MarketValue), money(p.RealizedPnL), money(p.UnrealizedPnL), money(p.TotalPV01))
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t\t\t%s\t%s\t%s\t%s\t\n",
		money(rep.TotalMarketValue), money(rep.TotalRealizedPnL),
		money(rep.TotalUnrealizedPnL), money(rep.TotalPV01))
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nSpread P&L: %s  Realized P&L: %s  Unrealized P&L: %s  Total PV01: %s\n",
		money(rep.SpreadPnL), money(rep.TotalRealizedPnL), money(rep.TotalUnrealizedPnL), money(rep.TotalPV01))
	return err
}

// WriteStressReports prints one table per scenario.
func WriteStressReports(w io.Writer, reps []types.StressReport) error {
	for i, rep := range reps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Scenario %s (%+gbp)\n", rep.Scenario, rep.ShiftBps)

		tw := newTable(w)
		fmt.Fprintln(tw, "TICKER\tDESCRIPTION\tBASE\tSTRESSED\tP&L\t")
		for _, l := range rep.Lines {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
				l.Ticker, l.Description, price(l.BasePrice), price(l.StressedPrice), price(l.PnL))
		}
		fmt.Fprintf(tw, "TOTAL\t\t%s\t%s\t%s\t\n",
			price(rep.TotalBase), price(rep.TotalStressed), price(rep.TotalPnL))
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// WriteRiskCSV writes the blotter rows and a TOTAL row as CSV.
func WriteRiskCSV(w io.Writer, rep types.RiskReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"ticker", "description", "quantity", "market_price", "average_cost",
		"market_value", "realized_pnl", "unrealized_pnl", "total_pv01",
	}); err != nil {
		return err
	}
	for _, p := range rep.Positions {
		if err := cw.Write([]string{
			p.Ticker, p.Description, qty(p.Quantity), price(p.MarketPrice), price(p.AverageCost),
			money(p.MarketValue), money(p.RealizedPnL), money(p.UnrealizedPnL), pv01(p.TotalPV01),
		}); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{
		"TOTAL", "", "", "", "",
		money(rep.TotalMarketValue), money(rep.TotalRealizedPnL),
		money(rep.TotalUnrealizedPnL), pv01(rep.TotalPV01),
	}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
