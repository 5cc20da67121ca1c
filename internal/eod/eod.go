// Package eod turns a day's fill journal into a per-ticker CSV summary.
package eod

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"bond-market-maker/internal/tradelog"
	"bond-market-maker/internal/types"
)

var headers = []string{
	"ticker", "fills",
	"buy_qty", "buy_avg", "sell_qty", "sell_avg",
	"edge", "realized_pnl", "end_position",
}

type eodSummarizer struct {
	journal *tradelog.Journal
}

func (s *eodSummarizer) csvPath(t time.Time) string {
	return filepath.Join(s.journal.Dir(), "eod", t.UTC().Format("2006-01-02")+".csv")
}

// SummarizeDay writes <dir>/eod/YYYY-MM-DD.csv for the day containing t and
// returns its path. A day without fills writes nothing and returns "".
func (s *eodSummarizer) SummarizeDay(t time.Time) (string, error) {
	fills, err := s.journal.ReadFills(t)
	if err != nil {
		return "", err
	}
	if len(fills) == 0 {
		return "", nil
	}

	rows := aggregate(fills)
	keys := make([]string, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	outPath := s.csvPath(t)
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(headers); err != nil {
		return "", err
	}

	var totalEdge, totalPnL decimal.Decimal
	totalFills := 0
	for _, k := range keys {
		r := rows[k]
		rec := []string{
			r.Ticker,
			strconv.Itoa(r.Fills),
			r.BuyQty.String(),
			r.buyAvg().StringFixed(4),
			r.SellQty.String(),
			r.sellAvg().StringFixed(4),
			r.Edge.StringFixed(2),
			r.RealizedPnL.StringFixed(2),
			strconv.FormatFloat(r.EndPosition, 'f', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			return "", err
		}
		totalFills += r.Fills
		totalEdge = totalEdge.Add(r.Edge)
		totalPnL = totalPnL.Add(r.RealizedPnL)
	}
	if err := w.Write([]string{
		"TOTAL", strconv.Itoa(totalFills), "", "", "", "",
		totalEdge.StringFixed(2), totalPnL.StringFixed(2), "",
	}); err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return outPath, nil
}

func aggregate(fills []types.Fill) map[string]*aggRow {
	rows := map[string]*aggRow{}
	for _, f := range fills {
		r := rows[f.Ticker]
		if r == nil {
			r = &aggRow{Ticker: f.Ticker}
			rows[f.Ticker] = r
		}

		qty := decimal.NewFromFloat(f.Quantity)
		price := decimal.NewFromFloat(f.Price)
		switch {
		case f.Quantity > 0:
			r.BuyQty = r.BuyQty.Add(qty)
			r.BuyValue = r.BuyValue.Add(qty.Mul(price))
		case f.Quantity < 0:
			r.SellQty = r.SellQty.Add(qty.Abs())
			r.SellValue = r.SellValue.Add(qty.Abs().Mul(price))
		}
		r.Fills++
		r.Edge = r.Edge.Add(decimal.NewFromFloat(f.Edge))
		r.RealizedPnL = r.RealizedPnL.Add(decimal.NewFromFloat(f.RealizedPnL))
		r.EndPosition = f.PositionQty
	}
	return rows
}
