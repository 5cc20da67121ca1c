package eod

import "github.com/shopspring/decimal"

// aggRow accumulates one ticker's fills for the day. Sell quantities are
// stored as positive amounts.
type aggRow struct {
	Ticker      string
	Fills       int
	BuyQty      decimal.Decimal
	BuyValue    decimal.Decimal
	SellQty     decimal.Decimal
	SellValue   decimal.Decimal
	Edge        decimal.Decimal
	RealizedPnL decimal.Decimal
	EndPosition float64 // position after the day's last fill
}

func (r *aggRow) buyAvg() decimal.Decimal  { return avg(r.BuyValue, r.BuyQty) }
func (r *aggRow) sellAvg() decimal.Decimal { return avg(r.SellValue, r.SellQty) }

func avg(value, qty decimal.Decimal) decimal.Decimal {
	if qty.IsZero() {
		return decimal.Zero
	}
	return value.Div(qty)
}
