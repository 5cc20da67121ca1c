package types

import "time"

// Trade is a fill instruction against the book. Positive Quantity means the
// book buys, negative means the book sells.
type Trade struct {
	Ticker   string  `json:"ticker"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// Side reports the book's side of the trade.
func (t Trade) Side() string {
	if t.Quantity < 0 {
		return "SELL"
	}
	return "BUY"
}

// Fill is the booked result of a Trade. RealizedPnL is the position P&L the
// fill banked by closing inventory; Edge is the spread captured against Mid.
type Fill struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Ticker      string    `json:"ticker"`
	Side        string    `json:"side"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	Mid         float64   `json:"mid"`
	Edge        float64   `json:"edge"`
	RealizedPnL float64   `json:"realized_pnl"`
	PositionQty float64   `json:"position_qty"`
}

type Quote struct {
	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
	Skew float64 `json:"skew"`
}

func (q Quote) Width() float64 { return q.Ask - q.Bid }

type PositionReport struct {
	Ticker        string  `json:"ticker"`
	Description   string  `json:"description"`
	Quantity      float64 `json:"quantity"`
	MarketPrice   float64 `json:"market_price"`
	AverageCost   float64 `json:"average_cost"`
	MarketValue   float64 `json:"market_value"`
	RealizedPnL   float64 `json:"realized_pnl"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	TotalPV01     float64 `json:"total_pv01"`
}

// RiskReport is the book blotter: one row per non-flat position plus totals.
type RiskReport struct {
	Positions          []PositionReport `json:"positions"`
	TotalMarketValue   float64          `json:"total_market_value"`
	TotalUnrealizedPnL float64          `json:"total_unrealized_pnl"`
	TotalRealizedPnL   float64          `json:"total_realized_pnl"`
	SpreadPnL          float64          `json:"spread_pnl"`
	TotalPV01          float64          `json:"total_pv01"`
}

type StressLine struct {
	Ticker        string  `json:"ticker"`
	Description   string  `json:"description"`
	BasePrice     float64 `json:"base_price"`
	StressedPrice float64 `json:"stressed_price"`
	PnL           float64 `json:"pnl"`
}

// StressReport is the repricing of a portfolio under one parallel shift.
type StressReport struct {
	Scenario      string       `json:"scenario"`
	ShiftBps      float64      `json:"shift_bps"`
	Lines         []StressLine `json:"lines"`
	TotalBase     float64      `json:"total_base"`
	TotalStressed float64      `json:"total_stressed"`
	TotalPnL      float64      `json:"total_pnl"`
}
