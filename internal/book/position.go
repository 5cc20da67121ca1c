package book

import (
	"math"

	"bond-market-maker/internal/types"
)

// Position is the book's holding in one instrument. Quantity counts bonds
// (units of the instrument's notional); positive is long.
type Position struct {
	Ticker      string  `json:"ticker"`
	Quantity    float64 `json:"quantity"`
	AverageCost float64 `json:"average_cost"` // cost basis of the open lot
	RealizedPnL float64 `json:"realized_pnl"` // banked by closing trades
}

// AddTrade applies a fill with weighted-average-cost accounting and returns
// the P&L it realized.
//
// A trade in the direction of the position (or onto a flat one) re-averages
// the cost. A trade against it realizes P&L on the closed quantity and keeps
// the cost. A trade larger than the position realizes the whole lot and opens
// the remainder at the trade price.
func (p *Position) AddTrade(t types.Trade) float64 {
	if t.Quantity == 0 {
		return 0
	}

	if p.Quantity == 0 || sameSign(p.Quantity, t.Quantity) {
		totalCost := p.Quantity*p.AverageCost + t.Quantity*t.Price
		p.Quantity += t.Quantity
		p.AverageCost = totalCost / p.Quantity
		return 0
	}

	closed := math.Min(math.Abs(t.Quantity), math.Abs(p.Quantity))
	realized := p.closePnL(closed, t.Price)
	p.RealizedPnL += realized

	flips := math.Abs(t.Quantity) > math.Abs(p.Quantity)
	p.Quantity += t.Quantity

	switch {
	case p.Quantity == 0:
		p.AverageCost = 0
	case flips:
		p.AverageCost = t.Price
	}
	return realized
}

// closePnL is the P&L of closing qty of the current lot at price.
func (p *Position) closePnL(qty, price float64) float64 {
	if p.Quantity > 0 {
		return qty * (price - p.AverageCost)
	}
	return qty * (p.AverageCost - price)
}

func (p *Position) IsFlat() bool { return p.Quantity == 0 }

// MarketValue is Quantity times the per-bond price.
func (p *Position) MarketValue(price float64) float64 {
	return p.Quantity * price
}

// UnrealizedPnL marks the open lot to price.
func (p *Position) UnrealizedPnL(price float64) float64 {
	return (price - p.AverageCost) * p.Quantity
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}
