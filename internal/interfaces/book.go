package interfaces

import (
	"context"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/types"
)

// Book is the market-making book as seen by the drivers in cmd/ and the
// simulation loop.
type Book interface {
	AddKnownInstrument(ctx context.Context, b bond.Bond) bool
	BookTrade(ctx context.Context, t types.Trade, midPrice float64) (types.Fill, error)
	QuotedSpread(ctx context.Context, ticker string, midPrice, unitPV01, baseSpread float64) types.Quote
	RiskReport(ctx context.Context, c *curve.Curve) types.RiskReport
	PositionQty(ticker string) float64
	SpreadPnL() float64
	Instruments() []bond.Bond
}
