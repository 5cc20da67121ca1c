package bookobs

import (
	"context"
	"time"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/interfaces"
	"bond-market-maker/internal/logger"
	"bond-market-maker/internal/trace"
	"bond-market-maker/internal/types"
)

type observableBook struct {
	book interfaces.Book
}

var _ interfaces.Book = (*observableBook)(nil)

func Wrap(b interfaces.Book) interfaces.Book {
	return &observableBook{
		book: b,
	}
}

func (ob *observableBook) AddKnownInstrument(ctx context.Context, b bond.Bond) bool {
	ctx, span := trace.StartSpan(ctx, "book.AddKnownInstrument")
	defer span.End()

	added := ob.book.AddKnownInstrument(ctx, b)
	if added {
		logger.InfoSkip(ctx, 1, "Instrument registered",
			"ticker", b.Ticker(),
			"kind", b.Kind().String(),
			"description", b.Description(),
			"maturity", b.Maturity(),
		)
	}
	return added
}

func (ob *observableBook) BookTrade(ctx context.Context, t types.Trade, midPrice float64) (types.Fill, error) {
	ctx, span := trace.StartSpan(ctx, "book.BookTrade")
	defer span.End()

	start := time.Now()

	fill, err := ob.book.BookTrade(ctx, t, midPrice)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Trade rejected", err,
			"ticker", t.Ticker,
			"quantity", t.Quantity,
			"price", t.Price,
		)
		return fill, err
	}

	logger.Trade(ctx, fill.Ticker, fill.Side, fill.Quantity, fill.Price, fill.ID,
		"mid", fill.Mid,
		"edge", fill.Edge,
		"realized_pnl", fill.RealizedPnL,
		"position_qty", fill.PositionQty,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return fill, nil
}

func (ob *observableBook) QuotedSpread(ctx context.Context, ticker string, midPrice, unitPV01, baseSpread float64) types.Quote {
	ctx, span := trace.StartSpan(ctx, "book.QuotedSpread")
	defer span.End()

	q := ob.book.QuotedSpread(ctx, ticker, midPrice, unitPV01, baseSpread)
	logger.Quote(ctx, ticker, q.Bid, q.Ask, q.Skew,
		"mid", midPrice,
		"unit_pv01", unitPV01,
		"base_spread", baseSpread,
	)
	return q
}

func (ob *observableBook) RiskReport(ctx context.Context, c *curve.Curve) types.RiskReport {
	op := logger.StartOperation(ctx, "book.RiskReport")
	rep := ob.book.RiskReport(op.GetContext(), c)
	op.End(
		"positions", len(rep.Positions),
		"total_pv01", rep.TotalPV01,
	)

	logger.InfoSkip(op.GetContext(), 1, "Risk report",
		"positions", len(rep.Positions),
		"market_value", rep.TotalMarketValue,
		"unrealized_pnl", rep.TotalUnrealizedPnL,
		"realized_pnl", rep.TotalRealizedPnL,
		"spread_pnl", rep.SpreadPnL,
		"total_pv01", rep.TotalPV01,
	)
	return rep
}

func (ob *observableBook) PositionQty(ticker string) float64 {
	return ob.book.PositionQty(ticker)
}

func (ob *observableBook) SpreadPnL() float64 {
	return ob.book.SpreadPnL()
}

func (ob *observableBook) Instruments() []bond.Bond {
	return ob.book.Instruments()
}
