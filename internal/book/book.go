// Package book is the market-making trading book: instrument registry,
// positions, edge attribution and inventory-aware quoting.
package book

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/interfaces"
	"bond-market-maker/internal/logger"
	"bond-market-maker/internal/risk"
	"bond-market-maker/internal/types"
)

var ErrUnknownInstrument = errors.New("instrument not registered")

const (
	DefaultRiskAversion = 0.01
	DefaultHalfSpread   = 0.05

	// maxSkewMultiple bounds |skew| relative to the base spread.
	maxSkewMultiple = 1.5
)

var _ interfaces.Book = (*Book)(nil)

type Config struct {
	RiskAversion float64
	HalfSpread   float64
}

// Book owns the instrument registry and one position per registered ticker.
// Mutations are serialized; reads may run alongside each other.
type Book struct {
	mu sync.RWMutex

	instruments map[string]bond.Bond
	positions   map[string]*Position

	realizedSpreadPnL float64
	riskAversion      float64
	halfSpread        float64

	now func() time.Time
}

func New(cfg Config) *Book {
	return &Book{
		instruments:  make(map[string]bond.Bond),
		positions:    make(map[string]*Position),
		riskAversion: cfg.RiskAversion,
		halfSpread:   cfg.HalfSpread,
		now:          time.Now,
	}
}

// NewDefault returns a book with the default quoting parameters.
func NewDefault() *Book {
	return New(Config{RiskAversion: DefaultRiskAversion, HalfSpread: DefaultHalfSpread})
}

// AddKnownInstrument registers b with a flat position. Registering a ticker
// twice is a no-op; it reports whether b was newly added.
func (bk *Book) AddKnownInstrument(ctx context.Context, b bond.Bond) bool {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	ticker := b.Ticker()
	if _, ok := bk.positions[ticker]; ok {
		logger.Debug(ctx, "Instrument already registered", "ticker", ticker)
		return false
	}
	bk.instruments[ticker] = b
	bk.positions[ticker] = &Position{Ticker: ticker}
	logger.Debug(ctx, "Instrument registered", "ticker", ticker, "kind", b.Kind().String(), "description", b.Description())
	return true
}

// BookTrade attributes the edge of t against midPrice and applies t to its
// position. An unregistered ticker leaves the book unchanged.
func (bk *Book) BookTrade(ctx context.Context, t types.Trade, midPrice float64) (types.Fill, error) {
	bk.mu.Lock()
	defer bk.mu.Unlock()

	p, ok := bk.positions[t.Ticker]
	if !ok {
		logger.Risk(ctx, t.Ticker, "UNKNOWN_INSTRUMENT", "quantity", t.Quantity, "price", t.Price)
		return types.Fill{}, fmt.Errorf("book trade %s: %w", t.Ticker, ErrUnknownInstrument)
	}

	edge := edgeCaptured(t, midPrice)
	bk.realizedSpreadPnL += edge

	oldQty, oldAvg := p.Quantity, p.AverageCost
	realized := p.AddTrade(t)

	logger.Debug(ctx, "Position updated",
		"ticker", t.Ticker,
		"old_qty", oldQty,
		"old_avg", oldAvg,
		"new_qty", p.Quantity,
		"new_avg", p.AverageCost,
		"realized_pnl", realized,
		"edge", edge,
	)

	return types.Fill{
		ID:          uuid.NewString(),
		Time:        bk.now().UTC(),
		Ticker:      t.Ticker,
		Side:        t.Side(),
		Quantity:    t.Quantity,
		Price:       t.Price,
		Mid:         midPrice,
		Edge:        edge,
		RealizedPnL: realized,
		PositionQty: p.Quantity,
	}, nil
}

// edgeCaptured is the spread earned versus mid: buying below it or selling
// above it is positive.
func edgeCaptured(t types.Trade, mid float64) float64 {
	if t.Quantity > 0 {
		return (mid - t.Price) * t.Quantity
	}
	return (t.Price - mid) * math.Abs(t.Quantity)
}

// Position returns a copy of the position for ticker.
func (bk *Book) Position(ticker string) (Position, bool) {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	p, ok := bk.positions[ticker]
	if !ok {
		return Position{}, false
	}
	return *p, true
}

// PositionQty returns the held quantity, 0 for unknown tickers.
func (bk *Book) PositionQty(ticker string) float64 {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	if p, ok := bk.positions[ticker]; ok {
		return p.Quantity
	}
	return 0
}

func (bk *Book) Instrument(ticker string) (bond.Bond, bool) {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	b, ok := bk.instruments[ticker]
	return b, ok
}

// Instruments returns the registered bonds ordered by ticker.
func (bk *Book) Instruments() []bond.Bond {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	out := make([]bond.Bond, 0, len(bk.instruments))
	for _, ticker := range bk.sortedTickers() {
		out = append(out, bk.instruments[ticker])
	}
	return out
}

func (bk *Book) SpreadPnL() float64 {
	bk.mu.RLock()
	defer bk.mu.RUnlock()
	return bk.realizedSpreadPnL
}

func (bk *Book) RiskAversion() float64 { return bk.riskAversion }

// MarketValue is quantity times the model price of ticker on c.
func (bk *Book) MarketValue(ticker string, c *curve.Curve) (float64, error) {
	b, p, err := bk.lookup(ticker)
	if err != nil {
		return 0, err
	}
	return p.MarketValue(bond.Price(b, c)), nil
}

// TotalPV01 is quantity times the per-bond PV01 of ticker on c.
func (bk *Book) TotalPV01(ticker string, c *curve.Curve) (float64, error) {
	b, p, err := bk.lookup(ticker)
	if err != nil {
		return 0, err
	}
	return p.Quantity * risk.PV01(b, c), nil
}

func (bk *Book) UnrealizedPnL(ticker string, c *curve.Curve) (float64, error) {
	b, p, err := bk.lookup(ticker)
	if err != nil {
		return 0, err
	}
	return p.UnrealizedPnL(bond.Price(b, c)), nil
}

func (bk *Book) lookup(ticker string) (bond.Bond, Position, error) {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	b, ok := bk.instruments[ticker]
	if !ok {
		return nil, Position{}, fmt.Errorf("%s: %w", ticker, ErrUnknownInstrument)
	}
	return b, *bk.positions[ticker], nil
}

// RiskReport values every non-flat position on c. Realized P&L totals
// include positions that have since gone flat.
func (bk *Book) RiskReport(ctx context.Context, c *curve.Curve) types.RiskReport {
	bk.mu.RLock()
	defer bk.mu.RUnlock()

	rep := types.RiskReport{
		Positions: make([]types.PositionReport, 0, len(bk.positions)),
		SpreadPnL: bk.realizedSpreadPnL,
	}
	for _, ticker := range bk.sortedTickers() {
		p := bk.positions[ticker]
		rep.TotalRealizedPnL += p.RealizedPnL
		if p.IsFlat() {
			continue
		}

		b := bk.instruments[ticker]
		price := bond.Price(b, c)
		row := types.PositionReport{
			Ticker:        ticker,
			Description:   b.Description(),
			Quantity:      p.Quantity,
			MarketPrice:   price,
			AverageCost:   p.AverageCost,
			MarketValue:   p.MarketValue(price),
			RealizedPnL:   p.RealizedPnL,
			UnrealizedPnL: p.UnrealizedPnL(price),
			TotalPV01:     p.Quantity * risk.PV01(b, c),
		}
		rep.Positions = append(rep.Positions, row)
		rep.TotalMarketValue += row.MarketValue
		rep.TotalUnrealizedPnL += row.UnrealizedPnL
		rep.TotalPV01 += row.TotalPV01
	}

	logger.Debug(ctx, "Risk report built",
		"positions", len(rep.Positions),
		"total_unrealized_pnl", rep.TotalUnrealizedPnL,
		"total_pv01", rep.TotalPV01,
	)
	return rep
}

// sortedTickers must be called with mu held.
func (bk *Book) sortedTickers() []string {
	tickers := make([]string, 0, len(bk.positions))
	for t := range bk.positions {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	return tickers
}
