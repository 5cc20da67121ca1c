package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/interfaces"
	"bond-market-maker/internal/logger"
	"bond-market-maker/internal/risk"
	"bond-market-maker/internal/types"
)

var ErrEmptyUniverse = errors.New("simulation universe is empty")

type Config struct {
	BaseSpread     float64
	ShockStdDevBps float64
	SizeMean       float64
	SizeStdDev     float64
}

// StepResult records one simulated period.
type StepResult struct {
	Step       int         `json:"step"`
	ShiftBps   float64     `json:"shift_bps"`
	Ticker     string      `json:"ticker"`
	Mid        float64     `json:"mid"`
	UnitPV01   float64     `json:"unit_pv01"`
	Inventory  float64     `json:"inventory"`
	Quote      types.Quote `json:"quote"`
	ClientBuys bool        `json:"client_buys"`
	Size       float64     `json:"size"`
	Accepted   bool        `json:"accepted"`
	Fill       *types.Fill `json:"fill,omitempty"`
}

// Simulator owns the live curve and shifts it in place every step. Callers
// that need a stable view use Curve, which returns a copy.
type Simulator struct {
	cfg      Config
	book     interfaces.Book
	journal  interfaces.FillJournal
	gen      *Generator
	curve    *curve.Curve
	universe []bond.Bond
	step     int
}

// New takes its own copy of start. journal may be nil.
func New(cfg Config, b interfaces.Book, journal interfaces.FillJournal, gen *Generator, start *curve.Curve, universe []bond.Bond) (*Simulator, error) {
	if len(universe) == 0 {
		return nil, ErrEmptyUniverse
	}
	return &Simulator{
		cfg:      cfg,
		book:     b,
		journal:  journal,
		gen:      gen,
		curve:    start.Clone(),
		universe: universe,
	}, nil
}

func (s *Simulator) Curve() *curve.Curve { return s.curve.Clone() }

func (s *Simulator) Universe() []bond.Bond { return s.universe }

// Seed registers every bond and opens a random inventory in each at mid.
func (s *Simulator) Seed(ctx context.Context) error {
	for _, b := range s.universe {
		s.book.AddKnownInstrument(ctx, b)

		mid := bond.Price(b, s.curve)
		qty := s.gen.SeedQuantity()
		fill, err := s.book.BookTrade(ctx, types.Trade{Ticker: b.Ticker(), Quantity: qty, Price: mid}, mid)
		if err != nil {
			return fmt.Errorf("seed %s: %w", b.Ticker(), err)
		}
		s.record(ctx, fill)
	}
	return nil
}

// Step moves the market, quotes one random bond and lets the client decide.
func (s *Simulator) Step(ctx context.Context) (StepResult, error) {
	s.step++
	res := StepResult{Step: s.step}

	res.ShiftBps = s.gen.MarketMove(s.cfg.ShockStdDevBps)
	s.curve.ParallelShift(res.ShiftBps)
	logger.Debug(ctx, "Market moved", "step", s.step, "shift_bps", res.ShiftBps)

	b := s.universe[s.gen.Pick(len(s.universe))]
	res.Ticker = b.Ticker()
	res.Mid = bond.Price(b, s.curve)
	res.UnitPV01 = risk.PV01(b, s.curve)
	res.Inventory = s.book.PositionQty(res.Ticker)
	res.Quote = s.book.QuotedSpread(ctx, res.Ticker, res.Mid, res.UnitPV01, s.cfg.BaseSpread)

	order := s.gen.ClientOrder(s.cfg.SizeMean, s.cfg.SizeStdDev)
	res.ClientBuys, res.Size = order.ClientBuys, order.Size

	// client buys lift our ask, so the book sells
	price, qty := res.Quote.Bid, order.Size
	if order.ClientBuys {
		price, qty = res.Quote.Ask, -order.Size
	}

	if !s.gen.Accepts(price, res.Mid) {
		logger.Debug(ctx, "Client rejected quote",
			"ticker", res.Ticker,
			"price", price,
			"mid", res.Mid,
		)
		return res, nil
	}

	fill, err := s.book.BookTrade(ctx, types.Trade{Ticker: res.Ticker, Quantity: qty, Price: price}, res.Mid)
	if err != nil {
		return res, err
	}
	res.Accepted = true
	res.Fill = &fill
	s.record(ctx, fill)
	return res, nil
}

// record journals a fill; a journal failure is logged and does not undo the
// booking.
func (s *Simulator) record(ctx context.Context, f types.Fill) {
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(f); err != nil {
		logger.ErrorWithErr(ctx, "Failed to journal fill", err, "fill_id", f.ID, "ticker", f.Ticker)
	}
}

// Run executes steps periods, waiting interval between them, and passes each
// result to onStep. It stops early when ctx is cancelled.
func (s *Simulator) Run(ctx context.Context, steps int, interval time.Duration, onStep func(StepResult)) error {
	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}

	for i := 0; i < steps; i++ {
		if i > 0 && tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		res, err := s.Step(ctx)
		if err != nil {
			return fmt.Errorf("step %d: %w", res.Step, err)
		}
		if onStep != nil {
			onStep(res)
		}
	}
	return nil
}
