// Package bootstrap wires the process-level pieces shared by the commands.
package bootstrap

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/book"
	"bond-market-maker/internal/book/bookobs"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/eod"
	"bond-market-maker/internal/eod/eodobs"
	"bond-market-maker/internal/interfaces"
	"bond-market-maker/internal/logger"
	"bond-market-maker/internal/store"
	"bond-market-maker/internal/trace"
	"bond-market-maker/internal/tradelog"
	"bond-market-maker/internal/types"
)

// InitializeSystem loads .env and starts the logger and tracer. A tracer
// failure is reported but not fatal.
func InitializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
	return nil
}

func Shutdown(ctx context.Context) {
	if err := trace.Shutdown(ctx); err != nil {
		logger.Warn(ctx, "Failed to flush traces", "error", err)
	}
}

func LoadConfig(ctx context.Context, path string) (*store.Config, error) {
	cfg, err := store.LoadConfig(path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err, "path", path)
		return nil, err
	}
	logger.Info(ctx, "Config loaded",
		"path", path,
		"curve_nodes", len(cfg.Curve),
		"instruments", len(cfg.Instruments),
		"risk_aversion", cfg.Book.RiskAversion,
		"base_spread", cfg.Book.BaseSpread,
	)
	return cfg, nil
}

// InitializeBook returns the book wrapped with observability together with
// the concrete book for read-only helpers.
func InitializeBook(cfg *store.Config) (interfaces.Book, *book.Book) {
	bk := book.New(book.Config{
		RiskAversion: cfg.Book.RiskAversion,
		HalfSpread:   cfg.Book.HalfSpread,
	})
	return bookobs.Wrap(bk), bk
}

// InitializeJournal returns nil when journaling is disabled. Old files are
// compressed first when retention is configured.
func InitializeJournal(ctx context.Context, cfg *store.Config) *tradelog.Journal {
	if !cfg.Journal.Enabled {
		logger.Info(ctx, "Fill journal disabled")
		return nil
	}
	j := tradelog.New(cfg.Journal.Dir)
	if err := j.CompressOlder(cfg.Journal.RetentionDays); err != nil {
		logger.Warn(ctx, "Failed to compress old journals", "error", err)
	}
	logger.Info(ctx, "Fill journal enabled", "dir", j.Dir(), "retention_days", cfg.Journal.RetentionDays)
	return j
}

func InitializeEOD(j *tradelog.Journal) interfaces.EodSummarizer {
	return eodobs.Wrap(eod.New(j))
}

// RegisterAndSeed registers instruments with the book and books the
// configured seed trades. A seed trade without a price trades at mid.
func RegisterAndSeed(ctx context.Context, b interfaces.Book, instruments []bond.Bond, seeds []store.SeedTrade, c *curve.Curve) ([]types.Fill, error) {
	byTicker := make(map[string]bond.Bond, len(instruments))
	for _, inst := range instruments {
		b.AddKnownInstrument(ctx, inst)
		byTicker[inst.Ticker()] = inst
	}

	fills := make([]types.Fill, 0, len(seeds))
	for _, s := range seeds {
		inst, ok := byTicker[s.Ticker]
		if !ok {
			return fills, fmt.Errorf("seed trade %s: %w", s.Ticker, book.ErrUnknownInstrument)
		}
		mid := bond.Price(inst, c)
		price := s.Price
		if price == 0 {
			price = mid
		}
		fill, err := b.BookTrade(ctx, types.Trade{Ticker: s.Ticker, Quantity: s.Quantity, Price: price}, mid)
		if err != nil {
			return fills, err
		}
		fills = append(fills, fill)
	}
	return fills, nil
}
