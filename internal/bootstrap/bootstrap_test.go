package bootstrap

import (
	"context"
	"errors"
	"testing"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/book"
	"bond-market-maker/internal/store"
)

func TestRegisterAndSeed(t *testing.T) {
	ctx := context.Background()
	cfg := &store.Config{
		Curve: store.DefaultCurve(),
		Book:  store.BookConfig{RiskAversion: 0.01, HalfSpread: 0.05},
		Instruments: []store.InstrumentConfig{
			{Kind: "VANILLA", Ticker: "UST5", Maturity: 5, Coupon: 0.04, Frequency: 2},
			{Kind: "ZERO", Ticker: "Z10", Maturity: 10},
		},
	}
	c, err := cfg.BuildCurve()
	if err != nil {
		t.Fatal(err)
	}
	insts, err := cfg.BuildInstruments()
	if err != nil {
		t.Fatal(err)
	}

	wrapped, bk := InitializeBook(cfg)
	seeds := []store.SeedTrade{
		{Ticker: "UST5", Quantity: 100},
		{Ticker: "Z10", Quantity: -20, Price: 61},
	}
	fills, err := RegisterAndSeed(ctx, wrapped, insts, seeds, c)
	if err != nil {
		t.Fatalf("RegisterAndSeed failed: %v", err)
	}
	if len(fills) != 2 {
		t.Fatalf("Expected 2 fills, got %d", len(fills))
	}
	if fills[0].Price != bond.Price(insts[0], c) || fills[0].Edge != 0 {
		t.Errorf("Expected unpriced seed to trade at mid with no edge, got %+v", fills[0])
	}
	if fills[1].Price != 61 {
		t.Errorf("Expected explicit seed price 61, got %v", fills[1].Price)
	}
	if bk.PositionQty("Z10") != -20 {
		t.Errorf("Expected Z10 short 20, got %v", bk.PositionQty("Z10"))
	}

	_, err = RegisterAndSeed(ctx, wrapped, insts, []store.SeedTrade{{Ticker: "NOPE", Quantity: 1}}, c)
	if !errors.Is(err, book.ErrUnknownInstrument) {
		t.Errorf("Expected ErrUnknownInstrument, got %v", err)
	}
}

func TestInitializeJournalDisabled(t *testing.T) {
	cfg := &store.Config{}
	if j := InitializeJournal(context.Background(), cfg); j != nil {
		t.Errorf("Expected nil journal when disabled, got %v", j)
	}
}
