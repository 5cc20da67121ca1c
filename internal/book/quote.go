package book

import (
	"context"
	"math"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/logger"
	"bond-market-maker/internal/types"
)

// QuotedSpread builds an inventory-skewed two-way price around midPrice.
//
// The skew is -riskAversion * inventory * |unitPV01|, clamped to
// ±1.5*baseSpread, and moves both sides together: a long book quotes lower
// to attract buyers, a short book quotes higher. Unknown tickers quote flat.
func (bk *Book) QuotedSpread(ctx context.Context, ticker string, midPrice, unitPV01, baseSpread float64) types.Quote {
	inventory := bk.PositionQty(ticker)

	rawSkew := -bk.riskAversion * inventory * math.Abs(unitPV01)
	limit := maxSkewMultiple * baseSpread
	skew := math.Max(-limit, math.Min(limit, rawSkew))

	if skew != rawSkew {
		logger.Risk(ctx, ticker, "SKEW_CLAMPED",
			"inventory", inventory,
			"raw_skew", rawSkew,
			"skew", skew,
			"limit", limit,
		)
	}

	half := baseSpread / 2
	return types.Quote{
		Bid:  midPrice - half + skew,
		Ask:  midPrice + half + skew,
		Skew: skew,
	}
}

// BidAsk is the inventory-neutral quote for b: model price ± the book's
// half spread.
func (bk *Book) BidAsk(b bond.Bond, c *curve.Curve) types.Quote {
	mid := bond.Price(b, c)
	return types.Quote{Bid: mid - bk.halfSpread, Ask: mid + bk.halfSpread}
}
