// Package simulation drives the book with a randomly generated bond universe,
// random parallel curve moves and a price-sensitive client.
package simulation

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"bond-market-maker/internal/bond"
)

const (
	minMaturityYears = 2
	maxMaturityYears = 30
	minCoupon        = 0.01
	maxCoupon        = 0.06
	genNotional      = 100.0

	seedQtyLow  = -500
	seedQtyHigh = 1000
)

// Generator is the single source of randomness for a run. It is not safe for
// concurrent use.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a PCG source. Seed 0 draws a seed from the clock.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *Generator) coupon() float64 {
	return minCoupon + g.rng.Float64()*(maxCoupon-minCoupon)
}

// RandomBond draws a vanilla (semi-annual), FRN (quarterly) or zero with
// equal probability. Tickers read BOND_<id>_<maturity>Y with _FRN or _ZERO
// appended for those kinds.
func (g *Generator) RandomBond(id int) (bond.Bond, error) {
	maturity := minMaturityYears + g.rng.IntN(maxMaturityYears-minMaturityYears+1)
	coupon := g.coupon()
	ticker := fmt.Sprintf("BOND_%d_%dY", id, maturity)

	switch g.rng.IntN(3) {
	case 0:
		return bond.NewVanilla(ticker, genNotional, float64(maturity), coupon, 2)
	case 1:
		spread := g.coupon() * 0.5
		return bond.NewFloating(ticker+"_FRN", genNotional, float64(maturity), spread, 4)
	default:
		return bond.NewZeroCoupon(ticker+"_ZERO", genNotional, float64(maturity))
	}
}

// Portfolio returns n random bonds with ids 1..n.
func (g *Generator) Portfolio(n int) ([]bond.Bond, error) {
	out := make([]bond.Bond, 0, n)
	for i := 1; i <= n; i++ {
		b, err := g.RandomBond(i)
		if err != nil {
			return nil, fmt.Errorf("generate bond %d: %w", i, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// MarketMove is a parallel shift in basis points drawn from N(0, stdDevBps).
func (g *Generator) MarketMove(stdDevBps float64) float64 {
	return g.rng.NormFloat64() * stdDevBps
}

// SeedQuantity is an opening inventory in [-500, 1000).
func (g *Generator) SeedQuantity() float64 {
	return float64(seedQtyLow + g.rng.IntN(seedQtyHigh-seedQtyLow))
}

// Order is a client request against our quote.
type Order struct {
	ClientBuys bool
	Size       float64
}

// ClientOrder draws a side with equal odds and a size of |N(mean, stdDev)|.
func (g *Generator) ClientOrder(mean, stdDev float64) Order {
	return Order{
		ClientBuys: g.rng.IntN(2) == 0,
		Size:       math.Abs(mean + g.rng.NormFloat64()*stdDev),
	}
}

// Accepts reports whether the client trades at price, with probability
// exp(-|price-mid|).
func (g *Generator) Accepts(price, mid float64) bool {
	return g.rng.Float64() < AcceptProbability(price, mid)
}

func AcceptProbability(price, mid float64) float64 {
	return math.Exp(-math.Abs(price - mid))
}

// Pick returns a uniform index in [0, n).
func (g *Generator) Pick(n int) int {
	return g.rng.IntN(n)
}
