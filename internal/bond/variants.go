package bond

import (
	"fmt"
	"math"

	"bond-market-maker/internal/curve"
)

// scheduleTolerance lets a final period that lands a hair past maturity
// still be paid.
const scheduleTolerance = 0.001

// periods returns how many coupon dates k/frequency fall on or before
// maturity+scheduleTolerance.
func periods(maturity float64, frequency int) int {
	n := math.Floor((maturity+scheduleTolerance)*float64(frequency) + 1e-9)
	if n < 0 {
		return 0
	}
	return int(n)
}

// Vanilla pays a fixed coupon frequency times a year plus principal at
// maturity.
type Vanilla struct {
	base
	couponRate float64
	frequency  int
}

func NewVanilla(ticker string, notional, maturity, couponRate float64, frequency int) (*Vanilla, error) {
	b, err := newBase(ticker, notional, maturity)
	if err != nil {
		return nil, err
	}
	if err := checkFrequency(ticker, frequency); err != nil {
		return nil, err
	}
	return &Vanilla{base: b, couponRate: couponRate, frequency: frequency}, nil
}

func (v *Vanilla) Kind() Kind          { return KindVanilla }
func (v *Vanilla) CouponRate() float64 { return v.couponRate }
func (v *Vanilla) Frequency() int      { return v.frequency }

func (v *Vanilla) Description() string {
	return fmt.Sprintf("Vanilla Bond %.2f%%", v.couponRate*100)
}

func (v *Vanilla) CashFlows(_ *curve.Curve) []CashFlow {
	f := float64(v.frequency)
	coupon := v.notional * v.couponRate / f

	n := periods(v.maturity, v.frequency)
	if n == 0 {
		return []CashFlow{{Amount: v.notional + coupon, Time: v.maturity}}
	}

	flows := make([]CashFlow, n)
	for k := 1; k <= n; k++ {
		flows[k-1] = CashFlow{Amount: coupon, Time: float64(k) / f}
	}
	flows[n-1].Amount += v.notional
	return flows
}

// ZeroCoupon pays its notional once, at maturity.
type ZeroCoupon struct {
	base
}

func NewZeroCoupon(ticker string, notional, maturity float64) (*ZeroCoupon, error) {
	b, err := newBase(ticker, notional, maturity)
	if err != nil {
		return nil, err
	}
	return &ZeroCoupon{base: b}, nil
}

func (z *ZeroCoupon) Kind() Kind          { return KindZeroCoupon }
func (z *ZeroCoupon) Description() string { return "Zero Coupon" }

func (z *ZeroCoupon) CashFlows(_ *curve.Curve) []CashFlow {
	return []CashFlow{{Amount: z.notional, Time: z.maturity}}
}

// Floating resets each coupon to the curve rate at the payment date plus a
// fixed spread.
type Floating struct {
	base
	spread    float64
	frequency int
}

func NewFloating(ticker string, notional, maturity, spread float64, frequency int) (*Floating, error) {
	b, err := newBase(ticker, notional, maturity)
	if err != nil {
		return nil, err
	}
	if err := checkFrequency(ticker, frequency); err != nil {
		return nil, err
	}
	return &Floating{base: b, spread: spread, frequency: frequency}, nil
}

func (fl *Floating) Kind() Kind      { return KindFloating }
func (fl *Floating) Spread() float64 { return fl.spread }
func (fl *Floating) Frequency() int  { return fl.frequency }

func (fl *Floating) Description() string {
	return fmt.Sprintf("Floating Rate Note +%.0fbp", fl.spread/curve.BasisPoint)
}

// CashFlows uses the spot rate at each payment date as the period's fixing.
// A maturity shorter than one period yields no flows.
func (fl *Floating) CashFlows(c *curve.Curve) []CashFlow {
	f := float64(fl.frequency)
	n := periods(fl.maturity, fl.frequency)
	if n == 0 {
		return nil
	}

	flows := make([]CashFlow, n)
	for k := 1; k <= n; k++ {
		t := float64(k) / f
		flows[k-1] = CashFlow{Amount: fl.notional * (c.Rate(t) + fl.spread) / f, Time: t}
	}
	flows[n-1].Amount += fl.notional
	return flows
}
