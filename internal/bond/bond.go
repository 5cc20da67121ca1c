// Package bond models the tradable fixed-income instruments and prices them
// off a curve.
package bond

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"bond-market-maker/internal/curve"
)

var (
	ErrEmptyTicker      = errors.New("ticker is empty")
	ErrInvalidMaturity  = errors.New("maturity must be positive")
	ErrInvalidFrequency = errors.New("frequency must be a positive integer")
	ErrUnknownKind      = errors.New("unknown bond kind")
)

// Kind identifies a bond variant.
type Kind string

const (
	KindVanilla    Kind = "VANILLA"
	KindZeroCoupon Kind = "ZERO"
	KindFloating   Kind = "FLOATING"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	switch k {
	case KindVanilla, KindZeroCoupon, KindFloating:
		return true
	default:
		return false
	}
}

// ParseKind accepts the canonical names plus a few common aliases.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "VANILLA", "FIXED":
		return KindVanilla, nil
	case "ZERO", "ZERO_COUPON", "ZEROCOUPON":
		return KindZeroCoupon, nil
	case "FLOATING", "FRN", "FLOATING_RATE_NOTE":
		return KindFloating, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// CashFlow is a single payment of Amount at Time years.
type CashFlow struct {
	Amount float64 `json:"amount"`
	Time   float64 `json:"time"`
}

// Bond is implemented by Vanilla, ZeroCoupon and Floating. Bonds are
// immutable once constructed.
type Bond interface {
	Ticker() string
	Kind() Kind
	Notional() float64
	Maturity() float64
	Description() string
	// CashFlows returns the payments in time order. Only floating coupons
	// read rates from c.
	CashFlows(c *curve.Curve) []CashFlow
}

// Price discounts every cash flow of b on c. The result is the value of one
// bond of b.Notional() face.
func Price(b Bond, c *curve.Curve) float64 {
	var price float64
	for _, cf := range b.CashFlows(c) {
		price += cf.Amount * c.DiscountFactor(cf.Time)
	}
	return price
}

// Spec is the construction input for any variant.
type Spec struct {
	Kind      Kind
	Ticker    string
	Notional  float64
	Maturity  float64
	Coupon    float64 // vanilla only
	Spread    float64 // floating only
	Frequency int     // vanilla and floating
}

// New builds the variant named by spec.Kind.
func New(spec Spec) (Bond, error) {
	var (
		b   Bond
		err error
	)
	switch spec.Kind {
	case KindVanilla:
		b, err = NewVanilla(spec.Ticker, spec.Notional, spec.Maturity, spec.Coupon, spec.Frequency)
	case KindZeroCoupon:
		b, err = NewZeroCoupon(spec.Ticker, spec.Notional, spec.Maturity)
	case KindFloating:
		b, err = NewFloating(spec.Ticker, spec.Notional, spec.Maturity, spec.Spread, spec.Frequency)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

type base struct {
	ticker   string
	notional float64
	maturity float64
}

func newBase(ticker string, notional, maturity float64) (base, error) {
	if strings.TrimSpace(ticker) == "" {
		return base{}, ErrEmptyTicker
	}
	if maturity <= 0 || math.IsNaN(maturity) || math.IsInf(maturity, 0) {
		return base{}, fmt.Errorf("%s: %w, got %v", ticker, ErrInvalidMaturity, maturity)
	}
	return base{ticker: ticker, notional: notional, maturity: maturity}, nil
}

func (b base) Ticker() string    { return b.ticker }
func (b base) Notional() float64 { return b.notional }
func (b base) Maturity() float64 { return b.maturity }

func checkFrequency(ticker string, frequency int) error {
	if frequency <= 0 {
		return fmt.Errorf("%s: %w, got %d", ticker, ErrInvalidFrequency, frequency)
	}
	return nil
}
