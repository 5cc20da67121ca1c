// Package risk measures rate sensitivity by bump-and-reprice. Every shock is
// applied to a copy of the caller's curve.
package risk

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"bond-market-maker/internal/bond"
	"bond-market-maker/internal/curve"
	"bond-market-maker/internal/types"
)

// PV01BumpBps is the parallel shift used for PV01.
const PV01BumpBps = 1.0

// PV01 is the signed price change of b for a +1bp parallel move of base.
// It is negative for an ordinary long bond.
func PV01(b bond.Bond, base *curve.Curve) float64 {
	shocked := base.Shifted(PV01BumpBps)
	return bond.Price(b, shocked) - bond.Price(b, base)
}

// Scenario is a named parallel shift in basis points.
type Scenario struct {
	Name     string  `json:"name" yaml:"name" toml:"name"`
	ShiftBps float64 `json:"shift_bps" yaml:"shift_bps" toml:"shift_bps"`
}

func (s Scenario) label() string {
	if s.Name != "" {
		return s.Name
	}
	return fmt.Sprintf("%+gbp", s.ShiftBps)
}

// StressTest reprices every bond in portfolio on base shifted by shiftBps.
func StressTest(portfolio []bond.Bond, base *curve.Curve, shiftBps float64) types.StressReport {
	return run(portfolio, base, Scenario{ShiftBps: shiftBps})
}

// StressLadder runs each scenario on its own curve copy. Reports come back in
// scenario order.
func StressLadder(ctx context.Context, portfolio []bond.Bond, base *curve.Curve, scenarios []Scenario) ([]types.StressReport, error) {
	reports := make([]types.StressReport, len(scenarios))

	// base is only read from here on; each goroutine shocks its own clone
	g, gctx := errgroup.WithContext(ctx)
	for i, sc := range scenarios {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			reports[i] = run(portfolio, base, sc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("stress ladder: %w", err)
	}
	return reports, nil
}

func run(portfolio []bond.Bond, base *curve.Curve, sc Scenario) types.StressReport {
	stressed := base.Shifted(sc.ShiftBps)

	rep := types.StressReport{
		Scenario: sc.label(),
		ShiftBps: sc.ShiftBps,
		Lines:    make([]types.StressLine, 0, len(portfolio)),
	}
	for _, b := range portfolio {
		pBase := bond.Price(b, base)
		pStress := bond.Price(b, stressed)

		rep.Lines = append(rep.Lines, types.StressLine{
			Ticker:        b.Ticker(),
			Description:   b.Description(),
			BasePrice:     pBase,
			StressedPrice: pStress,
			PnL:           pStress - pBase,
		})
		rep.TotalBase += pBase
		rep.TotalStressed += pStress
	}
	rep.TotalPnL = rep.TotalStressed - rep.TotalBase
	return rep
}
