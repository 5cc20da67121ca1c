// Package curve holds the zero-rate term structure used for discounting and
// floating-rate estimation.
package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// BasisPoint is one hundredth of a percent in rate units.
const BasisPoint = 0.0001

var ErrInvalidTenor = errors.New("tenor must be a positive, finite number of years")

// Point is a single curve node: a continuously-compounded rate at a tenor.
type Point struct {
	Tenor float64 `json:"tenor" yaml:"tenor" toml:"tenor"`
	Rate  float64 `json:"rate" yaml:"rate" toml:"rate"`
}

// Curve is an ordered set of nodes keyed by tenor. The zero value is an
// empty, usable curve.
type Curve struct {
	points []Point // sorted by Tenor, tenors unique
}

// New builds a curve from the given points. Later points overwrite earlier
// ones with the same tenor.
func New(points ...Point) (*Curve, error) {
	c := &Curve{points: make([]Point, 0, len(points))}
	for _, p := range points {
		if err := c.AddRate(p.Tenor, p.Rate); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// AddRate inserts the node at tenor t, or overwrites its rate if present.
func (c *Curve) AddRate(t, r float64) error {
	if t <= 0 || math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("add rate at %v: %w", t, ErrInvalidTenor)
	}
	i := c.search(t)
	if i < len(c.points) && c.points[i].Tenor == t {
		c.points[i].Rate = r
		return nil
	}
	c.points = append(c.points, Point{})
	copy(c.points[i+1:], c.points[i:])
	c.points[i] = Point{Tenor: t, Rate: r}
	return nil
}

// Rate returns the linearly interpolated rate at t. Outside the node range
// the nearest node's rate is used; an empty curve yields 0.
func (c *Curve) Rate(t float64) float64 {
	n := len(c.points)
	if n == 0 {
		return 0
	}

	// first node with Tenor >= t
	i := c.search(t)
	if i == 0 {
		return c.points[0].Rate
	}
	if i == n {
		return c.points[n-1].Rate
	}

	lo, hi := c.points[i-1], c.points[i]
	return lo.Rate + (hi.Rate-lo.Rate)*((t-lo.Tenor)/(hi.Tenor-lo.Tenor))
}

// DiscountFactor returns exp(-r(t) * t).
func (c *Curve) DiscountFactor(t float64) float64 {
	return math.Exp(-c.Rate(t) * t)
}

// ParallelShift adds bps basis points to every node in place. Use Shifted
// when the receiver must stay untouched.
func (c *Curve) ParallelShift(bps float64) {
	shift := bps * BasisPoint
	for i := range c.points {
		c.points[i].Rate += shift
	}
}

// Clone returns an independent copy of the curve.
func (c *Curve) Clone() *Curve {
	out := &Curve{points: make([]Point, len(c.points))}
	copy(out.points, c.points)
	return out
}

// Shifted returns a copy of the curve moved by bps basis points.
func (c *Curve) Shifted(bps float64) *Curve {
	out := c.Clone()
	out.ParallelShift(bps)
	return out
}

// Points returns a copy of the nodes in tenor order.
func (c *Curve) Points() []Point {
	out := make([]Point, len(c.points))
	copy(out, c.points)
	return out
}

func (c *Curve) Len() int { return len(c.points) }

func (c *Curve) search(t float64) int {
	return sort.Search(len(c.points), func(i int) bool {
		return c.points[i].Tenor >= t
	})
}
