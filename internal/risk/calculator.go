// Package risk derives a caries-risk percentage from ridge-pattern
// probabilities and gender.
package risk

import (
	"log/slog"
	"math"

	"github.com/Brownie44l1/caries-risk/internal/pattern"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// DefaultSumTolerance is how far the probabilities may sum away from 1
// before a warning is logged.
const DefaultSumTolerance = 0.01

// Assessment is the output of Compute.
type Assessment struct {
	Risk    float64
	Pattern pattern.Label
}

type Calculator struct {
	table     Table
	tolerance float64
	logger    *slog.Logger
}

type Option func(*Calculator)

// WithTable replaces the default risk table.
func WithTable(t Table) Option {
	return func(c *Calculator) { c.table = t }
}

// WithSumTolerance sets the warn threshold for the probability sum.
func WithSumTolerance(tol float64) Option {
	return func(c *Calculator) { c.tolerance = tol }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Calculator) { c.logger = l }
}

func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		table:     DefaultTable(),
		tolerance: DefaultSumTolerance,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute validates probs and returns the weighted risk for gender together
// with the most probable pattern. The risk is rounded to two decimals, half
// away from zero.
func (c *Calculator) Compute(probs pattern.Probabilities, gender string) (Assessment, error) {
	g, err := ParseGender(gender)
	if err != nil {
		return Assessment{}, err
	}
	weights, ok := c.table[g]
	if !ok {
		return Assessment{}, &InvalidGenderError{Value: gender}
	}

	if err := Validate(probs); err != nil {
		return Assessment{}, err
	}

	if sum := floats.Sum(probs); !scalar.EqualWithinAbs(sum, 1, c.tolerance) {
		c.logger.Warn("probabilities do not sum to 1",
			"sum", sum,
			"tolerance", c.tolerance)
	}

	weighted := floats.Dot(probs, weights[:])

	return Assessment{
		Risk:    scalar.Round(weighted, 2),
		Pattern: pattern.Labels[floats.MaxIdx(probs)],
	}, nil
}

// Validate checks the length and range of probs.
func Validate(probs pattern.Probabilities) error {
	if len(probs) != pattern.Count {
		return &InvalidProbabilityCountError{Got: len(probs), Want: pattern.Count}
	}
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return &InvalidProbabilityRangeError{Index: i, Value: p}
		}
	}
	return nil
}

// ArgmaxLabel returns the label of the largest probability. Ties go to the
// lowest index. probs is checked with Validate first.
func ArgmaxLabel(probs pattern.Probabilities) (pattern.Label, error) {
	if err := Validate(probs); err != nil {
		return "", err
	}
	return pattern.Labels[floats.MaxIdx(probs)], nil
}
