package risk

import (
	"strings"

	"github.com/Brownie44l1/caries-risk/internal/pattern"
	"gonum.org/v1/gonum/floats"
)

type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender canonicalizes s case-insensitively.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToLower(strings.TrimSpace(s))) {
	case Male:
		return Male, nil
	case Female:
		return Female, nil
	}
	return "", &InvalidGenderError{Value: s}
}

// Weights holds one risk percentage per pattern class, indexed like
// pattern.Labels.
type Weights [pattern.Count]float64

// Table maps each gender to its weights.
type Table map[Gender]Weights

// DefaultTable returns the caries-risk percentages per ridge pattern.
func DefaultTable() Table {
	return Table{
		Male:   {66.7, 37.5, 59.5, 50.0, 49.0},
		Female: {87.5, 34.8, 59.5, 69.6, 51.6},
	}
}

// Bounds returns the smallest and largest weight.
func (w Weights) Bounds() (lo, hi float64) {
	return floats.Min(w[:]), floats.Max(w[:])
}
