package risk

import "fmt"

// InvalidGenderError is returned when the gender is neither male nor female.
type InvalidGenderError struct {
	Value string
}

func (e *InvalidGenderError) Error() string {
	return fmt.Sprintf("gender must be 'male' or 'female', got %q", e.Value)
}

// InvalidProbabilityCountError is returned when the probability vector does
// not hold exactly one value per pattern class.
type InvalidProbabilityCountError struct {
	Got  int
	Want int
}

func (e *InvalidProbabilityCountError) Error() string {
	return fmt.Sprintf("expected %d probabilities, got %d", e.Want, e.Got)
}

// InvalidProbabilityRangeError is returned for a probability outside [0, 1].
type InvalidProbabilityRangeError struct {
	Index int
	Value float64
}

func (e *InvalidProbabilityRangeError) Error() string {
	return fmt.Sprintf("probability %d is %v, must be between 0 and 1", e.Index, e.Value)
}
