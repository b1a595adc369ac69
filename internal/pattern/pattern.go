// Package pattern holds the fingerprint ridge-pattern classes in the order
// shared by the classifier output, the risk tables and the argmax label.
package pattern

// Label names one ridge-pattern class.
type Label string

const (
	Arch       Label = "Arch"
	LeftLoop   Label = "Left Loop"
	RightLoop  Label = "Right Loop"
	Whorl      Label = "Whorl"
	TentedArch Label = "Tented Arch"
)

// Count is the number of pattern classes.
const Count = 5

// Labels is the positional class order. Index i of a probability vector and
// of every risk table row refers to Labels[i].
var Labels = [Count]Label{Arch, LeftLoop, RightLoop, Whorl, TentedArch}

// Probabilities is one classifier output row, indexed like Labels.
type Probabilities []float64

// String returns the label name.
func (l Label) String() string { return string(l) }

// Names returns Labels as plain strings, in order.
func Names() []string {
	names := make([]string, Count)
	for i, l := range Labels {
		names[i] = string(l)
	}
	return names
}
