package imaging

import (
	"fmt"
	"strings"
)

// ChannelOrder is the channel order the classifier was trained on.
type ChannelOrder int

const (
	RGB ChannelOrder = iota
	BGR
)

// Preprocessing is the numeric transform applied to every 8-bit channel
// value v: (v*Scale - Mean[c]) / Std[c], with c counted in Order.
type Preprocessing struct {
	Name  string
	Order ChannelOrder
	Scale float32
	Mean  [3]float32
	Std   [3]float32
}

// Caffe is the Keras ResNet50 transform: BGR order, ImageNet means
// subtracted, no scaling.
var Caffe = Preprocessing{
	Name:  "caffe",
	Order: BGR,
	Scale: 1,
	Mean:  [3]float32{103.939, 116.779, 123.68},
	Std:   [3]float32{1, 1, 1},
}

// TF maps values to [-1, 1].
var TF = Preprocessing{
	Name:  "tf",
	Order: RGB,
	Scale: 1 / 127.5,
	Mean:  [3]float32{1, 1, 1},
	Std:   [3]float32{1, 1, 1},
}

// Torch scales to [0, 1] and standardises with ImageNet statistics.
var Torch = Preprocessing{
	Name:  "torch",
	Order: RGB,
	Scale: 1.0 / 255,
	Mean:  [3]float32{0.485, 0.456, 0.406},
	Std:   [3]float32{0.229, 0.224, 0.225},
}

// PreprocessingByName resolves a preset. An empty name selects Caffe.
func PreprocessingByName(name string) (Preprocessing, error) {
	switch strings.ToLower(name) {
	case "", "caffe":
		return Caffe, nil
	case "tf":
		return TF, nil
	case "torch":
		return Torch, nil
	}
	return Preprocessing{}, fmt.Errorf("unknown preprocessing mode %q", name)
}

// apply converts one RGB pixel into the three tensor values.
func (p Preprocessing) apply(r, g, b uint8) [3]float32 {
	in := [3]uint8{r, g, b}
	if p.Order == BGR {
		in = [3]uint8{b, g, r}
	}
	var out [3]float32
	for c := 0; c < 3; c++ {
		out[c] = (float32(in[c])*p.Scale - p.Mean[c]) / p.Std[c]
	}
	return out
}

// toRGB reorders tensor values into display order.
func (p Preprocessing) toRGB(v [3]float32) [3]float32 {
	if p.Order == BGR {
		return [3]float32{v[2], v[1], v[0]}
	}
	return v
}
