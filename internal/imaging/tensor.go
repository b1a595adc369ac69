package imaging

// Tensor is a float32 image in height-width-channel layout.
type Tensor struct {
	Height   int
	Width    int
	Channels int
	Data     []float32
}

func NewTensor(height, width, channels int) *Tensor {
	return &Tensor{
		Height:   height,
		Width:    width,
		Channels: channels,
		Data:     make([]float32, height*width*channels),
	}
}

// Shape returns (height, width, channels).
func (t *Tensor) Shape() []int64 {
	return []int64{int64(t.Height), int64(t.Width), int64(t.Channels)}
}

// BatchShape returns the shape with a leading batch dimension of 1.
func (t *Tensor) BatchShape() []int64 {
	return append([]int64{1}, t.Shape()...)
}

func (t *Tensor) At(y, x, c int) float32 {
	return t.Data[(y*t.Width+x)*t.Channels+c]
}

func (t *Tensor) Set(y, x, c int, v float32) {
	t.Data[(y*t.Width+x)*t.Channels+c] = v
}

// Range returns the smallest and largest element.
func (t *Tensor) Range() (lo, hi float32) {
	if len(t.Data) == 0 {
		return 0, 0
	}
	lo, hi = t.Data[0], t.Data[0]
	for _, v := range t.Data[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
