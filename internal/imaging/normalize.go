// Package imaging turns a captured fingerprint image into the fixed-size
// float tensor the pattern classifier expects.
package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// DefaultSize is the classifier input edge length in pixels.
const DefaultSize = 256

// Channels is the tensor depth handed to the classifier.
const Channels = 3

type Normalizer struct {
	size      int
	filter    resize.InterpolationFunction
	prep      Preprocessing
	debugPath string
	logger    *slog.Logger
}

type Option func(*Normalizer)

// WithSize overrides the output edge length.
func WithSize(size int) Option {
	return func(n *Normalizer) { n.size = size }
}

func WithFilter(f resize.InterpolationFunction) Option {
	return func(n *Normalizer) { n.filter = f }
}

func WithPreprocessing(p Preprocessing) Option {
	return func(n *Normalizer) { n.prep = p }
}

// WithDebugImage makes Normalize write a PNG rendering of every tensor to
// path. Write failures are logged and ignored.
func WithDebugImage(path string) Option {
	return func(n *Normalizer) { n.debugPath = path }
}

func WithLogger(l *slog.Logger) Option {
	return func(n *Normalizer) { n.logger = l }
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		size:   DefaultSize,
		filter: resize.Bicubic,
		prep:   Caffe,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// FilterByName resolves a resampling filter. Nearest-neighbour is refused
// because it drops ridge detail.
func FilterByName(name string) (resize.InterpolationFunction, error) {
	switch strings.ToLower(name) {
	case "", "bicubic":
		return resize.Bicubic, nil
	case "mitchell":
		return resize.MitchellNetravali, nil
	case "lanczos2":
		return resize.Lanczos2, nil
	case "lanczos3":
		return resize.Lanczos3, nil
	}
	return 0, fmt.Errorf("unsupported resize filter %q", name)
}

// Normalize decodes the image at path, resizes it and applies the
// preprocessing transform.
func (n *Normalizer) Normalize(path string) (*Tensor, error) {
	img, format, err := decode(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, &PreprocessError{Path: path, Reason: "image has no pixels"}
	}
	channels := channelsOf(img.ColorModel())
	if channels == 0 {
		return nil, &PreprocessError{
			Path:   path,
			Reason: fmt.Sprintf("unsupported color model %T", img.ColorModel()),
		}
	}

	n.logger.Debug("decoded image",
		"path", path,
		"format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"channels", channels)

	tensor := n.FromImage(img)

	if n.debugPath != "" {
		if err := WriteDebugImage(tensor, n.prep, n.debugPath); err != nil {
			n.logger.Warn("failed to write debug image", "path", n.debugPath, "error", err)
		}
	}

	return tensor, nil
}

// FromImage resizes an already decoded image and converts it to a tensor.
func (n *Normalizer) FromImage(img image.Image) *Tensor {
	resized := resize.Resize(uint(n.size), uint(n.size), img, n.filter)

	bounds := resized.Bounds()
	tensor := NewTensor(bounds.Dy(), bounds.Dx(), Channels)

	for y := 0; y < tensor.Height; y++ {
		for x := 0; x < tensor.Width; x++ {
			px := color.NRGBAModel.Convert(resized.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			v := n.prep.apply(px.R, px.G, px.B)
			for c := 0; c < Channels; c++ {
				tensor.Set(y, x, c, v[c])
			}
		}
	}
	return tensor
}

func decode(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", &ImageLoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", &ImageLoadError{Path: path, Err: err}
	}
	return img, format, nil
}

// channelsOf reports how many color channels a model carries. Alpha is
// counted but later dropped; 0 means the model is not usable.
func channelsOf(m color.Model) int {
	if _, ok := m.(color.Palette); ok {
		return 3
	}
	switch m {
	case color.GrayModel, color.Gray16Model:
		return 1
	case color.YCbCrModel:
		return 3
	case color.RGBAModel, color.RGBA64Model, color.NRGBAModel, color.NRGBA64Model, color.CMYKModel:
		return 4
	}
	return 0
}
