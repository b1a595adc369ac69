package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/nfnt/resize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func uniformRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func writeBMP(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fingerprint_raw.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func quietNormalizer(opts ...Option) (*Normalizer, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewNormalizer(append([]Option{WithLogger(logger)}, opts...)...), &buf
}

func TestNormalize_FixedShapeForAnyInputSize(t *testing.T) {
	n, _ := quietNormalizer()
	sizes := [][2]int{{3, 3}, {40, 30}, {256, 256}, {1000, 20}, {300, 400}}

	for _, s := range sizes {
		path := writePNG(t, uniformRGBA(s[0], s[1], color.RGBA{10, 20, 30, 255}))
		tensor, err := n.Normalize(path)
		require.NoError(t, err, "%dx%d", s[0], s[1])
		assert.Equal(t, []int64{256, 256, 3}, tensor.Shape())
		assert.Len(t, tensor.Data, 256*256*3)
		assert.Equal(t, []int64{1, 256, 256, 3}, tensor.BatchShape())
	}
}

func TestNormalize_CaffePreprocessing(t *testing.T) {
	n, _ := quietNormalizer()
	path := writePNG(t, uniformRGBA(64, 48, color.RGBA{200, 100, 50, 255}))

	tensor, err := n.Normalize(path)
	require.NoError(t, err)

	// BGR order with ImageNet means subtracted.
	for _, p := range [][2]int{{0, 0}, {128, 128}, {255, 255}, {17, 230}} {
		assert.InDelta(t, 50-103.939, tensor.At(p[0], p[1], 0), 1e-3)
		assert.InDelta(t, 100-116.779, tensor.At(p[0], p[1], 1), 1e-3)
		assert.InDelta(t, 200-123.68, tensor.At(p[0], p[1], 2), 1e-3)
	}
}

func TestNormalize_GrayBMPExpandsToThreeChannels(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 192, 192))
	for i := range gray.Pix {
		gray.Pix[i] = 120
	}
	path := writeBMP(t, gray)

	n, _ := quietNormalizer(WithPreprocessing(TF))
	tensor, err := n.Normalize(path)
	require.NoError(t, err)
	assert.Equal(t, []int64{256, 256, 3}, tensor.Shape())

	want := float32(120)/127.5 - 1
	for c := 0; c < 3; c++ {
		assert.InDelta(t, want, tensor.At(100, 50, c), 1e-3)
	}
}

func TestNormalize_PreservesSpatialLayout(t *testing.T) {
	// Left half black, right half white.
	img := image.NewRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			v := uint8(0)
			if x >= 64 {
				v = 255
			}
			img.SetRGBA(x, y, color.RGBA{v, v, v, 255})
		}
	}
	n, _ := quietNormalizer(WithPreprocessing(TF))
	tensor, err := n.Normalize(writePNG(t, img))
	require.NoError(t, err)

	assert.InDelta(t, -1, tensor.At(128, 10, 0), 1e-3)
	assert.InDelta(t, 1, tensor.At(128, 245, 0), 1e-3)
}

func TestNormalize_MissingFile(t *testing.T) {
	n, _ := quietNormalizer()
	_, err := n.Normalize(filepath.Join(t.TempDir(), "does-not-exist.png"))
	require.Error(t, err)

	var loadErr *ImageLoadError
	require.True(t, errors.As(err, &loadErr), "got %T", err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestNormalize_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.png")
	require.NoError(t, os.WriteFile(path, []byte("definitely not pixels"), 0o644))

	n, _ := quietNormalizer()
	_, err := n.Normalize(path)

	var loadErr *ImageLoadError
	require.True(t, errors.As(err, &loadErr), "got %T", err)
	assert.Equal(t, path, loadErr.Path)
}

// Formats that decode to images the normalizer must refuse. PNG, BMP and
// TIFF encoders cannot produce them.
func init() {
	image.RegisterFormat("emptytest", "EMPTYIMG",
		func(io.Reader) (image.Image, error) {
			return image.NewRGBA(image.Rect(0, 0, 0, 0)), nil
		},
		func(io.Reader) (image.Config, error) {
			return image.Config{ColorModel: color.RGBAModel}, nil
		})
	image.RegisterFormat("alphatest", "ALPHAIMG",
		func(io.Reader) (image.Image, error) {
			return image.NewAlpha(image.Rect(0, 0, 4, 4)), nil
		},
		func(io.Reader) (image.Config, error) {
			return image.Config{ColorModel: color.AlphaModel, Width: 4, Height: 4}, nil
		})
}

func TestNormalize_RejectsUndecodablePixels(t *testing.T) {
	tests := []struct {
		name   string
		magic  string
		reason string
	}{
		{"zero-sized image", "EMPTYIMG", "image has no pixels"},
		{"alpha-only image", "ALPHAIMG", "unsupported color model"},
	}

	n, _ := quietNormalizer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scan.img")
			require.NoError(t, os.WriteFile(path, []byte(tt.magic), 0o644))

			tensor, err := n.Normalize(path)
			assert.Nil(t, tensor)

			var prepErr *PreprocessError
			require.True(t, errors.As(err, &prepErr), "got %T", err)
			assert.Equal(t, path, prepErr.Path)
			assert.Contains(t, prepErr.Reason, tt.reason)

			var loadErr *ImageLoadError
			assert.False(t, errors.As(err, &loadErr))
		})
	}
}

func TestNormalize_WritesDebugImage(t *testing.T) {
	debugPath := filepath.Join(t.TempDir(), "preprocessed.png")
	n, _ := quietNormalizer(WithDebugImage(debugPath))

	src := uniformRGBA(50, 50, color.RGBA{255, 0, 0, 255})
	for y := 0; y < 50; y++ {
		src.SetRGBA(0, y, color.RGBA{0, 0, 255, 255})
	}
	_, err := n.Normalize(writePNG(t, src))
	require.NoError(t, err)

	f, err := os.Open(debugPath)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestNormalize_DebugFailureDoesNotAbort(t *testing.T) {
	debugPath := filepath.Join(t.TempDir(), "missing-dir", "preprocessed.png")
	n, logs := quietNormalizer(WithDebugImage(debugPath))

	tensor, err := n.Normalize(writePNG(t, uniformRGBA(8, 8, color.RGBA{1, 2, 3, 255})))
	require.NoError(t, err)
	assert.NotNil(t, tensor)
	assert.Contains(t, logs.String(), "failed to write debug image")
}

func TestWriteDebugImage_ConstantTensor(t *testing.T) {
	tensor := NewTensor(4, 4, 3)
	for i := range tensor.Data {
		tensor.Data[i] = 7
	}
	path := filepath.Join(t.TempDir(), "flat.png")
	require.NoError(t, WriteDebugImage(tensor, Caffe, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	r, g, b, _ := img.At(2, 2).RGBA()
	assert.Zero(t, r+g+b)
}

func TestPreprocessingByName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "caffe", false},
		{"caffe", "caffe", false},
		{"TF", "tf", false},
		{"torch", "torch", false},
		{"imagenet", "", true},
	}
	for _, tt := range tests {
		p, err := PreprocessingByName(tt.name)
		if tt.wantErr {
			assert.Error(t, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, p.Name)
	}
}

func TestTorchPreprocessing(t *testing.T) {
	v := Torch.apply(255, 0, 128)
	assert.InDelta(t, (1-0.485)/0.229, v[0], 1e-4)
	assert.InDelta(t, (0-0.456)/0.224, v[1], 1e-4)
	assert.InDelta(t, (128.0/255-0.406)/0.225, v[2], 1e-4)
}

func TestFilterByName(t *testing.T) {
	f, err := FilterByName("")
	require.NoError(t, err)
	assert.Equal(t, resize.Bicubic, f)

	f, err = FilterByName("Lanczos3")
	require.NoError(t, err)
	assert.Equal(t, resize.Lanczos3, f)

	_, err = FilterByName("nearest")
	assert.Error(t, err)
}

func TestChannelsOf(t *testing.T) {
	assert.Equal(t, 1, channelsOf(color.GrayModel))
	assert.Equal(t, 3, channelsOf(color.YCbCrModel))
	assert.Equal(t, 3, channelsOf(color.Palette{color.Black, color.White}))
	assert.Equal(t, 4, channelsOf(color.NRGBAModel))
	assert.Equal(t, 0, channelsOf(color.AlphaModel))
}
