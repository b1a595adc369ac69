package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// WriteDebugImage renders t as a PNG at path. Values are min-max rescaled to
// 0-255 over the whole tensor; a constant tensor renders black.
func WriteDebugImage(t *Tensor, prep Preprocessing, path string) error {
	lo, hi := t.Range()
	scale := float32(0)
	if hi > lo {
		scale = 255 / (hi - lo)
	}

	img := image.NewNRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			v := prep.toRGB([3]float32{t.At(y, x, 0), t.At(y, x, 1), t.At(y, x, 2)})
			img.SetNRGBA(x, y, color.NRGBA{
				R: toByte((v[0] - lo) * scale),
				G: toByte((v[1] - lo) * scale),
				B: toByte((v[2] - lo) * scale),
				A: 0xff,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create debug image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode debug image: %w", err)
	}
	return f.Close()
}

func toByte(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}
