package imaging

import "fmt"

// ImageLoadError is returned when the image file is missing, unreadable or
// not a decodable raster image.
type ImageLoadError struct {
	Path string
	Err  error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Path, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// PreprocessError is returned when a decoded image cannot be turned into a
// three-channel tensor.
type PreprocessError struct {
	Path   string
	Reason string
}

func (e *PreprocessError) Error() string {
	return fmt.Sprintf("failed to preprocess image %s: %s", e.Path, e.Reason)
}
