// Package capture locates the fingerprint sensor and hands captured images
// to the diagnosis pipeline.
package capture

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// CaptureError is returned when no usable fingerprint image can be obtained.
type CaptureError struct {
	Reason string
	Err    error
}

func (e *CaptureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("capture failed: %s: %v", e.Reason, e.Err)
	}
	return "capture failed: " + e.Reason
}

func (e *CaptureError) Unwrap() error { return e.Err }

// Capturer yields the path of one readable fingerprint image.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// FileSource captures by staging an image the sensor tooling already wrote
// to disk. Each capture is copied to a fresh file under Dir so a later scan
// overwriting Path does not change an image under diagnosis.
type FileSource struct {
	Path string
	// Dir receives staged copies. Empty means os.TempDir().
	Dir string
}

func (s *FileSource) Capture(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &CaptureError{Reason: "cancelled", Err: err}
	}

	src, err := os.Open(s.Path)
	if err != nil {
		return "", &CaptureError{Reason: "no image from sensor", Err: err}
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", &CaptureError{Reason: "no image from sensor", Err: err}
	}
	if info.IsDir() || info.Size() == 0 {
		return "", &CaptureError{Reason: fmt.Sprintf("%s is not an image file", s.Path)}
	}

	dir := s.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	staged := filepath.Join(dir, "fingerprint-"+uuid.NewString()+filepath.Ext(s.Path))

	dst, err := os.Create(staged)
	if err != nil {
		return "", &CaptureError{Reason: "failed to stage image", Err: err}
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(staged)
		return "", &CaptureError{Reason: "failed to stage image", Err: err}
	}
	if err := dst.Close(); err != nil {
		os.Remove(staged)
		return "", &CaptureError{Reason: "failed to stage image", Err: err}
	}
	return staged, nil
}
