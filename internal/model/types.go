package model

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/Brownie44l1/caries-risk/internal/imaging"
	"github.com/Brownie44l1/caries-risk/internal/pattern"
)

// Metadata describes the exported classifier and is stored as JSON next to
// the model file.
type Metadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Classes     []string `json:"classes"`
	ImageSize   int      `json:"image_size"`
	InputName   string   `json:"input_name"`
	OutputName  string   `json:"output_name"`
	Preprocess  string   `json:"preprocess"`
}

// DefaultMetadata matches the ResNet50 fingerprint classifier.
func DefaultMetadata() Metadata {
	return Metadata{
		InputShape:  []int64{1, imaging.DefaultSize, imaging.DefaultSize, imaging.Channels},
		OutputShape: []int64{1, pattern.Count},
		Classes:     pattern.Names(),
		ImageSize:   imaging.DefaultSize,
		InputName:   "input",
		OutputName:  "output",
		Preprocess:  "caffe",
	}
}

// LoadMetadata reads path and fills unset fields from DefaultMetadata.
func LoadMetadata(path string) (Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata: %w", err)
	}

	metadata := DefaultMetadata()
	if err := json.Unmarshal(raw, &metadata); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata: %w", err)
	}
	if err := metadata.Validate(); err != nil {
		return Metadata{}, err
	}
	return metadata, nil
}

// Validate checks that the model agrees with the pattern class order and
// takes a single NHWC image.
func (m Metadata) Validate() error {
	if !slices.Equal(m.Classes, pattern.Names()) {
		return fmt.Errorf("model classes %v do not match %v", m.Classes, pattern.Names())
	}
	want := []int64{1, int64(m.ImageSize), int64(m.ImageSize), imaging.Channels}
	if m.ImageSize <= 0 || !slices.Equal(m.InputShape, want) {
		return fmt.Errorf("input shape %v does not match image size %d (want %v)", m.InputShape, m.ImageSize, want)
	}
	if !slices.Equal(m.OutputShape, []int64{1, pattern.Count}) {
		return fmt.Errorf("output shape %v, want [1 %d]", m.OutputShape, pattern.Count)
	}
	if _, err := imaging.PreprocessingByName(m.Preprocess); err != nil {
		return err
	}
	return nil
}

// InputSize returns the number of float32 values in one input tensor.
func (m Metadata) InputSize() int {
	size := 1
	for _, dim := range m.InputShape {
		size *= int(dim)
	}
	return size
}
