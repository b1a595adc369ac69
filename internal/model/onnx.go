// Package model runs the fingerprint pattern classifier.
package model

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"

	"github.com/Brownie44l1/caries-risk/internal/imaging"
	"github.com/Brownie44l1/caries-risk/internal/pattern"
	ort "github.com/yalue/onnxruntime_go"
)

// ClassifierFunc adapts a function to the Classify method set.
type ClassifierFunc func(*imaging.Tensor) (pattern.Probabilities, error)

func (f ClassifierFunc) Classify(t *imaging.Tensor) (pattern.Probabilities, error) {
	return f(t)
}

type ONNXConfig struct {
	ModelPath    string
	MetadataPath string
	// LibraryPath points at the onnxruntime shared library. Empty uses the
	// platform default lookup.
	LibraryPath string
	Logger      *slog.Logger
}

// ONNXClassifier owns one onnxruntime session with preallocated tensors.
// It is built once and reused for every diagnosis until Close.
type ONNXClassifier struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	Metadata     Metadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	logger       *slog.Logger
	// ownsEnv is set when this classifier initialized the runtime
	// environment and must tear it down on Close.
	ownsEnv bool
}

func NewONNXClassifier(cfg ONNXConfig) (*ONNXClassifier, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, &InferenceError{Op: "load model", Err: err}
	}

	metadata, err := LoadMetadata(cfg.MetadataPath)
	if err != nil {
		return nil, &InferenceError{Op: "load metadata", Err: err}
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	ownsEnv := false
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, &InferenceError{Op: "init runtime", Err: fmt.Errorf("failed to initialize ONNX environment: %w", err)}
		}
		ownsEnv = true
	}
	releaseEnv := func() {
		if ownsEnv {
			ort.DestroyEnvironment()
		}
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		releaseEnv()
		return nil, &InferenceError{Op: "load model", Err: fmt.Errorf("failed to create input tensor: %w", err)}
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		releaseEnv()
		return nil, &InferenceError{Op: "load model", Err: fmt.Errorf("failed to create output tensor: %w", err)}
	}

	session, err := ort.NewAdvancedSession(cfg.ModelPath,
		[]string{metadata.InputName}, []string{metadata.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		releaseEnv()
		return nil, &InferenceError{Op: "load model", Err: fmt.Errorf("failed to create ONNX session: %w", err)}
	}

	logger.Info("classifier loaded",
		"model", cfg.ModelPath,
		"classes", metadata.Classes,
		"input_shape", metadata.InputShape,
		"preprocess", metadata.Preprocess)

	return &ONNXClassifier{
		session:      session,
		Metadata:     metadata,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		logger:       logger,
		ownsEnv:      ownsEnv,
	}, nil
}

// Preprocessing returns the input transform the model was trained with.
func (c *ONNXClassifier) Preprocessing() imaging.Preprocessing {
	p, err := imaging.PreprocessingByName(c.Metadata.Preprocess)
	if err != nil {
		// Validate already rejected unknown modes.
		return imaging.Caffe
	}
	return p
}

// Classify runs one batch-of-one inference and returns the probability row.
// Calls are serialised because the session tensors are shared.
func (c *ONNXClassifier) Classify(t *imaging.Tensor) (pattern.Probabilities, error) {
	if !slices.Equal(t.BatchShape(), c.Metadata.InputShape) || len(t.Data) != c.Metadata.InputSize() {
		return nil, &InferenceError{
			Op:  "run",
			Err: fmt.Errorf("input shape %v, model expects %v", t.BatchShape(), c.Metadata.InputShape),
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	copy(c.inputTensor.GetData(), t.Data)

	if err := c.session.Run(); err != nil {
		return nil, &InferenceError{Op: "run", Err: err}
	}

	probs, err := firstRow(c.outputTensor.GetData())
	if err != nil {
		return nil, &InferenceError{Op: "read output", Err: err}
	}

	c.logger.Debug("classifier output", "probabilities", probs)
	return probs, nil
}

// firstRow interprets a (1, pattern.Count) output buffer.
func firstRow(out []float32) (pattern.Probabilities, error) {
	if len(out) != pattern.Count {
		return nil, fmt.Errorf("expected %d outputs, got %d", pattern.Count, len(out))
	}
	probs := make(pattern.Probabilities, pattern.Count)
	for i, v := range out {
		probs[i] = float64(v)
	}
	return probs, nil
}

func (c *ONNXClassifier) Close() {
	if c.inputTensor != nil {
		c.inputTensor.Destroy()
	}
	if c.outputTensor != nil {
		c.outputTensor.Destroy()
	}
	if c.session != nil {
		c.session.Destroy()
	}
	if c.ownsEnv {
		ort.DestroyEnvironment()
		c.ownsEnv = false
	}
}
