package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Brownie44l1/caries-risk/internal/risk"
)

type Config struct {
	Model   ModelConfig
	Imaging ImagingConfig
	Risk    RiskConfig
	Sensor  SensorConfig
	Log     LogConfig
}

type ModelConfig struct {
	Path         string
	MetadataPath string
	// LibraryPath is the onnxruntime shared library. Optional.
	LibraryPath string
}

type ImagingConfig struct {
	ResizeFilter string
	// DebugImagePath receives a PNG of the preprocessed tensor. Optional.
	DebugImagePath string
}

type RiskConfig struct {
	SumTolerance float64
}

type SensorConfig struct {
	PollInterval time.Duration
	StagingDir   string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads CARIES_* environment variables over the defaults. Model paths
// default to models/ under the project root.
func Load() (*Config, error) {
	root := projectRoot()

	tolerance, err := getFloat("CARIES_SUM_TOLERANCE", risk.DefaultSumTolerance)
	if err != nil {
		return nil, err
	}
	interval, err := getDuration("CARIES_SENSOR_POLL", time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		Model: ModelConfig{
			Path:         getEnv("CARIES_MODEL_PATH", filepath.Join(root, "models", "fingerprint_resnet50.onnx")),
			MetadataPath: getEnv("CARIES_METADATA_PATH", filepath.Join(root, "models", "model_metadata.json")),
			LibraryPath:  getEnv("CARIES_ORT_LIBRARY", ""),
		},
		Imaging: ImagingConfig{
			ResizeFilter:   getEnv("CARIES_RESIZE_FILTER", "bicubic"),
			DebugImagePath: getEnv("CARIES_DEBUG_IMAGE", ""),
		},
		Risk: RiskConfig{
			SumTolerance: tolerance,
		},
		Sensor: SensorConfig{
			PollInterval: interval,
			StagingDir:   getEnv("CARIES_STAGING_DIR", os.TempDir()),
		},
		Log: LogConfig{
			Level:  getEnv("CARIES_LOG_LEVEL", "info"),
			Format: getEnv("CARIES_LOG_FORMAT", "text"),
		},
	}, nil
}

// projectRoot is the working directory, or two levels up when running from
// cmd/cariesscan.
func projectRoot() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if filepath.Base(wd) == "cariesscan" && filepath.Base(filepath.Dir(wd)) == "cmd" {
		return filepath.Join(wd, "..", "..")
	}
	return wd
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a non-negative number", key, value)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive duration", key, value)
	}
	return d, nil
}
