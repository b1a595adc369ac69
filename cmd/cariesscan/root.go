package main

import (
	"log/slog"
	"os"

	"github.com/Brownie44l1/caries-risk/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cariesscan",
	Short: "Dermatoglyphic dental caries risk screening",
	Long: "cariesscan classifies a captured fingerprint's ridge pattern and derives " +
		"a caries-risk percentage from it.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("model", "", "Path to the ONNX model (overrides CARIES_MODEL_PATH)")
	rootCmd.PersistentFlags().String("metadata", "", "Path to the model metadata JSON (overrides CARIES_METADATA_PATH)")
	rootCmd.PersistentFlags().String("ort-lib", "", "Path to the onnxruntime shared library (overrides CARIES_ORT_LIBRARY)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides CARIES_LOG_LEVEL)")

	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(sensorCmd)
	rootCmd.AddCommand(tableCmd)
}

// loadConfig reads the environment and applies flag overrides, then installs
// the process logger.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("model"); v != "" {
		cfg.Model.Path = v
	}
	if v, _ := flags.GetString("metadata"); v != "" {
		cfg.Model.MetadataPath = v
	}
	if v, _ := flags.GetString("ort-lib"); v != "" {
		cfg.Model.LibraryPath = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}

	logger, err := config.NewLogger(cfg.Log, os.Stderr)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(logger)
	return cfg, logger, nil
}
