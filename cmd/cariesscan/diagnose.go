package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/Brownie44l1/caries-risk/internal/capture"
	"github.com/Brownie44l1/caries-risk/internal/diagnosis"
	"github.com/Brownie44l1/caries-risk/internal/imaging"
	"github.com/Brownie44l1/caries-risk/internal/model"
	"github.com/Brownie44l1/caries-risk/internal/risk"
	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Classify a captured fingerprint and report the caries risk",
	Example: "  cariesscan diagnose --gender female --image /tmp/fingerprint_raw.bmp\n" +
		"  cariesscan diagnose --gender male --image scan.png --wait-sensor --json",
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().String("image", "", "Fingerprint image written by the sensor")
	diagnoseCmd.Flags().String("gender", "", "Patient gender: male or female")
	diagnoseCmd.Flags().String("debug-image", "", "Write the preprocessed image to this PNG (overrides CARIES_DEBUG_IMAGE)")
	diagnoseCmd.Flags().Bool("wait-sensor", false, "Wait for the fingerprint sensor to be connected first")
	diagnoseCmd.Flags().Bool("json", false, "Print the result as JSON")
	_ = diagnoseCmd.MarkFlagRequired("image")
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	imagePath, _ := flags.GetString("image")
	gender, _ := flags.GetString("gender")
	if v, _ := flags.GetString("debug-image"); v != "" {
		cfg.Imaging.DebugImagePath = v
	}

	// Fail before the expensive model load when the operator forgot a step.
	if _, err := risk.ParseGender(gender); err != nil {
		return errors.New(diagnosis.OperatorMessage(err))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	if wait, _ := flags.GetBool("wait-sensor"); wait {
		fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for the fingerprint sensor...")
		if _, err := capture.WaitForSensor(ctx, capture.SystemPorts, cfg.Sensor.PollInterval, logger); err != nil {
			return errors.New(diagnosis.OperatorMessage(err))
		}
	}

	var capturer capture.Capturer = &capture.FileSource{Path: imagePath, Dir: cfg.Sensor.StagingDir}
	staged, err := capturer.Capture(ctx)
	if err != nil {
		logger.Error("capture failed", "error", err)
		return errors.New(diagnosis.OperatorMessage(err))
	}
	defer os.Remove(staged)

	classifier, err := model.NewONNXClassifier(model.ONNXConfig{
		ModelPath:    cfg.Model.Path,
		MetadataPath: cfg.Model.MetadataPath,
		LibraryPath:  cfg.Model.LibraryPath,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to load classifier", "error", err)
		return errors.New(diagnosis.OperatorMessage(err))
	}
	defer classifier.Close()

	filter, err := imaging.FilterByName(cfg.Imaging.ResizeFilter)
	if err != nil {
		return err
	}
	normalizerOpts := []imaging.Option{
		imaging.WithSize(classifier.Metadata.ImageSize),
		imaging.WithFilter(filter),
		imaging.WithPreprocessing(classifier.Preprocessing()),
		imaging.WithLogger(logger),
	}
	if cfg.Imaging.DebugImagePath != "" {
		normalizerOpts = append(normalizerOpts, imaging.WithDebugImage(cfg.Imaging.DebugImagePath))
	}

	svc := diagnosis.NewService(
		imaging.NewNormalizer(normalizerOpts...),
		classifier,
		risk.NewCalculator(risk.WithSumTolerance(cfg.Risk.SumTolerance), risk.WithLogger(logger)),
		logger,
	)

	result, err := svc.Diagnose(staged, gender)
	if err != nil {
		return errors.New(diagnosis.OperatorMessage(err))
	}

	if asJSON, _ := flags.GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "📋 Analysis Results:\n%s\n", result)
	return nil
}
