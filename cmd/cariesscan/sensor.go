package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/Brownie44l1/caries-risk/internal/capture"
	"github.com/Brownie44l1/caries-risk/internal/diagnosis"
	"github.com/spf13/cobra"
)

var sensorCmd = &cobra.Command{
	Use:   "sensor",
	Short: "Show the serial port of the connected fingerprint sensor",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		var port string
		if wait, _ := cmd.Flags().GetBool("wait"); wait {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			port, err = capture.WaitForSensor(ctx, capture.SystemPorts, cfg.Sensor.PollInterval, logger)
		} else {
			port, err = capture.DetectSensorPort(capture.SystemPorts)
		}
		if err != nil {
			return errors.New(diagnosis.OperatorMessage(err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Sensor connected on %s\n", port)
		return nil
	},
}

func init() {
	sensorCmd.Flags().Bool("wait", false, "Poll until the sensor is connected")
}
