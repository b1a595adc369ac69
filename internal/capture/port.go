package capture

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.bug.st/serial/enumerator"
)

// Silicon Labs CP210x USB-UART bridge used by the fingerprint sensor.
const (
	sensorVID = "10C4"
	sensorPID = "EA60"
)

// PortLister returns the serial ports currently attached.
type PortLister func() ([]*enumerator.PortDetails, error)

// SystemPorts lists ports through the OS enumerator.
func SystemPorts() ([]*enumerator.PortDetails, error) {
	return enumerator.GetDetailedPortsList()
}

// DetectSensorPort returns the device name of the first port that looks like
// the sensor's USB bridge.
func DetectSensorPort(list PortLister) (string, error) {
	ports, err := list()
	if err != nil {
		return "", &CaptureError{Reason: "failed to list serial ports", Err: err}
	}
	for _, p := range ports {
		if isSensor(p) {
			return p.Name, nil
		}
	}
	return "", &CaptureError{Reason: "sensor not connected"}
}

func isSensor(p *enumerator.PortDetails) bool {
	if !p.IsUSB {
		return false
	}
	if strings.EqualFold(p.VID, sensorVID) && strings.EqualFold(p.PID, sensorPID) {
		return true
	}
	product := strings.ToUpper(p.Product)
	return strings.Contains(product, "CP210") || strings.Contains(product, "SILICON LABS")
}

// WaitForSensor polls every interval until the sensor shows up or ctx ends.
func WaitForSensor(ctx context.Context, list PortLister, interval time.Duration, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		port, err := DetectSensorPort(list)
		if err == nil {
			logger.Info("sensor connected", "port", port)
			return port, nil
		}
		logger.Debug("sensor not detected", "error", err)

		select {
		case <-ctx.Done():
			return "", &CaptureError{Reason: fmt.Sprintf("sensor not detected after waiting: %v", ctx.Err()), Err: err}
		case <-ticker.C:
		}
	}
}
