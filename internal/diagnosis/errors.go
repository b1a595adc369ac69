package diagnosis

import (
	"errors"
	"fmt"

	"github.com/Brownie44l1/caries-risk/internal/capture"
	"github.com/Brownie44l1/caries-risk/internal/imaging"
	"github.com/Brownie44l1/caries-risk/internal/model"
	"github.com/Brownie44l1/caries-risk/internal/risk"
)

// Stage names the pipeline step a failure came from.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageClassify  Stage = "classify"
	StageRisk      Stage = "risk"
)

// DiagnosisError is the single error kind returned by Diagnose. The stage
// error stays reachable through errors.As.
type DiagnosisError struct {
	Stage Stage
	Err   error
}

func (e *DiagnosisError) Error() string {
	return fmt.Sprintf("diagnosis failed at %s: %v", e.Stage, e.Err)
}

func (e *DiagnosisError) Unwrap() error { return e.Err }

// OperatorMessage turns any capture or diagnosis failure into an instruction
// the operator can act on.
func OperatorMessage(err error) string {
	var (
		captureErr *capture.CaptureError
		loadErr    *imaging.ImageLoadError
		prepErr    *imaging.PreprocessError
		inferErr   *model.InferenceError
		genderErr  *risk.InvalidGenderError
		countErr   *risk.InvalidProbabilityCountError
		rangeErr   *risk.InvalidProbabilityRangeError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &captureErr):
		return "Fingerprint sensor not available. Reconnect the scanner and capture again."
	case errors.As(err, &genderErr):
		return "Please select a gender (Male or Female) before diagnosing."
	case errors.As(err, &loadErr):
		return "The captured fingerprint image could not be read. Please retake the scan."
	case errors.As(err, &prepErr):
		return "The captured fingerprint image has an unsupported format. Please retake the scan."
	case errors.As(err, &countErr), errors.As(err, &rangeErr):
		return "The classifier returned an invalid result. Check the installed model and retry."
	case errors.As(err, &inferErr):
		return "The fingerprint classifier is unavailable. Check the model installation and retry."
	}
	return fmt.Sprintf("Analysis failed: %v", err)
}
