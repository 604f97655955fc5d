package tensor

import (
	"fmt"

	"github.com/julienkay/com.doji.diffusers/pkg/failure"
)

type TensorErrorCause string

const (
	ErrCauseInvalidShape  TensorErrorCause = "invalid shape"
	ErrCauseShapeMismatch TensorErrorCause = "shape mismatch"
	ErrCauseRankTooLow    TensorErrorCause = "rank too low"
	ErrCauseIndexRange    TensorErrorCause = "index out of range"
)

type TensorError struct {
	Message   string
	Retryable bool
	Cause     TensorErrorCause
}

func (e *TensorError) Error() string {
	return fmt.Sprintf("tensor error: %s: %s", e.Cause, e.Message)
}

func (e *TensorError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
