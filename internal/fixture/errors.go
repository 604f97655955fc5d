package fixture

import (
	"fmt"

	"github.com/julienkay/com.doji.diffusers/internal/metadata"
	"github.com/julienkay/com.doji.diffusers/pkg/failure"
)

type FixtureErrorCause string

const (
	ErrCauseChecksumMismatch FixtureErrorCause = "checksum mismatch"
	ErrCauseDigestFailure    FixtureErrorCause = "digest failed"
	ErrCauseShapeMismatch    FixtureErrorCause = "shape mismatch"
)

type FixtureError struct {
	Message   string
	Retryable bool
	Cause     FixtureErrorCause
	Name      string
	Err       error
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("fixture error: %s: %s: %s", e.Cause, e.Name, e.Message)
}

func (e *FixtureError) Unwrap() error {
	return e.Err
}

func (e *FixtureError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapFixtureErrorToMetadataCause is observational only.
func mapFixtureErrorToMetadataCause(err *FixtureError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseChecksumMismatch:
		return metadata.CauseIntegrityViolation
	case ErrCauseDigestFailure:
		return metadata.CauseReadFailure
	case ErrCauseShapeMismatch:
		return metadata.CauseShapeMismatch
	default:
		return metadata.CauseUnknown
	}
}
