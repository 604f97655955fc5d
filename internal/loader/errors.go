package loader

import (
	"fmt"

	"github.com/julienkay/com.doji.diffusers/internal/metadata"
	"github.com/julienkay/com.doji.diffusers/pkg/failure"
)

type LoadErrorCause string

const (
	ErrCauseFixtureNotFound LoadErrorCause = "fixture not found"
	ErrCauseIsDirectory     LoadErrorCause = "path is a directory"
	ErrCauseReadFailure     LoadErrorCause = "read failed"
	ErrCauseParseFailure    LoadErrorCause = "parse failed"
)

// LoadError is returned for every loader failure. Index and Token are set
// only for ErrCauseParseFailure; Index is -1 otherwise.
type LoadError struct {
	Message   string
	Retryable bool
	Cause     LoadErrorCause
	Path      string
	Index     int
	Token     string
	Err       error
}

func (e *LoadError) Error() string {
	if e.Cause == ErrCauseParseFailure {
		return fmt.Sprintf("load error: %s: %s: token %d %q", e.Cause, e.Path, e.Index, e.Token)
	}
	return fmt.Sprintf("load error: %s: %s", e.Cause, e.Path)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapLoadErrorToMetadataCause is observational only.
func mapLoadErrorToMetadataCause(err *LoadError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseFixtureNotFound, ErrCauseIsDirectory:
		return metadata.CauseFixtureMissing
	case ErrCauseReadFailure:
		return metadata.CauseReadFailure
	case ErrCauseParseFailure:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
