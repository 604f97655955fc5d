package fileutil

import (
	"fmt"

	"github.com/julienkay/com.doji.diffusers/pkg/failure"
)

type FileErrorCause string

const (
	ErrCausePathNotFound FileErrorCause = "path not found"
	ErrCauseIsDirectory  FileErrorCause = "path is a directory"
	ErrCausePathError    FileErrorCause = "path error"
)

type FileError struct {
	Message   string
	Retryable bool
	Cause     FileErrorCause
	Path      string
	Err       error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file error: %s: %s", e.Cause, e.Path)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (e *FileError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
