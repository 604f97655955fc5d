package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/julienkay/com.doji.diffusers/pkg/failure"
)

// GetFileExtension extracts the file extension from a path, or empty string if none
func GetFileExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return ""
	}
	// Remove the leading dot
	return strings.TrimPrefix(ext, ".")
}

// CheckRegularFile verifies that path exists and is not a directory.
// A missing path is reported with ErrCausePathNotFound so callers can tell
// it apart from other stat failures.
func CheckRegularFile(path string) failure.ClassifiedError {
	info, err := os.Stat(path)
	if err != nil {
		cause := ErrCausePathError
		if errors.Is(err, fs.ErrNotExist) {
			cause = ErrCausePathNotFound
		}
		return &FileError{
			Message:   fmt.Sprintf("%v", err),
			Retryable: false,
			Cause:     cause,
			Path:      path,
			Err:       err,
		}
	}
	if info.IsDir() {
		return &FileError{
			Message:   "expected a regular file",
			Retryable: false,
			Cause:     ErrCauseIsDirectory,
			Path:      path,
		}
	}
	return nil
}
