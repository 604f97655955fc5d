package loader

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/julienkay/com.doji.diffusers/internal/metadata"
	"github.com/julienkay/com.doji.diffusers/pkg/failure"
	"github.com/julienkay/com.doji.diffusers/pkg/fileutil"
)

/*
Responsibilities
- Read a fixture text file of comma-separated floating-point values
- Drop blank lines, trim the rest, and join them back together
- Parse the joined content into a flat []float64 in file order

Lines are joined with no separator. A value wrapped across a line break
must therefore end its line with a delimiter; "1.0,2.0\n3.0" joins to
"1.0,2.03.0" and fails to parse.
*/

const delimiter = ","

type Loader struct {
	metadataSink metadata.MetadataSink
}

func NewLoader(metadataSink metadata.MetadataSink) *Loader {
	if metadataSink == nil {
		metadataSink = &metadata.NoopSink{}
	}
	return &Loader{
		metadataSink: metadataSink,
	}
}

// LoadData loads the fixture at path without recording metadata.
func LoadData(path string) ([]float64, error) {
	values, err := NewLoader(nil).Load(path)
	if err != nil {
		return nil, err
	}
	return values, nil
}

// Load reads and parses the fixture at path. On failure no partial result
// is returned.
func (l *Loader) Load(path string) ([]float64, failure.ClassifiedError) {
	start := time.Now()
	values, err := load(path)
	if err != nil {
		l.metadataSink.RecordError(
			time.Now(),
			"loader",
			"Loader.Load",
			mapLoadErrorToMetadataCause(err),
			err.Error(),
			errorAttrs(err),
		)
		return nil, err
	}
	l.metadataSink.RecordLoad(
		metadata.LoadEvent{
			Path:       path,
			ValueCount: len(values),
			Duration:   time.Since(start),
		},
		nil,
	)
	return values, nil
}

func load(path string) ([]float64, *LoadError) {
	if err := fileutil.CheckRegularFile(path); err != nil {
		return nil, FromFileError(path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{
			Message: err.Error(),
			Cause:   ErrCauseReadFailure,
			Path:    path,
			Index:   -1,
			Err:     err,
		}
	}
	defer f.Close()

	values, parseErr := parse(f)
	if parseErr != nil {
		parseErr.Path = path
		return nil, parseErr
	}
	return values, nil
}

// Parse applies the fixture format to already-open content.
func Parse(r io.Reader) ([]float64, failure.ClassifiedError) {
	values, err := parse(r)
	if err != nil {
		return nil, err
	}
	return values, nil
}

func parse(r io.Reader) ([]float64, *LoadError) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{
			Message: err.Error(),
			Cause:   ErrCauseReadFailure,
			Index:   -1,
			Err:     err,
		}
	}
	return parseJoined(joinLines(string(raw)))
}

// joinLines drops lines that are blank after trimming and concatenates
// the rest without inserting anything between them.
func joinLines(content string) string {
	lines := strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
	var b strings.Builder
	b.Grow(len(content))
	for _, line := range lines {
		b.WriteString(strings.TrimSpace(line))
	}
	return b.String()
}

func parseJoined(joined string) ([]float64, *LoadError) {
	if joined == "" {
		return []float64{}, nil
	}

	tokens := strings.Split(joined, delimiter)
	// one trailing delimiter closes the last value
	if len(tokens) > 1 && strings.TrimSpace(tokens[len(tokens)-1]) == "" {
		tokens = tokens[:len(tokens)-1]
	}

	values := make([]float64, len(tokens))
	for i, token := range tokens {
		token = strings.TrimSpace(token)
		v, err := strconv.ParseFloat(token, 64)
		if err != nil {
			return nil, &LoadError{
				Message: err.Error(),
				Cause:   ErrCauseParseFailure,
				Index:   i,
				Token:   token,
				Err:     err,
			}
		}
		values[i] = v
	}
	return values, nil
}

// FromFileError converts a fileutil check failure into a LoadError for path.
func FromFileError(path string, err failure.ClassifiedError) *LoadError {
	cause := ErrCauseReadFailure
	var fileErr *fileutil.FileError
	if errors.As(err, &fileErr) {
		switch fileErr.Cause {
		case fileutil.ErrCausePathNotFound:
			cause = ErrCauseFixtureNotFound
		case fileutil.ErrCauseIsDirectory:
			cause = ErrCauseIsDirectory
		}
	}
	return &LoadError{
		Message: err.Error(),
		Cause:   cause,
		Path:    path,
		Index:   -1,
		Err:     err,
	}
}

func errorAttrs(err *LoadError) []metadata.Attribute {
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrPath, err.Path),
	}
	if err.Cause == ErrCauseParseFailure {
		attrs = append(attrs,
			metadata.NewAttr(metadata.AttrIndex, strconv.Itoa(err.Index)),
			metadata.NewAttr(metadata.AttrToken, err.Token),
		)
	}
	return attrs
}
