package loader_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julienkay/com.doji.diffusers/internal/metadata"
	"github.com/stretchr/testify/require"
)

// writeFixture writes content to a fresh file under t.TempDir and returns its path.
func writeFixture(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	recordErrorCalled  bool
	recordErrorPackage string
	recordErrorAction  string
	recordErrorCause   metadata.ErrorCause
	recordErrorAttrs   []metadata.Attribute
	recordLoadCalled   bool
	recordLoadEvent    metadata.LoadEvent
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.recordErrorCalled = true
	m.recordErrorPackage = packageName
	m.recordErrorAction = action
	m.recordErrorCause = cause
	m.recordErrorAttrs = attrs
}

func (m *metadataSinkMock) RecordLoad(event metadata.LoadEvent, attrs []metadata.Attribute) {
	m.recordLoadCalled = true
	m.recordLoadEvent = event
}

func attrValue(attrs []metadata.Attribute, key metadata.AttributeKey) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
