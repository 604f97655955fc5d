package fixture_test

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/julienkay/com.doji.diffusers/internal/config"
	"github.com/julienkay/com.doji.diffusers/internal/metadata"
	"github.com/stretchr/testify/require"
)

// testdataRoot is the directory holding the checked-in scheduler samples.
func testdataRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs("testdata")
	require.NoError(t, err)
	return root
}

func testdataConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.WithDefault().WithResourceRoot(testdataRoot(t))
}

// writeSamples writes count values, eight per line with a delimiter at each
// line end, into name under a fresh resource root and returns the root.
func writeSamples(t *testing.T, name string, count int) string {
	t.Helper()
	root := t.TempDir()
	var b strings.Builder
	for i := 0; i < count; i++ {
		b.WriteString(strconv.FormatFloat(float64(i)/10, 'f', -1, 64))
		if i < count-1 {
			b.WriteString(",")
		}
		if i%8 == 7 {
			b.WriteString("\n")
		}
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte(b.String()), 0644))
	return root
}

// metadataSinkMock is a mock for metadata.MetadataSink
type metadataSinkMock struct {
	errorCauses []metadata.ErrorCause
	errorAttrs  [][]metadata.Attribute
	loads       []metadata.LoadEvent
}

func (m *metadataSinkMock) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	m.errorCauses = append(m.errorCauses, cause)
	m.errorAttrs = append(m.errorAttrs, attrs)
}

func (m *metadataSinkMock) RecordLoad(event metadata.LoadEvent, attrs []metadata.Attribute) {
	m.loads = append(m.loads, event)
}
