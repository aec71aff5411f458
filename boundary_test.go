package multipart_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	multipart "github.com/DanielN/multipart-handler"
)

var boundaryForm = regexp.MustCompile(`^[0-9A-F]{16}$`)

func TestGenerateBoundary(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		boundary, err := multipart.GenerateBoundary()
		require.NoError(t, err)
		assert.Regexp(t, boundaryForm, boundary)
		assert.False(t, seen[boundary])
		seen[boundary] = true
	}
}

func TestGenerateSafeBoundary(t *testing.T) {
	t.Parallel()

	contents := strings.Repeat("frame data and more frame data\r\n", 100)
	boundary, err := multipart.GenerateSafeBoundary(contents)
	require.NoError(t, err)
	assert.Regexp(t, boundaryForm, boundary)
	assert.NotContains(t, contents, boundary)
}
