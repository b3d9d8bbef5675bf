//go:build !integration

package constants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkippedFileBasenamesAreBasenames(t *testing.T) {
	for _, name := range SkippedFileBasenames {
		assert.False(t, strings.Contains(name, "/"), "skip list entry %q must be a basename", name)
		assert.True(t, strings.HasSuffix(name, ".yml"), "skip list entry %q should be a .yml file", name)
	}
}

func TestJinjaHeaderExactForm(t *testing.T) {
	// The marker is matched case-sensitively against the first line.
	assert.Equal(t, "# use jinja", JinjaHeader)
}

func TestTabReplacementDoesNotContainNewlines(t *testing.T) {
	assert.NotContains(t, TabReplacement, "\n")
}
