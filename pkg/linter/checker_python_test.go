//go:build !integration

package linter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanPython_CleanCode(t *testing.T) {
	sources := []string{
		"x = 1\n",
		"if x > 0:\n    y = 2\nelse:\n    y = 3\n",
		"for item in items:\n    total += item.value\n",
		"names = [\n    'a',\n    'b',\n]\n",
		"s = \"it's fine\"\n",
		"doc = '''\nmulti\nline\n'''\n",
		"if (x > 0 and\n        y > 0):\n    z = 1\n",
		"result = compute(  # trailing comment with ( unbalanced\n    1, 2)\n",
		"if x: do_thing()\n",
	}
	for _, src := range sources {
		assert.Empty(t, scanPython(src), "should be structurally clean: %q", src)
	}
}

func TestScanPython_MissingColon(t *testing.T) {
	issues := scanPython("x = 1\nif x > 0\n    y = 2\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].line)
	assert.Contains(t, issues[0].message, `expected ':'`)
}

func TestScanPython_MissingColonOnContinuedHeader(t *testing.T) {
	issues := scanPython("if (x > 0 and\n        y > 0)\n    z = 1\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].line, "A continued statement is reported at its first line")
}

func TestScanPython_UnclosedBracket(t *testing.T) {
	issues := scanPython("x = 1\nnames = [\n    'a',\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].line, "An unclosed bracket points at the line that opened it")
	assert.Contains(t, issues[0].message, "'[' was never closed")
}

func TestScanPython_MismatchedBracket(t *testing.T) {
	issues := scanPython("x = (1, 2]\n")
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0].message, "does not match")
}

func TestScanPython_UnterminatedString(t *testing.T) {
	issues := scanPython("x = 'oops\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].line)
	assert.Contains(t, issues[0].message, "unterminated string")
}

func TestScanPython_UnterminatedTripleQuote(t *testing.T) {
	issues := scanPython("x = 1\ndoc = '''\nnever closed\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].line)
	assert.Contains(t, issues[0].message, "triple-quoted")
}

func TestScanPython_CommentsAndStringsHideBrackets(t *testing.T) {
	assert.Empty(t, scanPython("x = ') ] }'  # ( [ {\n"))
}

func TestValidationCodeNeedsAdvisory(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{
			name: "calls validation_error",
			src:  "if age < 0:\n    validation_error('Age cannot be negative')\n",
			want: false,
		},
		{
			name: "transformation only",
			src:  "user_name = user_name.strip()\n",
			want: false,
		},
		{
			name: "define call",
			src:  "define('normalized', raw.lower())\n",
			want: false,
		},
		{
			name: "bare check without feedback",
			src:  "if age < 0:\n    pass\n",
			want: true,
		},
		{
			name: "raises without validation_error",
			src:  "x = fix(x)\nif x < 0:\n    raise Exception('bad')\n",
			want: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, validationCodeNeedsAdvisory(tc.src))
		})
	}
}
