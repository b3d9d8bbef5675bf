//go:build !integration

package linter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanJavaScript_Clean(t *testing.T) {
	sources := []string{
		`val("user_name") !== ""`,
		`val('a') > 0 && val('b') < 10`,
		`(val("x") || val("y")) === true`,
		`val("s").indexOf("it's") >= 0 // comment with (`,
	}
	for _, src := range sources {
		assert.Empty(t, scanJavaScript(src), "should be clean: %q", src)
	}
}

func TestScanJavaScript_UnclosedBracket(t *testing.T) {
	issues := scanJavaScript(`val("x" > 0`)
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0].message, "never closed")
}

func TestScanJavaScript_UnterminatedString(t *testing.T) {
	issues := scanJavaScript(`val("x) > 0`)
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0].message, "unterminated string")
}

func TestScreenVarCandidates(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []string
	}{
		{
			name: "plain variable",
			expr: "user_name",
			want: []string{"user_name"},
		},
		{
			name: "dotted path yields prefixes",
			expr: "user.address.city",
			want: []string{"user.address.city", "user.address", "user"},
		},
		{
			name: "indexed paths strip to base",
			expr: `children[i].parents["Other"]`,
			want: []string{`children[i].parents["Other"]`, "children[i].parents", "children[i]", "children"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := screenVarCandidates(tc.expr)
			for _, want := range tc.want {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestCheckClientExpression_ValArgumentMustBeQuoted(t *testing.T) {
	c := NewCollector("test.yml")
	l := &fileLinter{c: c}

	l.checkClientExpression("js show if", "val(user_name)", 10, nil)

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, 10, diags[0].Line)
	assert.Contains(t, diags[0].Message, "quoted")
}

func TestCheckClientExpression_MakoMaskedBeforeScanning(t *testing.T) {
	c := NewCollector("test.yml")
	l := &fileLinter{c: c}

	l.checkClientExpression("js show if", `val("x") === ${ server_side_value }`, 1, map[string]bool{"x": true})

	assert.Empty(t, c.Diagnostics(), "Mako substitutions are resolved server-side and must not trip the JS scan")
}

func TestCheckClientExpression_EmptyScreenSetSkipsMembership(t *testing.T) {
	c := NewCollector("test.yml")
	l := &fileLinter{c: c}

	l.checkClientExpression("js show if", `val("anything")`, 1, map[string]bool{})

	assert.Empty(t, c.Diagnostics(), "an empty set carries no membership information")
}

func TestCheckClientExpression_ScreenVariableMatchesPrefix(t *testing.T) {
	c := NewCollector("test.yml")
	l := &fileLinter{c: c}

	screen := map[string]bool{"users[0].name": true}
	l.checkClientExpression("js show if", `val("users[0].name")`, 1, screen)

	assert.Empty(t, c.Diagnostics())
}
