//go:build !integration

package linter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTemplate_CleanTemplates(t *testing.T) {
	templates := []string{
		"Hello, ${ user }!\n",
		"Hello, ${ user.name_full() }!\n",
		"% if user.age > 18:\nAdult.\n% else:\nMinor.\n% endif\n",
		"% for item in items:\n* ${ item }\n% endfor\n",
		"<% counter = 0 %>\n",
		"<%def name=\"greeting()\">Hi</%def>\n",
		"%% literal percent line\n",
		"100% organic markdown\n",
		"${ children[i].parents[\"Other Parent\"] }\n",
	}
	for _, tmpl := range templates {
		assert.Empty(t, scanTemplate(tmpl), "should be clean: %q", tmpl)
	}
}

func TestScanTemplate_UnterminatedSubstitution(t *testing.T) {
	issues := scanTemplate("one\ntwo ${ broken\nthree\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].line)
	assert.Contains(t, issues[0].message, "unterminated ${...}")
}

func TestScanTemplate_NestedBracesTerminate(t *testing.T) {
	assert.Empty(t, scanTemplate("${ format(d, {'a': 1}) }\n"))
}

func TestScanTemplate_QuotedBraceIgnored(t *testing.T) {
	assert.Empty(t, scanTemplate("${ x['}'] }\n"))
}

func TestScanTemplate_UnterminatedCodeTag(t *testing.T) {
	issues := scanTemplate("intro\n<% counter = 0\nrest\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].line)
	assert.Contains(t, issues[0].message, "<% ... %>")
}

func TestScanTemplate_UnclosedDirective(t *testing.T) {
	issues := scanTemplate("% if x:\ncontent\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 1, issues[0].line)
	assert.Contains(t, issues[0].message, "'% if' is never closed with '% endif'")
}

func TestScanTemplate_MismatchedEndDirective(t *testing.T) {
	issues := scanTemplate("% for x in y:\ncontent\n% endif\n")
	require.NotEmpty(t, issues)
	assert.Contains(t, issues[0].message, "'% endif' closes '% for'")
}

func TestScanTemplate_ElseWithoutIf(t *testing.T) {
	issues := scanTemplate("% else:\ncontent\n")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].message, "'% else' without a matching '% if'")
}

func TestScanTemplate_EndDirectiveWithoutOpener(t *testing.T) {
	issues := scanTemplate("% endfor\n")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].message, "'% endfor' without a matching '% for'")
}

func TestScanTemplate_SpaceOutsideQuotesAdvisory(t *testing.T) {
	issues := scanTemplate("${ children[i].parents[Other Parent] }\n")
	require.Len(t, issues, 1)
	assert.True(t, issues[0].advisory)
	assert.Contains(t, issues[0].message, "space outside quotes")
}

func TestScanTemplate_ExpressionsWithOperatorsNotFlagged(t *testing.T) {
	assert.Empty(t, scanTemplate("${ comma_and_list(a, b) }\n"))
	assert.Empty(t, scanTemplate("${ x + y }\n"))
}

func TestScanTemplate_DirectiveLinesTrackLineNumbers(t *testing.T) {
	issues := scanTemplate("line one\nline two\n% while x:\n")
	require.Len(t, issues, 1)
	assert.Equal(t, 3, issues[0].line)
}
