//go:build !integration

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocuments_NoSeparatorIsSingleDocument(t *testing.T) {
	f := NewSourceFile("test.yml", "question: Hi\nsubquestion: There\n")
	docs := f.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, 1, docs[0].StartLine)
}

func TestDocuments_SeparatorCountProperty(t *testing.T) {
	// N separators always yield N+1 documents.
	f := NewSourceFile("test.yml", "a: 1\n---\nb: 2\n---\nc: 3\n")
	docs := f.Documents()
	require.Len(t, docs, 3)
	assert.Equal(t, 1, docs[0].StartLine)
	// Each later document starts on its separator line; relative line 2 is
	// the first line after the separator.
	assert.Equal(t, 2, docs[1].StartLine)
	assert.Equal(t, 3, docs[1].AbsLine(2))
	assert.Equal(t, 4, docs[2].StartLine)
	assert.Equal(t, 5, docs[2].AbsLine(2))
}

func TestDocuments_SeparatorWithTrailingSpaces(t *testing.T) {
	f := NewSourceFile("test.yml", "a: 1\n---  \nb: 2\n")
	docs := f.Documents()
	assert.Len(t, docs, 2)
}

func TestDocuments_IndentedDashesAreNotSeparators(t *testing.T) {
	f := NewSourceFile("test.yml", "a: |\n  ---\nb: 2\n")
	docs := f.Documents()
	assert.Len(t, docs, 1)
}

func TestRewriteSegment_TabsPreserveLineCount(t *testing.T) {
	in := "question: Hi\nfields:\n\t- Name: user\n"
	out := rewriteSegment(in)
	assert.NotContains(t, out, "\t")
	assert.Equal(t, countLines(in), countLines(out))
}

func TestRewriteSegment_TrailingDotsStripped(t *testing.T) {
	out := rewriteSegment("question: Hi\n...")
	assert.Equal(t, "question: Hi", out)
}

func TestRewriteSegment_DotsInsideContentKept(t *testing.T) {
	in := "question: Wait...\nsubquestion: More\n"
	assert.Equal(t, in, rewriteSegment(in))
}

func countLines(s string) int {
	n := 1
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	return n
}

func TestHasJinjaHeader(t *testing.T) {
	assert.True(t, NewSourceFile("a.yml", "# use jinja\nquestion: Hi\n").HasJinjaHeader())
	assert.True(t, NewSourceFile("a.yml", "# use jinja").HasJinjaHeader())
	assert.False(t, NewSourceFile("a.yml", "# USE JINJA\nquestion: Hi\n").HasJinjaHeader())
	assert.False(t, NewSourceFile("a.yml", "  # use jinja\n").HasJinjaHeader())
	assert.False(t, NewSourceFile("a.yml", "question: Hi\n# use jinja\n").HasJinjaHeader())
}

func TestContainsJinjaSyntax(t *testing.T) {
	assert.True(t, NewSourceFile("a.yml", "question: {{ name }}\n").ContainsJinjaSyntax())
	assert.True(t, NewSourceFile("a.yml", "{% if x %}\na: 1\n{% endif %}\n").ContainsJinjaSyntax())
	assert.True(t, NewSourceFile("a.yml", "{# comment #}\n").ContainsJinjaSyntax())
	assert.False(t, NewSourceFile("a.yml", "question: ${ name }\n").ContainsJinjaSyntax())
	assert.False(t, NewSourceFile("a.yml", "data: {a: 1}\n").ContainsJinjaSyntax())
}
