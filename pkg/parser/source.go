// Package parser turns raw interview files into positioned YAML blocks.
//
// A file may contain several ---separated YAML documents. Each document is
// parsed into one top-level block whose keys carry the 1-based line number
// they occupy in the original, unmodified file. Text rewrites applied before
// parsing (tab expansion, trailing document-end dots) are constructed so that
// they never change line counts, which keeps the per-document starting-line
// offset sufficient to map any parser position back to the original file.
package parser

import (
	"os"
	"regexp"
	"strings"

	"github.com/suffolklitlab/dalint/pkg/constants"
	"github.com/suffolklitlab/dalint/pkg/logger"
)

var sourceLog = logger.New("parser:source")

var (
	// documentSeparator matches the YAML document separator the same way
	// docassemble's own loader does: three dashes alone on a line, with
	// optional trailing spaces.
	documentSeparator = regexp.MustCompile(`(?m)^--- *$`)

	// trailingDots matches the YAML document-end marker left at the tail of
	// a document. It can only remove trailing lines, never lines before
	// document content, so earlier line numbers are unaffected.
	trailingDots = regexp.MustCompile(`[\n\r]+\.\.\.$`)

	// jinjaSyntax detects properly delimited Jinja constructs rather than
	// bare curly braces, to avoid false positives from dict displays.
	jinjaSyntax = regexp.MustCompile(`(?s){{.*?}}|{%-?.*?-?%}|{#.*?#}`)
)

// SourceFile is a whole interview file read into memory. It is immutable
// once constructed and owns the documents split from it.
type SourceFile struct {
	// Path identifies the file in diagnostics.
	Path string
	// Text is the raw, untransformed file content.
	Text string
}

// SourceDocument is one YAML document within a file, holding the rewritten
// text handed to the YAML parser and the line offset needed to map parser
// positions back to the original file.
type SourceDocument struct {
	// Text is the document text after tab expansion and trailing-dot
	// stripping. Both rewrites preserve line counts.
	Text string
	// StartLine is the 1-based line number in the original file of the
	// line the document begins on.
	StartLine int
}

// AbsLine maps a 1-based line number relative to the document text to the
// absolute line number in the original file. Relative lines below 1 clamp
// to the document start.
func (d *SourceDocument) AbsLine(rel int) int {
	if rel < 1 {
		rel = 1
	}
	return d.StartLine + rel - 1
}

// ReadSourceFile reads a file from disk into a SourceFile.
func ReadSourceFile(path string) (*SourceFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewSourceFile(path, string(content)), nil
}

// NewSourceFile constructs a SourceFile from in-memory text, for callers
// that receive document content over a protocol rather than from disk.
func NewSourceFile(path, text string) *SourceFile {
	return &SourceFile{Path: path, Text: text}
}

// HasJinjaHeader reports whether the first line of the file is exactly the
// Jinja opt-in marker. The match is case-sensitive and leading whitespace
// disqualifies the line.
func (f *SourceFile) HasJinjaHeader() bool {
	firstLine, _, _ := strings.Cut(f.Text, "\n")
	return strings.TrimRight(firstLine, " \t\r") == constants.JinjaHeader
}

// ContainsJinjaSyntax reports whether the file contains any delimited Jinja
// construct ({{ ... }}, {% ... %}, {# ... #}).
func (f *SourceFile) ContainsJinjaSyntax() bool {
	return jinjaSyntax.MatchString(f.Text)
}

// Documents splits the file into its ordered YAML documents. A file without
// separators is a single document starting at line 1. The returned documents
// carry rewritten text (tabs expanded, trailing dots stripped) together with
// the starting line needed to keep diagnostics anchored to the original file.
func (f *SourceFile) Documents() []*SourceDocument {
	var docs []*SourceDocument

	start := 0
	startLine := 1
	separators := documentSeparator.FindAllStringIndex(f.Text, -1)
	sourceLog.Printf("Splitting %s: %d document separators", f.Path, len(separators))

	appendSegment := func(segment string, line int) {
		docs = append(docs, &SourceDocument{
			Text:      rewriteSegment(segment),
			StartLine: line,
		})
	}

	for _, sep := range separators {
		appendSegment(f.Text[start:sep[0]], startLine)
		start = sep[1]
		startLine = 1 + strings.Count(f.Text[:sep[1]], "\n")
	}
	appendSegment(f.Text[start:], startLine)

	return docs
}

// rewriteSegment applies the pre-parse text rewrites. Tab expansion replaces
// each tab with a fixed two-space sequence and the trailing-dot strip only
// removes lines at the very end of the segment, so neither rewrite moves any
// line that still exists.
func rewriteSegment(segment string) string {
	segment = trailingDots.ReplaceAllString(segment, "")
	return strings.ReplaceAll(segment, "\t", constants.TabReplacement)
}
