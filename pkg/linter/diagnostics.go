// Package linter implements the schema classification and field validation
// engine for docassemble interview YAML.
//
// Each document's block is classified from its key set against the block
// type schema, every recognized field is validated against the grammar of
// the micro-language it declares (Mako templates, Python code, JavaScript
// expressions, variable and type references), and findings are collected as
// line-accurate diagnostics against the original file.
package linter

import "fmt"

// Diagnostic is one finding against a file. It is immutable once created.
type Diagnostic struct {
	// File is the path (or display name) of the file the finding is in.
	File string
	// Line is the 1-based line number in the original, unmodified file.
	Line int
	// Message describes the finding.
	Message string
	// Experimental marks advisory findings that may be false positives.
	// Hard errors have Experimental set to false.
	Experimental bool
}

// String renders the diagnostic in the stable report form. Hard errors are
// prefixed so they are visually distinguishable from advisory findings.
func (d Diagnostic) String() string {
	if !d.Experimental {
		return fmt.Sprintf("REAL ERROR: At %s:%d: %s", d.File, d.Line, d.Message)
	}
	return fmt.Sprintf("At %s:%d: %s", d.File, d.Line, d.Message)
}

// Collector accumulates diagnostics in report order: file, then document,
// then block, then key appearance. Callers receive every collected
// diagnostic; filtering by severity is the caller's concern.
type Collector struct {
	diags []Diagnostic
	file  string
}

// NewCollector creates a collector for findings in the named file.
func NewCollector(file string) *Collector {
	return &Collector{file: file}
}

// Hardf records a hard error at the given absolute line.
func (c *Collector) Hardf(line int, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{
		File:    c.file,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// Advisoryf records an experimental (advisory, possibly false-positive)
// finding at the given absolute line.
func (c *Collector) Advisoryf(line int, format string, args ...any) {
	c.diags = append(c.diags, Diagnostic{
		File:         c.file,
		Line:         line,
		Message:      fmt.Sprintf(format, args...),
		Experimental: true,
	})
}

// Diagnostics returns everything collected so far, in collection order.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

// HasHardErrors reports whether any collected diagnostic is a hard error.
func (c *Collector) HasHardErrors() bool {
	for _, d := range c.diags {
		if !d.Experimental {
			return true
		}
	}
	return false
}

// RenderDiagnostics renders diagnostics to their stable textual form.
func RenderDiagnostics(diags []Diagnostic) []string {
	rendered := make([]string, 0, len(diags))
	for _, d := range diags {
		rendered = append(rendered, d.String())
	}
	return rendered
}
