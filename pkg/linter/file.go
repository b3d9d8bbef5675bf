package linter

import (
	"path/filepath"

	"github.com/suffolklitlab/dalint/pkg/constants"
	"github.com/suffolklitlab/dalint/pkg/logger"
	"github.com/suffolklitlab/dalint/pkg/parser"
)

var fileLog = logger.New("linter:file")

// FileStatus classifies the outcome of checking one file.
type FileStatus int

const (
	// StatusOK means the file was analyzed and no hard errors were found.
	StatusOK FileStatus = iota
	// StatusErrors means the file was analyzed and has hard errors.
	StatusErrors
	// StatusSkipped means the file was not analyzed at all, either because
	// it is on the generated-file denylist or because it opts into Jinja
	// processing.
	StatusSkipped
)

func (s FileStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusErrors:
		return "errors"
	case StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	// Path is the file as given by the caller.
	Path string
	// Status summarizes the outcome.
	Status FileStatus
	// Jinja reports whether the file was skipped for the Jinja header.
	Jinja bool
	// Diagnostics holds every finding, hard and advisory, in report order.
	Diagnostics []Diagnostic
}

// Linter checks interview files against the block type schema. A Linter is
// immutable after construction and safe for concurrent use.
type Linter struct {
	schema *Schema
}

// New creates a Linter with the standard interview block schema.
func New() *Linter {
	return &Linter{schema: NewSchema()}
}

// fileLinter carries the per-file state the field checkers report into.
type fileLinter struct {
	schema *Schema
	c      *Collector
	doc    *parser.SourceDocument
}

// CheckFile reads and checks one file from disk. A read failure is
// reported as a hard diagnostic rather than an error so a bad file in a
// batch does not abort the run.
func (lint *Linter) CheckFile(path string) FileResult {
	if isDeniedBasename(path) {
		fileLog.Printf("Skipping denylisted file: %s", path)
		return FileResult{Path: path, Status: StatusSkipped}
	}
	src, err := parser.ReadSourceFile(path)
	if err != nil {
		return FileResult{
			Path:        path,
			Status:      StatusErrors,
			Diagnostics: []Diagnostic{{File: path, Line: 1, Message: err.Error()}},
		}
	}
	return lint.check(src)
}

// CheckContent checks in-memory content under a display path. The denylist
// does not apply; the caller chose to check this content.
func (lint *Linter) CheckContent(path, content string) FileResult {
	return lint.check(parser.NewSourceFile(path, content))
}

func (lint *Linter) check(src *parser.SourceFile) FileResult {
	if src.HasJinjaHeader() {
		fileLog.Printf("Skipping Jinja template: %s", src.Path)
		return FileResult{Path: src.Path, Status: StatusSkipped, Jinja: true}
	}

	c := NewCollector(src.Path)
	if src.ContainsJinjaSyntax() {
		// Without the header the file is not valid YAML until rendered, so
		// the missing header is the only finding worth reporting.
		c.Hardf(1, "file contains Jinja syntax but does not start with %q; add the header or remove the Jinja markup", constants.JinjaHeader)
		return FileResult{Path: src.Path, Status: StatusErrors, Diagnostics: c.Diagnostics()}
	}

	for _, doc := range src.Documents() {
		lint.checkDocument(doc, c)
	}

	status := StatusOK
	if c.HasHardErrors() {
		status = StatusErrors
	}
	return FileResult{Path: src.Path, Status: status, Diagnostics: c.Diagnostics()}
}

func (lint *Linter) checkDocument(doc *parser.SourceDocument, c *Collector) {
	block, issues := parser.ParseDocument(doc)
	for _, issue := range issues {
		c.Hardf(issue.Line, "%s", issue.Message)
	}
	if block == nil || len(block.Fields) == 0 {
		return
	}

	l := &fileLinter{schema: lint.schema, c: c, doc: doc}
	for _, assignment := range Classify(lint.schema, block, c) {
		l.checkField(assignment)
	}
}

// checkField dispatches one classified field to the checker for its value
// grammar.
func (l *fileLinter) checkField(a Assignment) {
	switch a.Type {
	case FieldTypePlainString:
		l.checkPlainString(a.Field)
	case FieldTypeTemplateText, FieldTypeTemplateMarkdown:
		l.checkTemplateText(a.Field)
	case FieldTypeScriptBlock:
		l.checkScriptBlock(a.Field)
	case FieldTypeValidationCode:
		l.checkValidationCode(a.Field)
	case FieldTypeBooleanExpression:
		l.checkBooleanExpression(a.Field)
	case FieldTypeClientExpression:
		l.checkClientExpressionField(a.Field)
	case FieldTypeVariableReference:
		l.checkVariableReference(a.Field)
	case FieldTypeTypeReference:
		l.checkTypeReference(a.Field)
	case FieldTypeObjects:
		l.checkObjects(a.Field)
	case FieldTypeFieldList:
		l.checkFieldList(a.Field)
	case FieldTypeMetadata:
		l.checkMetadata(a.Field)
	}
}

// checkClientExpressionField handles a block-level JavaScript expression
// field. No screen variables are in scope at block level.
func (l *fileLinter) checkClientExpressionField(field parser.Field) {
	expr, ok := field.Scalar()
	if !ok {
		l.c.Hardf(field.Line, "%q must be a string, is %s", field.Key, parser.NodeTypeName(field.Value))
		return
	}
	l.checkClientExpression(field.Key, expr, field.ContentLine(), nil)
}

func isDeniedBasename(path string) bool {
	base := filepath.Base(path)
	for _, denied := range constants.SkippedFileBasenames {
		if base == denied {
			return true
		}
	}
	return false
}
