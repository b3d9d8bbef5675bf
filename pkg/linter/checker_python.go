package linter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/suffolklitlab/dalint/pkg/parser"
)

// scriptIssue is a finding inside embedded script source, with a 1-based
// line number relative to the script's first line.
type scriptIssue struct {
	line    int
	message string
}

// checkScriptBlock validates a Python code field. Findings are reported at
// the offending line inside the block, translated to the absolute line in
// the original file.
func (l *fileLinter) checkScriptBlock(field parser.Field) {
	src, ok := field.Scalar()
	if !ok {
		l.c.Hardf(field.Line, "%q must be a YAML string holding Python code, is %s", field.Key, parser.NodeTypeName(field.Value))
		return
	}

	base := field.ContentLine()
	for _, issue := range scanPython(src) {
		l.c.Hardf(base+issue.line-1, "in %q: %s", field.Key, issue.message)
	}
}

// checkValidationCode validates question-level validation code: Python
// structure first, then an advisory when the code never calls
// validation_error() and does not look like a transformation-only block.
func (l *fileLinter) checkValidationCode(field parser.Field) {
	src, ok := field.Scalar()
	if !ok {
		l.c.Hardf(field.Line, "%q must be a YAML string holding Python code, is %s", field.Key, parser.NodeTypeName(field.Value))
		return
	}

	base := field.ContentLine()
	issues := scanPython(src)
	for _, issue := range issues {
		l.c.Hardf(base+issue.line-1, "in %q: %s", field.Key, issue.message)
	}
	if len(issues) > 0 {
		return
	}

	if validationCodeNeedsAdvisory(src) {
		l.c.Advisoryf(field.Line, "validation code does not call validation_error(); consider calling validation_error(...) to provide user-facing error messages")
	}
}

var (
	validationErrorCall = regexp.MustCompile(`\bvalidation_error\s*\(`)
	defineCall          = regexp.MustCompile(`\bdefine\s*\(`)
	raiseOrAssert       = regexp.MustCompile(`(?m)^\s*(raise\b|assert\b)`)
	assignment          = regexp.MustCompile(`(?m)^[^#\n]*[^=!<>+\-*/%]=[^=]`)
	augmentedAssignment = regexp.MustCompile(`(?m)^[^#\n]*[+\-*/]=`)
	bareCallLine        = regexp.MustCompile(`(?m)^\s*[A-Za-z_][\w.]*\s*\(`)
)

// validationCodeNeedsAdvisory decides whether to suggest calling
// validation_error(). Transformation-only blocks (assignments, define()
// calls, bare calls) are intentionally used to normalize answers and are
// left alone unless they also raise or assert.
func validationCodeNeedsAdvisory(src string) bool {
	if validationErrorCall.MatchString(src) {
		return false
	}
	transforms := assignment.MatchString(src) ||
		augmentedAssignment.MatchString(src) ||
		defineCall.MatchString(src) ||
		bareCallLine.MatchString(src)
	if transforms && !raiseOrAssert.MatchString(src) {
		return false
	}
	return true
}

// blockHeaderKeywords are the Python statements that must introduce a suite
// with a colon.
var blockHeaderKeywords = map[string]bool{
	"if": true, "elif": true, "else": true, "for": true, "while": true,
	"def": true, "class": true, "try": true, "except": true,
	"finally": true, "with": true,
}

// bracketPairs maps closing brackets to their opening counterparts.
var bracketPairs = map[byte]byte{')': '(', ']': '[', '}': '{'}

// openBracket is an unclosed bracket together with the line it opened on.
type openBracket struct {
	char byte
	line int
}

// scanPython is a structural recognizer for Python source: balanced
// brackets, terminated strings, and colons on block headers. It is not an
// interpreter; it exists to catch authoring mistakes with a useful line
// number, not to accept exactly the Python grammar.
func scanPython(src string) []scriptIssue {
	var issues []scriptIssue
	var brackets []openBracket

	tripleDelim := ""
	tripleLine := 0

	stmtStart := 0
	var stmt strings.Builder
	continued := false

	lines := strings.Split(src, "\n")
	for idx, rawLine := range lines {
		lineNo := idx + 1
		i := 0

		if tripleDelim != "" {
			end := strings.Index(rawLine, tripleDelim)
			if end < 0 {
				continue
			}
			i = end + len(tripleDelim)
			tripleDelim = ""
		}

		var code strings.Builder
		unterminated := false

		for i < len(rawLine) {
			c := rawLine[i]
			switch {
			case c == '#':
				i = len(rawLine)

			case c == '\'' || c == '"':
				delim := string(c)
				if strings.HasPrefix(rawLine[i:], delim+delim+delim) {
					triple := delim + delim + delim
					end := strings.Index(rawLine[i+3:], triple)
					if end < 0 {
						tripleDelim = triple
						tripleLine = lineNo
						i = len(rawLine)
						continue
					}
					i += 3 + end + 3
					code.WriteString("''")
					continue
				}
				end := scanSingleLineString(rawLine, i+1, c)
				if end < 0 {
					issues = append(issues, scriptIssue{line: lineNo, message: "unterminated string literal"})
					unterminated = true
					i = len(rawLine)
					continue
				}
				i = end + 1
				code.WriteString("''")

			case bracketPairs[c] != 0:
				want := bracketPairs[c]
				if len(brackets) == 0 {
					issues = append(issues, scriptIssue{line: lineNo, message: fmt.Sprintf("unmatched '%c'", c)})
				} else {
					top := brackets[len(brackets)-1]
					if top.char != want {
						issues = append(issues, scriptIssue{line: lineNo, message: fmt.Sprintf("closing '%c' does not match '%c' opened on line %d", c, top.char, top.line)})
					}
					brackets = brackets[:len(brackets)-1]
				}
				code.WriteByte(c)
				i++

			case c == '(' || c == '[' || c == '{':
				brackets = append(brackets, openBracket{char: c, line: lineNo})
				code.WriteByte(c)
				i++

			default:
				code.WriteByte(c)
				i++
			}
		}

		if unterminated {
			// Resynchronize: drop the statement in progress.
			stmt.Reset()
			continued = false
			continue
		}

		codeLine := strings.TrimRight(code.String(), " \t")
		if !continued {
			stmtStart = lineNo
			stmt.Reset()
		}
		backslash := strings.HasSuffix(codeLine, "\\")
		stmt.WriteString(strings.TrimSuffix(codeLine, "\\"))
		stmt.WriteByte(' ')

		if backslash || len(brackets) > 0 || tripleDelim != "" {
			continued = true
			continue
		}
		continued = false
		checkBlockHeader(stmt.String(), stmtStart, &issues)
	}

	if tripleDelim != "" {
		issues = append(issues, scriptIssue{line: tripleLine, message: "unterminated triple-quoted string"})
	}
	for _, b := range brackets {
		issues = append(issues, scriptIssue{line: b.line, message: fmt.Sprintf("'%c' was never closed", b.char)})
	}
	return issues
}

// scanSingleLineString returns the index of the closing quote, or -1 when
// the string does not terminate on this line.
func scanSingleLineString(line string, start int, quote byte) int {
	for i := start; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

// checkBlockHeader reports a logical statement that starts with a suite
// keyword but never reaches a colon at bracket depth zero.
func checkBlockHeader(stmt string, line int, issues *[]scriptIssue) {
	trimmed := strings.TrimSpace(stmt)
	if trimmed == "" {
		return
	}
	first, _, _ := strings.Cut(trimmed, " ")
	first = strings.TrimSuffix(first, ":")
	if !blockHeaderKeywords[first] {
		return
	}
	if !strings.Contains(trimmed, ":") {
		*issues = append(*issues, scriptIssue{line: line, message: fmt.Sprintf("expected ':' at the end of the %q statement", first)})
	}
}
