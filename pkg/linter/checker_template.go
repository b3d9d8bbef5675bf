package linter

import (
	"regexp"
	"strings"

	"github.com/suffolklitlab/dalint/pkg/parser"
)

// spaceInQuotes accepts strings whose every space sits between quotes, the
// quoting regularity expected for inline attribute-like values such as
// children[i].parents["Other Parent"].
var spaceInQuotes = regexp.MustCompile(`^[^ ]*['"].* .*['"][^ ]*$`)

// checkTemplateText validates a Mako template field: balanced ${...}
// substitutions, terminated <% %> code tags, and matched %-directive
// control structures. Markdown syntax in template-markdown fields needs no
// extra checks; the two types differ only for downstream consumers.
func (l *fileLinter) checkTemplateText(field parser.Field) {
	text, ok := field.Scalar()
	if !ok {
		l.c.Hardf(field.Line, "%q must be template text, is %s", field.Key, parser.NodeTypeName(field.Value))
		return
	}

	base := field.ContentLine()
	for _, issue := range scanTemplate(text) {
		line := base + issue.line - 1
		if issue.advisory {
			l.c.Advisoryf(line, "in %q: %s", field.Key, issue.message)
		} else {
			l.c.Hardf(line, "in %q: %s", field.Key, issue.message)
		}
	}
}

// templateIssue is a finding inside template text, with a line number
// relative to the template's first content line.
type templateIssue struct {
	line     int
	message  string
	advisory bool
}

// directive is an open %-control line awaiting its closing counterpart.
type directive struct {
	keyword string
	line    int
}

// scanTemplate is a narrow recognizer for the Mako constructs that appear
// in interview text. It does not render anything; it only checks that the
// template delimiters are balanced and terminated.
func scanTemplate(text string) []templateIssue {
	var issues []templateIssue
	var stack []directive

	line := 1
	atLineStart := true

	i := 0
	for i < len(text) {
		c := text[i]

		switch {
		case c == '\n':
			line++
			atLineStart = true
			i++
			continue

		case c == '$' && i+1 < len(text) && text[i+1] == '{':
			end, endLine, terminated := scanExpression(text, i+2, line)
			if !terminated {
				issues = append(issues, templateIssue{line: line, message: "unterminated ${...} substitution"})
				return issues
			}
			expr := text[i+2 : end]
			if issue := checkExpressionQuoting(expr); issue != "" {
				issues = append(issues, templateIssue{line: line, message: issue, advisory: true})
			}
			i = end + 1
			line = endLine
			atLineStart = false
			continue

		case c == '<' && i+1 < len(text) && text[i+1] == '%':
			next := byte(0)
			if i+2 < len(text) {
				next = text[i+2]
			}
			if isAlpha(next) || next == '/' {
				// Named tag like <%def name="x"> or a closing </%def>;
				// these end with a bare '>'.
				i += 2
				for i < len(text) && text[i] != '>' {
					if text[i] == '\n' {
						line++
					}
					i++
				}
				i++
				atLineStart = false
				continue
			}
			startLine := line
			end := strings.Index(text[i+2:], "%>")
			if end < 0 {
				issues = append(issues, templateIssue{line: startLine, message: "unterminated <% ... %> code tag"})
				return issues
			}
			line += strings.Count(text[i+2:i+2+end], "\n")
			i += 2 + end + 2
			atLineStart = false
			continue

		case atLineStart && c == '%':
			if i+1 < len(text) && text[i+1] == '%' {
				// %% escapes a literal percent at line start.
				i += 2
				atLineStart = false
				continue
			}
			rest := text[i+1:]
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				rest = rest[:nl]
			}
			stack = applyDirective(strings.TrimSpace(rest), line, stack, &issues)
			i += 1 + len(rest)
			atLineStart = false
			continue

		case c == ' ' || c == '\t':
			i++
			continue

		default:
			atLineStart = false
			i++
			continue
		}
	}

	for _, d := range stack {
		issues = append(issues, templateIssue{line: d.line, message: "'% " + d.keyword + "' is never closed with '% end" + d.keyword + "'"})
	}
	return issues
}

// applyDirective processes one %-directive line, pushing openers, popping
// end-directives, and reporting mismatches. It returns the updated stack.
func applyDirective(content string, line int, stack []directive, issues *[]templateIssue) []directive {
	keyword, _, _ := strings.Cut(content, " ")
	keyword = strings.TrimSuffix(keyword, ":")

	switch keyword {
	case "if", "for", "while":
		return append(stack, directive{keyword: keyword, line: line})
	case "elif", "else":
		if len(stack) == 0 || stack[len(stack)-1].keyword != "if" {
			*issues = append(*issues, templateIssue{line: line, message: "'% " + keyword + "' without a matching '% if'"})
		}
		return stack
	case "endif", "endfor", "endwhile":
		want := strings.TrimPrefix(keyword, "end")
		if len(stack) == 0 {
			*issues = append(*issues, templateIssue{line: line, message: "'% " + keyword + "' without a matching '% " + want + "'"})
			return stack
		}
		top := stack[len(stack)-1]
		if top.keyword != want {
			*issues = append(*issues, templateIssue{line: line, message: "'% " + keyword + "' closes '% " + top.keyword + "' opened on an earlier line"})
		}
		return stack[:len(stack)-1]
	default:
		// Unknown directives pass through; interview authors also write
		// literal percent lines in markdown.
		return stack
	}
}

// isAlpha reports whether c is an ASCII letter.
func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// scanExpression advances through a ${...} substitution starting just after
// the opening brace, honoring nested braces and quoted strings. It returns
// the index of the closing brace, the line it ends on, and whether the
// substitution terminated before end of text.
func scanExpression(text string, start, line int) (end, endLine int, terminated bool) {
	depth := 1
	var quote byte

	for i := start; i < len(text); i++ {
		c := text[i]
		if c == '\n' {
			line++
			continue
		}
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, line, true
			}
		}
	}
	return len(text), line, false
}

// checkExpressionQuoting flags a space outside quotes in an expression that
// otherwise looks like a plain attribute access, where the quoting
// regularity expects spaces only inside quoted subscripts. Expressions with
// calls or operators are left alone; they legitimately contain spaces.
func checkExpressionQuoting(expr string) string {
	expr = strings.TrimSpace(expr)
	if !strings.Contains(expr, " ") {
		return ""
	}
	if strings.ContainsAny(expr, "()+-*/%<>=,") {
		return ""
	}
	if spaceInQuotes.MatchString(expr) {
		return ""
	}
	return "substitution ${" + expr + "} contains a space outside quotes; quote the value if it is an index"
}
