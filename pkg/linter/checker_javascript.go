package linter

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	makoInterpolation = regexp.MustCompile(`\$\{[^}]*\}`)
	valCall           = regexp.MustCompile(`\bval\s*\(([^)]*)\)`)
	quotedArg         = regexp.MustCompile(`^\s*(['"])(.*)['"]\s*$`)
)

// checkClientExpression validates js show if and friends: the value must
// be structurally sound JavaScript that reads other fields through val().
// Variables the expression depends on must be looked up with val() so the
// browser re-evaluates the expression when they change.
func (l *fileLinter) checkClientExpression(key, expr string, line int, screenVars map[string]bool) {
	// Mako interpolations are resolved server-side before the browser
	// sees the expression; mask them as a truthy literal.
	masked := makoInterpolation.ReplaceAllString(expr, "true")

	for _, issue := range scanJavaScript(masked) {
		l.c.Hardf(line, "in %q: %s", key, issue.message)
	}

	calls := valCall.FindAllStringSubmatch(masked, -1)
	if len(calls) == 0 {
		l.c.Hardf(line, "%q expression %q never calls val(); the expression cannot react to other fields without val('variable name')", key, expr)
		return
	}
	for _, call := range calls {
		arg := call[1]
		m := quotedArg.FindStringSubmatch(arg)
		if m == nil {
			l.c.Hardf(line, "%q passes %q to val(); the argument must be a quoted variable name", key, strings.TrimSpace(arg))
			continue
		}
		name := m[2]
		// An empty set means no screen variables were collected, not that
		// the screen is known to set nothing; only check against a
		// populated set.
		if len(screenVars) > 0 && !screenVarVisible(name, screenVars) {
			l.c.Hardf(line, "%q calls val(%q), but no field on this screen sets %q", key, name, name)
		}
	}
}

// screenVarVisible reports whether a val() target can resolve against the
// variables set by fields on the same screen. A dotted or indexed name
// matches when any of its prefixes is a screen variable.
func screenVarVisible(name string, screenVars map[string]bool) bool {
	for _, candidate := range screenVarCandidates(name) {
		if screenVars[candidate] {
			return true
		}
	}
	return false
}

// screenVarCandidates expands a variable name into the forms a screen
// field might declare it under: each dotted prefix, with and without
// trailing index lookups. "children[i].parents[0]" yields itself,
// "children[i].parents", "children[i]" and "children".
func screenVarCandidates(name string) []string {
	name = strings.TrimSpace(name)
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	parts := strings.Split(name, ".")
	for i := len(parts); i >= 1; i-- {
		candidate := strings.Join(parts[:i], ".")
		add(candidate)
		for strings.HasSuffix(candidate, "]") && strings.Contains(candidate, "[") {
			candidate = candidate[:strings.LastIndex(candidate, "[")]
			add(candidate)
		}
	}
	return out
}

// scanJavaScript is a structural recognizer for small JavaScript
// expressions: balanced brackets and terminated strings. Statements and
// the full grammar are out of scope; these expressions are one-liners.
func scanJavaScript(src string) []scriptIssue {
	var issues []scriptIssue
	var brackets []openBracket

	lines := strings.Split(src, "\n")
	for idx, line := range lines {
		lineNo := idx + 1
		i := 0
		for i < len(line) {
			c := line[i]
			switch {
			case c == '/' && i+1 < len(line) && line[i+1] == '/':
				i = len(line)

			case c == '\'' || c == '"' || c == '`':
				end := scanSingleLineString(line, i+1, c)
				if end < 0 {
					if c == '`' {
						// Template literals may span lines; give up on
						// the rest of this one.
						i = len(line)
						continue
					}
					issues = append(issues, scriptIssue{line: lineNo, message: "unterminated string literal"})
					i = len(line)
					continue
				}
				i = end + 1

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
				i++

			case c == '(' || c == '[' || c == '{':
				brackets = append(brackets, openBracket{char: c, line: lineNo})
				i++

			default:
				i++
			}
		}
	}

	for _, b := range brackets {
		issues = append(issues, scriptIssue{line: b.line, message: fmt.Sprintf("'%c' was never closed", b.char)})
	}
	return issues
}
