package linter

import (
	"regexp"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/suffolklitlab/dalint/pkg/parser"
)

var (
	variableReference = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*|\[[^\]]+\])*$`)
	typeReference     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	integerLiteral    = regexp.MustCompile(`^-?\d+$`)
	booleanOperator   = regexp.MustCompile(`(==|!=|<=|>=|<|>|\bnot\b|\band\b|\bor\b|\bin\b|\bis\b)`)
	simpleCall        = regexp.MustCompile(`^[A-Za-z_][\w.]*\(.*\)$`)
)

// checkPlainString accepts any scalar but rejects structured values, which
// usually indicate a stray indent or a missing quote.
func (l *fileLinter) checkPlainString(field parser.Field) {
	if _, ok := field.Scalar(); !ok {
		l.c.Hardf(field.Line, "%q must be a plain string, is %s", field.Key, parser.NodeTypeName(field.Value))
	}
}

// checkVariableReference validates fields whose value names an interview
// variable, like "field" or "event". Dotted attributes and index lookups
// are allowed; anything with stray whitespace or operator characters is not.
func (l *fileLinter) checkVariableReference(field parser.Field) {
	val, ok := field.Scalar()
	if !ok {
		l.c.Hardf(field.Line, "%q must name a variable, is %s", field.Key, parser.NodeTypeName(field.Value))
		return
	}
	l.checkVariableName(field.Key, val, field.Line)
}

func (l *fileLinter) checkVariableName(key, val string, line int) {
	trimmed := strings.TrimSpace(val)
	if trimmed == "" {
		l.c.Hardf(line, "%q must name a variable, is empty", key)
		return
	}
	if trimmed != val {
		l.c.Hardf(line, "%q value %q has leading or trailing whitespace", key, val)
		return
	}
	// Spaces are fine inside quoted subscripts; the reference pattern only
	// rejects bare spaces.
	if !variableReference.MatchString(val) {
		l.c.Hardf(line, "%q value %q is not a valid variable name", key, val)
	}
}

// checkTypeReference validates class names used by generic object and
// generic list object. Index lookups make no sense on a type, so only
// dotted names pass.
func (l *fileLinter) checkTypeReference(field parser.Field) {
	val, ok := field.Scalar()
	if !ok {
		l.c.Hardf(field.Line, "%q must name an object class, is %s", field.Key, parser.NodeTypeName(field.Value))
		return
	}
	trimmed := strings.TrimSpace(val)
	if trimmed != val || !typeReference.MatchString(trimmed) {
		l.c.Hardf(field.Line, "%q value %q is not a valid class name", field.Key, val)
	}
}

// checkBooleanExpression validates mandatory and initial values. YAML
// booleans are the common case; strings must read as a Python expression
// that plausibly yields a boolean. Bare numbers and quoted strings are
// always truthy or falsy by accident, never on purpose.
func (l *fileLinter) checkBooleanExpression(field parser.Field) {
	switch field.Value.(type) {
	case *ast.BoolNode:
		return
	case *ast.IntegerNode, *ast.FloatNode:
		l.c.Hardf(field.Line, "%q must be a boolean or a Python expression, is a number", field.Key)
		return
	case *ast.SequenceNode, *ast.MappingNode, *ast.MappingValueNode:
		l.c.Hardf(field.Line, "%q must be a boolean or a Python expression, is %s", field.Key, parser.NodeTypeName(field.Value))
		return
	}

	val, ok := field.Scalar()
	if !ok {
		l.c.Hardf(field.Line, "%q must be a boolean or a Python expression, is %s", field.Key, parser.NodeTypeName(field.Value))
		return
	}

	expr := strings.TrimSpace(val)
	switch {
	case expr == "True" || expr == "False":
		return
	case integerLiteral.MatchString(expr):
		l.c.Hardf(field.Line, "%q must be a boolean or a Python expression, is the number %s", field.Key, expr)
		return
	case strings.HasPrefix(expr, "'") || strings.HasPrefix(expr, "\""):
		l.c.Hardf(field.Line, "%q must be a boolean or a Python expression, is a quoted string", field.Key)
		return
	case strings.HasPrefix(expr, "[") || strings.HasPrefix(expr, "{"):
		l.c.Hardf(field.Line, "%q must be a boolean or a Python expression, is a literal collection", field.Key)
		return
	}

	base := field.ContentLine()
	for _, issue := range scanPython(expr) {
		l.c.Hardf(base+issue.line-1, "in %q: %s", field.Key, issue.message)
		return
	}

	if booleanOperator.MatchString(expr) || simpleCall.MatchString(expr) || variableReference.MatchString(expr) {
		return
	}
	l.c.Hardf(field.Line, "%q value %q does not look like a boolean expression", field.Key, expr)
}
