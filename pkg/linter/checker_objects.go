package linter

import (
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/suffolklitlab/dalint/pkg/parser"
)

// checkObjects validates an objects block: variable name to class name
// entries, optionally with constructor arguments in a nested mapping.
// Both the list form and the plain mapping form are accepted.
func (l *fileLinter) checkObjects(field parser.Field) {
	switch n := field.Value.(type) {
	case *ast.SequenceNode:
		for _, item := range n.Values {
			l.checkObjectEntry(field.Key, item)
		}
	case *ast.MappingNode, *ast.MappingValueNode:
		l.checkObjectEntry(field.Key, field.Value)
	default:
		l.c.Hardf(field.Line, "%q must be a list or mapping of variable: ClassName entries, is %s", field.Key, parser.NodeTypeName(field.Value))
	}
}

func (l *fileLinter) checkObjectEntry(key string, item ast.Node) {
	line := l.nodeLine(item)
	pairs, ok := objectPairs(item)
	if !ok {
		l.c.Hardf(line, "each %q entry must be a variable: ClassName mapping, found %s", key, parser.NodeTypeName(item))
		return
	}
	for _, pair := range pairs {
		name, ok := parser.ScalarValue(pair.Key)
		if !ok {
			l.c.Hardf(l.nodeLine(pair.Key), "%q entry has a non-string variable name", key)
			continue
		}
		pairLine := l.nodeLine(pair.Key)
		l.checkVariableName(key, name, pairLine)
		l.checkObjectType(key, name, pair.Value, pairLine)
	}
}

// checkObjectType accepts a bare class name or a class name followed by
// constructor arguments, like "DAList.using(object_type=Individual)".
func (l *fileLinter) checkObjectType(key, name string, value ast.Node, line int) {
	typeName, ok := parser.ScalarValue(value)
	if !ok {
		// objects entries may carry constructor keyword arguments as a
		// nested mapping under the class name.
		if _, isMapping := value.(*ast.MappingNode); isMapping {
			return
		}
		if _, isMapping := value.(*ast.MappingValueNode); isMapping {
			return
		}
		l.c.Hardf(line, "%q entry %q must name a class, is %s", key, name, parser.NodeTypeName(value))
		return
	}
	trimmed := strings.TrimSpace(typeName)
	if trimmed == "" {
		l.c.Hardf(line, "%q entry %q is missing a class name", key, name)
		return
	}
	bare, _, _ := strings.Cut(trimmed, "(")
	bare = strings.TrimSpace(strings.TrimSuffix(bare, ".using"))
	if !typeReference.MatchString(bare) {
		l.c.Hardf(line, "%q entry %q has an invalid class name %q", key, name, typeName)
	}
}

// objectPairs flattens a sequence item into its key/value pairs. goccy
// represents a single-pair mapping as a bare MappingValueNode.
func objectPairs(item ast.Node) ([]*ast.MappingValueNode, bool) {
	switch n := item.(type) {
	case *ast.MappingNode:
		return n.Values, true
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}, true
	default:
		return nil, false
	}
}

// nodeLine translates a node's document-relative line to an absolute line
// in the source file.
func (l *fileLinter) nodeLine(n ast.Node) int {
	if n == nil {
		return l.doc.StartLine
	}
	tok := n.GetToken()
	if tok == nil || tok.Position == nil {
		return l.doc.StartLine
	}
	return l.doc.AbsLine(tok.Position.Line)
}
