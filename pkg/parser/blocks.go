package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/ast"
	goyamlparser "github.com/goccy/go-yaml/parser"

	"github.com/suffolklitlab/dalint/pkg/logger"
)

var blocksLog = logger.New("parser:blocks")

// Block is the parsed top-level mapping of one YAML document: one interview
// unit such as a question, a code block, or an include directive.
type Block struct {
	// Line is the absolute line number of the block's first key.
	Line int
	// Fields holds the block's key/value pairs in source order.
	Fields []Field
}

// Field is one key/value pair within a block, with enough position context
// to report diagnostics against the original file.
type Field struct {
	// Key is the mapping key as written (string form for non-string keys).
	Key string
	// StringKey reports whether the YAML key was actually a string scalar.
	StringKey bool
	// Line is the absolute line number the key appears on.
	Line int
	// Value is the raw YAML value node.
	Value ast.Node

	doc *SourceDocument
}

// Issue is a structural problem found while parsing a document, already
// mapped to an absolute line number.
type Issue struct {
	Line    int
	Message string
}

// positionInError extracts the "[line:column]" prefix goccy/go-yaml embeds
// in its error strings, so parse failures inside a later document of a
// multi-document file can still be reported against the original file.
var positionInError = regexp.MustCompile(`\[(\d+):\d+\]\s*`)

// ParseDocument parses one document into its block. A document holding only
// comments yields neither a block nor issues. A document that is not a
// mapping, fails to parse, or repeats a key yields issues; parse failures
// never yield a block.
func ParseDocument(doc *SourceDocument) (*Block, []Issue) {
	// Duplicate keys are detected here with their own diagnostic; without
	// the option goccy fails the whole parse and the block would be lost.
	file, err := goyamlparser.ParseBytes([]byte(doc.Text), 0, goyamlparser.AllowDuplicateMapKey())
	if err != nil {
		return nil, []Issue{parseFailure(doc, err)}
	}
	if len(file.Docs) == 0 || file.Docs[0].Body == nil {
		return nil, nil
	}

	body := file.Docs[0].Body
	switch body.(type) {
	case *ast.NullNode, *ast.CommentNode:
		return nil, nil
	}

	pairs := mappingValues(body)
	if pairs == nil {
		return nil, []Issue{{
			Line:    doc.AbsLine(nodeLine(body)),
			Message: fmt.Sprintf("block must be a mapping of keys to values, is %s", NodeTypeName(body)),
		}}
	}

	block := &Block{Line: doc.AbsLine(nodeLine(body))}
	var issues []Issue
	seen := make(map[string]bool)

	for _, pair := range pairs {
		key, isString := keyString(pair.Key)
		line := doc.AbsLine(nodeLine(pair.Key))
		if seen[key] {
			issues = append(issues, Issue{
				Line:    line,
				Message: fmt.Sprintf("found duplicate key %q", key),
			})
			continue
		}
		seen[key] = true
		block.Fields = append(block.Fields, Field{
			Key:       key,
			StringKey: isString,
			Line:      line,
			Value:     pair.Value,
			doc:       doc,
		})
	}

	blocksLog.Printf("Parsed block at line %d with %d fields", block.Line, len(block.Fields))
	return block, issues
}

// parseFailure converts a goccy parse error into an Issue anchored to the
// original file. The relative position embedded in the error message is
// rewritten into the absolute line.
func parseFailure(doc *SourceDocument, err error) Issue {
	message := err.Error()
	// Only the first line of the error is useful; the rest is a source
	// snippet of the rewritten text.
	message, _, _ = strings.Cut(message, "\n")

	line := doc.StartLine
	if m := positionInError.FindStringSubmatch(message); m != nil {
		rel := 0
		fmt.Sscanf(m[1], "%d", &rel)
		line = doc.AbsLine(rel)
		message = positionInError.ReplaceAllString(message, "")
	}
	return Issue{Line: line, Message: "invalid YAML: " + message}
}

// mappingValues returns the key/value pairs of a mapping body, or nil when
// the body is not a mapping. goccy represents single-pair mappings as a bare
// MappingValueNode.
func mappingValues(body ast.Node) []*ast.MappingValueNode {
	switch n := body.(type) {
	case *ast.MappingNode:
		return n.Values
	case *ast.MappingValueNode:
		return []*ast.MappingValueNode{n}
	default:
		return nil
	}
}

// keyString renders a mapping key as a string and reports whether it was a
// string scalar in the source. Non-string keys (booleans, numbers) are kept
// in rendered form so the classifier can name them in diagnostics.
func keyString(key ast.Node) (string, bool) {
	if s, ok := key.(*ast.StringNode); ok {
		return s.Value, true
	}
	tok := key.GetToken()
	if tok == nil {
		return "", false
	}
	return tok.Value, false
}

// nodeLine returns the 1-based line of a node within its document text.
func nodeLine(n ast.Node) int {
	tok := n.GetToken()
	if tok == nil || tok.Position == nil {
		return 1
	}
	return tok.Position.Line
}

// AbsLine maps a node inside this field's value back to the absolute line
// in the original file.
func (f Field) AbsLine(n ast.Node) int {
	return f.doc.AbsLine(nodeLine(n))
}

// Scalar returns the field's value as a string when the value is a string
// scalar (plain, quoted, literal, or folded). The second return is false
// for sequences, mappings, and non-string scalars.
func (f Field) Scalar() (string, bool) {
	return ScalarValue(f.Value)
}

// ContentLine returns the absolute line where the field's scalar content
// begins. For block scalars that is the first content line, not the line
// carrying the "|" or ">" indicator. The header token is the anchor: the
// content token's own line differs between mid-document and end-of-input
// scalars.
func (f Field) ContentLine() int {
	if lit, ok := f.Value.(*ast.LiteralNode); ok {
		return f.AbsLine(lit) + 1
	}
	return f.AbsLine(f.Value)
}

// Decode unmarshals the field's value node into v.
func (f Field) Decode(v any) error {
	return yaml.NodeToValue(f.Value, v)
}

// ScalarValue returns a node's string content when it is a string scalar.
func ScalarValue(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case *ast.StringNode:
		return v.Value, true
	case *ast.LiteralNode:
		if v.Value != nil {
			return v.Value.Value, true
		}
		return "", true
	default:
		return "", false
	}
}

// NodeTypeName names a YAML node's shape for error messages.
func NodeTypeName(n ast.Node) string {
	switch n.(type) {
	case *ast.StringNode, *ast.LiteralNode:
		return "a string"
	case *ast.IntegerNode:
		return "a number"
	case *ast.FloatNode:
		return "a number"
	case *ast.BoolNode:
		return "a boolean"
	case *ast.NullNode:
		return "null"
	case *ast.SequenceNode:
		return "a list"
	case *ast.MappingNode, *ast.MappingValueNode:
		return "a mapping"
	default:
		return "an unexpected value"
	}
}
