package linter

import (
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/suffolklitlab/dalint/pkg/parser"
)

// fieldModifierKeys are the keys inside a field item that modify the
// field instead of labeling its variable.
var fieldModifierKeys = map[string]bool{
	"default": true, "default value": true, "hint": true, "help": true,
	"label": true, "datatype": true, "choices": true,
	"validation code": true, "show if": true, "hide if": true,
	"js show if": true, "js hide if": true,
	"enable if": true, "disable if": true,
	"js enable if": true, "js disable if": true,
}

var jsModifierKeys = []string{"js show if", "js hide if", "js enable if", "js disable if"}
var pyModifierKeys = []string{"show if", "hide if"}

// fieldItemKeys are the keys that make a bare mapping look like a single
// field descriptor rather than a malformed code-reference form.
var fieldItemKeys = func() map[string]bool {
	keys := map[string]bool{
		"field": true, "input type": true, "note": true, "html": true,
		"raw html": true, "address autocomplete": true, "object": true,
		"object multiselect": true, "object radio": true,
		"uncheck others": true, "shuffle": true, "required": true,
		"read only": true, "min": true, "max": true,
	}
	for k := range fieldModifierKeys {
		keys[k] = true
	}
	return keys
}()

// fieldItem is one entry of a fields list, with the lines of its pairs
// preserved for diagnostics.
type fieldItem struct {
	line  int
	pairs []*ast.MappingValueNode
}

// checkFieldList validates a fields block: a list of field definitions,
// the code-reference mapping form, or the single-field shorthand.
func (l *fileLinter) checkFieldList(field parser.Field) {
	switch v := field.Value.(type) {
	case *ast.SequenceNode:
		l.checkFieldItems(v)
	case *ast.MappingNode, *ast.MappingValueNode:
		pairs, _ := objectPairs(v)
		l.checkFieldsMapping(field, pairs)
	default:
		l.c.Hardf(field.Line, "\"fields\" should be a list or a mapping, is %s", parser.NodeTypeName(field.Value))
	}
}

// checkFieldsMapping handles fields written as a bare mapping: either the
// code-reference form {code: expr} or the single-field shorthand.
func (l *fileLinter) checkFieldsMapping(field parser.Field, pairs []*ast.MappingValueNode) {
	for _, pair := range pairs {
		name, ok := parser.ScalarValue(pair.Key)
		if !ok {
			continue
		}
		if name == "code" {
			if _, ok := parser.ScalarValue(pair.Value); !ok {
				l.c.Hardf(l.nodeLine(pair.Value), "\"fields: code\" must be a YAML string, is %s", parser.NodeTypeName(pair.Value))
			}
			return
		}
	}
	for _, pair := range pairs {
		if name, ok := parser.ScalarValue(pair.Key); ok && fieldItemKeys[name] {
			return
		}
	}
	l.c.Hardf(field.Line, "a \"fields\" mapping must have a \"code\" key or describe a single field")
}

func (l *fileLinter) checkFieldItems(seq *ast.SequenceNode) {
	var items []fieldItem
	dynamic := false
	for _, raw := range seq.Values {
		pairs, ok := objectPairs(raw)
		if !ok {
			l.c.Hardf(l.nodeLine(raw), "each \"fields\" entry must be a mapping, found %s", parser.NodeTypeName(raw))
			continue
		}
		items = append(items, fieldItem{line: l.nodeLine(raw), pairs: pairs})
		for _, pair := range pairs {
			if name, ok := parser.ScalarValue(pair.Key); ok && name == "code" {
				dynamic = true
			}
		}
	}

	screenVars := map[string]bool{}
	for _, item := range items {
		if name := fieldVariableName(item); name != "" {
			screenVars[name] = true
		}
	}
	// Code-defined fields can add variables we cannot see statically, so
	// screen-membership checks downgrade to nothing rather than guess.
	if dynamic {
		screenVars = nil
	}

	for _, item := range items {
		for _, pair := range item.pairs {
			name, ok := parser.ScalarValue(pair.Key)
			if !ok {
				continue
			}
			if isJSModifier(name) {
				l.checkJSModifier(name, pair, screenVars)
			}
			if isPyModifier(name) {
				l.checkShowIfModifier(name, pair, screenVars)
			}
		}
	}
}

// fieldVariableName extracts the variable a field item sets: the value of
// the first non-modifier pair with a string value, matching how the
// server labels fields.
func fieldVariableName(item fieldItem) string {
	for _, pair := range item.pairs {
		name, ok := parser.ScalarValue(pair.Key)
		if !ok || fieldModifierKeys[name] {
			continue
		}
		if value, ok := parser.ScalarValue(pair.Value); ok {
			return value
		}
	}
	return ""
}

func isJSModifier(name string) bool {
	for _, k := range jsModifierKeys {
		if k == name {
			return true
		}
	}
	return false
}

func isPyModifier(name string) bool {
	for _, k := range pyModifierKeys {
		if k == name {
			return true
		}
	}
	return false
}

func (l *fileLinter) checkJSModifier(name string, pair *ast.MappingValueNode, screenVars map[string]bool) {
	expr, ok := parser.ScalarValue(pair.Value)
	if !ok {
		l.c.Hardf(l.nodeLine(pair.Value), "%q must be a string, is %s", name, parser.NodeTypeName(pair.Value))
		return
	}
	l.checkClientExpression(name, expr, l.nodeLine(pair.Value), screenVars)
}

// checkShowIfModifier validates show if and hide if. The mapping form
// references a same-screen variable or runs Python code; the shorthand
// string form names a same-screen yes/no field directly.
func (l *fileLinter) checkShowIfModifier(name string, pair *ast.MappingValueNode, screenVars map[string]bool) {
	line := l.nodeLine(pair.Value)

	if pairs, ok := objectPairs(pair.Value); ok {
		var variable, code *ast.MappingValueNode
		for _, p := range pairs {
			switch k, _ := parser.ScalarValue(p.Key); k {
			case "variable":
				variable = p
			case "code":
				code = p
			}
		}
		switch {
		case code != nil:
			src, ok := parser.ScalarValue(code.Value)
			if !ok {
				l.c.Hardf(l.nodeLine(code.Value), "%q: code must be a YAML string, is %s", name, parser.NodeTypeName(code.Value))
				return
			}
			base := l.nodeLine(code.Value)
			for _, issue := range scanPython(src) {
				l.c.Hardf(base+issue.line-1, "%q: code has %s", name, issue.message)
			}
		case variable != nil:
			ref, ok := parser.ScalarValue(variable.Value)
			if !ok {
				l.c.Hardf(l.nodeLine(variable.Value), "%q: variable must be a string, is %s", name, parser.NodeTypeName(variable.Value))
				return
			}
			if screenVars != nil && !referencesScreenVariable(ref, screenVars) {
				l.c.Hardf(line, "%q: variable: %s is not defined on this screen. Use %q with a code key instead for variables from previous screens", name, ref, name)
			}
		default:
			l.c.Hardf(line, "%q mapping must have either a \"variable\" key or a \"code\" key", name)
		}
		return
	}

	value, ok := parser.ScalarValue(pair.Value)
	if !ok {
		return
	}
	if strings.HasPrefix(value, "variable:") || strings.HasPrefix(value, "code:") {
		l.c.Hardf(line, "%q value %q appears to be malformed; use YAML mapping syntax with a variable or code key", name, value)
		return
	}
	if !strings.Contains(value, ":") && !strings.Contains(value, " ") {
		if screenVars != nil && !referencesScreenVariable(value, screenVars) {
			l.c.Hardf(line, "%q: %s is not defined on this screen. Use %q with a code key instead for variables from previous screens", name, value, name)
		}
	}
}

// referencesScreenVariable matches a referenced variable against the
// screen's fields, including the x.<attr> aliasing used on generic-object
// screens where x stands in for a longer object path.
func referencesScreenVariable(ref string, screenVars map[string]bool) bool {
	candidates := screenVarCandidates(ref)
	for _, candidate := range candidates {
		if screenVars[candidate] {
			return true
		}
	}
	for _, candidate := range candidates {
		if suffix, ok := strings.CutPrefix(candidate, "x."); ok {
			for screenVar := range screenVars {
				if strings.HasSuffix(screenVar, "."+suffix) {
					return true
				}
			}
		}
	}
	for screenVar := range screenVars {
		if suffix, ok := strings.CutPrefix(screenVar, "x."); ok {
			for _, candidate := range candidates {
				if strings.HasSuffix(candidate, "."+suffix) {
					return true
				}
			}
		}
	}
	return false
}
