package linter

import (
	"strings"

	"github.com/suffolklitlab/dalint/pkg/logger"
	"github.com/suffolklitlab/dalint/pkg/parser"
)

var classifierLog = logger.New("linter:classifier")

// Assignment pairs a block field with the field type it must validate
// against, resolved from the block's classification.
type Assignment struct {
	Field parser.Field
	Type  FieldType
}

// Classify determines a block's type from its key set and resolves the
// field type expected for every key.
//
// Classification problems (unrecognized keys, exclusivity conflicts,
// disallowed attributes, unknown block type) are reported to the collector
// as hard errors. Unless the block's shape is wholly indeterminate the
// returned assignments still cover every key whose expectation could be
// resolved, so field checking proceeds key by key.
func Classify(schema *Schema, block *parser.Block, c *Collector) []Assignment {
	matched := matchedKinds(schema, block)
	classifierLog.Printf("Block at line %d matched %d kinds", block.Line, len(matched))

	if len(matched) == 0 {
		c.Hardf(block.Line, "block does not match any known block type: keys %s", keyList(block))
	}

	reportExclusivityConflicts(matched, block, c)
	reportUnrecognizedKeys(schema, block, c)
	reportDisallowedAttrs(matched, block, c)

	assignments := make([]Assignment, 0, len(block.Fields))
	for _, field := range block.Fields {
		ft := resolveFieldType(schema, matched, field, c)
		assignments = append(assignments, Assignment{Field: field, Type: ft})
	}
	return assignments
}

// matchedKinds returns the block kinds implied by the block's keys, in
// schema priority order.
func matchedKinds(schema *Schema, block *parser.Block) []*BlockKind {
	present := make(map[string]bool)
	for _, f := range block.Fields {
		present[strings.ToLower(f.Key)] = true
	}

	var matched []*BlockKind
	for _, name := range schema.kindOrder {
		if present[name] {
			matched = append(matched, schema.kinds[name])
		}
	}
	return matched
}

// reportExclusivityConflicts emits one hard error for the first pair of
// co-occurring exclusive kinds that are not declared partners, naming both
// conflicting keys at the block's first line.
func reportExclusivityConflicts(matched []*BlockKind, block *parser.Block, c *Collector) {
	var exclusive []*BlockKind
	for _, k := range matched {
		if !k.NonExclusive {
			exclusive = append(exclusive, k)
		}
	}
	if len(exclusive) < 2 {
		return
	}

	for i := 0; i < len(exclusive); i++ {
		for j := i + 1; j < len(exclusive); j++ {
			a, b := exclusive[i], exclusive[j]
			if a.HasPartner(b.Name) || b.HasPartner(a.Name) {
				continue
			}
			c.Hardf(block.Line, "keys %q and %q imply incompatible block types and cannot appear in the same block", a.Name, b.Name)
			return
		}
	}
}

// reportUnrecognizedKeys emits a hard error at each key the dialect does
// not know, including non-string keys, which never appear in authored
// interview files.
func reportUnrecognizedKeys(schema *Schema, block *parser.Block, c *Collector) {
	for _, f := range block.Fields {
		if !f.StringKey {
			c.Hardf(f.Line, "key %q is not a string; interview block keys must be plain strings", f.Key)
			continue
		}
		if !schema.IsRecognized(f.Key) {
			c.Hardf(f.Line, "key %q is not a recognized interview attribute", f.Key)
		}
	}
}

// reportDisallowedAttrs enforces allowed-attribute sets. When every matched
// kind restricts its attributes, a recognized key outside the union of
// those sets is a hard error at the key's line. A matched kind without a
// restriction leaves the block open.
func reportDisallowedAttrs(matched []*BlockKind, block *parser.Block, c *Collector) {
	if len(matched) == 0 {
		return
	}
	for _, k := range matched {
		if k.AllowedAttrs == nil {
			return
		}
	}

	for _, f := range block.Fields {
		key := strings.ToLower(f.Key)
		allowed := false
		for _, k := range matched {
			if k.allowsAttr(key) {
				allowed = true
				break
			}
		}
		if !allowed {
			c.Hardf(f.Line, "key %q is not allowed in a %q block", f.Key, matched[0].Name)
		}
	}
}

// resolveFieldType merges the matched kinds' expectations for one key.
// When two matched kinds disagree, the kind with the longer allowed-key
// set (the more specific one) wins; a tie cannot be resolved silently and
// is reported as an experimental finding.
func resolveFieldType(schema *Schema, matched []*BlockKind, field parser.Field, c *Collector) FieldType {
	key := strings.ToLower(field.Key)

	resolved := schema.FieldTypeFor(key)
	var resolvedBy *BlockKind

	for _, k := range matched {
		override, ok := k.FieldTypes[key]
		if !ok {
			continue
		}
		if resolvedBy == nil {
			resolved = override
			resolvedBy = k
			continue
		}
		if override == resolved {
			continue
		}
		switch {
		case len(k.AllowedAttrs) > len(resolvedBy.AllowedAttrs):
			resolved = override
			resolvedBy = k
		case len(k.AllowedAttrs) == len(resolvedBy.AllowedAttrs):
			c.Advisoryf(field.Line, "key %q is expected to be %s by %q but %s by %q; checking as %s",
				field.Key, resolved, resolvedBy.Name, override, k.Name, resolved)
		}
	}

	return resolved
}

// keyList renders a block's keys for diagnostics, in source order.
func keyList(block *parser.Block) string {
	keys := make([]string, 0, len(block.Fields))
	for _, f := range block.Fields {
		keys = append(keys, f.Key)
	}
	return "[" + strings.Join(keys, ", ") + "]"
}
