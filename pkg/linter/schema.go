package linter

import "strings"

// FieldType identifies the micro-language grammar a field's value is
// validated against.
type FieldType int

const (
	// FieldTypeAny places no constraint on the value.
	FieldTypeAny FieldType = iota
	// FieldTypePlainString requires a native YAML string.
	FieldTypePlainString
	// FieldTypeTemplateText requires well-formed Mako template text.
	FieldTypeTemplateText
	// FieldTypeTemplateMarkdown is template text that is additionally run
	// through a markdown formatter downstream. Validation matches
	// FieldTypeTemplateText; the distinction matters to consumers.
	FieldTypeTemplateMarkdown
	// FieldTypeScriptBlock requires structurally valid Python source.
	FieldTypeScriptBlock
	// FieldTypeValidationCode is a script block that should normally call
	// validation_error() to explain failures to the user.
	FieldTypeValidationCode
	// FieldTypeBooleanExpression requires an explicit boolean literal or a
	// boolean-shaped Python expression; bare truthy literals are rejected.
	FieldTypeBooleanExpression
	// FieldTypeClientExpression requires structurally valid JavaScript,
	// evaluated in the browser against on-screen fields via val().
	FieldTypeClientExpression
	// FieldTypeVariableReference requires a dotted/indexed variable access
	// expression, not a literal or arbitrary expression.
	FieldTypeVariableReference
	// FieldTypeTypeReference requires an identifier path naming a type.
	// Only the shape is checked, not whether the type exists.
	FieldTypeTypeReference
	// FieldTypeObjects requires a sequence (or mapping) of variable ->
	// type declarations.
	FieldTypeObjects
	// FieldTypeFieldList requires a list of field descriptors (or the code
	// reference / single-field shorthand forms).
	FieldTypeFieldList
	// FieldTypeMetadata requires a mapping conforming to the interview
	// metadata schema.
	FieldTypeMetadata
)

// String names the field type for diagnostics and debug logging.
func (t FieldType) String() string {
	switch t {
	case FieldTypePlainString:
		return "plain string"
	case FieldTypeTemplateText:
		return "template text"
	case FieldTypeTemplateMarkdown:
		return "template markdown text"
	case FieldTypeScriptBlock:
		return "code block"
	case FieldTypeValidationCode:
		return "validation code"
	case FieldTypeBooleanExpression:
		return "boolean expression"
	case FieldTypeClientExpression:
		return "javascript expression"
	case FieldTypeVariableReference:
		return "variable reference"
	case FieldTypeTypeReference:
		return "type reference"
	case FieldTypeObjects:
		return "objects declaration"
	case FieldTypeFieldList:
		return "field list"
	case FieldTypeMetadata:
		return "metadata"
	default:
		return "any"
	}
}

// BlockKind describes one recognized block type: the key that implies it,
// which other kinds it may legitimately share a block with, and which
// attributes the block may then carry.
type BlockKind struct {
	// Name is the block key that implies this kind.
	Name string
	// NonExclusive opts a kind out of exclusivity. By default every kind
	// rules out every other exclusive kind in the same block, except
	// declared partners.
	NonExclusive bool
	// Partners lists exclusive kinds this kind may co-occur with (for
	// example a question block may carry attachments).
	Partners []string
	// AllowedAttrs restricts the keys a block of this kind may carry.
	// nil means unrestricted (any recognized key).
	AllowedAttrs []string
	// FieldTypes overrides the default field type for keys when this kind
	// matched. Used where a key means something more specific inside a
	// particular block type.
	FieldTypes map[string]FieldType
}

// HasPartner reports whether other is a declared partner of this kind.
func (k *BlockKind) HasPartner(other string) bool {
	for _, p := range k.Partners {
		if p == other {
			return true
		}
	}
	return false
}

// allowsAttr reports whether the kind permits the given (lowercased) key.
// Kinds without an AllowedAttrs list permit everything.
func (k *BlockKind) allowsAttr(key string) bool {
	if k.AllowedAttrs == nil {
		return true
	}
	if key == k.Name {
		return true
	}
	for _, a := range k.AllowedAttrs {
		if a == key {
			return true
		}
	}
	return false
}

// Schema is the process-wide block type table: the mapping from block key
// sets to expected shapes and per-key field types. It is immutable after
// construction and safe for concurrent readers; construct once and pass by
// reference.
type Schema struct {
	kinds      map[string]*BlockKind
	kindOrder  []string
	fieldTypes map[string]FieldType
	recognized map[string]bool
}

// Kind looks up a block kind by (lowercased) key.
func (s *Schema) Kind(name string) (*BlockKind, bool) {
	k, ok := s.kinds[name]
	return k, ok
}

// IsRecognized reports whether a key is a known attribute anywhere in the
// dialect. Matching is case-insensitive; docassemble accepts mixed case.
func (s *Schema) IsRecognized(key string) bool {
	return s.recognized[strings.ToLower(key)]
}

// FieldTypeFor returns the default field type assigned to a key, before
// any per-kind override.
func (s *Schema) FieldTypeFor(key string) FieldType {
	return s.fieldTypes[strings.ToLower(key)]
}

// NewSchema builds the full block type table for the docassemble dialect.
// The table is data, not behavior: block resolution is deterministic
// signature matching over these entries.
func NewSchema() *Schema {
	s := &Schema{
		kinds:      make(map[string]*BlockKind),
		fieldTypes: make(map[string]FieldType),
		recognized: make(map[string]bool),
	}

	// Block kinds in priority order. Every kind is exclusive unless it
	// opts out; exclusive kinds rule out other exclusive kinds unless
	// declared partners.
	kinds := []*BlockKind{
		{Name: "include", AllowedAttrs: []string{"include"}},
		{Name: "features", AllowedAttrs: []string{"features"}},
		{Name: "objects", AllowedAttrs: []string{"objects"}},
		{Name: "objects from file", AllowedAttrs: []string{"objects from file", "use objects"}},
		{Name: "sections", AllowedAttrs: []string{"sections"}},
		{Name: "imports", AllowedAttrs: []string{"imports"}},
		{Name: "order", AllowedAttrs: []string{"order"}},
		{Name: "attachment", Partners: []string{"question"}},
		{Name: "attachments", Partners: []string{"question"}},
		{
			Name:     "template",
			Partners: []string{"terms"},
			AllowedAttrs: []string{
				"template", "content", "content file", "subject", "language",
				"generic object", "reconsider", "usedefs",
			},
			FieldTypes: map[string]FieldType{
				"content": FieldTypeTemplateMarkdown,
				"subject": FieldTypeTemplateText,
			},
		},
		{
			Name: "table",
			AllowedAttrs: []string{
				"table", "rows", "columns", "allow reordering", "require gathered",
				"show if empty", "edit", "edit header", "confirm", "delete buttons",
				"read only", "sort key", "sort reverse", "filter",
			},
		},
		{Name: "translations"},
		{Name: "modules"},
		{Name: "mako"},
		{Name: "auto terms", Partners: []string{"question"}},
		{Name: "terms", Partners: []string{"question", "template"}},
		{Name: "variable name", AllowedAttrs: []string{"variable name", "gathered", "data", "data from code"}},
		{Name: "default language"},
		{Name: "default validation messages"},
		{Name: "reset"},
		{Name: "on change"},
		{Name: "images"},
		{Name: "image sets"},
		{Name: "default screen parts", AllowedAttrs: []string{"default screen parts"}},
		{Name: "metadata"},
		{Name: "question", Partners: []string{"auto terms", "terms", "attachment", "attachments"}},
		{Name: "response", AllowedAttrs: []string{"response", "event", "mandatory", "content type", "response code"}},
		{Name: "code"},
		{Name: "comment", NonExclusive: true},
		{Name: "interview help"},
		{Name: "machine learning storage"},
	}
	for _, k := range kinds {
		s.kinds[k.Name] = k
		s.kindOrder = append(s.kindOrder, k.Name)
	}

	// Default field type per key, independent of block kind.
	for key, ft := range map[string]FieldType{
		"question":               FieldTypeTemplateMarkdown,
		"subquestion":            FieldTypeTemplateMarkdown,
		"mandatory":              FieldTypeBooleanExpression,
		"initial":                FieldTypeBooleanExpression,
		"code":                   FieldTypeScriptBlock,
		"validation code":        FieldTypeValidationCode,
		"objects":                FieldTypeObjects,
		"fields":                 FieldTypeFieldList,
		"id":                     FieldTypePlainString,
		"ga id":                  FieldTypePlainString,
		"segment id":             FieldTypePlainString,
		"continue button label":  FieldTypePlainString,
		"field":                  FieldTypeVariableReference,
		"def":                    FieldTypeVariableReference,
		"event":                  FieldTypeVariableReference,
		"yesno":                  FieldTypeVariableReference,
		"noyes":                  FieldTypeVariableReference,
		"yesnomaybe":             FieldTypeVariableReference,
		"noyesmaybe":             FieldTypeVariableReference,
		"continue button field":  FieldTypeVariableReference,
		"generic object":         FieldTypeTypeReference,
		"generic list object":    FieldTypeTypeReference,
		"mako":                   FieldTypeTemplateText,
		"metadata":               FieldTypeMetadata,
	} {
		s.fieldTypes[key] = ft
	}

	// Every attribute key known to the dialect. Keys outside this list are
	// hard errors wherever they appear.
	for _, key := range recognizedKeys {
		s.recognized[key] = true
	}

	return s
}

// recognizedKeys mirrors the dictionary keys the docassemble parser itself
// accepts on a block, plus the handful that only appear in non-question
// blocks (tables, features). Matching is done lowercased.
var recognizedKeys = []string{
	"features", "scan for variables", "only sets", "question", "code", "event",
	"translations", "default language", "on change", "sections", "progressive",
	"auto open", "section", "machine learning storage", "language",
	"prevent going back", "back button", "usedefs", "continue button label",
	"continue button color", "resume button label", "resume button color",
	"back button label", "corner back button label", "skip undefined",
	"list collect", "mandatory", "attachment options", "script", "css",
	"initial", "default role", "command", "objects from file", "use objects",
	"data", "variable name", "data from code", "objects", "id", "ga id",
	"segment id", "segment", "supersedes", "order", "image sets", "images",
	"def", "mako", "interview help", "default screen parts",
	"default validation messages", "generic object", "generic list object",
	"comment", "metadata", "modules", "reset", "imports", "terms",
	"auto terms", "role", "include", "action buttons", "if",
	"validation code", "require", "orelse", "attachment", "attachments",
	"attachment code", "attachments code", "allow emailing",
	"allow downloading", "email subject", "email body", "email template",
	"email address default", "progress", "zip filename", "action",
	"backgroundresponse", "response", "binaryresponse", "all_variables",
	"response filename", "content type", "redirect url", "null response",
	"sleep", "include_internal", "css class", "table css class",
	"response code", "subquestion", "reload", "help", "audio", "video",
	"decoration", "signature", "under", "pre", "post", "right", "check in",
	"yesno", "noyes", "yesnomaybe", "noyesmaybe", "sets", "choices",
	"buttons", "dropdown", "combobox", "field", "shuffle", "review", "need",
	"depends on", "target", "table", "rows", "columns", "require gathered",
	"allow reordering", "edit", "delete buttons", "confirm", "read only",
	"edit header", "show if empty", "template", "content file", "content",
	"subject", "reconsider", "undefine", "continue button field", "fields",
	"indent", "url", "default", "datatype", "extras", "allowed to set",
	"show incomplete", "not available label", "required",
	"always include editable files", "question metadata",
	"include attachment notice", "include download tab",
	"describe file types", "manual attachment list", "breadcrumb", "tabular",
	"hide continue button", "disable continue button", "pen color",
	"gathered", "show if", "hide if", "js show if", "js hide if",
	"enable if", "disable if", "js enable if", "js disable if",
	"disable others",
	// Only present in tables, features, and other non-question blocks.
	"filter", "sort key", "sort reverse",
}
