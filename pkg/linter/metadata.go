package linter

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/suffolklitlab/dalint/pkg/parser"
)

// metadataSchema describes the common metadata keys. Unknown keys pass;
// the server ignores them too. Findings here are advisory because
// interviews with odd metadata still run.
const metadataSchema = `{
  "type": "object",
  "properties": {
    "title": {"type": ["string", "object"]},
    "short title": {"type": ["string", "object"]},
    "subtitle": {"type": ["string", "object"]},
    "description": {"type": ["string", "object"]},
    "authors": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name": {"type": "string"},
          "organization": {"type": "string"}
        }
      }
    },
    "author": {"type": "string"},
    "revision_date": {"type": ["string", "number"]},
    "original_form": {"type": ["string", "array", "null"]},
    "tags": {"type": "array", "items": {"type": "string"}},
    "required privileges": {"type": ["array", "string"]},
    "sessions are unique": {"type": "boolean"},
    "temporary session": {"type": "boolean"},
    "unlisted": {"type": "boolean"},
    "hidden": {"type": "boolean"},
    "error action": {"type": "string"},
    "exit url": {"type": "string"},
    "exit link": {"type": "string"},
    "logo": {"type": "string"},
    "title url": {"type": "string"},
    "languages": {"type": "array", "items": {"type": "string"}}
  },
  "additionalProperties": true
}`

var (
	metadataCompileOnce sync.Once
	compiledMetadata    *jsonschema.Schema
)

func metadataValidator() *jsonschema.Schema {
	metadataCompileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(metadataSchema))
		if err != nil {
			panic(err)
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("metadata.schema.json", doc); err != nil {
			panic(err)
		}
		compiledMetadata = compiler.MustCompile("metadata.schema.json")
	})
	return compiledMetadata
}

// checkMetadata validates a metadata block against the embedded schema.
// The decoded value is round-tripped through JSON so the validator sees
// canonical JSON types.
func (l *fileLinter) checkMetadata(field parser.Field) {
	var decoded any
	if err := field.Decode(&decoded); err != nil {
		l.c.Hardf(field.Line, "\"metadata\" could not be decoded: %v", err)
		return
	}
	if _, ok := decoded.(map[string]any); !ok {
		l.c.Hardf(field.Line, "\"metadata\" must be a mapping, is %s", parser.NodeTypeName(field.Value))
		return
	}

	raw, err := json.Marshal(decoded)
	if err != nil {
		l.c.Hardf(field.Line, "\"metadata\" could not be encoded for validation: %v", err)
		return
	}
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		l.c.Hardf(field.Line, "\"metadata\" could not be encoded for validation: %v", err)
		return
	}

	err = metadataValidator().Validate(value)
	if err == nil {
		return
	}
	verr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		l.c.Advisoryf(field.Line, "\"metadata\" failed schema validation: %v", err)
		return
	}
	for _, leaf := range leafCauses(verr) {
		loc := strings.Join(leaf.InstanceLocation, "/")
		if loc == "" {
			l.c.Advisoryf(field.Line, "\"metadata\" failed schema validation: %v", leaf)
		} else {
			l.c.Advisoryf(field.Line, "\"metadata\" key %q: %v", loc, leaf)
		}
	}
}

// leafCauses flattens a validation error tree to its most specific causes.
func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}
