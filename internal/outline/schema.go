package outline

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// outlineSchema constrains what the model is allowed to hand back. Anything
// outside it falls through to the heuristic outline.
const outlineSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["sections"],
  "properties": {
    "sections": {
      "type": "array",
      "minItems": 1,
      "maxItems": 12,
      "items": {
        "type": "object",
        "required": ["id", "content_type"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "content_type": {
            "type": "string",
            "enum": ["hero", "features", "testimonial", "cta", "pricing", "faq", "gallery", "contact", "content"]
          },
          "heading": {"type": "string"},
          "body_html": {"type": "string"}
        }
      }
    }
  }
}`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func loadCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("outline.schema.json", strings.NewReader(outlineSchema)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile("outline.schema.json")
	})
	return compiledSchema, compileErr
}

// validateOutlineJSON checks a raw model response against the outline
// schema and returns the decoded document.
func validateOutlineJSON(raw string) (outlineDoc, error) {
	var doc outlineDoc

	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return doc, fmt.Errorf("outline is not valid JSON: %w", err)
	}

	schema, err := loadCompiledSchema()
	if err != nil {
		return doc, fmt.Errorf("failed to compile outline schema: %w", err)
	}
	if err := schema.Validate(generic); err != nil {
		return doc, fmt.Errorf("outline failed schema validation: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return doc, err
	}
	return doc, nil
}
