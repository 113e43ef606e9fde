package story

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// briefSchema is the JSON schema a story brief document must satisfy.
// Range checks mirror Brief.Validate so schema errors carry field paths.
const briefSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["characters", "theme", "age_range", "location", "image_style"],
  "properties": {
    "characters": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "description"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "description": {"type": "string"},
          "image_path": {"type": "string"}
        }
      }
    },
    "theme": {"type": "string", "minLength": 1},
    "age_range": {"type": "string", "minLength": 1},
    "location": {
      "type": "object",
      "required": ["setting"],
      "properties": {
        "setting": {"type": "string", "minLength": 1},
        "details": {"type": "array", "items": {"type": "string"}}
      }
    },
    "story_length_pages": {"type": "integer", "minimum": 4, "maximum": 20},
    "image_style": {"type": "string", "minLength": 1}
  }
}`

var compiledBriefSchema = mustCompileBriefSchema()

func mustCompileBriefSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("brief.json", strings.NewReader(briefSchema)); err != nil {
		panic(fmt.Sprintf("failed to add brief schema resource: %v", err))
	}
	schema, err := compiler.Compile("brief.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile brief schema: %v", err))
	}
	return schema
}

// validateBriefSchema checks raw brief JSON against the schema.
func validateBriefSchema(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("brief is not valid JSON: %w", err)
	}
	if err := compiledBriefSchema.Validate(doc); err != nil {
		return err
	}
	return nil
}
