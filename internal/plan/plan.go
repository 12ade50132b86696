// Package plan loads generated business plans from disk.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/bryan-cox/launchledger/internal/model"
)

// ErrInvalidPlan is returned when a plan document fails schema validation.
var ErrInvalidPlan = errors.New("invalid business plan")

const schemaURL = "https://launchledger.local/schemas/business-plan.schema.json"

// schemaJSON covers the sections the tracker reads. Other plan sections pass through.
const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["idea"],
  "properties": {
    "idea": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string"}
      }
    },
    "workforce": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "properties": {
          "role": {"type": "string"},
          "count": {"type": "integer", "minimum": 0}
        }
      }
    },
    "location": {
      "type": ["object", "null"],
      "properties": {
        "areaType": {"type": "string"},
        "shopSize": {"type": "string"},
        "setupNeeds": {"type": "array", "items": {"type": "string"}}
      }
    }
  }
}`

var schema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("plan schema load failed: %v", err))
	}
	return c.MustCompile(schemaURL)
}

// Parse validates and decodes a plan document. JSON and YAML are both accepted.
func Parse(data []byte) (*model.BusinessPlan, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	// Normalize through JSON so the validator sees JSON types.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	var instance any
	if err := json.Unmarshal(normalized, &instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if err := schema.Validate(instance); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}

	var p model.BusinessPlan
	if err := json.Unmarshal(normalized, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	return &p, nil
}

// Load reads and parses the plan at path.
func Load(path string) (*model.BusinessPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read plan file '%s': %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("could not load plan file '%s': %w", path, err)
	}
	return p, nil
}
