package llmtools

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	openai "github.com/sashabaranov/go-openai"
)

// ToolSpec captures a single callable tool/function exposed to a host.
// JSONSchema must be a valid JSON Schema object encoded as raw JSON.
// Name must be a stable, lowercase, snake_case identifier.
type ToolSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	JSONSchema  json.RawMessage `json:"json_schema"`
}

// EncodeTools converts ToolSpec entries into OpenAI-compatible tools array.
func EncodeTools(specs []ToolSpec) []openai.Tool {
	out := make([]openai.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.JSONSchema,
			},
		})
	}
	return out
}

// schemaNode is the subset of JSON Schema the tool arguments use.
type schemaNode struct {
	Type                 string                     `json:"type"`
	Properties           map[string]json.RawMessage `json:"properties"`
	Required             []string                   `json:"required"`
	AdditionalProperties *bool                      `json:"additionalProperties"`
	Items                json.RawMessage            `json:"items"`
	Minimum              *float64                   `json:"minimum"`
	Maximum              *float64                   `json:"maximum"`
}

// validateAgainstSchema checks a decoded JSON value against schema and
// returns the first mismatch. Supported keywords: type (object, array,
// string, integer, number, boolean; an omitted type means object),
// properties, required, additionalProperties (boolean), items (one schema),
// minimum and maximum. Unknown types pass.
func validateAgainstSchema(value any, schema json.RawMessage) error {
	if len(schema) == 0 {
		return nil
	}
	var node schemaNode
	if err := json.Unmarshal(schema, &node); err != nil {
		return err
	}
	switch node.Type {
	case "object", "":
		return node.validateObject(value)
	case "array":
		return node.validateArray(value)
	case "string":
		if _, ok := value.(string); !ok {
			return errors.New("schema: expected string")
		}
	case "integer":
		f, ok := value.(float64)
		if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
			return errors.New("schema: expected integer")
		}
		return node.checkBounds(f)
	case "number":
		f, ok := value.(float64)
		if !ok {
			return errors.New("schema: expected number")
		}
		return node.checkBounds(f)
	case "boolean":
		if _, ok := value.(bool); !ok {
			return errors.New("schema: expected boolean")
		}
	}
	return nil
}

func (n schemaNode) validateObject(value any) error {
	obj, ok := value.(map[string]any)
	if !ok {
		return errors.New("schema: expected object")
	}
	for _, name := range n.Required {
		if _, present := obj[name]; !present {
			return errors.New("schema: missing required field: " + name)
		}
	}
	closed := n.AdditionalProperties != nil && !*n.AdditionalProperties
	for _, key := range sortedKeys(obj) {
		sub, known := n.Properties[key]
		if !known {
			if closed {
				return errors.New("schema: additional property not allowed: " + key)
			}
			continue
		}
		if err := validateAgainstSchema(obj[key], sub); err != nil {
			return fmt.Errorf("schema: property %s: %w", key, err)
		}
	}
	return nil
}

func (n schemaNode) validateArray(value any) error {
	arr, ok := value.([]any)
	if !ok {
		return errors.New("schema: expected array")
	}
	if len(n.Items) == 0 {
		return nil
	}
	for i, elem := range arr {
		if err := validateAgainstSchema(elem, n.Items); err != nil {
			return fmt.Errorf("schema: items[%d]: %w", i, err)
		}
	}
	return nil
}

func (n schemaNode) checkBounds(f float64) error {
	if n.Minimum != nil && f < *n.Minimum {
		return fmt.Errorf("schema: value %v below minimum %v", f, *n.Minimum)
	}
	if n.Maximum != nil && f > *n.Maximum {
		return fmt.Errorf("schema: value %v above maximum %v", f, *n.Maximum)
	}
	return nil
}

// sortedKeys makes the first reported mismatch deterministic.
func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
