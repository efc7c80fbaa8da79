package llmtools

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestValidateAgainstSchema_MinimalSubset(t *testing.T) {
	schema := json.RawMessage(`{
        "type":"object",
        "properties":{
            "a":{"type":"string"},
            "b":{"type":"integer","minimum":0,"maximum":10}
        },
        "required":["a"],
        "additionalProperties": false
    }`)
	if err := validateAgainstSchema(map[string]any{"a": "x", "b": 3.0}, schema); err != nil {
		t.Fatalf("unexpected validate error: %v", err)
	}
	if err := validateAgainstSchema(map[string]any{"b": 1.0}, schema); err == nil {
		t.Fatalf("expected error for missing required")
	}
	if err := validateAgainstSchema(map[string]any{"a": "x", "c": true}, schema); err == nil {
		t.Fatalf("expected error for additional property")
	}
	if err := validateAgainstSchema(map[string]any{"a": "x", "b": -1.0}, schema); err == nil {
		t.Fatalf("expected error below minimum")
	}
	if err := validateAgainstSchema(map[string]any{"a": "x", "b": 11.0}, schema); err == nil {
		t.Fatalf("expected error above maximum")
	}
	arrSchema := json.RawMessage(`{"type":"array","items":{"type":"string"}}`)
	if err := validateAgainstSchema([]any{"x", "y"}, arrSchema); err != nil {
		t.Fatalf("unexpected array validate error: %v", err)
	}
	if err := validateAgainstSchema([]any{"x", 1.0}, arrSchema); err == nil {
		t.Fatalf("expected error for non-string item")
	}
}

func TestValidateAgainstSchema_WebScraperSchema(t *testing.T) {
	ok := []string{
		`{"website_url":"https://example.com"}`,
		`{"website_url":"https://example.com","content_limit":0}`,
		`{"website_url":"https://example.com","content_limit":600,"extra":"ignored"}`,
	}
	for _, raw := range ok {
		var v any
		_ = json.Unmarshal([]byte(raw), &v)
		if err := validateAgainstSchema(v, webScraperSchema); err != nil {
			t.Fatalf("%s: unexpected error %v", raw, err)
		}
	}
	bad := []string{
		`{}`,
		`{"website_url":1}`,
		`{"website_url":"https://example.com","content_limit":-5}`,
		`{"website_url":"https://example.com","content_limit":"600"}`,
		`["https://example.com"]`,
	}
	for _, raw := range bad {
		var v any
		_ = json.Unmarshal([]byte(raw), &v)
		if err := validateAgainstSchema(v, webScraperSchema); err == nil {
			t.Fatalf("%s: expected error", raw)
		}
	}
}

func TestValidateAgainstSchema_FirstMismatchIsDeterministic(t *testing.T) {
	schema := json.RawMessage(`{"type":"object","properties":{"a":{"type":"string"},"b":{"type":"string"},"c":{"type":"string"}}}`)
	value := map[string]any{"c": 1.0, "b": 2.0, "a": 3.0}
	for i := 0; i < 20; i++ {
		err := validateAgainstSchema(value, schema)
		if err == nil || !strings.Contains(err.Error(), "property a:") {
			t.Fatalf("expected mismatch on property a, got %v", err)
		}
	}
}

// Lightweight fuzz test for validateAgainstSchema to ensure it doesn't panic
// on random JSON values and simple schemas.
func FuzzValidateAgainstSchema_ObjectAndArray(f *testing.F) {
	f.Add(`{"type":"object","properties":{"a":{"type":"string"}},"required":["a"],"additionalProperties":false}`, `{"a":"x"}`)
	f.Add(`{"type":"array","items":{"type":"integer","minimum":1}}`, `[1,2,3]`)
	f.Add(`{"type":"string"}`, `"hello"`)
	f.Fuzz(func(t *testing.T, schemaJSON string, valueJSON string) {
		var val any
		_ = json.Unmarshal([]byte(valueJSON), &val)
		_ = validateAgainstSchema(val, json.RawMessage(schemaJSON)) // must not panic
	})
}
