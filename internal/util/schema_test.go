package util

import "testing"

type weatherArgs struct {
	City  string `json:"city" jsonschema_description:"City name to look up."`
	Units string `json:"units,omitempty" jsonschema_description:"celsius or fahrenheit."`
}

func TestCreateSchema_FromStruct(t *testing.T) {
	schema := CreateSchema(&weatherArgs{})

	if schema["type"] != "object" {
		t.Fatalf("Expected object schema, got %+v", schema)
	}
	if _, found := schema["$schema"]; found {
		t.Fatal("Meta key $schema should be stripped")
	}

	props, ok := schema["properties"].(map[string]any)
	if !ok {
		t.Fatalf("Missing properties: %+v", schema)
	}
	city, ok := props["city"].(map[string]any)
	if !ok || city["type"] != "string" {
		t.Fatalf("City property malformed: %+v", props)
	}
	if city["description"] != "City name to look up." {
		t.Fatalf("Description tag not applied: %+v", city)
	}

	required := requiredFields(schema)
	if len(required) != 1 || required[0] != "city" {
		t.Fatalf("Expected only city required, got %v", required)
	}
}

func TestValidateParameters(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city":  map[string]any{"type": "string"},
			"count": map[string]any{"type": "integer"},
		},
		"required": []string{"city"},
	}

	if err := ValidateParameters(map[string]any{"city": "Tokyo"}, schema); err != nil {
		t.Fatalf("Valid params rejected: %v", err)
	}

	// JSON numbers arrive as float64; whole values pass integer checks.
	if err := ValidateParameters(map[string]any{"city": "Tokyo", "count": float64(3)}, schema); err != nil {
		t.Fatalf("Whole float should satisfy integer: %v", err)
	}

	err := ValidateParameters(map[string]any{}, schema)
	if err == nil {
		t.Fatal("Missing required field should fail")
	}
	ve, ok := err.(*ValidationError)
	if !ok || ve.Field != "city" {
		t.Fatalf("Expected ValidationError for city, got %v", err)
	}

	if err := ValidateParameters(map[string]any{"city": 42}, schema); err == nil {
		t.Fatal("Type mismatch should fail")
	}

	if err := ValidateParameters(map[string]any{"city": "Tokyo", "count": 2.5}, schema); err == nil {
		t.Fatal("Fractional value should fail integer check")
	}

	// required as []any (schemas that round-tripped through JSON)
	jsonSchema := map[string]any{
		"type":       "object",
		"properties": map[string]any{"city": map[string]any{"type": "string"}},
		"required":   []any{"city"},
	}
	if err := ValidateParameters(map[string]any{}, jsonSchema); err == nil {
		t.Fatal("Missing required field should fail for []any required")
	}
}
