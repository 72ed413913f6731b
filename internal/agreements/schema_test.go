package agreements

import (
	"testing"
)

func TestJSONSchemaMarksOptionalFields(t *testing.T) {
	shapes, err := SchemaFor(TitleEnrollmentTuition)
	if err != nil {
		t.Fatalf("SchemaFor: %v", err)
	}

	schema := shapes[0].JSONSchema()
	if schema["type"] != "object" {
		t.Fatalf("expected object schema, got %v", schema["type"])
	}

	required, ok := schema["required"].([]string)
	if !ok {
		t.Fatalf("expected required list, got %T", schema["required"])
	}
	requiredSet := map[string]bool{}
	for _, name := range required {
		requiredSet[name] = true
	}
	if !requiredSet["document_title"] || !requiredSet["student"] {
		t.Fatalf("expected core fields required, got %v", required)
	}
	if requiredSet["second_parent_guardian"] {
		t.Fatalf("second parent must be optional")
	}
}

func TestJSONSchemaNestsObjectsAndArrays(t *testing.T) {
	shapes, err := SchemaFor(TitleEnrollmentTuition)
	if err != nil {
		t.Fatalf("SchemaFor: %v", err)
	}

	props := shapes[0].JSONSchema()["properties"].(map[string]any)

	student, ok := props["student"].(map[string]any)
	if !ok || student["type"] != "object" {
		t.Fatalf("expected nested student object, got %v", props["student"])
	}
	studentProps := student["properties"].(map[string]any)
	if _, ok := studentProps["first_name"]; !ok {
		t.Fatalf("expected first_name under student, got %v", studentProps)
	}

	services, ok := props["services"].(map[string]any)
	if !ok || services["type"] != "array" {
		t.Fatalf("expected services array, got %v", props["services"])
	}
	items := services["items"].(map[string]any)
	itemProps := items["properties"].(map[string]any)
	if _, ok := itemProps["cost_per_unit"]; !ok {
		t.Fatalf("expected cost_per_unit on service items, got %v", itemProps)
	}
}

func TestSchemaForUnknownTitle(t *testing.T) {
	if _, err := SchemaFor(DocumentTitle("Purchase Order")); err == nil {
		t.Fatalf("expected error for unknown title")
	}
}

func TestTuitionSecondPageCoversPaymentVariants(t *testing.T) {
	shapes, err := SchemaFor(TitleEnrollmentTuition)
	if err != nil {
		t.Fatalf("SchemaFor: %v", err)
	}
	if len(shapes) != 2 {
		t.Fatalf("expected two shapes for tuition titles, got %d", len(shapes))
	}

	props := shapes[1].JSONSchema()["properties"].(map[string]any)
	payment := props["payment"].(map[string]any)
	paymentProps := payment["properties"].(map[string]any)
	for _, name := range []string{"scholarship_payment", "single_payment", "multiple_payment"} {
		if _, ok := paymentProps[name]; !ok {
			t.Fatalf("missing payment variant %s in %v", name, paymentProps)
		}
	}
	if _, hasRequired := payment["required"]; hasRequired {
		t.Fatalf("all payment variants must be optional")
	}
}
