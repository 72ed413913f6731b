package agreements

import (
	"reflect"
	"testing"
)

func TestPostSkillBuildingWrapsTotalTuition(t *testing.T) {
	rec := RawRecord{"total_tuition": 1200.0}
	out := postSkillBuilding(rec)

	payment, ok := out["payment"].(map[string]any)
	if !ok {
		t.Fatalf("expected payment object, got %T", out["payment"])
	}
	single, ok := payment["single_payment"].(map[string]any)
	if !ok {
		t.Fatalf("expected single_payment object, got %T", payment["single_payment"])
	}
	if single["amount"] != 1200.0 {
		t.Fatalf("expected amount 1200, got %v", single["amount"])
	}
	if payment["multiple_payment"] != nil || payment["scholarship_payment"] != nil {
		t.Fatalf("expected nil multiple and scholarship payments")
	}
}

func TestPostTutoringDerivesSessionsAndListifiesService(t *testing.T) {
	rec := RawRecord{
		"services": map[string]any{
			"service_name":  "Algebra support",
			"cost_per_unit": 95.0,
			"units":         12.0,
			"tuition":       1140.0,
		},
	}
	out := postTutoring(rec)

	if out["one_to_one_sessions"] != 12.0 {
		t.Fatalf("expected one_to_one_sessions 12, got %v", out["one_to_one_sessions"])
	}
	services, ok := out["services"].([]any)
	if !ok || len(services) != 1 {
		t.Fatalf("expected single-element services list, got %v", out["services"])
	}
	payment := out["payment"].(map[string]any)
	single := payment["single_payment"].(map[string]any)
	if single["amount"] != 1140.0 {
		t.Fatalf("expected amount 1140, got %v", single["amount"])
	}
}

func TestPostAdditionalSessionsWrapsPaymentAndService(t *testing.T) {
	rec := RawRecord{
		"payment": map[string]any{
			"amount":   450.0,
			"due_date": "09/01/25",
		},
		"services": map[string]any{
			"service_name": "Extra sessions",
		},
	}
	out := postAdditionalSessions(rec)

	payment := out["payment"].(map[string]any)
	single, ok := payment["single_payment"].(map[string]any)
	if !ok {
		t.Fatalf("expected wrapped single_payment, got %v", payment["single_payment"])
	}
	if single["amount"] != 450.0 {
		t.Fatalf("expected amount 450, got %v", single["amount"])
	}
	if _, ok := out["services"].([]any); !ok {
		t.Fatalf("expected services list, got %T", out["services"])
	}
}

func TestPostProcessorsAreIdempotent(t *testing.T) {
	cases := map[string]struct {
		post PostProcessor
		rec  RawRecord
	}{
		"skill building": {
			post: postSkillBuilding,
			rec:  RawRecord{"total_tuition": 800.0},
		},
		"tutoring": {
			post: postTutoring,
			rec: RawRecord{
				"services": map[string]any{
					"service_name": "Reading",
					"units":        6.0,
					"tuition":      600.0,
				},
			},
		},
		"additional sessions": {
			post: postAdditionalSessions,
			rec: RawRecord{
				"payment":  map[string]any{"amount": 300.0},
				"services": map[string]any{"service_name": "Sessions"},
			},
		},
	}

	for name, tc := range cases {
		once := tc.post(tc.rec)
		twice := tc.post(once)
		if !reflect.DeepEqual(once, twice) {
			t.Fatalf("%s: second run changed the record:\nonce:  %v\ntwice: %v", name, once, twice)
		}
	}
}
