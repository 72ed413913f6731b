package agreements

import (
	"encoding/json"
	"testing"
)

func TestResponseExposesServicesOnce(t *testing.T) {
	rec := AgreementRecord{
		S3Path:        "agreements/2025/jane-doe.pdf",
		DocumentTitle: "Tutoring Agreement",
		ServicesList: []ServiceLine{
			{ServiceName: "Tutoring", CostPerUnit: 90, Units: 10, Tuition: 900},
		},
	}

	data, err := json.Marshal(toResponse(rec))
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	services, ok := body["services"].([]any)
	if !ok || len(services) != 1 {
		t.Fatalf("expected one entry under services, got %v", body["services"])
	}
	if _, dup := body["services_list"]; dup {
		t.Fatalf("services_list must not appear alongside services")
	}
}

func TestResponseServicesNeverNull(t *testing.T) {
	data, err := json.Marshal(toResponse(AgreementRecord{S3Path: "agreements/empty.pdf"}))
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if _, ok := body["services"].([]any); !ok {
		t.Fatalf("expected services to be an empty list, got %v", body["services"])
	}
}
