package queue

import "testing"

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		S3Path:     "agreements/2025/jane-doe.pdf",
		RequestID:  "req-123",
		EnqueuedAt: "2025-08-25T12:00:00Z",
		Version:    1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("EncodeMessage: %v", err)
	}

	decoded, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if decoded != msg {
		t.Fatalf("round trip mismatch: %+v != %+v", decoded, msg)
	}
}

func TestDecodeMessageRejectsBadJSON(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestDecodeMessageCamelCaseKeys(t *testing.T) {
	msg, err := DecodeMessage([]byte(`{"s3Path":"agreements/a.pdf","requestId":"r1","version":1}`))
	if err != nil {
		t.Fatalf("DecodeMessage: %v", err)
	}
	if msg.S3Path != "agreements/a.pdf" || msg.RequestID != "r1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}
