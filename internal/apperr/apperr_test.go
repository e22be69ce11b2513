// ABOUTME: Tests for the CLI error envelope.
// ABOUTME: Verifies key order and detail handling in the serialized form.
package apperr

import (
	"encoding/json"
	"testing"
)

func TestMarshalPutsErrorFirst(t *testing.T) {
	err := New("Conflicting social_set_id values", "positional", "111", "flag", "222")

	data, mErr := json.Marshal(err)
	if mErr != nil {
		t.Fatalf("marshal: %v", mErr)
	}
	want := `{"error":"Conflicting social_set_id values","positional":"111","flag":"222"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestNewIgnoresDanglingKey(t *testing.T) {
	err := New("boom", "hint")
	if err.Details.Len() != 0 {
		t.Errorf("expected no details, got %d", err.Details.Len())
	}
}

func TestWithAndDetail(t *testing.T) {
	err := Newf("HTTP %d", 404).With("response", json.RawMessage(`{"detail":"missing"}`))
	if err.Error() != "HTTP 404" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if _, ok := err.Detail("response"); !ok {
		t.Error("expected response detail")
	}

	data, _ := json.Marshal(err)
	want := `{"error":"HTTP 404","response":{"detail":"missing"}}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
