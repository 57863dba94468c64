package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRespondError(t *testing.T) {
	resp := httptest.NewRecorder()
	RespondError(resp, http.StatusNotFound, "conversation not found")

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	if got := resp.Body.String(); got != "{\"error\":\"conversation not found\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestSendSSEChunk(t *testing.T) {
	resp := httptest.NewRecorder()
	SetupSSEHeaders(resp)
	SendSSEChunk(resp, resp, map[string]string{"event": "end"})

	if got := resp.Body.String(); got != "data: {\"event\":\"end\"}\n\n" {
		t.Fatalf("unexpected chunk %q", got)
	}
	if !resp.Flushed {
		t.Fatal("expected chunk to be flushed")
	}
}
