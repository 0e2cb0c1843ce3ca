package ws

import (
	"encoding/json"
	"testing"

	"discovery_backend/internal/analytics"
	"discovery_backend/internal/domain"
	"discovery_backend/internal/repository"
	"discovery_backend/internal/service"
	"discovery_backend/internal/state"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	tracker := analytics.NewTracker(16)
	t.Cleanup(tracker.Close)

	registry := state.NewRegistry(domain.DefaultPolicy(), repository.NewMemoryStateStore())
	calls := service.NewCallManager(registry, nil, nil, tracker, domain.DefaultPolicy())
	return NewClient(1, nil, calls)
}

// A decision can arrive from the read pump after the call has already ended
// and shutdown has been signalled. The rejection must be queued, not panic.
func TestDecisionAfterCallEnd(t *testing.T) {
	c := newTestClient(t)
	close(c.stop)

	c.handleDecision([]byte(`{"type":"switch_to_paid"}`))
	c.handleDecision([]byte(`{"type":"end_call"}`))

	if len(c.Send) != 2 {
		t.Fatalf("queued messages = %d; want 2 rejections", len(c.Send))
	}
	var msg ErrorMessage
	if err := json.Unmarshal(<-c.Send, &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Type != "error" {
		t.Fatalf("message type = %q; want error", msg.Type)
	}
}

func TestDecisionRejectsMalformed(t *testing.T) {
	c := newTestClient(t)

	c.handleDecision([]byte(`{not json`))
	c.handleDecision([]byte(`{"type":"dance"}`))

	if len(c.Send) != 2 {
		t.Fatalf("queued messages = %d; want 2 rejections", len(c.Send))
	}
}
