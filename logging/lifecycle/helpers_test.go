package lifecycle

import (
	"context"
	"testing"

	"titans-realm/server/logging"
)

func capture(events *[]logging.Event) logging.Publisher {
	return logging.PublisherFunc(func(_ context.Context, event logging.Event) {
		*events = append(*events, event)
	})
}

func TestEmitSeverities(t *testing.T) {
	var events []logging.Event
	pub := capture(&events)
	actor := logging.EntityRef{ID: "hero", Kind: logging.EntityKindPlayer}

	SessionStart(context.Background(), pub, actor)
	SnapshotSaved(context.Background(), pub, 5, actor)
	AuthFailure(context.Background(), pub, AuthFailurePayload{Name: "hero", Reason: "bad password"})

	want := []logging.Severity{logging.SeverityInfo, logging.SeverityDebug, logging.SeverityWarn}
	if len(events) != 3 {
		t.Fatalf("events = %d, want 3", len(events))
	}
	for i, sev := range want {
		if events[i].Severity != sev {
			t.Fatalf("event %d severity = %d, want %d", i, events[i].Severity, sev)
		}
		if events[i].Category != logging.CategorySystem {
			t.Fatalf("event %d category = %q", i, events[i].Category)
		}
	}
}

func TestEmitNilPublisher(t *testing.T) {
	SessionEnd(context.Background(), nil, 1, logging.EntityRef{})
}
