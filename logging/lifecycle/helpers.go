package lifecycle

import (
	"context"

	"titans-realm/server/logging"
)

const (
	EventSessionStart   logging.EventType = "lifecycle.session_start"
	EventSessionEnd     logging.EventType = "lifecycle.session_end"
	EventSnapshotSaved  logging.EventType = "lifecycle.snapshot_saved"
	EventOfflineCatchup logging.EventType = "lifecycle.offline_catchup"
	EventAuthFailure    logging.EventType = "lifecycle.auth_failure"
)

type OfflinePayload struct {
	SecondsOffline int64 `json:"secondsOffline"`
	Cycles         int   `json:"cycles"`
	Ore            int   `json:"ore,omitempty"`
	XP             int   `json:"xp,omitempty"`
}

type AuthFailurePayload struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

func emit(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	event.Category = logging.CategorySystem
	pub.Publish(ctx, event)
}

func SessionStart(ctx context.Context, pub logging.Publisher, actor logging.EntityRef) {
	emit(ctx, pub, logging.Event{Type: EventSessionStart, Actor: actor, Severity: logging.SeverityInfo})
}

func SessionEnd(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	emit(ctx, pub, logging.Event{Type: EventSessionEnd, Tick: tick, Actor: actor, Severity: logging.SeverityInfo})
}

func SnapshotSaved(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef) {
	emit(ctx, pub, logging.Event{Type: EventSnapshotSaved, Tick: tick, Actor: actor, Severity: logging.SeverityDebug})
}

func OfflineCatchup(ctx context.Context, pub logging.Publisher, actor logging.EntityRef, payload OfflinePayload) {
	emit(ctx, pub, logging.Event{Type: EventOfflineCatchup, Actor: actor, Severity: logging.SeverityInfo, Payload: payload})
}

func AuthFailure(ctx context.Context, pub logging.Publisher, payload AuthFailurePayload) {
	emit(ctx, pub, logging.Event{Type: EventAuthFailure, Actor: logging.EntityRef{Kind: logging.EntityKindWorld}, Severity: logging.SeverityWarn, Payload: payload})
}
