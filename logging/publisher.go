package logging

import (
	"context"
	"time"
)

type EventType string

type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

type EntityKind string

const (
	EntityKindUnknown EntityKind = "unknown"
	EntityKindPlayer  EntityKind = "player"
	EntityKindMonster EntityKind = "monster"
	EntityKindGuild   EntityKind = "guild"
	EntityKindListing EntityKind = "listing"
	EntityKindWorld   EntityKind = "world"
)

// Event is the structured record every subsystem publishes. Tick is the
// session tick the event was observed on, zero for world-scoped events.
type Event struct {
	Type     EventType   `json:"type"`
	Tick     uint64      `json:"tick"`
	Time     time.Time   `json:"time"`
	Actor    EntityRef   `json:"actor"`
	Targets  []EntityRef `json:"targets,omitempty"`
	Severity Severity    `json:"severity"`
	Category string      `json:"category,omitempty"`
	Payload  any         `json:"payload,omitempty"`
}

type EntityRef struct {
	ID   string     `json:"id"`
	Kind EntityKind `json:"kind"`
}

const (
	CategoryGameplay = "gameplay"
	CategoryCombat   = "combat"
	CategoryEconomy  = "economy"
	CategorySystem   = "system"
)

type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type PublisherFunc func(ctx context.Context, event Event)

func (f PublisherFunc) Publish(ctx context.Context, event Event) {
	if f == nil {
		return
	}
	f(ctx, event)
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, Event) {}

func NopPublisher() Publisher {
	return nopPublisher{}
}
