package combat

import (
	"context"

	"titans-realm/server/logging"
)

const (
	// EventSpawn is emitted when a monster enters an encounter.
	EventSpawn logging.EventType = "combat.spawn"
	// EventExchange is emitted for each resolved attack exchange.
	EventExchange logging.EventType = "combat.exchange"
	// EventSkill is emitted when an equipped active skill fires.
	EventSkill logging.EventType = "combat.skill"
	// EventKill is emitted when the player defeats a monster.
	EventKill logging.EventType = "combat.kill"
	// EventDeath is emitted when the player dies and respawns.
	EventDeath logging.EventType = "combat.death"
)

type SpawnPayload struct {
	Monster string `json:"monster"`
	Level   int    `json:"level"`
	Zone    string `json:"zone"`
	Boss    bool   `json:"boss"`
}

type ExchangePayload struct {
	PlayerDamage  int     `json:"playerDamage"`
	MonsterDamage float64 `json:"monsterDamage,omitempty"`
	MonsterHP     int     `json:"monsterHp"`
	PlayerHP      float64 `json:"playerHp"`
}

type SkillPayload struct {
	Skill  string `json:"skill"`
	Damage int    `json:"damage,omitempty"`
	Heal   int    `json:"heal,omitempty"`
	StunMs int64  `json:"stunMs,omitempty"`
}

type KillPayload struct {
	Monster string `json:"monster"`
	XP      int    `json:"xp"`
	Gold    int    `json:"gold"`
	Loot    string `json:"loot,omitempty"`
	Levels  int    `json:"levels,omitempty"`
}

func Spawn(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, monster logging.EntityRef, payload SpawnPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSpawn,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{monster},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func Exchange(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, monster logging.EntityRef, payload ExchangePayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventExchange,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{monster},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func Skill(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload SkillPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventSkill,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func Kill(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, monster logging.EntityRef, payload KillPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventKill,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{monster},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
		Payload:  payload,
	})
}

func Death(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, monster logging.EntityRef) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventDeath,
		Tick:     tick,
		Actor:    actor,
		Targets:  []logging.EntityRef{monster},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryCombat,
	})
}
