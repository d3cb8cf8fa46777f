package economy

import (
	"context"

	"titans-realm/server/logging"
)

const (
	EventLootDrop      logging.EventType = "economy.loot_drop"
	EventCraftComplete logging.EventType = "economy.craft_complete"
	EventGatherYield   logging.EventType = "economy.gather_yield"
	EventPurchase      logging.EventType = "economy.purchase"
	EventSale          logging.EventType = "economy.sale"
	EventTribute       logging.EventType = "economy.tribute"
	EventAutomation    logging.EventType = "economy.automation"
	EventMarketChurn   logging.EventType = "economy.market_churn"
	EventGuildDrift    logging.EventType = "economy.guild_drift"
)

type ItemPayload struct {
	Item   string `json:"item"`
	Rarity string `json:"rarity,omitempty"`
	Amount int    `json:"amount,omitempty"`
	Value  int    `json:"value,omitempty"`
}

type GoldPayload struct {
	Gold   int    `json:"gold"`
	Reason string `json:"reason,omitempty"`
}

type ResourcePayload struct {
	Resource string `json:"resource"`
	Amount   int    `json:"amount"`
	XP       int    `json:"xp,omitempty"`
}

type ChurnPayload struct {
	Added    string `json:"added,omitempty"`
	Removed  string `json:"removed,omitempty"`
	Listings int    `json:"listings"`
}

type DriftPayload struct {
	Boosted    string `json:"boosted,omitempty"`
	BoostedBy  int    `json:"boostedBy,omitempty"`
	Hindered   string `json:"hindered,omitempty"`
	HinderedBy int    `json:"hinderedBy,omitempty"`
}

func emit(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	event.Category = logging.CategoryEconomy
	pub.Publish(ctx, event)
}

func LootDrop(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ItemPayload) {
	emit(ctx, pub, logging.Event{Type: EventLootDrop, Tick: tick, Actor: actor, Severity: logging.SeverityInfo, Payload: payload})
}

func CraftComplete(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ItemPayload) {
	emit(ctx, pub, logging.Event{Type: EventCraftComplete, Tick: tick, Actor: actor, Severity: logging.SeverityInfo, Payload: payload})
}

func GatherYield(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ResourcePayload) {
	emit(ctx, pub, logging.Event{Type: EventGatherYield, Tick: tick, Actor: actor, Severity: logging.SeverityInfo, Payload: payload})
}

func Purchase(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, listing logging.EntityRef, payload GoldPayload) {
	emit(ctx, pub, logging.Event{Type: EventPurchase, Tick: tick, Actor: actor, Targets: []logging.EntityRef{listing}, Severity: logging.SeverityInfo, Payload: payload})
}

func Sale(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ItemPayload) {
	emit(ctx, pub, logging.Event{Type: EventSale, Tick: tick, Actor: actor, Severity: logging.SeverityInfo, Payload: payload})
}

func Tribute(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload GoldPayload) {
	emit(ctx, pub, logging.Event{Type: EventTribute, Tick: tick, Actor: actor, Severity: logging.SeverityInfo, Payload: payload})
}

func Automation(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload ResourcePayload) {
	emit(ctx, pub, logging.Event{Type: EventAutomation, Tick: tick, Actor: actor, Severity: logging.SeverityInfo, Payload: payload})
}

func MarketChurn(ctx context.Context, pub logging.Publisher, payload ChurnPayload) {
	emit(ctx, pub, logging.Event{Type: EventMarketChurn, Actor: logging.EntityRef{Kind: logging.EntityKindWorld}, Severity: logging.SeverityInfo, Payload: payload})
}

func GuildDrift(ctx context.Context, pub logging.Publisher, payload DriftPayload) {
	emit(ctx, pub, logging.Event{Type: EventGuildDrift, Actor: logging.EntityRef{Kind: logging.EntityKindWorld}, Severity: logging.SeverityInfo, Payload: payload})
}
