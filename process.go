package server

import (
	"math/rand"
	"strings"
	"time"
)

type ResourceKind string

const (
	ResourceWood ResourceKind = "wood"
	ResourceOre  ResourceKind = "ore"
)

// CraftingProcess is the single active craft slot payload.
type CraftingProcess struct {
	RecipeID string    `json:"recipeId"`
	Amount   int       `json:"amount"`
	Start    time.Time `json:"startTime"`
	End      time.Time `json:"endTime"`
}

// GatheringProcess is the single active gather slot payload.
type GatheringProcess struct {
	Resource ResourceKind `json:"type"`
	Start    time.Time    `json:"startTime"`
	End      time.Time    `json:"endTime"`
}

// processManager holds the two independent single-slot queues. A slot is
// empty when nil; a new start request against an occupied slot fails with
// ErrAlreadyInProgress and mutates nothing.
type processManager struct {
	craft  *CraftingProcess
	gather *GatheringProcess
}

func (m *processManager) craftActive() bool  { return m.craft != nil }
func (m *processManager) gatherActive() bool { return m.gather != nil }

// requiredToolFor maps a resource to the tool-name substring that must be
// present on the equipped tool.
func requiredToolFor(resource ResourceKind) string {
	if resource == ResourceOre {
		return "pickaxe"
	}
	return "axe"
}

// gatherDuration is 45s with a wooden tool, 3s with anything better.
func gatherDuration(toolName string) time.Duration {
	if strings.Contains(strings.ToLower(toolName), "wooden") {
		return gatherSlow
	}
	return gatherFast
}

// StartGather begins a gathering process. The equipped tool must match
// the resource ("axe" for wood, "pickaxe" for ore).
func (m *processManager) StartGather(p *Player, resource ResourceKind, now time.Time) error {
	if m.gather != nil {
		return ErrAlreadyInProgress
	}
	tool, ok := p.Equipped[SlotTool]
	if !ok || !strings.Contains(strings.ToLower(tool.Name), requiredToolFor(resource)) {
		return ErrWrongTool
	}
	m.gather = &GatheringProcess{
		Resource: resource,
		Start:    now,
		End:      now.Add(gatherDuration(tool.Name)),
	}
	return nil
}

// StartCraft begins a crafting batch. The full cost (scaled by amount) is
// checked up front and deducted atomically; on any shortfall nothing is
// deducted. Craft time is fixed regardless of recipe or batch size.
func (m *processManager) StartCraft(p *Player, recipe Recipe, amount int, now time.Time) error {
	if m.craft != nil {
		return ErrAlreadyInProgress
	}
	if amount < 1 {
		amount = 1
	}
	cost := recipe.Cost
	if p.Resources.Wood < cost.Wood*amount ||
		p.Resources.Ore < cost.Ore*amount ||
		p.Gold < cost.Gold*amount {
		return ErrInsufficientResources
	}
	p.Resources.Wood -= cost.Wood * amount
	p.Resources.Ore -= cost.Ore * amount
	p.Gold -= cost.Gold * amount
	m.craft = &CraftingProcess{
		RecipeID: recipe.ID,
		Amount:   amount,
		Start:    now,
		End:      now.Add(craftDuration),
	}
	return nil
}

// GatherResult is the yield of one resolved gathering process.
type GatherResult struct {
	Resource ResourceKind
	Amount   int
	XP       int
}

// CraftResult is the yield of one resolved crafting batch.
type CraftResult struct {
	Recipe Recipe
	Items  []Item
}

// resolveGather settles the gather slot if due. Yield is 1-3 of the
// resource plus a flat 5 xp.
func (m *processManager) resolveGather(p *Player, rng *rand.Rand, now time.Time) (GatherResult, bool) {
	if m.gather == nil || now.Before(m.gather.End) {
		return GatherResult{}, false
	}
	result := GatherResult{
		Resource: m.gather.Resource,
		Amount:   1 + rng.Intn(3),
		XP:       xpPerGather,
	}
	switch result.Resource {
	case ResourceOre:
		p.Resources.Ore += result.Amount
	default:
		p.Resources.Wood += result.Amount
	}
	p.XP += result.XP
	m.gather = nil
	return result, true
}

// resolveCraft settles the craft slot if due, minting one freshly
// identified copy of the result per batch unit.
func (m *processManager) resolveCraft(p *Player, now time.Time) (CraftResult, bool) {
	if m.craft == nil || now.Before(m.craft.End) {
		return CraftResult{}, false
	}
	proc := m.craft
	m.craft = nil
	recipe, ok := recipeByID(proc.RecipeID)
	if !ok {
		// Recipe catalog is static, so this only happens for a snapshot
		// written by a newer build. Drop the batch rather than corrupt.
		return CraftResult{}, false
	}
	items := make([]Item, 0, proc.Amount)
	for i := 0; i < proc.Amount; i++ {
		item := recipe.Result
		item.ID = newItemID()
		items = append(items, item)
	}
	p.Inventory = append(p.Inventory, items...)
	return CraftResult{Recipe: recipe, Items: items}, true
}
