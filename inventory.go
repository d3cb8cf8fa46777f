package server

import (
	"sort"
	"strings"
)

// removeFromInventory takes the item with the given id out of the
// inventory, preserving order.
func (p *Player) removeFromInventory(itemID string) (Item, bool) {
	for i, item := range p.Inventory {
		if item.ID == itemID {
			p.Inventory = append(p.Inventory[:i], p.Inventory[i+1:]...)
			return item, true
		}
	}
	return Item{}, false
}

// EquipItem moves an inventory item into its slot. The previous occupant
// returns to the inventory, so no item id ever lives in two containers.
func (p *Player) EquipItem(itemID string) error {
	idx := -1
	for i, item := range p.Inventory {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotEquippable
	}
	item := p.Inventory[idx]
	if !item.Equippable() {
		return ErrNotEquippable
	}
	p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	if previous, ok := p.Equipped[item.Slot]; ok {
		p.Inventory = append(p.Inventory, previous)
	}
	p.Equipped[item.Slot] = item
	return nil
}

// UnequipItem returns the slot's occupant to the inventory.
func (p *Player) UnequipItem(slot EquipmentSlot) bool {
	item, ok := p.Equipped[slot]
	if !ok {
		return false
	}
	delete(p.Equipped, slot)
	p.Inventory = append(p.Inventory, item)
	return true
}

// SellItem removes the item from whichever container holds it and credits
// its value in gold.
func (p *Player) SellItem(itemID string) (Item, bool) {
	if item, ok := p.removeFromInventory(itemID); ok {
		p.Gold += item.Value
		return item, true
	}
	for slot, item := range p.Equipped {
		if item.ID == itemID {
			delete(p.Equipped, slot)
			p.Gold += item.Value
			return item, true
		}
	}
	return Item{}, false
}

// UseItem consumes a consumable. Health potions heal a flat 50 and leave
// a 10s regen buff marker.
func (p *Player) UseItem(itemID string) (Item, bool) {
	idx := -1
	for i, item := range p.Inventory {
		if item.ID == itemID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return Item{}, false
	}
	item := p.Inventory[idx]
	if item.Type != ItemTypeConsumable {
		return Item{}, false
	}
	used := false
	if strings.Contains(item.Name, "Health Potion") {
		p.applyHealthDelta(potionHeal)
		p.addBuff("Potion Regen", "Restoring Health", 10, BuffPositive)
		used = true
	}
	if !used {
		return Item{}, false
	}
	p.Inventory = append(p.Inventory[:idx], p.Inventory[idx+1:]...)
	return item, true
}

// TradeItems hands the listed inventory items to the trade partner and
// returns the reward. A trade with nothing actually held trades nothing.
func (p *Player) TradeItems(itemIDs []string) (Item, bool) {
	removed := 0
	for _, id := range itemIDs {
		if _, ok := p.removeFromInventory(id); ok {
			removed++
		}
	}
	if removed == 0 {
		return Item{}, false
	}
	gem := Item{
		ID:     newItemID(),
		Name:   "Mysterious Gem",
		Type:   ItemTypeMaterial,
		Rarity: RarityRare,
		Power:  0,
		Value:  100,
	}
	p.Inventory = append(p.Inventory, gem)
	return gem, true
}

// AutoEquipBest walks every slot and swaps in the strongest inventory
// candidate when it is a strict upgrade. Returns whether anything moved.
func (p *Player) AutoEquipBest() bool {
	changed := false
	for _, slot := range equipmentSlots {
		candidates := make([]Item, 0)
		for _, item := range p.Inventory {
			if item.Slot == slot {
				candidates = append(candidates, item)
			}
		}
		if len(candidates) == 0 {
			continue
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].Power > candidates[b].Power
		})
		best := candidates[0]
		current, equipped := p.Equipped[slot]
		if equipped && current.Power >= best.Power {
			continue
		}
		p.removeFromInventory(best.ID)
		if equipped {
			p.Inventory = append(p.Inventory, current)
		}
		p.Equipped[slot] = best
		changed = true
	}
	return changed
}

// SortInventory orders by rarity, then power, both descending.
func (p *Player) SortInventory() {
	sortItems(p.Inventory)
}
