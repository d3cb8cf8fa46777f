package server

import (
	"errors"
	"testing"
)

func giveItem(p *Player, name string, slot EquipmentSlot, power int) Item {
	item := Item{ID: newItemID(), Name: name, Type: ItemTypeArmor, Slot: slot, Rarity: RarityCommon, Power: power, Value: 10}
	if slot == SlotMainHand {
		item.Type = ItemTypeWeapon
	}
	p.Inventory = append(p.Inventory, item)
	return item
}

// containerCount reports how many containers hold the item id; the
// ownership invariant requires exactly one.
func containerCount(p *Player, itemID string) int {
	n := 0
	for _, item := range p.Inventory {
		if item.ID == itemID {
			n++
		}
	}
	for _, item := range p.Equipped {
		if item.ID == itemID {
			n++
		}
	}
	return n
}

func TestEquipItemSwapsPrevious(t *testing.T) {
	p := newPlayer("a", "b")
	first := giveItem(p, "Bronze Helmet", SlotHead, 8)
	second := giveItem(p, "Iron Helmet", SlotHead, 16)

	if err := p.EquipItem(first.ID); err != nil {
		t.Fatal(err)
	}
	if err := p.EquipItem(second.ID); err != nil {
		t.Fatal(err)
	}
	if p.Equipped[SlotHead].ID != second.ID {
		t.Fatal("second helmet not equipped")
	}
	if containerCount(p, first.ID) != 1 || containerCount(p, second.ID) != 1 {
		t.Fatal("an item id exists in more or fewer than one container")
	}
	if len(p.Inventory) != 1 || p.Inventory[0].ID != first.ID {
		t.Fatal("swapped-out helmet did not return to inventory")
	}
}

func TestEquipItemRejectsNonEquippable(t *testing.T) {
	p := newPlayer("a", "b")
	essence := Item{ID: newItemID(), Name: "Rare Essence", Type: ItemTypeMaterial, Rarity: RarityRare}
	p.Inventory = append(p.Inventory, essence)

	if err := p.EquipItem(essence.ID); !errors.Is(err, ErrNotEquippable) {
		t.Fatalf("err = %v, want ErrNotEquippable", err)
	}
	if err := p.EquipItem("no-such-id"); !errors.Is(err, ErrNotEquippable) {
		t.Fatalf("missing item: err = %v, want ErrNotEquippable", err)
	}
	if len(p.Inventory) != 1 {
		t.Fatal("failed equip mutated the inventory")
	}
}

func TestUnequipItem(t *testing.T) {
	p := newPlayer("a", "b")
	item := giveItem(p, "Bronze Helmet", SlotHead, 8)
	if err := p.EquipItem(item.ID); err != nil {
		t.Fatal(err)
	}
	if !p.UnequipItem(SlotHead) {
		t.Fatal("unequip failed")
	}
	if p.UnequipItem(SlotHead) {
		t.Fatal("unequip of an empty slot reported success")
	}
	if containerCount(p, item.ID) != 1 || len(p.Inventory) != 1 {
		t.Fatal("item lost or duplicated by unequip")
	}
}

func TestSellItemFromEitherContainer(t *testing.T) {
	p := newPlayer("a", "b")
	held := giveItem(p, "Bronze Helmet", SlotHead, 8)
	worn := giveItem(p, "Iron Chestplate", SlotBody, 16)
	if err := p.EquipItem(worn.ID); err != nil {
		t.Fatal(err)
	}

	if _, ok := p.SellItem(held.ID); !ok {
		t.Fatal("sell from inventory failed")
	}
	if _, ok := p.SellItem(worn.ID); !ok {
		t.Fatal("sell from equipment failed")
	}
	if p.Gold != startingGold+20 {
		t.Fatalf("gold = %d, want %d", p.Gold, startingGold+20)
	}
	if containerCount(p, held.ID) != 0 || containerCount(p, worn.ID) != 0 {
		t.Fatal("sold item still owned")
	}
	if _, ok := p.SellItem(held.ID); ok {
		t.Fatal("double sell succeeded")
	}
}

func TestUseHealthPotion(t *testing.T) {
	p := newPlayer("a", "b")
	p.HP = 40
	potion := Item{ID: newItemID(), Name: "Lesser Health Potion", Type: ItemTypeConsumable, Rarity: RarityCommon, Value: 20}
	p.Inventory = append(p.Inventory, potion)

	if _, ok := p.UseItem(potion.ID); !ok {
		t.Fatal("potion not consumed")
	}
	if p.HP != 90 {
		t.Fatalf("hp = %v, want 90", p.HP)
	}
	if len(p.Inventory) != 0 {
		t.Fatal("consumed potion still in inventory")
	}
	if len(p.ActiveBuffs) != 1 || p.ActiveBuffs[0].Name != "Potion Regen" {
		t.Fatal("potion did not leave its regen buff")
	}
}

func TestUseItemRejectsGear(t *testing.T) {
	p := newPlayer("a", "b")
	helmet := giveItem(p, "Bronze Helmet", SlotHead, 8)
	if _, ok := p.UseItem(helmet.ID); ok {
		t.Fatal("consumed a non-consumable")
	}
	if len(p.Inventory) != 1 {
		t.Fatal("failed use mutated the inventory")
	}
}

func TestHealthClampAtMax(t *testing.T) {
	p := newPlayer("a", "b")
	p.HP = p.MaxHP - 10
	p.applyHealthDelta(potionHeal)
	if p.HP != p.MaxHP {
		t.Fatalf("hp = %v, want clamp at %v", p.HP, p.MaxHP)
	}
	p.applyHealthDelta(-10000)
	if p.HP != 0 {
		t.Fatalf("hp = %v, want clamp at 0", p.HP)
	}
}

func TestAutoEquipBestStrictUpgrade(t *testing.T) {
	p := newPlayer("a", "b")
	weak := giveItem(p, "Bronze Helmet", SlotHead, 8)
	strong := giveItem(p, "Mithril Helmet", SlotHead, 40)
	sword := giveItem(p, "Iron Sword", SlotMainHand, 20)

	if !p.AutoEquipBest() {
		t.Fatal("auto-equip reported no change")
	}
	if p.Equipped[SlotHead].ID != strong.ID {
		t.Fatal("did not pick the strongest helmet")
	}
	if p.Equipped[SlotMainHand].ID != sword.ID {
		t.Fatal("did not fill the empty weapon slot")
	}
	if containerCount(p, weak.ID) != 1 {
		t.Fatal("losing candidate left its container")
	}

	// Equal power is not an upgrade; a second pass changes nothing.
	giveItem(p, "Steel Helmet", SlotHead, 40)
	if p.AutoEquipBest() {
		t.Fatal("equal-power candidate treated as an upgrade")
	}
}

func TestTradeItems(t *testing.T) {
	p := newPlayer("a", "b")
	offered := giveItem(p, "Bronze Helmet", SlotHead, 8)

	if _, ok := p.TradeItems([]string{"no-such-id"}); ok {
		t.Fatal("empty-handed trade completed")
	}
	gem, ok := p.TradeItems([]string{offered.ID, "no-such-id"})
	if !ok {
		t.Fatal("trade failed")
	}
	if gem.Name != "Mysterious Gem" || gem.Rarity != RarityRare || gem.Value != 100 {
		t.Fatalf("reward = %+v", gem)
	}
	if containerCount(p, offered.ID) != 0 {
		t.Fatal("offered item still held")
	}
	if len(p.Inventory) != 1 || p.Inventory[0].ID != gem.ID {
		t.Fatalf("inventory = %+v", p.Inventory)
	}
}

func TestSortInventoryOrdering(t *testing.T) {
	p := newPlayer("a", "b")
	p.Inventory = []Item{
		{ID: "1", Name: "c1", Rarity: RarityCommon, Power: 50},
		{ID: "2", Name: "l1", Rarity: RarityLegendary, Power: 5},
		{ID: "3", Name: "r1", Rarity: RarityRare, Power: 10},
		{ID: "4", Name: "r2", Rarity: RarityRare, Power: 30},
	}
	p.SortInventory()
	want := []string{"2", "4", "3", "1"}
	for i, id := range want {
		if p.Inventory[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, p.Inventory[i].ID, id)
		}
	}
}
