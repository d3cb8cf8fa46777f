package server

import (
	"sort"

	"github.com/google/uuid"
)

type ItemRarity string

const (
	RarityCommon    ItemRarity = "Common"
	RarityUncommon  ItemRarity = "Uncommon"
	RarityRare      ItemRarity = "Rare"
	RarityEpic      ItemRarity = "Epic"
	RarityLegendary ItemRarity = "Legendary"
	RarityMythic    ItemRarity = "Mythic"
	RarityGodly     ItemRarity = "Godly"
)

var rarityRank = map[ItemRarity]int{
	RarityCommon:    0,
	RarityUncommon:  1,
	RarityRare:      2,
	RarityEpic:      3,
	RarityLegendary: 4,
	RarityMythic:    5,
	RarityGodly:     6,
}

type ItemType string

const (
	ItemTypeWeapon     ItemType = "Weapon"
	ItemTypeArmor      ItemType = "Armor"
	ItemTypeTool       ItemType = "Tool"
	ItemTypeMaterial   ItemType = "Material"
	ItemTypeConsumable ItemType = "Consumable"
)

type EquipmentSlot string

const (
	SlotNone     EquipmentSlot = ""
	SlotHead     EquipmentSlot = "Head"
	SlotBody     EquipmentSlot = "Body"
	SlotLegs     EquipmentSlot = "Legs"
	SlotMainHand EquipmentSlot = "MainHand"
	SlotOffHand  EquipmentSlot = "OffHand"
	SlotTool     EquipmentSlot = "Tool"
)

var equipmentSlots = []EquipmentSlot{SlotMainHand, SlotOffHand, SlotHead, SlotBody, SlotLegs, SlotTool}

// Item is an immutable value once created. Ownership is exclusive: an
// item lives in exactly one of inventory, an equipped slot, or a market
// listing.
type Item struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Type   ItemType      `json:"type"`
	Slot   EquipmentSlot `json:"slot,omitempty"`
	Rarity ItemRarity    `json:"rarity"`
	Power  int           `json:"power"`
	Value  int           `json:"value"`
}

func (i Item) Equippable() bool {
	return i.Slot != SlotNone
}

func newItemID() string {
	return uuid.NewString()
}

// sortItems orders by rarity descending, then power descending.
func sortItems(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		ra, rb := rarityRank[items[a].Rarity], rarityRank[items[b].Rarity]
		if ra != rb {
			return ra > rb
		}
		return items[a].Power > items[b].Power
	})
}
