package server

import (
	"fmt"
	"math"
	"math/rand"
)

// MonsterScale is the derived stat block for a monster level.
type MonsterScale struct {
	MaxHP      int
	Attack     int
	XPReward   int
	GoldReward int
}

// scaleMonster derives combat stats from level. Bosses carry a flat
// +300 hp.
func scaleMonster(level int, isBoss bool) MonsterScale {
	s := MonsterScale{
		MaxHP:      50 + level*25,
		Attack:     8 + level*3,
		XPReward:   20 + level*10,
		GoldReward: 10 + level*5,
	}
	if isBoss {
		s.MaxHP += 300
	}
	return s
}

// rollRarity buckets a uniform roll into a drop rarity. Thresholds give
// 1% Legendary, 3% Epic, 11% Rare, 25% Uncommon, 60% Common.
func rollRarity(roll float64) ItemRarity {
	switch {
	case roll > 0.99:
		return RarityLegendary
	case roll > 0.96:
		return RarityEpic
	case roll > 0.85:
		return RarityRare
	case roll > 0.60:
		return RarityUncommon
	default:
		return RarityCommon
	}
}

func rarityPowerMultiplier(rarity ItemRarity) float64 {
	switch rarity {
	case RarityLegendary:
		return 3
	case RarityEpic:
		return 2
	default:
		return 1.2
	}
}

// rollLoot resolves the drop table for a kill: 45% chance of a drop, a
// rarity roll, then a type roll. Below 0.40 the drop is a material
// essence; otherwise an equippable named after the monster.
func rollLoot(rng *rand.Rand, monsterLevel int, monsterName string) (Item, bool) {
	if rng.Float64() >= dropChance {
		return Item{}, false
	}

	rarity := rollRarity(rng.Float64())
	typeRoll := rng.Float64()

	if typeRoll < 0.40 {
		return Item{
			ID:     newItemID(),
			Name:   fmt.Sprintf("%s Essence", rarity),
			Type:   ItemTypeMaterial,
			Rarity: rarity,
			Power:  0,
			Value:  monsterLevel * 5,
		}, true
	}

	power := int(math.Floor(float64(monsterLevel) * 3.5 * rarityPowerMultiplier(rarity)))

	itemType := ItemTypeWeapon
	slot := SlotMainHand
	kind := "Sword"
	switch {
	case typeRoll < 0.55:
		itemType, slot, kind = ItemTypeArmor, SlotHead, "Helmet"
	case typeRoll < 0.70:
		itemType, slot, kind = ItemTypeArmor, SlotBody, "Chestplate"
	case typeRoll < 0.85:
		itemType, slot, kind = ItemTypeArmor, SlotLegs, "Leggings"
	default:
		itemType, slot, kind = ItemTypeArmor, SlotOffHand, "Shield"
	}

	return Item{
		ID:     newItemID(),
		Name:   fmt.Sprintf("%s %s %s", rarity, monsterName, kind),
		Type:   itemType,
		Slot:   slot,
		Rarity: rarity,
		Power:  power,
		Value:  monsterLevel * 20,
	}, true
}

// resolveLevelUp consumes overflow xp in a loop so a single large
// injection can grant several levels. Returns the number of levels
// gained.
func resolveLevelUp(p *Player) int {
	levels := 0
	for p.XP >= p.MaxXP {
		p.XP -= p.MaxXP
		p.Level++
		p.SkillPoints++
		p.MaxXP = int(math.Floor(float64(p.MaxXP) * 1.25))
		levels++
	}
	return levels
}

// applyGoldBonus applies the Loot Mastery passive to a kill's gold.
func applyGoldBonus(gold int, p *Player) int {
	if s := p.skill(SkillLootMastery); s != nil && s.Unlocked && s.Equipped {
		return int(math.Floor(float64(gold) * (1 + s.EffectValue)))
	}
	return gold
}
