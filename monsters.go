package server

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

type Zone string

const (
	ZoneForest  Zone = "forest"
	ZoneDungeon Zone = "dungeon"
	ZoneVolcano Zone = "volcano"
)

func (z Zone) levelBonus() int {
	switch z {
	case ZoneDungeon:
		return dungeonLevelBonus
	case ZoneVolcano:
		return volcanoLevelBonus
	default:
		return forestLevelBonus
	}
}

var forestMobs = []string{
	"Rat", "Wolf", "Spider", "Boar", "Bandit", "Treant", "Giant Hornet", "Wild Bear", "Goblin Scout", "Forest Slime",
	"Centaur", "Dryad", "Giant Snake", "Rabid Fox", "Earth Golem",
}

var dungeonMobs = []string{
	"Skeleton", "Zombie", "Bat", "Kobold", "Crypt Ghoul", "Necromancer", "Dark Knight", "Mimic", "Cave Troll",
	"Banshee", "Ogre", "Basilisk", "Shadow Shade", "Cursed Armor", "Lich",
}

var volcanoMobs = []string{
	"Imp", "Magma Golem", "Hellhound", "Fire Elemental", "Demon", "Salamander", "Lava Slime", "Phoenix Hatchling",
	"Efreet", "Obsidian Gargoyle", "Succubus", "Fire Drake", "Ash Walker", "Burning Skeleton", "Molten Giant",
}

func (z Zone) mobTable() []string {
	switch z {
	case ZoneDungeon:
		return dungeonMobs
	case ZoneVolcano:
		return volcanoMobs
	default:
		return forestMobs
	}
}

// Monster exists only for the duration of one encounter.
type Monster struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Level        int       `json:"level"`
	HP           int       `json:"hp"`
	MaxHP        int       `json:"maxHp"`
	Attack       int       `json:"attack"`
	XPReward     int       `json:"xpReward"`
	GoldReward   int       `json:"goldReward"`
	IsBoss       bool      `json:"isBoss"`
	FlavorText   string    `json:"flavorText,omitempty"`
	StunnedUntil time.Time `json:"stunnedUntil,omitempty"`
}

func (m *Monster) stunned(now time.Time) bool {
	return m != nil && m.StunnedUntil.After(now)
}

// newMonster rolls a fresh encounter for the zone: player level plus zone
// bonus, jittered by -2..+1, floored at 1. Boss roll is 5%.
func newMonster(rng *rand.Rand, zone Zone, playerLevel int) *Monster {
	table := zone.mobTable()
	level := playerLevel + zone.levelBonus() - 2 + rng.Intn(4)
	if level < 1 {
		level = 1
	}
	m := &Monster{
		ID:     uuid.NewString(),
		Name:   table[rng.Intn(len(table))],
		Level:  level,
		IsBoss: rng.Float64() < bossChance,
	}
	scale := scaleMonster(m.Level, m.IsBoss)
	m.MaxHP = scale.MaxHP
	m.HP = scale.MaxHP
	m.Attack = scale.Attack
	m.XPReward = scale.XPReward
	m.GoldReward = scale.GoldReward
	return m
}
