package server

import (
	"time"

	"github.com/google/uuid"
)

type Resources struct {
	Wood    int `json:"wood"`
	Ore     int `json:"ore"`
	Stone   int `json:"stone"`
	Leather int `json:"leather"`
}

type Automation struct {
	Miner      bool `json:"miner"`
	Lumberjack bool `json:"lumberjack"`
}

type BuffKind string

const (
	BuffPositive BuffKind = "buff"
	BuffNegative BuffKind = "debuff"
)

// Buff counts down once per tick. Duration -1 marks a permanent buff.
type Buff struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Duration int      `json:"duration"`
	Effect   string   `json:"effect"`
	Kind     BuffKind `json:"kind"`
}

type GuildRank string

const (
	GuildRankLeader GuildRank = "Leader"
	GuildRankMember GuildRank = "Member"
)

// Player is the full persisted progression state for one account.
type Player struct {
	Name        string                 `json:"name"`
	Password    string                 `json:"password,omitempty"`
	Class       string                 `json:"class"`
	Level       int                    `json:"level"`
	XP          int                    `json:"xp"`
	MaxXP       int                    `json:"maxXp"`
	HP          float64                `json:"hp"`
	MaxHP       float64                `json:"maxHp"`
	Gold        int                    `json:"gold"`
	Attack      int                    `json:"attack"`
	Defense     int                    `json:"defense"`
	SkillPoints int                    `json:"skillPoints"`
	Inventory   []Item                 `json:"inventory"`
	Equipped    map[EquipmentSlot]Item `json:"equipped"`
	Skills      []Skill                `json:"skills"`
	ActiveBuffs []Buff                 `json:"activeBuffs"`
	Resources   Resources              `json:"resources"`
	CastleKeys  int                    `json:"castleKeys"`
	GuildID     string                 `json:"guildId,omitempty"`
	GuildRank   GuildRank              `json:"guildRank,omitempty"`
	Automation  Automation             `json:"automation"`
	LastSave    time.Time              `json:"lastSaveTime"`
}

func newPlayer(name, password string) *Player {
	return &Player{
		Name:        name,
		Password:    password,
		Class:       "Knight",
		Level:       1,
		XP:          0,
		MaxXP:       startingMaxXP,
		HP:          startingHP,
		MaxHP:       startingHP,
		Gold:        startingGold,
		Attack:      startingAttack,
		Defense:     startingDefense,
		SkillPoints: startingSkillPoints,
		Inventory:   []Item{},
		Equipped:    make(map[EquipmentSlot]Item),
		Skills:      knightSkills(),
		ActiveBuffs: []Buff{},
		LastSave:    time.Now(),
	}
}

// applyHealthDelta clamps hp to [0, maxHp].
func (p *Player) applyHealthDelta(delta float64) {
	p.HP += delta
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
	if p.HP < 0 {
		p.HP = 0
	}
}

func (p *Player) addBuff(name, effect string, duration int, kind BuffKind) {
	p.ActiveBuffs = append(p.ActiveBuffs, Buff{
		ID:       uuid.NewString(),
		Name:     name,
		Duration: duration,
		Effect:   effect,
		Kind:     kind,
	})
}

// tickBuffs decrements every finite buff by one and drops the expired.
func (p *Player) tickBuffs() {
	if len(p.ActiveBuffs) == 0 {
		return
	}
	kept := p.ActiveBuffs[:0]
	for _, buff := range p.ActiveBuffs {
		if buff.Duration == -1 {
			kept = append(kept, buff)
			continue
		}
		buff.Duration--
		if buff.Duration > 0 {
			kept = append(kept, buff)
		}
	}
	p.ActiveBuffs = kept
}

// skill returns the skill with the given id, or nil.
func (p *Player) skill(id string) *Skill {
	for i := range p.Skills {
		if p.Skills[i].ID == id {
			return &p.Skills[i]
		}
	}
	return nil
}

// passiveActive reports whether the named passive is unlocked and equipped.
func (p *Player) passiveActive(id string) bool {
	s := p.skill(id)
	return s != nil && s.Type == SkillPassive && s.Unlocked && s.Equipped
}

func (p *Player) equippedCount() int {
	n := 0
	for i := range p.Skills {
		if p.Skills[i].Equipped {
			n++
		}
	}
	return n
}

// mainHandPower is the weapon contribution to player damage.
func (p *Player) mainHandPower() int {
	if item, ok := p.Equipped[SlotMainHand]; ok {
		return item.Power
	}
	return 0
}

// equippedPower sums the power of every equipped item.
func (p *Player) equippedPower() int {
	total := 0
	for _, item := range p.Equipped {
		total += item.Power
	}
	return total
}
