package server

import "time"

type SkillType string

const (
	SkillActive  SkillType = "ACTIVE"
	SkillPassive SkillType = "PASSIVE"
)

type SkillEffectKind string

const (
	EffectDamage        SkillEffectKind = "damage"
	EffectHeal          SkillEffectKind = "heal"
	EffectStunAndDamage SkillEffectKind = "stun_damage"
)

// SkillEffect is the tagged variant describing what an active skill does
// when it fires. One generic applier interprets it; skill ids select,
// they never branch.
type SkillEffect struct {
	Kind SkillEffectKind `json:"kind"`
	// Amount is flat damage for EffectDamage/EffectStunAndDamage and a
	// fraction of max hp for EffectHeal.
	Amount float64       `json:"amount"`
	Stun   time.Duration `json:"stun,omitempty"`
}

type Skill struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Type        SkillType   `json:"type"`
	Description string      `json:"description"`
	Cooldown    int         `json:"cooldown"` // seconds, 0 for passives
	LastUsed    time.Time   `json:"lastUsed,omitempty"`
	Effect      SkillEffect `json:"effect"`
	// EffectValue is the passive magnitude (multiplier fraction).
	EffectValue float64 `json:"effectValue"`
	Cost        int     `json:"cost"`
	Unlocked    bool    `json:"unlocked"`
	Equipped    bool    `json:"equipped"`
}

// Well-known skill ids. Passive ids are checked at the call sites that
// apply their bonuses; active ids exist only for selection.
const (
	SkillIronWill      = "sk_passive_1"
	SkillHeavyStrike   = "sk_active_1"
	SkillLootMastery   = "sk_passive_2"
	SkillSecondWind    = "sk_active_2"
	SkillShieldBash    = "sk_active_3"
	SkillVampiricBlade = "sk_passive_3"
	SkillTenacity      = "sk_passive_4"
	SkillCharge        = "sk_active_4"
)

// knightSkills returns the fixed knight skill list. Skills are never
// created or destroyed after this; only unlocked/equipped toggle.
func knightSkills() []Skill {
	return []Skill{
		{ID: SkillIronWill, Name: "Iron Will", Type: SkillPassive, Description: "Reduces incoming damage by 15%.", Cost: 1, EffectValue: 0.15},
		{ID: SkillHeavyStrike, Name: "Heavy Strike", Type: SkillActive, Description: "Deal 35 extra damage instantly.", Cost: 1, Cooldown: 5,
			Effect: SkillEffect{Kind: EffectDamage, Amount: 35}},
		{ID: SkillLootMastery, Name: "Loot Mastery", Type: SkillPassive, Description: "Enemies drop 30% more gold.", Cost: 2, EffectValue: 0.3},
		{ID: SkillSecondWind, Name: "Second Wind", Type: SkillActive, Description: "Heal 40% Max HP instantly.", Cost: 3, Cooldown: 15,
			Effect: SkillEffect{Kind: EffectHeal, Amount: 0.4}},
		{ID: SkillShieldBash, Name: "Shield Bash", Type: SkillActive, Description: "Stun enemy for 0.5s + 50 DMG.", Cost: 5, Cooldown: 8,
			Effect: SkillEffect{Kind: EffectStunAndDamage, Amount: 50, Stun: 500 * time.Millisecond}},
		{ID: SkillVampiricBlade, Name: "Vampiric Blade", Type: SkillPassive, Description: "Heal for 15% of damage dealt.", Cost: 5, EffectValue: 0.15},
		{ID: SkillTenacity, Name: "Tenacity", Type: SkillPassive, Description: "Resistance against status effects +20% (Passive Def Bonus).", Cost: 3, EffectValue: 0.2},
		{ID: SkillCharge, Name: "Charge", Type: SkillActive, Description: "Rush target: 70 DMG + 1s Stun.", Cost: 4, Cooldown: 6,
			Effect: SkillEffect{Kind: EffectStunAndDamage, Amount: 70, Stun: time.Second}},
	}
}

// maxSkillSlots is 3, plus one while the player holds the castle.
func maxSkillSlots(castleOwner bool) int {
	if castleOwner {
		return baseSkillSlots + 1
	}
	return baseSkillSlots
}

// UnlockSkill spends skill points to unlock a skill. Already-unlocked
// skills and unaffordable costs are rejected without mutation.
func (p *Player) UnlockSkill(id string) error {
	s := p.skill(id)
	if s == nil || s.Unlocked {
		return ErrSkillLocked
	}
	if p.SkillPoints < s.Cost {
		return ErrInsufficientResources
	}
	p.SkillPoints -= s.Cost
	s.Unlocked = true
	return nil
}

// EquipSkill toggles equipped on, enforcing the slot cap. A locked skill
// can never be equipped.
func (p *Player) EquipSkill(id string, castleOwner bool) error {
	s := p.skill(id)
	if s == nil || !s.Unlocked {
		return ErrSkillLocked
	}
	if s.Equipped {
		return nil
	}
	if p.equippedCount() >= maxSkillSlots(castleOwner) {
		return ErrSlotFull
	}
	s.Equipped = true
	return nil
}

func (p *Player) UnequipSkill(id string) {
	if s := p.skill(id); s != nil {
		s.Equipped = false
	}
}

// ResetSkills refunds every spent point for 1000 gold.
func (p *Player) ResetSkills() error {
	if p.Gold < skillResetCost {
		return ErrInsufficientResources
	}
	refunded := 0
	for i := range p.Skills {
		if p.Skills[i].Unlocked {
			refunded += p.Skills[i].Cost
		}
		p.Skills[i].Unlocked = false
		p.Skills[i].Equipped = false
	}
	p.Gold -= skillResetCost
	p.SkillPoints += refunded
	return nil
}
