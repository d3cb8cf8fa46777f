package server

import (
	"context"
	"fmt"
	"math"
	"time"

	"titans-realm/server/logging"
	loggingcombat "titans-realm/server/logging/combat"
	loggingeconomy "titans-realm/server/logging/economy"
)

// Combat states (derived, not stored): Idle when no monster exists,
// Engaged while one does, MonsterStunned while its stun timestamp is in
// the future, PlayerDead for the single transition tick that clears the
// zone.

// Tenacity's combat contribution is a flat 10% defense multiplier,
// independent of the 20% shown in its description.
const tenacityDefenseBonus = 0.1

// stepCombat advances the encounter by one tick: spawn when idle, skip
// the exchange entirely while the monster is stunned, otherwise trade
// blows with the kill checked before retaliation.
func (s *Session) stepCombat(now time.Time) {
	if !s.inZone {
		return
	}
	if s.monster == nil {
		s.spawnMonster(now)
		return
	}
	if s.monster.stunned(now) {
		return
	}
	s.resolveExchange(now)
}

// spawnMonster rolls a fresh encounter. Boss lore is requested in the
// background; the encounter proceeds with no flavor text until the
// result arrives on a later tick.
func (s *Session) spawnMonster(now time.Time) {
	p := s.player
	m := newMonster(s.rng, s.zone, p.Level)
	s.monster = m
	s.addLog(fmt.Sprintf("A Lvl %d %s appeared!", m.Level, m.Name))
	if m.IsBoss {
		s.lore.Request(context.Background(), m.ID, m.Name, s.zone)
	}
	loggingcombat.Spawn(context.Background(), s.publisher, s.currentTick,
		s.playerRef(), monsterRef(m),
		loggingcombat.SpawnPayload{Monster: m.Name, Level: m.Level, Zone: string(s.zone), Boss: m.IsBoss})
}

// resolveExchange applies the player's auto-attack, then the monster's
// retaliation if it survived. The player always takes at least 1 damage
// per exchange regardless of defense.
func (s *Session) resolveExchange(now time.Time) {
	p := s.player
	m := s.monster

	playerDamage := p.Attack + p.mainHandPower() - m.Level
	if playerDamage < 1 {
		playerDamage = 1
	}
	m.HP -= playerDamage

	if m.HP <= 0 {
		s.processKill(now)
		return
	}

	defense := float64(p.Defense + p.equippedPower())
	if sk := p.skill(SkillIronWill); sk != nil && sk.Unlocked && sk.Equipped {
		defense *= 1 + sk.EffectValue
	}
	if p.passiveActive(SkillTenacity) {
		defense *= 1 + tenacityDefenseBonus
	}
	monsterDamage := float64(m.Attack) - defense/2
	if monsterDamage < 1 {
		monsterDamage = 1
	}
	p.HP -= monsterDamage

	loggingcombat.Exchange(context.Background(), s.publisher, s.currentTick,
		s.playerRef(), monsterRef(m),
		loggingcombat.ExchangePayload{PlayerDamage: playerDamage, MonsterDamage: monsterDamage, MonsterHP: m.HP, PlayerHP: p.HP})

	if p.HP <= 0 {
		s.handleDeath(m)
	}
}

// handleDeath clears the encounter and the zone, restores the player to
// full, and drops them back on the profile view.
func (s *Session) handleDeath(m *Monster) {
	p := s.player
	s.inZone = false
	s.monster = nil
	p.HP = p.MaxHP
	s.view = ViewProfile
	s.addLog("You died! Respawning...")
	loggingcombat.Death(context.Background(), s.publisher, s.currentTick, s.playerRef(), monsterRef(m))
}

// triggerActiveSkills fires every unlocked+equipped active skill whose
// cooldown has elapsed, in stored list order. Damage from multiple skills
// accumulates and lands as a single monster hp mutation; heals apply
// immediately. Vampiric Blade converts a share of the accumulated skill
// damage into healing after it lands.
func (s *Session) triggerActiveSkills(now time.Time) {
	p := s.player
	m := s.monster

	totalDamage := 0.0
	for i := range p.Skills {
		sk := &p.Skills[i]
		if sk.Type != SkillActive || !sk.Unlocked || !sk.Equipped {
			continue
		}
		if !sk.LastUsed.IsZero() && now.Sub(sk.LastUsed) < time.Duration(sk.Cooldown)*time.Second {
			continue
		}
		payload := loggingcombat.SkillPayload{Skill: sk.Name}
		switch sk.Effect.Kind {
		case EffectHeal:
			heal := math.Floor(p.MaxHP * sk.Effect.Amount)
			sk.LastUsed = now
			p.applyHealthDelta(heal)
			payload.Heal = int(heal)
			s.addLog(fmt.Sprintf("%s! +%d HP", sk.Name, int(heal)))
		case EffectDamage:
			if m == nil {
				continue
			}
			sk.LastUsed = now
			totalDamage += sk.Effect.Amount
			payload.Damage = int(sk.Effect.Amount)
			s.addLog(fmt.Sprintf("%s! %d DMG", sk.Name, int(sk.Effect.Amount)))
		case EffectStunAndDamage:
			if m == nil {
				continue
			}
			sk.LastUsed = now
			totalDamage += sk.Effect.Amount
			m.StunnedUntil = now.Add(sk.Effect.Stun)
			payload.Damage = int(sk.Effect.Amount)
			payload.StunMs = sk.Effect.Stun.Milliseconds()
			s.addLog(fmt.Sprintf("%s hits for %d!", sk.Name, int(sk.Effect.Amount)))
		default:
			continue
		}
		loggingcombat.Skill(context.Background(), s.publisher, s.currentTick, s.playerRef(), payload)
	}

	if totalDamage <= 0 || m == nil {
		return
	}
	m.HP -= int(totalDamage)

	if sk := p.skill(SkillVampiricBlade); sk != nil && sk.Unlocked && sk.Equipped {
		p.applyHealthDelta(math.Ceil(totalDamage * sk.EffectValue))
	}

	if m.HP <= 0 {
		s.processKill(now)
	}
}

// processKill settles a defeated monster: gold (with Loot Mastery bonus),
// xp with looped level-up resolution, and a loot roll appended to the
// inventory. The encounter slot clears back to Idle.
func (s *Session) processKill(now time.Time) {
	p := s.player
	m := s.monster
	if m == nil {
		return
	}

	gold := applyGoldBonus(m.GoldReward, p)
	p.Gold += gold
	p.XP += m.XPReward
	levels := resolveLevelUp(p)
	if levels > 0 {
		s.addLog("Level Up! You gained a skill point.")
	}

	payload := loggingcombat.KillPayload{Monster: m.Name, XP: m.XPReward, Gold: gold, Levels: levels}
	if item, ok := rollLoot(s.rng, m.Level, m.Name); ok {
		p.Inventory = append(p.Inventory, item)
		payload.Loot = item.Name
		s.addLog(fmt.Sprintf("Dropped: %s!", item.Name))
		loggingeconomy.LootDrop(context.Background(), s.publisher, s.currentTick, s.playerRef(),
			loggingeconomy.ItemPayload{Item: item.Name, Rarity: string(item.Rarity), Value: item.Value})
	}

	loggingcombat.Kill(context.Background(), s.publisher, s.currentTick, s.playerRef(), monsterRef(m), payload)
	s.monster = nil
}

// consumeLoreResults applies finished lore fetches to the encounter they
// belong to. Results for a dead or replaced encounter are discarded.
func (s *Session) consumeLoreResults() {
	for _, res := range s.lore.drain() {
		if s.monster != nil && s.monster.ID == res.EncounterID {
			s.monster.FlavorText = res.Text
		}
	}
}

func monsterRef(m *Monster) logging.EntityRef {
	if m == nil {
		return logging.EntityRef{Kind: logging.EntityKindMonster}
	}
	return logging.EntityRef{ID: m.ID, Kind: logging.EntityKindMonster}
}
