package server

import "time"

const (
	writeWait         = 10 * time.Second
	tickInterval      = time.Second     // gameplay heartbeat
	worldSimInterval  = 5 * time.Second // bot guild/market cadence
	saveInterval      = 5 * time.Second
	tributeInterval   = 10 * time.Second
	automationWindow  = 30 * time.Second
	heartbeatInterval = 2 * time.Second
	disconnectAfter   = 3 * heartbeatInterval
	stateQueueSize    = 8

	startingHP          = 150.0
	startingGold        = 100
	startingAttack      = 10
	startingDefense     = 5
	startingMaxXP       = 100
	startingSkillPoints = 1

	bossChance       = 0.05
	dropChance       = 0.45
	xpPerGather      = 5
	craftDuration    = 25 * time.Second
	gatherSlow       = 45 * time.Second // wooden tools
	gatherFast       = 3 * time.Second
	tributeGold      = 50
	autoMinerCost    = 500
	guildCreateCost  = 20000
	guildDonation    = 1000
	skillResetCost   = 1000
	baseSkillSlots   = 3
	marketListingCap = 20
	potionHeal       = 50
	battleLogSize    = 5
)

// Zone level offsets added to the player level when spawning monsters.
const (
	forestLevelBonus  = 0
	dungeonLevelBonus = 5
	volcanoLevelBonus = 15
)
