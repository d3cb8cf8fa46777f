package server

import "time"

type CommandType string

const (
	CommandSetView       CommandType = "SetView"
	CommandEnterZone     CommandType = "EnterZone"
	CommandLeaveZone     CommandType = "LeaveZone"
	CommandStartGather   CommandType = "StartGather"
	CommandStartCraft    CommandType = "StartCraft"
	CommandEquipItem     CommandType = "EquipItem"
	CommandUnequipItem   CommandType = "UnequipItem"
	CommandSellItem      CommandType = "SellItem"
	CommandUseItem       CommandType = "UseItem"
	CommandAutoEquip     CommandType = "AutoEquip"
	CommandSortInventory CommandType = "SortInventory"
	CommandUnlockSkill   CommandType = "UnlockSkill"
	CommandEquipSkill    CommandType = "EquipSkill"
	CommandUnequipSkill  CommandType = "UnequipSkill"
	CommandResetSkills   CommandType = "ResetSkills"
	CommandTradeItems    CommandType = "TradeItems"
	CommandBuyListing    CommandType = "BuyListing"
	CommandBuyAutoMiner  CommandType = "BuyAutoMiner"
	CommandCreateGuild   CommandType = "CreateGuild"
	CommandDonateGuild   CommandType = "DonateGuild"
)

// Command is a client intent captured for processing on the next tick.
type Command struct {
	Type      CommandType   `json:"type"`
	View      GameView      `json:"view,omitempty"`
	Zone      Zone          `json:"zone,omitempty"`
	Resource  ResourceKind  `json:"resource,omitempty"`
	RecipeID  string        `json:"recipeId,omitempty"`
	Amount    int           `json:"amount,omitempty"`
	ItemID    string        `json:"itemId,omitempty"`
	ItemIDs   []string      `json:"itemIds,omitempty"`
	Slot      EquipmentSlot `json:"slot,omitempty"`
	SkillID   string        `json:"skillId,omitempty"`
	ListingID string        `json:"listingId,omitempty"`
	GuildName string        `json:"guildName,omitempty"`
	IssuedAt  time.Time     `json:"issuedAt,omitempty"`
}

// viewOf copies the player for the client push; the credential never
// leaves the server.
func viewOf(p Player) Player {
	p.Password = ""
	return p
}

// StateSnapshot is the full per-tick state push.
type StateSnapshot struct {
	Type          string            `json:"type"`
	Tick          uint64            `json:"tick"`
	ServerTime    int64             `json:"serverTime"`
	Player        Player            `json:"player"`
	Monster       *Monster          `json:"monster,omitempty"`
	View          GameView          `json:"view"`
	Craft         *CraftingProcess  `json:"craft,omitempty"`
	Gather        *GatheringProcess `json:"gather,omitempty"`
	BattleLog     []string          `json:"battleLog"`
	Castle        CastleState       `json:"castle"`
	Guilds        []Guild           `json:"guilds"`
	Listings      []MarketListing   `json:"listings"`
	OnlinePlayers int               `json:"onlinePlayers"`
}

// snapshotLocked assembles the state push while holding the session lock.
func (s *Session) snapshotLocked(now time.Time) StateSnapshot {
	snap := StateSnapshot{
		Type:          "state",
		Tick:          s.currentTick,
		ServerTime:    now.UnixMilli(),
		Player:        viewOf(*s.player),
		View:          s.view,
		BattleLog:     append([]string(nil), s.battleLog...),
		Castle:        s.world.Castle(),
		Guilds:        s.world.GuildLeaderboard(),
		Listings:      s.world.Listings(),
		OnlinePlayers: s.world.OnlinePlayers(),
	}
	if s.monster != nil {
		monster := *s.monster
		snap.Monster = &monster
	}
	if s.processes.craft != nil {
		craft := *s.processes.craft
		snap.Craft = &craft
	}
	if s.processes.gather != nil {
		gather := *s.processes.gather
		snap.Gather = &gather
	}
	return snap
}
