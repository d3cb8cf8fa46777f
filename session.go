package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"titans-realm/server/logging"
	loggingeconomy "titans-realm/server/logging/economy"
	logginglifecycle "titans-realm/server/logging/lifecycle"
)

type GameView string

const (
	ViewLogin     GameView = "LOGIN"
	ViewRegister  GameView = "REGISTER"
	ViewForest    GameView = "FOREST"
	ViewDungeon   GameView = "DUNGEON"
	ViewVolcano   GameView = "VOLCANO"
	ViewInventory GameView = "INVENTORY"
	ViewSkills    GameView = "SKILLS"
	ViewWork      GameView = "WORK"
	ViewCrafting  GameView = "CRAFTING"
	ViewGuild     GameView = "GUILD"
	ViewMarket    GameView = "MARKET"
	ViewCastle    GameView = "CASTLE"
	ViewProfile   GameView = "PROFILE"
	ViewSocial    GameView = "SOCIAL"
)

func (v GameView) authScreen() bool {
	return v == ViewLogin || v == ViewRegister
}

func zoneForView(v GameView) (Zone, bool) {
	switch v {
	case ViewForest:
		return ZoneForest, true
	case ViewDungeon:
		return ZoneDungeon, true
	case ViewVolcano:
		return ZoneVolcano, true
	default:
		return "", false
	}
}

// Session owns one player's live state and is its single writer. Client
// intents queue between ticks and drain at the top of the next one, so
// everything a tick evaluates comes from one consistent read and lands as
// one consistent write.
type Session struct {
	mu        sync.Mutex
	player    *Player
	monster   *Monster
	zone      Zone
	inZone    bool
	view      GameView
	processes processManager
	world     *World
	store     Store
	publisher logging.Publisher
	lore      *loreRequester
	rng       *rand.Rand

	battleLog   []string
	commands    []Command
	currentTick uint64
	lastTick    time.Time
	lastSaved   time.Time

	// onState, when set, receives the snapshot produced by each tick.
	onState func(StateSnapshot)
}

func NewSession(player *Player, world *World, store Store, loreClient LoreClient, publisher logging.Publisher, seed string) *Session {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	s := &Session{
		player:    player,
		view:      ViewForest,
		world:     world,
		store:     store,
		publisher: publisher,
		lore:      newLoreRequester(loreClient),
		rng:       rngFromSeed(seed + ":" + player.Name),
	}
	logginglifecycle.SessionStart(context.Background(), publisher, s.playerRef())
	return s
}

func (s *Session) playerRef() logging.EntityRef {
	return logging.EntityRef{ID: s.player.Name, Kind: logging.EntityKindPlayer}
}

// addLog pushes a user-facing message onto the bounded newest-first ring.
func (s *Session) addLog(msg string) {
	s.battleLog = append([]string{msg}, s.battleLog...)
	if len(s.battleLog) > battleLogSize {
		s.battleLog = s.battleLog[:battleLogSize]
	}
}

// QueueCommand stores a client intent for the next tick.
func (s *Session) QueueCommand(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commands = append(s.commands, cmd)
}

// Run drives the fixed-interval heartbeat until the context is cancelled,
// then performs the exit save.
func (s *Session) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.persistLocked(time.Now())
			logginglifecycle.SessionEnd(ctx, s.publisher, s.currentTick, s.playerRef())
			s.mu.Unlock()
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// windowsCrossed counts how many interval-aligned boundaries lie in
// (last, now]. A live 1s tick crosses at most one; a stalled loop catches
// up without double-paying.
func windowsCrossed(last, now time.Time, interval time.Duration) int {
	if last.IsZero() || !now.After(last) {
		return 0
	}
	n := now.UnixMilli()/interval.Milliseconds() - last.UnixMilli()/interval.Milliseconds()
	if n < 0 {
		return 0
	}
	return int(n)
}

// Tick is the single authority for player-state advancement. Everything
// below runs under one lock acquisition: queued intents, buff countdown,
// timed-process polling, automation and tribute windows, skill triggers,
// the combat exchange, lore completions, and the periodic save.
func (s *Session) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.currentTick++

	queued := s.commands
	s.commands = nil
	for _, cmd := range queued {
		s.dispatchCommand(cmd, now)
	}

	s.player.tickBuffs()
	s.pollProcesses(now)
	s.payAutomation(now)
	s.payTribute(now)
	s.triggerActiveSkills(now)
	s.stepCombat(now)
	s.consumeLoreResults()

	if s.lastSaved.IsZero() {
		s.lastSaved = now
	} else if windowsCrossed(s.lastSaved, now, saveInterval) > 0 {
		s.persistLocked(now)
		s.lastSaved = now
	}
	s.lastTick = now

	if s.onState != nil {
		s.onState(s.snapshotLocked(now))
	}
}

// pollProcesses settles any due craft or gather slot. Resolution is
// polled once per tick, so it can land up to one tick after endTime.
func (s *Session) pollProcesses(now time.Time) {
	if result, ok := s.processes.resolveGather(s.player, s.rng, now); ok {
		s.addLog(fmt.Sprintf("+%d %s", result.Amount, result.Resource))
		loggingeconomy.GatherYield(context.Background(), s.publisher, s.currentTick, s.playerRef(),
			loggingeconomy.ResourcePayload{Resource: string(result.Resource), Amount: result.Amount, XP: result.XP})
	}
	if result, ok := s.processes.resolveCraft(s.player, now); ok {
		s.addLog(fmt.Sprintf("Crafted %dx %s!", len(result.Items), result.Recipe.Result.Name))
		loggingeconomy.CraftComplete(context.Background(), s.publisher, s.currentTick, s.playerRef(),
			loggingeconomy.ItemPayload{Item: result.Recipe.Result.Name, Amount: len(result.Items)})
	}
}

// payAutomation credits auto-miner income once per crossed 30s window.
func (s *Session) payAutomation(now time.Time) {
	if !s.player.Automation.Miner {
		return
	}
	cycles := windowsCrossed(s.lastTick, now, automationWindow)
	if cycles == 0 {
		return
	}
	ore := 0
	for i := 0; i < cycles; i++ {
		ore += 1 + s.rng.Intn(2)
	}
	s.player.Resources.Ore += ore
	s.player.XP += cycles * 2
	resolveLevelUp(s.player)
	s.addLog(fmt.Sprintf("Auto-Miner: +%d Ore", ore))
	loggingeconomy.Automation(context.Background(), s.publisher, s.currentTick, s.playerRef(),
		loggingeconomy.ResourcePayload{Resource: string(ResourceOre), Amount: ore, XP: cycles * 2})
}

// payTribute credits castle tribute once per crossed 10s window, only
// while the player holds the castle and is past the auth screens.
func (s *Session) payTribute(now time.Time) {
	if s.view.authScreen() || !s.world.IsCastleOwner(s.player.Name) {
		return
	}
	crossed := windowsCrossed(s.lastTick, now, tributeInterval)
	if crossed == 0 {
		return
	}
	s.player.Gold += tributeGold * crossed
	s.addLog("Castle Tribute: +50 Gold")
	loggingeconomy.Tribute(context.Background(), s.publisher, s.currentTick, s.playerRef(),
		loggingeconomy.GoldPayload{Gold: tributeGold * crossed, Reason: "castle"})
}

func (s *Session) persistLocked(now time.Time) {
	s.player.LastSave = now
	if err := s.store.Save(s.player.Name, PlayerSnapshot{Player: *s.player, SavedAt: now}); err != nil {
		log.Printf("save failed for %s: %v", s.player.Name, err)
		return
	}
	if err := s.store.SaveWorld(s.world.Snapshot()); err != nil {
		log.Printf("world save failed: %v", err)
	}
	logginglifecycle.SnapshotSaved(context.Background(), s.publisher, s.currentTick, s.playerRef())
}

// dispatchCommand applies one queued client intent. Failures surface as a
// battle-log line; the attempted mutation is simply not applied.
func (s *Session) dispatchCommand(cmd Command, now time.Time) {
	var err error
	switch cmd.Type {
	case CommandSetView:
		s.setView(cmd.View)
	case CommandEnterZone:
		s.enterZone(cmd.Zone)
	case CommandLeaveZone:
		s.leaveZone()
	case CommandStartGather:
		err = s.processes.StartGather(s.player, cmd.Resource, now)
	case CommandStartCraft:
		var recipe Recipe
		var ok bool
		if recipe, ok = recipeByID(cmd.RecipeID); !ok {
			err = ErrUnknownRecipe
		} else {
			err = s.processes.StartCraft(s.player, recipe, cmd.Amount, now)
		}
	case CommandEquipItem:
		err = s.player.EquipItem(cmd.ItemID)
	case CommandUnequipItem:
		s.player.UnequipItem(cmd.Slot)
	case CommandSellItem:
		if item, ok := s.player.SellItem(cmd.ItemID); ok {
			s.addLog(fmt.Sprintf("Sold %s for %dg", item.Name, item.Value))
			loggingeconomy.Sale(context.Background(), s.publisher, s.currentTick, s.playerRef(),
				loggingeconomy.ItemPayload{Item: item.Name, Value: item.Value})
		}
	case CommandUseItem:
		if item, ok := s.player.UseItem(cmd.ItemID); ok {
			s.addLog(fmt.Sprintf("Used %s", item.Name))
		}
	case CommandAutoEquip:
		if s.player.AutoEquipBest() {
			s.addLog("Auto-Equipped best gear!")
		} else {
			s.addLog("Best gear already equipped.")
		}
	case CommandSortInventory:
		s.player.SortInventory()
		s.addLog("Inventory sorted by Rarity.")
	case CommandUnlockSkill:
		err = s.player.UnlockSkill(cmd.SkillID)
	case CommandEquipSkill:
		err = s.player.EquipSkill(cmd.SkillID, s.world.IsCastleOwner(s.player.Name))
	case CommandUnequipSkill:
		s.player.UnequipSkill(cmd.SkillID)
	case CommandResetSkills:
		if err = s.player.ResetSkills(); err == nil {
			s.addLog("Skills reset. Points refunded.")
		}
	case CommandTradeItems:
		if gem, ok := s.player.TradeItems(cmd.ItemIDs); ok {
			s.addLog(fmt.Sprintf("Trade complete! Received %s.", gem.Name))
		}
	case CommandBuyListing:
		err = s.world.PurchaseListing(s.player, cmd.ListingID, s.currentTick)
	case CommandBuyAutoMiner:
		err = s.buyAutoMiner()
	case CommandCreateGuild:
		var guild Guild
		if guild, err = s.world.CreateGuild(s.player, cmd.GuildName); err == nil {
			s.addLog(fmt.Sprintf("Guild %s created!", guild.Name))
		}
	case CommandDonateGuild:
		if err = s.world.DonateToGuild(s.player); err == nil {
			s.addLog("Donated 1000g to guild.")
		}
	}
	if err != nil {
		s.addLog(userMessage(err))
	}
}

func (s *Session) setView(view GameView) {
	if view == "" || view.authScreen() {
		return
	}
	s.view = view
	if zone, ok := zoneForView(view); ok {
		s.enterZone(zone)
	} else {
		s.leaveZone()
	}
}

// enterZone arms the combat loop; the next tick spawns an encounter.
func (s *Session) enterZone(zone Zone) {
	if zone == "" {
		return
	}
	if s.inZone && s.zone == zone {
		return
	}
	s.zone = zone
	s.inZone = true
	s.monster = nil
}

// leaveZone abandons any live encounter.
func (s *Session) leaveZone() {
	s.inZone = false
	s.monster = nil
}

func (s *Session) buyAutoMiner() error {
	p := s.player
	if p.Automation.Miner {
		return nil
	}
	if p.Gold < autoMinerCost {
		return ErrInsufficientResources
	}
	p.Gold -= autoMinerCost
	p.Automation.Miner = true
	s.addLog("Auto-Miner purchased!")
	return nil
}

// userMessage maps the error taxonomy to the short battle-log strings
// players see.
func userMessage(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyInProgress):
		return "Already in progress!"
	case errors.Is(err, ErrWrongTool):
		return "Wrong tool equipped!"
	case errors.Is(err, ErrInsufficientResources):
		return "Not enough resources!"
	case errors.Is(err, ErrSlotFull):
		return "Max skills equipped!"
	case errors.Is(err, ErrListingGone):
		return "That listing was just sold!"
	case errors.Is(err, ErrSkillLocked):
		return "Skill is locked!"
	case errors.Is(err, ErrNotEquippable):
		return "Cannot equip that."
	case errors.Is(err, ErrUnknownRecipe):
		return "Unknown recipe."
	default:
		return "Action failed."
	}
}
