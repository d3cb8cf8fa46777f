package server

import (
	"testing"
	"time"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	world := NewWorld("test-seed", nil)
	store := NewMemoryStore()
	return NewSession(newPlayer("hero", "pw"), world, store, nil, nil, "test-seed")
}

func grantCastle(s *Session) {
	s.world.Restore(WorldSnapshot{Castle: CastleState{
		OwnerName:     s.player.Name,
		OwnerPower:    100,
		OccupiedSince: time.Now(),
	}})
}

func TestWindowsCrossed(t *testing.T) {
	interval := 10 * time.Second
	at := func(ms int64) time.Time { return time.UnixMilli(ms) }
	cases := []struct {
		name      string
		last, now time.Time
		want      int
	}{
		{"zero last", time.Time{}, at(10_000), 0},
		{"no progress", at(5_000), at(5_000), 0},
		{"within window", at(5_000), at(9_999), 0},
		{"crosses boundary", at(9_999), at(10_000), 1},
		{"one window live", at(5_000), at(11_000), 1},
		{"stalled catch-up", at(5_000), at(65_000), 6},
		{"clock went backwards", at(20_000), at(5_000), 0},
	}
	for _, tc := range cases {
		if got := windowsCrossed(tc.last, tc.now, interval); got != tc.want {
			t.Errorf("%s: crossed = %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestTributePaidOncePerWindow(t *testing.T) {
	s := newTestSession(t)
	grantCastle(s)
	s.view = ViewProfile

	s.Tick(time.UnixMilli(9_000))
	if s.player.Gold != startingGold {
		t.Fatalf("first tick paid tribute: gold = %d", s.player.Gold)
	}
	s.Tick(time.UnixMilli(11_000))
	if s.player.Gold != startingGold+tributeGold {
		t.Fatalf("gold = %d, want one tribute", s.player.Gold)
	}
	s.Tick(time.UnixMilli(12_000))
	if s.player.Gold != startingGold+tributeGold {
		t.Fatalf("gold = %d, tribute paid twice in one window", s.player.Gold)
	}
}

func TestTributeCatchesUpStalledTicks(t *testing.T) {
	s := newTestSession(t)
	grantCastle(s)
	s.view = ViewProfile

	s.Tick(time.UnixMilli(5_000))
	s.Tick(time.UnixMilli(65_000))
	if s.player.Gold != startingGold+6*tributeGold {
		t.Fatalf("gold = %d, want six tributes after the stall", s.player.Gold)
	}
}

func TestTributeRequiresCastleAndGameScreen(t *testing.T) {
	s := newTestSession(t)
	s.view = ViewProfile
	s.Tick(time.UnixMilli(9_000))
	s.Tick(time.UnixMilli(11_000))
	if s.player.Gold != startingGold {
		t.Fatalf("tribute paid without the castle: gold = %d", s.player.Gold)
	}

	s2 := newTestSession(t)
	grantCastle(s2)
	s2.view = ViewLogin
	s2.Tick(time.UnixMilli(9_000))
	s2.Tick(time.UnixMilli(11_000))
	if s2.player.Gold != startingGold {
		t.Fatalf("tribute paid on an auth screen: gold = %d", s2.player.Gold)
	}
}

func TestAutomationPaysPerCycle(t *testing.T) {
	s := newTestSession(t)
	s.view = ViewProfile
	s.player.Automation.Miner = true

	s.Tick(time.UnixMilli(29_000))
	if s.player.Resources.Ore != 0 {
		t.Fatalf("ore before any cycle: %d", s.player.Resources.Ore)
	}
	s.Tick(time.UnixMilli(31_000))
	if s.player.Resources.Ore < 1 || s.player.Resources.Ore > 2 {
		t.Fatalf("ore = %d, want 1..2 for one cycle", s.player.Resources.Ore)
	}
	if s.player.XP != 2 {
		t.Fatalf("xp = %d, want 2", s.player.XP)
	}
}

func TestAutomationCatchUp(t *testing.T) {
	s := newTestSession(t)
	s.view = ViewProfile
	s.player.Automation.Miner = true

	s.Tick(time.UnixMilli(29_000))
	s.Tick(time.UnixMilli(125_000)) // crosses 30s, 60s, 90s, 120s
	if s.player.Resources.Ore < 4 || s.player.Resources.Ore > 8 {
		t.Fatalf("ore = %d, want 4..8 for four cycles", s.player.Resources.Ore)
	}
	if s.player.XP != 8 {
		t.Fatalf("xp = %d, want 8", s.player.XP)
	}
}

func TestAutomationRequiresPurchase(t *testing.T) {
	s := newTestSession(t)
	s.view = ViewProfile
	s.Tick(time.UnixMilli(29_000))
	s.Tick(time.UnixMilli(61_000))
	if s.player.Resources.Ore != 0 {
		t.Fatalf("unpurchased miner produced %d ore", s.player.Resources.Ore)
	}
}

func TestBuyAutoMiner(t *testing.T) {
	s := newTestSession(t)
	s.player.Gold = autoMinerCost - 1
	if err := s.buyAutoMiner(); err == nil {
		t.Fatal("bought the miner while short on gold")
	}
	s.player.Gold = autoMinerCost
	if err := s.buyAutoMiner(); err != nil {
		t.Fatal(err)
	}
	if s.player.Gold != 0 || !s.player.Automation.Miner {
		t.Fatalf("gold = %d, miner = %v", s.player.Gold, s.player.Automation.Miner)
	}
	// Re-buying is a no-op, not a second charge.
	s.player.Gold = autoMinerCost
	if err := s.buyAutoMiner(); err != nil {
		t.Fatal(err)
	}
	if s.player.Gold != autoMinerCost {
		t.Fatal("double purchase charged again")
	}
}

func TestQueuedCommandsDrainOnTick(t *testing.T) {
	s := newTestSession(t)
	s.QueueCommand(Command{Type: CommandSetView, View: ViewInventory})
	if s.view != ViewForest {
		t.Fatal("command applied before the tick")
	}
	s.Tick(time.UnixMilli(1_000))
	if s.view != ViewInventory {
		t.Fatalf("view = %s, want %s", s.view, ViewInventory)
	}
	if len(s.commands) != 0 {
		t.Fatal("queue not drained")
	}
}

func TestSetViewEntersAndLeavesZones(t *testing.T) {
	s := newTestSession(t)
	s.setView(ViewDungeon)
	if !s.inZone || s.zone != ZoneDungeon {
		t.Fatal("zone view did not arm combat")
	}
	s.monster = &Monster{ID: "m1", HP: 10, MaxHP: 10}
	s.setView(ViewCrafting)
	if s.inZone || s.monster != nil {
		t.Fatal("leaving the zone did not abandon the encounter")
	}
	s.setView(ViewLogin)
	if s.view != ViewCrafting {
		t.Fatal("auth screens must not be reachable via SetView")
	}
}

func TestReenterSameZoneKeepsEncounter(t *testing.T) {
	s := newTestSession(t)
	s.setView(ViewForest)
	s.monster = &Monster{ID: "m1", HP: 10, MaxHP: 10}
	s.enterZone(ZoneForest)
	if s.monster == nil {
		t.Fatal("re-entering the same zone reset the encounter")
	}
	s.enterZone(ZoneVolcano)
	if s.monster != nil {
		t.Fatal("switching zones kept the old encounter")
	}
}

func TestFailedCommandSurfacesInBattleLog(t *testing.T) {
	s := newTestSession(t)
	s.QueueCommand(Command{Type: CommandStartGather, Resource: ResourceWood})
	s.Tick(time.UnixMilli(1_000))
	if len(s.battleLog) == 0 || s.battleLog[0] != "Wrong tool equipped!" {
		t.Fatalf("battle log = %v", s.battleLog)
	}
}

func TestBattleLogRing(t *testing.T) {
	s := newTestSession(t)
	for i := 0; i < battleLogSize+3; i++ {
		s.addLog(string(rune('a' + i)))
	}
	if len(s.battleLog) != battleLogSize {
		t.Fatalf("log length = %d, want %d", len(s.battleLog), battleLogSize)
	}
	if s.battleLog[0] != "h" {
		t.Fatalf("newest entry = %q, want the last added", s.battleLog[0])
	}
}

func TestPeriodicSave(t *testing.T) {
	s := newTestSession(t)
	s.view = ViewProfile
	store := s.store.(*MemoryStore)

	s.Tick(time.UnixMilli(1_000))
	if _, ok, _ := store.Load("hero"); ok {
		t.Fatal("saved before the first window elapsed")
	}
	s.Tick(time.UnixMilli(6_000))
	snap, ok, _ := store.Load("hero")
	if !ok {
		t.Fatal("no snapshot after the save window")
	}
	if !snap.Player.LastSave.Equal(time.UnixMilli(6_000)) {
		t.Fatalf("lastSave = %v, want the saving tick", snap.Player.LastSave)
	}
	if _, ok, _ := store.LoadWorld(); !ok {
		t.Fatal("world not saved alongside the player")
	}
}

func TestSnapshotHidesCredential(t *testing.T) {
	s := newTestSession(t)
	snap := s.snapshotLocked(time.Now())
	if snap.Player.Password != "" {
		t.Fatal("credential leaked into the state push")
	}
	if s.player.Password != "pw" {
		t.Fatal("snapshot cleared the live credential")
	}
	if snap.Castle.OwnerName == "" {
		t.Fatal("snapshot missing castle state")
	}
	if len(snap.Guilds) == 0 || len(snap.Listings) == 0 {
		t.Fatal("snapshot missing world state")
	}
}

func TestSnapshotCopiesEncounter(t *testing.T) {
	s := newTestSession(t)
	s.monster = &Monster{ID: "m1", Name: "Wolf", HP: 50, MaxHP: 75}
	snap := s.snapshotLocked(time.Now())
	snap.Monster.HP = 1
	if s.monster.HP != 50 {
		t.Fatal("snapshot aliases the live monster")
	}
}
