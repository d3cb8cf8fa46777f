package server

import (
	"math/rand"
	"strings"
	"testing"
	"time"
)

func TestOfflineProgressCreditsCycles(t *testing.T) {
	p := newPlayer("a", "b")
	p.Automation.Miner = true
	now := time.Now()
	p.LastSave = now.Add(-95 * time.Second) // three full 30s cycles

	gains := applyOfflineProgress(p, rand.New(rand.NewSource(5)), now, nil)
	if gains.Cycles != 3 {
		t.Fatalf("cycles = %d, want 3", gains.Cycles)
	}
	if gains.Ore < 3 || gains.Ore > 6 {
		t.Fatalf("ore = %d, want 3..6", gains.Ore)
	}
	if gains.XP != 6 {
		t.Fatalf("xp = %d, want 6", gains.XP)
	}
	if p.Resources.Ore != gains.Ore || p.XP != gains.XP {
		t.Fatal("gains not applied to the player")
	}
	if !strings.Contains(gains.Message, "Offline Mining") {
		t.Fatalf("message = %q", gains.Message)
	}
}

func TestOfflineProgressIdempotent(t *testing.T) {
	p := newPlayer("a", "b")
	p.Automation.Miner = true
	now := time.Now()
	p.LastSave = now.Add(-2 * time.Minute)
	rng := rand.New(rand.NewSource(5))

	first := applyOfflineProgress(p, rng, now, nil)
	if first.Cycles == 0 {
		t.Fatal("no cycles credited")
	}
	second := applyOfflineProgress(p, rng, now, nil)
	if second.Cycles != 0 || second.Ore != 0 {
		t.Fatalf("second application credited again: %+v", second)
	}
}

func TestOfflineProgressWithoutMiner(t *testing.T) {
	p := newPlayer("a", "b")
	now := time.Now()
	p.LastSave = now.Add(-time.Hour)

	gains := applyOfflineProgress(p, rand.New(rand.NewSource(5)), now, nil)
	if gains.Cycles != 0 || gains.Ore != 0 || gains.Message != "" {
		t.Fatalf("gains without automation: %+v", gains)
	}
	if !p.LastSave.Equal(now) {
		t.Fatal("watermark must advance even with nothing to credit")
	}
}

func TestOfflineProgressShortAbsence(t *testing.T) {
	p := newPlayer("a", "b")
	p.Automation.Miner = true
	now := time.Now()
	p.LastSave = now.Add(-10 * time.Second)

	gains := applyOfflineProgress(p, rand.New(rand.NewSource(5)), now, nil)
	if gains.Cycles != 0 {
		t.Fatalf("partial window credited %d cycles", gains.Cycles)
	}
}

func TestOfflineProgressLevelsUp(t *testing.T) {
	p := newPlayer("a", "b")
	p.Automation.Miner = true
	p.XP = 99
	now := time.Now()
	p.LastSave = now.Add(-61 * time.Second)

	applyOfflineProgress(p, rand.New(rand.NewSource(5)), now, nil)
	if p.Level != 2 {
		t.Fatalf("level = %d, want offline xp to trigger the level-up", p.Level)
	}
}
