package server

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"titans-realm/server/logging"
	logginglifecycle "titans-realm/server/logging/lifecycle"
)

// OfflineGains summarizes the one-shot catch-up applied at login.
type OfflineGains struct {
	Cycles  int
	Ore     int
	XP      int
	Message string
}

// applyOfflineProgress credits bounded discrete automation cycles for the
// wall-clock time since the last snapshot. It advances the save watermark
// unconditionally, so invoking it twice on the same snapshot credits
// nothing the second time.
func applyOfflineProgress(p *Player, rng *rand.Rand, now time.Time, publisher logging.Publisher) OfflineGains {
	last := p.LastSave
	if last.IsZero() {
		last = now
	}
	elapsed := now.Sub(last)
	gains := OfflineGains{}

	if p.Automation.Miner && elapsed > automationWindow {
		gains.Cycles = int(elapsed / automationWindow)
		for i := 0; i < gains.Cycles; i++ {
			gains.Ore += 1 + rng.Intn(2)
		}
		gains.XP = gains.Cycles * 2
		p.Resources.Ore += gains.Ore
		p.XP += gains.XP
		resolveLevelUp(p)
		gains.Message = fmt.Sprintf("Offline Mining: +%d Ore, +%d XP. ", gains.Ore, gains.XP)
	}

	p.LastSave = now

	if gains.Cycles > 0 {
		logginglifecycle.OfflineCatchup(context.Background(), publisher,
			logging.EntityRef{ID: p.Name, Kind: logging.EntityKindPlayer},
			logginglifecycle.OfflinePayload{
				SecondsOffline: int64(elapsed.Seconds()),
				Cycles:         gains.Cycles,
				Ore:            gains.Ore,
				XP:             gains.XP,
			})
	}
	return gains
}
