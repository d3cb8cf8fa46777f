package server

import (
	"context"
	"hash/fnv"
	"math/rand"
	"sort"
	"sync"
	"time"

	"titans-realm/server/logging"
	loggingeconomy "titans-realm/server/logging/economy"
)

// Guild is shared global state, drifted by the world simulator.
type Guild struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Level      int    `json:"level"`
	Members    int    `json:"members"`
	Power      int    `json:"power"`
	Gold       int    `json:"gold"`
	LeaderName string `json:"leaderName"`
}

type CastleState struct {
	OwnerName     string    `json:"ownerName"`
	OwnerGuild    string    `json:"ownerGuild"`
	OwnerPower    int       `json:"ownerPower"`
	OccupiedSince time.Time `json:"occupiedSince"`
}

// World owns all bot-controlled shared state. The simulator mutates it on
// its own cadence; player sessions only reach in for market purchases and
// guild actions, always under the mutex.
type World struct {
	mu            sync.Mutex
	guilds        []Guild
	market        []MarketListing
	castle        CastleState
	onlinePlayers int
	rng           *rand.Rand
	publisher     logging.Publisher
}

func rngFromSeed(seed string) *rand.Rand {
	if seed == "" {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := fnv.New64a()
	h.Write([]byte(seed))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func seedGuilds() []Guild {
	return []Guild{
		{ID: "g1", Name: "Crimson Blades", Level: 50, Members: 45, Power: 5000, Gold: 100000, LeaderName: "Ares"},
		{ID: "g2", Name: "Azure Magi", Level: 42, Members: 30, Power: 4200, Gold: 50000, LeaderName: "Merlin"},
		{ID: "g3", Name: "Iron Vanguard", Level: 60, Members: 99, Power: 8000, Gold: 500000, LeaderName: "Titan"},
		{ID: "g4", Name: "Shadow Stalkers", Level: 35, Members: 20, Power: 3000, Gold: 25000, LeaderName: "Noctis"},
		{ID: "g5", Name: "Golden Lions", Level: 70, Members: 150, Power: 12000, Gold: 1000000, LeaderName: "Midas"},
	}
}

func NewWorld(seed string, publisher logging.Publisher) *World {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	w := &World{
		guilds:        seedGuilds(),
		castle:        CastleState{OwnerName: "Lord Vex", OwnerGuild: "Shadows", OwnerPower: 50, OccupiedSince: time.Now()},
		onlinePlayers: 1,
		rng:           rngFromSeed(seed),
		publisher:     publisher,
	}
	w.market = seedBotListings(time.Now())
	return w
}

// Run drives the world cadence until the context is cancelled.
func (w *World) Run(ctx context.Context) {
	ticker := time.NewTicker(worldSimInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			w.Simulate(now)
		}
	}
}

// Simulate advances one world cycle: online-count resample, guild power
// drift, and market churn.
func (w *World) Simulate(now time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.onlinePlayers = 120 + w.rng.Intn(50)
	w.driftGuildsLocked()
	w.churnMarketLocked(now)
}

// driftGuildsLocked boosts one random guild by 5-24 power and, 30% of the
// time, knocks 0-9 off a second distinct guild, floored at zero.
func (w *World) driftGuildsLocked() {
	if len(w.guilds) == 0 {
		return
	}
	payload := loggingeconomy.DriftPayload{}
	lucky := w.rng.Intn(len(w.guilds))
	boost := 5 + w.rng.Intn(20)
	w.guilds[lucky].Power += boost
	payload.Boosted = w.guilds[lucky].Name
	payload.BoostedBy = boost

	if w.rng.Float64() > 0.7 {
		unlucky := w.rng.Intn(len(w.guilds))
		if unlucky != lucky {
			hit := w.rng.Intn(10)
			w.guilds[unlucky].Power -= hit
			if w.guilds[unlucky].Power < 0 {
				w.guilds[unlucky].Power = 0
			}
			payload.Hindered = w.guilds[unlucky].Name
			payload.HinderedBy = hit
		}
	}
	loggingeconomy.GuildDrift(context.Background(), w.publisher, payload)
}

// churnMarketLocked lets bots buy and list. Removal and insertion roll
// independently; the listing count never exceeds the cap.
func (w *World) churnMarketLocked(now time.Time) {
	payload := loggingeconomy.ChurnPayload{}
	if len(w.market) > 0 && w.rng.Float64() > 0.8 {
		idx := w.rng.Intn(len(w.market))
		payload.Removed = w.market[idx].Item.Name
		w.market = append(w.market[:idx], w.market[idx+1:]...)
	}
	if w.rng.Float64() > 0.8 && len(w.market) < marketListingCap {
		listing := newBotListing(w.rng, now)
		w.market = append(w.market, listing)
		payload.Added = listing.Item.Name
	}
	if payload.Removed != "" || payload.Added != "" {
		payload.Listings = len(w.market)
		loggingeconomy.MarketChurn(context.Background(), w.publisher, payload)
	}
}

// OnlinePlayers is display-only; it has no gameplay effect.
func (w *World) OnlinePlayers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.onlinePlayers
}

// GuildLeaderboard returns the guilds sorted by power descending.
func (w *World) GuildLeaderboard() []Guild {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Guild, len(w.guilds))
	copy(out, w.guilds)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Power > out[b].Power })
	return out
}

func (w *World) Castle() CastleState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.castle
}

// IsCastleOwner reports whether the named player currently holds the
// castle.
func (w *World) IsCastleOwner(name string) bool {
	if name == "" {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.castle.OwnerName == name
}

// WorldSnapshot is the persisted global blob.
type WorldSnapshot struct {
	Guilds  []Guild         `json:"guilds"`
	Market  []MarketListing `json:"market"`
	Castle  CastleState     `json:"castle"`
	SavedAt time.Time       `json:"savedAt"`
}

func (w *World) Snapshot() WorldSnapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	snap := WorldSnapshot{
		Guilds:  make([]Guild, len(w.guilds)),
		Market:  make([]MarketListing, len(w.market)),
		Castle:  w.castle,
		SavedAt: time.Now(),
	}
	copy(snap.Guilds, w.guilds)
	copy(snap.Market, w.market)
	return snap
}

// Restore replaces global state from a persisted snapshot. Absent fields
// keep their seeded defaults.
func (w *World) Restore(snap WorldSnapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(snap.Guilds) > 0 {
		w.guilds = snap.Guilds
	}
	if snap.Market != nil {
		w.market = snap.Market
	}
	if snap.Castle.OwnerName != "" {
		w.castle = snap.Castle
	}
}
