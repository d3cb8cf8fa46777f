package server

import (
	"context"
	"fmt"

	"titans-realm/server/logging"
	logginglifecycle "titans-realm/server/logging/lifecycle"
)

// AuthGateway resolves accounts against the snapshot store. Credential
// comparison is exact-match plaintext; hashing is a known gap left to a
// real deployment.
type AuthGateway struct {
	store     Store
	publisher logging.Publisher
}

func NewAuthGateway(store Store, publisher logging.Publisher) *AuthGateway {
	if publisher == nil {
		publisher = logging.NopPublisher()
	}
	return &AuthGateway{store: store, publisher: publisher}
}

// Register creates a fresh account. An existing snapshot under the same
// name fails with ErrAlreadyExists.
func (g *AuthGateway) Register(name, pass string) (*Player, error) {
	if name == "" || pass == "" {
		return nil, ErrInvalidCredentials
	}
	if _, exists, err := g.store.Load(name); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	} else if exists {
		logginglifecycle.AuthFailure(context.Background(), g.publisher,
			logginglifecycle.AuthFailurePayload{Name: name, Reason: "exists"})
		return nil, ErrAlreadyExists
	}
	player := newPlayer(name, pass)
	if err := g.store.Save(name, PlayerSnapshot{Player: *player, SavedAt: player.LastSave}); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	}
	return player, nil
}

// Login loads the snapshot and compares the credential.
func (g *AuthGateway) Login(name, pass string) (*Player, error) {
	snap, exists, err := g.store.Load(name)
	if err != nil {
		return nil, fmt.Errorf("login %s: %w", name, err)
	}
	if !exists || snap.Player.Password != pass {
		logginglifecycle.AuthFailure(context.Background(), g.publisher,
			logginglifecycle.AuthFailurePayload{Name: name, Reason: "credentials"})
		return nil, ErrInvalidCredentials
	}
	player := snap.Player
	normalizeLoadedPlayer(&player)
	return &player, nil
}

// normalizeLoadedPlayer defaults the optional fields an older snapshot
// may lack.
func normalizeLoadedPlayer(p *Player) {
	if p.Equipped == nil {
		p.Equipped = make(map[EquipmentSlot]Item)
	}
	if p.Inventory == nil {
		p.Inventory = []Item{}
	}
	if p.ActiveBuffs == nil {
		p.ActiveBuffs = []Buff{}
	}
	if len(p.Skills) == 0 {
		p.Skills = knightSkills()
	}
	if p.MaxXP <= 0 {
		p.MaxXP = startingMaxXP
	}
	if p.MaxHP <= 0 {
		p.MaxHP = startingHP
		p.HP = startingHP
	}
	if p.Class == "" {
		p.Class = "Knight"
	}
}
