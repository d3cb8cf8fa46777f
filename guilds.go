package server

import (
	"github.com/google/uuid"
)

// CreateGuild founds a new guild for 20000 gold. The founder becomes its
// leader; the guild joins the shared leaderboard immediately.
func (w *World) CreateGuild(p *Player, name string) (Guild, error) {
	if p.GuildID != "" || name == "" {
		return Guild{}, ErrInsufficientResources
	}
	if p.Gold < guildCreateCost {
		return Guild{}, ErrInsufficientResources
	}
	guild := Guild{
		ID:         "g_" + uuid.NewString(),
		Name:       name,
		Level:      1,
		Members:    1,
		Power:      100,
		Gold:       0,
		LeaderName: p.Name,
	}
	w.mu.Lock()
	w.guilds = append(w.guilds, guild)
	w.mu.Unlock()

	p.Gold -= guildCreateCost
	p.GuildID = guild.ID
	p.GuildRank = GuildRankLeader
	return guild, nil
}

// DonateToGuild moves 1000 gold into the guild bank. Guild level is
// derived from the bank: gold/10000 + 1.
func (w *World) DonateToGuild(p *Player) error {
	if p.GuildID == "" {
		return ErrInsufficientResources
	}
	if p.Gold < guildDonation {
		return ErrInsufficientResources
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	for i := range w.guilds {
		if w.guilds[i].ID != p.GuildID {
			continue
		}
		w.guilds[i].Gold += guildDonation
		w.guilds[i].Level = w.guilds[i].Gold/10000 + 1
		p.Gold -= guildDonation
		return nil
	}
	return ErrInsufficientResources
}
