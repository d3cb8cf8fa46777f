package server

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"titans-realm/server/logging"
	loggingeconomy "titans-realm/server/logging/economy"
)

// MarketListing wraps one item offered for sale. Listings are created by
// the world simulator (bot sellers) and destroyed on purchase or bot
// removal.
type MarketListing struct {
	ID         string    `json:"id"`
	SellerName string    `json:"sellerName"`
	Item       Item      `json:"item"`
	Price      int       `json:"price"`
	ListedAt   time.Time `json:"listedAt"`
}

var botTraderNames = []string{"Trader Joe", "Merchant Mary", "Slayer99", "Bot123"}

// seedBotListings stocks the market on first boot.
func seedBotListings(now time.Time) []MarketListing {
	items := []Item{
		{ID: newItemID(), Name: "Wooden Pickaxe", Type: ItemTypeTool, Slot: SlotTool, Rarity: RarityCommon, Power: 1, Value: 10},
		{ID: newItemID(), Name: "Wooden Axe", Type: ItemTypeTool, Slot: SlotTool, Rarity: RarityCommon, Power: 1, Value: 10},
		{ID: newItemID(), Name: "Iron Sword", Type: ItemTypeWeapon, Slot: SlotMainHand, Rarity: RarityCommon, Power: 10, Value: 50},
		{ID: newItemID(), Name: "Leather Cap", Type: ItemTypeArmor, Slot: SlotHead, Rarity: RarityUncommon, Power: 5, Value: 30},
		{ID: newItemID(), Name: "Mithril Ore", Type: ItemTypeMaterial, Rarity: RarityRare, Power: 0, Value: 100},
	}
	listings := make([]MarketListing, 0, len(items))
	for i, item := range items {
		listings = append(listings, MarketListing{
			ID:         uuid.NewString(),
			SellerName: botTraderNames[i%len(botTraderNames)],
			Item:       item,
			Price:      item.Value * 2,
			ListedAt:   now,
		})
	}
	return listings
}

// newBotListing synthesizes a low-tier bot listing: a dagger from one of
// the three lowest material tiers, priced at 1.5x value.
func newBotListing(rng *rand.Rand, now time.Time) MarketListing {
	mat := materialTiers[rng.Intn(3)]
	item := Item{
		ID:     newItemID(),
		Name:   mat + " Dagger",
		Type:   ItemTypeWeapon,
		Slot:   SlotMainHand,
		Rarity: RarityCommon,
		Power:  5 + rng.Intn(10),
		Value:  20 + rng.Intn(30),
	}
	return MarketListing{
		ID:         uuid.NewString(),
		SellerName: botTraderNames[rng.Intn(len(botTraderNames))],
		Item:       item,
		Price:      item.Value * 3 / 2,
		ListedAt:   now,
	}
}

// Listings returns a copy for display.
func (w *World) Listings() []MarketListing {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]MarketListing, len(w.market))
	copy(out, w.market)
	return out
}

// listingCount is a test hook.
func (w *World) listingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.market)
}

// PurchaseListing buys a listing for the player. The listing is
// re-validated under the lock: the world simulator may have removed it
// since the player saw it, which surfaces as ErrListingGone, not a crash.
// Buying your own listing returns the item without charging.
func (w *World) PurchaseListing(p *Player, listingID string, tick uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	idx := -1
	for i := range w.market {
		if w.market[i].ID == listingID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrListingGone
	}
	listing := w.market[idx]
	if listing.SellerName != p.Name {
		if p.Gold < listing.Price {
			return ErrInsufficientResources
		}
		p.Gold -= listing.Price
	}
	p.Inventory = append(p.Inventory, listing.Item)
	w.market = append(w.market[:idx], w.market[idx+1:]...)

	loggingeconomy.Purchase(context.Background(), w.publisher, tick,
		logging.EntityRef{ID: p.Name, Kind: logging.EntityKindPlayer},
		logging.EntityRef{ID: listing.ID, Kind: logging.EntityKindListing},
		loggingeconomy.GoldPayload{Gold: listing.Price, Reason: listing.Item.Name})
	return nil
}
