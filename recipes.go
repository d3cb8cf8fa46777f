package server

import "fmt"

type RecipeCategory string

const (
	RecipeWeapon RecipeCategory = "Weapon"
	RecipeArmor  RecipeCategory = "Armor"
	RecipeTool   RecipeCategory = "Tool"
	RecipePotion RecipeCategory = "Potion"
)

type RecipeCost struct {
	Wood int `json:"wood,omitempty"`
	Ore  int `json:"ore,omitempty"`
	Gold int `json:"gold,omitempty"`
}

type Recipe struct {
	ID       string         `json:"id"`
	Result   Item           `json:"result"`
	Category RecipeCategory `json:"category"`
	Cost     RecipeCost     `json:"cost"`
}

var materialTiers = []string{"Bronze", "Iron", "Steel", "Mithril", "Adamantite", "Rune", "Dragon", "Crystal", "Void", "Solar"}

var armorPieces = []struct {
	name string
	slot EquipmentSlot
}{
	{"Helmet", SlotHead},
	{"Chestplate", SlotBody},
	{"Leggings", SlotLegs},
	{"Boots", SlotHead},
}

var recipeCatalog = buildRecipeCatalog()

func tierRarity(tierIndex int) ItemRarity {
	switch {
	case tierIndex > 7:
		return RarityLegendary
	case tierIndex > 5:
		return RarityEpic
	case tierIndex > 3:
		return RarityRare
	default:
		return RarityCommon
	}
}

// buildRecipeCatalog generates the full crafting list: per material tier
// one sword, four armor pieces and one axe, plus a single potion recipe.
func buildRecipeCatalog() []Recipe {
	recipes := make([]Recipe, 0, len(materialTiers)*6+1)
	for i, mat := range materialTiers {
		tier := i + 1
		recipes = append(recipes, Recipe{
			ID: fmt.Sprintf("rec_sword_%d", i),
			Result: Item{
				Name: fmt.Sprintf("%s Sword", mat), Type: ItemTypeWeapon, Slot: SlotMainHand,
				Rarity: tierRarity(i), Power: tier * 10, Value: tier * 50,
			},
			Category: RecipeWeapon,
			Cost:     RecipeCost{Ore: tier * 10, Wood: tier * 5},
		})
		for j, piece := range armorPieces {
			recipes = append(recipes, Recipe{
				ID: fmt.Sprintf("rec_armor_%d_%d", i, j),
				Result: Item{
					Name: fmt.Sprintf("%s %s", mat, piece.name), Type: ItemTypeArmor, Slot: piece.slot,
					Rarity: tierRarity(i), Power: tier * 8, Value: tier * 60,
				},
				Category: RecipeArmor,
				Cost:     RecipeCost{Ore: tier * 12},
			})
		}
		toolRarity := RarityCommon
		if i > 5 {
			toolRarity = RarityEpic
		}
		recipes = append(recipes, Recipe{
			ID: fmt.Sprintf("rec_axe_%d", i),
			Result: Item{
				Name: fmt.Sprintf("%s Axe", mat), Type: ItemTypeTool, Slot: SlotTool,
				Rarity: toolRarity, Power: tier * 5, Value: tier * 40,
			},
			Category: RecipeTool,
			Cost:     RecipeCost{Wood: tier * 20, Ore: tier * 5},
		})
	}
	recipes = append(recipes, Recipe{
		ID: "rec_pot_1",
		Result: Item{
			Name: "Lesser Health Potion", Type: ItemTypeConsumable,
			Rarity: RarityCommon, Power: 0, Value: 20,
		},
		Category: RecipePotion,
		Cost:     RecipeCost{Wood: 5, Gold: 10},
	})
	return recipes
}

func recipeByID(id string) (Recipe, bool) {
	for _, r := range recipeCatalog {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}
