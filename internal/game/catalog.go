package game

// Upgrade is a catalog entry plus the owned level.
type Upgrade struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	BaseCost    float64  `json:"base_cost"`
	Multiplier  float64  `json:"multiplier"`
	Category    Category `json:"category"`
	Value       float64  `json:"value"`
	Level       int      `json:"level"`
}

func (u Upgrade) Cost() float64 {
	return UpgradeCost(u.BaseCost, u.Multiplier, u.Level)
}

// Contribution is the upgrade's current effect on its category.
func (u Upgrade) Contribution() float64 {
	return u.Value * float64(u.Level)
}

type ContentItem struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	BaseViews             float64 `json:"base_views"`
	BaseMoney             float64 `json:"base_money"`
	DurationSeconds       float64 `json:"duration_seconds"`
	UnlockedAtSubscribers float64 `json:"unlocked_at_subscribers"`
}

const DefaultContentID = "vlog"

// DefaultUpgrades returns a fresh copy of the upgrade catalog, every level at 0.
func DefaultUpgrades() []Upgrade {
	return []Upgrade{
		{ID: "camera", Name: "Better Camera", Description: "Sharper footage keeps viewers around.", BaseCost: 10, Multiplier: 1.15, Category: CategoryViews, Value: 0.5},
		{ID: "editing", Name: "Editing Suite", Description: "Tighter cuts, more watch time.", BaseCost: 100, Multiplier: 1.15, Category: CategoryViews, Value: 3},
		{ID: "thumbnails", Name: "Clickable Thumbnails", Description: "Turns casual viewers into subscribers.", BaseCost: 250, Multiplier: 1.20, Category: CategorySubscribers, Value: 0.2},
		{ID: "sponsors", Name: "Sponsorship Deals", Description: "Every video pays a little more.", BaseCost: 500, Multiplier: 1.25, Category: CategoryCurrency, Value: 0.1},
		{ID: "lighting", Name: "Studio Lighting", Description: "Professional look, steady traffic.", BaseCost: 1200, Multiplier: 1.15, Category: CategoryViews, Value: 12},
		{ID: "community", Name: "Community Manager", Description: "Someone answers the comments now.", BaseCost: 3000, Multiplier: 1.30, Category: CategorySubscribers, Value: 1.5},
		{ID: "merch", Name: "Merch Store", Description: "Hoodies with your logo on them.", BaseCost: 7500, Multiplier: 1.35, Category: CategoryCurrency, Value: 0.25},
	}
}

// Catalog is the immutable list of producible content, in unlock order.
type Catalog []ContentItem

func DefaultCatalog() Catalog {
	return Catalog{
		{ID: DefaultContentID, Name: "Daily Vlog", BaseViews: 50, BaseMoney: 5, DurationSeconds: 10, UnlockedAtSubscribers: 0},
		{ID: "tutorial", Name: "Tutorial", BaseViews: 150, BaseMoney: 20, DurationSeconds: 30, UnlockedAtSubscribers: 10},
		{ID: "review", Name: "Product Review", BaseViews: 400, BaseMoney: 60, DurationSeconds: 60, UnlockedAtSubscribers: 50},
		{ID: "collab", Name: "Creator Collab", BaseViews: 1200, BaseMoney: 150, DurationSeconds: 120, UnlockedAtSubscribers: 250},
		{ID: "documentary", Name: "Documentary", BaseViews: 5000, BaseMoney: 600, DurationSeconds: 300, UnlockedAtSubscribers: 1000},
	}
}

func (c Catalog) Find(id string) (ContentItem, bool) {
	for _, item := range c {
		if item.ID == id {
			return item, true
		}
	}
	return ContentItem{}, false
}
