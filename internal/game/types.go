package game

type Snapshot struct {
	Views             float64 `json:"views"`
	Subscribers       float64 `json:"subscribers"`
	Currency          float64 `json:"currency"`
	TotalViewsEver    float64 `json:"total_views_ever"`
	TotalCurrencyEver float64 `json:"total_currency_ever"`
	VideosPublished   int64   `json:"videos_published"`
	LastSavedAt       int64   `json:"last_saved_at"`

	// ViewRate is what the tick actually accrues. DisplayViewRate includes the
	// viral boost and is informational only.
	ViewRate        float64 `json:"view_rate"`
	DisplayViewRate float64 `json:"display_view_rate"`
	SubscriberRate  float64 `json:"subscriber_rate"`
	// SubscriberBonus scales the subscribers each published video brings.
	SubscriberBonus float64 `json:"subscriber_bonus"`
	MoneyMultiplier float64 `json:"money_multiplier"`

	Upgrades      []UpgradeView  `json:"upgrades"`
	Content       []ContentView  `json:"content"`
	Job           *Job           `json:"job,omitempty"`
	Viral         ViralState     `json:"viral"`
	Notifications []Notification `json:"notifications"`
}

type UpgradeView struct {
	Upgrade
	Cost       float64 `json:"cost"`
	Affordable bool    `json:"affordable"`
}

type ContentView struct {
	ContentItem
	Unlocked bool `json:"unlocked"`
}

// Score is what the client reports to the account service.
type Score struct {
	Subscribers float64
	Views       float64
}
