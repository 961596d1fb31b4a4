package game

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	json "github.com/goccy/go-json"
)

const (
	SaveKey     = "vidtycoon.save"
	saveVersion = 1
)

var ErrCorruptSave = errors.New("corrupt save data")

// KV is a whole-value key/value store. Put must replace the previous value atomically.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

type savedUpgrade struct {
	ID    string `json:"id"`
	Level int    `json:"level"`
}

type savedLedger struct {
	Version           int            `json:"version"`
	Views             float64        `json:"views"`
	Subscribers       float64        `json:"subscribers"`
	Currency          float64        `json:"currency"`
	TotalViewsEver    float64        `json:"total_views_ever"`
	TotalCurrencyEver float64        `json:"total_currency_ever"`
	Upgrades          []savedUpgrade `json:"upgrades"`
	Unlocked          []string       `json:"unlocked"`
	VideosPublished   int64          `json:"videos_published"`
	LastSavedAt       int64          `json:"last_saved_at"`
}

// Bridge serializes the ledger into a single blob under SaveKey.
type Bridge struct {
	kv   KV
	log  *slog.Logger
	last []byte
}

func NewBridge(kv KV, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bridge{kv: kv, log: logger}
}

// Load returns the saved ledger. Missing or unreadable data yields the initial ledger.
func (b *Bridge) Load() *Ledger {
	raw, err := b.kv.Get(SaveKey)
	if err != nil {
		b.log.Info("no saved game, starting fresh", "err", err)
		return NewLedger()
	}
	l, err := DecodeLedger(raw)
	if err != nil {
		b.log.Warn("discarding unreadable save", "err", err)
		return NewLedger()
	}
	b.last = contentKey(l)
	return l
}

// Save writes the ledger when its content changed since the last write and
// stamps LastSavedAt. It reports whether a write happened.
func (b *Bridge) Save(l *Ledger, now time.Time) (bool, error) {
	key := contentKey(l)
	if b.last != nil && bytes.Equal(key, b.last) {
		return false, nil
	}
	prev := l.LastSavedAt
	l.LastSavedAt = now.UnixMilli()
	raw, err := EncodeLedger(l)
	if err != nil {
		l.LastSavedAt = prev
		return false, err
	}
	if err := b.kv.Put(SaveKey, raw); err != nil {
		l.LastSavedAt = prev
		return false, fmt.Errorf("put save: %w", err)
	}
	b.last = key
	return true, nil
}

// contentKey encodes everything except the save timestamp.
func contentKey(l *Ledger) []byte {
	c := *l
	c.LastSavedAt = 0
	raw, err := EncodeLedger(&c)
	if err != nil {
		return nil
	}
	return raw
}

func EncodeLedger(l *Ledger) ([]byte, error) {
	out := savedLedger{
		Version:           saveVersion,
		Views:             l.Views,
		Subscribers:       l.Subscribers,
		Currency:          l.Currency,
		TotalViewsEver:    l.TotalViewsEver,
		TotalCurrencyEver: l.TotalCurrencyEver,
		Upgrades:          make([]savedUpgrade, 0, len(l.Upgrades)),
		Unlocked:          l.Unlocked,
		VideosPublished:   l.VideosPublished,
		LastSavedAt:       l.LastSavedAt,
	}
	for _, u := range l.Upgrades {
		out.Upgrades = append(out.Upgrades, savedUpgrade{ID: u.ID, Level: u.Level})
	}
	return json.Marshal(out)
}

// DecodeLedger restores a ledger onto the current upgrade catalog. Unknown
// upgrade ids are ignored; catalog upgrades missing from the blob stay at level 0.
func DecodeLedger(raw []byte) (*Ledger, error) {
	var in savedLedger
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	if in.Version != saveVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSave, in.Version)
	}
	for _, v := range []float64{in.Views, in.Subscribers, in.Currency, in.TotalViewsEver, in.TotalCurrencyEver} {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: invalid resource value", ErrCorruptSave)
		}
	}
	if in.VideosPublished < 0 {
		return nil, fmt.Errorf("%w: negative video count", ErrCorruptSave)
	}

	l := NewLedger()
	l.Views = in.Views
	l.Subscribers = in.Subscribers
	l.Currency = in.Currency
	l.TotalViewsEver = in.TotalViewsEver
	l.TotalCurrencyEver = in.TotalCurrencyEver
	l.VideosPublished = in.VideosPublished
	l.LastSavedAt = in.LastSavedAt

	for _, su := range in.Upgrades {
		if su.Level < 0 {
			return nil, fmt.Errorf("%w: negative level for %s", ErrCorruptSave, su.ID)
		}
		if u := l.upgrade(su.ID); u != nil {
			u.Level = su.Level
		}
	}
	catalog := DefaultCatalog()
	for _, id := range in.Unlocked {
		if _, ok := catalog.Find(id); !ok {
			continue
		}
		if !l.IsUnlocked(id) {
			l.Unlocked = append(l.Unlocked, id)
		}
	}
	return l, nil
}
