package game

import "time"

type Notification struct {
	ID        uint64    `json:"id"`
	Text      string    `json:"text"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Notifications is an ordered queue of transient messages. Each message lives
// for NotificationLifetime and cannot be dismissed early.
type Notifications struct {
	nextID uint64
	items  []Notification
}

func (n *Notifications) Enqueue(text string, now time.Time) uint64 {
	n.nextID++
	n.items = append(n.items, Notification{
		ID:        n.nextID,
		Text:      text,
		ExpiresAt: now.Add(NotificationLifetime),
	})
	return n.nextID
}

// Sweep drops expired messages and returns how many were removed.
func (n *Notifications) Sweep(now time.Time) int {
	kept := n.items[:0]
	for _, it := range n.items {
		if now.Before(it.ExpiresAt) {
			kept = append(kept, it)
		}
	}
	removed := len(n.items) - len(kept)
	n.items = kept
	return removed
}

// Active returns the live messages at now, oldest first.
func (n *Notifications) Active(now time.Time) []Notification {
	out := make([]Notification, 0, len(n.items))
	for _, it := range n.items {
		if now.Before(it.ExpiresAt) {
			out = append(out, it)
		}
	}
	return out
}

func (n *Notifications) Len() int {
	return len(n.items)
}
