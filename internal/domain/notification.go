package domain

import "time"

type Notification struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	Read        bool      `json:"read"`
	DedupeKey   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

const InboxLink = "/inbox"

func TradeLink(tradeID string) string {
	return "/trades/" + tradeID
}
