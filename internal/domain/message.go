package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

const MaxMessageLength = 2000

type Message struct {
	ID        string    `json:"id"`
	TradeID   string    `json:"trade_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeMessage trims text and checks its length.
func NormalizeMessage(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", Validation("message cannot be empty")
	}
	if utf8.RuneCountInString(text) > MaxMessageLength {
		return "", Validation("message must be at most %d characters", MaxMessageLength)
	}
	return text, nil
}
