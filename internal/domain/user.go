package domain

import (
	"strings"
	"time"
)

// User is a marketplace profile. ID is the identity provider's subject.
type User struct {
	ID           string    `json:"id"`
	DisplayName  string    `json:"display_name"`
	Email        string    `json:"email"`
	BlockedUsers []string  `json:"blocked_users"`
	Rating       float64   `json:"rating"`
	ReviewCount  int       `json:"review_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) HasBlocked(userID string) bool {
	for _, id := range u.BlockedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// Block adds userID to the block list. It reports whether the list changed.
func (u *User) Block(userID string) bool {
	if u.HasBlocked(userID) {
		return false
	}
	u.BlockedUsers = append(u.BlockedUsers, userID)
	return true
}

func (u *User) Unblock(userID string) bool {
	for i, id := range u.BlockedUsers {
		if id == userID {
			u.BlockedUsers = append(u.BlockedUsers[:i], u.BlockedUsers[i+1:]...)
			return true
		}
	}
	return false
}

// EitherBlocked reports whether a or b has blocked the other.
func EitherBlocked(a, b *User) bool {
	return a.HasBlocked(b.ID) || b.HasBlocked(a.ID)
}

// Name falls back to the e-mail local part when no display name is set.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return "Someone"
}

// UserRating is the aggregate the review trigger maintains.
type UserRating struct {
	Rating      float64
	ReviewCount int
}
