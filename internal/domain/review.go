package domain

import (
	"math"
	"strings"
	"time"
)

const MaxReviewCommentLength = 1000

type Review struct {
	ID         string    `json:"id"`
	TradeID    string    `json:"trade_id"`
	FromUserID string    `json:"from_user_id"`
	FromName   string    `json:"from_name"`
	ToUserID   string    `json:"to_user_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Aggregated bool      `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func ValidateReview(rating int, comment string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", Validation("rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > MaxReviewCommentLength {
		return "", Validation("review comment must be at most %d characters", MaxReviewCommentLength)
	}
	return comment, nil
}

// Aggregate folds one new rating into the running average. The average is
// rounded to two decimals at every step, so it can drift from the exact mean.
func (r UserRating) Aggregate(newRating int) UserRating {
	total := r.Rating*float64(r.ReviewCount) + float64(newRating)
	count := r.ReviewCount + 1
	return UserRating{
		Rating:      Round2(total / float64(count)),
		ReviewCount: count,
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
