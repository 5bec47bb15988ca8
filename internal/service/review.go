package service

import (
	"context"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"

	"github.com/google/uuid"
)

type reviewService struct {
	store repository.Store
	clock Clock
}

func NewReviewService(store repository.Store, clock Clock) ReviewService {
	return &reviewService{store: store, clock: clock}
}

// CreateReview stores the review and flags the trade. The target's rating is
// folded in later by the review-created reaction.
func (s *reviewService) CreateReview(ctx context.Context, fromUserID, tradeID string, rating int, comment string) (*domain.Review, error) {
	logger.EnterMethod("reviewService.CreateReview", "tradeID", tradeID, "fromUserID", fromUserID, "rating", rating)
	comment, err := domain.ValidateReview(rating, comment)
	if err != nil {
		return nil, err
	}

	var review *domain.Review
	err = s.store.WithinTx(ctx, func(r repository.Repositories) error {
		trade, err := r.Trades.GetForUpdate(ctx, tradeID)
		if err != nil {
			return err
		}
		role, ok := trade.RoleOf(fromUserID)
		if !ok {
			return domain.Permission("only participants can review this trade")
		}
		if trade.Status != domain.TradeStatusCompleted {
			return domain.StateConflict("trades can only be reviewed once completed")
		}
		if trade.Reviewed(role) {
			return domain.StateConflict("you have already reviewed this trade")
		}
		from, err := r.Users.GetByID(ctx, fromUserID)
		if err != nil {
			return profileRequired(err)
		}

		now := s.clock()
		review = &domain.Review{
			ID:         uuid.NewString(),
			TradeID:    tradeID,
			FromUserID: fromUserID,
			FromName:   from.Name(),
			ToUserID:   trade.UserFor(role.Other()),
			Rating:     rating,
			Comment:    comment,
			CreatedAt:  now,
		}
		if err := r.Reviews.Create(ctx, review); err != nil {
			return err
		}
		trade.MarkReviewed(role, now)
		if err := r.Trades.Update(ctx, trade); err != nil {
			return err
		}
		return appendEvent(ctx, r.Events, domain.EventReviewCreated, review.ID, domain.ReviewCreatedPayload{
			ReviewID: review.ID,
			ToUserID: review.ToUserID,
			Rating:   rating,
		}, now)
	})
	if err != nil {
		logger.ExitMethodWithError("reviewService.CreateReview", err, "tradeID", tradeID)
		return nil, err
	}
	logger.ExitMethod("reviewService.CreateReview", "reviewID", review.ID)
	return review, nil
}

func (s *reviewService) ListReviews(ctx context.Context, userID string) ([]domain.Review, error) {
	return s.store.Repositories().Reviews.ListByTarget(ctx, userID)
}
