package service

import (
	"context"
	"strings"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
)

type userService struct {
	store repository.Store
	clock Clock
}

func NewUserService(store repository.Store, clock Clock) UserService {
	return &userService{store: store, clock: clock}
}

// RegisterProfile is called with the verified identity on every
// authenticated request; it keeps rating and block list intact.
func (s *userService) RegisterProfile(ctx context.Context, userID, displayName, email string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.Validation("user id is required")
	}
	now := s.clock()
	user := &domain.User{
		ID:          userID,
		DisplayName: strings.TrimSpace(displayName),
		Email:       strings.TrimSpace(email),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Repositories().Users.Upsert(ctx, user); err != nil {
		logger.Error("Failed to register profile", "userID", userID, "error", err)
		return nil, err
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.Repositories().Users.GetByID(ctx, userID)
}

func (s *userService) BlockUser(ctx context.Context, userID, targetID string) (*domain.User, error) {
	if userID == targetID {
		return nil, domain.Validation("you cannot block yourself")
	}
	return s.updateBlocked(ctx, userID, targetID, true)
}

func (s *userService) UnblockUser(ctx context.Context, userID, targetID string) (*domain.User, error) {
	return s.updateBlocked(ctx, userID, targetID, false)
}

func (s *userService) updateBlocked(ctx context.Context, userID, targetID string, block bool) (*domain.User, error) {
	logger.EnterMethod("userService.updateBlocked", "userID", userID, "targetID", targetID, "block", block)
	var user *domain.User
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		user, err = r.Users.GetForUpdate(ctx, userID)
		if err != nil {
			return profileRequired(err)
		}
		var changed bool
		if block {
			if _, err := r.Users.GetByID(ctx, targetID); err != nil {
				return err
			}
			changed = user.Block(targetID)
		} else {
			changed = user.Unblock(targetID)
		}
		if !changed {
			return nil
		}
		user.UpdatedAt = s.clock()
		return r.Users.UpdateBlocked(ctx, userID, user.BlockedUsers, user.UpdatedAt)
	})
	if err != nil {
		logger.ExitMethodWithError("userService.updateBlocked", err, "userID", userID)
		return nil, err
	}
	logger.ExitMethod("userService.updateBlocked", "userID", userID, "blocked", len(user.BlockedUsers))
	return user, nil
}
