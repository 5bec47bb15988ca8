package service

import (
	"context"
	"path"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/logger"
	"swapcircle-backend/internal/repository"
	"swapcircle-backend/internal/storage"

	"github.com/google/uuid"
)

type itemService struct {
	store repository.Store
	blobs storage.BlobStore
	clock Clock
}

func NewItemService(store repository.Store, blobs storage.BlobStore, clock Clock) ItemService {
	return &itemService{store: store, blobs: blobs, clock: clock}
}

func validateItemInput(in *ItemInput) error {
	in.Details.Normalize()
	if err := in.Details.Validate(); err != nil {
		return err
	}
	return domain.ValidateTerms(in.Preference)
}

func (s *itemService) CreateItem(ctx context.Context, ownerID string, in ItemInput) (*domain.Item, error) {
	logger.EnterMethod("itemService.CreateItem", "ownerID", ownerID)
	if err := validateItemInput(&in); err != nil {
		return nil, err
	}
	repos := s.store.Repositories()
	owner, err := repos.Users.GetByID(ctx, ownerID)
	if err != nil {
		return nil, profileRequired(err)
	}

	now := s.clock()
	item := &domain.Item{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		OwnerName:  owner.Name(),
		Status:     domain.ItemStatusAvailable,
		Preference: in.Preference,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	item.ApplyDetails(in.Details)
	if err := repos.Items.Create(ctx, item); err != nil {
		logger.ExitMethodWithError("itemService.CreateItem", err, "ownerID", ownerID)
		return nil, err
	}
	logger.ExitMethod("itemService.CreateItem", "itemID", item.ID)
	return item, nil
}

func (s *itemService) UpdateItem(ctx context.Context, ownerID, itemID string, in ItemInput) (*domain.Item, error) {
	if err := validateItemInput(&in); err != nil {
		return nil, err
	}
	var item *domain.Item
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		item, err = ownedItem(ctx, r, ownerID, itemID)
		if err != nil {
			return err
		}
		if in.Preference != item.Preference {
			live, err := r.Trades.HasLive(ctx, itemID)
			if err != nil {
				return err
			}
			if live {
				return domain.StateConflict("the trade preference of %s cannot change while a trade is in progress", item.Name)
			}
			item.Preference = in.Preference
		}
		item.ApplyDetails(in.Details)
		item.UpdatedAt = s.clock()
		return r.Items.Update(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes the item; trades referencing it are removed by the
// item-deleted reaction.
func (s *itemService) DeleteItem(ctx context.Context, ownerID, itemID string) error {
	logger.EnterMethod("itemService.DeleteItem", "ownerID", ownerID, "itemID", itemID)
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		if _, err := ownedItem(ctx, r, ownerID, itemID); err != nil {
			return err
		}
		if err := r.Items.Delete(ctx, itemID); err != nil {
			return err
		}
		return appendEvent(ctx, r.Events, domain.EventItemDeleted, itemID,
			domain.ItemDeletedPayload{ItemID: itemID, OwnerID: ownerID}, s.clock())
	})
	if err != nil {
		logger.ExitMethodWithError("itemService.DeleteItem", err, "itemID", itemID)
		return err
	}
	logger.ExitMethod("itemService.DeleteItem", "itemID", itemID)
	return nil
}

// RelistItem is the only owner-initiated status write: traded back to available.
func (s *itemService) RelistItem(ctx context.Context, ownerID, itemID string) (*domain.Item, error) {
	var item *domain.Item
	err := s.store.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		item, err = ownedItem(ctx, r, ownerID, itemID)
		if err != nil {
			return err
		}
		if item.Status != domain.ItemStatusTraded {
			return domain.StateConflict("only traded items can be relisted; %s is %s", item.Name, item.Status)
		}
		live, err := r.Trades.HasLive(ctx, itemID)
		if err != nil {
			return err
		}
		if live {
			return domain.StateConflict("%s is part of a trade in progress", item.Name)
		}
		now := s.clock()
		if err := r.Items.SetStatus(ctx, itemID, domain.ItemStatusAvailable, now); err != nil {
			return err
		}
		item.Status, item.UpdatedAt = domain.ItemStatusAvailable, now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	return s.store.Repositories().Items.GetByID(ctx, itemID)
}

func (s *itemService) ListAvailableItems(ctx context.Context, viewerID, category string, page, pageSize int32) ([]domain.Item, int32, error) {
	return s.store.Repositories().Items.ListAvailable(ctx, repository.ItemFilter{
		Category:       category,
		ExcludeOwnerID: viewerID,
		Page:           page,
		PageSize:       pageSize,
	})
}

func (s *itemService) ListMyItems(ctx context.Context, ownerID string) ([]domain.Item, error) {
	return s.store.Repositories().Items.ListByOwner(ctx, ownerID)
}

func (s *itemService) AttachImage(ctx context.Context, ownerID, itemID string, upload ImageUpload) (*domain.Item, error) {
	logger.EnterMethod("itemService.AttachImage", "ownerID", ownerID, "itemID", itemID, "contentType", upload.ContentType)
	ext, ok := storage.AllowedContentTypes[upload.ContentType]
	if !ok {
		return nil, domain.Validation("images must be JPEG, PNG or WebP")
	}
	if _, err := ownedItem(ctx, s.store.Repositories(), ownerID, itemID); err != nil {
		return nil, err
	}

	key := path.Join("items", itemID, uuid.NewString()+ext)
	obj, err := s.blobs.Put(ctx, key, upload.ContentType, upload.Body)
	if err != nil {
		logger.ExitMethodWithError("itemService.AttachImage", err, "itemID", itemID)
		return nil, domain.Dependency(err, "the image could not be stored, please try again")
	}

	var item *domain.Item
	err = s.store.WithinTx(ctx, func(r repository.Repositories) error {
		var err error
		item, err = ownedItem(ctx, r, ownerID, itemID)
		if err != nil {
			return err
		}
		item.ImageURL, item.ThumbnailURL = obj.URL, obj.ThumbnailURL
		item.UpdatedAt = s.clock()
		return r.Items.Update(ctx, item)
	})
	if err != nil {
		if delErr := s.blobs.Delete(ctx, obj.Key); delErr != nil {
			logger.Warn("Failed to remove orphaned image", "key", obj.Key, "error", delErr)
		}
		return nil, err
	}
	logger.ExitMethod("itemService.AttachImage", "itemID", itemID)
	return item, nil
}

func ownedItem(ctx context.Context, r repository.Repositories, ownerID, itemID string) (*domain.Item, error) {
	item, err := r.Items.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != ownerID {
		return nil, domain.Permission("only the owner can change this item")
	}
	return item, nil
}
