package service_test

import (
	"errors"
	"strings"
	"testing"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/service"
	"swapcircle-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestItemService_CreateItem(t *testing.T) {
	e := newEnv(t)

	t.Run("Success", func(t *testing.T) {
		it, err := e.items.CreateItem(e.ctx, "ana", service.ItemInput{
			Details:    domain.ItemDetails{Name: "  Tent ", Category: "outdoor", Condition: domain.ItemConditionLikeNew},
			Preference: domain.TemporaryTerms{DurationDays: 10},
		})
		require.NoError(t, err)
		assert.Equal(t, "Tent", it.Name)
		assert.Equal(t, "Ana", it.OwnerName)
		assert.Equal(t, domain.ItemStatusAvailable, it.Status)
	})

	t.Run("Invalid Loan Duration", func(t *testing.T) {
		_, err := e.items.CreateItem(e.ctx, "ana", service.ItemInput{
			Details:    domain.ItemDetails{Name: "Tent", Category: "outdoor", Condition: domain.ItemConditionGood},
			Preference: domain.TemporaryTerms{DurationDays: 0},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Missing Preference", func(t *testing.T) {
		_, err := e.items.CreateItem(e.ctx, "ana", service.ItemInput{
			Details: domain.ItemDetails{Name: "Tent", Category: "outdoor", Condition: domain.ItemConditionGood},
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Unregistered Owner", func(t *testing.T) {
		_, err := e.items.CreateItem(e.ctx, "ghost", service.ItemInput{
			Details:    domain.ItemDetails{Name: "Tent", Category: "outdoor", Condition: domain.ItemConditionGood},
			Preference: domain.PermanentTerms{},
		})
		require.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "your profile is not registered yet", domain.ReasonOf(err))
	})
}

func TestItemService_UpdateItem(t *testing.T) {
	e := newEnv(t)
	x := e.item(t, "ben", "Bike", domain.PermanentTerms{})
	y := e.item(t, "ana", "Guitar", domain.PermanentTerms{})
	trade := e.propose(t, "ana", y, x)
	_, err := e.trades.AcceptTrade(e.ctx, "ben", trade.ID)
	require.NoError(t, err)

	details := domain.ItemDetails{Name: "Road Bike", Category: "tools", Condition: domain.ItemConditionFair}

	t.Run("Not Owner", func(t *testing.T) {
		_, err := e.items.UpdateItem(e.ctx, "ana", x.ID, service.ItemInput{Details: details, Preference: domain.PermanentTerms{}})
		assert.ErrorIs(t, err, domain.ErrPermission)
	})

	t.Run("Preference Locked While Live", func(t *testing.T) {
		_, err := e.items.UpdateItem(e.ctx, "ben", x.ID, service.ItemInput{Details: details, Preference: domain.TemporaryTerms{DurationDays: 5}})
		assert.ErrorIs(t, err, domain.ErrStateConflict)
	})

	t.Run("Details Editable", func(t *testing.T) {
		updated, err := e.items.UpdateItem(e.ctx, "ben", x.ID, service.ItemInput{Details: details, Preference: domain.PermanentTerms{}})
		require.NoError(t, err)
		assert.Equal(t, "Road Bike", updated.Name)
		assert.Equal(t, domain.ItemStatusTraded, e.itemStatus(t, x.ID), "status is not editable")
	})
}

func TestItemService_DeleteItem(t *testing.T) {
	e := newEnv(t)
	x := e.item(t, "ben", "Bike", domain.PermanentTerms{})

	err := e.items.DeleteItem(e.ctx, "ana", x.ID)
	assert.ErrorIs(t, err, domain.ErrPermission)

	require.NoError(t, e.items.DeleteItem(e.ctx, "ben", x.ID))
	_, err = e.items.GetItem(e.ctx, x.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	events := e.drainEvents(t)
	require.Len(t, events, 1)
	assert.Equal(t, domain.EventItemDeleted, events[0].Kind)
	assert.Equal(t, x.ID, events[0].EntityID)
}

func TestItemService_RelistItem(t *testing.T) {
	e := newEnv(t)
	x := e.item(t, "ben", "Bike", domain.PermanentTerms{})
	y := e.item(t, "ana", "Guitar", domain.PermanentTerms{})

	_, err := e.items.RelistItem(e.ctx, "ben", x.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict, "available items are already listed")

	trade := e.propose(t, "ana", y, x)
	_, err = e.trades.AcceptTrade(e.ctx, "ben", trade.ID)
	require.NoError(t, err)

	_, err = e.items.RelistItem(e.ctx, "ben", x.ID)
	assert.ErrorIs(t, err, domain.ErrStateConflict, "trade still in progress")

	_, err = e.trades.ConfirmStart(e.ctx, "ana", trade.ID)
	require.NoError(t, err)
	_, err = e.trades.ConfirmStart(e.ctx, "ben", trade.ID)
	require.NoError(t, err)

	relisted, err := e.items.RelistItem(e.ctx, "ben", x.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemStatusAvailable, relisted.Status)
	assert.Equal(t, domain.ItemStatusAvailable, e.itemStatus(t, x.ID))
}

func TestItemService_ListAvailableItems(t *testing.T) {
	e := newEnv(t)
	e.item(t, "ben", "Bike", domain.PermanentTerms{})
	e.item(t, "cleo", "Camera", domain.PermanentTerms{})
	e.item(t, "ana", "Guitar", domain.PermanentTerms{})

	items, total, err := e.items.ListAvailableItems(e.ctx, "ana", "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, "Camera", items[0].Name, "newest first")

	items, total, err = e.items.ListAvailableItems(e.ctx, "ana", "", 107374185, 20)
	require.NoError(t, err)
	assert.Equal(t, int32(2), total)
	assert.Empty(t, items)

	mine, err := e.items.ListMyItems(e.ctx, "ana")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "Guitar", mine[0].Name)
}

func TestItemService_AttachImage(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		e := newEnv(t)
		x := e.item(t, "ben", "Bike", domain.PermanentTerms{})
		body := strings.NewReader("png-bytes")
		e.blobs.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "items/"+x.ID+"/") && strings.HasSuffix(key, ".png")
		}), "image/png", body).Return(storage.Object{Key: "k", URL: "https://img/full.png", ThumbnailURL: "https://img/thumb.png"}, nil)

		updated, err := e.items.AttachImage(e.ctx, "ben", x.ID, service.ImageUpload{Filename: "bike.png", ContentType: "image/png", Body: body})
		require.NoError(t, err)
		assert.Equal(t, "https://img/full.png", updated.ImageURL)
		assert.Equal(t, "https://img/thumb.png", updated.ThumbnailURL)
		e.blobs.AssertExpectations(t)
	})

	t.Run("Unsupported Type", func(t *testing.T) {
		e := newEnv(t)
		x := e.item(t, "ben", "Bike", domain.PermanentTerms{})
		_, err := e.items.AttachImage(e.ctx, "ben", x.ID, service.ImageUpload{ContentType: "application/pdf", Body: strings.NewReader("")})
		assert.ErrorIs(t, err, domain.ErrValidation)
		e.blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Storage Failure", func(t *testing.T) {
		e := newEnv(t)
		x := e.item(t, "ben", "Bike", domain.PermanentTerms{})
		e.blobs.On("Put", mock.Anything, mock.Anything, "image/jpeg", mock.Anything).Return(storage.Object{}, errors.New("upstream down"))

		_, err := e.items.AttachImage(e.ctx, "ben", x.ID, service.ImageUpload{ContentType: "image/jpeg", Body: strings.NewReader("jpg")})
		assert.ErrorIs(t, err, domain.ErrDependency)
	})
}
