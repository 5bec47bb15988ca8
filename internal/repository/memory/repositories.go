package memory

import (
	"context"
	"sort"
	"time"

	"swapcircle-backend/internal/domain"
	"swapcircle-backend/internal/repository"
)

type userRepository struct{ v *view }

func (r *userRepository) Upsert(_ context.Context, u *domain.User) error {
	return r.v.with(func(d *dataset) error {
		if cur, ok := d.users[u.ID]; ok {
			cur.DisplayName = u.DisplayName
			cur.Email = u.Email
			cur.UpdatedAt = u.UpdatedAt
			d.users[u.ID] = cur
			*u = copyUser(cur)
			return nil
		}
		u.BlockedUsers = []string{}
		u.Rating, u.ReviewCount = 0, 0
		u.CreatedAt = u.UpdatedAt
		d.users[u.ID] = copyUser(*u)
		return nil
	})
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	var out *domain.User
	err := r.v.with(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return domain.NotFound("user not found")
		}
		c := copyUser(u)
		out = &c
		return nil
	})
	return out, err
}

func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) UpdateBlocked(_ context.Context, id string, blocked []string, now time.Time) error {
	return r.v.with(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return domain.NotFound("user not found")
		}
		u.BlockedUsers = append([]string(nil), blocked...)
		u.UpdatedAt = now
		d.users[id] = u
		return nil
	})
}

func (r *userRepository) UpdateRating(_ context.Context, id string, rating domain.UserRating, now time.Time) error {
	return r.v.with(func(d *dataset) error {
		u, ok := d.users[id]
		if !ok {
			return domain.NotFound("user not found")
		}
		u.Rating, u.ReviewCount = rating.Rating, rating.ReviewCount
		u.UpdatedAt = now
		d.users[id] = u
		return nil
	})
}

type itemRepository struct{ v *view }

func (r *itemRepository) Create(_ context.Context, it *domain.Item) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.items[it.ID]; ok {
			return domain.StateConflict("item already exists")
		}
		if _, ok := d.users[it.OwnerID]; !ok {
			return domain.NotFound("item refers to a record that no longer exists")
		}
		d.items[it.ID] = *it
		return nil
	})
}

func (r *itemRepository) GetByID(_ context.Context, id string) (*domain.Item, error) {
	var out *domain.Item
	err := r.v.with(func(d *dataset) error {
		it, ok := d.items[id]
		if !ok {
			return domain.NotFound("item not found")
		}
		out = &it
		return nil
	})
	return out, err
}

func (r *itemRepository) GetForUpdate(ctx context.Context, id string) (*domain.Item, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepository) Update(_ context.Context, it *domain.Item) error {
	return r.v.with(func(d *dataset) error {
		cur, ok := d.items[it.ID]
		if !ok {
			return domain.NotFound("item not found")
		}
		next := *it
		next.Status = cur.Status
		next.OwnerID, next.CreatedAt = cur.OwnerID, cur.CreatedAt
		d.items[it.ID] = next
		return nil
	})
}

func (r *itemRepository) SetStatus(_ context.Context, id string, status domain.ItemStatus, now time.Time) error {
	return r.v.with(func(d *dataset) error {
		it, ok := d.items[id]
		if !ok {
			return domain.NotFound("item not found")
		}
		it.Status = status
		it.UpdatedAt = now
		d.items[id] = it
		return nil
	})
}

func (r *itemRepository) Delete(_ context.Context, id string) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.items[id]; !ok {
			return domain.NotFound("item not found")
		}
		delete(d.items, id)
		return nil
	})
}

func (r *itemRepository) ListAvailable(_ context.Context, f repository.ItemFilter) ([]domain.Item, int32, error) {
	var matched []domain.Item
	err := r.v.with(func(d *dataset) error {
		for _, it := range d.items {
			if it.Status != domain.ItemStatusAvailable {
				continue
			}
			if f.Category != "" && it.Category != f.Category {
				continue
			}
			if f.ExcludeOwnerID != "" && it.OwnerID == f.ExcludeOwnerID {
				continue
			}
			matched = append(matched, it)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	sortItems(matched)

	limit, offset := repository.PageWindow(f.Page, f.PageSize)
	start, end := window(len(matched), limit, offset)
	return matched[start:end], int32(len(matched)), nil
}

// window returns the slice bounds of [offset, offset+limit) within total
// elements, computed in int64 so neither bound can wrap.
func window(total int, limit, offset int32) (int, int) {
	start := int64(offset)
	if start < 0 {
		start = 0
	}
	if start > int64(total) {
		start = int64(total)
	}
	end := start + int64(limit)
	if limit < 0 || end > int64(total) {
		end = int64(total)
	}
	return int(start), int(end)
}

func (r *itemRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Item, error) {
	var out []domain.Item
	err := r.v.with(func(d *dataset) error {
		for _, it := range d.items {
			if it.OwnerID == ownerID {
				out = append(out, it)
			}
		}
		return nil
	})
	sortItems(out)
	return out, err
}

func sortItems(items []domain.Item) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}

type tradeRepository struct{ v *view }

func (r *tradeRepository) Create(_ context.Context, t *domain.Trade) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.trades[t.ID]; ok {
			return domain.StateConflict("trade already exists")
		}
		d.trades[t.ID] = *t
		return nil
	})
}

func (r *tradeRepository) GetByID(_ context.Context, id string) (*domain.Trade, error) {
	var out *domain.Trade
	err := r.v.with(func(d *dataset) error {
		t, ok := d.trades[id]
		if !ok {
			return domain.NotFound("trade not found")
		}
		out = &t
		return nil
	})
	return out, err
}

func (r *tradeRepository) GetForUpdate(ctx context.Context, id string) (*domain.Trade, error) {
	return r.GetByID(ctx, id)
}

func (r *tradeRepository) Update(_ context.Context, t *domain.Trade) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.trades[t.ID]; !ok {
			return domain.NotFound("trade not found")
		}
		d.trades[t.ID] = *t
		return nil
	})
}

func (r *tradeRepository) filter(keep func(t domain.Trade) bool) []domain.Trade {
	var out []domain.Trade
	_ = r.v.with(func(d *dataset) error {
		for _, t := range d.trades {
			if keep(t) {
				out = append(out, t)
			}
		}
		return nil
	})
	return out
}

func byCreated(trades []domain.Trade) []domain.Trade {
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].CreatedAt.Equal(trades[j].CreatedAt) {
			return trades[i].ID < trades[j].ID
		}
		return trades[i].CreatedAt.Before(trades[j].CreatedAt)
	})
	return trades
}

func (r *tradeRepository) ListByProposerItem(_ context.Context, itemID string) ([]domain.Trade, error) {
	return byCreated(r.filter(func(t domain.Trade) bool { return t.ProposerItemID == itemID })), nil
}

func (r *tradeRepository) ListByReceiverItem(_ context.Context, itemID string) ([]domain.Trade, error) {
	return byCreated(r.filter(func(t domain.Trade) bool { return t.ReceiverItemID == itemID })), nil
}

func (r *tradeRepository) ListByParticipant(_ context.Context, userID string) ([]domain.Trade, error) {
	trades := r.filter(func(t domain.Trade) bool { return t.ProposerID == userID || t.ReceiverID == userID })
	sort.Slice(trades, func(i, j int) bool {
		if trades[i].UpdatedAt.Equal(trades[j].UpdatedAt) {
			return trades[i].ID < trades[j].ID
		}
		return trades[i].UpdatedAt.After(trades[j].UpdatedAt)
	})
	return trades, nil
}

func (r *tradeRepository) ListOnLoan(_ context.Context) ([]domain.Trade, error) {
	return byCreated(r.filter(func(t domain.Trade) bool { return t.Status == domain.TradeStatusOnLoan })), nil
}

func (r *tradeRepository) ExistsPending(_ context.Context, proposerItemID, receiverItemID string) (bool, error) {
	found := r.filter(func(t domain.Trade) bool {
		return t.Status == domain.TradeStatusPending && t.ProposerItemID == proposerItemID && t.ReceiverItemID == receiverItemID
	})
	return len(found) > 0, nil
}

func (r *tradeRepository) HasLive(_ context.Context, itemID string) (bool, error) {
	found := r.filter(func(t domain.Trade) bool { return t.Status.Live() && t.References(itemID) })
	return len(found) > 0, nil
}

func (r *tradeRepository) DeleteMany(_ context.Context, ids []string) error {
	return r.v.with(func(d *dataset) error {
		gone := map[string]bool{}
		for _, id := range ids {
			if _, ok := d.trades[id]; ok {
				delete(d.trades, id)
				gone[id] = true
			}
		}
		kept := d.messages[:0:0]
		for _, m := range d.messages {
			if !gone[m.TradeID] {
				kept = append(kept, m)
			}
		}
		d.messages = kept
		return nil
	})
}

type messageRepository struct{ v *view }

func (r *messageRepository) Create(_ context.Context, m *domain.Message) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.trades[m.TradeID]; !ok {
			return domain.NotFound("message refers to a record that no longer exists")
		}
		d.messages = append(d.messages, *m)
		return nil
	})
}

func (r *messageRepository) ListByTrade(_ context.Context, tradeID string) ([]domain.Message, error) {
	var out []domain.Message
	_ = r.v.with(func(d *dataset) error {
		for _, m := range d.messages {
			if m.TradeID == tradeID {
				out = append(out, m)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type reviewRepository struct{ v *view }

func (r *reviewRepository) Create(_ context.Context, rv *domain.Review) error {
	return r.v.with(func(d *dataset) error {
		for _, existing := range d.reviews {
			if existing.TradeID == rv.TradeID && existing.FromUserID == rv.FromUserID {
				return domain.StateConflict("review already exists")
			}
		}
		d.reviews[rv.ID] = *rv
		return nil
	})
}

func (r *reviewRepository) GetForUpdate(_ context.Context, id string) (*domain.Review, error) {
	var out *domain.Review
	err := r.v.with(func(d *dataset) error {
		rv, ok := d.reviews[id]
		if !ok {
			return domain.NotFound("review not found")
		}
		out = &rv
		return nil
	})
	return out, err
}

func (r *reviewRepository) MarkAggregated(_ context.Context, id string) error {
	return r.v.with(func(d *dataset) error {
		rv, ok := d.reviews[id]
		if !ok {
			return domain.NotFound("review not found")
		}
		rv.Aggregated = true
		d.reviews[id] = rv
		return nil
	})
}

func (r *reviewRepository) ListByTarget(_ context.Context, userID string) ([]domain.Review, error) {
	var out []domain.Review
	_ = r.v.with(func(d *dataset) error {
		for _, rv := range d.reviews {
			if rv.ToUserID == userID {
				out = append(out, rv)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

type notificationRepository struct{ v *view }

func (r *notificationRepository) Create(_ context.Context, n *domain.Notification) (bool, error) {
	created := false
	err := r.v.with(func(d *dataset) error {
		if n.DedupeKey != "" {
			for _, existing := range d.notifications {
				if existing.DedupeKey == n.DedupeKey {
					return nil
				}
			}
		}
		d.notifications = append(d.notifications, *n)
		created = true
		return nil
	})
	return created, err
}

func (r *notificationRepository) List(_ context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	var mine []domain.Notification
	_ = r.v.with(func(d *dataset) error {
		for _, n := range d.notifications {
			if n.UserID == userID {
				mine = append(mine, n)
			}
		}
		return nil
	})
	sort.SliceStable(mine, func(i, j int) bool {
		if mine[i].CreatedAt.Equal(mine[j].CreatedAt) {
			return mine[i].ID < mine[j].ID
		}
		return mine[i].CreatedAt.After(mine[j].CreatedAt)
	})
	start, end := window(len(mine), limit, offset)
	return mine[start:end], int32(len(mine)), nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id, userID string) error {
	return r.v.with(func(d *dataset) error {
		for i, n := range d.notifications {
			if n.ID == id && n.UserID == userID {
				d.notifications[i].Read = true
				return nil
			}
		}
		return domain.NotFound("notification not found")
	})
}

type reportRepository struct{ v *view }

func (r *reportRepository) Create(_ context.Context, rp *domain.Report) error {
	return r.v.with(func(d *dataset) error {
		d.reports = append(d.reports, *rp)
		return nil
	})
}

type eventRepository struct{ v *view }

func (r *eventRepository) Append(_ context.Context, e *domain.ChangeEvent) error {
	return r.v.with(func(d *dataset) error {
		d.events = append(d.events, *e)
		return nil
	})
}

func (r *eventRepository) ClaimPending(_ context.Context, limit int, now time.Time, lease time.Duration) ([]domain.ChangeEvent, error) {
	var out []domain.ChangeEvent
	err := r.v.with(func(d *dataset) error {
		for i := range d.events {
			if len(out) == limit {
				break
			}
			e := &d.events[i]
			if e.DeliveredAt != nil {
				continue
			}
			if until, ok := d.claimedUntil[e.ID]; ok && !until.Before(now) {
				continue
			}
			e.Attempts++
			d.claimedUntil[e.ID] = now.Add(lease)
			out = append(out, *e)
		}
		return nil
	})
	return out, err
}

func (r *eventRepository) MarkDelivered(_ context.Context, id string, handlerErr string, now time.Time) error {
	return r.v.with(func(d *dataset) error {
		for i := range d.events {
			if d.events[i].ID == id {
				delivered := now
				d.events[i].DeliveredAt = &delivered
				d.events[i].LastError = handlerErr
				delete(d.claimedUntil, id)
				return nil
			}
		}
		return domain.NotFound("change event not found")
	})
}
