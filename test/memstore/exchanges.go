package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	exchangeserrors "swapstay/internal/exchanges/errors"
	"swapstay/internal/exchanges/repository"
	"swapstay/pkg/model"
)

type exchangeRepo struct {
	*Store
}

var _ repository.ExchangeRepository = exchangeRepo{}

// Exchanges returns the store as an exchange repository.
func (s *Store) Exchanges() repository.ExchangeRepository {
	return exchangeRepo{s}
}

// AddExchange stores e as given, skipping every check.
func (s *Store) AddExchange(e model.Exchange) *model.Exchange {
	_ = s.with(func(st *state) error {
		e.ID = st.newID()
		e.CreatedAt = st.tick()
		if e.Status == "" {
			e.Status = model.ExchangePending
		}
		st.exchanges[e.ID] = e
		return nil
	})
	return &e
}

func (r exchangeRepo) Insert(_ context.Context, e *model.Exchange) error {
	if err := r.injected("exchanges.Insert"); err != nil {
		return err
	}
	return r.with(func(st *state) error {
		if _, ok := st.users[e.UserID]; !ok {
			return fmt.Errorf("%w: exchanges_user_id_fkey", exchangeserrors.ErrUnknownReference)
		}
		if _, ok := st.bookings[e.BaseBookingID]; !ok {
			return fmt.Errorf("%w: exchanges_base_booking_id_fkey", exchangeserrors.ErrUnknownReference)
		}
		if _, ok := st.objects[e.TargetObjectID]; !ok {
			return fmt.Errorf("%w: exchanges_target_object_id_fkey", exchangeserrors.ErrUnknownReference)
		}
		e.ID = st.newID()
		e.CreatedAt = st.tick()
		st.exchanges[e.ID] = *e
		return nil
	})
}

func (r exchangeRepo) FindByID(_ context.Context, id int64) (*model.Exchange, error) {
	var out *model.Exchange
	err := r.with(func(st *state) error {
		e, ok := st.exchanges[id]
		if !ok {
			return fmt.Errorf("%w: %d", exchangeserrors.ErrNotFound, id)
		}
		out = &e
		return nil
	})
	return out, err
}

func (r exchangeRepo) FindForUpdate(ctx context.Context, id int64) (*model.Exchange, error) {
	return r.FindByID(ctx, id)
}

func (r exchangeRepo) List(_ context.Context, userID *int64) ([]*model.ExchangeView, error) {
	return r.views(func(st *state, e model.Exchange) bool {
		return userID == nil || e.UserID == *userID
	}), nil
}

func (r exchangeRepo) ListIncoming(_ context.Context, userID int64) ([]*model.ExchangeView, error) {
	return r.views(func(st *state, e model.Exchange) bool {
		if e.TargetOwnerID != nil {
			return *e.TargetOwnerID == userID
		}
		o, ok := st.objects[e.TargetObjectID]
		return ok && o.IsOwnedBy(userID)
	}), nil
}

func (r exchangeRepo) views(keep func(st *state, e model.Exchange) bool) []*model.ExchangeView {
	out := make([]*model.ExchangeView, 0)
	_ = r.with(func(st *state) error {
		for _, e := range st.exchanges {
			if !keep(st, e) {
				continue
			}
			v := &model.ExchangeView{Exchange: e}
			if b, ok := st.bookings[e.BaseBookingID]; ok {
				objectID := b.ObjectID
				v.BaseObjectID = &objectID
				if o, ok := st.objects[b.ObjectID]; ok {
					title := o.Title
					v.BaseObjectTitle = &title
				}
			}
			if o, ok := st.objects[e.TargetObjectID]; ok {
				title := o.Title
				v.TargetObjectTitle = &title
			}
			out = append(out, v)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r exchangeRepo) Decide(_ context.Context, id int64, status model.ExchangeStatus, decidedAt time.Time) (*model.Exchange, error) {
	if err := r.injected("exchanges.Decide"); err != nil {
		return nil, err
	}
	return r.update(id, func(e *model.Exchange) {
		e.Status = status
		e.DecidedAt = &decidedAt
	})
}

func (r exchangeRepo) SaveSharedContacts(_ context.Context, id int64, shared *model.SharedContacts) (*model.Exchange, error) {
	copied := *shared
	return r.update(id, func(e *model.Exchange) {
		e.SharedContacts = &copied
	})
}

func (r exchangeRepo) update(id int64, f func(e *model.Exchange)) (*model.Exchange, error) {
	var out *model.Exchange
	err := r.with(func(st *state) error {
		e, ok := st.exchanges[id]
		if !ok {
			return fmt.Errorf("%w: %d", exchangeserrors.ErrNotFound, id)
		}
		f(&e)
		st.exchanges[id] = e
		out = &e
		return nil
	})
	return out, err
}
