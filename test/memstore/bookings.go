package memstore

import (
	"context"
	"fmt"
	"sort"

	bookingserrors "swapstay/internal/bookings/errors"
	"swapstay/internal/bookings/repository"
	"swapstay/pkg/model"
)

type bookingRepo struct {
	*Store
}

var _ repository.BookingRepository = bookingRepo{}

// Bookings returns the store as a booking repository.
func (s *Store) Bookings() repository.BookingRepository {
	return bookingRepo{s}
}

func (r bookingRepo) HasConflict(_ context.Context, objectID int64, dr model.DateRange, excludeID *int64) (bool, error) {
	if err := r.injected("bookings.HasConflict"); err != nil {
		return false, err
	}
	var conflict bool
	_ = r.with(func(st *state) error {
		for _, b := range st.bookings {
			if b.ObjectID != objectID || !b.Status.IsBlocking() {
				continue
			}
			if excludeID != nil && b.ID == *excludeID {
				continue
			}
			if b.Range().Overlaps(dr) {
				conflict = true
				return nil
			}
		}
		return nil
	})
	return conflict, nil
}

func (r bookingRepo) FindConfirmedOccupant(_ context.Context, objectID int64, dr model.DateRange) (*int64, error) {
	var found *model.Booking
	_ = r.with(func(st *state) error {
		for _, b := range st.bookings {
			if b.ObjectID != objectID || b.Status != model.BookingConfirmed || !b.Range().Overlaps(dr) {
				continue
			}
			if found == nil || b.StartDate.Before(found.StartDate) {
				b := b
				found = &b
			}
		}
		return nil
	})
	if found == nil {
		return nil, nil
	}
	return &found.UserID, nil
}

func (r bookingRepo) Insert(_ context.Context, b *model.Booking) error {
	if err := r.injected("bookings.Insert"); err != nil {
		return err
	}
	return r.with(func(st *state) error {
		if _, ok := st.users[b.UserID]; !ok {
			return fmt.Errorf("%w: bookings_user_id_fkey", bookingserrors.ErrUnknownReference)
		}
		if _, ok := st.objects[b.ObjectID]; !ok {
			return fmt.Errorf("%w: bookings_object_id_fkey", bookingserrors.ErrUnknownReference)
		}
		if b.EndDate.Before(b.StartDate) {
			return fmt.Errorf("%w: bookings_range_check", bookingserrors.ErrInvalidDateRange)
		}
		b.ID = st.newID()
		b.CreatedAt = st.tick()
		st.bookings[b.ID] = *b
		return nil
	})
}

func (r bookingRepo) FindByID(_ context.Context, id int64) (*model.Booking, error) {
	var out *model.Booking
	err := r.with(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
		}
		out = &b
		return nil
	})
	return out, err
}

func (r bookingRepo) FindForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r bookingRepo) ListViews(_ context.Context) ([]*model.BookingView, error) {
	views := make([]*model.BookingView, 0)
	_ = r.with(func(st *state) error {
		for _, b := range st.bookings {
			v := &model.BookingView{Booking: b}
			if u, ok := st.users[b.UserID]; ok {
				name := u.FullName
				v.UserName = &name
				v.UserPhone = u.Phone
			}
			if o, ok := st.objects[b.ObjectID]; ok {
				title := o.Title
				v.ObjectTitle = &title
			}
			views = append(views, v)
		}
		return nil
	})
	sort.Slice(views, func(i, j int) bool {
		if !views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].CreatedAt.After(views[j].CreatedAt)
		}
		return views[i].ID > views[j].ID
	})
	return views, nil
}

func (r bookingRepo) Delete(_ context.Context, id int64) error {
	if err := r.injected("bookings.Delete"); err != nil {
		return err
	}
	return r.with(func(st *state) error {
		if _, ok := st.bookings[id]; !ok {
			return fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
		}
		delete(st.bookings, id)
		for exID, ex := range st.exchanges {
			if ex.BaseBookingID == id {
				delete(st.exchanges, exID)
			}
		}
		return nil
	})
}

func (r bookingRepo) UpdateStatus(_ context.Context, id int64, status model.BookingStatus) (*model.Booking, error) {
	if err := r.injected("bookings.UpdateStatus"); err != nil {
		return nil, err
	}
	var out *model.Booking
	err := r.with(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
		}
		b.Status = status
		st.bookings[id] = b
		out = &b
		return nil
	})
	return out, err
}

func (r bookingRepo) Relocate(_ context.Context, id, objectID int64, dr model.DateRange, status model.BookingStatus) (*model.Booking, error) {
	if err := r.injected("bookings.Relocate"); err != nil {
		return nil, err
	}
	var out *model.Booking
	err := r.with(func(st *state) error {
		b, ok := st.bookings[id]
		if !ok {
			return fmt.Errorf("%w: %d", bookingserrors.ErrNotFound, id)
		}
		if _, ok := st.objects[objectID]; !ok {
			return fmt.Errorf("%w: bookings_object_id_fkey", bookingserrors.ErrUnknownReference)
		}
		b.ObjectID = objectID
		b.StartDate = dr.Start
		b.EndDate = dr.End
		b.Status = status
		st.bookings[id] = b
		out = &b
		return nil
	})
	return out, err
}
