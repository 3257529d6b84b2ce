package service

import (
	"context"
	"errors"

	bookingserrors "swapstay/internal/bookings/errors"
	"swapstay/internal/bookings/repository"
	"swapstay/internal/bookings/validator"
	directoryerrors "swapstay/internal/directory/errors"
	"swapstay/internal/events"
	"swapstay/pkg/config"
	apperrors "swapstay/pkg/errors"
	"swapstay/pkg/model"
	"swapstay/pkg/sanitizer"
)

type BookingService interface {
	Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	List(ctx context.Context) ([]*model.BookingView, error)
	Delete(ctx context.Context, id int64) (*model.DeleteResult, error)
	SetStatus(ctx context.Context, id int64, req *model.UpdateBookingStatusRequest) (*model.Booking, error)
}

// ObjectLocker row-locks an object inside the caller's transaction.
type ObjectLocker interface {
	LockObject(ctx context.Context, id int64) (*model.Object, error)
}

// OwnershipTransferer reassigns an object's owner.
type OwnershipTransferer interface {
	TransferOwnership(ctx context.Context, objectID, newOwnerID int64) (*events.Event, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	objects   ObjectLocker
	owners    OwnershipTransferer
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	objects ObjectLocker,
	owners OwnershipTransferer,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		objects:   objects,
		owners:    owners,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	req.Note = sanitizer.NormalizeMultiline(req.Note)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, err
	}

	booking := &model.Booking{
		ObjectID:  *req.ObjectID,
		UserID:    *req.UserID,
		Status:    model.BookingPending,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Guests:    validator.DefaultGuests,
		Note:      req.Note,
	}
	if req.Guests != nil {
		booking.Guests = *req.Guests
	}

	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		// The object lock serializes this check-then-insert with other
		// writers on the same calendar.
		if _, err := s.objects.LockObject(txCtx, booking.ObjectID); err != nil {
			if errors.Is(err, directoryerrors.ErrObjectNotFound) {
				return apperrors.NotFoundWithID("Object", booking.ObjectID)
			}
			return apperrors.Internal("Failed to lock object", err)
		}

		conflict, err := s.repo.HasConflict(txCtx, booking.ObjectID, booking.Range(), nil)
		if err != nil {
			return apperrors.Internal("Failed to check booking conflicts", err)
		}
		if conflict {
			return apperrors.DateRangeConflict("selected dates overlap an existing booking")
		}

		if err := s.repo.Insert(txCtx, booking); err != nil {
			if errors.Is(err, bookingserrors.ErrUnknownReference) {
				return apperrors.NotFoundWithID("User", booking.UserID)
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to create booking", err, "object_id", booking.ObjectID, "user_id", booking.UserID)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"object_id", booking.ObjectID,
		"user_id", booking.UserID,
		"range", booking.Range().String(),
	)
	s.publisher.Publish(ctx, events.New(events.BookingCreated, events.EntityBooking, booking.ID).
		WithStatus("", string(booking.Status)).
		WithActor(booking.UserID).
		With("object_id", booking.ObjectID).
		With("start_date", booking.StartDate.String()).
		With("end_date", booking.EndDate.String()))
	return booking, nil
}

func (s *bookingService) List(ctx context.Context) ([]*model.BookingView, error) {
	bookings, err := s.repo.ListViews(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) Delete(ctx context.Context, id int64) (*model.DeleteResult, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to delete booking", "booking_id", id, "error", err)
		return nil, apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "booking_id", id)
	s.publisher.Publish(ctx, events.New(events.BookingDeleted, events.EntityBooking, id))
	return &model.DeleteResult{OK: true, ID: id}, nil
}

func (s *bookingService) SetStatus(ctx context.Context, id int64, req *model.UpdateBookingStatusRequest) (*model.Booking, error) {
	next, err := s.validator.ValidateStatus(req)
	if err != nil {
		return nil, err
	}

	var (
		updated  *model.Booking
		previous model.BookingStatus
		transfer *events.Event
	)
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.repo.FindForUpdate(txCtx, id)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to load booking", err)
		}
		previous = current.Status

		if !current.Status.CanTransitionTo(next) {
			return apperrors.InvalidState("cannot change booking status from " + string(current.Status) + " to " + string(next))
		}

		updated, err = s.repo.UpdateStatus(txCtx, id, next)
		if err != nil {
			return apperrors.Internal("Failed to update booking status", err)
		}

		if next == model.BookingConfirmed {
			transfer, err = s.owners.TransferOwnership(txCtx, updated.ObjectID, updated.UserID)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to update booking status", err, "booking_id", id, "status", next)
		return nil, err
	}

	s.cfg.Log.Info("Booking status updated",
		"booking_id", id,
		"from", previous,
		"to", next,
	)
	published := []events.Event{
		events.New(events.BookingStatusChanged, events.EntityBooking, id).
			WithStatus(string(previous), string(next)).
			With("object_id", updated.ObjectID),
	}
	if transfer != nil {
		published = append(published, *transfer)
	}
	s.publisher.Publish(ctx, published...)
	return updated, nil
}

// logFailure keeps client mistakes at warn level and everything else at error.
func (s *bookingService) logFailure(msg string, err error, args ...any) {
	args = append(args, "error", err)
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() < 500 {
		s.cfg.Log.Warn(msg, args...)
		return
	}
	s.cfg.Log.Error(msg, args...)
}
