package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "swapstay/internal/bookings/errors"
	directoryerrors "swapstay/internal/directory/errors"
	"swapstay/internal/events"
	exchangeserrors "swapstay/internal/exchanges/errors"
	"swapstay/internal/exchanges/repository"
	"swapstay/internal/exchanges/validator"
	"swapstay/pkg/config"
	"swapstay/pkg/db/postgres"
	apperrors "swapstay/pkg/errors"
	"swapstay/pkg/model"
	"swapstay/pkg/sanitizer"
)

type ExchangeService interface {
	CreateRequest(ctx context.Context, req *model.CreateExchangeRequest) (*model.Exchange, error)
	List(ctx context.Context, userID *int64) ([]*model.ExchangeView, error)
	ListIncoming(ctx context.Context, userID *int64) ([]*model.ExchangeView, error)
	Decide(ctx context.Context, id int64, req *model.DecideExchangeRequest) (*model.DecisionResult, error)
}

// BookingStore is the booking access settlement needs. It must share the
// transaction carried by the context with the exchange repository.
type BookingStore interface {
	FindByID(ctx context.Context, id int64) (*model.Booking, error)
	FindForUpdate(ctx context.Context, id int64) (*model.Booking, error)
	HasConflict(ctx context.Context, objectID int64, r model.DateRange, excludeID *int64) (bool, error)
	FindConfirmedOccupant(ctx context.Context, objectID int64, r model.DateRange) (*int64, error)
	Insert(ctx context.Context, b *model.Booking) error
	Relocate(ctx context.Context, id, objectID int64, r model.DateRange, status model.BookingStatus) (*model.Booking, error)
}

type Directory interface {
	FindUser(ctx context.Context, id int64) (*model.User, error)
	FindObject(ctx context.Context, id int64) (*model.Object, error)
	LockObject(ctx context.Context, id int64) (*model.Object, error)
}

type exchangeService struct {
	repo      repository.ExchangeRepository
	bookings  BookingStore
	directory Directory
	validator *validator.ExchangeValidator
	publisher events.Publisher
	cfg       *config.Config
	now       func() time.Time
}

func NewExchangeService(
	repo repository.ExchangeRepository,
	bookings BookingStore,
	directory Directory,
	validator *validator.ExchangeValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ExchangeService {
	return &exchangeService{
		repo:      repo,
		bookings:  bookings,
		directory: directory,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *exchangeService) CreateRequest(ctx context.Context, req *model.CreateExchangeRequest) (*model.Exchange, error) {
	req.Message = sanitizer.NormalizeMultiline(req.Message)
	req.Contact = sanitizer.SanitizeContact(req.Contact)
	if err := s.validator.ValidateCreate(req); err != nil {
		s.cfg.Log.Warn("Exchange validation failed", "error", err)
		return nil, err
	}

	userID, baseID, targetID := *req.UserID, *req.BaseBookingID, *req.TargetObjectID
	candidate := model.NewDateRange(req.StartDate, req.EndDate)

	base, err := s.bookings.FindByID(ctx, baseID)
	if err != nil {
		return nil, s.notFoundOr(err, "Booking", baseID, "Failed to load base booking")
	}
	if base.UserID != userID {
		return nil, apperrors.Forbidden("base booking belongs to another user")
	}
	if base.Status != model.BookingConfirmed {
		return nil, apperrors.InvalidState("base booking must be confirmed")
	}

	baseNights, selNights := base.Range().Nights(), candidate.Nights()
	if baseNights != selNights {
		return nil, apperrors.NightCountMismatch(baseNights, selNights)
	}
	if targetID == base.ObjectID {
		return nil, apperrors.SameObject()
	}

	target, err := s.directory.FindObject(ctx, targetID)
	if err != nil {
		return nil, s.notFoundOr(err, "Object", targetID, "Failed to load target object")
	}

	targetOwnerID, err := s.bookings.FindConfirmedOccupant(ctx, targetID, candidate)
	if err != nil {
		return nil, apperrors.Internal("Failed to resolve target owner", err)
	}
	if targetOwnerID == nil {
		targetOwnerID = target.OwnerID
	}

	conflict, err := s.bookings.HasConflict(ctx, targetID, candidate, nil)
	if err != nil {
		return nil, apperrors.Internal("Failed to check booking conflicts", err)
	}
	if conflict {
		s.cfg.Log.Warn("Exchange target occupied", "target_object_id", targetID, "range", candidate.String())
		return nil, apperrors.DateRangeConflict("target object is occupied on the selected dates")
	}

	exchange := &model.Exchange{
		UserID:         userID,
		BaseBookingID:  baseID,
		TargetObjectID: targetID,
		StartDate:      candidate.Start,
		EndDate:        candidate.End,
		Nights:         baseNights,
		Message:        req.Message,
		Status:         model.ExchangePending,
		Contact:        req.Contact,
		TargetOwnerID:  targetOwnerID,
	}
	if err := s.repo.Insert(ctx, exchange); err != nil {
		if errors.Is(err, exchangeserrors.ErrUnknownReference) {
			return nil, apperrors.NotFound("Referenced user, booking or object")
		}
		s.cfg.Log.Error("Failed to create exchange", "base_booking_id", baseID, "error", err)
		return nil, apperrors.Internal("Failed to create exchange", err)
	}

	s.cfg.Log.Info("Exchange requested",
		"exchange_id", exchange.ID,
		"base_booking_id", baseID,
		"target_object_id", targetID,
		"nights", exchange.Nights,
		"target_owner_id", targetOwnerID,
	)
	s.publisher.Publish(ctx, events.New(events.ExchangeCreated, events.EntityExchange, exchange.ID).
		WithStatus("", string(exchange.Status)).
		WithActor(userID).
		With("base_booking_id", baseID).
		With("target_object_id", targetID))
	return exchange, nil
}

func (s *exchangeService) List(ctx context.Context, userID *int64) ([]*model.ExchangeView, error) {
	exchanges, err := s.repo.List(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list exchanges", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve exchanges", err)
	}
	return exchanges, nil
}

func (s *exchangeService) ListIncoming(ctx context.Context, userID *int64) ([]*model.ExchangeView, error) {
	if userID == nil {
		return nil, apperrors.MissingField("user_id")
	}
	exchanges, err := s.repo.ListIncoming(ctx, *userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list incoming exchanges", "user_id", *userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve exchanges", err)
	}
	return exchanges, nil
}

func (s *exchangeService) Decide(ctx context.Context, id int64, req *model.DecideExchangeRequest) (*model.DecisionResult, error) {
	action, err := s.validator.ValidateAction(req)
	if err != nil {
		return nil, err
	}

	var (
		result   *model.DecisionResult
		previous model.ExchangeStatus
	)
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		// Lock order: exchange, booking, objects by ascending id.
		exchange, err := s.repo.FindForUpdate(txCtx, id)
		if err != nil {
			return s.notFoundOr(err, "Exchange", id, "Failed to load exchange")
		}
		previous = exchange.Status

		base, err := s.bookings.FindForUpdate(txCtx, exchange.BaseBookingID)
		if err != nil {
			return s.notFoundOr(err, "Booking", exchange.BaseBookingID, "Failed to load base booking")
		}

		target, err := s.lockObjects(txCtx, base.ObjectID, exchange.TargetObjectID)
		if err != nil {
			return err
		}

		if action == model.ActionShareContacts {
			result, err = s.shareContacts(txCtx, exchange, target)
			return err
		}

		next, _ := action.TargetStatus()
		if exchange.Status.IsDecided() {
			return apperrors.AlreadyDecided("exchange")
		}
		if !exchange.Status.CanTransitionTo(next) {
			return apperrors.InvalidState(fmt.Sprintf("cannot change exchange status from %s to %s", exchange.Status, next))
		}

		if action == model.ActionReject {
			decided, err := s.repo.Decide(txCtx, id, model.ExchangeRejected, s.now())
			if err != nil {
				return apperrors.Internal("Failed to reject exchange", err)
			}
			result = &model.DecisionResult{Exchange: decided}
			return nil
		}

		result, err = s.approve(txCtx, exchange, base, target)
		return err
	})
	if err != nil {
		if postgres.IsLockConflict(err) {
			err = apperrors.Conflict("exchange collided with a concurrent settlement, retry the request")
		}
		if appErr := apperrors.AsAppError(err); appErr.StatusCode() < 500 {
			s.cfg.Log.Warn("Exchange decision refused", "exchange_id", id, "action", action, "error", err)
		} else {
			s.cfg.Log.Error("Exchange decision failed", "exchange_id", id, "action", action, "error", err)
		}
		return nil, err
	}

	s.cfg.Log.Info("Exchange decided",
		"exchange_id", id,
		"action", action,
		"status", result.Exchange.Status,
	)
	s.publisher.Publish(ctx, s.decisionEvents(action, previous, result)...)
	return result, nil
}

// lockObjects row-locks the base booking's object and the target object in
// ascending id order and returns the target. Approval writes bookings that
// reference both rows, so swaps running in opposite directions must queue on
// the same first lock.
func (s *exchangeService) lockObjects(ctx context.Context, originalID, targetID int64) (*model.Object, error) {
	ids := []int64{originalID, targetID}
	if targetID < originalID {
		ids[0], ids[1] = targetID, originalID
	}
	if ids[0] == ids[1] {
		ids = ids[:1]
	}

	var target *model.Object
	for _, id := range ids {
		o, err := s.directory.LockObject(ctx, id)
		if err != nil {
			return nil, s.notFoundOr(err, "Object", id, "Failed to lock object")
		}
		if id == targetID {
			target = o
		}
	}
	return target, nil
}

// approve relocates the base booking onto the target window and books the
// vacated window for the counterpart. The caller holds the exchange, base
// booking and target object locks.
func (s *exchangeService) approve(ctx context.Context, exchange *model.Exchange, base *model.Booking, target *model.Object) (*model.DecisionResult, error) {
	conflict, err := s.bookings.HasConflict(ctx, exchange.TargetObjectID, exchange.Range(), &base.ID)
	if err != nil {
		return nil, apperrors.Internal("Failed to check booking conflicts", err)
	}
	if conflict {
		return nil, apperrors.DateRangeConflict("target dates were taken before approval")
	}

	counterpartID := counterpart(exchange, target)
	if counterpartID == nil {
		return nil, apperrors.InvalidState("target object has no owner to receive the reciprocal booking")
	}

	originalObjectID, originalRange := base.ObjectID, base.Range()

	relocated, err := s.bookings.Relocate(ctx, base.ID, exchange.TargetObjectID, exchange.Range(), model.BookingConfirmed)
	if err != nil {
		return nil, s.notFoundOr(err, "Booking", base.ID, "Failed to relocate booking")
	}

	note := fmt.Sprintf("exchange #%d", exchange.ID)
	reciprocal := &model.Booking{
		ObjectID:  originalObjectID,
		UserID:    *counterpartID,
		Status:    model.BookingConfirmed,
		StartDate: originalRange.Start,
		EndDate:   originalRange.End,
		Guests:    max(1, base.Guests),
		Note:      &note,
	}
	if err := s.bookings.Insert(ctx, reciprocal); err != nil {
		if errors.Is(err, bookingserrors.ErrUnknownReference) {
			return nil, apperrors.NotFoundWithID("User", *counterpartID)
		}
		return nil, apperrors.Internal("Failed to create reciprocal booking", err)
	}

	decided, err := s.repo.Decide(ctx, exchange.ID, model.ExchangeApproved, s.now())
	if err != nil {
		return nil, apperrors.Internal("Failed to approve exchange", err)
	}

	return &model.DecisionResult{
		Exchange:          decided,
		Booking:           relocated,
		ReciprocalBooking: reciprocal,
	}, nil
}

// shareContacts pairs the requester's contact with the counterpart's directory
// record. It never changes status and yields the same pairing on every call.
// An ownerless target gets an empty counterpart card.
func (s *exchangeService) shareContacts(ctx context.Context, exchange *model.Exchange, target *model.Object) (*model.DecisionResult, error) {
	var other model.ContactInfo
	if counterpartID := counterpart(exchange, target); counterpartID != nil {
		user, err := s.directory.FindUser(ctx, *counterpartID)
		if err != nil {
			return nil, s.notFoundOr(err, "User", *counterpartID, "Failed to load counterpart")
		}
		other = model.ContactFromUser(user)
	}

	requester := exchange.Contact
	if requester.IsEmpty() {
		user, err := s.directory.FindUser(ctx, exchange.UserID)
		if err != nil {
			return nil, s.notFoundOr(err, "User", exchange.UserID, "Failed to load requester")
		}
		c := model.ContactFromUser(user)
		requester = &c
	}

	shared := &model.SharedContacts{
		Requester:   *requester,
		Counterpart: other,
	}
	updated, err := s.repo.SaveSharedContacts(ctx, exchange.ID, shared)
	if err != nil {
		return nil, apperrors.Internal("Failed to share contacts", err)
	}
	return &model.DecisionResult{Exchange: updated}, nil
}

func (s *exchangeService) decisionEvents(action model.ExchangeAction, previous model.ExchangeStatus, result *model.DecisionResult) []events.Event {
	ex := result.Exchange
	switch action {
	case model.ActionShareContacts:
		return []events.Event{events.New(events.ExchangeContactsShared, events.EntityExchange, ex.ID)}
	case model.ActionReject:
		return []events.Event{events.New(events.ExchangeRejected, events.EntityExchange, ex.ID).
			WithStatus(string(previous), string(ex.Status))}
	}

	out := []events.Event{
		events.New(events.ExchangeApproved, events.EntityExchange, ex.ID).
			WithStatus(string(previous), string(ex.Status)).
			With("booking_id", result.Booking.ID).
			With("reciprocal_booking_id", result.ReciprocalBooking.ID),
		events.New(events.BookingStatusChanged, events.EntityBooking, result.Booking.ID).
			WithStatus(string(model.BookingConfirmed), string(result.Booking.Status)).
			With("object_id", result.Booking.ObjectID).
			With("exchange_id", ex.ID),
		events.New(events.BookingCreated, events.EntityBooking, result.ReciprocalBooking.ID).
			WithStatus("", string(result.ReciprocalBooking.Status)).
			WithActor(result.ReciprocalBooking.UserID).
			With("object_id", result.ReciprocalBooking.ObjectID).
			With("exchange_id", ex.ID),
	}
	return out
}

// counterpart prefers the recorded target owner over the object's owner.
func counterpart(exchange *model.Exchange, target *model.Object) *int64 {
	if exchange.TargetOwnerID != nil {
		return exchange.TargetOwnerID
	}
	return target.OwnerID
}

func (s *exchangeService) notFoundOr(err error, resource string, id int64, msg string) error {
	switch {
	case errors.Is(err, exchangeserrors.ErrNotFound),
		errors.Is(err, bookingserrors.ErrNotFound),
		errors.Is(err, directoryerrors.ErrObjectNotFound),
		errors.Is(err, directoryerrors.ErrUserNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case apperrors.IsAppError(err):
		return err
	}
	return apperrors.Internal(msg, err)
}
