package validator

import (
	apperrors "swapstay/pkg/errors"
	"swapstay/pkg/model"
	"swapstay/pkg/validation"
)

const (
	DefaultGuests = 1
)

type BookingValidator struct {
	v *validation.Validator
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{v: validation.New()}
}

// ValidateCreate checks a create request before any store access. Missing
// required values are reported together as MISSING_FIELD.
func (v *BookingValidator) ValidateCreate(req *model.CreateBookingRequest) error {
	var missing []string
	if req.ObjectID == nil {
		missing = append(missing, "objectId")
	}
	if req.UserID == nil {
		missing = append(missing, "userId")
	}
	if req.StartDate.IsZero() {
		missing = append(missing, "startDate")
	}
	if req.EndDate.IsZero() {
		missing = append(missing, "endDate")
	}
	if len(missing) > 0 {
		return apperrors.MissingField(missing...)
	}

	if err := v.v.Struct(req); err != nil {
		return validation.ToAppError(err, "Invalid booking input")
	}

	if req.EndDate.Before(req.StartDate) {
		return apperrors.InvalidInput("endDate must not be before startDate")
	}
	return nil
}

// ValidateStatus parses the requested status. Values outside the closed set
// are INVALID_STATUS.
func (v *BookingValidator) ValidateStatus(req *model.UpdateBookingStatusRequest) (model.BookingStatus, error) {
	if req.Status == nil {
		return "", apperrors.MissingField("status")
	}
	status, ok := model.ParseBookingStatus(*req.Status)
	if !ok {
		return "", apperrors.InvalidStatus(*req.Status)
	}
	return status, nil
}
