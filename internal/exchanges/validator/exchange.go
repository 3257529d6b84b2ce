package validator

import (
	apperrors "swapstay/pkg/errors"
	"swapstay/pkg/model"
	"swapstay/pkg/validation"
)

type ExchangeValidator struct {
	v *validation.Validator
}

func NewExchangeValidator() *ExchangeValidator {
	return &ExchangeValidator{v: validation.New()}
}

// ValidateCreate checks request shape only. Rules that need the base booking
// run in the service.
func (v *ExchangeValidator) ValidateCreate(req *model.CreateExchangeRequest) error {
	var missing []string
	if req.UserID == nil {
		missing = append(missing, "userId")
	}
	if req.BaseBookingID == nil {
		missing = append(missing, "baseBookingId")
	}
	if req.TargetObjectID == nil {
		missing = append(missing, "targetObjectId")
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
		return validation.ToAppError(err, "Invalid exchange input")
	}

	if req.EndDate.Before(req.StartDate) {
		return apperrors.InvalidInput("endDate must not be before startDate")
	}
	return nil
}

func (v *ExchangeValidator) ValidateAction(req *model.DecideExchangeRequest) (model.ExchangeAction, error) {
	if req.Action == nil {
		return "", apperrors.MissingField("action")
	}
	action, ok := model.ParseExchangeAction(*req.Action)
	if !ok {
		return "", apperrors.InvalidAction(*req.Action)
	}
	return action, nil
}
