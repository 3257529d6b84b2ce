package validator

import (
	"swapstay/pkg/model"
	"swapstay/pkg/validation"
)

type ObjectValidator struct {
	v *validation.Validator
}

func NewObjectValidator() *ObjectValidator {
	return &ObjectValidator{v: validation.New()}
}

func (v *ObjectValidator) ValidateCreate(req *model.CreateObjectRequest) error {
	if err := v.v.Struct(req); err != nil {
		return validation.ToAppError(err, "Invalid object input")
	}
	return nil
}
