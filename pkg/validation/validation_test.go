package validation

import (
	"errors"
	"testing"

	apperrors "swapstay/pkg/errors"
)

type contact struct {
	Phone string `json:"phone" validate:"omitempty,e164"`
	Email string `json:"email" validate:"omitempty,email"`
}

type sample struct {
	ID      *int64   `json:"id" validate:"required,gt=0"`
	Title   string   `json:"title" validate:"required,max=5"`
	Rooms   *int     `json:"rooms" validate:"omitempty,lte=10"`
	Images  []string `json:"images" validate:"omitempty,dive,url"`
	Contact *contact `json:"contact"`
	Hidden  string   `json:"-" validate:"omitempty,max=1"`
}

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func TestStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		input      sample
		wantFields []string
	}{
		{
			name:  "valid",
			input: sample{ID: int64Ptr(1), Title: "cabin"},
		},
		{
			name:       "missing required",
			input:      sample{},
			wantFields: []string{"id", "title"},
		},
		{
			name:       "bounds",
			input:      sample{ID: int64Ptr(0), Title: "too long", Rooms: intPtr(11)},
			wantFields: []string{"id", "title", "rooms"},
		},
		{
			name:       "nested and dive",
			input:      sample{ID: int64Ptr(2), Title: "hut", Images: []string{"https://x.test/a.jpg", "nope"}, Contact: &contact{Phone: "0501234567", Email: "bad"}},
			wantFields: []string{"images[1]", "contact.phone", "contact.email"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var errs ValidationErrors
			if !errors.As(err, &errs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("got %d errors (%v), want %d", len(errs), errs, len(tt.wantFields))
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("error %d field = %q, want %q", i, errs[i].Field, field)
				}
				if errs[i].Message == "" {
					t.Errorf("error %d has no message", i)
				}
			}
		})
	}
}

func TestVar(t *testing.T) {
	v := New()

	if err := v.Var("email", "guest@example.com", "email"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := v.Var("email", "not-an-email", "email")
	var errs ValidationErrors
	if !errors.As(err, &errs) || len(errs) != 1 {
		t.Fatalf("expected one validation error, got %v", err)
	}
	if errs[0].Field != "email" || errs[0].Message != "email must be a valid email address" {
		t.Errorf("got %+v", errs[0])
	}
}

func TestToAppError(t *testing.T) {
	if err := ToAppError(nil, "x"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	missing := ValidationErrors{
		{Field: "title", Tag: "required", Message: "title is required"},
		{Field: "rooms", Tag: "lte", Message: "rooms must be at most 10"},
	}
	err := ToAppError(missing, "Invalid object input")
	if !apperrors.HasCode(err, apperrors.CodeMissingField) {
		t.Errorf("expected MISSING_FIELD, got %v", err)
	}

	invalid := ValidationErrors{{Field: "rooms", Tag: "lte", Message: "rooms must be at most 10"}}
	err = ToAppError(invalid, "Invalid object input")
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Message != "Invalid object input" {
		t.Errorf("message = %q", appErr.Message)
	}
	if _, ok := appErr.Details["errors"]; !ok {
		t.Error("expected field errors in details")
	}

	err = ToAppError(errors.New("boom"), "x")
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}
