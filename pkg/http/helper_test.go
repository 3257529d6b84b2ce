package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "swapstay/pkg/errors"

	"github.com/julienschmidt/httprouter"
)

type createRequest struct {
	Title string `json:"title"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr string
	}{
		{"valid", `{"title":"Lake cabin"}`, 0, ""},
		{"empty body", ``, 0, "request body is required"},
		{"unknown field", `{"title":"x","price":10}`, 0, "unknown field"},
		{"malformed", `{"title":`, 0, "invalid request body"},
		{"two objects", `{"title":"a"}{"title":"b"}`, 0, "single JSON object"},
		{"too large", `{"title":"` + strings.Repeat("x", 64) + `"}`, 16, "exceeds 16 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/objects", strings.NewReader(tt.body))
			if tt.limit > 0 {
				req.Body = http.MaxBytesReader(httptest.NewRecorder(), req.Body, tt.limit)
			}

			var dst createRequest
			err := DecodeJSON(req, &dst)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("DecodeJSON() error = %v", err)
				}
				if dst.Title != "Lake cabin" {
					t.Errorf("title = %q", dst.Title)
				}
				return
			}
			if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
				t.Fatalf("error = %v, want INVALID_INPUT", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestParseIDParam(t *testing.T) {
	tests := []struct {
		raw    string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{"0", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		ps := httprouter.Params{{Key: "id", Value: tt.raw}}
		got, err := ParseIDParam(ps, "id")
		if (err == nil) != tt.wantOK || got != tt.want {
			t.Errorf("ParseIDParam(%q) = %d, %v", tt.raw, got, err)
		}
	}
}

func TestOptionalInt64Query(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/exchanges?user_id=7&bad=x", nil)

	v, err := OptionalInt64Query(req, "user_id")
	if err != nil || v == nil || *v != 7 {
		t.Errorf("user_id = %v, %v", v, err)
	}
	if v, err := OptionalInt64Query(req, "missing"); v != nil || err != nil {
		t.Errorf("missing = %v, %v", v, err)
	}
	if _, err := OptionalInt64Query(req, "bad"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("bad error = %v", err)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantError  string
	}{
		{"not found", apperrors.NotFoundWithID("Booking", int64(9)), http.StatusNotFound, apperrors.CodeNotFound, ""},
		{"conflict", apperrors.DateRangeConflict("Object is already booked for those dates"), http.StatusConflict, apperrors.CodeDateRangeConflict, "Object is already booked for those dates"},
		{"internal hides cause", apperrors.Internal("insert booking", errors.New("pq: secret detail")), http.StatusInternalServerError, apperrors.CodeInternal, "Internal server error"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error = %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("content type = %q", ct)
			}

			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
			if tt.wantError != "" && body.Error != tt.wantError {
				t.Errorf("error = %q, want %q", body.Error, tt.wantError)
			}
			if strings.Contains(rec.Body.String(), "secret") {
				t.Errorf("internal detail leaked: %s", rec.Body.String())
			}
		})
	}
}
