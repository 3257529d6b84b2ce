package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "swapstay/pkg/errors"
	"swapstay/pkg/logger"
	"swapstay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockBookingService struct {
	createFunc    func(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error)
	listFunc      func(ctx context.Context) ([]*model.BookingView, error)
	deleteFunc    func(ctx context.Context, id int64) (*model.DeleteResult, error)
	setStatusFunc func(ctx context.Context, id int64, req *model.UpdateBookingStatusRequest) (*model.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return &model.Booking{}, nil
}

func (m *mockBookingService) List(ctx context.Context) ([]*model.BookingView, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return []*model.BookingView{}, nil
}

func (m *mockBookingService) Delete(ctx context.Context, id int64) (*model.DeleteResult, error) {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return &model.DeleteResult{OK: true, ID: id}, nil
}

func (m *mockBookingService) SetStatus(ctx context.Context, id int64, req *model.UpdateBookingStatusRequest) (*model.Booking, error) {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, req)
	}
	return &model.Booking{ID: id}, nil
}

func newRouter(svc *mockBookingService) *httprouter.Router {
	router := httprouter.New()
	NewBookingHandler(svc, logger.Nop()).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreate(t *testing.T) {
	var got *model.CreateBookingRequest
	svc := &mockBookingService{
		createFunc: func(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
			got = req
			return &model.Booking{ID: 9, Status: model.BookingPending, StartDate: req.StartDate, EndDate: req.EndDate}, nil
		},
	}

	w := serve(newRouter(svc), http.MethodPost, "/api/bookings",
		`{"objectId":1,"userId":2,"startDate":"2025-07-01","endDate":"2025-07-05","guests":2,"note":"hi"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if *got.ObjectID != 1 || *got.UserID != 2 || *got.Guests != 2 || *got.Note != "hi" {
		t.Errorf("service received %+v", got)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["start_date"] != "2025-07-01" || body["status"] != "pending" {
		t.Errorf("response = %s", w.Body.String())
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
	}{
		{"empty body", ``, nil, http.StatusBadRequest},
		{"two objects", `{} {}`, nil, http.StatusBadRequest},
		{"missing fields", `{}`, apperrors.MissingField("objectId"), http.StatusBadRequest},
		{"conflict", `{}`, apperrors.DateRangeConflict("overlap"), http.StatusConflict},
		{"unknown object", `{}`, apperrors.NotFoundWithID("Object", 1), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockBookingService{
				createFunc: func(ctx context.Context, req *model.CreateBookingRequest) (*model.Booking, error) {
					return nil, tt.err
				},
			}
			w := serve(newRouter(svc), http.MethodPost, "/api/bookings", tt.body)
			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
		})
	}
}

func TestList(t *testing.T) {
	name := "Gil Guest"
	svc := &mockBookingService{
		listFunc: func(ctx context.Context) ([]*model.BookingView, error) {
			return []*model.BookingView{{Booking: model.Booking{ID: 1}, UserName: &name}}, nil
		},
	}

	w := serve(newRouter(svc), http.MethodGet, "/api/bookings", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var views []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 || views[0]["user_name"] != name || views[0]["id"] != float64(1) {
		t.Errorf("response = %s", w.Body.String())
	}
}

func TestDelete(t *testing.T) {
	svc := &mockBookingService{
		deleteFunc: func(ctx context.Context, id int64) (*model.DeleteResult, error) {
			if id == 404 {
				return nil, apperrors.NotFoundWithID("Booking", id)
			}
			return &model.DeleteResult{OK: true, ID: id}, nil
		},
	}
	router := newRouter(svc)

	w := serve(router, http.MethodDelete, "/api/bookings/12", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != `{"ok":true,"id":12}` {
		t.Errorf("status = %d body = %s", w.Code, w.Body.String())
	}

	w = serve(router, http.MethodDelete, "/api/bookings/404", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}

	w = serve(router, http.MethodDelete, "/api/bookings/-1", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := &mockBookingService{
		setStatusFunc: func(ctx context.Context, id int64, req *model.UpdateBookingStatusRequest) (*model.Booking, error) {
			if req.Status == nil {
				return nil, apperrors.MissingField("status")
			}
			if *req.Status == "archived" {
				return nil, apperrors.InvalidStatus(*req.Status)
			}
			return &model.Booking{ID: id, Status: model.BookingStatus(*req.Status)}, nil
		},
	}
	router := newRouter(svc)

	tests := []struct {
		body     string
		wantCode int
	}{
		{`{"status":"confirmed"}`, http.StatusOK},
		{`{"status":"archived"}`, http.StatusBadRequest},
		{`{}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := serve(router, http.MethodPatch, "/api/bookings/5", tt.body)
		if w.Code != tt.wantCode {
			t.Errorf("%s: status = %d, want %d", tt.body, w.Code, tt.wantCode)
		}
	}
}
