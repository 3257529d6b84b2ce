package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"swapstay/internal/history"
	"swapstay/internal/history/service"
	"swapstay/pkg/config"
	"swapstay/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type findRecorder struct {
	mockHistoryRepository
	entityType string
	entityID   int64
	limit      int64
	err        error
}

func (f *findRecorder) FindByEntity(ctx context.Context, entityType string, entityID int64, limit int64) ([]*history.StatusChange, error) {
	f.entityType, f.entityID, f.limit = entityType, entityID, limit
	if f.err != nil {
		return nil, f.err
	}
	return []*history.StatusChange{{EventID: "e1", EntityType: entityType, EntityID: entityID, Status: "confirmed"}}, nil
}

func historyRouter(repo *findRecorder) *httprouter.Router {
	cfg := &config.Config{Log: logger.Nop()}
	router := httprouter.New()
	NewHistoryHandler(service.NewHistoryService(repo, cfg), cfg.Log).RegisterRoutes(router)
	return router
}

func TestHistoryList(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		err       error
		wantCode  int
		wantLimit int64
	}{
		{"default limit", "/api/history/booking/4", nil, http.StatusOK, service.DefaultLimit},
		{"explicit limit", "/api/history/exchange/4?limit=20", nil, http.StatusOK, 20},
		{"limit capped", "/api/history/object/4?limit=100000", nil, http.StatusOK, service.MaxLimit},
		{"garbage limit", "/api/history/booking/4?limit=lots", nil, http.StatusOK, service.DefaultLimit},
		{"unknown entity", "/api/history/user/4", nil, http.StatusBadRequest, 0},
		{"bad id", "/api/history/booking/x", nil, http.StatusBadRequest, 0},
		{"store failure", "/api/history/booking/4", errors.New("server selection error"), http.StatusInternalServerError, service.DefaultLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &findRecorder{err: tt.err}
			w := httptest.NewRecorder()
			historyRouter(repo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			if w.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantCode, w.Body.String())
			}
			if repo.limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", repo.limit, tt.wantLimit)
			}
			if w.Code != http.StatusOK {
				return
			}

			var changes []history.StatusChange
			if err := json.Unmarshal(w.Body.Bytes(), &changes); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(changes) != 1 || changes[0].EntityID != 4 || changes[0].EntityType != repo.entityType {
				t.Errorf("changes = %+v", changes)
			}
		})
	}
}
