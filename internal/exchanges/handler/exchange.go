package handler

import (
	"net/http"

	"swapstay/internal/exchanges/service"
	httputil "swapstay/pkg/http"
	"swapstay/pkg/logger"
	"swapstay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ExchangeHandler struct {
	service service.ExchangeService
	log     *logger.Logger
}

func NewExchangeHandler(service service.ExchangeService, log *logger.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		service: service,
		log:     log,
	}
}

func (h *ExchangeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateExchangeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	exchange, err := h.service.CreateRequest(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, exchange); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ExchangeHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := httputil.OptionalInt64Query(r, "user_id")
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	exchanges, err := h.service.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, exchanges); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExchangeHandler) ListIncoming(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID, err := httputil.OptionalInt64Query(r, "user_id")
	if err != nil {
		h.writeError(w, "ListIncoming", err)
		return
	}

	exchanges, err := h.service.ListIncoming(r.Context(), userID)
	if err != nil {
		h.writeError(w, "ListIncoming", err)
		return
	}

	if err := httputil.WriteSuccess(w, exchanges); err != nil {
		h.log.Error("failed to write success response", "handler", "ListIncoming", "operation", "WriteSuccess", "error", err)
	}
}

// Decide answers with the exchange row for reject and share_contacts, and with
// the exchange plus both bookings for approve.
func (h *ExchangeHandler) Decide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseIDParam(ps, "id")
	if err != nil {
		h.writeError(w, "Decide", err)
		return
	}

	var req model.DecideExchangeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Decide", err)
		return
	}

	result, err := h.service.Decide(r.Context(), id, &req)
	if err != nil {
		h.writeError(w, "Decide", err)
		return
	}

	var body any = result
	if result.Booking == nil {
		body = result.Exchange
	}
	if err := httputil.WriteSuccess(w, body); err != nil {
		h.log.Error("failed to write success response", "handler", "Decide", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ExchangeHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ExchangeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/exchanges", h.Create)
	router.GET("/api/exchanges", h.List)
	router.GET("/api/exchanges/incoming", h.ListIncoming)
	router.PATCH("/api/exchanges/:id", h.Decide)
}
