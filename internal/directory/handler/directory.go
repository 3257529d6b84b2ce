package handler

import (
	"net/http"

	"swapstay/internal/directory/service"
	httputil "swapstay/pkg/http"
	"swapstay/pkg/logger"
	"swapstay/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type DirectoryHandler struct {
	service service.DirectoryService
	log     *logger.Logger
}

func NewDirectoryHandler(service service.DirectoryService, log *logger.Logger) *DirectoryHandler {
	return &DirectoryHandler{
		service: service,
		log:     log,
	}
}

func (h *DirectoryHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}

	if err := httputil.WriteSuccess(w, users); err != nil {
		h.log.Error("failed to write success response", "handler", "ListUsers", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DirectoryHandler) ListUserObjects(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID, err := httputil.ParseIDParam(ps, "id")
	if err != nil {
		h.writeError(w, "ListUserObjects", err)
		return
	}

	objects, err := h.service.ListObjects(r.Context(), &userID)
	if err != nil {
		h.writeError(w, "ListUserObjects", err)
		return
	}

	if err := httputil.WriteSuccess(w, objects); err != nil {
		h.log.Error("failed to write success response", "handler", "ListUserObjects", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DirectoryHandler) ListObjects(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ownerID, err := httputil.OptionalInt64Query(r, "owner_id")
	if err != nil {
		h.writeError(w, "ListObjects", err)
		return
	}

	objects, err := h.service.ListObjects(r.Context(), ownerID)
	if err != nil {
		h.writeError(w, "ListObjects", err)
		return
	}

	if err := httputil.WriteSuccess(w, objects); err != nil {
		h.log.Error("failed to write success response", "handler", "ListObjects", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DirectoryHandler) GetObject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, err := httputil.ParseIDParam(ps, "id")
	if err != nil {
		h.writeError(w, "GetObject", err)
		return
	}

	object, err := h.service.GetObject(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetObject", err)
		return
	}

	if err := httputil.WriteSuccess(w, object); err != nil {
		h.log.Error("failed to write success response", "handler", "GetObject", "operation", "WriteSuccess", "error", err)
	}
}

func (h *DirectoryHandler) CreateObject(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateObjectRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CreateObject", err)
		return
	}

	object, err := h.service.CreateObject(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CreateObject", err)
		return
	}

	if err := httputil.WriteCreated(w, object); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateObject", "operation", "WriteCreated", "error", err)
	}
}

func (h *DirectoryHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *DirectoryHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/users", h.ListUsers)
	router.GET("/api/users/:id/objects", h.ListUserObjects)
	router.GET("/api/objects", h.ListObjects)
	router.GET("/api/objects/:id", h.GetObject)
	router.POST("/api/objects", h.CreateObject)
}
