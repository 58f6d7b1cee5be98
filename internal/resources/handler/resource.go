package handler

import (
	"net/http"
	"strconv"

	"slotbook/internal/resources/service"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
	"slotbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type ResourceHandler struct {
	service service.ResourceService
	log     *logger.Logger
}

func NewResourceHandler(service service.ResourceService, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{
		service: service,
		log:     log,
	}
}

func (h *ResourceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	resource, err := h.service.GetByID(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, resource); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	activeOnly := true
	if s := r.URL.Query().Get("active_only"); s != "" {
		if parsed, parseErr := strconv.ParseBool(s); parseErr == nil {
			activeOnly = parsed
		}
	}

	resources, total, err := h.service.List(r.Context(), principal, activeOnly, limit, offset)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, resources, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *ResourceHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *ResourceHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/resources", h.List)
	router.GET("/api/v1/resources/id/:id", h.GetByID)
}
