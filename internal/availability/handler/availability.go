package handler

import (
	"net/http"
	"strconv"

	"slotbook/internal/availability/service"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
	"slotbook/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	startDate, err := httputil.ExtractDate(r, "start_date")
	if err != nil {
		h.writeError(w, err)
		return
	}
	endDate, err := httputil.ExtractDate(r, "end_date")
	if err != nil {
		h.writeError(w, err)
		return
	}

	durationMin := 0
	if s := r.URL.Query().Get("duration_min"); s != "" {
		durationMin, err = strconv.Atoi(s)
		if err != nil {
			h.writeError(w, apperrors.InvalidInput("invalid duration_min parameter: "+s))
			return
		}
	}

	plan, err := h.service.Plan(r.Context(), principal, service.PlanRequest{
		ResourceID:  ps.ByName("id"),
		StartDate:   startDate,
		EndDate:     endDate,
		DurationMin: durationMin,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, plan); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Get", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/resources/id/:id/availability", h.Get)
}
