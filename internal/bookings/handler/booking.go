package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"slotbook/internal/bookings/service"
	apperrors "slotbook/pkg/errors"
	httputil "slotbook/pkg/http"
	"slotbook/pkg/logger"
	"slotbook/pkg/middleware"
	"slotbook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), principal, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	booking, err := h.service.GetByID(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	bookings, total, err := h.service.List(r.Context(), principal, filter)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, filter.Limit, filter.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "error", err)
	}
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	var updates model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Update", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Update(r.Context(), principal, ps.ByName("id"), &updates)
	if err != nil {
		h.writeError(w, "Update", err)
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "Update", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	if err := h.service.Cancel(r.Context(), principal, ps.ByName("id")); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) History(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	records, err := h.service.History(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "History", err)
		return
	}

	if err := httputil.WriteSuccess(w, records); err != nil {
		h.log.Error("failed to write success response", "handler", "History", "error", err)
	}
}

// CheckConflict is the read-only probe: it reports whether a candidate range
// collides with existing bookings without reserving anything.
func (h *BookingHandler) CheckConflict(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "CheckConflict", err)
		return
	}

	query := r.URL.Query()
	resourceID := query.Get("resource_id")
	if resourceID == "" {
		h.writeError(w, "CheckConflict", apperrors.InvalidInput("'resource_id' query parameter is required"))
		return
	}

	start, err := httputil.ExtractTime(r, "start_time")
	if err != nil {
		h.writeError(w, "CheckConflict", err)
		return
	}
	end, err := httputil.ExtractTime(r, "end_time")
	if err != nil {
		h.writeError(w, "CheckConflict", err)
		return
	}
	if start == nil || end == nil {
		h.writeError(w, "CheckConflict", apperrors.InvalidInput("'start_time' and 'end_time' query parameters are required"))
		return
	}

	interval, err := model.NewInterval(*start, *end)
	if err != nil {
		h.writeError(w, "CheckConflict", apperrors.InvalidInput("start_time must be before end_time"))
		return
	}

	conflict, err := h.service.HasConflict(r.Context(), principal, resourceID, interval, query.Get("exclude_id"))
	if err != nil {
		h.writeError(w, "CheckConflict", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"resource_id": resourceID,
		"start_time":  start.Format(time.RFC3339),
		"end_time":    end.Format(time.RFC3339),
		"conflict":    conflict,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "CheckConflict", "error", err)
	}
}

// CalendarView serves the month calendar: non-cancelled bookings of the
// window plus the tenant's active resources.
func (h *BookingHandler) CalendarView(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, err := middleware.PrincipalFrom(r.Context())
	if err != nil {
		h.writeError(w, "CalendarView", err)
		return
	}

	query := r.URL.Query()
	calendar, err := h.service.Calendar(r.Context(), principal, service.CalendarRequest{
		Month:      query.Get("month"),
		View:       query.Get("view"),
		ResourceID: query.Get("resource_id"),
	})
	if err != nil {
		h.writeError(w, "CalendarView", err)
		return
	}

	if err := httputil.WriteSuccess(w, calendar); err != nil {
		h.log.Error("failed to write success response", "handler", "CalendarView", "error", err)
	}
}

func (h *BookingHandler) parseFilter(r *http.Request) (*model.BookingFilter, error) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		return nil, err
	}

	from, err := httputil.ExtractTime(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := httputil.ExtractTime(r, "to")
	if err != nil {
		return nil, err
	}

	query := r.URL.Query()
	filter := &model.BookingFilter{
		ResourceID: query.Get("resource_id"),
		UserID:     query.Get("user_id"),
		Status:     model.BookingStatus(query.Get("status")),
		From:       from,
		To:         to,
		Limit:      limit,
		Offset:     offset,
	}

	return filter, nil
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handlerName string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handlerName, "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/conflicts", h.CheckConflict)
	router.GET("/api/v1/bookings/calendar", h.CalendarView)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/id/:id", h.Update)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
	router.GET("/api/v1/bookings/id/:id/history", h.History)
}
