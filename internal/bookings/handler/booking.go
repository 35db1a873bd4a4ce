package handler

import (
	"net/http"

	"clinic/internal/bookings/service"
	"clinic/internal/bookings/slots"
	"clinic/pkg/auth"
	apperrors "clinic/pkg/errors"
	httputil "clinic/pkg/http"
	"clinic/pkg/logger"
	"clinic/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service service.BookingService
	guard   *auth.Guard
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, guard *auth.Guard, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		guard:   guard,
		log:     log,
	}
}

type catalogResponse struct {
	Slots              []string `json:"slots"`
	GranularityMinutes int      `json:"granularity_minutes"`
}

type availabilityResponse struct {
	ProviderID string   `json:"provider_id"`
	Date       string   `json:"date"`
	Slots      []string `json:"slots"`
}

func (h *BookingHandler) Slots(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	catalog := h.service.Catalog()
	h.writeSuccess(w, "Slots", catalogResponse{
		Slots:              catalog.Strings(),
		GranularityMinutes: int(catalog.Granularity().Minutes()),
	})
}

func (h *BookingHandler) Available(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	providerID := query.Get("provider_id")
	date := query.Get("date")

	free, err := h.service.AvailableSlots(r.Context(), providerID, date)
	if err != nil {
		h.writeError(w, "Available", err)
		return
	}

	h.writeSuccess(w, "Available", availabilityResponse{ProviderID: providerID, Date: date, Slots: slots.Format(free)})
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var candidate model.BookingCandidate
	if err := httputil.DecodeJSON(r, &candidate); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	var requesterID string
	if claims, ok := auth.ClaimsFrom(r.Context()); ok {
		requesterID = claims.Sub
	}

	booking, err := h.service.Create(r.Context(), &candidate, requesterID)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	query := r.URL.Query()
	filter := &model.BookingFilter{
		ProviderID:  query.Get("provider_id"),
		Date:        query.Get("date"),
		Status:      model.BookingStatus(query.Get("status")),
		RequesterID: query.Get("requester_id"),
		Limit:       limit,
		Offset:      offset,
	}
	if claims, ok := auth.ClaimsFrom(r.Context()); ok && !claims.IsAdmin() {
		filter.RequesterID = claims.Sub
	}

	bookings, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, filter.Limit, filter.Offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.readOwned(r, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", booking)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Complete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Complete", err)
		return
	}
	h.writeSuccess(w, "Complete", booking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, err := h.readOwned(r, id); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}

	booking, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	h.writeSuccess(w, "Cancel", booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Remove(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

// readOwned loads a booking and hides it from callers who neither own it nor
// are admins.
func (h *BookingHandler) readOwned(r *http.Request, id string) (*model.Booking, error) {
	booking, err := h.service.Read(r.Context(), id)
	if err != nil {
		return nil, err
	}
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if !claims.CanAccess(booking.RequesterID) {
		return nil, apperrors.Forbidden("Booking belongs to another user")
	}
	return booking, nil
}

func (h *BookingHandler) writeSuccess(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/slots", h.Slots)
	router.GET("/api/v1/bookings/available", h.Available)
	router.POST("/api/v1/bookings", h.guard.Require(h.Create))
	router.GET("/api/v1/bookings", h.guard.Require(h.List))
	router.GET("/api/v1/bookings/id/:id", h.guard.Require(h.GetByID))
	router.POST("/api/v1/bookings/id/:id/complete", h.guard.RequireAdmin(h.Complete))
	router.POST("/api/v1/bookings/id/:id/cancel", h.guard.Require(h.Cancel))
	router.DELETE("/api/v1/bookings/id/:id", h.guard.RequireAdmin(h.Delete))
}

