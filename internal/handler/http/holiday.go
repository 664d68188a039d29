package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/holiday"
	"github.com/cmlabs-hris/checkin-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type HolidayHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	Lookup(w http.ResponseWriter, r *http.Request)

	// Admin
	ListSpecial(w http.ResponseWriter, r *http.Request)
	CreateSpecial(w http.ResponseWriter, r *http.Request)
	DeleteSpecial(w http.ResponseWriter, r *http.Request)
}

type holidayHandlerImpl struct {
	holidayService holiday.HolidayService
	loc            *time.Location
	now            func() time.Time
}

// NewHolidayHandler resolves "today" in loc, the school's timezone.
func NewHolidayHandler(holidayService holiday.HolidayService, loc *time.Location) HolidayHandler {
	return &holidayHandlerImpl{
		holidayService: holidayService,
		loc:            loc,
		now:            time.Now,
	}
}

// Today handles GET /holidays/today
func (h *holidayHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	h.lookup(w, r, h.now().In(h.loc).Format(holiday.DateLayout))
}

// Lookup handles GET /holidays?date=YYYY-MM-DD
func (h *holidayHandlerImpl) Lookup(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "date parameter is required", nil)
		return
	}
	h.lookup(w, r, date)
}

func (h *holidayHandlerImpl) lookup(w http.ResponseWriter, r *http.Request, date string) {
	result, err := h.holidayService.Lookup(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListSpecial handles GET /admin/holidays
func (h *holidayHandlerImpl) ListSpecial(w http.ResponseWriter, r *http.Request) {
	result, err := h.holidayService.ListSpecial(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result, &response.Meta{TotalItems: len(result)})
}

// CreateSpecial handles POST /admin/holidays
func (h *holidayHandlerImpl) CreateSpecial(w http.ResponseWriter, r *http.Request) {
	var req holiday.CreateSpecialHolidayRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateSpecialHoliday decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.holidayService.AddSpecial(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Special holiday added", result)
}

// DeleteSpecial handles DELETE /admin/holidays/{id}
func (h *holidayHandlerImpl) DeleteSpecial(w http.ResponseWriter, r *http.Request) {
	if err := h.holidayService.RemoveSpecial(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Special holiday removed", nil)
}
