package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/checkin-backend-go/internal/domain/checkin"
	"github.com/cmlabs-hris/checkin-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/checkin-backend-go/internal/pkg/capture"
	"github.com/go-chi/chi/v5"
)

// maxCheckinForm bounds the multipart body: the photo plus the JSON part.
const maxCheckinForm = 12 << 20

type CheckinHandler interface {
	Preflight(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)

	// Admin
	List(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Sync(w http.ResponseWriter, r *http.Request)
}

type checkinHandlerImpl struct {
	checkinService checkin.CheckinService
}

func NewCheckinHandler(checkinService checkin.CheckinService) CheckinHandler {
	return &checkinHandlerImpl{
		checkinService: checkinService,
	}
}

// Preflight handles POST /checkins/preflight
func (h *checkinHandlerImpl) Preflight(w http.ResponseWriter, r *http.Request) {
	var req checkin.PreflightRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Preflight decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.checkinService.Preflight(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CheckIn handles POST /checkins (multipart: data + photo)
func (h *checkinHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkin.CheckInRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxCheckinForm)
	if err := r.ParseMultipartForm(maxCheckinForm); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	// Get JSON data from 'data' field
	dataJSON := r.FormValue("data")
	if dataJSON == "" {
		response.BadRequest(w, "Field 'data' is required", nil)
		return
	}

	if err := json.Unmarshal([]byte(dataJSON), &req.PreflightRequest); err != nil {
		slog.Error("Failed to unmarshal JSON data", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// A missing photo reaches the service as a nil device and fails the capture stage.
	file, fileHeader, err := r.FormFile("photo")
	switch {
	case err == nil:
		defer file.Close()
		req.Device = capture.NewUploadDevice(file, fileHeader)
	case errors.Is(err, http.ErrMissingFile):
	default:
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}

	result, err := h.checkinService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// List handles GET /admin/checkins
func (h *checkinHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter checkin.ListFilter
	query := r.URL.Query()

	if date := query.Get("date"); date != "" {
		filter.Date = &date
	}
	if staffID := query.Get("staff_id"); staffID != "" {
		filter.StaffID = &staffID
	}
	if kind := query.Get("type"); kind != "" {
		filter.Type = &kind
	}

	if monthStr := query.Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil {
			response.BadRequest(w, "invalid month parameter", nil)
			return
		}
		filter.Month = month
	}
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			response.BadRequest(w, "invalid year parameter", nil)
			return
		}
		filter.Year = year
	}

	result, err := h.checkinService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Records, &response.Meta{TotalItems: result.TotalCount})
}

// Delete handles DELETE /admin/checkins/{id}
func (h *checkinHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.checkinService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-in record deleted", nil)
}

// Sync handles POST /admin/sync
func (h *checkinHandlerImpl) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.checkinService.Sync(r.Context())
	if err != nil {
		slog.Error("Sync service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
