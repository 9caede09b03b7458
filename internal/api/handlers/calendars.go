package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Trading-Backend/internal/service"
)

// CalendarHandler handles holiday calendar HTTP requests.
type CalendarHandler struct {
	calendarService *service.CalendarService
	importService   *service.ImportService
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(calendarService *service.CalendarService, importService *service.ImportService) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		importService:   importService,
	}
}

// Calendars handles GET requests listing the loaded calendar names.
//
// Endpoint: GET /api/calendars
func (h *CalendarHandler) Calendars(w http.ResponseWriter, r *http.Request) {
	names, err := h.calendarService.ListCalendarNames()
	if err != nil {
		respondServiceError(w, "failed to retrieve calendars", err)
		return
	}

	respondJSON(w, http.StatusOK, names)
}

// ImportCalendars handles POST requests with a holiday CSV in the request
// body.
//
// Endpoint: POST /api/calendars/import
func (h *CalendarHandler) ImportCalendars(w http.ResponseWriter, r *http.Request) {
	count, err := h.importService.ImportCalendars(r.Body)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "calendar import failed",
			"detail": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, ImportResponse{Imported: count})
}
