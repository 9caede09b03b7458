package service

import (
	"github.com/ndewijer/Fund-Trading-Backend/internal/repository"
)

// CalendarService exposes the holiday calendar read surface.
type CalendarService struct {
	calendarRepo *repository.CalendarRepository
}

// NewCalendarService creates a new CalendarService with the provided repository dependency.
func NewCalendarService(calendarRepo *repository.CalendarRepository) *CalendarService {
	return &CalendarService{calendarRepo: calendarRepo}
}

// ListCalendarNames returns the distinct calendar names that have holidays loaded.
func (s *CalendarService) ListCalendarNames() ([]string, error) {
	return s.calendarRepo.ListCalendarNames()
}
