package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// CalendarRepository provides data access methods for the calendar_date
// table, which stores the non-business dates of each named calendar.
type CalendarRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewCalendarRepository creates a new CalendarRepository with the provided database connection.
func NewCalendarRepository(db *sql.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// WithTx returns a copy of the repository that executes inside the given transaction.
func (r *CalendarRepository) WithTx(tx *sql.Tx) *CalendarRepository {
	return &CalendarRepository{db: r.db, tx: tx}
}

func (r *CalendarRepository) querier() interface {
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetAllCalendars retrieves every calendar's non-business dates, keyed by
// calendar name. This is the snapshot handed to the engine's resolver.
func (r *CalendarRepository) GetAllCalendars() (map[string][]time.Time, error) {
	rows, err := r.querier().Query(`
		SELECT calendar, date
		FROM calendar_date
		ORDER BY calendar ASC, date ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar_date table: %w", err)
	}
	defer rows.Close()

	calendars := make(map[string][]time.Time)

	for rows.Next() {
		var (
			name    string
			dateStr string
		)
		if err := rows.Scan(&name, &dateStr); err != nil {
			return nil, fmt.Errorf("failed to scan calendar_date table results: %w", err)
		}

		date, err := ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		calendars[name] = append(calendars[name], date)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calendar_date table: %w", err)
	}

	return calendars, nil
}

// ListCalendarNames returns the distinct calendar names with registered dates.
func (r *CalendarRepository) ListCalendarNames() ([]string, error) {
	rows, err := r.querier().Query(`SELECT DISTINCT calendar FROM calendar_date ORDER BY calendar ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar_date table: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan calendar names: %w", err)
		}
		names = append(names, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating calendar names: %w", err)
	}

	return names, nil
}

// InsertDate registers one non-business date under a named calendar.
// Duplicate (calendar, date) pairs are ignored so holiday files can be
// re-uploaded safely.
func (r *CalendarRepository) InsertDate(cd model.CalendarDate) error {
	_, err := r.querier().Exec(`
		INSERT INTO calendar_date (id, calendar, date)
		VALUES (?, ?, ?)
		ON CONFLICT(calendar, date) DO NOTHING
	`,
		uuid.New().String(),
		cd.Calendar,
		FormatDate(cd.Date),
	)
	if err != nil {
		return fmt.Errorf("failed to insert calendar date: %w", err)
	}
	return nil
}
