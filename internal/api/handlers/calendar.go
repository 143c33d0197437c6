package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gorilla/mux"

	"github.com/event-report-manager/backend/internal/api/middleware"
	"github.com/event-report-manager/backend/internal/storage"
	"github.com/event-report-manager/backend/internal/storage/models"
)

// CalendarDateResponse is one dates row joined with its owning event.
type CalendarDateResponse struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	EventName string    `json:"event_name"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
}

func queryCalendarDates(r *http.Request, db *storage.DB, where string, args ...any) ([]CalendarDateResponse, error) {
	rows, err := db.QueryContext(r.Context(), `
		SELECT d.id, d.event_id, e.name, d.start, d.end
		FROM dates d
		JOIN events e ON e.id = d.event_id
		`+where+`
		ORDER BY d.start
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []CalendarDateResponse
	for rows.Next() {
		var d CalendarDateResponse
		if err := rows.Scan(&d.ID, &d.EventID, &d.EventName, &d.Start, &d.End); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

// ListCalendar returns every date entry with its owning event.
func ListCalendar(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates, err := queryCalendarDates(r, db, "")
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query calendar")
			return
		}

		if dates == nil {
			dates = []CalendarDateResponse{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dates)
	}
}

// ListCalendarByMonth returns the date entries starting in a given month.
func ListCalendarByMonth(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		month, year, ok := parseMonthYear(vars["month"], vars["year"])
		if !ok {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Month must be 1-12 and year a valid integer")
			return
		}

		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0)

		dates, err := queryCalendarDates(r, db, "WHERE d.start >= ? AND d.start < ?", from, to)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query calendar")
			return
		}

		if dates == nil {
			dates = []CalendarDateResponse{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(dates)
	}
}

// ListEventsByDay returns the events with a date window overlapping the
// given day (±1 day), deduplicated: an event with several matching windows
// appears exactly once.
func ListEventsByDay(dates *storage.DatesRepository, events *storage.EventRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := time.Parse("2006-01-02", mux.Vars(r)["date"])
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, middleware.ErrValidation, "Date must be YYYY-MM-DD")
			return
		}

		entries, err := dates.ListOverlappingDay(r.Context(), day)
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query dates")
			return
		}

		seen := make(map[string]bool)
		matched := []models.Event{}
		for _, d := range entries {
			if seen[d.EventID] {
				continue
			}
			seen[d.EventID] = true

			event, err := events.GetByID(r.Context(), d.EventID)
			if err != nil {
				middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query event")
				return
			}
			if event != nil {
				matched = append(matched, *event)
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(matched)
	}
}

// CalendarFeed serves every date entry as an iCalendar feed so the schedule
// can be subscribed to from external calendar clients.
func CalendarFeed(db *storage.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dates, err := queryCalendarDates(r, db, "")
		if err != nil {
			middleware.WriteError(w, http.StatusInternalServerError, middleware.ErrInternalError, "Failed to query calendar")
			return
		}

		cal := ics.NewCalendar()
		cal.SetMethod(ics.MethodPublish)
		cal.SetProductId("-//event-report-manager//calendar//EN")

		for _, d := range dates {
			ev := cal.AddEvent(d.ID)
			ev.SetSummary(d.EventName)
			ev.SetStartAt(d.Start)
			ev.SetEndAt(d.End)
			ev.SetDtStampTime(time.Now().UTC())
		}

		w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="events.ics"`)
		w.Write([]byte(cal.Serialize()))
	}
}

// parseMonthYear validates {month}/{year} path segments.
func parseMonthYear(monthStr, yearStr string) (time.Month, int, bool) {
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return 0, 0, false
	}
	return time.Month(month), year, true
}
