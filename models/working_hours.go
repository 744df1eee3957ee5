package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const clockLayout = "15:04"

// DayHours is the opening window of a single weekday, e.g. {"open":"09:00","close":"20:00"}.
type DayHours struct {
	Open   string `json:"open"`
	Close  string `json:"close"`
	Closed bool   `json:"closed"`
}

// WorkingHours maps a lower-case weekday name ("monday") to its opening window.
type WorkingHours map[string]DayHours

func DefaultWorkingHours() WorkingHours {
	return WorkingHours{
		"monday":    {Open: "09:00", Close: "20:00"},
		"tuesday":   {Open: "09:00", Close: "20:00"},
		"wednesday": {Open: "09:00", Close: "20:00"},
		"thursday":  {Open: "09:00", Close: "20:00"},
		"friday":    {Open: "09:00", Close: "20:00"},
		"saturday":  {Open: "09:00", Close: "21:00"},
		"sunday":    {Open: "10:00", Close: "19:00", Closed: true},
	}
}

func (w WorkingHours) Value() (driver.Value, error) {
	if w == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(w)
}

func (w *WorkingHours) Scan(value interface{}) error {
	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
		*w = WorkingHours{}
		return nil
	default:
		return errors.New("type assertion to []byte failed")
	}
	return json.Unmarshal(b, w)
}

// Validate checks weekday names and that every open day has open < close.
func (w WorkingHours) Validate() error {
	for day, h := range w {
		if _, ok := weekdays[day]; !ok {
			return fmt.Errorf("unknown weekday %q", day)
		}
		if h.Closed {
			continue
		}
		open, err := time.Parse(clockLayout, h.Open)
		if err != nil {
			return fmt.Errorf("%s: invalid open time %q", day, h.Open)
		}
		closing, err := time.Parse(clockLayout, h.Close)
		if err != nil {
			return fmt.Errorf("%s: invalid close time %q", day, h.Close)
		}
		if !open.Before(closing) {
			return fmt.Errorf("%s: open time must be before close time", day)
		}
	}
	return nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Window returns the opening and closing instants for the calendar day of t,
// in t's location. ok is false when the salon is closed that day.
func (w WorkingHours) Window(t time.Time) (open, closing time.Time, ok bool) {
	h, found := w[strings.ToLower(t.Weekday().String())]
	if !found || h.Closed {
		return time.Time{}, time.Time{}, false
	}
	o, err := time.Parse(clockLayout, h.Open)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	c, err := time.Parse(clockLayout, h.Close)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	y, m, d := t.Date()
	open = time.Date(y, m, d, o.Hour(), o.Minute(), 0, 0, t.Location())
	closing = time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, t.Location())
	return open, closing, open.Before(closing)
}

// Covers reports whether [start, end] lies inside the opening window of start's day.
func (w WorkingHours) Covers(start, end time.Time) bool {
	open, closing, ok := w.Window(start)
	if !ok {
		return false
	}
	return !start.Before(open) && !end.After(closing)
}

// Slots lists the bookable start times on day for a service lasting duration.
// Slots are stepped by duration from opening time; a slot is dropped when it starts
// before now or when an existing booking starts at exactly the same instant.
func (w WorkingHours) Slots(day time.Time, duration time.Duration, booked []time.Time, now time.Time) []time.Time {
	if duration <= 0 {
		return nil
	}
	open, closing, ok := w.Window(day)
	if !ok {
		return nil
	}

	taken := make(map[int64]struct{}, len(booked))
	for _, b := range booked {
		taken[b.Unix()] = struct{}{}
	}

	slots := []time.Time{}
	for t := open; !t.Add(duration).After(closing); t = t.Add(duration) {
		if t.Before(now) {
			continue
		}
		if _, busy := taken[t.Unix()]; busy {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}
