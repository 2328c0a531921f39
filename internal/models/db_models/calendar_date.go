package db_models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const CalendarLayout = "2006-01-02"

// CalendarDate is a date without a time of day, serialized as YYYY-MM-DD on
// the wire and in the database.
type CalendarDate struct {
	time.Time
}

func NewCalendarDate(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(CalendarLayout, strings.TrimSpace(s))
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return CalendarDate{Time: t}, nil
}

func (CalendarDate) GormDataType() string { return "date" }

func (d CalendarDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(CalendarLayout)
}

func (d CalendarDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *CalendarDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = CalendarDate{}
		return nil
	}
	// some drivers hand back full timestamps for date columns
	if len(s) > len(CalendarLayout) {
		s = s[:len(CalendarLayout)]
	}
	parsed, err := ParseCalendarDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d CalendarDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *CalendarDate) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = CalendarDate{}
		return nil
	case time.Time:
		*d = NewCalendarDate(v)
		return nil
	case string:
		return d.UnmarshalJSON([]byte(v))
	case []byte:
		return d.UnmarshalJSON(v)
	default:
		return fmt.Errorf("cannot scan %T into CalendarDate", src)
	}
}
