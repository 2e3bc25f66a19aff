package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates (the `date` column type).
const DateLayout = "2006-01-02"

// MonthLayout is the wire format of a month key.
const MonthLayout = "2006-01"

// Date is a calendar date. It carries no time of day and no zone; the
// underlying time is always midnight UTC so dates compare as calendar days.
type Date struct {
	t time.Time
}

// NewDate builds a Date, normalizing out-of-range days the way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate accepts YYYY-MM-DD and, for rows coming back from Postgres
// drivers, a full RFC 3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return Date{t: t}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return DateOf(t), nil
	}
	return Date{}, fmt.Errorf("invalid date %q: want %s", s, DateLayout)
}

// MustParseDate is ParseDate for literals in tests and fixtures.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) IsZero() bool { return d.t.IsZero() }
func (d Date) Time() time.Time { return d.t }
func (d Date) String() string { return d.t.Format(DateLayout) }
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Month() Month { return Month{Year: d.t.Year(), Month: d.t.Month()} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) Day() int { return d.t.Day() }

// DaysUntil returns the whole number of days from d to o (negative if o is
// earlier). It works on Unix seconds; time.Duration saturates past ~292 years.
func (d Date) DaysUntil(o Date) int {
	return int((o.t.Unix() - d.t.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Scan implements sql.Scanner. SQLite hands back TEXT, lib/pq a time.Time.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		return d.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Month identifies a calendar month (the dashboard's period key).
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a YYYY-MM key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(s))
	if err != nil {
		return Month{}, &ErrValidation{Field: "month", Message: fmt.Sprintf("invalid month %q: want YYYY-MM", s)}
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// FirstDay returns the first calendar day of the month.
func (m Month) FirstDay() Date { return NewDate(m.Year, m.Month, 1) }

// LastDay returns the true last calendar day of the month.
func (m Month) LastDay() Date { return NewDate(m.Year, m.Month+1, 0) }

func (m Month) String() string { return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month)) }

func (m Month) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

func (m *Month) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
