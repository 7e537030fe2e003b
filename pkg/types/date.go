package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// DateLayout is the wire format of Date.
const DateLayout = "2006-01-02"

// Date is a calendar day. It is "2006-01-02" in JSON and a SQL date in storage.
type Date datatypes.Date

// NewDate truncates t to its calendar day in t's own location, kept as UTC midnight.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t), nil
}

func (d Date) Time() time.Time { return time.Time(d) }

func (d Date) String() string { return d.Time().Format(DateLayout) }

func (d Date) Before(o Date) bool { return d.Time().Before(o.Time()) }

func (d *Date) Scan(value any) error { return (*datatypes.Date)(d).Scan(value) }

func (d Date) Value() (driver.Value, error) { return datatypes.Date(d).Value() }

func (Date) GormDataType() string { return "date" }

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
