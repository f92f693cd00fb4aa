package dto

import (
	"encoding/json"
	"reflect"
	"time"
)

// Date is a timestamp that also accepts a bare calendar date on input.
// "2026-12-31" reads as midnight UTC; output is always RFC 3339.
type Date struct {
	time.Time
}

func NewDate(t time.Time) *Date { return &Date{Time: t} }

var dateLayouts = []string{time.RFC3339Nano, time.DateOnly}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &json.UnmarshalTypeError{Value: "non-string", Type: reflect.TypeOf(d).Elem()}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return &json.UnmarshalTypeError{Value: "string " + s, Type: reflect.TypeOf(d).Elem()}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

// TimePtr returns nil for a nil Date.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
