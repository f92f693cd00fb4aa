package dto_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/garnizeh/jobboard/pkg/dto"
)

func TestJobRequest_ExpirationDate(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    *time.Time
		wantErr bool
	}{
		{name: "Missing", body: `{}`},
		{name: "Null", body: `{"expirationDate": null}`},
		{name: "DateOnly", body: `{"expirationDate": "2026-12-31"}`, want: ptrTime(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))},
		{name: "RFC3339", body: `{"expirationDate": "2026-12-31T15:04:05Z"}`, want: ptrTime(time.Date(2026, 12, 31, 15, 4, 5, 0, time.UTC))},
		{name: "Offset", body: `{"expirationDate": "2026-12-31T00:00:00-03:00"}`, want: ptrTime(time.Date(2026, 12, 31, 3, 0, 0, 0, time.UTC))},
		{name: "DayOutOfRange", body: `{"expirationDate": "2026-02-30"}`, wantErr: true},
		{name: "Slashes", body: `{"expirationDate": "31/12/2026"}`, wantErr: true},
		{name: "Number", body: `{"expirationDate": 20261231}`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.JobRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if tt.wantErr {
				var typeErr *json.UnmarshalTypeError
				if !errors.As(err, &typeErr) {
					t.Fatalf("expected a type error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			got := req.ExpirationDate.TimePtr()
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected no date, got %v", got)
				}
				return
			}
			if got == nil || !got.Equal(*tt.want) {
				t.Fatalf("want %v got %v", tt.want, got)
			}
		})
	}
}

func TestDate_MarshalsRFC3339(t *testing.T) {
	b, err := json.Marshal(dto.JobRequest{Title: "x", ExpirationDate: dto.NewDate(time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC))})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["expirationDate"] != "2026-12-31T00:00:00Z" {
		t.Fatalf("unexpected expirationDate %v", raw["expirationDate"])
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
