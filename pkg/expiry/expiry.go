// Package expiry classifies job posting expiration dates for display.
package expiry

import (
	"fmt"
	"time"
)

const (
	VariantDestructive = "destructive"
	VariantDefault     = "default"
	VariantSecondary   = "secondary"
)

const secondsPerDay = 24 * 60 * 60

// Badge is a display hint for a posting's remaining lifetime.
type Badge struct {
	Variant string `json:"variant"`
	Label   string `json:"label"`
}

// DaysUntil returns the number of whole days between now and date, both
// truncated to midnight in now's location. It returns nil for a nil date.
func DaysUntil(date *time.Time, now time.Time) *int {
	if date == nil {
		return nil
	}
	// both calendar dates as UTC midnights
	today := midnight(now, time.UTC)
	target := midnight(date.In(now.Location()), time.UTC)
	days := int((target.Unix() - today.Unix()) / secondsPerDay)
	return &days
}

// StartOfDay returns midnight of now's day in now's location. Postings whose
// expiration date is before it are expired.
func StartOfDay(now time.Time) time.Time {
	return midnight(now, now.Location())
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Expired reports whether date lies strictly before today. Postings without an
// expiration date never expire.
func Expired(date *time.Time, now time.Time) bool {
	days := DaysUntil(date, now)
	return days != nil && *days < 0
}

// BadgeFor maps remaining days to a badge.
func BadgeFor(daysLeft int) Badge {
	switch {
	case daysLeft < 0:
		return Badge{Variant: VariantDestructive, Label: "Expired"}
	case daysLeft == 0:
		return Badge{Variant: VariantDestructive, Label: "Expires today"}
	case daysLeft <= 3:
		return Badge{Variant: VariantDestructive, Label: daysLabel(daysLeft)}
	case daysLeft <= 7:
		return Badge{Variant: VariantDefault, Label: daysLabel(daysLeft)}
	default:
		return Badge{Variant: VariantSecondary, Label: daysLabel(daysLeft)}
	}
}

// BadgeForDate combines DaysUntil and BadgeFor; nil when date is nil.
func BadgeForDate(date *time.Time, now time.Time) *Badge {
	days := DaysUntil(date, now)
	if days == nil {
		return nil
	}
	b := BadgeFor(*days)
	return &b
}

func daysLabel(n int) string {
	if n == 1 {
		return "1 day left"
	}
	return fmt.Sprintf("%d days left", n)
}
