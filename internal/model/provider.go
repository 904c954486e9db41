package model

import (
	"strings"
	"time"
)

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekdayOf maps a calendar date to its weekday name.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(strings.ToLower(date.Weekday().String()))
}

type Provider struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ServiceID   int64     `json:"service_id"`
	WorkingDays []Weekday `json:"working_days"`
	StartTime   TimeOfDay `json:"start_time"`
	EndTime     TimeOfDay `json:"end_time"`
	Location    string    `json:"location"`
	IsAccepting bool      `json:"is_accepting"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	// Populated by repository joins, not stored on the providers row.
	User    *User    `json:"user,omitempty"`
	Service *Service `json:"service,omitempty"`
}

// WorksOn reports whether the date falls on one of the provider's working days.
func (p *Provider) WorksOn(date time.Time) bool {
	day := WeekdayOf(date)
	for _, d := range p.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}
