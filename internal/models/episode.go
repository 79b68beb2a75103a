package models

import (
	"time"

	"github.com/lib/pq"
)

// Episode represents a scheduled recording session created by a host.
type Episode struct {
	ID          string         `db:"id"`
	HostID      string         `db:"host_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Date        time.Time      `db:"date"`
	TimeSlots   pq.StringArray `db:"time_slots"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

// HasSlot reports whether label is one of the episode's offered time slots.
func (e *Episode) HasSlot(label string) bool {
	for _, s := range e.TimeSlots {
		if s == label {
			return true
		}
	}
	return false
}

// EpisodeSummary is an episode annotated with aggregated guest counts.
// The counts are a read-side projection computed by joining guest rows,
// never stored state.
type EpisodeSummary struct {
	Episode
	GuestCount     int `db:"guest_count"`
	ConfirmedCount int `db:"confirmed_count"`
	PendingCount   int `db:"pending_count"`
}
