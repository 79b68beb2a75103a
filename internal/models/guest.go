package models

import (
	"fmt"
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
)

// Guest represents a person invited to pick a time slot for an episode.
// The guest ID doubles as the capability token embedded in the booking
// link; it must never appear in any listing exposed outside the host's
// own console.
type Guest struct {
	ID               string     `db:"id"`
	EpisodeID        string     `db:"episode_id"`
	Name             string     `db:"name"`
	Email            string     `db:"email"`
	Status           string     `db:"status"`
	SelectedTimeSlot *string    `db:"selected_time_slot"`
	RejectionNote    *string    `db:"rejection_note"`
	RemindedAt       *time.Time `db:"reminded_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

// Decision is a guest's answer to an invitation. Only two shapes exist:
// confirmed with a slot, or declined with an optional note. Constructing
// one through Confirm/Decline keeps the slot/note fields consistent with
// the status, so a confirmed decision can never lack a slot.
type Decision struct {
	Status string
	Slot   string
	Note   string
}

// Confirm builds a confirmed decision for the given slot label.
func Confirm(slot string) (Decision, error) {
	if slot == "" {
		return Decision{}, fmt.Errorf("a confirmed booking requires a time slot")
	}
	return Decision{Status: StatusConfirmed, Slot: slot}, nil
}

// Decline builds a declined decision with an optional note.
func Decline(note string) Decision {
	return Decision{Status: StatusDeclined, Note: note}
}
