package models

import "time"

// Host represents an authenticated podcast host in the database.
type Host struct {
	ID          string    `db:"id"`
	Email       string    `db:"email"`
	DisplayName string    `db:"display_name"`
	FeedUUID    string    `db:"feed_uuid"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
