package db

import (
	"log"
	"time"

	"github.com/google/uuid"

	"podbooker/internal/models"
)

func (s *Store) CreateGuest(episodeID, name, email string) (models.Guest, error) {
	query := `
		INSERT INTO episode_guests (id, episode_id, name, email, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING *
	`
	guest := models.Guest{}
	err := s.db.Get(&guest, query, uuid.NewString(), episodeID, name, email)
	if err != nil {
		log.Printf("Error creating guest for episode %s: %v", episodeID, err)
		return guest, err
	}
	return guest, nil
}

func (s *Store) GetGuestByID(id string) (models.Guest, error) {
	guest := models.Guest{}
	err := s.db.Get(&guest, "SELECT * FROM episode_guests WHERE id = $1", id)
	return guest, err
}

// UpdateGuestDecision applies a guest's answer as a single-row update.
// Confirming clears any earlier note and declining clears any earlier slot,
// so selected_time_slot stays non-null exactly when the status is confirmed.
// Last write wins when two tabs race; there is no version token.
func (s *Store) UpdateGuestDecision(id string, d models.Decision) error {
	query := `
		UPDATE episode_guests
		SET status = $1,
			selected_time_slot = NULLIF($2, ''),
			rejection_note = NULLIF($3, ''),
			updated_at = NOW()
		WHERE id = $4
	`
	_, err := s.db.Exec(query, d.Status, d.Slot, d.Note, id)
	if err != nil {
		log.Printf("Error updating guest %s: %v", id, err)
	}
	return err
}

func (s *Store) CountGuestsByEpisodeID(episodeID string) (int, error) {
	var count int
	err := s.db.Get(&count, "SELECT COUNT(*) FROM episode_guests WHERE episode_id = $1", episodeID)
	return count, err
}

// ListPendingGuestsBefore returns guests still pending since before the
// cutoff that have not been reminded yet.
func (s *Store) ListPendingGuestsBefore(cutoff time.Time) ([]models.Guest, error) {
	query := `
		SELECT * FROM episode_guests
		WHERE status = 'pending' AND reminded_at IS NULL AND created_at < $1
		ORDER BY created_at ASC
	`
	var guests []models.Guest
	err := s.db.Select(&guests, query, cutoff)
	return guests, err
}

func (s *Store) MarkGuestReminded(id string) error {
	_, err := s.db.Exec("UPDATE episode_guests SET reminded_at = NOW() WHERE id = $1", id)
	return err
}
