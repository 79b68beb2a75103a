package db

import (
	"log"

	"github.com/google/uuid"

	"podbooker/internal/models"
)

// UpsertHost inserts a new host or refreshes an existing one from the
// authenticated token claims.
func (s *Store) UpsertHost(id, email, displayName string) (*models.Host, error) {
	query := `
		INSERT INTO hosts (id, email, display_name, feed_uuid)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			updated_at = NOW()
		RETURNING *
	`
	host := &models.Host{}
	err := s.db.Get(host, query, id, email, displayName, uuid.NewString())
	if err != nil {
		log.Printf("Error upserting host %s: %v", id, err)
		return nil, err
	}
	return host, nil
}

func (s *Store) GetHostByID(id string) (models.Host, error) {
	host := models.Host{}
	err := s.db.Get(&host, "SELECT * FROM hosts WHERE id = $1", id)
	return host, err
}

func (s *Store) GetHostByFeedUUID(feedUUID string) (models.Host, error) {
	host := models.Host{}
	err := s.db.Get(&host, "SELECT * FROM hosts WHERE feed_uuid = $1", feedUUID)
	return host, err
}
