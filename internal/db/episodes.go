package db

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"podbooker/internal/models"
)

func (s *Store) CreateEpisode(hostID, title, description string, date time.Time, slots []string) (models.Episode, error) {
	query := `
		INSERT INTO episodes (id, host_id, title, description, date, time_slots)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *
	`
	episode := models.Episode{}
	err := s.db.Get(&episode, query, uuid.NewString(), hostID, title, description, date, pq.StringArray(slots))
	if err != nil {
		log.Printf("Error creating episode for host %s: %v", hostID, err)
		return episode, err
	}
	return episode, nil
}

func (s *Store) GetEpisodeByID(id string) (models.Episode, error) {
	episode := models.Episode{}
	err := s.db.Get(&episode, "SELECT * FROM episodes WHERE id = $1", id)
	return episode, err
}

// ListEpisodesByHostID returns the host's episodes by date ascending, each
// annotated with guest counts aggregated from episode_guests.
func (s *Store) ListEpisodesByHostID(hostID string) ([]models.EpisodeSummary, error) {
	query := `
		SELECT e.*,
			COUNT(g.id) AS guest_count,
			COUNT(g.id) FILTER (WHERE g.status = 'confirmed') AS confirmed_count,
			COUNT(g.id) FILTER (WHERE g.status = 'pending') AS pending_count
		FROM episodes e
		LEFT JOIN episode_guests g ON g.episode_id = e.id
		WHERE e.host_id = $1
		GROUP BY e.id
		ORDER BY e.date ASC
	`
	var episodes []models.EpisodeSummary
	err := s.db.Select(&episodes, query, hostID)
	if err != nil {
		log.Printf("Error listing episodes for host %s: %v", hostID, err)
		return nil, err
	}
	return episodes, nil
}
