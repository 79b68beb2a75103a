package db

import (
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // The database driver
)

// Store wraps the database handle. It is constructed once in main and
// handed to whoever needs it; nothing in this package holds global state.
type Store struct {
	db *sqlx.DB
}

// Connect opens and pings the database.
func Connect(dbURL string) (*Store, error) {
	conn, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, err
	}
	return &Store{db: conn}, nil
}

// NewStore wraps an existing handle. Used by tests with a mock driver.
func NewStore(conn *sqlx.DB) *Store {
	return &Store{db: conn}
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}
