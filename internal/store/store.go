// Package store persists the watched-movies collection in SQLite: movies
// from the watchlist import, plus the people and credits added by
// enrichment.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db *sql.DB
}

const createSchema = `
CREATE TABLE IF NOT EXISTS Movie (
  tconst TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  year INTEGER,
  runtime_mins INTEGER,
  imdb_rating REAL,
  your_rating REAL,
  genres TEXT,
  watched_date TEXT,
  enriched_at DATETIME
);

CREATE TABLE IF NOT EXISTS Person (
  nconst TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  birth_year INTEGER
);

CREATE TABLE IF NOT EXISTS Credit (
  movie TEXT,
  person TEXT,
  role TEXT,
  FOREIGN KEY (movie) REFERENCES Movie(tconst),
  FOREIGN KEY (person) REFERENCES Person(nconst),
  PRIMARY KEY (movie, person, role)
);
`

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(createSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle for the analysis queries.
func (s *Store) DB() *sql.DB {
	return s.db
}
