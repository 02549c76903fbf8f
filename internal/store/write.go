package store

import (
	"database/sql"
	"fmt"
	"time"
)

// MovieImport is one row of the watchlist CSV, already schema-normalized.
type MovieImport struct {
	Const       string
	Title       string
	Year        int
	RuntimeMins int
	IMDbRating  float64
	YourRating  float64
	Genres      string
	WatchedDate string
}

// AddMovies upserts a batch of movies transactionally. Re-importing the same
// CSV is idempotent: an existing movie's watchlist fields are refreshed but
// its enrichment data is kept.
func (s *Store) AddMovies(movies []MovieImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range movies {
		if err := upsertMovie(tx, m); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func upsertMovie(tx *sql.Tx, m MovieImport) error {
	var existing string
	err := tx.QueryRow("SELECT tconst FROM Movie WHERE tconst = ?", m.Const).Scan(&existing)
	if err == sql.ErrNoRows {
		_, err := tx.Exec(
			`INSERT INTO Movie (tconst, title, year, runtime_mins, imdb_rating, your_rating, genres, watched_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.Const, m.Title, nullableInt(m.Year), nullableInt(m.RuntimeMins),
			nullableFloat(m.IMDbRating), nullableFloat(m.YourRating), m.Genres, m.WatchedDate)
		if err != nil {
			return fmt.Errorf("inserting movie %q: %w", m.Const, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking movie %q: %w", m.Const, err)
	}

	_, err = tx.Exec(
		`UPDATE Movie SET title = ?, year = ?, runtime_mins = ?, imdb_rating = ?, your_rating = ?, watched_date = ?
		 WHERE tconst = ?`,
		m.Title, nullableInt(m.Year), nullableInt(m.RuntimeMins),
		nullableFloat(m.IMDbRating), nullableFloat(m.YourRating), m.WatchedDate, m.Const)
	if err != nil {
		return fmt.Errorf("updating movie %q: %w", m.Const, err)
	}
	return nil
}

func nullableInt(v int) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

func nullableFloat(v float64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}

// Enrichment is the metadata gathered for one movie from the external APIs.
type Enrichment struct {
	Genres      string
	RuntimeMins int
	Rating      float64
}

// SaveEnrichment records the merged metadata and stamps the movie as
// enriched. Zero-valued fields leave the existing column untouched.
func (s *Store) SaveEnrichment(tconst string, e Enrichment) error {
	_, err := s.db.Exec(
		`UPDATE Movie SET
		   genres = CASE WHEN ? != '' THEN ? ELSE genres END,
		   runtime_mins = COALESCE(NULLIF(?, 0), runtime_mins),
		   imdb_rating = COALESCE(NULLIF(?, 0.0), imdb_rating),
		   enriched_at = ?
		 WHERE tconst = ?`,
		e.Genres, e.Genres, e.RuntimeMins, e.Rating, time.Now(), tconst)
	if err != nil {
		return fmt.Errorf("saving enrichment for %q: %w", tconst, err)
	}
	return nil
}

// CreditImport links a movie to one person in one role.
type CreditImport struct {
	PersonID  string
	Name      string
	BirthYear int
	Role      string
}

// SaveCredits stores people and their credits for one movie transactionally.
func (s *Store) SaveCredits(tconst string, credits []CreditImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, c := range credits {
		_, err := tx.Exec("INSERT OR REPLACE INTO Person (nconst, name, birth_year) VALUES (?, ?, ?)",
			c.PersonID, c.Name, nullableInt(c.BirthYear))
		if err != nil {
			return fmt.Errorf("inserting person %q: %w", c.Name, err)
		}

		_, err = tx.Exec("INSERT OR IGNORE INTO Credit (movie, person, role) VALUES (?, ?, ?)",
			tconst, c.PersonID, c.Role)
		if err != nil {
			return fmt.Errorf("linking %q to movie %q: %w", c.Name, tconst, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
