package store

import (
	"fmt"
)

// Movie is the read-side row.
type Movie struct {
	Const       string
	Title       string
	Year        int
	RuntimeMins int
	IMDbRating  float64
	YourRating  float64
	Genres      string
	WatchedDate string
}

// CountMovies reports how many movies are stored.
func (s *Store) CountMovies() (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM Movie").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting movies: %w", err)
	}
	return count, nil
}

// GetMoviesNeedingEnrichment returns movies never enriched, oldest watch
// first, so an interrupted enrich run resumes where it stopped.
func (s *Store) GetMoviesNeedingEnrichment(limit int) ([]Movie, error) {
	query := `
	SELECT tconst, title, COALESCE(year, 0), COALESCE(runtime_mins, 0), COALESCE(genres, '')
	FROM Movie
	WHERE enriched_at IS NULL
	ORDER BY watched_date ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying movies needing enrichment: %w", err)
	}
	defer rows.Close()

	var movies []Movie
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.Const, &m.Title, &m.Year, &m.RuntimeMins, &m.Genres); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// ClearEnrichment forgets enrichment timestamps so a --force run re-fetches
// every movie.
func (s *Store) ClearEnrichment() error {
	if _, err := s.db.Exec("UPDATE Movie SET enriched_at = NULL"); err != nil {
		return fmt.Errorf("clearing enrichment: %w", err)
	}
	return nil
}

// PersonCredits is one person's aggregate over the collection.
type PersonCredits struct {
	Name         string
	Count        int64
	RuntimeHours float64
	BirthYear    int
}

// GetTopPeople aggregates credits for one role, most movies first.
func (s *Store) GetTopPeople(role string, limit int) ([]PersonCredits, error) {
	query := `
	SELECT Person.name, COALESCE(Person.birth_year, 0), COUNT(Credit.movie), COALESCE(SUM(Movie.runtime_mins), 0)
	FROM Credit
	INNER JOIN Person ON Person.nconst = Credit.person
	INNER JOIN Movie ON Movie.tconst = Credit.movie
	WHERE Credit.role = ?
	GROUP BY Person.nconst
	ORDER BY COUNT(Credit.movie) DESC, Person.name ASC
	LIMIT ?
	`
	rows, err := s.db.Query(query, role, limit)
	if err != nil {
		return nil, fmt.Errorf("querying top %s credits: %w", role, err)
	}
	defer rows.Close()

	var people []PersonCredits
	for rows.Next() {
		var p PersonCredits
		var runtimeMins float64
		if err := rows.Scan(&p.Name, &p.BirthYear, &p.Count, &runtimeMins); err != nil {
			return nil, err
		}
		p.RuntimeHours = runtimeMins / 60
		people = append(people, p)
	}
	return people, rows.Err()
}
