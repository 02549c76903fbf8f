/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louiseluli/cinema-tools/internal/store"
)

func writeCsv(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "watchlist.csv")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing csv: %v", err)
	}
	return path
}

func TestImportWatchlist(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cinema.db")
	csvPath := writeCsv(t, `Const,Created,Title,Year,IMDb Rating,Runtime (mins),Your Rating,Genres
tt0111161,2024-01-05,The Shawshank Redemption,1994,9.3,142,10,Drama
tt0068646,2024-02-10,The Godfather,1972,9.2,175,9,"Crime, Drama"
`)

	err := importWatchlist(dbPath, csvPath)
	if err != nil {
		t.Fatalf("importWatchlist: %v", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	count, err := db.CountMovies()
	if err != nil {
		t.Fatalf("CountMovies: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 movies, got %d", count)
	}
}

func TestImportWatchlistAlternateHeaders(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cinema.db")
	csvPath := writeCsv(t, `tconst,primaryTitle,startYear,runtimeMinutes,averageRating,genres
tt0133093,The Matrix,1999,136,8.7,"Action,Sci-Fi"
`)

	err := importWatchlist(dbPath, csvPath)
	if err != nil {
		t.Fatalf("importWatchlist: %v", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	count, err := db.CountMovies()
	if err != nil {
		t.Fatalf("CountMovies: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 movie, got %d", count)
	}
}

func TestImportWatchlistSkipsBlankRows(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cinema.db")
	csvPath := writeCsv(t, `Const,Title,Year
tt0000001,First,2001
,Missing Const,2002
tt0000003,,2003
tt0000004,Fourth,2004
`)

	err := importWatchlist(dbPath, csvPath)
	if err != nil {
		t.Fatalf("importWatchlist: %v", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	count, err := db.CountMovies()
	if err != nil {
		t.Fatalf("CountMovies: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 movies, got %d", count)
	}
}

func TestImportWatchlistMissingColumns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cinema.db")
	csvPath := writeCsv(t, `Director,Budget
Someone,100
`)

	err := importWatchlist(dbPath, csvPath)
	if err == nil {
		t.Fatalf("importWatchlist should have errored with missing columns")
	}
	if !strings.Contains(err.Error(), "missing required columns") {
		t.Fatalf("importWatchlist should have said which columns are missing: %v", err)
	}
}

func TestHeaderIndex(t *testing.T) {
	header := []string{"Const", " Title ", "Year"}

	if got := headerIndex(header, []string{"Title", "primaryTitle"}); got != 1 {
		t.Errorf("Expected index 1 for Title, got %d", got)
	}
	if got := headerIndex(header, []string{"tconst", "Const"}); got != 0 {
		t.Errorf("Expected index 0 for Const, got %d", got)
	}
	if got := headerIndex(header, []string{"Runtime (mins)"}); got != -1 {
		t.Errorf("Expected -1 for a missing column, got %d", got)
	}
}
