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
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/louiseluli/cinema-tools/internal/store"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <watchlist.csv>",
	Short: "Imports an IMDb watchlist export",
	Long: `Reads a watchlist CSV export and stores the movies in the local
SQLite database. Re-importing is idempotent: existing movies keep their
enrichment data.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := importWatchlist(viper.GetString("database"), args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// Watchlist exports vary between IMDb versions, so each column has a
// list of accepted header names.
var watchlistColumns = map[string][]string{
	"const":   {"Const", "const", "tconst"},
	"title":   {"Title", "Original Title", "primaryTitle"},
	"year":    {"Year", "startYear"},
	"runtime": {"Runtime (mins)", "runtimeMinutes"},
	"imdb":    {"IMDb Rating", "averageRating"},
	"rating":  {"Your Rating"},
	"watched": {"Created", "Date Added", "watched_date"},
	"genres":  {"Genres", "genres"},
}

func headerIndex(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, got := range header {
			if strings.EqualFold(strings.TrimSpace(got), want) {
				return i
			}
		}
	}
	return -1
}

func importWatchlist(dbPath string, csvPath string) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("opening watchlist: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}

	columns := make(map[string]int)
	for name, candidates := range watchlistColumns {
		columns[name] = headerIndex(header, candidates)
	}
	if columns["const"] < 0 || columns["title"] < 0 {
		return fmt.Errorf("%s: missing required columns (need Const and Title)", csvPath)
	}

	field := func(record []string, name string) string {
		i := columns[name]
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var movies []store.MovieImport
	skipped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading record: %w", err)
		}

		tconst := field(record, "const")
		title := field(record, "title")
		if tconst == "" || title == "" {
			skipped++
			continue
		}

		year, _ := strconv.Atoi(field(record, "year"))
		runtime, _ := strconv.Atoi(field(record, "runtime"))
		imdbRating, _ := strconv.ParseFloat(field(record, "imdb"), 64)
		yourRating, _ := strconv.ParseFloat(field(record, "rating"), 64)

		movies = append(movies, store.MovieImport{
			Const:       tconst,
			Title:       title,
			Year:        year,
			RuntimeMins: runtime,
			IMDbRating:  imdbRating,
			YourRating:  yourRating,
			Genres:      field(record, "genres"),
			WatchedDate: field(record, "watched"),
		})
	}

	if len(movies) == 0 {
		return fmt.Errorf("%s: no movies found", csvPath)
	}

	err = db.AddMovies(movies)
	if err != nil {
		return fmt.Errorf("inserting movies: %w", err)
	}

	fmt.Printf("Imported %d movies", len(movies))
	if skipped > 0 {
		fmt.Printf(" (%d rows skipped)", skipped)
	}
	fmt.Println()

	total, err := db.CountMovies()
	if err != nil {
		return err
	}
	fmt.Printf("Database now has %d movies\n", total)

	return nil
}
