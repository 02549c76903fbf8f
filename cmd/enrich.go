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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/louiseluli/cinema-tools/internal/store"
	"github.com/louiseluli/cinema-tools/internal/tmdb"
)

type EnrichConfig struct {
	DbPath string
	Force  bool
	Limit  int
}

// enrichCmd represents the enrich command
var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Fetches movie metadata from TMDB",
	Long: `Looks up every movie that hasn't been enriched yet, merges the fetched
genres with the imported ones, and stores director and cast credits.`,
	Run: func(cmd *cobra.Command, args []string) {
		apiKey := viper.GetString("tmdb_api_key")
		if apiKey == "" {
			fmt.Println("--tmdb_api_key is required")
			os.Exit(1)
		}

		config := EnrichConfig{
			DbPath: viper.GetString("database"),
			Force:  viper.GetBool("force"),
			Limit:  viper.GetInt("limit"),
		}

		err := enrichMovies(config, tmdb.New(apiKey))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)

	var force bool
	enrichCmd.Flags().BoolVarP(&force, "force", "f", false, "Re-fetch metadata for movies that were already enriched")
	viper.BindPFlag("force", enrichCmd.Flags().Lookup("force"))

	var limit int
	enrichCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of movies to enrich (0 for no limit)")
	viper.BindPFlag("limit", enrichCmd.Flags().Lookup("limit"))
}

const castLimit = 10

func enrichMovies(config EnrichConfig, client *tmdb.Client) error {
	if err := requireDatabase(config.DbPath); err != nil {
		return err
	}

	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if config.Force {
		err = db.ClearEnrichment()
		if err != nil {
			return fmt.Errorf("clearing enrichment: %w", err)
		}
	}

	movies, err := db.GetMoviesNeedingEnrichment(config.Limit)
	if err != nil {
		return fmt.Errorf("finding movies to enrich: %w", err)
	}
	if len(movies) == 0 {
		fmt.Println("All movies are already enriched")
		return nil
	}

	fmt.Printf("Found %d movies needing enrichment\n", len(movies))

	ctx := context.Background()

	// People recur across movies, so profile lookups are cached per run.
	birthYears := make(map[int]int)
	birthYear := func(personID int) int {
		if year, ok := birthYears[personID]; ok {
			return year
		}
		person, err := client.PersonDetails(ctx, personID)
		if err != nil {
			fmt.Printf("Error fetching person %d: %v\n", personID, err)
			birthYears[personID] = 0
			return 0
		}
		birthYears[personID] = person.BirthYear()
		return birthYears[personID]
	}

	for i, movie := range movies {
		fmt.Printf("[%d/%d] Enriching: %s\n", i+1, len(movies), movie.Title)

		tmdbID, err := client.FindByIMDbID(ctx, movie.Const)
		if err != nil {
			fmt.Printf("Error looking up %s: %v\n", movie.Title, err)
			continue
		}
		if tmdbID == 0 {
			// Stamp unknown movies too, so reruns don't refetch them.
			err = db.SaveEnrichment(movie.Const, store.Enrichment{Genres: movie.Genres})
			if err != nil {
				return fmt.Errorf("saving enrichment for %s: %w", movie.Const, err)
			}
			fmt.Printf("TMDB doesn't know %s, skipping\n", movie.Const)
			continue
		}

		details, err := client.MovieDetails(ctx, tmdbID)
		if err != nil {
			fmt.Printf("Error fetching details for %s: %v\n", movie.Title, err)
			continue
		}

		err = db.SaveEnrichment(movie.Const, store.Enrichment{
			Genres:      tmdb.MergeGenres(movie.Genres, details.Genres),
			RuntimeMins: details.Runtime,
			Rating:      details.VoteAverage,
		})
		if err != nil {
			return fmt.Errorf("saving enrichment for %s: %w", movie.Const, err)
		}

		var credits []store.CreditImport
		for _, member := range details.Credits.Crew {
			if member.Job == "Director" {
				credits = append(credits, store.CreditImport{
					PersonID:  fmt.Sprintf("tmdb-%d", member.ID),
					Name:      member.Name,
					BirthYear: birthYear(member.ID),
					Role:      "director",
				})
			}
		}
		for j, member := range details.Credits.Cast {
			if j >= castLimit {
				break
			}
			credits = append(credits, store.CreditImport{
				PersonID:  fmt.Sprintf("tmdb-%d", member.ID),
				Name:      member.Name,
				BirthYear: birthYear(member.ID),
				Role:      "actor",
			})
		}
		err = db.SaveCredits(movie.Const, credits)
		if err != nil {
			return fmt.Errorf("saving credits for %s: %w", movie.Const, err)
		}
	}

	return nil
}
