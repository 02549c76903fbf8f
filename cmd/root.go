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
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	_ "github.com/mattn/go-sqlite3"
)

var cfgFile string
var databasePath string
var tmdbApiKey string
var sendgridApiKey string
var fromAddress string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cinema-tools",
	Short: "Builds and renders movie-watching statistics",
	Long: `Maintains a local database of watched movies, enriches it from TMDB,
generates the cinema insights JSON, and renders the analytics dashboard.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $HOME/.cinema-tools.yaml)")

	rootCmd.PersistentFlags().StringVarP(
		&databasePath, "database", "d", "./cinema.db", "Path to the SQLite database")
	viper.BindPFlag("database", rootCmd.PersistentFlags().Lookup("database"))

	rootCmd.PersistentFlags().StringVar(
		&tmdbApiKey, "tmdb_api_key", "", "TMDB API key (needed by enrich)")
	viper.BindPFlag("tmdb_api_key", rootCmd.PersistentFlags().Lookup("tmdb_api_key"))

	rootCmd.PersistentFlags().StringVar(&sendgridApiKey, "sendgrid_api_key", "", "SendGrid API key (needed by email)")
	viper.BindPFlag("sendgrid_api_key", rootCmd.PersistentFlags().Lookup("sendgrid_api_key"))

	rootCmd.PersistentFlags().StringVar(&fromAddress, "from", "", "From email address")
	viper.BindPFlag("from", rootCmd.PersistentFlags().Lookup("from"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".cinema-tools" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".cinema-tools")
	}

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// See https://github.com/spf13/viper/pull/852
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) {
		if viper.IsSet(f.Name) && viper.GetString(f.Name) != "" {
			rootCmd.Flags().Set(f.Name, viper.GetString(f.Name))
		}
	})
}

func openDb(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("openDb: %w", err)
	}
	return db, nil
}

func dbExists(db *sql.DB) (bool, error) {
	exists, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'Movie'")
	if err != nil {
		return false, fmt.Errorf("dbExists: %w", err)
	}
	defer exists.Close()

	return exists.Next(), nil
}

// requireDatabase errors when no watchlist has been imported yet, before
// the caller opens the store (which would create an empty schema).
func requireDatabase(dbPath string) error {
	db, err := openDb(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	exists, err := dbExists(db)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("database %s doesn't exist - run import first", dbPath)
	}
	return nil
}
