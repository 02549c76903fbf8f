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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/louiseluli/cinema-tools/internal/analysis"
	"github.com/louiseluli/cinema-tools/internal/store"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Generates the cinema insights JSON",
	Long: `Runs the full analysis over the local database and writes the
insights file that the dashboard renders.`,
	Run: func(cmd *cobra.Command, args []string) {
		err := generateInsights(viper.GetString("database"), viper.GetString("output"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	var output string
	analyzeCmd.Flags().StringVarP(&output, "output", "o", "data/cinema_insights.json", "Where to write the insights JSON")
	viper.BindPFlag("output", analyzeCmd.Flags().Lookup("output"))
}

func generateInsights(dbPath string, outputPath string) error {
	if err := requireDatabase(dbPath); err != nil {
		return err
	}

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	payload, err := analysis.Generate(db)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding insights: %w", err)
	}

	err = os.MkdirAll(filepath.Dir(outputPath), 0755)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	err = os.WriteFile(outputPath, encoded, 0644)
	if err != nil {
		return fmt.Errorf("writing insights: %w", err)
	}

	fmt.Printf("Insights saved to %s\n", outputPath)
	return nil
}
