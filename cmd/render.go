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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/louiseluli/cinema-tools/internal/dashboard"
	"github.com/louiseluli/cinema-tools/internal/insights"
)

// renderCmd represents the render command
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Renders the analytics dashboard",
	Long: `Loads the insights JSON from the first available location and draws
every dashboard section. A section that can't render is reported and
skipped; the rest of the dashboard still draws.`,
	Run: func(cmd *cobra.Command, args []string) {
		var extra []string
		if input, _ := cmd.Flags().GetString("input"); input != "" {
			extra = append(extra, input)
		}
		sections, _ := cmd.Flags().GetStringSlice("sections")

		err := renderDashboard(os.Stdout, os.Stderr, extra, sections)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("input", "i", "", "Insights JSON to load before trying the default locations")
	renderCmd.Flags().StringSlice("sections", nil, "Only render the named sections (e.g. summary,genres)")
}

// renderDashboard loads the payload and draws it. Locations passed in extra
// are tried before the defaults.
func renderDashboard(out io.Writer, errOut io.Writer, extra []string, sections []string) error {
	candidates := append(extra, insights.DefaultCandidates...)

	loader := &insights.Loader{Log: errOut}
	payload, err := loader.Load(candidates)
	if err != nil {
		var unavailable *insights.DataUnavailable
		if errors.As(err, &unavailable) {
			renderer := dashboard.NewRenderer(out, dashboard.WithErrorLog(errOut))
			renderer.RenderError(unavailable)
		}
		return err
	}

	var opts []dashboard.Option
	opts = append(opts, dashboard.WithErrorLog(errOut))
	if len(sections) > 0 {
		opts = append(opts, dashboard.WithSections(sections...))
	}

	renderer := dashboard.NewRenderer(out, opts...)
	defer renderer.Close()

	failed := renderer.Render(payload)
	if failed > 0 {
		return fmt.Errorf("%d sections failed to render", failed)
	}
	return nil
}
