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
	"bytes"
	"fmt"
	"html"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/louiseluli/cinema-tools/internal/dashboard"
	"github.com/louiseluli/cinema-tools/internal/insights"
)

type SendEmailConfig struct {
	From       string
	To         string
	Candidates []string
	DryRun     bool
	ApiKey     string
}

// emailCmd represents the email command
var emailCmd = &cobra.Command{
	Use:   "email <address>",
	Short: "Emails the rendered dashboard",
	Long:  `Renders the full dashboard and sends it to the given address.`,
	Args:  cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if viper.GetString("from") == "" {
			return fmt.Errorf("required flag(s) \"from\" not set")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		var candidates []string
		if input, _ := cmd.Flags().GetString("input"); input != "" {
			candidates = append(candidates, input)
		}
		candidates = append(candidates, insights.DefaultCandidates...)

		config := SendEmailConfig{
			From:       viper.GetString("from"),
			To:         args[0],
			Candidates: candidates,
			DryRun:     viper.GetBool("dryRun"),
			ApiKey:     viper.GetString("sendgrid_api_key"),
		}
		err := sendDashboardEmail(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(emailCmd)

	var dryRun bool
	emailCmd.Flags().BoolVarP(&dryRun, "dry_run", "n", false, "When true, just print instead of emailing")
	viper.BindPFlag("dryRun", emailCmd.Flags().Lookup("dry_run"))

	emailCmd.Flags().StringP("input", "i", "", "Insights JSON to load before trying the default locations")
}

func sendDashboardEmail(config SendEmailConfig) error {
	subject, text, body, err := generateEmailContent(config.Candidates)
	if err != nil {
		return err
	}

	if config.DryRun {
		fmt.Printf("Would have sent email: \nsubject: %s\n%s\n", subject, body)
		return nil
	}

	if config.ApiKey == "" {
		return fmt.Errorf("sendgrid_api_key must be set in order to send emails")
	}

	from := mail.NewEmail("cinema-tools", config.From)
	to := mail.NewEmail(config.To, config.To)
	message := mail.NewSingleEmail(from, subject, to, text, body)
	client := sendgrid.NewSendClient(config.ApiKey)
	_, err = client.Send(message)
	if err != nil {
		return fmt.Errorf("sendEmail: %w", err)
	}

	return nil
}

// generateEmailContent renders the dashboard to text and wraps it in a
// minimal HTML body. The dashboard is monospace art, so <pre> keeps it
// readable in mail clients.
func generateEmailContent(candidates []string) (subject string, text string, body string, err error) {
	var out bytes.Buffer
	var errOut bytes.Buffer

	loader := &insights.Loader{Log: &errOut}
	payload, err := loader.Load(candidates)
	if err != nil {
		return "", "", "", err
	}

	renderer := dashboard.NewRenderer(&out, dashboard.WithErrorLog(&errOut))
	defer renderer.Close()
	failed := renderer.Render(payload)
	if failed > 0 {
		return "", "", "", fmt.Errorf("%d sections failed to render", failed)
	}

	text = out.String()
	body = "<html><body><pre>" + html.EscapeString(text) + "</pre></body></html>"
	subject = fmt.Sprintf("Cinema report for %s", time.Now().Format("2006-01-02"))

	return subject, text, body, nil
}
