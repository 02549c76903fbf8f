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
	"strings"
	"testing"
)

func TestGenerateEmailContent(t *testing.T) {
	path := writeInsights(t, testInsightsJson)

	subject, text, body, err := generateEmailContent([]string{path})
	if err != nil {
		t.Fatalf("generateEmailContent: %v", err)
	}

	if !strings.HasPrefix(subject, "Cinema report for ") {
		t.Errorf("Unexpected subject: %q", subject)
	}
	if !strings.Contains(text, "Top Genres") {
		t.Errorf("Expected the text body to contain the dashboard, got:\n%s", text)
	}
	if !strings.Contains(body, "<pre>") {
		t.Errorf("Expected the HTML body to wrap the dashboard in <pre>, got:\n%s", body)
	}
	if !strings.Contains(body, "Top Genres") {
		t.Errorf("Expected the HTML body to contain the dashboard, got:\n%s", body)
	}
}

func TestGenerateEmailContentNoData(t *testing.T) {
	_, _, _, err := generateEmailContent([]string{t.TempDir() + "/nope.json"})
	if err == nil {
		t.Fatalf("generateEmailContent should have errored with no data")
	}
}

func TestEmailHasOwnInputFlag(t *testing.T) {
	emailInput := emailCmd.Flags().Lookup("input")
	if emailInput == nil {
		t.Fatalf("email should register its own --input flag")
	}
	renderInput := renderCmd.Flags().Lookup("input")
	if renderInput == nil {
		t.Fatalf("render should register its own --input flag")
	}
	if emailInput == renderInput {
		t.Fatalf("email and render must not share one flag instance")
	}
}

func TestEmailRequiresFrom(t *testing.T) {
	if emailCmd.PreRunE == nil {
		t.Fatalf("emailCmd should validate --from")
	}
	err := emailCmd.PreRunE(emailCmd, []string{"someone@example.com"})
	if err == nil {
		t.Fatalf("PreRunE should have errored without --from")
	}
	if !strings.Contains(err.Error(), "from") {
		t.Fatalf("PreRunE should have named the missing flag: %v", err)
	}
}
