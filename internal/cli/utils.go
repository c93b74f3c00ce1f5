// Package cli provides CLI output utilities for GovGPT.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/govgpt/govgpt/internal/models"
)

// OutputFormat is the format for CLI output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat validates a format flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "json":
		return OutputJSON, nil
	case "text", "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteChatResponse writes an answer with its citations to w in the given
// format. Use OutputJSON for parseable output consumable by other apps.
func WriteChatResponse(w io.Writer, response *models.ChatResponse, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, response)
	}
	fmt.Fprintln(w, response.Answer)
	if len(response.Citations) > 0 {
		fmt.Fprintln(w, "\nSources:")
		for _, c := range response.Citations {
			writeOneCitation(w, c)
		}
	}
	return nil
}

func writeOneCitation(w io.Writer, c models.Citation) {
	switch {
	case c.URL != "":
		fmt.Fprintf(w, "  - [%s] %s (%s)\n", c.Kind, c.Title, c.URL)
	case c.Relevance > 0:
		fmt.Fprintf(w, "  - [%s] %s (relevance: %.2f)\n", c.Kind, c.Source, c.Relevance)
	default:
		fmt.Fprintf(w, "  - [%s] %s\n", c.Kind, c.Source)
	}
}

// WriteReport writes a decision report to w. Reports are structured data,
// so they are always rendered as indented JSON.
func WriteReport(w io.Writer, report *models.DecisionReport) error {
	return writeJSON(w, report)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
