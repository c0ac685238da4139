// Package reporter prints the end-of-run summary.
package reporter

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"

	"rosterscraper/internal/models"
)

// RunSummary provides a high-level overview of a finished run.
type RunSummary struct {
	RunID      string          `json:"run_id"`
	Variant    string          `json:"variant"`
	SourceURL  string          `json:"source_url"`
	StartTime  time.Time       `json:"start_time"`
	EndTime    time.Time       `json:"end_time"`
	Duration   time.Duration   `json:"duration"`
	Stats      models.RunStats `json:"stats"`
	Records    int             `json:"records"`
	Outputs    []string        `json:"outputs"`
	FatalError string          `json:"fatal_error,omitempty"`
}

// Summarize builds the summary of res.
func Summarize(res *models.RunResult) RunSummary {
	s := RunSummary{
		RunID:     res.RunID,
		Variant:   res.Variant,
		SourceURL: res.SourceURL,
		StartTime: res.StartedAt,
		EndTime:   res.FinishedAt,
		Duration:  res.Elapsed(),
		Stats:     res.Stats,
		Records:   len(res.Records),
		Outputs:   res.Outputs,
	}
	if res.FatalErr != nil {
		s.FatalError = res.FatalErr.Error()
	}
	return s
}

// Render writes the summary as a table to w and logs it.
func Render(w io.Writer, s RunSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Scrape summary")
	t.AppendHeader(table.Row{"Field", "Value"})

	t.AppendRows([]table.Row{
		{"Run ID", s.RunID},
		{"Variant", s.Variant},
		{"Source", s.SourceURL},
		{"Elapsed", fmt.Sprintf("%.1f seconds", s.Duration.Seconds())},
		{"Discovered", s.Stats.Discovered},
		{"Skipped rows", s.Stats.SkippedRows},
		{"Visited", s.Stats.Visited},
		{"Succeeded", s.Stats.Succeeded},
		{"Placeholder rows", s.Stats.Sentinel},
		{"Failed", s.Stats.Failed},
		{"Records written", s.Records},
	})
	if s.FatalError != "" {
		t.AppendSeparator()
		t.AppendRow(table.Row{"Fatal error", s.FatalError})
	}
	if len(s.Outputs) > 0 {
		t.AppendSeparator()
		for _, p := range s.Outputs {
			t.AppendRow(table.Row{"Output", p})
		}
	}
	t.Render()

	log.Info().
		Str("run_id", s.RunID).
		Str("variant", s.Variant).
		Dur("duration", s.Duration).
		Interface("stats", s.Stats).
		Strs("outputs", s.Outputs).
		Msg("Run summary")
}
