package reporter

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rosterscraper/internal/models"
)

func TestSummarizeAndRender(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	res := &models.RunResult{
		RunID:      "0f8fad5b-d9cb-469f-a165-70867728950e",
		Variant:    "profile",
		SourceURL:  "https://sofifa.com/team/10/manchester-city/",
		Records:    []models.Record{{Values: []string{"1"}}, {Values: []string{"2"}}},
		StartedAt:  start,
		FinishedAt: start.Add(95 * time.Second),
		Stats:      models.RunStats{Discovered: 2, Visited: 2, Succeeded: 1, Sentinel: 1},
		Outputs:    []string{"OUTPUT/SCRIPT_1_manchester-city.xlsx"},
	}

	s := Summarize(res)
	assert.Equal(t, 95*time.Second, s.Duration)
	assert.Equal(t, 2, s.Records)
	assert.Empty(t, s.FatalError)

	var buf bytes.Buffer
	Render(&buf, s)
	out := buf.String()
	assert.Contains(t, out, "Scrape summary")
	assert.Contains(t, out, "95.0 seconds")
	assert.Contains(t, out, "SCRIPT_1_manchester-city.xlsx")
	assert.NotContains(t, out, "Fatal error")
}

func TestRenderShowsFatalError(t *testing.T) {
	res := &models.RunResult{
		Variant:    "valuation",
		StartedAt:  time.Unix(0, 0),
		FinishedAt: time.Unix(3, 0),
		FatalErr:   errors.New("listing page unavailable"),
	}

	var buf bytes.Buffer
	Render(&buf, Summarize(res))
	assert.Contains(t, buf.String(), "listing page unavailable")
}
