// Package models contains the data structures used across the application.
package models

import "time"

// Sentinel marks a field whose value could not be determined.
const Sentinel = "-"

// EntityReference is one player row discovered on a team listing page.
type EntityReference struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	DetailURL string `json:"detail_url"`
	Age       string `json:"age"`
	Overall   string `json:"overall"`
	Potential string `json:"potential"`
	Position  string `json:"position"`
}

// EntityDetail holds the fields mined from a player's profile page.
type EntityDetail struct {
	Height        string `json:"height"`
	Weight        string `json:"weight"`
	PreferredFoot string `json:"preferred_foot"`
	SkillMoves    string `json:"skill_moves"`
	WeakFoot      string `json:"weak_foot"`
	ContractEnd   string `json:"contract_end"`
	MarketValue   string `json:"market_value"`
	Wage          string `json:"wage"`
	Nationality   string `json:"nationality"`
}

// EmptyDetail returns an EntityDetail with every field set to Sentinel.
func EmptyDetail() EntityDetail {
	return EntityDetail{
		Height:        Sentinel,
		Weight:        Sentinel,
		PreferredFoot: Sentinel,
		SkillMoves:    Sentinel,
		WeakFoot:      Sentinel,
		ContractEnd:   Sentinel,
		MarketValue:   Sentinel,
		Wage:          Sentinel,
		Nationality:   Sentinel,
	}
}

// IsEmpty reports whether no field of d was found.
func (d EntityDetail) IsEmpty() bool {
	return d == EmptyDetail()
}

// Valuation is the reduced detail mined by the name/value/wage pipeline.
type Valuation struct {
	Name        string `json:"name"`
	MarketValue string `json:"market_value"`
	Wage        string `json:"wage"`
}

// EmptyValuation returns a Valuation with every field set to Sentinel.
func EmptyValuation() Valuation {
	return Valuation{Name: Sentinel, MarketValue: Sentinel, Wage: Sentinel}
}

// IsEmpty reports whether no field of v was found.
func (v Valuation) IsEmpty() bool {
	return v == EmptyValuation()
}

// Record is one flat output row. Values are positional and line up with the
// column list of the pipeline variant that produced the record.
type Record struct {
	Values []string
}

// Get returns the value at column index i, or Sentinel when out of range.
func (r Record) Get(i int) string {
	if i < 0 || i >= len(r.Values) {
		return Sentinel
	}
	return r.Values[i]
}

// RunStats counts what happened during a run.
type RunStats struct {
	Discovered  int `json:"discovered"`
	SkippedRows int `json:"skipped_rows"`
	Visited     int `json:"visited"`
	Succeeded   int `json:"succeeded"`
	Sentinel    int `json:"sentinel"`
	Failed      int `json:"failed"`
}

// RunResult is produced once per invocation and written, never read back.
type RunResult struct {
	RunID      string
	Variant    string
	SourceURL  string
	Columns    []string
	Records    []Record
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      RunStats
	// Outputs lists the files written during finalization.
	Outputs []string
	// FatalErr is set when the listing page could not be loaded.
	FatalErr error
}

// Elapsed returns the wall-clock duration of the run.
func (r *RunResult) Elapsed() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
