// Package pipeline drives a scrape run: it loads the listing page, visits
// every discovered entity in order with bounded retries, and hands the rows to
// the exporter. One entity failing never stops the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"rosterscraper/internal/collector"
	"rosterscraper/internal/export"
	"rosterscraper/internal/extractor"
	"rosterscraper/internal/models"
	"rosterscraper/internal/retry"
	"rosterscraper/internal/snapshot"
)

// ErrListingUnavailable is the fatal condition: the listing page could not be
// loaded or its content never rendered.
var ErrListingUnavailable = errors.New("pipeline: listing page unavailable")

// Renderer is the browser capability the controller drives. browser.Session
// implements it; tests use a fake returning canned markup.
type Renderer interface {
	Open(ctx context.Context, url string, maxAttempts int) bool
	WaitForContentReady(ctx context.Context, selector string, timeout time.Duration) error
	ScrollToStableHeight(ctx context.Context) error
	CurrentMarkup(ctx context.Context) (string, error)
}

// Options carries the controller's collaborators.
type Options struct {
	Extractor *extractor.Extractor
	Collector *collector.URLCollector
	Snapshots *snapshot.Writer
	// OutputBase is the export path without extension. Empty skips export.
	OutputBase string

	Sleeper retry.Sleeper
	Rand    *rand.Rand
	Now     func() time.Time
}

// Controller runs one variant against one Renderer. It is single-use per run
// and not safe for concurrent use.
type Controller struct {
	variant   Variant
	renderer  Renderer
	extractor *extractor.Extractor
	collector *collector.URLCollector
	snapshots *snapshot.Writer
	output    string
	sleeper   retry.Sleeper
	rng       *rand.Rand
	now       func() time.Time

	state   RunState
	history []RunState
}

// NewController wires a controller. Missing options get working defaults.
func NewController(variant Variant, renderer Renderer, opts Options) *Controller {
	c := &Controller{
		variant:   variant,
		renderer:  renderer,
		extractor: opts.Extractor,
		collector: opts.Collector,
		snapshots: opts.Snapshots,
		output:    opts.OutputBase,
		sleeper:   opts.Sleeper,
		rng:       opts.Rand,
		now:       opts.Now,
	}
	if c.extractor == nil {
		c.extractor = extractor.New()
	}
	if c.collector == nil {
		c.collector = collector.NewURLCollector(nil, "")
	}
	if c.sleeper == nil {
		c.sleeper = retry.ContextSleeper
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// State returns the current run state.
func (c *Controller) State() RunState {
	return c.state
}

// History returns every state the run has passed through, in order.
func (c *Controller) History() []RunState {
	out := make([]RunState, len(c.history))
	copy(out, c.history)
	return out
}

func (c *Controller) setState(s RunState) {
	c.state = s
	c.history = append(c.history, s)
	log.Debug().Str("variant", c.variant.Name).Str("state", s.String()).Msg("Run state changed")
}

// Run scrapes sourceURL and exports whatever was gathered, even after a fatal
// listing failure or cancellation. The returned error only reports export
// failures; everything else is recorded on the result.
func (c *Controller) Run(ctx context.Context, runID, sourceURL string) (*models.RunResult, error) {
	c.history = nil
	c.setState(StateInit)

	res := &models.RunResult{
		RunID:     runID,
		Variant:   c.variant.Name,
		SourceURL: sourceURL,
		Columns:   c.variant.Columns,
		Records:   make([]models.Record, 0),
		StartedAt: c.now(),
	}
	log.Info().Str("run_id", runID).Str("variant", c.variant.Name).Str("url", sourceURL).Msg("Starting scraping")

	targets, err := c.discover(ctx, sourceURL, res)
	if err != nil {
		res.FatalErr = err
		c.setState(StateFatal)
		log.Error().Err(err).Str("url", sourceURL).Msg("Run failed before iterating, exporting partial data")
	} else {
		c.setState(StateListingLoaded)
		log.Info().Int("count", len(targets)).Msg("Unique players discovered")
		c.setState(StateIterating)
		c.iterate(ctx, targets, res)
	}

	c.setState(StateFinalizing)
	if c.variant.SortByID {
		SortByID(res.Records)
	}
	res.FinishedAt = c.now()

	var exportErr error
	if c.output != "" {
		paths, err := export.Export(res.Records, res.Columns, c.output)
		res.Outputs = paths.All()
		if err != nil {
			exportErr = fmt.Errorf("export %s: %w", c.output, err)
			log.Error().Err(err).Str("base", c.output).Msg("Export failed")
		}
	}

	c.setState(StateDone)
	log.Info().
		Str("run_id", runID).
		Int("records", len(res.Records)).
		Dur("elapsed", res.Elapsed()).
		Msg("Scraping process completed")
	return res, exportErr
}

func (c *Controller) discover(ctx context.Context, sourceURL string, res *models.RunResult) ([]Target, error) {
	source, err := url.Parse(sourceURL)
	if err != nil || source.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", ErrListingUnavailable, sourceURL)
	}

	c.collector.Reset(ctx)
	targets, skipped, err := c.variant.discover(ctx, c, source)
	res.Stats.SkippedRows = skipped
	if err != nil {
		return nil, err
	}

	// Repeated detail URLs collapse to their first occurrence.
	unique := make([]Target, 0, len(targets))
	for _, t := range targets {
		if c.collector.Add(ctx, t.URL) {
			unique = append(unique, t)
		}
	}
	res.Stats.Discovered = c.collector.Len()
	return unique, nil
}

// iterate visits every target in order. Cancellation stops the loop; the
// records gathered so far are kept.
func (c *Controller) iterate(ctx context.Context, targets []Target, res *models.RunResult) {
	total := len(targets)
	progress := NewProgress(total, c.now())
	between := retry.Jitter{Min: c.variant.Timing.BetweenMin, Max: c.variant.Timing.BetweenMax}

	for i, t := range targets {
		if ctx.Err() != nil {
			log.Warn().Int("remaining", total-i).Msg("Run cancelled, finalizing with partial data")
			return
		}

		log.Info().Int("index", i+1).Int("total", total).Str("url", t.URL).Msgf("Player %d/%d", i+1, total)
		res.Stats.Visited++
		log.Debug().Str("url", t.URL).Stringer("state", EntityPending).Msg("Entity queued")

		rec, state, err := c.processEntity(ctx, t)
		switch {
		case err != nil && ctx.Err() != nil:
			log.Warn().Str("url", t.URL).Msg("Run cancelled while fetching player")
			return
		case err != nil:
			res.Stats.Failed++
			log.Error().Err(err).Str("url", t.URL).Int("index", i+1).Msg("Failed to process player")
		default:
			res.Records = append(res.Records, rec)
			if state == EntitySuccess {
				res.Stats.Succeeded++
			} else {
				res.Stats.Sentinel++
			}
			c.variant.logRecord(rec)
			log.Debug().Str("url", t.URL).Stringer("state", state).Msg("Entity resolved")
		}

		eta := progress.Done(c.now())
		log.Info().Dur("eta", eta).Msgf("ETA: %.1f seconds", eta.Seconds())

		if i < total-1 {
			if err := c.sleeper.Sleep(ctx, between.Pick(c.rng)); err != nil {
				return
			}
		}
	}
}

// processEntity fetches one target, turning a panic into an error so the
// batch keeps going.
func (c *Controller) processEntity(ctx context.Context, t Target) (rec models.Record, state EntityState, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing %s: %v", t.URL, r)
		}
	}()
	return c.fetchEntity(ctx, t)
}

// fetchEntity runs the per-entity state machine: Pending -> Fetching ->
// Success | Sentinel. Exhausted retries and not-found pages both resolve to
// the variant's placeholder record.
func (c *Controller) fetchEntity(ctx context.Context, t Target) (models.Record, EntityState, error) {
	log.Debug().Str("url", t.URL).Stringer("state", EntityFetching).Msg("Entity fetching")
	timing := c.variant.Timing
	preFetch := retry.Jitter{Min: timing.PreFetchMin, Max: timing.PreFetchMax}
	settle := retry.Jitter{Min: timing.SettleMin, Max: timing.SettleMax}

	var rec models.Record
	policy := retry.Policy{
		MaxAttempts: timing.MaxRetries,
		Delay:       timing.RetryDelay,
		Jitter:      retry.Jitter{Min: timing.RetryJitterMin, Max: timing.RetryJitterMax},
		Sleeper:     c.sleeper,
		Rand:        c.rng,
		OnError: func(attempt, maxAttempts int, err error) {
			log.Warn().Err(err).Str("url", t.URL).Msgf("Attempt %d/%d failed", attempt, maxAttempts)
		},
	}

	_, err := retry.Do(ctx, policy, func(ctx context.Context, _ int) error {
		if err := c.pause(ctx, preFetch); err != nil {
			return retry.Stop(err)
		}
		if !c.renderer.Open(ctx, t.URL, timing.NavigateAttempts) {
			return fmt.Errorf("could not open %s", t.URL)
		}
		if err := c.renderer.WaitForContentReady(ctx, c.variant.DetailSelector, timing.DetailTimeout); err != nil {
			return err
		}
		if err := c.pause(ctx, settle); err != nil {
			return retry.Stop(err)
		}

		markup, err := c.renderer.CurrentMarkup(ctx)
		if err != nil {
			return err
		}
		if extractor.IsNotFoundPage(markup) {
			return retry.Stop(extractor.ErrPageNotFound)
		}
		c.snapshot(t.ID, markup)

		rec = c.variant.build(c.extractor, t, markup)
		return nil
	})

	switch {
	case err == nil:
		return rec, EntitySuccess, nil
	case ctx.Err() != nil:
		return models.Record{}, EntitySentinel, ctx.Err()
	case errors.Is(err, extractor.ErrPageNotFound):
		log.Warn().Str("url", t.URL).Msg("Page not found (404), skipping")
	default:
		log.Error().Err(err).Str("url", t.URL).Msg("All attempts failed, using placeholder values")
	}
	return c.variant.placeholder(t), EntitySentinel, nil
}

// pause sleeps for a duration picked from j; an empty range does not sleep.
func (c *Controller) pause(ctx context.Context, j retry.Jitter) error {
	d := j.Pick(c.rng)
	if d <= 0 {
		return ctx.Err()
	}
	return c.sleeper.Sleep(ctx, d)
}

func (c *Controller) snapshot(id, markup string) {
	if c.snapshots == nil {
		return
	}
	if _, err := c.snapshots.Write(id, markup); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("Failed to write debug snapshot")
	}
}

func (c *Controller) snapshotNamed(name, markup string) {
	if c.snapshots == nil || name == "" {
		return
	}
	if _, err := c.snapshots.WriteNamed(name, markup); err != nil {
		log.Warn().Err(err).Str("file", name).Msg("Failed to write listing snapshot")
	}
}
