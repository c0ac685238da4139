package pipeline

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog/log"

	"rosterscraper/internal/config"
	"rosterscraper/internal/extractor"
	"rosterscraper/internal/models"
	"rosterscraper/internal/retry"
	"rosterscraper/internal/util"
)

// Variant names.
const (
	ProfileName   = "profile"
	ValuationName = "valuation"
)

const (
	profileListingSelector   = "table tbody tr"
	profileDetailSelector    = "body"
	valuationListingSelector = "tbody"
	valuationDetailSelector  = "div.grid"
)

// ProfileColumns is the full-profile record layout.
var ProfileColumns = []string{
	"ID", "Name", "Age", "Overall", "Potential", "Position",
	"Height", "Weight", "Pref.Foot", "Skill Moves",
	"Weak Foot", "Contract", "Nationality",
}

// ValuationColumns is the name/value/wage record layout.
var ValuationColumns = []string{"ID", "Name", "Value", "Wage"}

// Target is one detail page to visit.
type Target struct {
	URL string
	ID  string
	// Ref is the listing row the target came from, when the variant reads rows.
	Ref *models.EntityReference
}

// Variant is a named pipeline configuration: how the listing is discovered,
// which readiness marker a detail page waits for, and how markup becomes a record.
type Variant struct {
	Name           string
	Columns        []string
	Timing         config.PipelineConfig
	DetailSelector string
	SortByID       bool
	// ListingDump names the snapshot of the listing page; empty skips it.
	ListingDump string

	discover    func(ctx context.Context, c *Controller, source *url.URL) ([]Target, int, error)
	build       func(e *extractor.Extractor, t Target, markup string) models.Record
	placeholder func(t Target) models.Record
	logRecord   func(rec models.Record)
}

// Profile reads the roster table and mines the full profile of every player.
// Rows are sorted by id.
func Profile(timing config.PipelineConfig) Variant {
	return Variant{
		Name:           ProfileName,
		Columns:        ProfileColumns,
		Timing:         timing,
		DetailSelector: profileDetailSelector,
		SortByID:       true,
		discover:       discoverProfile,
		build: func(e *extractor.Extractor, t Target, markup string) models.Record {
			return profileRecord(t, e.ExtractEntityDetail(markup))
		},
		placeholder: func(t Target) models.Record {
			return profileRecord(t, models.EmptyDetail())
		},
		logRecord: func(rec models.Record) {
			log.Info().Msgf("ID: %s | Player Name: %s | Ovrl: %s | Pot: %s | Nat: %s",
				rec.Get(0), rec.Get(1), rec.Get(3), rec.Get(4), rec.Get(12))
		},
	}
}

// Valuation collects player links and mines name, value and wage. Rows keep
// visiting order.
func Valuation(timing config.PipelineConfig, listingDump string) Variant {
	return Variant{
		Name:           ValuationName,
		Columns:        ValuationColumns,
		Timing:         timing,
		DetailSelector: valuationDetailSelector,
		ListingDump:    listingDump,
		discover:       discoverValuation,
		build: func(e *extractor.Extractor, t Target, markup string) models.Record {
			v := e.ExtractValuation(markup)
			return models.Record{Values: []string{t.ID, v.Name, v.MarketValue, v.Wage}}
		},
		placeholder: func(t Target) models.Record {
			v := models.EmptyValuation()
			return models.Record{Values: []string{t.ID, v.Name, v.MarketValue, v.Wage}}
		},
		logRecord: func(rec models.Record) {
			log.Info().Msgf("%s | %s | Value: %s | Wage: %s", rec.Get(0), rec.Get(1), rec.Get(2), rec.Get(3))
		},
	}
}

func profileRecord(t Target, d models.EntityDetail) models.Record {
	ref := models.EntityReference{ID: t.ID, Name: models.Sentinel, DetailURL: t.URL,
		Age: models.Sentinel, Overall: models.Sentinel, Potential: models.Sentinel, Position: models.Sentinel}
	if t.Ref != nil {
		ref = *t.Ref
	}
	return models.Record{Values: []string{
		ref.ID, ref.Name, ref.Age, ref.Overall, ref.Potential, ref.Position,
		d.Height, d.Weight, d.PreferredFoot, d.SkillMoves, d.WeakFoot, d.ContractEnd, d.Nationality,
	}}
}

// discoverProfile loads the team page once (with navigation retries), waits
// for the roster rows and reads them.
func discoverProfile(ctx context.Context, c *Controller, source *url.URL) ([]Target, int, error) {
	timing := c.variant.Timing

	if !c.renderer.Open(ctx, source.String(), timing.NavigateAttempts) {
		return nil, 0, fmt.Errorf("%w: could not open %s", ErrListingUnavailable, source)
	}
	if err := c.renderer.ScrollToStableHeight(ctx); err != nil {
		log.Warn().Err(err).Msg("Scrolling the team page failed, continuing with what rendered")
	}
	if err := c.pause(ctx, retry.Jitter{Min: timing.ListingSettle, Max: timing.ListingSettle}); err != nil {
		return nil, 0, err
	}
	if err := c.renderer.WaitForContentReady(ctx, profileListingSelector, timing.ListingTimeout); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
	}

	markup, err := c.renderer.CurrentMarkup(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
	}

	refs, stats := c.extractor.ExtractEntityReferences(markup, source)
	log.Info().Int("rows", stats.Rows).Int("skipped", stats.Skipped).Msgf("Number of player rows found: %d", stats.Rows)

	targets := make([]Target, 0, len(refs))
	for i := range refs {
		targets = append(targets, Target{URL: refs[i].DetailURL, ID: refs[i].ID, Ref: &refs[i]})
	}
	return targets, stats.Skipped, nil
}

// discoverValuation retries the whole listing load: pre-delay, open, scroll,
// dump, wait for the table body, then collect player links.
func discoverValuation(ctx context.Context, c *Controller, source *url.URL) ([]Target, int, error) {
	timing := c.variant.Timing
	preFetch := retry.Jitter{Min: timing.PreFetchMin, Max: timing.PreFetchMax}

	var links []string
	policy := retry.Policy{
		MaxAttempts: timing.MaxRetries,
		Delay:       timing.RetryDelay,
		Sleeper:     c.sleeper,
		Rand:        c.rng,
		OnError: func(attempt, maxAttempts int, err error) {
			log.Warn().Err(err).Str("url", source.String()).
				Msgf("Failed to retrieve player list (Attempt %d/%d)", attempt, maxAttempts)
		},
	}

	_, err := retry.Do(ctx, policy, func(ctx context.Context, _ int) error {
		if err := c.pause(ctx, preFetch); err != nil {
			return retry.Stop(err)
		}
		log.Info().Str("url", source.String()).Msg("Loading team page")
		if !c.renderer.Open(ctx, source.String(), timing.NavigateAttempts) {
			return fmt.Errorf("could not open %s", source)
		}
		if err := c.renderer.ScrollToStableHeight(ctx); err != nil {
			return err
		}

		markup, err := c.renderer.CurrentMarkup(ctx)
		if err != nil {
			return err
		}
		c.snapshotNamed(c.variant.ListingDump, markup)

		if err := c.renderer.WaitForContentReady(ctx, valuationListingSelector, timing.ListingTimeout); err != nil {
			return err
		}
		if markup, err = c.renderer.CurrentMarkup(ctx); err != nil {
			return err
		}

		links = c.extractor.ExtractEntityLinks(markup, source)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrListingUnavailable, err)
	}

	log.Info().Int("links", len(links)).Msgf("Number of player links found: %d", len(links))
	if len(links) == 0 {
		log.Warn().Msg("No player elements found on page. Ensure selector is correct or page has loaded.")
	}

	targets := make([]Target, 0, len(links))
	for _, l := range links {
		targets = append(targets, Target{URL: l, ID: util.EntityID(l)})
	}
	return targets, 0, nil
}
