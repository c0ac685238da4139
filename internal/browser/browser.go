// Package browser owns the single headless Chrome session a run drives.
package browser

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"rosterscraper/internal/retry"
)

// ErrContentTimeout is returned when a readiness selector never appeared.
// Callers treat it as recoverable.
var ErrContentTimeout = errors.New("browser: content not ready before timeout")

// MaxScrollIterations bounds ScrollToStableHeight on pages that keep growing.
const MaxScrollIterations = 50

const (
	windowWidth    = 1920
	windowHeight   = 1080
	acceptLanguage = "en-US,en;q=0.9"
)

// Config is the session's identity and pacing.
type Config struct {
	Headless   bool
	UserAgents []string
	// NavigateRetryDelay is the fixed pause between failed navigations.
	NavigateRetryDelay time.Duration
	NavigateTimeout    time.Duration
	ScrollPollMin      time.Duration
	ScrollPollMax      time.Duration
	MaxScrollIters     int
	// MaxNavigationsPerSecond throttles page loads; 0 disables the limiter.
	MaxNavigationsPerSecond float64

	Rand    *rand.Rand
	Sleeper retry.Sleeper
}

// driver is the slice of browser automation a Session needs. The chromedp
// implementation lives in chrome.go.
type driver interface {
	Navigate(ctx context.Context, url string) error
	WaitReady(ctx context.Context, selector string, timeout time.Duration) error
	ScrollToBottom(ctx context.Context) error
	DocumentHeight(ctx context.Context) (int64, error)
	OuterHTML(ctx context.Context) (string, error)
	Close()
}

// Session wraps one browser for the lifetime of a run. It is not safe for
// concurrent use; the pipeline drives it from a single goroutine.
type Session struct {
	cfg       Config
	userAgent string
	drv       driver
	limiter   *rate.Limiter
	closeOnce sync.Once
}

// NewSession picks a user agent, launches Chrome and opens a tab.
func NewSession(cfg Config) (*Session, error) {
	cfg = withDefaults(cfg)
	ua := PickUserAgent(cfg.UserAgents, cfg.Rand)

	drv, err := newChromeDriver(cfg, ua)
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}

	log.Info().Str("user_agent", ua).Bool("headless", cfg.Headless).Msg("Browser session started")
	return newSession(cfg, ua, drv), nil
}

func newSession(cfg Config, ua string, drv driver) *Session {
	s := &Session{
		cfg:       withDefaults(cfg),
		userAgent: ua,
		drv:       drv,
	}
	if cfg.MaxNavigationsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.MaxNavigationsPerSecond), 1)
	}
	return s
}

func withDefaults(cfg Config) Config {
	if cfg.Sleeper == nil {
		cfg.Sleeper = retry.ContextSleeper
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.MaxScrollIters <= 0 {
		cfg.MaxScrollIters = MaxScrollIterations
	}
	return cfg
}

// PickUserAgent returns one entry of pool chosen uniformly with r.
func PickUserAgent(pool []string, r *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}
	if r == nil {
		return pool[0]
	}
	return pool[r.Intn(len(pool))]
}

// AllocatorOptions returns the Chrome flags for the given identity.
func AllocatorOptions(headless bool, userAgent string) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.Flag("start-maximized", true),
		chromedp.WindowSize(windowWidth, windowHeight),
	)
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	return opts
}

// Open navigates to url, retrying failed navigations up to maxAttempts times
// with a fixed pause. It reports false only when every attempt failed.
func (s *Session) Open(ctx context.Context, url string, maxAttempts int) bool {
	policy := retry.Policy{
		MaxAttempts: maxAttempts,
		Delay:       s.cfg.NavigateRetryDelay,
		Sleeper:     s.cfg.Sleeper,
		Rand:        s.cfg.Rand,
		OnError: func(attempt, maxAttempts int, err error) {
			log.Warn().Err(err).Str("url", url).Int("attempt", attempt).Int("max_attempts", maxAttempts).Msg("Navigation failed")
		},
	}

	_, err := retry.Do(ctx, policy, func(ctx context.Context, _ int) error {
		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return retry.Stop(err)
			}
		}
		return s.drv.Navigate(ctx, url)
	})
	if err != nil {
		log.Error().Err(err).Str("url", url).Str("user_agent", s.userAgent).Msg("Giving up on navigation")
		return false
	}
	return true
}

// WaitForContentReady blocks until selector matches an element or timeout
// elapses. Elapsing yields ErrContentTimeout.
func (s *Session) WaitForContentReady(ctx context.Context, selector string, timeout time.Duration) error {
	err := s.drv.WaitReady(ctx, selector, timeout)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %q after %s", ErrContentTimeout, selector, timeout)
	}
	return fmt.Errorf("wait for %q: %w", selector, err)
}

// ScrollToStableHeight scrolls to the bottom until two consecutive height
// measurements agree, pausing between scrolls for lazy content to load.
func (s *Session) ScrollToStableHeight(ctx context.Context) error {
	last, err := s.drv.DocumentHeight(ctx)
	if err != nil {
		return fmt.Errorf("measure height: %w", err)
	}

	pause := retry.Jitter{Min: s.cfg.ScrollPollMin, Max: s.cfg.ScrollPollMax}
	for i := 1; i <= s.cfg.MaxScrollIters; i++ {
		if err := s.drv.ScrollToBottom(ctx); err != nil {
			return fmt.Errorf("scroll: %w", err)
		}
		if err := s.cfg.Sleeper.Sleep(ctx, pause.Pick(s.cfg.Rand)); err != nil {
			return err
		}

		height, err := s.drv.DocumentHeight(ctx)
		if err != nil {
			return fmt.Errorf("measure height: %w", err)
		}
		if height == last {
			log.Debug().Int("iterations", i).Int64("height", height).Msg("Page height stable")
			return nil
		}
		last = height
	}

	log.Warn().Int("max_iterations", s.cfg.MaxScrollIters).Int64("height", last).Msg("Page height never settled, stopping scroll")
	return nil
}

// CurrentMarkup returns the rendered document as HTML.
func (s *Session) CurrentMarkup(ctx context.Context) (string, error) {
	markup, err := s.drv.OuterHTML(ctx)
	if err != nil {
		return "", fmt.Errorf("read markup: %w", err)
	}
	return markup, nil
}

// Close shuts the browser down. It is safe to call more than once and on a
// session whose driver never started.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.drv != nil {
			s.drv.Close()
		}
		log.Debug().Msg("Browser session closed")
	})
}

// extraHeaders is applied once per tab.
func extraHeaders() network.Headers {
	return network.Headers{"Accept-Language": acceptLanguage}
}
