package browser

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// chromeDriver runs every action on one chromedp tab.
type chromeDriver struct {
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	navTimeout  time.Duration
}

func newChromeDriver(cfg Config, userAgent string) (*chromeDriver, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), AllocatorOptions(cfg.Headless, userAgent)...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	d := &chromeDriver{
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		navTimeout:  cfg.NavigateTimeout,
	}

	// The first Run launches the browser process.
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extraHeaders()),
	); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// run executes actions on the tab, bounded by timeout (if positive) and by
// the caller's ctx.
func (d *chromeDriver) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		runCtx, cancel = context.WithTimeout(d.tabCtx, timeout)
	} else {
		runCtx, cancel = context.WithCancel(d.tabCtx)
	}
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	return chromedp.Run(runCtx, actions...)
}

func (d *chromeDriver) Navigate(ctx context.Context, url string) error {
	return d.run(ctx, d.navTimeout, chromedp.Navigate(url))
}

func (d *chromeDriver) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	return d.run(ctx, timeout, chromedp.WaitReady(selector, chromedp.ByQuery))
}

func (d *chromeDriver) ScrollToBottom(ctx context.Context) error {
	return d.run(ctx, 0, chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil))
}

func (d *chromeDriver) DocumentHeight(ctx context.Context) (int64, error) {
	var height int64
	err := d.run(ctx, 0, chromedp.Evaluate(`document.body.scrollHeight`, &height))
	return height, err
}

func (d *chromeDriver) OuterHTML(ctx context.Context) (string, error) {
	var markup string
	err := d.run(ctx, 0, chromedp.OuterHTML("html", &markup, chromedp.ByQuery))
	return markup, err
}

func (d *chromeDriver) Close() {
	if d.tabCancel != nil {
		d.tabCancel()
	}
	if d.allocCancel != nil {
		d.allocCancel()
	}
}
