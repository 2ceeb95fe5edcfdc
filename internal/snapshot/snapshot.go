// Package snapshot captures revealed proposal pages with headless Chrome.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ContentSelector is the wrapper every template reveals once data is in place.
const ContentSelector = "#flash-template-content"

// revealedExpr is true once the content wrapper has faded in.
const revealedExpr = `(() => {
  const el = document.querySelector('#flash-template-content');
  return !!el && getComputedStyle(el).opacity === '1';
})()`

// A4 paper size in inches.
const (
	A4Width  = 8.27
	A4Height = 11.69
)

// Options controls how a page is captured.
type Options struct {
	Timeout    time.Duration
	Landscape  bool
	Background bool
	// Paper size in inches. Zero means A4.
	PaperWidth  float64
	PaperHeight float64
	Logger      *zap.Logger
}

// DefaultOptions returns A4 portrait with backgrounds and a 30s timeout.
func DefaultOptions() Options {
	return Options{Timeout: 30 * time.Second, Background: true, PaperWidth: A4Width, PaperHeight: A4Height}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.PaperWidth <= 0 {
		o.PaperWidth = d.PaperWidth
	}
	if o.PaperHeight <= 0 {
		o.PaperHeight = d.PaperHeight
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// PDF loads url, waits for the content to be revealed and prints it.
// Requires Chrome/Chromium to be installed on the system.
func PDF(ctx context.Context, url string, opts Options) ([]byte, error) {
	opts = opts.withDefaults()
	var pdf []byte
	err := run(ctx, url, opts, chromedp.ActionFunc(func(ctx context.Context) error {
		buf, _, err := page.PrintToPDF().
			WithPrintBackground(opts.Background).
			WithLandscape(opts.Landscape).
			WithPaperWidth(opts.PaperWidth).
			WithPaperHeight(opts.PaperHeight).
			Do(ctx)
		if err != nil {
			return err
		}
		pdf = buf
		return nil
	}))
	if err != nil {
		return nil, err
	}
	opts.Logger.Info("pdf captured", zap.String("url", url), zap.Int("bytes", len(pdf)))
	return pdf, nil
}

// HTML loads url, waits for the content to be revealed and returns the outer
// HTML of the document.
func HTML(ctx context.Context, url string, opts Options) (string, error) {
	opts = opts.withDefaults()
	var html string
	if err := run(ctx, url, opts, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	opts.Logger.Info("html captured", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}

func run(ctx context.Context, url string, opts Options, capture chromedp.Action) error {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	opts.Logger.Debug("loading page", zap.String("url", url))
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(ContentSelector, chromedp.ByQuery),
		chromedp.Poll(revealedExpr, nil, chromedp.WithPollingInterval(50*time.Millisecond)),
		capture,
	)
	if err != nil {
		return fmt.Errorf("snapshot of %s failed: %w", url, err)
	}
	return nil
}
