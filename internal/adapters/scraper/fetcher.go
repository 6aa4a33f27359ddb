package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	defaultPageTimeout = 60 * time.Second
	userAgent          = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	nextDataSelector   = `#__NEXT_DATA__`
)

// Fetcher returns the __NEXT_DATA__ JSON of a review page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// BrowserFetcher loads pages in headless Chrome.
type BrowserFetcher struct {
	browserCtx  context.Context
	cancel      context.CancelFunc
	pageTimeout time.Duration
}

// NewBrowserFetcher starts a headless browser. Close releases it.
func NewBrowserFetcher(ctx context.Context) *BrowserFetcher {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(userAgent),
	)
	if bin := findChromeBinary(); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...any) {}))

	return &BrowserFetcher{
		browserCtx: browserCtx,
		cancel: func() {
			cancelBrowser()
			cancelAlloc()
		},
		pageTimeout: defaultPageTimeout,
	}
}

// Fetch navigates to url and reads the page's __NEXT_DATA__ script.
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(f.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, f.pageTimeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	var data string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady(nextDataSelector, chromedp.ByQuery),
		chromedp.TextContent(nextDataSelector, &data, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}
	return []byte(data), nil
}

// Close shuts the browser down.
func (f *BrowserFetcher) Close() {
	f.cancel()
}

// findChromeBinary locates a Chrome or Chromium binary; empty means chromedp's default lookup.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}
	for _, name := range []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
