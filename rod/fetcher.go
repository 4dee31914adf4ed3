// Package rod provides a pagemig.Fetcher that renders pages in headless
// Chrome, for sources whose lazy-loaded images are only filled in by script.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/pagemig"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Fetcher implements pagemig.Fetcher at compile time.
var _ pagemig.Fetcher = (*Fetcher)(nil)

// Defaults for NewFetcher.
const (
	DefaultFetchTimeout = 30 * time.Second
	DefaultMaxPages     = 75
	DefaultSettle       = 2 * time.Second
)

// scrollScript scrolls to the bottom of the page so lazy-load observers
// swap their placeholders for real image sources.
const scrollScript = `() => window.scrollTo(0, document.body.scrollHeight)`

// Fetcher retrieves rendered HTML using Chrome browser automation.
// The browser is relaunched after a fixed number of pages; Chrome's memory
// baseline grows over long runs even when every page is closed.
type Fetcher struct {
	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	closed   bool

	timeout  time.Duration
	maxPages int
	settle   time.Duration
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each Fetch call.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.timeout = d }
}

// WithMaxPages sets how many pages are rendered before the browser is
// relaunched.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) { f.maxPages = n }
}

// WithSettle sets how long to wait for the page to go idle after scrolling.
func WithSettle(d time.Duration) Option {
	return func(f *Fetcher) { f.settle = d }
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:  DefaultFetchTimeout,
		maxPages: DefaultMaxPages,
		settle:   DefaultSettle,
	}
	for _, opt := range opts {
		opt(f)
	}
	if err := f.launch(); err != nil {
		return nil, err
	}
	return f, nil
}

// Fetch navigates to url, scrolls to trigger lazy loading, and returns the
// rendered HTML. A non-2xx document response returns a *pagemig.FetchError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.acquire()
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", f.wrap(url, err)
	}
	defer page.Close()

	var status int
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return "", f.wrap(url, err)
	}
	waitResponse()
	if status != 0 && (status < 200 || status > 299) {
		return "", &pagemig.FetchError{URL: url, StatusCode: status}
	}

	if err := page.WaitLoad(); err != nil {
		return "", f.wrap(url, err)
	}
	if _, err := page.Eval(scrollScript); err != nil {
		return "", f.wrap(url, err)
	}
	// Idle timeouts are expected on pages with long-polling scripts.
	_ = page.WaitIdle(f.settle)

	html, err := page.HTML()
	if err != nil {
		return "", f.wrap(url, err)
	}
	return html, nil
}

func (f *Fetcher) wrap(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return pagemig.Errorf(pagemig.ETIMEOUT, "render %s: timed out after %s", url, f.timeout)
	}
	return fmt.Errorf("render %s: %w", url, err)
}

// acquire returns the current browser, relaunching it once maxPages pages
// have been rendered. If the relaunch fails the old browser is kept.
func (f *Fetcher) acquire() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, pagemig.Errorf(pagemig.EINVALID, "fetcher is closed")
	}

	if f.maxPages > 0 && f.pages >= f.maxPages {
		oldBrowser, oldLauncher := f.browser, f.launcher
		if err := f.launch(); err == nil {
			_ = oldBrowser.Close()
			oldLauncher.Kill()
			f.pages = 0
		}
	}
	f.pages++
	return f.browser, nil
}

// launch starts a browser with flags that keep background pages rendering.
func (f *Fetcher) launch() error {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("connecting to browser: %w", err)
	}

	f.browser = browser
	f.launcher = l
	return nil
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	err := f.browser.Close()
	f.launcher.Kill()
	return err
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.launcher.PID()
}
