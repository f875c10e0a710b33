// Package render provides rendered-DOM access to JavaScript-driven pages
// through a managed browser-automation session.
package render

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"blogharvest/internal/logger"
)

const (
	// DefaultNavigationTimeout bounds a single page load.
	DefaultNavigationTimeout = 30 * time.Second
	// DefaultSettleDelay is the extra wait after body-ready for client-side
	// rendering to populate the DOM.
	DefaultSettleDelay = 2 * time.Second
	// DefaultUserAgent is a realistic desktop user agent.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Loader provides rendered-DOM access to arbitrary URLs.
type Loader interface {
	Load(ctx context.Context, url string) (*Page, error)
}

// SessionConfig configures a browser session.
type SessionConfig struct {
	// NavigationTimeout bounds a single Load call.
	NavigationTimeout time.Duration
	// SettleDelay is the post-navigation wait for scripts to render content.
	SettleDelay time.Duration
	// UserAgent is sent with every request.
	UserAgent string
	// Headless controls whether the browser runs without a display.
	Headless bool
}

// Session owns a single browser-automation session. One session serves one
// ingestion run; it must never be shared across concurrent runs.
type Session struct {
	cfg SessionConfig
	log logger.Interface

	mu            sync.Mutex
	browserCtx    context.Context
	allocCancel   context.CancelFunc
	browserCancel context.CancelFunc
	closed        bool
}

var _ Loader = (*Session)(nil)

// NewSession creates an unopened browser session.
func NewSession(cfg SessionConfig, log logger.Interface) *Session {
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultNavigationTimeout
	}
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = DefaultSettleDelay
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if log == nil {
		log = logger.NewNoOp()
	}

	return &Session{cfg: cfg, log: log}
}

// Open launches the browser. Idempotent: a second call on an open session is
// a no-op. Fails with ErrSessionStart when the engine cannot launch and with
// ErrSessionClosed after Close.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if s.browserCtx != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.UserAgent(s.cfg.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...any) {}))

	// Run with no actions forces the browser process to start, so launch
	// failures surface here instead of on the first Load.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("%w: %v", ErrSessionStart, err)
	}

	s.browserCtx = browserCtx
	s.browserCancel = browserCancel
	s.allocCancel = allocCancel
	s.log.Debug("Browser session opened", "user_agent", s.cfg.UserAgent)

	return nil
}

// Load navigates to url, waits for the page to settle, and returns a DOM
// snapshot. Fails with ErrNavigation on timeout or transport failure; the
// session stays usable for subsequent loads.
func (s *Session) Load(ctx context.Context, url string) (*Page, error) {
	s.mu.Lock()
	browserCtx := s.browserCtx
	closed := s.closed
	s.mu.Unlock()

	if closed || browserCtx == nil {
		return nil, ErrSessionClosed
	}

	navCtx, cancel := context.WithTimeout(browserCtx, s.cfg.NavigationTimeout)
	defer cancel()
	// Propagate caller cancellation into the browser context.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var html, finalURL string
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(s.cfg.SettleDelay),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}

	if finalURL == "" {
		finalURL = url
	}
	s.log.Debug("Page loaded", "url", url, "final_url", finalURL, "html_bytes", len(html))

	return NewPage(html, finalURL)
}

// Close releases the browser and all associated resources. Safe to call
// multiple times; every Open must be matched by exactly one effective Close.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true

	if s.browserCancel != nil {
		s.browserCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	s.browserCtx = nil
	s.log.Debug("Browser session closed")
}
