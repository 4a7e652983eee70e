package scraper

import (
	"fmt"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// systemChromiumPath is where the Docker image installs Chromium. When the
// binary exists we use it instead of letting rod download its own build.
const systemChromiumPath = "/usr/bin/chromium-browser"

// BrowserSession owns the process-wide headless browser used by the
// rendered-fetch path. The browser is launched lazily on first use and
// shared across tasks; concurrent pages against one session are safe.
type BrowserSession struct {
	mu      sync.Mutex
	browser *rod.Browser
	log     *zap.SugaredLogger
}

// NewBrowserSession creates an unstarted session. No browser process exists
// until the first Browser call.
func NewBrowserSession(log *zap.SugaredLogger) *BrowserSession {
	return &BrowserSession{log: log}
}

// Browser returns the shared browser, launching it if needed. A launch or
// connect failure leaves the session unstarted so a later call can retry.
func (s *BrowserSession) Browser() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().
		Headless(true).
		NoSandbox(true).
		Leakless(false)

	bin := os.Getenv("BROWSER_PATH")
	if bin == "" {
		if _, err := os.Stat(systemChromiumPath); err == nil {
			bin = systemChromiumPath
		}
	}
	if bin != "" {
		l = l.Bin(bin)
		s.log.Infow("using configured browser binary", "path", bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	s.log.Infow("browser session started", "controlURL", controlURL)
	s.browser = browser
	return s.browser, nil
}

// Recycle closes the current browser so the next use relaunches a fresh
// one. Long-lived Chromium processes accumulate memory; the scheduler calls
// this periodically.
func (s *BrowserSession) Recycle() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return
	}
	if err := s.browser.Close(); err != nil {
		s.log.Warnw("error closing browser during recycle", "error", err)
	}
	s.browser = nil
	s.log.Info("browser session recycled")
}

// Close releases the browser on shutdown.
func (s *BrowserSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return
	}
	if err := s.browser.Close(); err != nil {
		s.log.Warnw("error closing browser", "error", err)
	}
	s.browser = nil
}
