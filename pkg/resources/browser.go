package resources

import (
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// SetupBrowser returns the existing browser handle, launching one if
// necessary. Returns nil when the launch or connect fails; the cause is
// logged, never raised.
func (s *SystemResources) SetupBrowser() *rod.Browser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setupBrowserLocked()
}

func (s *SystemResources) setupBrowserLocked() *rod.Browser {
	if s.browser != nil {
		s.logger.Debug().Msg("Browser already initialized")
		return s.browser
	}

	l := launcher.New().Headless(s.cfg.Headless)
	if s.cfg.NoSandbox {
		l = l.NoSandbox(true)
	}

	controlURL, err := l.Launch()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to launch browser")
		return nil
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Kill()
		s.logger.Error().Err(err).Msg("Failed to connect to browser")
		return nil
	}

	s.browser = browser
	s.launcher = l
	s.logger.Info().Msg("Browser initialized successfully")
	return s.browser
}

// CloseBrowser releases the browser handle and its process. Safe to call
// when no browser is active.
func (s *SystemResources) CloseBrowser() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return
	}

	if err := s.browser.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("Error closing browser")
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}

	s.browser = nil
	s.launcher = nil
	s.logger.Info().Msg("Browser closed")
}

// Search issues a web search and extracts the first result's heading and
// link. Every failure is returned as a descriptive string containing
// "Error"; this function never returns a Go error.
func (s *SystemResources) Search(query string) string {
	s.mu.Lock()
	browser := s.setupBrowserLocked()
	s.mu.Unlock()

	if browser == nil {
		return "Error: failed to initialize browser"
	}

	searchURL := s.cfg.SearchURL + url.QueryEscape(query)

	page, err := browser.Page(proto.TargetCreateTarget{URL: searchURL})
	if err != nil {
		s.logger.Error().Err(err).Msg("Browser search failed to open page")
		return fmt.Sprintf("Error: browser search: %v", err)
	}
	defer page.Close()

	s.logger.Info().Str("url", searchURL).Msg("Navigated to search page")

	page = page.Timeout(s.cfg.SearchTimeout)

	first, err := page.Element(s.cfg.ResultSelector)
	if err != nil {
		s.logger.Error().Err(err).Msg("Browser search timed out waiting for results")
		return fmt.Sprintf("Error: browser search: %v", err)
	}

	heading, err := first.Element("h3")
	if err != nil {
		return fmt.Sprintf("Error: browser search: %v", err)
	}
	title, err := heading.Text()
	if err != nil {
		return fmt.Sprintf("Error: browser search: %v", err)
	}

	anchor, err := first.Element("a")
	if err != nil {
		return fmt.Sprintf("Error: browser search: %v", err)
	}
	href, err := anchor.Attribute("href")
	if err != nil || href == nil {
		return "Error: browser search: missing result link"
	}

	result := fmt.Sprintf("Title: %s\nURL: %s", title, *href)
	s.logger.Info().Str("result", result).Msg("First search result retrieved")
	return result
}

// Screenshot captures a full-page screenshot of the most recently opened
// browser page and returns it base64 encoded. The browser page is the only
// display surface this process owns.
func (s *SystemResources) Screenshot() string {
	s.mu.Lock()
	browser := s.setupBrowserLocked()
	s.mu.Unlock()

	if browser == nil {
		return "Error: screenshot: failed to initialize browser"
	}

	pages, err := browser.Pages()
	if err != nil {
		s.logger.Error().Err(err).Msg("Screenshot failed to list pages")
		return fmt.Sprintf("Error: screenshot: %v", err)
	}
	if len(pages) == 0 {
		return "Error: screenshot: no page open"
	}

	data, err := pages[0].Screenshot(true, nil)
	if err != nil {
		s.logger.Error().Err(err).Msg("Screenshot capture failed")
		return fmt.Sprintf("Error: screenshot: %v", err)
	}

	return base64.StdEncoding.EncodeToString(data)
}
