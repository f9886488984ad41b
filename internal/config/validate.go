package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus everything a caller
// should surface before running with this config.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	out.Scrape.BaseURL = strings.TrimRight(strings.TrimSpace(out.Scrape.BaseURL), "/")
	out.Scrape.UserAgent = strings.TrimSpace(out.Scrape.UserAgent)

	// ---- Defaults for zero values ----
	if out.Scrape.MaxPages == 0 {
		out.Scrape.MaxPages = 20
	}
	if out.Scrape.RequestTimeoutSeconds == 0 {
		out.Scrape.RequestTimeoutSeconds = 20
	}
	if out.Scrape.ThrottleSeconds == 0 {
		out.Scrape.ThrottleSeconds = 1.0
	}
	if out.Detail.MaxItems == 0 {
		out.Detail.MaxItems = 400
	}
	if out.Detail.Workers == 0 {
		out.Detail.Workers = 6
	}

	// ---- Validation rules ----

	if out.Scrape.BaseURL == "" {
		res.addErr("scrape.base_url is required")
	} else if !strings.HasPrefix(out.Scrape.BaseURL, "http://") && !strings.HasPrefix(out.Scrape.BaseURL, "https://") {
		res.addErr("scrape.base_url must be an http(s) URL")
	}

	if out.Scrape.MaxPages < 0 {
		res.addErr("scrape.max_pages must be >= 0")
	}
	if out.Scrape.RequestTimeoutSeconds <= 0 {
		res.addErr("scrape.request_timeout_seconds must be > 0")
	}
	if out.Scrape.ThrottleSeconds < 0 {
		res.addErr("scrape.throttle_seconds must be >= 0")
	} else if out.Scrape.ThrottleSeconds < 0.2 {
		res.addWarn("scrape.throttle_seconds is very low (%.2f); the site may start blocking.", out.Scrape.ThrottleSeconds)
	}

	if out.Detail.MaxItems < 0 {
		res.addErr("detail.max_items must be >= 0")
	}
	if out.Detail.Workers < 1 {
		res.addErr("detail.workers must be >= 1")
	} else if out.Detail.Workers > 32 {
		res.addWarn("detail.workers is high (%d); detail pages render a browser each.", out.Detail.Workers)
	}

	if out.App.Port != 0 && (out.App.Port < 1 || out.App.Port > 65535) {
		res.addErr("app.port must be 1..65535")
	}

	if out.Polling.ScrapeSeconds < 0 {
		res.addErr("polling.scrape_seconds must be >= 0 (0 disables)")
	} else if out.Polling.ScrapeSeconds > 0 && out.Polling.ScrapeSeconds < 600 {
		res.addWarn("polling.scrape_seconds under 10 minutes re-crawls the whole site aggressively.")
	}

	if !out.Scrape.UseBrowser {
		res.addWarn("scrape.use_browser is false; only listing page 1 can be collected.")
	}

	return out, res
}
