package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

func EnsureUserConfig(dataDir string, defaultPath string) (string, error) {
	userPath := filepath.Join(dataDir, "config.yml")

	_, err := os.Stat(userPath)
	if err == nil {
		return userPath, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	// Copy defaultPath -> userPath
	src, err := os.Open(defaultPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(userPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return userPath, nil
}

// LoadDotenv reads .env from the working dir if present. Missing files are
// fine; the yaml config carries the defaults.
func LoadDotenv() {
	_ = godotenv.Load()
}

// applyEnvOverrides lets a .env / process env override the yaml keys the
// scraper is usually tuned with between runs.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.Scrape.BaseURL = v
	}
	if v := os.Getenv("USER_AGENT"); v != "" {
		cfg.Scrape.UserAgent = sanitizeUA(v)
	}
	if v, ok := envInt("MAX_PAGES"); ok {
		cfg.Scrape.MaxPages = v
	}
	if v, ok := envInt("REQUEST_TIMEOUT"); ok {
		cfg.Scrape.RequestTimeoutSeconds = v
	}
	if v, ok := envFloat("THROTTLE_SECONDS"); ok {
		cfg.Scrape.ThrottleSeconds = v
	}
	if v, ok := envBool("USE_BROWSER"); ok {
		cfg.Scrape.UseBrowser = v
		cfg.Scrape.UseBrowserDetail = v
	}
	if v, ok := envBool("USE_BROWSER_DETAIL"); ok {
		cfg.Scrape.UseBrowserDetail = v
	}
	if v, ok := envBool("DETAIL_ENRICH"); ok {
		cfg.Detail.Enabled = v
	}
	if v, ok := envInt("DETAIL_MAX"); ok {
		cfg.Detail.MaxItems = v
	}
	if v, ok := envInt("DETAIL_WORKERS"); ok {
		cfg.Detail.Workers = v
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func envBool(key string) (bool, bool) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return false, false
	}
	switch v {
	case "1", "true", "yes", "y", "on":
		return true, true
	default:
		return false, true
	}
}

// sanitizeUA strips the quotes .env files tend to wrap user agents in.
func sanitizeUA(ua string) string {
	ua = strings.TrimSpace(ua)
	if len(ua) >= 2 {
		if (ua[0] == '"' && ua[len(ua)-1] == '"') || (ua[0] == '\'' && ua[len(ua)-1] == '\'') {
			ua = ua[1 : len(ua)-1]
		}
	}
	return ua
}
