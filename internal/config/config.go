// engine/internal/config/config.go
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Scrape struct {
		BaseURL               string  `yaml:"base_url"`
		MaxPages              int     `yaml:"max_pages"`
		ThrottleSeconds       float64 `yaml:"throttle_seconds"`
		RequestTimeoutSeconds int     `yaml:"request_timeout_seconds"`
		UserAgent             string  `yaml:"user_agent"`
		UseBrowser            bool    `yaml:"use_browser"`
		UseBrowserDetail      bool    `yaml:"use_browser_detail"`
	} `yaml:"scrape"`

	Detail struct {
		Enabled  bool `yaml:"enabled"`
		MaxItems int  `yaml:"max_items"`
		Workers  int  `yaml:"workers"`
	} `yaml:"detail"`

	Polling struct {
		// 0 disables the background scrape loop
		ScrapeSeconds int `yaml:"scrape_seconds"`
	} `yaml:"polling"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}
