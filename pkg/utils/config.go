package utils

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// BridgeConfig holds runtime settings for the bridge and the scraper
// CLI. Values come from an optional TOML file (FITSCROLL_CONFIG) with
// FITSCROLL_* environment variables taking precedence over both the
// file and the dev defaults.
type BridgeConfig struct {
	Addr            string `toml:"addr"`
	DataDir         string `toml:"data_dir"`
	Source          string `toml:"source"`
	MirrorURL       string `toml:"mirror_url"`
	SkipDownload    bool   `toml:"skip_download"`
	DownloadTimeout int    `toml:"download_timeout_seconds"`
}

func defaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		Addr:            ":8000",
		DataDir:         "local_db",
		Source:          "pinterest",
		MirrorURL:       "http://localhost:9000/urls",
		DownloadTimeout: 20,
	}
}

// LoadBridgeConfig resolves the effective configuration from defaults,
// the optional TOML file, and the environment, in that order.
func LoadBridgeConfig() (BridgeConfig, error) {
	cfg := defaultBridgeConfig()

	if path := os.Getenv("FITSCROLL_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("FITSCROLL_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("FITSCROLL_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FITSCROLL_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := os.Getenv("FITSCROLL_MIRROR_URL"); v != "" {
		cfg.MirrorURL = v
	}
	if v := os.Getenv("FITSCROLL_SKIP_DOWNLOAD"); v != "" {
		cfg.SkipDownload = v == "1" || strings.EqualFold(v, "true")
	}

	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 20
	}
	return cfg, nil
}

// HTTPTimeout bounds each image download request.
func (c BridgeConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.DownloadTimeout) * time.Second
}
