// Package source contains one adapter per external news provider. Each
// adapter owns its endpoint, credential and format quirks, and maps its
// raw payload into the canonical article schema with a single explicit
// per-provider normalize function.
package source

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"newshub/internal/feed"
)

// Adapter wraps one external provider. Fetch must capture every
// failure (network, auth, malformed payload) into its error return and
// must honor ctx cancellation; it never panics across this boundary.
type Adapter interface {
	Name() string
	// Weight steers the page-size split across adapters; the heaviest
	// adapter is treated as the primary source.
	Weight() int
	Fetch(ctx context.Context, q feed.SourceQuery) ([]feed.Article, error)
}

// FeedSource is one RSS feed entry from the sources config file.
type FeedSource struct {
	URL      string `yaml:"url"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type sourcesFile struct {
	Feeds []FeedSource `yaml:"feeds"`
}

// LoadFeeds reads the RSS feed list from a YAML file.
func LoadFeeds(path string) ([]FeedSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg sourcesFile
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg.Feeds, nil
}
