// Package config loads the bot definition: the dialogue graph, synonym
// groups, FAQ entries, suggestion edges, the auto-complete vocabulary and
// the sample shop data. The definition is plain YAML; a stock e-commerce
// support flow is embedded as the default.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aarush-luthra/smart-customer-support-chatbot/internal/shop"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/domain"
	"github.com/aarush-luthra/smart-customer-support-chatbot/pkg/faq"
)

//go:embed default.yaml
var defaultYAML []byte

// SynonymGroup seeds one equivalence class. Members are unioned against the
// canonical phrase in listed order, which keeps representatives stable
// across restarts.
type SynonymGroup struct {
	Canonical string   `yaml:"canonical"`
	Members   []string `yaml:"members"`
}

// SuggestionSource is the outgoing edge list of one node, in ranking
// tie-break order.
type SuggestionSource struct {
	Source string                  `yaml:"source"`
	Edges  []domain.SuggestionEdge `yaml:"edges"`
}

// Autocomplete tunes the prefix index.
type Autocomplete struct {
	MinPrefix int `yaml:"min_prefix"`
	Limit     int `yaml:"limit"`
}

// Config is the full bot definition.
type Config struct {
	Root         string             `yaml:"root"`
	HistoryDepth int                `yaml:"history_depth"`
	Autocomplete Autocomplete       `yaml:"autocomplete"`
	Vocabulary   []string           `yaml:"vocabulary"`
	Synonyms     []SynonymGroup     `yaml:"synonyms"`
	FAQ          []faq.Entry        `yaml:"faq"`
	Nodes        []domain.Node      `yaml:"nodes"`
	Suggestions  []SuggestionSource `yaml:"suggestions"`
	Orders       []shop.Order       `yaml:"orders"`
	Products     []shop.Product     `yaml:"products"`
}

// Default returns the embedded stock definition.
func Default() (*Config, error) {
	return parse(defaultYAML)
}

// Load reads a definition from path, or the embedded default when path is
// empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot config: %w", err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse bot config: %w", err)
	}
	cfg.applyDefaults()

	if len(cfg.Nodes) == 0 {
		return nil, fmt.Errorf("bot config defines no dialogue nodes")
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Root == "" {
		c.Root = "root"
	}
	if c.HistoryDepth <= 0 {
		c.HistoryDepth = 10
	}
	if c.Autocomplete.MinPrefix <= 0 {
		c.Autocomplete.MinPrefix = 2
	}
	if c.Autocomplete.Limit <= 0 {
		c.Autocomplete.Limit = 8
	}
}
