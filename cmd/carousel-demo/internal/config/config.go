package config

import (
	stderrors "errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/image/colornames"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/carousel/pkg/errors"
	"github.com/go-drift/carousel/pkg/scrollphase"
)

// FileName is the optional config file looked up in the working directory.
const FileName = "carousel.yaml"

// Config represents the optional carousel.yaml configuration.
type Config struct {
	Carousel CarouselConfig `yaml:"carousel"`
	Runtime  RuntimeConfig  `yaml:"runtime"`
	Items    []ItemConfig   `yaml:"items,omitempty"`
}

// CarouselConfig contains layout and paging settings, in terminal cells.
type CarouselConfig struct {
	Spacing    int    `yaml:"spacing,omitempty"`
	CardWidth  int    `yaml:"card_width,omitempty"`
	CardHeight int    `yaml:"card_height,omitempty"`
	AutoScroll string `yaml:"auto_scroll,omitempty"`
	Selected   int    `yaml:"selected,omitempty"`
}

// RuntimeConfig selects the scroll-phase capability of the host.
type RuntimeConfig struct {
	Version string `yaml:"version,omitempty"`
}

// ItemConfig describes one card.
type ItemConfig struct {
	Title string `yaml:"title"`
	Color string `yaml:"color,omitempty"`
}

// Item is a resolved card.
type Item struct {
	Title     string
	ColorName string
	Color     color.RGBA
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Spacing        int
	CardWidth      int
	CardHeight     int
	AutoScroll     time.Duration
	Selected       int
	RuntimeVersion string
	Items          []Item
}

const (
	defaultSpacing        = 2
	defaultCardWidth      = 24
	defaultCardHeight     = 7
	defaultRuntimeVersion = "18.0"
)

var defaultItems = []ItemConfig{
	{Title: "Coral Reef", Color: "coral"},
	{Title: "Steel Harbor", Color: "steelblue"},
	{Title: "Olive Grove", Color: "olivedrab"},
	{Title: "Goldenrod Fields", Color: "goldenrod"},
	{Title: "Orchid House", Color: "mediumorchid"},
	{Title: "Slate Ridge", Color: "slategray"},
}

// LoadOptional reads the config file at path if present.
func LoadOptional(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}

	return &cfg, nil
}

// Resolve loads the config file (if present) and resolves defaults.
// A non-empty runtimeOverride replaces the configured runtime version.
// Failures are classified as errors.KindConfig.
func Resolve(path, runtimeOverride string) (*Resolved, error) {
	cfg, err := LoadOptional(path)
	if err != nil {
		return nil, errors.Wrap("config.Resolve", errors.KindConfig, err)
	}
	r, err := cfg.Resolve(runtimeOverride)
	if err != nil {
		return nil, errors.Wrap("config.Resolve", errors.KindConfig, err)
	}
	return r, nil
}

// Resolve applies defaults and validates values.
func (c *Config) Resolve(runtimeOverride string) (*Resolved, error) {
	r := &Resolved{
		Spacing:    orDefault(c.Carousel.Spacing, defaultSpacing),
		CardWidth:  orDefault(c.Carousel.CardWidth, defaultCardWidth),
		CardHeight: orDefault(c.Carousel.CardHeight, defaultCardHeight),
		Selected:   c.Carousel.Selected,
	}
	if r.Spacing < 0 || r.CardWidth < 0 || r.CardHeight < 0 {
		return nil, fmt.Errorf("carousel sizes must not be negative")
	}

	if raw := strings.TrimSpace(c.Carousel.AutoScroll); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid auto_scroll %q: %w", raw, err)
		}
		r.AutoScroll = d
	}

	r.RuntimeVersion = strings.TrimSpace(runtimeOverride)
	if r.RuntimeVersion == "" {
		r.RuntimeVersion = strings.TrimSpace(c.Runtime.Version)
	}
	if r.RuntimeVersion == "" {
		r.RuntimeVersion = defaultRuntimeVersion
	}
	if _, err := scrollphase.CanonicalVersion(r.RuntimeVersion); err != nil {
		return nil, err
	}

	items := c.Items
	if len(items) == 0 {
		items = defaultItems
	}
	r.Items = make([]Item, 0, len(items))
	for i, item := range items {
		name := strings.ToLower(strings.TrimSpace(item.Color))
		if name == "" {
			name = defaultItems[i%len(defaultItems)].Color
		}
		rgba, ok := colornames.Map[name]
		if !ok {
			return nil, fmt.Errorf("item %d: unknown color %q", i, item.Color)
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = fmt.Sprintf("Card %d", i+1)
		}
		r.Items = append(r.Items, Item{Title: title, ColorName: name, Color: rgba})
	}

	return r, nil
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
