// Kuroibara: A multi-source manga search and aggregation engine.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package descriptor

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Kind selects the adapter variant built for a descriptor at registry
// load time
type Kind string

const (
	// KindGeneric is a selector-driven scraper with single-entry chains
	KindGeneric Kind = "generic"
	// KindEnhanced is a selector-driven scraper with multi-candidate
	// fallback chains per field, for sites with volatile markup
	KindEnhanced Kind = "enhanced"
	// KindAPI is a first-party JSON API client; no selector resolution
	KindAPI Kind = "api"
)

// Chain is an ordered list of CSS selectors, most specific first
type Chain []string

// Selectors holds the named selector chains a scraper descriptor uses.
// Every field is a fallback chain; only the fields Validate marks as
// required must be non-empty.
type Selectors struct {
	SearchItem  Chain `yaml:"search_item"`
	Title       Chain `yaml:"title"`
	Link        Chain `yaml:"link"`
	Cover       Chain `yaml:"cover"`
	Description Chain `yaml:"description"`
	Status      Chain `yaml:"status"`
	Genres      Chain `yaml:"genres"`
	Authors     Chain `yaml:"authors"`

	ChapterItem   Chain `yaml:"chapter_item"`
	ChapterTitle  Chain `yaml:"chapter_title"`
	ChapterNumber Chain `yaml:"chapter_number"`
	ChapterDate   Chain `yaml:"chapter_date"`

	PageImage Chain `yaml:"page_image"`
}

// APIConfig carries the extra knobs a dedicated-API descriptor needs
type APIConfig struct {
	// UploadsURL is the base for cover/page image construction when the
	// API serves images from a separate host
	UploadsURL string `yaml:"uploads_url"`
	// PageSize is the result window requested per search call
	PageSize int `yaml:"page_size"`
}

// Duration wraps time.Duration for YAML config ("8s", "1m30s")
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// Descriptor is the immutable static configuration for one external
// site. Loaded once at startup; never mutated at runtime (enable state
// is overlaid per request, see registry.Preferences).
type Descriptor struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Kind Kind   `yaml:"kind"`

	BaseURL string `yaml:"base_url"`
	// URL templates. Placeholders: {query}, {page}, {manga_id}, {chapter_id}
	SearchURL  string `yaml:"search_url"`
	MangaURL   string `yaml:"manga_url"`
	ChapterURL string `yaml:"chapter_url"`

	NSFW            bool `yaml:"nsfw"`
	Priority        int  `yaml:"priority"`
	Enabled         bool `yaml:"enabled"`
	RequiresAntiBot bool `yaml:"requires_anti_bot"`

	Headers map[string]string `yaml:"headers"`

	// RateLimit is the request budget in requests per second; zero
	// means the client default applies
	RateLimit float64 `yaml:"rate_limit"`
	// Timeout bounds one request to this provider; zero means the
	// engine default applies
	Timeout Duration `yaml:"timeout"`

	Selectors Selectors  `yaml:"selectors"`
	API       *APIConfig `yaml:"api"`
}

// scraper reports whether the descriptor drives a selector-based adapter
func (d *Descriptor) scraper() bool {
	return d.Kind == KindGeneric || d.Kind == KindEnhanced
}

// Validate checks the descriptor invariants. A failure here is a
// deploy-time configuration defect; the registry refuses to load.
func (d *Descriptor) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("descriptor has empty id")
	}
	if d.Name == "" {
		return fmt.Errorf("descriptor %q has empty name", d.ID)
	}
	switch d.Kind {
	case KindGeneric, KindEnhanced, KindAPI:
	default:
		return fmt.Errorf("descriptor %q has unknown kind %q", d.ID, d.Kind)
	}

	if _, err := url.ParseRequestURI(d.BaseURL); err != nil {
		return fmt.Errorf("descriptor %q has malformed base_url: %w", d.ID, err)
	}

	if d.scraper() {
		if err := d.validateTemplate("search_url", d.SearchURL, "{query}"); err != nil {
			return err
		}
		if err := d.validateTemplate("manga_url", d.MangaURL, "{manga_id}"); err != nil {
			return err
		}
		if err := d.validateTemplate("chapter_url", d.ChapterURL, "{chapter_id}"); err != nil {
			return err
		}

		required := map[string]Chain{
			"search_item":  d.Selectors.SearchItem,
			"title":        d.Selectors.Title,
			"link":         d.Selectors.Link,
			"chapter_item": d.Selectors.ChapterItem,
			"page_image":   d.Selectors.PageImage,
		}
		for name, chain := range required {
			if len(chain) == 0 {
				return fmt.Errorf("descriptor %q missing required selector chain %q", d.ID, name)
			}
		}
	}

	return nil
}

func (d *Descriptor) validateTemplate(name, tmpl, placeholder string) error {
	if tmpl == "" {
		return fmt.Errorf("descriptor %q missing %s template", d.ID, name)
	}
	if !strings.Contains(tmpl, placeholder) {
		return fmt.Errorf("descriptor %q: %s template missing %s placeholder", d.ID, name, placeholder)
	}
	return nil
}

// SearchPageURL expands the search template for a query and page number
func (d *Descriptor) SearchPageURL(query string, page int) string {
	u := strings.ReplaceAll(d.SearchURL, "{query}", url.QueryEscape(query))
	u = strings.ReplaceAll(u, "{page}", strconv.Itoa(page))
	return d.absolute(u)
}

// MangaPageURL expands the manga template for a provider-native id
func (d *Descriptor) MangaPageURL(mangaID string) string {
	return d.absolute(strings.ReplaceAll(d.MangaURL, "{manga_id}", mangaID))
}

// ChapterPageURL expands the chapter template
func (d *Descriptor) ChapterPageURL(mangaID, chapterID string) string {
	u := strings.ReplaceAll(d.ChapterURL, "{manga_id}", mangaID)
	u = strings.ReplaceAll(u, "{chapter_id}", chapterID)
	return d.absolute(u)
}

// absolute resolves template paths against the base URL
func (d *Descriptor) absolute(raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimRight(d.BaseURL, "/") + "/" + strings.TrimLeft(raw, "/")
}
