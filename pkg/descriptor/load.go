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
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type file struct {
	Providers []Descriptor `yaml:"providers"`
}

// Load parses a descriptor config from a reader. The config is a YAML
// document with a top-level "providers" list.
func Load(r io.Reader) ([]Descriptor, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading provider config: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing provider config: %w", err)
	}
	if len(f.Providers) == 0 {
		return nil, fmt.Errorf("provider config contains no providers")
	}

	return f.Providers, nil
}

// LoadFile loads descriptors from a YAML file on disk
func LoadFile(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening provider config: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	return Load(f)
}

var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,image/apng,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// Defaults returns the built-in descriptor set used when no config file
// is present. Madara-theme selector chains cover a large share of
// scraper sites out of the box.
func Defaults() []Descriptor {
	return []Descriptor{
		{
			ID:       "mangadex",
			Name:     "MangaDex",
			Kind:     KindAPI,
			BaseURL:  "https://api.mangadex.org",
			Priority: 1,
			Enabled:  true,
			API: &APIConfig{
				UploadsURL: "https://uploads.mangadex.org",
				PageSize:   20,
			},
		},
		{
			ID:         "manhuaplus",
			Name:       "ManhuaPlus",
			Kind:       KindGeneric,
			BaseURL:    "https://manhuaplus.com",
			SearchURL:  "/?s={query}&post_type=wp-manga&paged={page}",
			MangaURL:   "/manga/{manga_id}/",
			ChapterURL: "/manga/{manga_id}/{chapter_id}/",
			Priority:   5,
			Enabled:    true,
			Headers:    defaultHeaders,
			RateLimit:  1,
			Selectors: Selectors{
				SearchItem:  Chain{"div.c-tabs-item__content"},
				Title:       Chain{"div.post-title h3 a"},
				Link:        Chain{"div.post-title h3 a"},
				Cover:       Chain{"div.tab-thumb img"},
				Description: Chain{"div.description-summary div.summary__content"},
				ChapterItem: Chain{"li.wp-manga-chapter > a"},
				ChapterDate: Chain{"span.chapter-release-date i"},
				PageImage:   Chain{"div.page-break img"},
			},
		},
		{
			ID:         "toonily",
			Name:       "Toonily",
			Kind:       KindEnhanced,
			BaseURL:    "https://toonily.com",
			SearchURL:  "/search/{query}/page/{page}/",
			MangaURL:   "/webtoon/{manga_id}/",
			ChapterURL: "/webtoon/{manga_id}/{chapter_id}/",
			NSFW:       true,
			Priority:   10,
			Enabled:    true,
			Headers:    defaultHeaders,
			RateLimit:  0.5,
			RequiresAntiBot: true,
			Selectors: Selectors{
				SearchItem:  Chain{"div.page-item-detail.manga", "div.c-tabs-item__content"},
				Title:       Chain{"div.post-title h3 a", "div.post-title h5 a", "h1.post-title"},
				Link:        Chain{"div.post-title h3 a", "div.post-title h5 a", "a"},
				Cover:       Chain{"div.item-thumb img", "div.tab-thumb img", "div.summary_image img"},
				Description: Chain{"div.summary__content p", "div.description-summary div.summary__content", "div.manga-excerpt"},
				Status:      Chain{"div.post-status div.summary-content", "div.post-content_item:contains(Status) div.summary-content"},
				Genres:      Chain{"div.genres-content a", "div.summary-content a[rel=tag]"},
				Authors:     Chain{"div.author-content a", "div.artist-content a"},
				ChapterItem: Chain{"li.wp-manga-chapter > a", "ul.main li.parent a", "div.listing-chapters_wrap a"},
				ChapterDate: Chain{"span.chapter-release-date i", "span.chapter-release-date a"},
				PageImage:   Chain{"div.page-break source", "div.page-break img", ".reading-content img"},
			},
		},
	}
}
