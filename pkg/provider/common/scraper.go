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

// Package common holds the selector-driven scraping shared by the
// generic and enhanced adapter variants. The variants differ in how
// much of the descriptor's selector set they exercise, not in how they
// fetch or walk documents.
package common

import (
	"Kuroibara/pkg/antibot"
	"Kuroibara/pkg/core"
	"Kuroibara/pkg/descriptor"
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"Kuroibara/pkg/selector"
	"Kuroibara/pkg/util"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Scraper bundles what a selector-driven adapter needs to talk to its
// site and parse the responses
type Scraper struct {
	Desc   *descriptor.Descriptor
	Router *antibot.Router
	Logger logger.Logger
}

// request builds the outbound request for one operation
func (s *Scraper) request(op, rawURL string) network.Request {
	return network.Request{
		Provider:  s.Desc.ID,
		Op:        op,
		URL:       rawURL,
		Headers:   s.Desc.Headers,
		RateLimit: s.Desc.RateLimit,
		Timeout:   s.Desc.Timeout.Std(),
	}
}

// Document fetches a page (through the anti-bot router when the
// descriptor requires it) and parses it
func (s *Scraper) Document(ctx context.Context, op, rawURL string) (*goquery.Document, error) {
	body, err := s.Router.Fetch(ctx, s.request(op, rawURL), s.Desc.RequiresAntiBot)
	if err != nil {
		return nil, err
	}

	doc, err := selector.Parse(body)
	if err != nil {
		return nil, errors.Parse(s.Desc.ID, op, err)
	}
	return doc, nil
}

// AbsoluteURL resolves a possibly-relative href against the site base
func (s *Scraper) AbsoluteURL(href string) string {
	if href == "" {
		return ""
	}
	base, err := url.Parse(s.Desc.BaseURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// ExternalIDFromURL derives the provider-native slug from a link: the
// last non-empty path segment
func ExternalIDFromURL(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return strings.Trim(href, "/")
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 0 {
		return ""
	}
	return segments[len(segments)-1]
}

// ParseSearchItems walks the search result list and normalizes each
// item. full selects the enhanced field set. Exhaustion of the
// search-item chain, or of a required field on every item, is a PARSE
// failure: the required structure is gone, not merely sparse.
func (s *Scraper) ParseSearchItems(doc *goquery.Document, full bool) ([]core.Manga, error) {
	chains := &s.Desc.Selectors

	items := selector.All(doc.Selection, chains.SearchItem)
	if items == nil {
		return nil, errors.Parse(s.Desc.ID, "search",
			fmt.Errorf("search item selector chain exhausted (%d candidates tried)", len(chains.SearchItem)))
	}

	var results []core.Manga
	items.Sels.Each(func(_ int, item *goquery.Selection) {
		if manga := s.parseItem(item, full); manga != nil {
			results = append(results, *manga)
		}
	})

	if len(results) == 0 {
		return nil, errors.Parse(s.Desc.ID, "search",
			fmt.Errorf("found %d search items but no title/link resolved on any of them", items.Sels.Length()))
	}

	return results, nil
}

// parseItem normalizes one search result element. Returns nil when a
// required field (title, link) cannot be resolved on this item.
func (s *Scraper) parseItem(item *goquery.Selection, full bool) *core.Manga {
	chains := &s.Desc.Selectors
	var score selector.Score

	title := selector.One(item, chains.Title)
	if title == nil {
		return nil
	}
	score.Hit(title.ChainIndex)

	link := selector.One(item, chains.Link)
	if link == nil {
		return nil
	}
	score.Hit(link.ChainIndex)

	manga := &core.Manga{
		SourceID:   s.Desc.ID,
		ExternalID: ExternalIDFromURL(link.Attr("href")),
		Title:      title.Text(),
		Status:     core.StatusUnknown,
		NSFW:       s.Desc.NSFW,
	}

	s.resolveOptional(item, chains.Cover, &score, func(m *selector.Match) {
		manga.Cover = s.AbsoluteURL(m.Attr("data-src", "data-lazy-src", "src", "content"))
	})
	s.resolveOptional(item, chains.Description, &score, func(m *selector.Match) {
		manga.Description = m.Text()
	})

	if full {
		s.resolveEnhancedFields(item, manga, &score)
	}

	manga.Confidence = score.Mean()
	return manga
}

// MangaFromDocument normalizes a manga detail page
func (s *Scraper) MangaFromDocument(doc *goquery.Document, externalID string, full bool) (*core.Manga, error) {
	chains := &s.Desc.Selectors
	var score selector.Score

	title := selector.One(doc.Selection, chains.Title)
	if title == nil {
		return nil, errors.Parse(s.Desc.ID, "manga",
			fmt.Errorf("title selector chain exhausted for %q", externalID))
	}
	score.Hit(title.ChainIndex)

	manga := &core.Manga{
		SourceID:   s.Desc.ID,
		ExternalID: externalID,
		Title:      title.Text(),
		Status:     core.StatusUnknown,
		NSFW:       s.Desc.NSFW,
	}

	s.resolveOptional(doc.Selection, chains.Cover, &score, func(m *selector.Match) {
		manga.Cover = s.AbsoluteURL(m.Attr("data-src", "data-lazy-src", "src", "content"))
	})
	s.resolveOptional(doc.Selection, chains.Description, &score, func(m *selector.Match) {
		manga.Description = m.Text()
	})

	if full {
		s.resolveEnhancedFields(doc.Selection, manga, &score)
	}

	manga.Confidence = score.Mean()
	return manga, nil
}

// resolveEnhancedFields extracts the richer field set only the
// enhanced variant reads: status, genres, authors
func (s *Scraper) resolveEnhancedFields(root *goquery.Selection, manga *core.Manga, score *selector.Score) {
	chains := &s.Desc.Selectors

	s.resolveOptional(root, chains.Status, score, func(m *selector.Match) {
		manga.Status = core.ParseStatus(m.Text())
	})

	if len(chains.Genres) > 0 {
		if list := selector.All(root, chains.Genres); list != nil {
			score.Hit(list.ChainIndex)
			list.Sels.Each(func(_ int, sel *goquery.Selection) {
				if g := strings.TrimSpace(sel.Text()); g != "" {
					manga.Genres = append(manga.Genres, g)
				}
			})
		} else {
			score.Miss()
		}
	}

	if len(chains.Authors) > 0 {
		if list := selector.All(root, chains.Authors); list != nil {
			score.Hit(list.ChainIndex)
			list.Sels.Each(func(_ int, sel *goquery.Selection) {
				if a := strings.TrimSpace(sel.Text()); a != "" {
					manga.Authors = append(manga.Authors, a)
				}
			})
		} else {
			score.Miss()
		}
	}
}

// resolveOptional runs a chain and records hit or miss on the score.
// Chains the descriptor leaves empty are not attempted and do not
// affect confidence.
func (s *Scraper) resolveOptional(root *goquery.Selection, chain descriptor.Chain, score *selector.Score, apply func(*selector.Match)) {
	if len(chain) == 0 {
		return
	}
	if m := selector.One(root, chain); m != nil {
		score.Hit(m.ChainIndex)
		apply(m)
	} else {
		score.Miss()
	}
}

// ChaptersFromDocument walks the chapter list on a manga page.
// detectLanguage enables inline language-marker detection on chapter
// titles (enhanced variant).
func (s *Scraper) ChaptersFromDocument(doc *goquery.Document, mangaID string, detectLanguage bool) ([]core.Chapter, error) {
	chains := &s.Desc.Selectors

	items := selector.All(doc.Selection, chains.ChapterItem)
	if items == nil {
		return nil, errors.Parse(s.Desc.ID, "chapters",
			fmt.Errorf("chapter item selector chain exhausted for %q", mangaID))
	}

	var chapters []core.Chapter
	items.Sels.Each(func(_ int, item *goquery.Selection) {
		href, _ := item.Attr("href")
		if href == "" {
			// Chain may select a container rather than the link itself
			if a := item.Find("a").First(); a.Length() > 0 {
				href, _ = a.Attr("href")
			}
		}
		if href == "" {
			return
		}

		title := strings.TrimSpace(item.Text())
		if len(chains.ChapterTitle) > 0 {
			if m := selector.One(item, chains.ChapterTitle); m != nil {
				title = m.Text()
			}
		}

		number := util.ParseChapterNumber(title)
		if number < 0 {
			number = util.ParseChapterNumber(href)
		}

		chapter := core.Chapter{
			SourceID: s.Desc.ID,
			MangaID:  mangaID,
			ID:       ExternalIDFromURL(href),
			Number:   number,
			Title:    title,
		}

		if len(chains.ChapterDate) > 0 {
			if m := selector.One(item, chains.ChapterDate); m != nil {
				chapter.PublishedAt = util.ParseDate(m.Text())
			}
		}
		if detectLanguage {
			chapter.Language = util.DetectLanguage(title)
		}

		chapters = append(chapters, chapter)
	})

	if len(chapters) == 0 {
		return nil, errors.Parse(s.Desc.ID, "chapters",
			fmt.Errorf("found %d chapter items but none carried a link", items.Sels.Length()))
	}

	// Chapter numbers may be fractional; sort ascending with unknown
	// numbers first
	sort.SliceStable(chapters, func(i, j int) bool {
		return chapters[i].Number < chapters[j].Number
	})

	return chapters, nil
}

// PagesFromDocument extracts the 1-based ordered page image list from
// a chapter reading page
func (s *Scraper) PagesFromDocument(doc *goquery.Document, chapterID string) ([]core.Page, error) {
	chains := &s.Desc.Selectors

	imgs := selector.All(doc.Selection, chains.PageImage)
	if imgs == nil {
		return nil, errors.Parse(s.Desc.ID, "pages",
			fmt.Errorf("page image selector chain exhausted for %q", chapterID))
	}

	var pages []core.Page
	imgs.Sels.Each(func(_ int, img *goquery.Selection) {
		src := firstAttr(img, "data-src", "data-lazy-src", "src", "srcset")
		if src == "" {
			return
		}
		pages = append(pages, core.Page{
			Index: len(pages) + 1,
			URL:   s.AbsoluteURL(src),
		})
	})

	if len(pages) == 0 {
		return nil, errors.Parse(s.Desc.ID, "pages",
			fmt.Errorf("found %d page elements but no image URL on any of them", imgs.Sels.Length()))
	}

	return pages, nil
}

func firstAttr(sel *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
