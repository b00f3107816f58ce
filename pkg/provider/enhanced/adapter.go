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

// Package enhanced implements the scraper variant for sites with
// volatile markup. It exists because single-selector scraping breaks
// too often: every field carries a multi-candidate fallback chain, and
// the adapter reads the full field set (status, genres, authors,
// inline language markers) the generic variant skips.
package enhanced

import (
	"Kuroibara/pkg/antibot"
	"Kuroibara/pkg/core"
	"Kuroibara/pkg/descriptor"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/provider/common"
	"context"
)

// Adapter scrapes volatile-markup sites with full fallback chains
type Adapter struct {
	scraper common.Scraper
}

// New creates an enhanced selector adapter for a descriptor
func New(desc *descriptor.Descriptor, router *antibot.Router, log logger.Logger) *Adapter {
	return &Adapter{
		scraper: common.Scraper{Desc: desc, Router: router, Logger: log},
	}
}

func (a *Adapter) Descriptor() *descriptor.Descriptor {
	return a.scraper.Desc
}

// Search runs a search page scrape with the full field set
func (a *Adapter) Search(ctx context.Context, query string, page int) ([]core.Manga, error) {
	if page < 1 {
		page = 1
	}
	doc, err := a.scraper.Document(ctx, "search", a.scraper.Desc.SearchPageURL(query, page))
	if err != nil {
		return nil, err
	}
	return a.scraper.ParseSearchItems(doc, true)
}

// FetchManga scrapes a manga detail page including status, genres and
// authors
func (a *Adapter) FetchManga(ctx context.Context, externalID string) (*core.Manga, error) {
	doc, err := a.scraper.Document(ctx, "manga", a.scraper.Desc.MangaPageURL(externalID))
	if err != nil {
		return nil, err
	}
	return a.scraper.MangaFromDocument(doc, externalID, true)
}

// FetchChapters scrapes the chapter list, detecting inline language
// markers on chapter titles
func (a *Adapter) FetchChapters(ctx context.Context, externalID string) ([]core.Chapter, error) {
	doc, err := a.scraper.Document(ctx, "chapters", a.scraper.Desc.MangaPageURL(externalID))
	if err != nil {
		return nil, err
	}
	return a.scraper.ChaptersFromDocument(doc, externalID, true)
}

// FetchPages scrapes the page image list from a chapter reading page
func (a *Adapter) FetchPages(ctx context.Context, mangaID, chapterID string) ([]core.Page, error) {
	doc, err := a.scraper.Document(ctx, "pages", a.scraper.Desc.ChapterPageURL(mangaID, chapterID))
	if err != nil {
		return nil, err
	}
	return a.scraper.PagesFromDocument(doc, chapterID)
}
