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

// Package api implements the dedicated-API adapter variant. It speaks
// the MangaDex first-party JSON contract and bypasses selector
// resolution entirely; records it produces carry full confidence.
package api

import (
	"Kuroibara/pkg/core"
	"Kuroibara/pkg/descriptor"
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const defaultPageSize = 20

// Adapter is a client for a MangaDex-compatible API
type Adapter struct {
	desc   *descriptor.Descriptor
	client *network.Client
	logger logger.Logger
}

// New creates a dedicated API adapter for a descriptor
func New(desc *descriptor.Descriptor, client *network.Client, log logger.Logger) *Adapter {
	return &Adapter{desc: desc, client: client, logger: log}
}

func (a *Adapter) Descriptor() *descriptor.Descriptor {
	return a.desc
}

func (a *Adapter) pageSize() int {
	if a.desc.API != nil && a.desc.API.PageSize > 0 {
		return a.desc.API.PageSize
	}
	return defaultPageSize
}

func (a *Adapter) request(op, rawURL string) network.Request {
	return network.Request{
		Provider:  a.desc.ID,
		Op:        op,
		URL:       rawURL,
		Headers:   a.desc.Headers,
		RateLimit: a.desc.RateLimit,
		Timeout:   a.desc.Timeout.Std(),
	}
}

// Search queries the /manga endpoint
func (a *Adapter) Search(ctx context.Context, query string, page int) ([]core.Manga, error) {
	if page < 1 {
		page = 1
	}
	size := a.pageSize()

	params := url.Values{}
	params.Set("title", query)
	params.Set("limit", strconv.Itoa(size))
	params.Set("offset", strconv.Itoa((page-1)*size))
	params.Add("includes[]", "author")
	params.Add("includes[]", "cover_art")
	params.Add("contentRating[]", "safe")
	params.Add("contentRating[]", "suggestive")
	if a.desc.NSFW {
		params.Add("contentRating[]", "erotica")
		params.Add("contentRating[]", "pornographic")
	}

	var resp searchResponse
	reqURL := fmt.Sprintf("%s/manga?%s", a.desc.BaseURL, params.Encode())
	if err := a.client.FetchJSON(ctx, a.request("search", reqURL), &resp); err != nil {
		return nil, err
	}
	if resp.Result != "" && resp.Result != "ok" {
		return nil, errors.Parse(a.desc.ID, "search",
			fmt.Errorf("API returned result %q", resp.Result))
	}

	results := make([]core.Manga, 0, len(resp.Data))
	for i := range resp.Data {
		results = append(results, *a.normalize(&resp.Data[i]))
	}
	return results, nil
}

// FetchManga queries /manga/{id}
func (a *Adapter) FetchManga(ctx context.Context, externalID string) (*core.Manga, error) {
	params := url.Values{}
	params.Add("includes[]", "author")
	params.Add("includes[]", "cover_art")

	var resp mangaResponse
	reqURL := fmt.Sprintf("%s/manga/%s?%s", a.desc.BaseURL, url.PathEscape(externalID), params.Encode())
	if err := a.client.FetchJSON(ctx, a.request("manga", reqURL), &resp); err != nil {
		return nil, err
	}
	if resp.Data.ID == "" {
		return nil, errors.Parse(a.desc.ID, "manga",
			fmt.Errorf("API response carries no manga for %q", externalID))
	}

	return a.normalize(&resp.Data), nil
}

// FetchChapters queries the /manga/{id}/feed endpoint
func (a *Adapter) FetchChapters(ctx context.Context, externalID string) ([]core.Chapter, error) {
	params := url.Values{}
	params.Set("limit", "500")
	params.Set("order[chapter]", "asc")

	var resp feedResponse
	reqURL := fmt.Sprintf("%s/manga/%s/feed?%s", a.desc.BaseURL, url.PathEscape(externalID), params.Encode())
	if err := a.client.FetchJSON(ctx, a.request("chapters", reqURL), &resp); err != nil {
		return nil, err
	}

	chapters := make([]core.Chapter, 0, len(resp.Data))
	for _, item := range resp.Data {
		number := -1.0
		if item.Attributes.Chapter != "" {
			if n, err := strconv.ParseFloat(item.Attributes.Chapter, 64); err == nil {
				number = n
			}
		}

		chapter := core.Chapter{
			SourceID: a.desc.ID,
			MangaID:  externalID,
			ID:       item.ID,
			Number:   number,
			Title:    item.Attributes.Title,
		}
		if lang := item.Attributes.TranslatedLanguage; lang != "" {
			chapter.Language = &lang
		}
		if !item.Attributes.PublishAt.IsZero() {
			t := item.Attributes.PublishAt
			chapter.PublishedAt = &t
		}
		chapters = append(chapters, chapter)
	}

	return chapters, nil
}

// FetchPages queries the at-home server for a chapter's image list
func (a *Adapter) FetchPages(ctx context.Context, mangaID, chapterID string) ([]core.Page, error) {
	var resp pagesResponse
	reqURL := fmt.Sprintf("%s/at-home/server/%s", a.desc.BaseURL, url.PathEscape(chapterID))
	if err := a.client.FetchJSON(ctx, a.request("pages", reqURL), &resp); err != nil {
		return nil, err
	}
	if resp.BaseURL == "" || resp.Chapter.Hash == "" {
		return nil, errors.Parse(a.desc.ID, "pages",
			fmt.Errorf("at-home response missing baseUrl/hash for chapter %q", chapterID))
	}

	pages := make([]core.Page, 0, len(resp.Chapter.Data))
	for i, file := range resp.Chapter.Data {
		pages = append(pages, core.Page{
			Index: i + 1,
			URL:   fmt.Sprintf("%s/data/%s/%s", resp.BaseURL, resp.Chapter.Hash, file),
		})
	}
	return pages, nil
}

// normalize maps one API manga object onto the canonical record
func (a *Adapter) normalize(data *mangaData) *core.Manga {
	manga := &core.Manga{
		SourceID:    a.desc.ID,
		ExternalID:  data.ID,
		Title:       pickLocalized(data.Attributes.Title),
		Description: pickLocalized(data.Attributes.Description),
		Status:      core.ParseStatus(data.Attributes.Status),
		NSFW:        data.Attributes.ContentRating == "erotica" || data.Attributes.ContentRating == "pornographic",
		Confidence:  1.0,
	}

	for _, tag := range data.Attributes.Tags {
		if name := pickLocalized(tag.Attributes.Name); name != "" {
			manga.Genres = append(manga.Genres, name)
		}
	}

	for _, rel := range data.Relationships {
		switch rel.Type {
		case "author", "artist":
			if rel.Attributes.Name != "" {
				manga.Authors = append(manga.Authors, rel.Attributes.Name)
			}
		case "cover_art":
			if rel.Attributes.FileName != "" {
				manga.Cover = fmt.Sprintf("%s/covers/%s/%s.256.jpg", a.uploadsURL(), data.ID, rel.Attributes.FileName)
			}
		}
	}

	return manga
}

func (a *Adapter) uploadsURL() string {
	if a.desc.API != nil && a.desc.API.UploadsURL != "" {
		return a.desc.API.UploadsURL
	}
	return a.desc.BaseURL
}

// pickLocalized prefers the English entry of a localized string map,
// falling back to any value
func pickLocalized(m map[string]string) string {
	if v, ok := m["en"]; ok && v != "" {
		return v
	}
	for _, v := range m {
		if v != "" {
			return v
		}
	}
	return ""
}

// Response shapes for the MangaDex API contract

type mangaData struct {
	ID         string `json:"id"`
	Attributes struct {
		Title         map[string]string `json:"title"`
		Description   map[string]string `json:"description"`
		Status        string            `json:"status"`
		ContentRating string            `json:"contentRating"`
		Tags          []struct {
			Attributes struct {
				Name map[string]string `json:"name"`
			} `json:"attributes"`
		} `json:"tags"`
	} `json:"attributes"`
	Relationships []struct {
		ID         string `json:"id"`
		Type       string `json:"type"`
		Attributes struct {
			Name     string `json:"name"`
			FileName string `json:"fileName"`
		} `json:"attributes"`
	} `json:"relationships"`
}

type searchResponse struct {
	Result string      `json:"result"`
	Data   []mangaData `json:"data"`
	Total  int         `json:"total"`
}

type mangaResponse struct {
	Result string    `json:"result"`
	Data   mangaData `json:"data"`
}

type feedResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Title              string    `json:"title"`
			Chapter            string    `json:"chapter"`
			Volume             string    `json:"volume"`
			PublishAt          time.Time `json:"publishAt"`
			TranslatedLanguage string    `json:"translatedLanguage"`
		} `json:"attributes"`
	} `json:"data"`
	Total int `json:"total"`
}

type pagesResponse struct {
	BaseURL string `json:"baseUrl"`
	Chapter struct {
		Hash string   `json:"hash"`
		Data []string `json:"data"`
	} `json:"chapter"`
}
