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

package api

import (
	"Kuroibara/pkg/descriptor"
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
  "result": "ok",
  "data": [
    {
      "id": "manga-uuid-1",
      "attributes": {
        "title": {"en": "Chainsaw Man", "ja": "チェンソーマン"},
        "description": {"en": "Denji and his chainsaw devil."},
        "status": "ongoing",
        "contentRating": "safe",
        "tags": [
          {"attributes": {"name": {"en": "Action"}}},
          {"attributes": {"name": {"en": "Horror"}}}
        ]
      },
      "relationships": [
        {"id": "author-1", "type": "author", "attributes": {"name": "Tatsuki Fujimoto"}},
        {"id": "cover-1", "type": "cover_art", "attributes": {"fileName": "cover.jpg"}}
      ]
    }
  ],
  "total": 1
}`

const feedBody = `{
  "data": [
    {"id": "ch-uuid-1", "attributes": {"title": "Dog and Chainsaw", "chapter": "1", "publishAt": "2020-03-03T00:00:00+00:00", "translatedLanguage": "en"}},
    {"id": "ch-uuid-2", "attributes": {"title": "", "chapter": "1.5", "publishAt": "2020-03-10T00:00:00+00:00", "translatedLanguage": "en"}},
    {"id": "ch-uuid-3", "attributes": {"title": "Oneshot", "chapter": "", "translatedLanguage": "en"}}
  ],
  "total": 3
}`

const atHomeBody = `{
  "baseUrl": "https://node.mangadex.network",
  "chapter": {
    "hash": "abc123",
    "data": ["1.png", "2.png", "3.png"]
  }
}`

func apiAdapter(base string, nsfw bool) *Adapter {
	desc := &descriptor.Descriptor{
		ID:        "mangadex",
		Name:      "MangaDex",
		Kind:      descriptor.KindAPI,
		BaseURL:   base,
		NSFW:      nsfw,
		Enabled:   true,
		RateLimit: 1000,
		API: &descriptor.APIConfig{
			UploadsURL: "https://uploads.example.org",
			PageSize:   25,
		},
	}
	return New(desc, network.NewClient(logger.Nop()), logger.Nop())
}

func TestSearchNormalizesRecords(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga", r.URL.Path)
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(searchBody))
	}))
	defer srv.Close()

	results, err := apiAdapter(srv.URL, false).Search(context.Background(), "chainsaw", 2)
	require.NoError(t, err)
	require.Len(t, results, 1)

	m := results[0]
	assert.Equal(t, "mangadex", m.SourceID)
	assert.Equal(t, "manga-uuid-1", m.ExternalID)
	assert.Equal(t, "Chainsaw Man", m.Title)
	assert.Equal(t, "Denji and his chainsaw devil.", m.Description)
	assert.Equal(t, []string{"Action", "Horror"}, m.Genres)
	assert.Equal(t, []string{"Tatsuki Fujimoto"}, m.Authors)
	assert.Equal(t, "https://uploads.example.org/covers/manga-uuid-1/cover.jpg.256.jpg", m.Cover)
	assert.False(t, m.NSFW)
	// API records never go through selector fallback
	assert.Equal(t, 1.0, m.Confidence)

	assert.Equal(t, []string{"chainsaw"}, gotQuery["title"])
	assert.Equal(t, []string{"25"}, gotQuery["limit"])
	assert.Equal(t, []string{"25"}, gotQuery["offset"]) // page 2, size 25
	assert.NotContains(t, gotQuery["contentRating[]"], "pornographic")
}

func TestSearchNSFWGating(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{"result":"ok","data":[],"total":0}`))
	}))
	defer srv.Close()

	_, err := apiAdapter(srv.URL, true).Search(context.Background(), "x", 1)
	require.NoError(t, err)
	assert.Contains(t, gotQuery["contentRating[]"], "erotica")
	assert.Contains(t, gotQuery["contentRating[]"], "pornographic")
}

func TestFetchChapters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/manga/manga-uuid-1/feed", r.URL.Path)
		_, _ = w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	chapters, err := apiAdapter(srv.URL, false).FetchChapters(context.Background(), "manga-uuid-1")
	require.NoError(t, err)
	require.Len(t, chapters, 3)

	assert.Equal(t, "ch-uuid-1", chapters[0].ID)
	assert.Equal(t, 1.0, chapters[0].Number)
	assert.Equal(t, "Dog and Chainsaw", chapters[0].Title)
	require.NotNil(t, chapters[0].Language)
	assert.Equal(t, "en", *chapters[0].Language)
	require.NotNil(t, chapters[0].PublishedAt)

	assert.Equal(t, 1.5, chapters[1].Number)

	// Unnumbered chapters stay visible with the sentinel
	assert.Equal(t, -1.0, chapters[2].Number)
	assert.Nil(t, chapters[2].PublishedAt)
}

func TestFetchPages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/at-home/server/ch-uuid-1", r.URL.Path)
		_, _ = w.Write([]byte(atHomeBody))
	}))
	defer srv.Close()

	pages, err := apiAdapter(srv.URL, false).FetchPages(context.Background(), "manga-uuid-1", "ch-uuid-1")
	require.NoError(t, err)
	require.Len(t, pages, 3)

	assert.Equal(t, 1, pages[0].Index)
	assert.Equal(t, "https://node.mangadex.network/data/abc123/1.png", pages[0].URL)
	assert.Equal(t, 3, pages[2].Index)
}

// A schema the decoder cannot make sense of is a PARSE failure, not a
// network one
func TestMalformedResponseIsParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>maintenance page</html>`))
	}))
	defer srv.Close()

	_, err := apiAdapter(srv.URL, false).Search(context.Background(), "x", 1)
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
}

func TestFetchPagesMissingHashIsParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"baseUrl":"","chapter":{"hash":"","data":[]}}`))
	}))
	defer srv.Close()

	_, err := apiAdapter(srv.URL, false).FetchPages(context.Background(), "m", "c")
	require.Error(t, err)
	assert.True(t, errors.IsParse(err))
}
