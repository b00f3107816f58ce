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

package enhanced

import (
	"Kuroibara/pkg/antibot"
	"Kuroibara/pkg/core"
	"Kuroibara/pkg/descriptor"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Detail page in a Madara-like layout after a theme update: the
// primary selectors miss and the chains have to fall back
const detailPage = `<html><body>
<div class="post-title"><h1>Tower of God</h1></div>
<div class="summary__content"><p>Climb the tower.</p></div>
<div class="post-status"><span class="summary-content">OnGoing</span></div>
<div class="genres-content"><a>Action</a><a>Fantasy</a></div>
<div class="author-content"><a>SIU</a></div>
<ul>
  <li class="wp-manga-chapter"><a href="/webtoon/tower-of-god/chapter-2-spanish/">Chapter 2 (Spanish)</a></li>
  <li class="wp-manga-chapter"><a href="/webtoon/tower-of-god/chapter-1/">Chapter 1</a></li>
</ul>
</body></html>`

func enhancedAdapter(base string) *Adapter {
	desc := &descriptor.Descriptor{
		ID:         "toonily",
		Name:       "Toonily",
		Kind:       descriptor.KindEnhanced,
		BaseURL:    base,
		SearchURL:  base + "/search/{query}/",
		MangaURL:   base + "/webtoon/{manga_id}/",
		ChapterURL: base + "/webtoon/{manga_id}/{chapter_id}/",
		NSFW:       true,
		Enabled:    true,
		RateLimit:  1000,
		Selectors: descriptor.Selectors{
			SearchItem:  descriptor.Chain{".page-item-detail"},
			Title:       descriptor.Chain{".entry-title", ".post-title h3 a", ".post-title h1"},
			Link:        descriptor.Chain{".post-title h3 a", ".post-title a"},
			Status:      descriptor.Chain{".post-status .summary-content"},
			Genres:      descriptor.Chain{".genres-content a"},
			Authors:     descriptor.Chain{".author-content a"},
			ChapterItem: descriptor.Chain{"li.wp-manga-chapter"},
			PageImage:   descriptor.Chain{".reading-content img"},
		},
	}
	client := network.NewClient(logger.Nop())
	return New(desc, antibot.NewRouter(client, nil), logger.Nop())
}

func TestFetchMangaResolvesFullFieldSet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailPage))
	}))
	defer srv.Close()

	adapter := enhancedAdapter(srv.URL)
	manga, err := adapter.FetchManga(context.Background(), "tower-of-god")
	require.NoError(t, err)

	assert.Equal(t, "Tower of God", manga.Title)
	assert.Equal(t, core.StatusOngoing, manga.Status)
	assert.Equal(t, []string{"Action", "Fantasy"}, manga.Genres)
	assert.Equal(t, []string{"SIU"}, manga.Authors)
	assert.True(t, manga.NSFW)

	// Title needed the third chain candidate while the enhanced fields
	// all hit their first: confidence sits below a clean resolution but
	// well above a failure
	assert.Greater(t, manga.Confidence, 0.7)
	assert.Less(t, manga.Confidence, 1.0)
}

func TestFetchChaptersDetectsLanguage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(detailPage))
	}))
	defer srv.Close()

	adapter := enhancedAdapter(srv.URL)
	chapters, err := adapter.FetchChapters(context.Background(), "tower-of-god")
	require.NoError(t, err)
	require.Len(t, chapters, 2)

	assert.Equal(t, 1.0, chapters[0].Number)
	assert.Nil(t, chapters[0].Language)

	assert.Equal(t, 2.0, chapters[1].Number)
	require.NotNil(t, chapters[1].Language)
	assert.Equal(t, "es", *chapters[1].Language)
}
