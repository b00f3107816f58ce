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

package provider

import (
	"Kuroibara/pkg/core"
	"Kuroibara/pkg/descriptor"
	"context"
)

// Adapter is the capability interface all provider variants implement.
// Every error returned is a *errors.ProviderError; adapters never leak
// raw transport or parse failures.
type Adapter interface {
	Descriptor() *descriptor.Descriptor

	Search(ctx context.Context, query string, page int) ([]core.Manga, error)
	FetchManga(ctx context.Context, externalID string) (*core.Manga, error)
	FetchChapters(ctx context.Context, externalID string) ([]core.Chapter, error)
	FetchPages(ctx context.Context, mangaID, chapterID string) ([]core.Page, error)
}
