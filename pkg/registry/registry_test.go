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

package registry

import (
	"Kuroibara/pkg/antibot"
	"Kuroibara/pkg/descriptor"
	"Kuroibara/pkg/errors"
	"Kuroibara/pkg/logger"
	"Kuroibara/pkg/network"
	"Kuroibara/pkg/provider"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDeps() Deps {
	client := network.NewClient(logger.Nop())
	return Deps{
		Client: client,
		Router: antibot.NewRouter(client, nil),
		Logger: logger.Nop(),
	}
}

func scraperDescriptor(id string, priority int) descriptor.Descriptor {
	return descriptor.Descriptor{
		ID:         id,
		Name:       id,
		Kind:       descriptor.KindGeneric,
		BaseURL:    "https://" + id + ".example.com",
		SearchURL:  "https://" + id + ".example.com/?s={query}",
		MangaURL:   "https://" + id + ".example.com/manga/{manga_id}/",
		ChapterURL: "https://" + id + ".example.com/manga/{manga_id}/{chapter_id}/",
		Priority:   priority,
		Enabled:    true,
		Selectors: descriptor.Selectors{
			SearchItem:  descriptor.Chain{".item"},
			Title:       descriptor.Chain{".title"},
			Link:        descriptor.Chain{".title a"},
			ChapterItem: descriptor.Chain{".chapter"},
			PageImage:   descriptor.Chain{".page img"},
		},
	}
}

func ids(adapters []provider.Adapter) []string {
	out := make([]string, 0, len(adapters))
	for _, a := range adapters {
		out = append(out, a.Descriptor().ID)
	}
	return out
}

func TestLoadBuildsAdapterPerKind(t *testing.T) {
	reg, err := Load(descriptor.Defaults(), testDeps())
	require.NoError(t, err)

	for _, d := range descriptor.Defaults() {
		adapter, err := reg.Get(d.ID)
		require.NoError(t, err)
		assert.Equal(t, d.ID, adapter.Descriptor().ID)
		assert.Equal(t, d.Kind, adapter.Descriptor().Kind)
	}
}

func TestLoadFailsFast(t *testing.T) {
	bad := scraperDescriptor("bad", 1)
	bad.SearchURL = "https://bad.example.com/search" // missing {query}

	_, err := Load([]descriptor.Descriptor{scraperDescriptor("ok", 1), bad}, testDeps())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "{query}")
}

func TestLoadRejectsDuplicateIDs(t *testing.T) {
	_, err := Load([]descriptor.Descriptor{
		scraperDescriptor("dupe", 1),
		scraperDescriptor("dupe", 2),
	}, testDeps())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestEnabledFiltersNSFW(t *testing.T) {
	a := scraperDescriptor("safe", 1)
	b := scraperDescriptor("adult", 2)
	b.NSFW = true

	reg, err := Load([]descriptor.Descriptor{a, b}, testDeps())
	require.NoError(t, err)

	assert.Equal(t, []string{"safe"}, ids(reg.Enabled(false, nil)))
	assert.Equal(t, []string{"safe", "adult"}, ids(reg.Enabled(true, nil)))
}

func TestEnabledHonorsDescriptorFlag(t *testing.T) {
	a := scraperDescriptor("on", 1)
	b := scraperDescriptor("off", 2)
	b.Enabled = false

	reg, err := Load([]descriptor.Descriptor{a, b}, testDeps())
	require.NoError(t, err)

	assert.Equal(t, []string{"on"}, ids(reg.Enabled(true, nil)))
	// All still exposes disabled providers for the status surface
	assert.Len(t, reg.All(), 2)
}

func TestPreferenceOverlay(t *testing.T) {
	a := scraperDescriptor("alpha", 1)
	b := scraperDescriptor("beta", 2)
	c := scraperDescriptor("gamma", 3)
	c.Enabled = false

	reg, err := Load([]descriptor.Descriptor{a, b, c}, testDeps())
	require.NoError(t, err)

	prefs := &Preferences{
		Enabled:  map[string]bool{"alpha": false, "gamma": true},
		Priority: map[string]int{"gamma": 0},
	}

	// alpha disabled, gamma enabled and promoted ahead of beta
	assert.Equal(t, []string{"gamma", "beta"}, ids(reg.Enabled(true, prefs)))

	// The overlay never mutates the descriptors themselves
	d, err := reg.Descriptor("alpha")
	require.NoError(t, err)
	assert.True(t, d.Enabled)
	assert.Equal(t, []string{"beta", "gamma"}, ids(reg.Enabled(true, &Preferences{
		Enabled: map[string]bool{"alpha": false, "gamma": true},
	})))

	assert.Equal(t, 0, reg.EffectivePriority("gamma", prefs))
	assert.Equal(t, 3, reg.EffectivePriority("gamma", nil))
}

func TestEnabledOrderingIsDeterministic(t *testing.T) {
	// Equal priorities tie-break on name
	a := scraperDescriptor("zeta", 5)
	b := scraperDescriptor("eta", 5)
	c := scraperDescriptor("theta", 1)

	reg, err := Load([]descriptor.Descriptor{a, b, c}, testDeps())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"theta", "eta", "zeta"}, ids(reg.Enabled(true, nil)))
	}
}

func TestHealthTracking(t *testing.T) {
	reg, err := Load([]descriptor.Descriptor{scraperDescriptor("alpha", 1)}, testDeps())
	require.NoError(t, err)

	assert.Empty(t, reg.HealthSnapshot())

	reg.RecordSuccess("alpha", 120*time.Millisecond)
	reg.RecordFailure("alpha", errors.KindTimeout, 8*time.Second)

	snap := reg.HealthSnapshot()
	require.Contains(t, snap, "alpha")
	h := snap["alpha"]
	assert.False(t, h.LastSuccess.IsZero())
	assert.False(t, h.LastFailure.IsZero())
	assert.Equal(t, errors.KindTimeout, h.LastErrorKind)
	assert.Equal(t, 8*time.Second, h.LastLatency)
}
