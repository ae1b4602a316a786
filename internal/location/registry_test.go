package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	return New(DefaultEntries())
}

func TestRegistry_ResolveDiacriticInsensitive(t *testing.T) {
	r := newTestRegistry()

	canon, ok := r.Resolve("hai phong")
	require.True(t, ok)
	assert.Equal(t, "Hải Phòng", canon)

	canon, ok = r.Resolve("hải phòng")
	require.True(t, ok)
	assert.Equal(t, "Hải Phòng", canon)
}

func TestRegistry_ResolveSubstring(t *testing.T) {
	r := newTestRegistry()

	canon, ok := r.Resolve("quan an tai hai phong co cho cho tre em choi")
	require.True(t, ok)
	assert.Equal(t, "Hải Phòng", canon)
}

func TestRegistry_ResolveUnknown(t *testing.T) {
	r := newTestRegistry()
	_, ok := r.Resolve("khong ton tai")
	assert.False(t, ok)
}

func TestRegistry_RegionAndNeighbors(t *testing.T) {
	r := newTestRegistry()

	assert.Equal(t, RegionSouth, r.RegionOf("Hồ Chí Minh"))
	assert.True(t, r.IsNeighbor("Hồ Chí Minh", "Vũng Tàu"))
	assert.False(t, r.IsNeighbor("Hồ Chí Minh", "Hà Nội"))
}

func TestRegistry_LocateEarliestThenLongest(t *testing.T) {
	r := newTestRegistry()
	hits := r.Locate("sai gon va vung tau")
	require.NotEmpty(t, hits)
	assert.Equal(t, "Hồ Chí Minh", hits[0].Canonical)
}

func TestRegistry_ResolveFuzzyNearMissSpelling(t *testing.T) {
	r := newTestRegistry()

	canon, score, ok := r.ResolveFuzzy("da nag")
	require.True(t, ok)
	assert.Equal(t, "Đà Nẵng", canon)
	assert.Greater(t, score, fuzzyThreshold)
}

func TestRegistry_ResolveFuzzyRejectsUnrelatedText(t *testing.T) {
	r := newTestRegistry()
	_, _, ok := r.ResolveFuzzy("xyz abc khong lien quan")
	assert.False(t, ok)
}
