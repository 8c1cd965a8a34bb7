package ornatree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignColorsProbabilities(t *testing.T) {
	const n = 10000
	cfg := DefaultColorConfig()
	palette, err := ParsePalette(cfg)
	require.NoError(t, err)

	table := AssignColors(n, cfg, palette, testRNG(2024))
	require.Equal(t, n, table.Len())
	require.Len(t, table.Colors, n)

	gold := table.Count(ColorGold)
	highlight := table.Count(ColorEmeraldHighlight)
	base := table.Count(ColorEmeraldBase)
	assert.Equal(t, n, gold+highlight+base)

	assert.InDelta(t, 0.15, float64(gold)/n, 0.02)
	// The highlight draw only happens for non-gold particles.
	assert.InDelta(t, 0.2, float64(highlight)/float64(n-gold), 0.02)

	for i, cat := range table.Categories {
		assert.Equal(t, palette.RGBA(cat, false), table.Colors[i], "particle %d", i)
	}
}

func TestAssignColorsExtremes(t *testing.T) {
	cfg := DefaultColorConfig()
	palette, err := ParsePalette(cfg)
	require.NoError(t, err)

	cfg.GoldProbability = 0
	cfg.HighlightProbability = 0
	table := AssignColors(500, cfg, palette, testRNG(1))
	assert.Equal(t, 500, table.Count(ColorEmeraldBase))

	cfg.GoldProbability = 1
	table = AssignColors(500, cfg, palette, testRNG(1))
	assert.Equal(t, 500, table.Count(ColorGold))

	assert.Equal(t, 0, AssignColors(0, cfg, palette, testRNG(1)).Len())
}

func TestPaletteValues(t *testing.T) {
	palette, err := ParsePalette(DefaultColorConfig())
	require.NoError(t, err)

	gold := palette.RGBA(ColorGold, false)
	assert.InDelta(t, 1.0, gold[0], 1e-6)
	assert.InDelta(t, 215.0/255.0, gold[1], 1e-6)
	assert.InDelta(t, 0.0, gold[2], 1e-6)
	assert.Equal(t, float32(1), gold[3])

	// Linear light is darker than sRGB for mid-range channels.
	emerald := palette.RGBA(ColorEmeraldHighlight, false)
	linear := palette.RGBA(ColorEmeraldHighlight, true)
	assert.Less(t, linear[1], emerald[1])
}

func TestParsePaletteRejectsBadHex(t *testing.T) {
	cfg := DefaultColorConfig()
	cfg.EmeraldBase = "emerald"

	_, err := ParsePalette(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "emerald-base")
}
