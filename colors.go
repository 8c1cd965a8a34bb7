package ornatree

import (
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

type ColorCategory uint8

const (
	ColorGold ColorCategory = iota
	ColorEmeraldBase
	ColorEmeraldHighlight

	colorCategoryCount
)

func (c ColorCategory) String() string {
	switch c {
	case ColorGold:
		return "gold"
	case ColorEmeraldBase:
		return "emerald-base"
	case ColorEmeraldHighlight:
		return "emerald-highlight"
	}
	return fmt.Sprintf("ColorCategory(%d)", int(c))
}

// Palette maps each ColorCategory to its display color.
type Palette [colorCategoryCount]colorful.Color

func ParsePalette(cfg ColorConfig) (Palette, error) {
	var p Palette
	hexes := [colorCategoryCount]string{
		ColorGold:             cfg.Gold,
		ColorEmeraldBase:      cfg.EmeraldBase,
		ColorEmeraldHighlight: cfg.EmeraldHighlight,
	}
	for cat, hex := range hexes {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Palette{}, fmt.Errorf("%w: colors.%s %q: %v", ErrInvalidConfig, ColorCategory(cat), hex, err)
		}
		p[cat] = c
	}
	return p, nil
}

// RGBA returns the category color as opaque float RGBA, in linear light
// when linear is set and sRGB otherwise.
func (p Palette) RGBA(cat ColorCategory, linear bool) [4]float32 {
	c := p[cat]
	if linear {
		r, g, b := c.LinearRgb()
		return [4]float32{float32(r), float32(g), float32(b), 1}
	}
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), 1}
}

// ColorTable is the static per-instance color assignment, index-aligned
// with the particle layout. It is written once and never recomputed.
type ColorTable struct {
	Categories []ColorCategory
	Colors     [][4]float32
}

func (t *ColorTable) Len() int { return len(t.Categories) }

func (t *ColorTable) Count(cat ColorCategory) int {
	n := 0
	for _, c := range t.Categories {
		if c == cat {
			n++
		}
	}
	return n
}

// AssignColors draws a category per particle: gold with
// cfg.GoldProbability, otherwise the highlight shade with
// cfg.HighlightProbability, otherwise the base shade.
func AssignColors(n int, cfg ColorConfig, palette Palette, rng *rand.Rand) *ColorTable {
	if n <= 0 {
		return &ColorTable{}
	}

	t := &ColorTable{
		Categories: make([]ColorCategory, n),
		Colors:     make([][4]float32, n),
	}

	var resolved [colorCategoryCount][4]float32
	for cat := range resolved {
		resolved[cat] = palette.RGBA(ColorCategory(cat), cfg.Linear)
	}

	for i := 0; i < n; i++ {
		cat := ColorEmeraldBase
		if rng.Float32() < cfg.GoldProbability {
			cat = ColorGold
		} else if rng.Float32() < cfg.HighlightProbability {
			cat = ColorEmeraldHighlight
		}
		t.Categories[i] = cat
		t.Colors[i] = resolved[cat]
	}
	return t
}
