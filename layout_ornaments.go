package ornatree

import (
	"fmt"
	"math/rand/v2"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type OrnamentType uint8

const (
	OrnamentDiamond OrnamentType = iota
	OrnamentGold
	OrnamentLight
)

func (t OrnamentType) String() string {
	switch t {
	case OrnamentDiamond:
		return "diamond"
	case OrnamentGold:
		return "gold"
	case OrnamentLight:
		return "light"
	}
	return fmt.Sprintf("OrnamentType(%d)", int(t))
}

type OrnamentSlot uint8

const (
	SlotHelix OrnamentSlot = iota
	SlotTopper
	SlotBase
)

func (s OrnamentSlot) String() string {
	switch s {
	case SlotHelix:
		return "helix"
	case SlotTopper:
		return "topper"
	case SlotBase:
		return "base"
	}
	return fmt.Sprintf("OrnamentSlot(%d)", int(s))
}

type OrnamentPlacement struct {
	ID         int
	Slot       OrnamentSlot
	Type       OrnamentType
	TreePos    mgl32.Vec3
	ScatterPos mgl32.Vec3
	Scale      float32
}

// ornamentTypeFor is a fixed pattern: every 4th index is a diamond, every
// 3rd of the rest is gold, everything else is a light.
func ornamentTypeFor(i int) OrnamentType {
	switch {
	case i%4 == 0:
		return OrnamentDiamond
	case i%3 == 0:
		return OrnamentGold
	default:
		return OrnamentLight
	}
}

func helixRadius(cfg OrnamentLayoutConfig, t float32) float32 {
	return clampRadius(cfg.BaseRadius)*(1-cfg.RadiusTaper*t) + cfg.MinRadius
}

// GenerateHelix winds cfg.Count ornaments up the cone. A zero count
// yields no ornaments.
func GenerateHelix(cfg OrnamentLayoutConfig, rng *rand.Rand) []OrnamentPlacement {
	count := cfg.Count
	if count <= 0 {
		return nil
	}

	scatterRadius := clampRadius(cfg.ScatterRadius)
	items := make([]OrnamentPlacement, count)

	for i := 0; i < count; i++ {
		t := float32(i) / float32(count)
		angle := t * 2 * math32.Pi * cfg.Turns
		y := t*cfg.Height - cfg.HeightOffset + rng.Float32()*cfg.HeightJitter
		radius := helixRadius(cfg, t)

		typ := ornamentTypeFor(i)
		scale := randRange(rng, cfg.ScaleRange[0], cfg.ScaleRange[1])
		scatter := SampleBall(rng, scatterRadius)
		switch typ {
		case OrnamentGold:
			scale *= cfg.GoldScaleBoost
		case OrnamentLight:
			scale = cfg.LightScale
		}

		items[i] = OrnamentPlacement{
			ID:         i,
			Slot:       SlotHelix,
			Type:       typ,
			TreePos:    mgl32.Vec3{math32.Cos(angle) * radius, y, math32.Sin(angle) * radius},
			ScatterPos: scatter,
			Scale:      scale,
		}
	}
	return items
}

// GenerateOrnaments returns the helix ornaments followed by the enabled
// special slots (topper, then base). IDs are dense indices.
func GenerateOrnaments(cfg OrnamentLayoutConfig, rng *rand.Rand) []OrnamentPlacement {
	items := GenerateHelix(cfg, rng)

	if cfg.Topper.Enabled {
		items = append(items, OrnamentPlacement{
			ID:         len(items),
			Slot:       SlotTopper,
			Type:       OrnamentDiamond,
			TreePos:    cfg.Topper.TreePos,
			ScatterPos: cfg.Topper.ScatterPos,
			Scale:      cfg.Topper.Scale,
		})
	}
	if cfg.Base.Enabled {
		items = append(items, OrnamentPlacement{
			ID:         len(items),
			Slot:       SlotBase,
			Type:       OrnamentGold,
			TreePos:    cfg.Base.TreePos,
			ScatterPos: cfg.Base.ScatterPos,
			Scale:      cfg.Base.Scale,
		})
	}
	return items
}
