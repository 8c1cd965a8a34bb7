package ornatree

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gekko3d/ornatree/core"
	"github.com/go-gl/mathgl/mgl32"
)

type TransformData struct {
	Position mgl32.Vec3 `json:"position"`
	Rotation mgl32.Quat `json:"rotation"`
	Scale    mgl32.Vec3 `json:"scale"`
}

func transformData(t core.Transform) TransformData {
	return TransformData{Position: t.Position, Rotation: t.Rotation, Scale: t.Scale}
}

type ParticleData struct {
	TransformData
	Category string     `json:"category"`
	Color    [4]float32 `json:"color"`
}

type OrnamentData struct {
	TransformData
	ID     int     `json:"id"`
	Slot   string  `json:"slot"`
	Type   string  `json:"type"`
	Factor float32 `json:"factor"`
}

// FrameSnapshot is a JSON-friendly copy of one frame's output.
type FrameSnapshot struct {
	EngineID       string         `json:"engine_id"`
	Seed           uint64         `json:"seed"`
	Frame          uint64         `json:"frame"`
	LayoutMode     LayoutMode     `json:"layout_mode"`
	ParticleFactor float32        `json:"particle_factor"`
	Particles      []ParticleData `json:"particles"`
	Ornaments      []OrnamentData `json:"ornaments"`
}

func (e *Engine) Snapshot() FrameSnapshot {
	buf := e.Transforms()
	snap := FrameSnapshot{
		EngineID:       e.id.String(),
		Seed:           e.seed,
		Frame:          e.frame,
		LayoutMode:     e.mode,
		ParticleFactor: e.ParticleFactor(),
		Particles:      make([]ParticleData, buf.Len()),
		Ornaments:      make([]OrnamentData, e.ornaments.Len()),
	}

	for i := range snap.Particles {
		snap.Particles[i] = ParticleData{
			TransformData: transformData(buf.At(i)),
			Category:      e.colors.Categories[i].String(),
			Color:         e.colors.Colors[i],
		}
	}
	for i, p := range e.ornaments.Placements() {
		snap.Ornaments[i] = OrnamentData{
			TransformData: transformData(e.ornaments.Transform(i)),
			ID:            p.ID,
			Slot:          p.Slot.String(),
			Type:          p.Type.String(),
			Factor:        e.ornaments.Factor(i),
		}
	}
	return snap
}

func SaveSnapshot(e *Engine, filename string) error {
	bytes, err := json.MarshalIndent(e.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return os.WriteFile(filename, bytes, 0644)
}

func LoadSnapshot(filename string) (FrameSnapshot, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return FrameSnapshot{}, err
	}

	var snap FrameSnapshot
	if err := json.Unmarshal(bytes, &snap); err != nil {
		return FrameSnapshot{}, fmt.Errorf("failed to decode snapshot %s: %w", filename, err)
	}
	return snap, nil
}
