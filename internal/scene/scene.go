// Package scene converts generated structures into the viewport's
// display-agnostic primitives. Both frontends and the headless PNG
// renderer consume these, so nothing in here may touch a rendering
// context.
package scene

import (
	"image/color"

	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/viewport"
)

// Base colors per member kind, loosely after the materials they stand
// for: glulam members warm, sawn timber lighter, steel parts cold.
var kindColors = map[structure.MemberKind]color.RGBA{
	structure.KindColumn:    {R: 168, G: 125, B: 78, A: 255},
	structure.KindBeam:      {R: 178, G: 135, B: 88, A: 255},
	structure.KindRafter:    {R: 172, G: 128, B: 80, A: 255},
	structure.KindRidgeBeam: {R: 158, G: 112, B: 66, A: 255},
	structure.KindPurlin:    {R: 196, G: 160, B: 112, A: 255},
	structure.KindStud:      {R: 200, G: 168, B: 122, A: 255},
	structure.KindGirt:      {R: 200, G: 168, B: 122, A: 255},
	structure.KindBracing:   {R: 140, G: 148, B: 160, A: 255},
}

var (
	warningTint  = color.RGBA{R: 235, G: 162, B: 54, A: 255}
	criticalTint = color.RGBA{R: 214, G: 69, B: 69, A: 255}
	decorColor   = color.RGBA{R: 96, G: 104, B: 116, A: 255}
	fallbackWood = color.RGBA{R: 184, G: 148, B: 104, A: 255}
)

// MemberColor returns the display color for a structural member.
// Health overrides the kind palette so degraded members read at a
// glance.
func MemberColor(kind structure.MemberKind, health structure.HealthStatus) color.RGBA {
	switch health {
	case structure.HealthCritical:
		return criticalTint
	case structure.HealthWarning:
		return warningTint
	}
	if col, ok := kindColors[kind]; ok {
		return col
	}
	return fallbackWood
}

// PlacementColor resolves the display color for one placement:
// registry members get the health-aware kind palette, decorative
// geometry a neutral gray.
func PlacementColor(st *structure.Structure, p structure.Placement) color.RGBA {
	if m, ok := st.MemberByID(p.MemberID); ok {
		return MemberColor(m.Kind, m.Health)
	}
	return decorColor
}

// Solids flattens the placements into colored boxes for rendering.
// Cladding and trim are dropped when showCladding is false so the
// frame underneath becomes visible.
func Solids(st *structure.Structure, showCladding bool) []viewport.Solid {
	solids := make([]viewport.Solid, 0, len(st.Placements))
	for _, p := range st.Placements {
		if !showCladding && IsCladding(p.Kind) {
			continue
		}
		solids = append(solids, viewport.Solid{Box: p.Box, Color: PlacementColor(st, p)})
	}
	return solids
}

// Colliders returns the hit-test volumes in placement order. Only
// selectable placements participate; decorative geometry never blocks
// a pick ray.
func Colliders(st *structure.Structure) []viewport.Collider {
	colliders := make([]viewport.Collider, 0, len(st.Registry))
	for _, p := range st.Placements {
		if !p.Selectable() {
			continue
		}
		colliders = append(colliders, viewport.Collider{MemberID: p.MemberID, Box: p.Box})
	}
	return colliders
}

// IsCladding reports whether a placement kind disappears with the
// cladding visibility toggle
func IsCladding(kind structure.MemberKind) bool {
	return kind == structure.KindCladding || kind == structure.KindTrim
}
