package structure

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/structhealth/twinview/pkg/geometry"
)

// Member metadata is cosmetic and derived from the member id, so repeated
// generations agree without the id or geometry depending on any of it.

type materialSpec struct {
	name    string
	density float64 // kg/m3
	rating  string
	base    float64 // load rating base
}

func materialFor(kind MemberKind) materialSpec {
	switch kind {
	case KindColumn:
		return materialSpec{"Glulam GL28c", 460, "Axial %d kN", 520}
	case KindBeam:
		return materialSpec{"Glulam GL24h", 440, "Bending %d kN·m", 96}
	case KindRafter:
		return materialSpec{"Glulam GL28c", 460, "Bending %d kN·m", 74}
	case KindPurlin:
		return materialSpec{"C24 spruce", 420, "Bending %d kN·m", 18}
	case KindStud:
		return materialSpec{"C24 spruce", 420, "Axial %d kN", 38}
	case KindGirt:
		return materialSpec{"C24 spruce", 420, "Bending %d kN·m", 14}
	case KindBracing:
		return materialSpec{"Steel S355 rod", 7850, "Tension %d kN", 110}
	case KindRidgeBeam:
		return materialSpec{"Glulam GL32h", 480, "Bending %d kN·m", 128}
	}
	return materialSpec{"C24 spruce", 420, "Axial %d kN", 20}
}

// deriveMember builds the full metadata record for a selectable placement
func deriveMember(id string, kind MemberKind, box geometry.Box) *Member {
	h := fnv.New64a()
	h.Write([]byte(id))
	seed := h.Sum64()

	mat := materialFor(kind)
	length, secA, secB := beamDimensions(box.Size)
	volume := box.Size.X * box.Size.Y * box.Size.Z
	weight := volume * mat.density

	health := HealthGood
	switch roll := seed % 100; {
	case roll >= 96:
		health = HealthCritical
	case roll >= 84:
		health = HealthWarning
	}

	installed := time.Date(2019, time.March, 4, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, int(seed>>8%700))
	inspected := time.Date(2026, time.January, 12, 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, int(seed>>18%180))

	moisture := 9.5 + float64(seed>>28%70)/10
	strain := 120 + float64(seed>>34%260)
	vibration := 0.4 + float64(seed>>42%28)/10

	return &Member{
		ID:       id,
		Kind:     kind,
		Material: mat.name,
		Position: box.Center,
		Rotation: box.Rotation,
		DimensionsLabel: fmt.Sprintf("%.0f × %.0f mm · %.2f m",
			secA*1000, secB*1000, length),
		WeightLabel:     fmt.Sprintf("%.0f kg", weight),
		LoadRatingLabel: fmt.Sprintf(mat.rating, int(mat.base)+int(seed>>50%40)),
		Health:          health,
		SensorsAttached: int(seed >> 12 % 4),
		LastInspection:  inspected.Format("2006-01-02"),
		Installed:       installed.Format("2006-01-02"),
		Readings: []Reading{
			{Label: "Moisture", Value: fmt.Sprintf("%.1f %%", moisture)},
			{Label: "Strain", Value: fmt.Sprintf("%.0f µε", strain)},
			{Label: "Vibration", Value: fmt.Sprintf("%.1f mm/s", vibration)},
		},
	}
}

// beamDimensions splits a box size into length and cross-section,
// treating the largest extent as the member length.
func beamDimensions(size geometry.Vector3) (length, secA, secB float64) {
	dims := []float64{size.X, size.Y, size.Z}
	longest := 0
	for i, d := range dims {
		if d > dims[longest] {
			longest = i
		}
	}
	length = dims[longest]
	rest := make([]float64, 0, 2)
	for i, d := range dims {
		if i != longest {
			rest = append(rest, d)
		}
	}
	return length, rest[0], rest[1]
}
