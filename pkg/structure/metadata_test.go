package structure

import (
	"reflect"
	"testing"

	"github.com/structhealth/twinview/pkg/geometry"
)

func TestDeriveMemberStable(t *testing.T) {
	box := geometry.NewBox(geometry.NewVector3(1, 3, -2), geometry.NewVector3(0.3, 6, 0.3))

	first := deriveMember("COL-7", KindColumn, box)
	second := deriveMember("COL-7", KindColumn, box)
	if !reflect.DeepEqual(first, second) {
		t.Error("deriveMember not stable for the same id")
	}

	other := deriveMember("COL-8", KindColumn, box)
	if first.WeightLabel != other.WeightLabel {
		t.Error("Weight should follow geometry, not the id")
	}
}

func TestDeriveMemberLabels(t *testing.T) {
	box := geometry.NewBox(geometry.NewVector3(0, 6, 0), geometry.NewVector3(0.12, 0.25, 14))
	m := deriveMember("BM-1", KindBeam, box)

	// Longest extent reads as the length, the rest as the section.
	want := "120 × 250 mm · 14.00 m"
	if m.DimensionsLabel != want {
		t.Errorf("DimensionsLabel failed: expected %q, got %q", want, m.DimensionsLabel)
	}
	if m.Material != "Glulam GL24h" {
		t.Errorf("Material failed: expected Glulam GL24h, got %s", m.Material)
	}
	if len(m.Readings) != 3 {
		t.Errorf("Readings failed: expected 3, got %d", len(m.Readings))
	}
	if m.Position != box.Center {
		t.Errorf("Position failed: expected %v, got %v", box.Center, m.Position)
	}
}

func TestBeamDimensions(t *testing.T) {
	length, secA, secB := beamDimensions(geometry.NewVector3(0.08, 7.54, 0.08))
	if length != 7.54 {
		t.Errorf("beamDimensions length failed: expected 7.54, got %v", length)
	}
	if secA != 0.08 || secB != 0.08 {
		t.Errorf("beamDimensions section failed: expected 0.08/0.08, got %v/%v", secA, secB)
	}
}
