package structure

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := DefaultParams().Validate(); err != nil {
		t.Errorf("DefaultParams failed validation: %v", err)
	}
}

func TestBayCounts(t *testing.T) {
	tests := []struct {
		width, length, spacing float64
		wantX, wantZ           int
	}{
		{14, 21, 3.5, 4, 6},
		{14, 12, 4.7, 3, 3},
		{10, 10, 4, 3, 3}, // 2.5 rounds up
		{14, 21, 0, 0, 0},
	}
	for _, tt := range tests {
		p := BuildingParams{Width: tt.width, Length: tt.length, BaySpacing: tt.spacing}
		gotX, gotZ := p.BayCounts()
		if gotX != tt.wantX || gotZ != tt.wantZ {
			t.Errorf("BayCounts(%v, %v, %v) failed: expected (%d, %d), got (%d, %d)",
				tt.width, tt.length, tt.spacing, tt.wantX, tt.wantZ, gotX, gotZ)
		}
	}
}

func TestValidateRejectsBadSpans(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BuildingParams)
	}{
		{"zero width", func(p *BuildingParams) { p.Width = 0 }},
		{"negative length", func(p *BuildingParams) { p.Length = -1 }},
		{"zero eave", func(p *BuildingParams) { p.EaveHeight = 0 }},
		{"flat roof", func(p *BuildingParams) { p.RidgeRise = 0 }},
		{"zero stud pitch", func(p *BuildingParams) { p.StudPitch = 0 }},
		{"negative girt spacing", func(p *BuildingParams) { p.GirtSpacing = -1 }},
		{"zero bays", func(p *BuildingParams) { p.BaySpacing = 100 }},
	}
	for _, tt := range tests {
		params := DefaultParams()
		tt.mutate(&params)
		err := params.Validate()
		if err == nil {
			t.Errorf("Validate accepted %s", tt.name)
			continue
		}
		var cfgErr *ConfigurationError
		if !errors.As(err, &cfgErr) {
			t.Errorf("Validate %s returned %T, expected ConfigurationError", tt.name, err)
		}
	}
}

func TestValidateRejectsBadOpenings(t *testing.T) {
	tests := []struct {
		name    string
		opening Opening
	}{
		{"unknown wall", Opening{Wall: "roof", Start: -1, End: 1, HeaderHeight: 3}},
		{"inverted range", Opening{Wall: WallFront, Start: 1, End: -1, HeaderHeight: 3}},
		{"beyond wall extent", Opening{Wall: WallFront, Start: -9, End: -6, HeaderHeight: 3}},
		{"header above eave", Opening{Wall: WallFront, Start: -1, End: 1, HeaderHeight: 99}},
		{"sill above header", Opening{Wall: WallLeft, Start: -1, End: 1, HeaderHeight: 2, SillHeight: 2.5}},
	}
	for _, tt := range tests {
		params := DefaultParams()
		params.Openings = []Opening{tt.opening}
		if err := params.Validate(); err == nil {
			t.Errorf("Validate accepted opening with %s", tt.name)
		}
	}
}

func TestValidateRejectsBadWing(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*WingParams)
	}{
		{"zero radius", func(w *WingParams) { w.Radius = 0 }},
		{"span over 180", func(w *WingParams) { w.AngleSpan = 270 }},
		{"no segments", func(w *WingParams) { w.Segments = 0 }},
		{"zero eave", func(w *WingParams) { w.EaveHeight = 0 }},
	}
	for _, tt := range tests {
		params := DefaultParams()
		params.Wing = WingParams{Enabled: true, Radius: 6, AngleSpan: 90, Segments: 8, EaveHeight: 4}
		tt.mutate(&params.Wing)
		if err := params.Validate(); err == nil {
			t.Errorf("Validate accepted wing with %s", tt.name)
		}
	}

	// A disabled wing is never validated.
	params := DefaultParams()
	params.Wing = WingParams{Enabled: false, Radius: -1}
	if err := params.Validate(); err != nil {
		t.Errorf("Validate rejected disabled wing: %v", err)
	}
}

func TestLoadParamsLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "building.yaml")
	config := []byte("name: Depot B\nwidth: 18\nridge_rise: 3.2\n")
	if err := os.WriteFile(path, config, 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	params, err := LoadParams(path)
	if err != nil {
		t.Fatalf("LoadParams failed: %v", err)
	}
	if params.Name != "Depot B" {
		t.Errorf("Name failed: expected Depot B, got %s", params.Name)
	}
	if params.Width != 18 {
		t.Errorf("Width failed: expected 18, got %v", params.Width)
	}
	if params.RidgeRise != 3.2 {
		t.Errorf("RidgeRise failed: expected 3.2, got %v", params.RidgeRise)
	}

	defaults := DefaultParams()
	if params.Length != defaults.Length {
		t.Errorf("Length not layered over default: expected %v, got %v", defaults.Length, params.Length)
	}
	if params.BaySpacing != defaults.BaySpacing {
		t.Errorf("BaySpacing not layered over default: expected %v, got %v", defaults.BaySpacing, params.BaySpacing)
	}
}

func TestLoadParamsMissingFile(t *testing.T) {
	if _, err := LoadParams(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadParams succeeded on a missing file")
	}
}

func TestLoadParamsRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "building.yaml")
	if err := os.WriteFile(path, []byte("width: -4\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadParams(path)
	if err == nil {
		t.Fatal("LoadParams accepted a negative width")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("Expected ConfigurationError, got %T: %v", err, err)
	}
	if cfgErr != nil && cfgErr.Field != "width" {
		t.Errorf("Field failed: expected width, got %s", cfgErr.Field)
	}
}
