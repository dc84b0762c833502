package structure

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// Wall names used by opening declarations
const (
	WallFront = "front"
	WallBack  = "back"
	WallLeft  = "left"
	WallRight = "right"
)

// Opening declares a door or window as a range along a wall's running
// coordinate, measured from the wall center. A zero SillHeight means a
// door; a positive one adds a sill beam and makes it a window.
type Opening struct {
	Wall         string  `yaml:"wall"`
	Start        float64 `yaml:"start"`
	End          float64 `yaml:"end"`
	HeaderHeight float64 `yaml:"header_height"`
	SillHeight   float64 `yaml:"sill_height"`
}

// IsWindow reports whether the opening carries a sill
func (o Opening) IsWindow() bool {
	return o.SillHeight > 0
}

// WingParams describes the curved annex attached to the right wall
type WingParams struct {
	Enabled    bool    `yaml:"enabled"`
	Radius     float64 `yaml:"radius"`
	AngleSpan  float64 `yaml:"angle_span"` // degrees
	Segments   int     `yaml:"segments"`
	EaveHeight float64 `yaml:"eave_height"`
}

// BuildingParams is the full parametric description of a building.
// Dimensions are meters; the hall spans X (width) and Z (length) with
// the ridge running along Z.
type BuildingParams struct {
	Name        string     `yaml:"name"`
	Width       float64    `yaml:"width"`
	Length      float64    `yaml:"length"`
	EaveHeight  float64    `yaml:"eave_height"`
	RidgeRise   float64    `yaml:"ridge_rise"`
	BaySpacing  float64    `yaml:"bay_spacing"`
	StudPitch   float64    `yaml:"stud_pitch"`
	GirtSpacing float64    `yaml:"girt_spacing"`
	Openings    []Opening  `yaml:"openings"`
	Wing        WingParams `yaml:"wing"`
}

// DefaultParams returns the reference hall used when no config is given
func DefaultParams() BuildingParams {
	return BuildingParams{
		Name:        "Hall A",
		Width:       14,
		Length:      21,
		EaveHeight:  6,
		RidgeRise:   2.8,
		BaySpacing:  3.5,
		StudPitch:   0.45,
		GirtSpacing: 1.8,
		Openings: []Opening{
			{Wall: WallFront, Start: -1.5, End: 1.5, HeaderHeight: 4.6},
			{Wall: WallLeft, Start: -6.3, End: -4.5, HeaderHeight: 3.2, SillHeight: 1.1},
			{Wall: WallLeft, Start: 4.5, End: 6.3, HeaderHeight: 3.2, SillHeight: 1.1},
			{Wall: WallRight, Start: 2.7, End: 4.5, HeaderHeight: 3.2, SillHeight: 1.1},
		},
		Wing: WingParams{
			Enabled:    true,
			Radius:     6,
			AngleSpan:  90,
			Segments:   8,
			EaveHeight: 4,
		},
	}
}

// LoadParams reads building parameters from a YAML file, layered over
// the defaults so partial configs stay valid.
func LoadParams(path string) (BuildingParams, error) {
	params := DefaultParams()

	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("read building config: %w", err)
	}
	if err := yaml.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("parse building config %s: %w", path, err)
	}
	if err := params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}

// ConfigurationError reports invalid building parameters. Generation
// fails with it and returns no partial structure.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid building configuration: %s: %s", e.Field, e.Reason)
}

func configErrorf(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// wallLength returns the running length of a named wall
func (p BuildingParams) wallLength(wall string) float64 {
	switch wall {
	case WallFront, WallBack:
		return p.Width
	default:
		return p.Length
	}
}

// BayCounts derives the bay counts along X and Z by dividing each span
// by the nominal bay spacing and rounding to nearest.
func (p BuildingParams) BayCounts() (int, int) {
	if p.BaySpacing <= 0 {
		return 0, 0
	}
	baysX := int(math.Round(p.Width / p.BaySpacing))
	baysZ := int(math.Round(p.Length / p.BaySpacing))
	return baysX, baysZ
}

// Validate checks the parameters and returns a ConfigurationError when
// they describe a degenerate building.
func (p BuildingParams) Validate() error {
	if p.Width <= 0 {
		return configErrorf("width", "span must be positive, got %v", p.Width)
	}
	if p.Length <= 0 {
		return configErrorf("length", "span must be positive, got %v", p.Length)
	}
	if p.EaveHeight <= 0 {
		return configErrorf("eave_height", "must be positive, got %v", p.EaveHeight)
	}
	if p.RidgeRise <= 0 {
		return configErrorf("ridge_rise", "gabled roof needs a positive rise, got %v", p.RidgeRise)
	}
	if p.BaySpacing <= 0 {
		return configErrorf("bay_spacing", "must be positive, got %v", p.BaySpacing)
	}
	if p.StudPitch <= 0 {
		return configErrorf("stud_pitch", "must be positive, got %v", p.StudPitch)
	}
	if p.GirtSpacing < 0 {
		return configErrorf("girt_spacing", "must not be negative, got %v", p.GirtSpacing)
	}

	baysX, baysZ := p.BayCounts()
	if baysX == 0 {
		return configErrorf("bay_spacing", "yields zero bays across width %v", p.Width)
	}
	if baysZ == 0 {
		return configErrorf("bay_spacing", "yields zero bays along length %v", p.Length)
	}

	for i, o := range p.Openings {
		field := fmt.Sprintf("openings[%d]", i)
		switch o.Wall {
		case WallFront, WallBack, WallLeft, WallRight:
		default:
			return configErrorf(field, "unknown wall %q", o.Wall)
		}
		if o.Start >= o.End {
			return configErrorf(field, "start %v must be less than end %v", o.Start, o.End)
		}
		half := p.wallLength(o.Wall) / 2
		if o.Start < -half || o.End > half {
			return configErrorf(field, "range [%v, %v] exceeds wall extent ±%v", o.Start, o.End, half)
		}
		if o.HeaderHeight <= 0 || o.HeaderHeight > p.EaveHeight {
			return configErrorf(field, "header height %v outside (0, %v]", o.HeaderHeight, p.EaveHeight)
		}
		if o.SillHeight < 0 || o.SillHeight >= o.HeaderHeight {
			return configErrorf(field, "sill height %v must sit below the header %v", o.SillHeight, o.HeaderHeight)
		}
	}

	if p.Wing.Enabled {
		if p.Wing.Radius <= 0 {
			return configErrorf("wing.radius", "must be positive, got %v", p.Wing.Radius)
		}
		if p.Wing.AngleSpan <= 0 || p.Wing.AngleSpan > 180 {
			return configErrorf("wing.angle_span", "must be in (0, 180] degrees, got %v", p.Wing.AngleSpan)
		}
		if p.Wing.Segments < 1 {
			return configErrorf("wing.segments", "need at least one segment, got %d", p.Wing.Segments)
		}
		if p.Wing.EaveHeight <= 0 {
			return configErrorf("wing.eave_height", "must be positive, got %v", p.Wing.EaveHeight)
		}
	}

	return nil
}
