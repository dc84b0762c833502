package structure

import "github.com/structhealth/twinview/pkg/geometry"

// MemberKind classifies a structural member
type MemberKind int

const (
	KindColumn MemberKind = iota
	KindBeam
	KindRafter
	KindPurlin
	KindStud
	KindGirt
	KindBracing
	KindRidgeBeam
	KindCladding
	KindTrim
)

// String returns the display name of the kind
func (k MemberKind) String() string {
	switch k {
	case KindColumn:
		return "Column"
	case KindBeam:
		return "Beam"
	case KindRafter:
		return "Rafter"
	case KindPurlin:
		return "Purlin"
	case KindStud:
		return "Stud"
	case KindGirt:
		return "Girt"
	case KindBracing:
		return "Bracing"
	case KindRidgeBeam:
		return "Ridge beam"
	case KindCladding:
		return "Cladding"
	case KindTrim:
		return "Trim"
	}
	return "Unknown"
}

// idPrefix returns the id prefix used for selectable members of this kind
func (k MemberKind) idPrefix() string {
	switch k {
	case KindColumn:
		return "COL"
	case KindBeam:
		return "BM"
	case KindRafter:
		return "RFT"
	case KindPurlin:
		return "PRL"
	case KindStud:
		return "STD"
	case KindGirt:
		return "GRT"
	case KindBracing:
		return "BRC"
	case KindRidgeBeam:
		return "RDG"
	}
	return "MBR"
}

// HealthStatus is the condition assessment of a member
type HealthStatus int

const (
	HealthGood HealthStatus = iota
	HealthWarning
	HealthCritical
)

// String returns the display name of the status
func (h HealthStatus) String() string {
	switch h {
	case HealthGood:
		return "Good"
	case HealthWarning:
		return "Warning"
	case HealthCritical:
		return "Critical"
	}
	return "Unknown"
}

// Reading is one display pair on a member's property sheet
type Reading struct {
	Label string
	Value string
}

// Member is the inspectable record behind a selectable placement.
// Position always equals the placement's box center; the two are set
// together and never updated independently.
type Member struct {
	ID              string
	Kind            MemberKind
	Material        string
	Position        geometry.Vector3
	Rotation        geometry.Vector3
	DimensionsLabel string
	WeightLabel     string
	LoadRatingLabel string
	Health          HealthStatus
	SensorsAttached int
	LastInspection  string
	Installed       string
	Readings        []Reading
}

// Shape selects the primitive a placement renders as
type Shape int

const (
	ShapeBox Shape = iota
	ShapeCylinder
)

// Placement is one piece of generated geometry. Selectable placements
// carry the id of their registry member; decorative ones leave it empty.
// For ShapeCylinder the box's local X axis is the cylinder axis, Size.X
// its length and Size.Y its diameter.
type Placement struct {
	MemberID string
	Kind     MemberKind
	Shape    Shape
	Box      geometry.Box
	Group    string
}

// Selectable reports whether the placement takes part in hit-testing
func (p Placement) Selectable() bool {
	return p.MemberID != ""
}
