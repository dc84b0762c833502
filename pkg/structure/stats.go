package structure

import "github.com/structhealth/twinview/pkg/geometry"

// Stats summarizes a generated structure for reports and the CLI
type Stats struct {
	Bounds       geometry.BoundingBox
	Dimensions   geometry.Vector3
	BaysX        int
	BaysZ        int
	TrussLines   int
	MemberCount  int
	DecorCount   int
	KindCounts   map[MemberKind]int
	HealthCounts map[HealthStatus]int
	SensorMounts int
}

// Stats computes summary figures over the registry and placements
func (s *Structure) Stats() Stats {
	baysX, baysZ := s.Params.BayCounts()
	stats := Stats{
		Bounds:       s.Bounds(),
		BaysX:        baysX,
		BaysZ:        baysZ,
		TrussLines:   baysZ + 1,
		MemberCount:  len(s.Registry),
		KindCounts:   map[MemberKind]int{},
		HealthCounts: map[HealthStatus]int{},
	}
	stats.Dimensions = stats.Bounds.Size()

	for _, m := range s.Registry {
		stats.KindCounts[m.Kind]++
		stats.HealthCounts[m.Health]++
		stats.SensorMounts += m.SensorsAttached
	}
	for _, p := range s.Placements {
		if !p.Selectable() {
			stats.DecorCount++
		}
	}
	return stats
}

// ReportKinds lists the member kinds in a fixed display order
var ReportKinds = []MemberKind{
	KindColumn, KindBeam, KindRafter, KindPurlin, KindStud,
	KindGirt, KindBracing, KindRidgeBeam,
}
