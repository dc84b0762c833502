package structure

import (
	"fmt"
	"math"

	"github.com/structhealth/twinview/pkg/geometry"
)

// Member cross-sections in meters. Geometry constants live here so the
// generator stays the single source of member sizing.
const (
	columnSide     = 0.30
	plateHeight    = 0.20
	plateWidth     = 0.15
	studSide       = 0.10
	jackSide       = 0.08
	jackInset      = 0.12
	girtHeight     = 0.12
	girtWidth      = 0.08
	headerDepth    = 0.25
	headerWidth    = 0.12
	sillDepth      = 0.15
	sillWidth      = 0.10
	chordDepth     = 0.25
	rafterDepth    = 0.30
	trussWidth     = 0.12
	kingPostSide   = 0.12
	webDepth       = 0.10
	webWidth       = 0.08
	braceThickness = 0.08
	purlinRows     = 3
	claddingSkin   = 0.04

	coordEpsilon = 1e-9
)

// Structure is the result of one generator run: the grouped scene graph,
// every placement (decorative included), and the registry of selectable
// members in placement order.
type Structure struct {
	Params     BuildingParams
	Root       *Node
	Placements []Placement
	Registry   []*Member

	byID map[string]*Member
}

// MemberByID resolves a registry member, reporting whether it exists
func (s *Structure) MemberByID(id string) (*Member, bool) {
	m, ok := s.byID[id]
	return m, ok
}

// Bounds returns the axis-aligned bounds of all placed geometry
func (s *Structure) Bounds() geometry.BoundingBox {
	bounds := geometry.NewBoundingBox()
	for _, p := range s.Placements {
		b := p.Box.Bounds()
		bounds.Extend(b.Min)
		bounds.Extend(b.Max)
	}
	return bounds
}

// Generate builds a structure from the given parameters. It is pure:
// identical parameters produce identical placements, ids and metadata.
// Invalid parameters fail with a ConfigurationError and no partial
// structure is returned.
func Generate(params BuildingParams) (*Structure, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	name := params.Name
	if name == "" {
		name = "Building"
	}
	g := &builder{
		params:   params,
		root:     &Node{Name: name},
		byID:     map[string]*Member{},
		sequence: map[string]int{},
	}

	g.placeColumns()
	g.placePlates()
	g.placeGirts()
	g.placeWallStuds()
	g.placeOpenings()
	g.placeBracing()
	g.placeTrusses()
	g.placePurlins()
	g.placeRidge()
	g.placeWing()
	g.placeCladding()

	return &Structure{
		Params:     params,
		Root:       g.root,
		Placements: g.placements,
		Registry:   g.registry,
		byID:       g.byID,
	}, nil
}

type builder struct {
	params     BuildingParams
	root       *Node
	placements []Placement
	registry   []*Member
	byID       map[string]*Member
	sequence   map[string]int
}

// member places a selectable box and registers its metadata record
func (g *builder) member(kind MemberKind, box geometry.Box, group string) {
	prefix := kind.idPrefix()
	g.sequence[prefix]++
	id := fmt.Sprintf("%s-%d", prefix, g.sequence[prefix])

	g.place(Placement{MemberID: id, Kind: kind, Shape: ShapeBox, Box: box, Group: group})

	m := deriveMember(id, kind, box)
	g.registry = append(g.registry, m)
	g.byID[id] = m
}

// decor places non-selectable geometry without a registry entry
func (g *builder) decor(kind MemberKind, shape Shape, box geometry.Box, group string) {
	g.place(Placement{Kind: kind, Shape: shape, Box: box, Group: group})
}

func (g *builder) place(p Placement) {
	g.placements = append(g.placements, p)
	node := g.root.ensure(p.Group)
	node.Placements = append(node.Placements, len(g.placements)-1)
}

// wallRun maps a wall's running coordinate (measured from the wall
// center) and a height to world space.
type wallRun struct {
	name    string
	length  float64
	outward geometry.Vector3
	at      func(r, y float64) geometry.Vector3
}

func (g *builder) wallRuns() []wallRun {
	halfW := g.params.Width / 2
	halfL := g.params.Length / 2
	return []wallRun{
		{WallFront, g.params.Width, geometry.NewVector3(0, 0, 1),
			func(r, y float64) geometry.Vector3 { return geometry.NewVector3(r, y, halfL) }},
		{WallBack, g.params.Width, geometry.NewVector3(0, 0, -1),
			func(r, y float64) geometry.Vector3 { return geometry.NewVector3(r, y, -halfL) }},
		{WallLeft, g.params.Length, geometry.NewVector3(-1, 0, 0),
			func(r, y float64) geometry.Vector3 { return geometry.NewVector3(-halfW, y, r) }},
		{WallRight, g.params.Length, geometry.NewVector3(1, 0, 0),
			func(r, y float64) geometry.Vector3 { return geometry.NewVector3(halfW, y, r) }},
	}
}

// openingsOn filters the declared openings for one wall, keeping order
func (g *builder) openingsOn(wall string) []Opening {
	var out []Opening
	for _, o := range g.params.Openings {
		if o.Wall == wall {
			out = append(out, o)
		}
	}
	return out
}

// insideOpening reports whether a running coordinate falls within an
// opening range. Boundaries count as inside: the boundary position gets
// a trimmer, never a nominal grid member.
func insideOpening(openings []Opening, r float64) bool {
	for _, o := range openings {
		if r >= o.Start-coordEpsilon && r <= o.End+coordEpsilon {
			return true
		}
	}
	return false
}

// gridLine returns the evenly spaced grid coordinates across a span,
// centered on zero, bays+1 entries.
func gridLine(span float64, bays int) []float64 {
	step := span / float64(bays)
	line := make([]float64, bays+1)
	for i := 0; i <= bays; i++ {
		line[i] = -span/2 + float64(i)*step
	}
	return line
}

// wallGrid returns the column grid along one wall
func (g *builder) wallGrid(wall string) []float64 {
	baysX, baysZ := g.params.BayCounts()
	if wall == WallFront || wall == WallBack {
		return gridLine(g.params.Width, baysX)
	}
	return gridLine(g.params.Length, baysZ)
}

// beamBetween builds a box spanning two points: local X runs from a to
// b, pitched around Z then yawed around Y.
func beamBetween(a, b geometry.Vector3, depth, width float64) geometry.Box {
	d := b.Sub(a)
	return geometry.Box{
		Center: a.Lerp(b, 0.5),
		Size:   geometry.NewVector3(d.Length(), depth, width),
		Rotation: geometry.NewVector3(0,
			math.Atan2(-d.Z, d.X),
			math.Atan2(d.Y, math.Hypot(d.X, d.Z))),
	}
}

// span is a blocked range along a wall's running coordinate
type span struct{ start, end float64 }

// splitSegment subtracts blocked ranges from [a, b], dropping slivers
func splitSegment(a, b float64, blocks []span) [][2]float64 {
	const minPiece = 0.05
	pieces := [][2]float64{{a, b}}
	for _, blk := range blocks {
		var next [][2]float64
		for _, piece := range pieces {
			if blk.end <= piece[0] || blk.start >= piece[1] {
				next = append(next, piece)
				continue
			}
			if blk.start-piece[0] > minPiece {
				next = append(next, [2]float64{piece[0], blk.start})
			}
			if piece[1]-blk.end > minPiece {
				next = append(next, [2]float64{blk.end, piece[1]})
			}
		}
		pieces = next
	}
	return pieces
}

func (g *builder) placeColumns() {
	eave := g.params.EaveHeight
	for _, wall := range g.wallRuns() {
		grid := g.wallGrid(wall.name)
		openings := g.openingsOn(wall.name)

		// Side walls skip the corners the gable walls already placed.
		first, last := 0, len(grid)-1
		if wall.name == WallLeft || wall.name == WallRight {
			first, last = 1, len(grid)-2
		}
		for i := first; i <= last; i++ {
			r := grid[i]
			if insideOpening(openings, r) {
				continue
			}
			center := wall.at(r, eave/2)
			g.member(KindColumn, geometry.NewBox(center,
				geometry.NewVector3(columnSide, eave, columnSide)), "Frame/Columns")
		}
	}
}

func (g *builder) placePlates() {
	eave := g.params.EaveHeight
	for _, wall := range g.wallRuns() {
		grid := g.wallGrid(wall.name)

		// Floor plates stop at door thresholds; eave beams run through.
		var doors []span
		for _, o := range g.openingsOn(wall.name) {
			if !o.IsWindow() {
				doors = append(doors, span{o.Start, o.End})
			}
		}

		for i := 0; i < len(grid)-1; i++ {
			for _, piece := range splitSegment(grid[i], grid[i+1], doors) {
				a := wall.at(piece[0], plateHeight/2)
				b := wall.at(piece[1], plateHeight/2)
				g.member(KindBeam, beamBetween(a, b, plateHeight, plateWidth), "Frame/Plates")
			}
		}
		for i := 0; i < len(grid)-1; i++ {
			a := wall.at(grid[i], eave-plateHeight/2)
			b := wall.at(grid[i+1], eave-plateHeight/2)
			g.member(KindBeam, beamBetween(a, b, plateHeight, plateWidth), "Frame/Plates")
		}
	}
}

func (g *builder) placeGirts() {
	if g.params.GirtSpacing <= 0 {
		return
	}
	eave := g.params.EaveHeight
	for _, wall := range g.wallRuns() {
		grid := g.wallGrid(wall.name)
		openings := g.openingsOn(wall.name)

		for level := 1; ; level++ {
			y := float64(level) * g.params.GirtSpacing
			if y >= eave-plateHeight {
				break
			}
			// A girt level crossing an opening void stops at its edges.
			var blocks []span
			for _, o := range openings {
				if y > o.SillHeight && y < o.HeaderHeight {
					blocks = append(blocks, span{o.Start, o.End})
				}
			}
			for i := 0; i < len(grid)-1; i++ {
				for _, piece := range splitSegment(grid[i], grid[i+1], blocks) {
					a := wall.at(piece[0], y)
					b := wall.at(piece[1], y)
					g.member(KindGirt, beamBetween(a, b, girtHeight, girtWidth), "Frame/Girts")
				}
			}
		}
	}
}

func (g *builder) placeWallStuds() {
	eave := g.params.EaveHeight
	pitch := g.params.StudPitch
	for _, wall := range g.wallRuns() {
		grid := g.wallGrid(wall.name)
		openings := g.openingsOn(wall.name)
		half := wall.length / 2

		for k := 1; ; k++ {
			r := -half + float64(k)*pitch
			if r >= half-coordEpsilon {
				break
			}
			if onGrid(grid, r) || insideOpening(openings, r) {
				continue
			}
			center := wall.at(r, eave/2)
			g.member(KindStud, geometry.NewBox(center,
				geometry.NewVector3(studSide, eave, studSide)), "Walls/Studs")
		}
	}
}

// onGrid reports whether a stud position coincides with a column grid line
func onGrid(grid []float64, r float64) bool {
	for _, gr := range grid {
		if math.Abs(gr-r) < 1e-6 {
			return true
		}
	}
	return false
}

func (g *builder) placeOpenings() {
	eave := g.params.EaveHeight
	for _, wall := range g.wallRuns() {
		for _, o := range g.openingsOn(wall.name) {
			// Trimmers sit exactly on the opening boundaries, full height.
			for _, r := range []float64{o.Start, o.End} {
				center := wall.at(r, eave/2)
				g.member(KindStud, geometry.NewBox(center,
					geometry.NewVector3(studSide, eave, studSide)), "Walls/Openings")
			}

			// Jack studs inside the trimmers carry the header.
			for _, r := range []float64{o.Start + jackInset, o.End - jackInset} {
				center := wall.at(r, o.HeaderHeight/2)
				g.member(KindStud, geometry.NewBox(center,
					geometry.NewVector3(jackSide, o.HeaderHeight, jackSide)), "Walls/Openings")
			}

			headerY := o.HeaderHeight + headerDepth/2
			a := wall.at(o.Start, headerY)
			b := wall.at(o.End, headerY)
			g.member(KindBeam, beamBetween(a, b, headerDepth, headerWidth), "Walls/Openings")

			if o.IsWindow() {
				sillY := o.SillHeight - sillDepth/2
				a = wall.at(o.Start, sillY)
				b = wall.at(o.End, sillY)
				g.member(KindBeam, beamBetween(a, b, sillDepth, sillWidth), "Walls/Openings")
			}
		}
	}
}

func (g *builder) placeBracing() {
	eave := g.params.EaveHeight
	for _, wall := range g.wallRuns() {
		if wall.name == WallFront || wall.name == WallBack {
			continue
		}
		grid := g.wallGrid(wall.name)
		openings := g.openingsOn(wall.name)

		// Cross bracing in the first and last bay of each side wall.
		for _, bay := range [][2]float64{{grid[0], grid[1]}, {grid[len(grid)-2], grid[len(grid)-1]}} {
			if overlapsOpening(openings, bay[0], bay[1]) {
				continue
			}
			low, high := plateHeight, eave-plateHeight
			g.member(KindBracing,
				beamBetween(wall.at(bay[0], low), wall.at(bay[1], high), braceThickness, braceThickness),
				"Frame/Bracing")
			g.member(KindBracing,
				beamBetween(wall.at(bay[0], high), wall.at(bay[1], low), braceThickness, braceThickness),
				"Frame/Bracing")
		}
	}
}

func overlapsOpening(openings []Opening, a, b float64) bool {
	for _, o := range openings {
		if a < o.End && b > o.Start {
			return true
		}
	}
	return false
}

// placeTrusses builds one king-post truss per bay line: bottom chord,
// symmetric rafter pair, central king post, and two diagonal webs from
// the post base to the rafter midpoints.
func (g *builder) placeTrusses() {
	eave := g.params.EaveHeight
	rise := g.params.RidgeRise
	halfW := g.params.Width / 2
	_, baysZ := g.params.BayCounts()
	lines := gridLine(g.params.Length, baysZ)

	for _, z := range lines {
		eaveL := geometry.NewVector3(-halfW, eave, z)
		eaveR := geometry.NewVector3(halfW, eave, z)
		apex := geometry.NewVector3(0, eave+rise, z)

		g.member(KindRafter, beamBetween(eaveL, eaveR, chordDepth, trussWidth), "Roof/Trusses")
		g.member(KindRafter, beamBetween(eaveL, apex, rafterDepth, trussWidth), "Roof/Trusses")
		g.member(KindRafter, beamBetween(apex, eaveR, rafterDepth, trussWidth), "Roof/Trusses")

		post := geometry.NewBox(geometry.NewVector3(0, eave+rise/2, z),
			geometry.NewVector3(kingPostSide, rise, kingPostSide))
		g.member(KindRafter, post, "Roof/Trusses")

		base := geometry.NewVector3(0, eave, z)
		midL := eaveL.Lerp(apex, 0.5)
		midR := apex.Lerp(eaveR, 0.5)
		g.member(KindBracing, beamBetween(base, midL, webDepth, webWidth), "Roof/Trusses")
		g.member(KindBracing, beamBetween(base, midR, webDepth, webWidth), "Roof/Trusses")
	}
}

func (g *builder) placePurlins() {
	eave := g.params.EaveHeight
	rise := g.params.RidgeRise
	halfW := g.params.Width / 2
	pitch := math.Atan2(rise, halfW)
	_, baysZ := g.params.BayCounts()
	lines := gridLine(g.params.Length, baysZ)
	bayL := g.params.Length / float64(baysZ)

	for side := 0; side < 2; side++ {
		sign := 1.0
		tilt := -pitch
		if side == 0 {
			sign = -1.0
			tilt = pitch
		}
		for row := 0; row < purlinRows; row++ {
			f := (float64(row) + 0.5) / purlinRows
			x := sign * halfW * (1 - f)
			y := eave + rise*f
			for i := 0; i < len(lines)-1; i++ {
				center := geometry.NewVector3(x, y, lines[i]+bayL/2)
				g.member(KindPurlin, geometry.Box{
					Center:   center,
					Size:     geometry.NewVector3(girtWidth, girtHeight, bayL),
					Rotation: geometry.NewVector3(0, 0, tilt),
				}, "Roof/Purlins")
			}
		}
	}
}

func (g *builder) placeRidge() {
	g.member(KindRidgeBeam, geometry.NewBox(
		geometry.NewVector3(0, g.params.EaveHeight+g.params.RidgeRise, 0),
		geometry.NewVector3(0.15, 0.35, g.params.Length)), "Roof/Ridge")
}

// placeWing builds the curved annex: studs and plates along an arc, each
// segment yawed by the tangent between its sample points so the run
// miters cleanly.
func (g *builder) placeWing() {
	wing := g.params.Wing
	if !wing.Enabled {
		return
	}
	center := geometry.NewVector3(g.params.Width/2, 0, 0)
	halfSpan := wing.AngleSpan * math.Pi / 360
	points := geometry.ArcPoints(center, wing.Radius, -halfSpan, halfSpan, wing.Segments)

	atHeight := func(p geometry.Vector3, y float64) geometry.Vector3 {
		return geometry.NewVector3(p.X, y, p.Z)
	}

	for i := 0; i < len(points)-1; i++ {
		a := atHeight(points[i], plateHeight/2)
		b := atHeight(points[i+1], plateHeight/2)
		g.member(KindBeam, beamBetween(a, b, plateHeight, plateWidth), "Wing/Plates")
	}
	for i := 0; i < len(points)-1; i++ {
		a := atHeight(points[i], wing.EaveHeight-plateHeight/2)
		b := atHeight(points[i+1], wing.EaveHeight-plateHeight/2)
		g.member(KindBeam, beamBetween(a, b, plateHeight, plateWidth), "Wing/Plates")
	}

	for i, p := range points {
		yaw := geometry.SegmentYaw(points[min(i, len(points)-2)], points[min(i, len(points)-2)+1])
		g.member(KindStud, geometry.Box{
			Center:   atHeight(p, wing.EaveHeight/2),
			Size:     geometry.NewVector3(studSide, wing.EaveHeight, studSide),
			Rotation: geometry.NewVector3(0, yaw, 0),
		}, "Wing/Studs")
	}

	for i := 0; i < len(points)-1; i++ {
		mid := points[i].Lerp(points[i+1], 0.5)
		chord := points[i].Distance(points[i+1])
		yaw := geometry.SegmentYaw(points[i], points[i+1])
		g.decor(KindCladding, ShapeBox, geometry.Box{
			Center:   atHeight(mid, wing.EaveHeight/2),
			Size:     geometry.NewVector3(chord*0.98, wing.EaveHeight*0.97, claddingSkin),
			Rotation: geometry.NewVector3(0, yaw, 0),
		}, "Wing/Cladding")
		g.decor(KindTrim, ShapeBox, geometry.Box{
			Center:   atHeight(mid, wing.EaveHeight+0.03),
			Size:     geometry.NewVector3(chord, 0.06, 0.3),
			Rotation: geometry.NewVector3(0, yaw, 0),
		}, "Wing/Cladding")
	}
}

// placeCladding appends the decorative skin: wall and roof panels,
// fascia trim and eave gutters. None of it enters the registry.
func (g *builder) placeCladding() {
	eave := g.params.EaveHeight
	rise := g.params.RidgeRise
	halfW := g.params.Width / 2
	pitch := math.Atan2(rise, halfW)
	rafterLen := math.Hypot(halfW, rise)

	for _, wall := range g.wallRuns() {
		grid := g.wallGrid(wall.name)
		openings := g.openingsOn(wall.name)
		for i := 0; i < len(grid)-1; i++ {
			if overlapsOpening(openings, grid[i], grid[i+1]) {
				continue
			}
			mid := (grid[i] + grid[i+1]) / 2
			segment := grid[i+1] - grid[i]
			center := wall.at(mid, eave/2).Add(wall.outward.Mul(columnSide/2 + claddingSkin))
			yaw := 0.0
			if wall.name == WallLeft || wall.name == WallRight {
				yaw = -math.Pi / 2
			}
			g.decor(KindCladding, ShapeBox, geometry.Box{
				Center:   center,
				Size:     geometry.NewVector3(segment*0.99, eave*0.98, claddingSkin),
				Rotation: geometry.NewVector3(0, yaw, 0),
			}, "Cladding/Walls")
		}
	}

	_, baysZ := g.params.BayCounts()
	lines := gridLine(g.params.Length, baysZ)
	bayL := g.params.Length / float64(baysZ)
	for side := 0; side < 2; side++ {
		sign := 1.0
		tilt := -pitch
		if side == 0 {
			sign = -1.0
			tilt = pitch
		}
		normal := geometry.NewVector3(0, 1, 0).RotateZ(tilt)
		for i := 0; i < len(lines)-1; i++ {
			center := geometry.NewVector3(sign*halfW/2, eave+rise/2, lines[i]+bayL/2).
				Add(normal.Mul(rafterDepth/2 + claddingSkin))
			g.decor(KindCladding, ShapeBox, geometry.Box{
				Center:   center,
				Size:     geometry.NewVector3(rafterLen*1.02, claddingSkin, bayL*0.99),
				Rotation: geometry.NewVector3(0, 0, tilt),
			}, "Cladding/Roof")
		}
	}

	for _, sign := range []float64{-1, 1} {
		g.decor(KindTrim, ShapeBox, geometry.NewBox(
			geometry.NewVector3(sign*(halfW+0.06), eave+0.02, 0),
			geometry.NewVector3(0.04, 0.18, g.params.Length+0.2)), "Cladding/Trim")
		g.decor(KindTrim, ShapeCylinder, geometry.Box{
			Center:   geometry.NewVector3(sign*(halfW+0.15), eave-0.1, 0),
			Size:     geometry.NewVector3(g.params.Length+0.2, 0.14, 0.14),
			Rotation: geometry.NewVector3(0, -math.Pi/2, 0),
		}, "Cladding/Gutters")
	}
}
