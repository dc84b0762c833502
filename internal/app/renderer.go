package app

import (
	"image/color"
	"math"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/structhealth/twinview/internal/scene"
	"github.com/structhealth/twinview/pkg/geometry"
	"github.com/structhealth/twinview/pkg/structure"
	"github.com/structhealth/twinview/pkg/viewport"
)

// Light direction for baked lighting
var sceneLight = geometry.NewVector3(-0.5, -1.0, -0.5).Normalize()

func rlVec(v geometry.Vector3) rl.Vector3 {
	return rl.Vector3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

// realizeStructure swaps the scene over to a freshly generated
// structure: bakes the meshes, rebuilds the lookup tables and
// re-registers the hit-test colliders. Camera and selection are left
// alone. Runs on the render thread since it talks to the GPU.
func (app *App) realizeStructure(st *structure.Structure) {
	app.unloadMeshes()

	app.Scene.structure = st
	app.Scene.cylinders = app.Scene.cylinders[:0]
	app.Scene.boxByID = make(map[string]geometry.Box, len(st.Registry))
	app.Scene.groupByID = make(map[string]string, len(st.Registry))
	app.Scene.boxesByGroup = make(map[string][]geometry.Box)

	var frame, cladding []viewport.Solid
	for _, p := range st.Placements {
		if p.Selectable() {
			app.Scene.boxByID[p.MemberID] = p.Box
			app.Scene.groupByID[p.MemberID] = p.Group
			app.Scene.boxesByGroup[p.Group] = append(app.Scene.boxesByGroup[p.Group], p.Box)
		}
		if p.Shape == structure.ShapeCylinder {
			app.Scene.cylinders = append(app.Scene.cylinders, p)
			continue
		}
		solid := viewport.Solid{Box: p.Box, Color: scene.PlacementColor(st, p)}
		if scene.IsCladding(p.Kind) {
			cladding = append(cladding, solid)
		} else {
			frame = append(frame, solid)
		}
	}

	app.Scene.frameMesh, app.Scene.frameReady = bakeMesh(frame)
	app.Scene.claddingMesh, app.Scene.claddingOK = bakeMesh(cladding)

	app.controller.SetColliders(scene.Colliders(st))
}

func (app *App) unloadMeshes() {
	if app.Scene.frameReady {
		rl.UnloadMesh(&app.Scene.frameMesh)
		app.Scene.frameReady = false
	}
	if app.Scene.claddingOK {
		rl.UnloadMesh(&app.Scene.claddingMesh)
		app.Scene.claddingOK = false
	}
}

// bakeMesh builds one Raylib mesh from the solids with lighting baked
// into the vertex colors: minimum 30% ambient, full diffuse facing the
// light. Reports false for an empty bake, which must not be uploaded
// or drawn.
func bakeMesh(solids []viewport.Solid) (rl.Mesh, bool) {
	// 12 triangles per box, 3 vertices each
	vertexCount := len(solids) * 36
	vertices := make([]float32, 0, vertexCount*3)
	normals := make([]float32, 0, vertexCount*3)
	texcoords := make([]float32, 0, vertexCount*2)
	colors := make([]uint8, 0, vertexCount*4)

	corners := [3][2]float32{{0, 0}, {1, 0}, {0, 1}}

	for _, solid := range solids {
		for _, tri := range solid.Box.Triangles() {
			normal := tri.Normal

			// Diffuse lighting intensity, min 30% ambient
			intensity := math.Max(0.3, -normal.Dot(sceneLight))
			r := uint8(float64(solid.Color.R) * intensity)
			g := uint8(float64(solid.Color.G) * intensity)
			b := uint8(float64(solid.Color.B) * intensity)

			for i, v := range [3]geometry.Vector3{tri.V1, tri.V2, tri.V3} {
				vertices = append(vertices, float32(v.X), float32(v.Y), float32(v.Z))
				normals = append(normals, float32(normal.X), float32(normal.Y), float32(normal.Z))
				texcoords = append(texcoords, corners[i][0], corners[i][1])
				colors = append(colors, r, g, b, 255)
			}
		}
	}

	if len(vertices) == 0 {
		return rl.Mesh{}, false
	}

	mesh := rl.Mesh{
		VertexCount:   int32(len(vertices) / 3),
		TriangleCount: int32(len(vertices) / 9),
	}
	mesh.Vertices = &vertices[0]
	mesh.Normals = &normals[0]
	mesh.Texcoords = &texcoords[0]
	mesh.Colors = &colors[0]

	// Upload mesh data to GPU
	rl.UploadMesh(&mesh, false)

	return mesh, true
}

func (app *App) drawScene() {
	rl.DrawGrid(24, 2)
	if app.Scene.frameReady {
		rl.DrawMesh(app.Scene.frameMesh, app.Scene.material, rl.MatrixIdentity())
	}
	if app.View.showCladding && app.Scene.claddingOK {
		rl.DrawMesh(app.Scene.claddingMesh, app.Scene.material, rl.MatrixIdentity())
		app.drawCylinders()
	}
	if app.View.showWireframe {
		app.drawFrameWireframe()
	}
	app.drawHighlights()
}

// drawCylinders renders the few cylindrical placements (gutters)
// immediate-mode; they are too few to be worth baking.
func (app *App) drawCylinders() {
	st := app.Scene.structure
	for _, p := range app.Scene.cylinders {
		half := p.Box.Rotate(geometry.NewVector3(p.Box.Size.X/2, 0, 0))
		start := p.Box.Center.Sub(half)
		end := p.Box.Center.Add(half)
		radius := float32(p.Box.Size.Y / 2)
		rl.DrawCylinderEx(rlVec(start), rlVec(end), radius, radius, 10, scene.PlacementColor(st, p))
	}
}

// drawFrameWireframe overlays the structural members' edges so the
// load path reads through the cladding
func (app *App) drawFrameWireframe() {
	col := rl.Fade(rl.SkyBlue, 0.35)
	for _, boxes := range app.Scene.boxesByGroup {
		for _, b := range boxes {
			drawBoxEdges(b, col)
		}
	}
}

// drawHighlights marks the hovered member (plus a faint trace of its
// whole group) and fills the selected member. Hover never repaints a
// selected member; the controller already guarantees the ids differ.
func (app *App) drawHighlights() {
	sel := app.controller.Selection()

	if hovered := app.controller.HoveredMember(); hovered != "" {
		if !(sel.Kind == viewport.SelectionMember && sel.ID == hovered) {
			if group, ok := app.Scene.groupByID[hovered]; ok {
				faint := rl.Fade(rl.White, 0.18)
				for _, b := range app.Scene.boxesByGroup[group] {
					drawBoxEdges(b, faint)
				}
			}
			if b, ok := app.Scene.boxByID[hovered]; ok {
				drawBoxEdges(b, rl.Fade(rl.White, 0.85))
			}
		}
	}

	if sel.Kind == viewport.SelectionMember {
		if b, ok := app.Scene.boxByID[sel.ID]; ok {
			fill := rl.Fade(rl.Yellow, 0.3)
			for _, tri := range b.Triangles() {
				rl.DrawTriangle3D(rlVec(tri.V1), rlVec(tri.V2), rlVec(tri.V3), fill)
			}
			drawBoxEdges(b, rl.Yellow)
		}
	}
}

func drawBoxEdges(b geometry.Box, col color.RGBA) {
	for _, e := range b.Edges() {
		rl.DrawLine3D(rlVec(e[0]), rlVec(e[1]), col)
	}
}

// drawMarkers renders the live overlay: status spheres for panels and
// sensors, pulse rings on panels, and the expanding ping rings. One
// now sample per frame keeps all animation phases coherent.
func (app *App) drawMarkers(now time.Time) {
	ms := app.controller.Markers()
	sel := app.controller.Selection()

	for _, m := range ms.Markers {
		center := rlVec(m.Position)
		rl.DrawSphere(center, float32(m.Radius*ms.PulseScale(m)), m.Color)

		if m.Kind == viewport.MarkerPanel {
			ring := rl.Fade(m.Color, float32(ms.RingAlpha(m)))
			rl.DrawCircle3D(center, float32(m.Radius*1.8), rl.Vector3{X: 1}, 90, ring)

			if progress, ok := app.controller.PingProgress(m.RefID, now); ok {
				radius := float32(m.Radius * (1 + 4*progress))
				fade := float32(0.9 * (1 - progress))
				rl.DrawCircle3D(center, radius, rl.Vector3{X: 1}, 90, rl.Fade(rl.White, fade))
			}
		}

		if markerSelected(sel, m) {
			rl.DrawSphereWires(center, float32(m.Radius*1.35), 10, 10, rl.Fade(rl.White, 0.8))
		}
	}
}

func markerSelected(sel viewport.Selection, m viewport.Marker) bool {
	switch m.Kind {
	case viewport.MarkerPanel:
		return sel.Kind == viewport.SelectionPanel && sel.ID == m.RefID
	case viewport.MarkerSensor:
		return sel.Kind == viewport.SelectionSensor && sel.ID == m.RefID
	}
	return false
}

// drawLabels renders the text billboards: one above every panel
// marker, plus the selected member's id above its box. Runs inside
// BeginMode3D.
func (app *App) drawLabels(camera rl.Camera3D) {
	if snap := app.Feed.snapshot; snap != nil {
		for _, p := range snap.Panels {
			if !p.Position.IsFinite() {
				continue
			}
			pos := p.Position.Vector3().Add(geometry.NewVector3(0, viewport.PanelMarkerRadius*2.4, 0))
			app.UI.labels.draw(camera, p.Name, rlVec(pos))
		}
	}

	sel := app.controller.Selection()
	if sel.Kind == viewport.SelectionMember {
		if b, ok := app.Scene.boxByID[sel.ID]; ok {
			pos := b.Center.Add(geometry.NewVector3(0, b.Size.Y/2+0.5, 0))
			app.UI.labels.draw(camera, sel.ID, rlVec(pos))
		}
	}
}
