package viewport

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/structhealth/twinview/pkg/geometry"
)

// Solid is one shaded box for the software renderer
type Solid struct {
	Box   geometry.Box
	Color color.RGBA
}

var rasterBackground = color.RGBA{R: 24, G: 26, B: 33, A: 255}

// RenderImage renders the scene into an RGBA image with a depth
// buffer: ground grid first, then lit solids, then markers on top.
// Triangles with any vertex behind the camera are dropped.
func RenderImage(solids []Solid, ms *MarkerSet, cam *Camera, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{rasterBackground}, image.Point{}, draw.Src)

	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.MaxFloat64
	}

	w := float64(width)
	h := float64(height)

	drawGroundGrid(img, cam, solids, w, h)

	lightDir := geometry.NewVector3(-0.5, -1, -0.5).Normalize()
	for _, solid := range solids {
		for _, tri := range solid.Box.Triangles() {
			x1, y1, z1 := cam.Project(tri.V1, w, h)
			x2, y2, z2 := cam.Project(tri.V2, w, h)
			x3, y3, z3 := cam.Project(tri.V3, w, h)
			if z1 <= nearPlane || z2 <= nearPlane || z3 <= nearPlane {
				continue
			}

			intensity := -tri.Normal.Dot(lightDir)
			if intensity < 0.3 {
				intensity = 0.3
			}
			fillTriangleDepth(img, zbuffer,
				x1, y1, z1, x2, y2, z2, x3, y3, z3,
				shade(solid.Color, intensity))
		}
	}

	if ms != nil {
		drawMarkers(img, cam, ms, w, h)
	}
	return img
}

func shade(col color.RGBA, intensity float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(col.R) * intensity),
		G: uint8(float64(col.G) * intensity),
		B: uint8(float64(col.B) * intensity),
		A: col.A,
	}
}

// drawGroundGrid paints slab-level grid lines under the scene. Solids
// drawn later overwrite it, so no depth entry is needed.
func drawGroundGrid(img *image.RGBA, cam *Camera, solids []Solid, w, h float64) {
	if len(solids) == 0 {
		return
	}
	bounds := solids[0].Box.Bounds()
	for _, s := range solids[1:] {
		sb := s.Box.Bounds()
		bounds.Extend(sb.Min)
		bounds.Extend(sb.Max)
	}

	const step = 2.0
	minX := math.Floor(bounds.Min.X/step)*step - step
	maxX := math.Ceil(bounds.Max.X/step)*step + step
	minZ := math.Floor(bounds.Min.Z/step)*step - step
	maxZ := math.Ceil(bounds.Max.Z/step)*step + step

	gridColor := color.RGBA{R: 52, G: 56, B: 64, A: 255}
	for x := minX; x <= maxX; x += step {
		drawWorldLine(img, cam,
			geometry.NewVector3(x, 0, minZ), geometry.NewVector3(x, 0, maxZ), gridColor, w, h)
	}
	for z := minZ; z <= maxZ; z += step {
		drawWorldLine(img, cam,
			geometry.NewVector3(minX, 0, z), geometry.NewVector3(maxX, 0, z), gridColor, w, h)
	}
}

func drawWorldLine(img *image.RGBA, cam *Camera, a, b geometry.Vector3, col color.RGBA, w, h float64) {
	x1, y1, z1 := cam.Project(a, w, h)
	x2, y2, z2 := cam.Project(b, w, h)
	if z1 <= nearPlane || z2 <= nearPlane {
		return
	}
	drawLine(img, int(x1), int(y1), int(x2), int(y2), col)
}

// drawMarkers paints marker discs over the scene, far to near, sized
// by perspective. Panels get an outline ring.
func drawMarkers(img *image.RGBA, cam *Camera, ms *MarkerSet, w, h float64) {
	type projected struct {
		marker Marker
		x, y   float64
		depth  float64
		radius float64
	}

	focal := (h / 2) / math.Tan(cam.FOV/2)
	var items []projected
	for _, m := range ms.Markers {
		x, y, depth := cam.Project(m.Position, w, h)
		if depth <= nearPlane {
			continue
		}
		items = append(items, projected{m, x, y, depth, m.Radius * focal / depth})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].depth > items[j].depth })

	for _, it := range items {
		fillCircle(img, it.x, it.y, it.radius, it.marker.Color)
		if it.marker.Kind == MarkerPanel {
			drawCircle(img, it.x, it.y, it.radius*1.6, it.marker.Color)
		}
	}
}

func fillCircle(img *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := img.Bounds()
	for y := int(cy - r); y <= int(cy+r); y++ {
		for x := int(cx - r); x <= int(cx+r); x++ {
			if x < 0 || y < 0 || x >= bounds.Max.X || y >= bounds.Max.Y {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= r*r {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

func drawCircle(img *image.RGBA, cx, cy, r float64, col color.RGBA) {
	bounds := img.Bounds()
	for y := int(cy - r - 1); y <= int(cy+r+1); y++ {
		for x := int(cx - r - 1); x <= int(cx+r+1); x++ {
			if x < 0 || y < 0 || x >= bounds.Max.X || y >= bounds.Max.Y {
				continue
			}
			dx := float64(x) - cx
			dy := float64(y) - cy
			dist := math.Sqrt(dx*dx + dy*dy)
			if math.Abs(dist-r) < 0.75 {
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// fillTriangleDepth fills a screen-space triangle with scanlines,
// interpolating depth and testing against the z-buffer.
func fillTriangleDepth(img *image.RGBA, zbuffer []float64, x1, y1, z1, x2, y2, z2, x3, y3, z3 float64, col color.RGBA) {
	v := [3][3]float64{{x1, y1, z1}, {x2, y2, z2}, {x3, y3, z3}}

	// Sort by Y, top to bottom.
	if v[0][1] > v[1][1] {
		v[0], v[1] = v[1], v[0]
	}
	if v[1][1] > v[2][1] {
		v[1], v[2] = v[2], v[1]
	}
	if v[0][1] > v[1][1] {
		v[0], v[1] = v[1], v[0]
	}

	bounds := img.Bounds()
	width := bounds.Max.X

	edges := [3][2]int{{0, 1}, {1, 2}, {0, 2}}
	top := int(math.Max(0, v[0][1]))
	bottom := int(math.Min(float64(bounds.Max.Y-1), v[2][1]))

	for y := top; y <= bottom; y++ {
		fy := float64(y)

		// Collect scanline crossings with depth.
		var xs [3]float64
		var zs [3]float64
		n := 0
		for _, e := range edges {
			a, b := v[e[0]], v[e[1]]
			if a[1] == b[1] || fy < a[1] || fy > b[1] {
				continue
			}
			t := (fy - a[1]) / (b[1] - a[1])
			xs[n] = a[0] + t*(b[0]-a[0])
			zs[n] = a[2] + t*(b[2]-a[2])
			n++
		}
		if n < 2 {
			continue
		}

		xStart, zStart := xs[0], zs[0]
		xEnd, zEnd := xs[1], zs[1]
		if xStart > xEnd {
			xStart, xEnd = xEnd, xStart
			zStart, zEnd = zEnd, zStart
		}

		left := int(math.Max(0, xStart))
		right := int(math.Min(float64(bounds.Max.X-1), xEnd))
		for x := left; x <= right; x++ {
			t := 0.0
			if xEnd != xStart {
				t = (float64(x) - xStart) / (xEnd - xStart)
			}
			z := zStart + t*(zEnd-zStart)

			idx := y*width + x
			if idx >= 0 && idx < len(zbuffer) && z < zbuffer[idx] {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws a screen-space line with Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := -1
	if x1 < x2 {
		sx = 1
	}
	sy := -1
	if y1 < y2 {
		sy = 1
	}

	err := dx - dy
	for {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
