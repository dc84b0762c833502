package viewport

import (
	"math"

	"github.com/structhealth/twinview/pkg/geometry"
)

// nearPlane is the minimum camera-space depth a point must have to
// project; anything at or behind it counts as behind the camera.
const nearPlane = 0.01

// Camera is an orbit camera around a fixed look-at target. Position is
// stored cartesian; the spherical reading is derived from it on demand.
type Camera struct {
	Position geometry.Vector3
	Target   geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // field of view in radians

	MinDistance float64
	MaxDistance float64
	MinHeight   float64
	MaxHeight   float64

	homePosition geometry.Vector3
	homeTarget   geometry.Vector3
}

// NewCamera creates a camera framing a bounding box from a raised
// three-quarter view, with orbit bands sized to the box.
func NewCamera(bbox geometry.BoundingBox) *Camera {
	center := bbox.Center()
	size := bbox.Size()
	span := math.Max(size.X, math.Max(size.Y, size.Z))
	if span <= 0 {
		span = 1
	}

	horizontal := span * 1.6
	position := center.Add(geometry.NewVector3(
		horizontal*math.Sin(0.6),
		span*0.55,
		horizontal*math.Cos(0.6)))

	return &Camera{
		Position:     position,
		Target:       center,
		Up:           geometry.NewVector3(0, 1, 0),
		FOV:          math.Pi / 4, // 45 degrees
		MinDistance:  span * 0.15,
		MaxDistance:  span * 6,
		MinHeight:    bbox.Min.Y + 0.3,
		MaxHeight:    bbox.Max.Y + span*1.2,
		homePosition: position,
		homeTarget:   center,
	}
}

// Distance is the current camera-to-target distance
func (c *Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Length()
}

// Spherical derives the camera's polar position around the target
func (c *Camera) Spherical() geometry.Spherical {
	return geometry.SphericalFromCartesian(c.Position.Sub(c.Target))
}

// OrbitBy rotates the camera around the target's vertical axis
func (c *Camera) OrbitBy(deltaAzimuth float64) {
	relative := c.Position.Sub(c.Target)
	c.Position = c.Target.Add(relative.RotateY(deltaAzimuth))
}

// Lift moves the camera vertically, clamped to the height band
func (c *Camera) Lift(deltaY float64) {
	y := c.Position.Y + deltaY
	if y < c.MinHeight {
		y = c.MinHeight
	}
	if y > c.MaxHeight {
		y = c.MaxHeight
	}
	c.Position.Y = y
}

// ZoomBy scales the camera distance by a factor, clamped to the
// configured [min, max] band.
func (c *Camera) ZoomBy(factor float64) {
	relative := c.Position.Sub(c.Target)
	distance := relative.Length() * factor
	if distance < c.MinDistance {
		distance = c.MinDistance
	}
	if distance > c.MaxDistance {
		distance = c.MaxDistance
	}
	c.Position = c.Target.Add(relative.Normalize().Mul(distance))
}

// Reset restores the framing the camera was created with
func (c *Camera) Reset() {
	c.Position = c.homePosition
	c.Target = c.homeTarget
}

// axes returns the view basis vectors
func (c *Camera) axes() (forward, right, up geometry.Vector3) {
	forward = c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(c.Up).Normalize()
	up = right.Cross(forward).Normalize()
	return forward, right, up
}

// Project maps a world point to viewport pixel coordinates. The
// returned depth is the camera-space forward distance: values at or
// below the near plane mean the point is behind the camera and the
// pixel coordinates are meaningless.
func (c *Camera) Project(point geometry.Vector3, width, height float64) (float64, float64, float64) {
	forward, right, up := c.axes()

	relative := point.Sub(c.Position)
	x := relative.Dot(right)
	y := relative.Dot(up)
	z := relative.Dot(forward)

	denom := z
	if denom < nearPlane {
		denom = nearPlane
	}

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	screenX := (x/(denom*fovScale*aspect))*(width/2) + (width / 2)
	screenY := (-y/(denom*fovScale))*(height/2) + (height / 2)

	return screenX, screenY, z
}

// Unproject converts viewport pixel coordinates into a world-space ray
func (c *Camera) Unproject(screenX, screenY, width, height float64) geometry.Ray {
	ndcX := (2.0*screenX)/width - 1.0
	ndcY := 1.0 - (2.0*screenY)/height

	aspect := width / height
	fovScale := math.Tan(c.FOV / 2)

	forward, right, up := c.axes()
	direction := forward.
		Add(right.Mul(ndcX * fovScale * aspect)).
		Add(up.Mul(ndcY * fovScale))

	return geometry.NewRay(c.Position, direction)
}
