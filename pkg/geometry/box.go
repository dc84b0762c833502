package geometry

// Box represents an oriented box: a center point, full extents along the
// local axes, and Euler rotation angles in radians applied in Z, Y, X
// order. A beam modeled along local +X therefore pitches up by Rotation.Z
// before yawing around the world Y axis by Rotation.Y.
type Box struct {
	Center   Vector3
	Size     Vector3
	Rotation Vector3
}

// NewBox creates an axis-aligned box from center and size
func NewBox(center, size Vector3) Box {
	return Box{Center: center, Size: size}
}

// HalfSize returns the box extents from center to face
func (b Box) HalfSize() Vector3 {
	return b.Size.Mul(0.5)
}

// Rotate transforms a local-space vector into the box orientation
func (b Box) Rotate(v Vector3) Vector3 {
	return v.RotateZ(b.Rotation.Z).RotateY(b.Rotation.Y).RotateX(b.Rotation.X)
}

// InverseRotate transforms a world-space vector into box-local orientation
func (b Box) InverseRotate(v Vector3) Vector3 {
	return v.RotateX(-b.Rotation.X).RotateY(-b.Rotation.Y).RotateZ(-b.Rotation.Z)
}

// Corners returns the eight corner points in world space.
// Corner i has bits (x<<2 | y<<1 | z) selecting the positive half-extent.
func (b Box) Corners() [8]Vector3 {
	h := b.HalfSize()
	var corners [8]Vector3
	for i := 0; i < 8; i++ {
		local := Vector3{X: -h.X, Y: -h.Y, Z: -h.Z}
		if i&4 != 0 {
			local.X = h.X
		}
		if i&2 != 0 {
			local.Y = h.Y
		}
		if i&1 != 0 {
			local.Z = h.Z
		}
		corners[i] = b.Center.Add(b.Rotate(local))
	}
	return corners
}

// Edges returns the twelve edges as corner pairs in world space
func (b Box) Edges() [][2]Vector3 {
	corners := b.Corners()
	edges := make([][2]Vector3, 0, 12)
	for i := 0; i < 8; i++ {
		for bit := 0; bit < 3; bit++ {
			j := i ^ (1 << bit)
			if j > i {
				edges = append(edges, [2]Vector3{corners[i], corners[j]})
			}
		}
	}
	return edges
}

// boxFaces enumerates the six faces as outward normal plus the two
// tangent axes whose cross product equals the normal.
var boxFaces = [6]struct{ n, u, v Vector3 }{
	{Vector3{X: 1}, Vector3{Y: 1}, Vector3{Z: 1}},
	{Vector3{X: -1}, Vector3{Z: 1}, Vector3{Y: 1}},
	{Vector3{Y: 1}, Vector3{Z: 1}, Vector3{X: 1}},
	{Vector3{Y: -1}, Vector3{X: 1}, Vector3{Z: 1}},
	{Vector3{Z: 1}, Vector3{X: 1}, Vector3{Y: 1}},
	{Vector3{Z: -1}, Vector3{Y: 1}, Vector3{X: 1}},
}

// Triangles returns the twelve face triangles in world space with
// outward normals, wound counter-clockwise seen from outside.
func (b Box) Triangles() []Triangle {
	h := b.HalfSize()
	triangles := make([]Triangle, 0, 12)
	for _, face := range boxFaces {
		fc := scaleComponents(face.n, h)
		fu := scaleComponents(face.u, h)
		fv := scaleComponents(face.v, h)

		a := b.Center.Add(b.Rotate(fc.Sub(fu).Sub(fv)))
		bb := b.Center.Add(b.Rotate(fc.Add(fu).Sub(fv)))
		c := b.Center.Add(b.Rotate(fc.Add(fu).Add(fv)))
		d := b.Center.Add(b.Rotate(fc.Sub(fu).Add(fv)))
		normal := b.Rotate(face.n)

		triangles = append(triangles,
			NewTriangle(normal, a, bb, c),
			NewTriangle(normal, a, c, d),
		)
	}
	return triangles
}

// Bounds returns the axis-aligned bounding box enclosing the oriented box
func (b Box) Bounds() BoundingBox {
	bounds := NewBoundingBox()
	for _, corner := range b.Corners() {
		bounds.Extend(corner)
	}
	return bounds
}

func scaleComponents(axis, scale Vector3) Vector3 {
	return Vector3{X: axis.X * scale.X, Y: axis.Y * scale.Y, Z: axis.Z * scale.Z}
}
