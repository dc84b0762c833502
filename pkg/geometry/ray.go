package geometry

import "math"

// Ray is a half-line with an origin and a unit direction
type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// NewRay creates a ray, normalizing the direction
func NewRay(origin, direction Vector3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// Point returns the point at parameter t along the ray
func (r Ray) Point(t float64) Vector3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// DistanceToPoint returns the shortest distance from the ray to a point.
// Points behind the origin measure against the origin itself.
func (r Ray) DistanceToPoint(point Vector3) float64 {
	toPoint := point.Sub(r.Origin)
	t := toPoint.Dot(r.Direction)
	if t < 0 {
		t = 0
	}
	closest := r.Origin.Add(r.Direction.Mul(t))
	return point.Distance(closest)
}

// IntersectSphere returns the distance to the nearest intersection with a
// sphere, or false when the ray misses or the sphere is behind the origin.
func (r Ray) IntersectSphere(center Vector3, radius float64) (float64, bool) {
	oc := r.Origin.Sub(center)
	b := oc.Dot(r.Direction)
	c := oc.Dot(oc) - radius*radius
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	sqrtDisc := math.Sqrt(disc)
	t := -b - sqrtDisc
	if t < 0 {
		t = -b + sqrtDisc
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}

// IntersectBox returns the distance to the nearest intersection with an
// oriented box using a slab test in box-local space.
func (r Ray) IntersectBox(box Box) (float64, bool) {
	origin := box.InverseRotate(r.Origin.Sub(box.Center))
	dir := box.InverseRotate(r.Direction)
	h := box.HalfSize()

	tmin := math.Inf(-1)
	tmax := math.Inf(1)

	origins := [3]float64{origin.X, origin.Y, origin.Z}
	dirs := [3]float64{dir.X, dir.Y, dir.Z}
	halves := [3]float64{h.X, h.Y, h.Z}

	for axis := 0; axis < 3; axis++ {
		o, d, half := origins[axis], dirs[axis], halves[axis]
		if math.Abs(d) < 1e-12 {
			if o < -half || o > half {
				return 0, false
			}
			continue
		}
		t1 := (-half - o) / d
		t2 := (half - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, false
		}
	}

	if tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		// Origin inside the box
		return tmax, true
	}
	return tmin, true
}
