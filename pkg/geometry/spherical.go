package geometry

import "math"

// Spherical expresses a position relative to a target point as a radius
// plus an azimuth around the Y axis and an elevation above the XZ plane.
type Spherical struct {
	Radius    float64
	Azimuth   float64
	Elevation float64
}

// ToCartesian converts to an offset vector from the target point
func (s Spherical) ToCartesian() Vector3 {
	return Vector3{
		X: s.Radius * math.Cos(s.Elevation) * math.Sin(s.Azimuth),
		Y: s.Radius * math.Sin(s.Elevation),
		Z: s.Radius * math.Cos(s.Elevation) * math.Cos(s.Azimuth),
	}
}

// SphericalFromCartesian converts an offset vector to spherical form
func SphericalFromCartesian(v Vector3) Spherical {
	radius := v.Length()
	if radius == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius:    radius,
		Azimuth:   math.Atan2(v.X, v.Z),
		Elevation: math.Asin(v.Y / radius),
	}
}
