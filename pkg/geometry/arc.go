package geometry

import "math"

// ArcPoint returns the point at the given angle on a circle of the given
// radius lying in the XZ plane around center.
func ArcPoint(center Vector3, radius, angle float64) Vector3 {
	return Vector3{
		X: center.X + radius*math.Cos(angle),
		Y: center.Y,
		Z: center.Z + radius*math.Sin(angle),
	}
}

// ArcPoints samples count segments along an arc in the XZ plane from
// startAngle to endAngle, returning count+1 evenly spaced points.
func ArcPoints(center Vector3, radius, startAngle, endAngle float64, count int) []Vector3 {
	if count < 1 {
		count = 1
	}
	points := make([]Vector3, count+1)
	step := (endAngle - startAngle) / float64(count)
	for i := 0; i <= count; i++ {
		points[i] = ArcPoint(center, radius, startAngle+float64(i)*step)
	}
	return points
}

// SegmentYaw returns the rotation around +Y that aligns the +X axis with
// the direction from a to b projected onto the XZ plane.
func SegmentYaw(a, b Vector3) float64 {
	return math.Atan2(-(b.Z - a.Z), b.X-a.X)
}
