// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Plane is a half-space boundary, stored as the coefficients
// (a,b,c,d) of the equation a*x + b*y + c*z + d = 0. A point
// is inside the half-space when Distance(point) >= 0.
type Plane V4

// Distance returns the signed distance from p to the plane's
// surface, positive on the inside of the half-space.
func (p Plane) Distance(point V3) float64 {
	return p[0]*point[0] + p[1]*point[1] + p[2]*point[2] + p[3]
}

// Normalize returns p scaled so that its (a,b,c) normal has
// unit length, preserving the sign of every distance it
// reports.
func (p Plane) Normalize() Plane {
	n := LenV3(V3{p[0], p[1], p[2]})
	if n == 0 {
		return p
	}
	return Plane(ScaleV4(1/n, V4(p)))
}

// Transform returns the plane p carried through m, using the
// row-vector convention p' = p . m (as opposed to the
// column-vector convention used for points): column j of the
// result is the dot product of p with column j of m. This
// matches VulkanSceneGraph's own plane-transform, which
// differs from its point-transform convention (see DESIGN.md).
func (p Plane) Transform(m *M4) (q Plane) {
	for j := range m {
		q[j] = DotV4(V4(p), m[j])
	}
	return
}

// IntersectsSphere reports whether the sphere s crosses or
// lies on the inside of the plane. A sphere entirely on the
// outside of any one plane of a polytope cannot intersect the
// polytope's volume; this is the per-plane rejection test
// that Polytope.IntersectsSphere applies to every plane.
func (p Plane) IntersectsSphere(s Sphere) bool {
	return p.Distance(s.Center) >= -s.Radius
}

// Polytope is an ordered set of half-space planes; a point is
// inside the polytope's volume when it lies inside every
// plane.
type Polytope []Plane

// Inside reports whether point lies within every plane of t.
func (t Polytope) Inside(point V3) bool {
	for _, p := range t {
		if p.Distance(point) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether the bounding sphere s is
// rejected by none of the planes of t, i.e. no single plane
// places s entirely on its outside. An invalid sphere
// (negative radius) never intersects.
func (t Polytope) IntersectsSphere(s Sphere) bool {
	if !s.Valid() {
		return false
	}
	for _, p := range t {
		if !p.IntersectsSphere(s) {
			return false
		}
	}
	return true
}

// Transform returns t with every plane carried through m.
func (t Polytope) Transform(m *M4) Polytope {
	u := make(Polytope, len(t))
	for i, p := range t {
		u[i] = p.Transform(m)
	}
	return u
}
