// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Q is a quaternion of float64.
type Q struct {
	V V3
	R float64
}

// MulQ returns l ⋅ r.
func MulQ(l, r Q) Q {
	v := AddV3(ScaleV3(r.R, l.V), ScaleV3(l.R, r.V))
	v = AddV3(v, Cross(l.V, r.V))
	return Q{V: v, R: l.R*r.R - DotV3(l.V, r.V)}
}

// M4 returns the rotation matrix corresponding to q, which is
// assumed to be of unit length. Cameras and scene-graph nodes
// that store orientation as a quaternion (for interpolation)
// use this to obtain the matrix PushTransform/Camera.View
// operate on.
func (q Q) M4() (m M4) {
	x, y, z, w := q.V[0], q.V[1], q.V[2], q.R
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	m[0] = V4{1 - 2*(yy+zz), 2 * (xy + wz), 2 * (xz - wy), 0}
	m[1] = V4{2 * (xy - wz), 1 - 2*(xx+zz), 2 * (yz + wx), 0}
	m[2] = V4{2 * (xz + wy), 2 * (yz - wx), 1 - 2*(xx+yy), 0}
	m[3] = V4{0, 0, 0, 1}
	return
}
