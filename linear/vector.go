// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package linear implements math for 3D graphics.
//
// Vectors and matrices use float64 rather than the float32
// gviegas-neo3 uses for its render-time math: the polytope
// work built on this package derives world-space clip
// volumes from camera projection matrices, and
// VulkanSceneGraph's own plane/polytope types (dplane, dmat4)
// are double precision for the same reason (see DESIGN.md).
package linear

import (
	"math"
)

// V3 is a 3-component vector of float64.
type V3 [3]float64

// AddV3 returns v + w.
func AddV3(v, w V3) (u V3) {
	for i := range u {
		u[i] = v[i] + w[i]
	}
	return
}

// SubV3 returns v - w.
func SubV3(v, w V3) (u V3) {
	for i := range u {
		u[i] = v[i] - w[i]
	}
	return
}

// ScaleV3 returns s ⋅ v.
func ScaleV3(s float64, v V3) (u V3) {
	for i := range u {
		u[i] = s * v[i]
	}
	return
}

// DotV3 returns v ⋅ w.
func DotV3(v, w V3) (d float64) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// LenV3 returns the length of v.
func LenV3(v V3) float64 {
	return math.Sqrt(DotV3(v, v))
}

// NormV3 returns v normalized.
func NormV3(v V3) V3 {
	return ScaleV3(1/LenV3(v), v)
}

// Cross returns v × w.
func Cross(v, w V3) (u V3) {
	u[0] = v[1]*w[2] - v[2]*w[1]
	u[1] = v[2]*w[0] - v[0]*w[2]
	u[2] = v[0]*w[1] - v[1]*w[0]
	return
}

// V4 is a 4-component vector of float64.
// It doubles as the coefficients (a,b,c,d) of a polytope
// half-space plane (see Plane in plane.go) and as a
// homogeneous point or direction.
type V4 [4]float64

// Vec4 extends v with w as its fourth component.
func Vec4(v V3, w float64) V4 { return V4{v[0], v[1], v[2], w} }

// Vec3 drops the fourth component of v.
func Vec3(v V4) V3 { return V3{v[0], v[1], v[2]} }

// AddV4 returns v + w.
func AddV4(v, w V4) (u V4) {
	for i := range u {
		u[i] = v[i] + w[i]
	}
	return
}

// SubV4 returns v - w.
func SubV4(v, w V4) (u V4) {
	for i := range u {
		u[i] = v[i] - w[i]
	}
	return
}

// ScaleV4 returns s ⋅ v.
func ScaleV4(s float64, v V4) (u V4) {
	for i := range u {
		u[i] = s * v[i]
	}
	return
}

// DotV4 returns v ⋅ w.
func DotV4(v, w V4) (d float64) {
	for i := range v {
		d += v[i] * w[i]
	}
	return
}

// LenV4 returns the length of v.
func LenV4(v V4) float64 {
	return math.Sqrt(DotV4(v, v))
}

// NormV4 returns v normalized.
func NormV4(v V4) V4 {
	return ScaleV4(1/LenV4(v), v)
}
