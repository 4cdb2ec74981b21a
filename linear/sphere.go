// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

// Sphere is a bounding sphere, used to prune polytope
// intersection tests before falling back to exact
// primitive-level checks.
type Sphere struct {
	Center V3
	Radius float64
}

// Valid reports whether s has a non-negative radius. A
// sphere with negative radius never intersects anything,
// by convention (spec: "invalid sphere returns false").
func (s Sphere) Valid() bool { return s.Radius >= 0 }
