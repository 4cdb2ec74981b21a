// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"
)

func TestV3(t *testing.T) {
	v := V3{1, 2, 4}
	w := V3{0, -1, 2}

	if u := AddV3(v, w); u != (V3{1, 1, 6}) {
		t.Fatalf("AddV3\nhave %v\nwant [1 1 6]", u)
	}
	if u := SubV3(v, w); u != (V3{1, 3, 2}) {
		t.Fatalf("SubV3\nhave %v\nwant [1 3 2]", u)
	}
	if u := ScaleV3(-1, v); u != (V3{-1, -2, -4}) {
		t.Fatalf("ScaleV3\nhave %v\nwant [-1 -2 -4]", u)
	}
	if d := DotV3(v, w); d != 6 {
		t.Fatalf("DotV3\nhave %v\nwant 6", d)
	}
	if l := LenV3(v); l != math.Sqrt(21) {
		t.Fatalf("LenV3\nhave %v\nwant %v", l, math.Sqrt(21))
	}

	v = V3{0, 0, -2}
	if u := NormV3(v); u != (V3{0, 0, -1}) {
		t.Fatalf("NormV3\nhave %v\nwant [0 0 -1]", u)
	}

	v, w = V3{1, 0, 0}, V3{0, 1, 0}
	if u := Cross(v, w); u != (V3{0, 0, 1}) {
		t.Fatalf("Cross\nhave %v\nwant [0 0 1]", u)
	}
}

func TestV4(t *testing.T) {
	v := V4{1, 2, 3, 4}
	if u := Vec3(v); u != (V3{1, 2, 3}) {
		t.Fatalf("Vec3\nhave %v\nwant [1 2 3]", u)
	}
	if u := Vec4(V3{1, 2, 3}, 4); u != v {
		t.Fatalf("Vec4\nhave %v\nwant %v", u, v)
	}
	if d := DotV4(v, V4{1, 1, 1, 1}); d != 10 {
		t.Fatalf("DotV4\nhave %v\nwant 10", d)
	}
}

func TestM4Identity(t *testing.T) {
	var m M4
	m.I()
	v := V4{1, 2, 3, 1}
	if u := m.MulV4(v); u != v {
		t.Fatalf("M4.MulV4 with identity\nhave %v\nwant %v", u, v)
	}
}

func TestM4Invert(t *testing.T) {
	m := M4{
		{1, 0, 0, 0},
		{0, 2, 0, 0},
		{0, 0, 1, 0},
		{3, 4, 5, 1},
	}
	var inv, id M4
	inv.Invert(&m)
	id.Mul(&m, &inv)

	var want M4
	want.I()
	const eps = 1e-9
	for i := range id {
		for j := range id[i] {
			if math.Abs(id[i][j]-want[i][j]) > eps {
				t.Fatalf("M4.Invert\nhave %v\nwant %v", id, want)
			}
		}
	}
}

func TestPlaneDistance(t *testing.T) {
	p := Plane{0, 0, 1, 0} // z >= 0
	if d := p.Distance(V3{0, 0, 5}); d != 5 {
		t.Fatalf("Plane.Distance\nhave %v\nwant 5", d)
	}
	if d := p.Distance(V3{0, 0, -5}); d != -5 {
		t.Fatalf("Plane.Distance\nhave %v\nwant -5", d)
	}
}

func TestPlaneTransformRoundTrip(t *testing.T) {
	p := Plane{1, 2, 3, 4}
	m := M4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{5, -3, 2, 1},
	}
	var inv M4
	inv.Invert(&m)

	q := p.Transform(&m).Transform(&inv)
	const eps = 1e-9
	for i := range p {
		if math.Abs(p[i]-q[i]) > eps {
			t.Fatalf("Plane.Transform round trip\nhave %v\nwant %v", q, p)
		}
	}
}

func TestPolytopeInside(t *testing.T) {
	// Unit cube [-1,1]^3 as six inward-facing half-spaces.
	cube := Polytope{
		{1, 0, 0, 1}, {-1, 0, 0, 1},
		{0, 1, 0, 1}, {0, -1, 0, 1},
		{0, 0, 1, 1}, {0, 0, -1, 1},
	}
	if !cube.Inside(V3{0, 0, 0}) {
		t.Fatal("Polytope.Inside\nhave false\nwant true")
	}
	if cube.Inside(V3{2, 0, 0}) {
		t.Fatal("Polytope.Inside\nhave true\nwant false")
	}
	// Adding an already-satisfied plane must not change the result
	// (monotone conjunction).
	extra := append(Polytope{}, cube...)
	extra = append(extra, Plane{0, 0, 0, 1})
	if extra.Inside(V3{0, 0, 0}) != cube.Inside(V3{0, 0, 0}) {
		t.Fatal("Polytope.Inside changed after adding a satisfied plane")
	}
}

func TestMulQIdentity(t *testing.T) {
	id := Q{R: 1}
	q := Q{V: V3{1, 2, 3}, R: 4}
	if got := MulQ(id, q); got != q {
		t.Fatalf("MulQ(identity, q)\nhave %v\nwant %v", got, q)
	}
	if got := MulQ(q, id); got != q {
		t.Fatalf("MulQ(q, identity)\nhave %v\nwant %v", got, q)
	}
}

func TestQM4Identity(t *testing.T) {
	q := Q{R: 1}
	var want M4
	want.I()
	if got := q.M4(); got != want {
		t.Fatalf("Q{R:1}.M4()\nhave %v\nwant %v", got, want)
	}
}

func TestQM4HalfTurnAboutZ(t *testing.T) {
	// sin(90deg)=1, cos(90deg)=0: a 180deg rotation about Z,
	// representable exactly with no trigonometric rounding.
	q := Q{V: V3{0, 0, 1}, R: 0}
	want := M4{{-1, 0, 0, 0}, {0, -1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
	if got := q.M4(); got != want {
		t.Fatalf("180deg-about-Z Q.M4()\nhave %v\nwant %v", got, want)
	}
}

func TestPolytopeIntersectsSphere(t *testing.T) {
	cube := Polytope{
		{1, 0, 0, 1}, {-1, 0, 0, 1},
		{0, 1, 0, 1}, {0, -1, 0, 1},
		{0, 0, 1, 1}, {0, 0, -1, 1},
	}
	if !cube.IntersectsSphere(Sphere{Center: V3{0, 0, 0}, Radius: 0.5}) {
		t.Fatal("Polytope.IntersectsSphere\nhave false\nwant true")
	}
	if cube.IntersectsSphere(Sphere{Center: V3{5, 0, 0}, Radius: 0.5}) {
		t.Fatal("Polytope.IntersectsSphere\nhave true\nwant false")
	}
	if cube.IntersectsSphere(Sphere{Center: V3{0, 0, 0}, Radius: -1}) {
		t.Fatal("Polytope.IntersectsSphere with invalid sphere\nhave true\nwant false")
	}
}
