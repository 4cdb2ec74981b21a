// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package isect

import (
	"testing"

	"github.com/suchaoyong/VulkanSceneGraph/driver"
	"github.com/suchaoyong/VulkanSceneGraph/linear"
	"github.com/suchaoyong/VulkanSceneGraph/node"
)

func unitCube() linear.Polytope {
	return linear.Polytope{
		{1, 0, 0, 1}, {-1, 0, 0, 1},
		{0, 1, 0, 1}, {0, -1, 0, 1},
		{0, 0, 1, 1}, {0, 0, -1, 1},
	}
}

func TestIntersectsInvalidSphereFalse(t *testing.T) {
	it := NewFromPolytope(unitCube())
	if it.Intersects(linear.Sphere{Center: linear.V3{}, Radius: -1}) {
		t.Fatal("Intersects with negative-radius sphere\nhave true\nwant false")
	}
}

func TestIntersectsValidSphere(t *testing.T) {
	it := NewFromPolytope(unitCube())
	if !it.Intersects(linear.Sphere{Center: linear.V3{}, Radius: 0.5}) {
		t.Fatal("Intersects with sphere centered inside polytope\nhave false\nwant true")
	}
	if it.Intersects(linear.Sphere{Center: linear.V3{10, 10, 10}, Radius: 0.5}) {
		t.Fatal("Intersects with far-away sphere\nhave true\nwant false")
	}
}

func TestPushPopTransformRestoresStacks(t *testing.T) {
	it := NewFromPolytope(unitCube())
	var translate linear.M4
	translate.I()
	translate[3] = linear.V4{1, 0, 0, 1}

	polyLen, l2wLen, w2lLen := len(it.PolytopeStack), len(it.L2W), len(it.W2L)
	it.PushTransform(&translate)
	if len(it.PolytopeStack) != polyLen+1 || len(it.L2W) != l2wLen+1 || len(it.W2L) != w2lLen+1 {
		t.Fatal("PushTransform\nhave stacks unchanged\nwant all three stacks grown by one")
	}
	it.PopTransform()
	if len(it.PolytopeStack) != polyLen || len(it.L2W) != l2wLen || len(it.W2L) != w2lLen {
		t.Fatalf("PopTransform\nhave lengths (%d,%d,%d)\nwant (%d,%d,%d)",
			len(it.PolytopeStack), len(it.L2W), len(it.W2L), polyLen, l2wLen, w2lLen)
	}
	if it.PolytopeStack[0][0] != unitCube()[0] {
		t.Fatal("PopTransform\nhave base polytope mutated\nwant unchanged")
	}
}

func TestPushPopGraphNode(t *testing.T) {
	it := NewFromPolytope(unitCube())

	grouping := node.New() // no Local: skips the transform push
	pushed := it.PushGraphNode(grouping)
	if pushed {
		t.Fatal("PushGraphNode on a node with nil Local\nhave pushed transform\nwant skipped")
	}
	if len(it.NodePath) != 1 || len(it.L2W) != 0 {
		t.Fatalf("PushGraphNode(grouping)\nhave NodePath=%d L2W=%d\nwant NodePath=1 L2W=0", len(it.NodePath), len(it.L2W))
	}

	var translate linear.M4
	translate.I()
	translate[3] = linear.V4{2, 0, 0, 1}
	transformed := node.New()
	transformed.Local = &translate

	pushed = it.PushGraphNode(transformed)
	if !pushed {
		t.Fatal("PushGraphNode on a node with a Local transform\nhave skipped\nwant pushed")
	}
	if len(it.NodePath) != 2 || len(it.L2W) != 1 {
		t.Fatalf("PushGraphNode(transformed)\nhave NodePath=%d L2W=%d\nwant NodePath=2 L2W=1", len(it.NodePath), len(it.L2W))
	}
	if it.L2W[0] != translate {
		t.Fatalf("PushGraphNode(transformed) L2W\nhave %v\nwant %v", it.L2W[0], translate)
	}

	it.PopGraphNode(pushed)
	if len(it.NodePath) != 1 || len(it.L2W) != 0 {
		t.Fatalf("PopGraphNode(transformed)\nhave NodePath=%d L2W=%d\nwant NodePath=1 L2W=0", len(it.NodePath), len(it.L2W))
	}
	it.PopGraphNode(false)
	if len(it.NodePath) != 0 {
		t.Fatalf("PopGraphNode(grouping)\nhave NodePath=%d\nwant 0", len(it.NodePath))
	}
}

func TestIntersectDrawTooFewVertices(t *testing.T) {
	it := NewFromPolytope(unitCube())
	it.PushArrayState(&ArrayState{
		Topology: driver.TTriangle,
		Vertices: func(int) []linear.V3 { return []linear.V3{{}, {}} },
	})
	if it.IntersectDraw(0, 2, 0, 1) {
		t.Fatal("IntersectDraw with vertexCount=2\nhave true\nwant false")
	}
}

func TestIntersectDrawEndVertexRounding(t *testing.T) {
	verts := make([]linear.V3, 7)
	// Only the last vertex (index 6, belonging to the third,
	// incomplete triangle) lies inside the polytope; since
	// firstVertex=0, vertexCount=7 truncates to 2 whole
	// triangles (indices 0-5), it must not be tested.
	verts[6] = linear.V3{0, 0, 0}
	for i := 0; i < 6; i++ {
		verts[i] = linear.V3{10, 10, 10}
	}

	it := NewFromPolytope(unitCube())
	it.PushArrayState(&ArrayState{
		Topology: driver.TTriangle,
		Vertices: func(int) []linear.V3 { return verts },
	})
	if it.IntersectDraw(0, 7, 0, 1) {
		t.Fatal("IntersectDraw(0,7,...) with only the 7th vertex inside\nhave true\nwant false (truncated to 2 triangles)")
	}
}

func TestIntersectDrawHit(t *testing.T) {
	verts := []linear.V3{
		{0, 0, 0}, {10, 10, 10}, {10, 10, 11},
	}
	it := NewFromPolytope(unitCube())
	it.PushArrayState(&ArrayState{
		Topology: driver.TTriangle,
		Vertices: func(int) []linear.V3 { return verts },
	})
	if !it.IntersectDraw(0, 3, 0, 1) {
		t.Fatal("IntersectDraw with one inside vertex\nhave false\nwant true")
	}
	if len(it.Intersections) != 1 {
		t.Fatalf("IntersectDraw\nhave %d Intersections\nwant 1", len(it.Intersections))
	}
	got := it.Intersections[0].LocalPoint
	if got != verts[0] {
		t.Fatalf("Intersection.LocalPoint\nhave %v\nwant %v", got, verts[0])
	}
}

func TestIntersectDrawAbortsOnMissingInstance(t *testing.T) {
	verts := []linear.V3{{0, 0, 0}, {10, 10, 10}, {10, 10, 11}}
	it := NewFromPolytope(unitCube())
	it.PushArrayState(&ArrayState{
		Topology: driver.TTriangle,
		Vertices: func(instance int) []linear.V3 {
			if instance == 0 {
				return nil
			}
			return verts
		},
	})
	if it.IntersectDraw(0, 3, 0, 2) {
		t.Fatal("IntersectDraw with instance 0 missing its array\nhave true\nwant false (abort)")
	}
	if len(it.Intersections) != 0 {
		t.Fatal("IntersectDraw abort path\nhave Intersections recorded\nwant none")
	}
}

func TestIntersectDrawIndexedSkipsMissingInstance(t *testing.T) {
	verts := []linear.V3{{0, 0, 0}, {10, 10, 10}, {10, 10, 11}}
	it := NewFromPolytope(unitCube())
	it.UshortIndices = []uint16{0, 1, 2}
	it.PushArrayState(&ArrayState{
		Topology: driver.TTriangle,
		Vertices: func(instance int) []linear.V3 {
			if instance == 0 {
				return nil
			}
			return verts
		},
	})
	if !it.IntersectDrawIndexed(0, 3, 0, 2) {
		t.Fatal("IntersectDrawIndexed with instance 1 valid\nhave false\nwant true")
	}
	if len(it.Intersections) != 1 {
		t.Fatalf("IntersectDrawIndexed\nhave %d Intersections\nwant 1 (only instance 1 tested)", len(it.Intersections))
	}
	if it.Intersections[0].InstanceIndex != 1 {
		t.Fatalf("Intersection.InstanceIndex\nhave %d\nwant 1", it.Intersections[0].InstanceIndex)
	}
}

func TestIntersectDrawIndexedNoIndexSource(t *testing.T) {
	verts := []linear.V3{{0, 0, 0}, {10, 10, 10}, {10, 10, 11}}
	it := NewFromPolytope(unitCube())
	it.PushArrayState(&ArrayState{
		Topology: driver.TTriangle,
		Vertices: func(int) []linear.V3 { return verts },
	})
	if it.IntersectDrawIndexed(0, 3, 0, 1) {
		t.Fatal("IntersectDrawIndexed with no index buffer bound\nhave true\nwant false")
	}
}

func TestAddRecordsNodePathAndWorldPoint(t *testing.T) {
	a, b := node.New(), node.New()
	it := NewFromPolytope(unitCube())

	var translate linear.M4
	translate.I()
	translate[3] = linear.V4{2, 0, 0, 1}
	it.PushTransform(&translate)

	it.PushNode(a)
	it.PushNode(b)

	// PushTransform carried the *world* cube (x,y,z in [-1,1])
	// back into local space by this translation, so the local
	// polytope now bounds x in [-3,-1]: local (-2,0,0), which
	// maps to world (0,0,0), is the point inside it.
	verts := []linear.V3{{-2, 0, 0}, {100, 100, 100}, {100, 100, 101}}
	it.PushArrayState(&ArrayState{
		Topology: driver.TTriangle,
		Vertices: func(int) []linear.V3 { return verts },
	})
	if !it.IntersectDraw(0, 3, 0, 1) {
		t.Fatal("IntersectDraw\nhave false\nwant true")
	}
	got := it.Intersections[0]
	if len(got.NodePath) != 2 || got.NodePath[0] != a || got.NodePath[1] != b {
		t.Fatalf("Intersection.NodePath\nhave %v\nwant [a b]", got.NodePath)
	}
	want := linear.V3{0, 0, 0}
	if got.WorldPoint != want {
		t.Fatalf("Intersection.WorldPoint\nhave %v\nwant %v", got.WorldPoint, want)
	}
}

func TestPolytopeFromCameraIdentity(t *testing.T) {
	cam := NewCamera()
	cam.Viewport = Viewport{X: 0, Y: 0, Width: 100, Height: 100}
	poly := PolytopeFromCameraRect(cam, ScreenRect{XMin: 0, YMin: 0, XMax: 100, YMax: 100})

	if !poly.Inside(linear.V3{0, 0, 0.5}) {
		t.Fatal("identity-camera polytope at (0,0,0.5)\nhave outside\nwant inside")
	}
	if poly.Inside(linear.V3{2, 0, 0.5}) {
		t.Fatal("identity-camera polytope at (2,0,0.5)\nhave inside\nwant outside")
	}
}

// With an identity projection, Projection[2][2] == 1 > 0, so
// reversed-Z is detected and near/far are read from
// Depth.Max/Depth.Min instead of Min/Max. View and Projection
// are both identity here, so Plane.Transform is a no-op and
// the resulting z planes can be checked against the
// clip-space construction directly.
func TestPolytopeFromCameraReversedZ(t *testing.T) {
	cam := NewCamera()
	cam.Viewport = Viewport{X: 0, Y: 0, Width: 100, Height: 100}
	cam.Depth = DepthRange{Min: 0, Max: 5}

	poly := PolytopeFromCameraRect(cam, ScreenRect{XMin: 0, YMin: 0, XMax: 100, YMax: 100})
	wantNear := linear.Plane{0, 0, -1, 5}
	wantFar := linear.Plane{0, 0, 1, 0}
	if poly[4] != wantNear || poly[5] != wantFar {
		t.Fatalf("reversed-Z near/far planes\nhave %v, %v\nwant %v, %v", poly[4], poly[5], wantNear, wantFar)
	}
}

// A projection with Projection[2][2] < 0 is not reversed-Z, so
// near/far are read from Depth.Min/Depth.Max in the usual
// order. Only the [2][2] entry differs from identity, so
// columns 0, 1 and 3 still act as the standard basis and the
// x/y planes (unexercised here) would transform as if through
// identity.
func TestPolytopeFromCameraStandardZ(t *testing.T) {
	cam := NewCamera()
	cam.Viewport = Viewport{X: 0, Y: 0, Width: 100, Height: 100}
	cam.Depth = DepthRange{Min: 0, Max: 5}
	cam.Projection[2][2] = -1

	poly := PolytopeFromCameraRect(cam, ScreenRect{XMin: 0, YMin: 0, XMax: 100, YMax: 100})
	wantNear := linear.Plane{0, 0, 1, 0}
	wantFar := linear.Plane{0, 0, -1, -5}
	if poly[4] != wantNear || poly[5] != wantFar {
		t.Fatalf("standard-Z near/far planes\nhave %v, %v\nwant %v, %v", poly[4], poly[5], wantNear, wantFar)
	}
}

func TestViewFromPoseMapsEyeToOrigin(t *testing.T) {
	position := linear.V3{3, -2, 5}
	orientation := linear.Q{V: linear.V3{0, 0, 1}, R: 0} // 180deg about Z
	view := ViewFromPose(position, orientation)

	// view is the inverse of the pose's own local-to-world
	// transform, which by construction carries the local
	// origin to position; the inverse must carry it back.
	got := view.MulV3(position, 1)
	want := linear.V3{}
	if got != want {
		t.Fatalf("ViewFromPose eye round trip\nhave %v\nwant %v", got, want)
	}
}

func TestNewFromCamera(t *testing.T) {
	cam := NewCamera()
	cam.Viewport = Viewport{X: 0, Y: 0, Width: 100, Height: 100}
	it := NewFromCamera(cam, ScreenRect{XMin: 0, YMin: 0, XMax: 100, YMax: 100})
	if len(it.PolytopeStack) != 1 {
		t.Fatalf("NewFromCamera\nhave %d polytopes on stack\nwant 1", len(it.PolytopeStack))
	}
}
