// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package isect implements a polytope-based scene-graph
// intersector: given a convex volume in world space, it walks
// a pushed-down transform stack and tests triangle primitives
// against the volume in local space.
package isect

import (
	"github.com/suchaoyong/VulkanSceneGraph/driver"
	"github.com/suchaoyong/VulkanSceneGraph/linear"
	"github.com/suchaoyong/VulkanSceneGraph/node"
)

// IndexRatio pairs a vertex index within a tested primitive
// with the barycentric-style weight it contributed to an
// Intersection's local_point. The current triangle predicate
// (spec §9: any-vertex-inside) always reports a single vertex
// at weight 1; a full polytope-triangle test computing an
// interior point would populate more than one entry.
type IndexRatio struct {
	Index int
	Ratio float64
}

// Intersection records one primitive hit.
type Intersection struct {
	LocalPoint    linear.V3
	WorldPoint    linear.V3
	Ratio         float64
	LocalToWorld  linear.M4
	NodePath      []*node.Node
	Arrays        *ArrayState
	IndexRatios   []IndexRatio
	InstanceIndex int
}

// Intersector (PolytopeIntersector) walks a scene graph under
// a transform stack, carrying a polytope through coordinate
// spaces and testing triangle primitives against it in local
// space.
//
// The l2w/w2l matrix stacks are owned directly by Intersector
// rather than borrowed from an external traversal base: the
// traversal framework that would otherwise own them is out of
// scope for this module (spec §1), and nothing else drives
// them, so PushTransform/PopTransform manage all three stacks
// together (see DESIGN.md).
type Intersector struct {
	PolytopeStack []linear.Polytope
	L2W           []linear.M4
	W2L           []linear.M4

	NodePath    []*node.Node
	arrayStates []*ArrayState

	UshortIndices []uint16
	UintIndices   []uint32

	Intersections []Intersection
}

// NewFromPolytope creates an Intersector from an explicit
// world-space polytope.
func NewFromPolytope(p linear.Polytope) *Intersector {
	return &Intersector{PolytopeStack: []linear.Polytope{p}}
}

// NewFromCamera creates an Intersector from the world-space
// polytope derived from cam and rect (spec §4.6 construction
// mode 2).
func NewFromCamera(cam Camera, rect ScreenRect) *Intersector {
	return NewFromPolytope(PolytopeFromCameraRect(cam, rect))
}

// PushTransform descends one level of the scene graph under
// transform t: the new local_to_world is t composed with the
// current top of the stack (identity if the stack is empty),
// its inverse is computed and pushed alongside it, and the
// *world-space* polytope (PolytopeStack[0], never the current
// top) is carried into the new local space and pushed.
func (it *Intersector) PushTransform(t *linear.M4) {
	top := identity()
	if n := len(it.L2W); n > 0 {
		top = it.L2W[n-1]
	}
	var l2w linear.M4
	l2w.Mul(t, &top)

	var w2l linear.M4
	w2l.Invert(&l2w)

	local := it.PolytopeStack[0].Transform(&l2w)

	it.L2W = append(it.L2W, l2w)
	it.W2L = append(it.W2L, w2l)
	it.PolytopeStack = append(it.PolytopeStack, local)
}

// PopTransform undoes the most recent PushTransform.
func (it *Intersector) PopTransform() {
	it.L2W = it.L2W[:len(it.L2W)-1]
	it.W2L = it.W2L[:len(it.W2L)-1]
	it.PolytopeStack = it.PolytopeStack[:len(it.PolytopeStack)-1]
}

// PushNode appends n to the node path snapshot that Add
// records with every Intersection.
func (it *Intersector) PushNode(n *node.Node) { it.NodePath = append(it.NodePath, n) }

// PopNode removes the most recently pushed node.
func (it *Intersector) PopNode() { it.NodePath = it.NodePath[:len(it.NodePath)-1] }

// PushGraphNode is the one traversal step a real scene-graph
// walker would take before descending into n's children: it
// records n on the node path and, if n carries a Local
// transform, pushes that transform too. It reports whether a
// transform was pushed, so the matching PopGraphNode call
// undoes exactly what this one did.
func (it *Intersector) PushGraphNode(n *node.Node) bool {
	it.PushNode(n)
	if n.Local == nil {
		return false
	}
	it.PushTransform(n.Local)
	return true
}

// PopGraphNode undoes the PushGraphNode call that returned
// pushedTransform.
func (it *Intersector) PopGraphNode(pushedTransform bool) {
	if pushedTransform {
		it.PopTransform()
	}
	it.PopNode()
}

// PushArrayState makes as the context intersectDraw/
// intersectDrawIndexed consult for topology and per-instance
// vertex arrays.
func (it *Intersector) PushArrayState(as *ArrayState) { it.arrayStates = append(it.arrayStates, as) }

// PopArrayState removes the most recently pushed ArrayState.
func (it *Intersector) PopArrayState() { it.arrayStates = it.arrayStates[:len(it.arrayStates)-1] }

func (it *Intersector) currentArrayState() *ArrayState {
	if n := len(it.arrayStates); n > 0 {
		return it.arrayStates[n-1]
	}
	return nil
}

func (it *Intersector) currentPolytope() linear.Polytope {
	return it.PolytopeStack[len(it.PolytopeStack)-1]
}

func (it *Intersector) currentTransform() linear.M4 {
	if n := len(it.L2W); n > 0 {
		return it.L2W[n-1]
	}
	return identity()
}

func identity() linear.M4 {
	var m linear.M4
	m.I()
	return m
}

// Intersects tests sphere against the polytope at the current
// transform level. An invalid sphere (negative radius) never
// intersects.
func (it *Intersector) Intersects(sphere linear.Sphere) bool {
	return it.currentPolytope().IntersectsSphere(sphere)
}

// IntersectDraw tests a non-indexed TRIANGLE_LIST draw call.
// It requires vertexCount >= 3; any instance whose vertex
// array is unavailable aborts the whole call immediately
// (returns false without testing further instances).
func (it *Intersector) IntersectDraw(firstVertex, vertexCount, firstInstance, instanceCount int) bool {
	as := it.currentArrayState()
	if as == nil || as.Topology != driver.TTriangle || vertexCount < 3 {
		return false
	}
	lastInstance := firstInstance + max(instanceCount, 1)
	endVertex := ((firstVertex + vertexCount) / 3) * 3
	before := len(it.Intersections)

	for instance := firstInstance; instance < lastInstance; instance++ {
		verts := as.Vertices(instance)
		if verts == nil {
			return false
		}
		for i := firstVertex; i < endVertex; i += 3 {
			it.testTriangle(verts, [3]int{i, i + 1, i + 2}, instance)
		}
	}
	return len(it.Intersections) > before
}

// IntersectDrawIndexed tests an indexed TRIANGLE_LIST draw
// call. Unlike IntersectDraw, a missing vertex array or a
// missing index source skips only the affected instance.
func (it *Intersector) IntersectDrawIndexed(firstIndex, indexCount, firstInstance, instanceCount int) bool {
	as := it.currentArrayState()
	if as == nil || as.Topology != driver.TTriangle || indexCount < 3 {
		return false
	}

	var idx func(int) int
	switch {
	case it.UshortIndices != nil:
		idx = func(i int) int { return int(it.UshortIndices[i]) }
	case it.UintIndices != nil:
		idx = func(i int) int { return int(it.UintIndices[i]) }
	}

	lastInstance := firstInstance + max(instanceCount, 1)
	endIndex := ((firstIndex + indexCount) / 3) * 3
	before := len(it.Intersections)

	for instance := firstInstance; instance < lastInstance; instance++ {
		if idx == nil {
			continue
		}
		verts := as.Vertices(instance)
		if verts == nil {
			continue
		}
		for i := firstIndex; i < endIndex; i += 3 {
			it.testTriangle(verts, [3]int{idx(i), idx(i + 1), idx(i + 2)}, instance)
		}
	}
	return len(it.Intersections) > before
}

// testTriangle implements the current any-vertex-inside
// predicate (spec §4.6, §9): the first vertex found inside the
// polytope, in primitive order, produces one Intersection.
func (it *Intersector) testTriangle(verts []linear.V3, tri [3]int, instance int) {
	poly := it.currentPolytope()
	for _, vi := range tri {
		p := verts[vi]
		if poly.Inside(p) {
			it.add(p, 0, []IndexRatio{{Index: vi, Ratio: 1}}, instance)
			return
		}
	}
}

// add (spec §4.6 "Intersection emission") computes
// local_to_world and appends an Intersection in insertion
// order.
func (it *Intersector) add(localPoint linear.V3, ratio float64, indexRatios []IndexRatio, instance int) {
	l2w := it.currentTransform()
	path := make([]*node.Node, len(it.NodePath))
	copy(path, it.NodePath)

	it.Intersections = append(it.Intersections, Intersection{
		LocalPoint:    localPoint,
		WorldPoint:    l2w.MulV3(localPoint, 1),
		Ratio:         ratio,
		LocalToWorld:  l2w,
		NodePath:      path,
		Arrays:        it.currentArrayState(),
		IndexRatios:   indexRatios,
		InstanceIndex: instance,
	})
}
