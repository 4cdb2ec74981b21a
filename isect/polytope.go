// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package isect

import "github.com/suchaoyong/VulkanSceneGraph/linear"

// Polytope, Plane and Sphere are the half-space primitives
// the intersector tests against (spec §4.5). The arithmetic
// lives in package linear since PolytopeFromCameraRect and
// PushTransform both need the same plane-matrix product that
// the Camera derivation uses; these aliases let callers in
// this package spell the spec's own vocabulary.
type Polytope = linear.Polytope
type Plane = linear.Plane
type Sphere = linear.Sphere
