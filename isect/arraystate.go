// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package isect

import (
	"github.com/suchaoyong/VulkanSceneGraph/driver"
	"github.com/suchaoyong/VulkanSceneGraph/linear"
)

// ArrayState describes how to interpret a draw call's vertex
// stream: its topology, and a lookup from instance index to
// that instance's vertex array. The traversal framework pushes
// one of these before each drawable primitive it visits.
type ArrayState struct {
	Topology driver.Topology

	// Vertices returns the vertex array for the given
	// instance, or nil if the instance has no array (spec
	// §4.6: IntersectDraw aborts the whole call when this
	// happens).
	Vertices func(instance int) []linear.V3
}
