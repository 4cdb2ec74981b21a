// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package isect

import "github.com/suchaoyong/VulkanSceneGraph/linear"

// Viewport is the screen-space rectangle a camera renders
// into. A zero Width or Height means "pass through": screen
// coordinates are used as NDC coordinates directly instead of
// being remapped.
type Viewport struct {
	X, Y          float64
	Width, Height float64
}

// DepthRange is the depth value written at the near and far
// planes, e.g. {0, 1} for a standard depth buffer.
type DepthRange struct {
	Min, Max float64
}

// Camera bundles the view and projection matrices and the
// viewport/depth configuration that PolytopeFromCamera needs
// to derive a world-space clip volume.
type Camera struct {
	View       linear.M4
	Projection linear.M4
	Viewport   Viewport
	Depth      DepthRange
}

// NewCamera creates a Camera with identity view/projection and
// the standard [0,1] depth range; callers overwrite the
// fields they need.
func NewCamera() Camera {
	c := Camera{Depth: DepthRange{Min: 0, Max: 1}}
	c.View.I()
	c.Projection.I()
	return c
}

// ViewFromPose builds a view matrix from a world-space camera
// position and orientation, the form a camera that animates
// via quaternion interpolation naturally stores its pose in.
// The view matrix is the inverse of that pose's
// local-to-world transform, so it carries position back to
// the local origin.
func ViewFromPose(position linear.V3, orientation linear.Q) linear.M4 {
	l2w := orientation.M4()
	l2w[3] = linear.Vec4(position, 1)
	var view linear.M4
	view.Invert(&l2w)
	return view
}

// ScreenRect is the screen-space rectangle to intersect,
// e.g. a pick region around a cursor position.
type ScreenRect struct {
	XMin, YMin, XMax, YMax float64
}

// remap maps v from [offset, offset+size] to [-1, 1]. A
// non-positive size means v is already in that range.
func remap(v, offset, size float64) float64 {
	if size <= 0 {
		return v
	}
	return (v-offset)/size*2 - 1
}

// PolytopeFromCamera derives the world-space polytope bounded
// by cam's whole viewport as seen through cam: screen coordinates are
// remapped to NDC via the viewport, built into a six-plane
// clip-space polytope with reversed-Z detection on the
// projection matrix's [2][2] entry, then carried into eye
// space and world space by the plane-matrix product (spec
// §4.6 construction mode 2).
func PolytopeFromCamera(cam Camera) linear.Polytope {
	return polytopeFromCameraRect(cam, ScreenRect{
		XMin: cam.Viewport.X, YMin: cam.Viewport.Y,
		XMax: cam.Viewport.X + cam.Viewport.Width,
		YMax: cam.Viewport.Y + cam.Viewport.Height,
	})
}

// PolytopeFromCameraRect is PolytopeFromCamera restricted to
// the given screen-space rectangle.
func PolytopeFromCameraRect(cam Camera, rect ScreenRect) linear.Polytope {
	return polytopeFromCameraRect(cam, rect)
}

func polytopeFromCameraRect(cam Camera, rect ScreenRect) linear.Polytope {
	xmin := remap(rect.XMin, cam.Viewport.X, cam.Viewport.Width)
	xmax := remap(rect.XMax, cam.Viewport.X, cam.Viewport.Width)
	ymin := remap(rect.YMin, cam.Viewport.Y, cam.Viewport.Height)
	ymax := remap(rect.YMax, cam.Viewport.Y, cam.Viewport.Height)

	reverseZ := cam.Projection[2][2] > 0
	near, far := cam.Depth.Min, cam.Depth.Max
	if reverseZ {
		near, far = cam.Depth.Max, cam.Depth.Min
	}

	clip := linear.Polytope{
		{1, 0, 0, -xmin},
		{-1, 0, 0, xmax},
		{0, 1, 0, -ymin},
		{0, -1, 0, ymax},
		{0, 0, -1, near},
		{0, 0, 1, -far},
	}

	eye := clip.Transform(&cam.Projection)
	return eye.Transform(&cam.View)
}
