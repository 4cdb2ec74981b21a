// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package xfer

import (
	"sync/atomic"

	"github.com/suchaoyong/VulkanSceneGraph/driver"
)

// ImageInfo references an image view that an ImageData
// payload should be uploaded into. Reference counting and
// modification tracking mirror BufferInfo.
type ImageInfo struct {
	View   driver.ImageView
	Sampler driver.Sampler
	Layout driver.Layout

	// ViewFormat is the format the view was created with,
	// i.e. the upload's target format. It may differ from
	// Data.Format, in which case the scheduler expands or
	// reinterprets the source bytes (xfer/scheduler.go).
	ViewFormat driver.PixelFmt

	Data *ImageData

	refs int32
	seen map[int]uint64
}

// NewImageInfo creates an ImageInfo with one reference held
// by the caller (the producer).
func NewImageInfo(view driver.ImageView, sampler driver.Sampler, layout driver.Layout, format driver.PixelFmt, data *ImageData) *ImageInfo {
	return &ImageInfo{
		View:       view,
		Sampler:    sampler,
		Layout:     layout,
		ViewFormat: format,
		Data:       data,
		refs:       1,
		seen:       make(map[int]uint64),
	}
}

// Release drops the producer's reference.
func (i *ImageInfo) Release() { atomic.AddInt32(&i.refs, -1) }

func (i *ImageInfo) retain() { atomic.AddInt32(&i.refs, 1) }

func (i *ImageInfo) abandoned() bool { return atomic.LoadInt32(&i.refs) == 1 }

// SyncModifiedCounts reports whether the stored modification
// count for deviceID differs from Data's authoritative count,
// recording the authoritative count as a side effect.
func (i *ImageInfo) SyncModifiedCounts(deviceID int) bool {
	cur := i.Data.Count()
	if last, ok := i.seen[deviceID]; ok && last == cur {
		return false
	}
	i.seen[deviceID] = cur
	return true
}

// valid reports whether the view/data chain required by
// TransferBatch.AssignImageInfos is non-null.
func (i *ImageInfo) valid() bool {
	return i != nil && i.View != nil && i.Data != nil
}
