// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package xfer implements the transfer scheduler that batches
// CPU-to-GPU uploads across a ring of in-flight frames.
package xfer

import (
	"sync/atomic"

	"github.com/suchaoyong/VulkanSceneGraph/driver"
)

// DataVariance classifies how often a payload's bytes change.
// STATIC payloads are uploaded once and then dropped from the
// batch; DYNAMIC payloads are re-checked every cycle.
type DataVariance int

const (
	Static DataVariance = iota
	Dynamic
)

// Data is the CPU-side payload referenced by a BufferInfo.
// The modification count is bumped by the producer (Touch)
// whenever Bytes changes; BufferInfo.SyncModifiedCounts
// compares it against the last value a given device observed.
type Data struct {
	Bytes    []byte
	Variance DataVariance

	modCount uint64
}

// Touch marks the payload as modified. Producers call this
// after writing new bytes into Data.Bytes.
func (d *Data) Touch() { atomic.AddUint64(&d.modCount, 1) }

// Count returns the payload's current modification count.
func (d *Data) Count() uint64 { return atomic.LoadUint64(&d.modCount) }

// ImageData is the CPU-side payload referenced by an
// ImageInfo, carrying its own source format since image
// transfer may require format expansion (xfer/image_info.go).
type ImageData struct {
	Bytes      []byte
	Format     driver.PixelFmt
	Width      int
	Height     int
	Depth      int
	ValueCount int
	Variance   DataVariance

	// MipmapOffsets are taken verbatim from the source data
	// and passed through to the GPU transfer call.
	MipmapOffsets []int64

	modCount uint64
}

func (d *ImageData) Touch() { atomic.AddUint64(&d.modCount, 1) }

func (d *ImageData) Count() uint64 { return atomic.LoadUint64(&d.modCount) }
