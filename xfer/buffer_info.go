// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package xfer

import (
	"sync/atomic"

	"github.com/suchaoyong/VulkanSceneGraph/driver"
)

// BufferInfo references a region of a GPU buffer that a
// Data payload should be copied into. It is shared between
// whatever produced it and the TransferBatch it is assigned
// to: the batch's reference is dropped once the entry is
// erased (abandoned, or uploaded once as STATIC), and the
// producer's reference is dropped with Release.
//
// ref_count == 1 means only the batch still holds the entry,
// i.e. the producer has released it: the next transfer cycle
// erases it without uploading (see abandoned).
type BufferInfo struct {
	Buffer driver.Buffer
	Offset int64
	Range  int64
	Data   *Data

	refs int32
	seen map[int]uint64
}

// NewBufferInfo creates a BufferInfo with one reference held
// by the caller (the producer).
func NewBufferInfo(buf driver.Buffer, offset, rng int64, data *Data) *BufferInfo {
	return &BufferInfo{
		Buffer: buf,
		Offset: offset,
		Range:  rng,
		Data:   data,
		refs:   1,
		seen:   make(map[int]uint64),
	}
}

// Release drops the producer's reference. Once the scheduler
// is the only remaining holder, the entry is abandoned and
// erased on the next transfer cycle with nothing uploaded.
func (b *BufferInfo) Release() { atomic.AddInt32(&b.refs, -1) }

func (b *BufferInfo) retain() { atomic.AddInt32(&b.refs, 1) }

func (b *BufferInfo) abandoned() bool { return atomic.LoadInt32(&b.refs) == 1 }

// SyncModifiedCounts reports whether the stored modification
// count for deviceID differs from Data's authoritative count,
// recording the authoritative count as a side effect so that
// a later call with an unchanged Data returns false.
func (b *BufferInfo) SyncModifiedCounts(deviceID int) bool {
	cur := b.Data.Count()
	if last, ok := b.seen[deviceID]; ok && last == cur {
		return false
	}
	b.seen[deviceID] = cur
	return true
}
