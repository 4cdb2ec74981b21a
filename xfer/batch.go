// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package xfer

import (
	"sort"

	"github.com/suchaoyong/VulkanSceneGraph/driver"
)

// bufferSubmap is the offset-keyed map of BufferInfo held for
// a single destination buffer. Iteration order is not
// meaningful; sortedOffsets below imposes the deterministic
// order the scheduler needs when recording copy regions.
type bufferSubmap map[int64]*BufferInfo

// TransferBatch (DataToCopy) is a pending set of uploads: a
// two-level buffer_map grouping BufferInfo by destination
// buffer and then by destination offset, plus an image_set of
// ImageInfo. A TransferScheduler drives two of these — early
// and late (xfer/scheduler.go) — with identical contract.
type TransferBatch struct {
	bufferMap map[driver.Buffer]bufferSubmap
	imageSet  map[*ImageInfo]struct{}
}

// NewTransferBatch creates an empty TransferBatch.
func NewTransferBatch() *TransferBatch {
	return &TransferBatch{
		bufferMap: make(map[driver.Buffer]bufferSubmap),
		imageSet:  make(map[*ImageInfo]struct{}),
	}
}

// AssignBufferInfos inserts every entry with a non-nil Buffer
// into buffer_map[Buffer][Offset]. A duplicate at the same
// (buffer, offset) overwrites the previous entry, releasing
// the batch's reference on whatever it replaces.
func (t *TransferBatch) AssignBufferInfos(infos []*BufferInfo) {
	for _, bi := range infos {
		if bi == nil || bi.Buffer == nil {
			continue
		}
		sub, ok := t.bufferMap[bi.Buffer]
		if !ok {
			sub = make(bufferSubmap)
			t.bufferMap[bi.Buffer] = sub
		}
		if old, exists := sub[bi.Offset]; exists {
			old.Release()
		}
		bi.retain()
		sub[bi.Offset] = bi
	}
}

// AssignImageInfos inserts every entry whose view/data chain
// is non-null into image_set.
func (t *TransferBatch) AssignImageInfos(infos []*ImageInfo) {
	for _, ii := range infos {
		if !ii.valid() {
			continue
		}
		if _, exists := t.imageSet[ii]; exists {
			continue
		}
		ii.retain()
		t.imageSet[ii] = struct{}{}
	}
}

// HasData reports whether either container holds an entry.
func (t *TransferBatch) HasData() bool {
	for _, sub := range t.bufferMap {
		if len(sub) > 0 {
			return true
		}
	}
	return len(t.imageSet) > 0
}

// sortedOffsets returns sub's keys in ascending order, the
// order the scheduler must visit them in to keep copy-region
// destination offsets strictly increasing within one buffer.
func sortedOffsets(sub bufferSubmap) []int64 {
	offs := make([]int64, 0, len(sub))
	for off := range sub {
		offs = append(offs, off)
	}
	sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })
	return offs
}
