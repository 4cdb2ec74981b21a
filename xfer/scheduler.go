// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package xfer

import (
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/suchaoyong/VulkanSceneGraph/driver"
	"github.com/suchaoyong/VulkanSceneGraph/format"
)

// DynamicData bundles the two kinds of upload a producer may
// assign in one call, mirroring the three-overload Assign
// contract (DynamicData, []*BufferInfo, []*ImageInfo).
type DynamicData struct {
	BufferInfos []*BufferInfo
	ImageInfos  []*ImageInfo
}

// Scheduler (TransferScheduler) owns a ring of StagingBlocks,
// one per in-flight frame, and drives the early and late
// TransferBatch through it. advance, assign, has_data and
// transfer_data are mutually excluded by mu; a single
// consumer thread is assumed for the transfer_data calls
// themselves (spec §4.3/§5).
type Scheduler struct {
	// TransferQueue is the queue transfer command buffers are
	// submitted to.
	TransferQueue driver.Queue
	// MinimumStagingBufferSize is the floor a StagingBlock's
	// buffer is grown to even when a cycle needs less.
	MinimumStagingBufferSize int64
	// WaitSemaphores are cleared by the next cycle that records
	// commands: passed to its submission when it writes any
	// bytes (and cleared even if that submission fails), or
	// dropped unused when it writes none.
	WaitSemaphores []driver.WaitSemaphore
	// SignalSemaphores are signaled by every submission in
	// addition to the block's own completion semaphore.
	SignalSemaphores []driver.Semaphore
	// Level is a verbosity setting, mirroring TransferTask's
	// own level field. The Scheduler's methods do not read it.
	Level int
	// Logger is an optional message sink stored alongside
	// Level. The Scheduler's methods do not call it, so no
	// progress messages are emitted whether or not it is set.
	Logger func(string, ...any)

	device driver.Device

	mu           sync.Mutex
	frames       []*StagingBlock
	ringIndices  []int
	currentIndex int

	earlyBatch *TransferBatch
	lateBatch  *TransferBatch

	dataTotalSize    int64
	imageTotalSize   int64
	dataTotalRegions int

	currentTransferCompletedSemaphore driver.Semaphore
}

// NewScheduler creates a Scheduler with numBuffers in-flight
// frame slots. numBuffers must be at least 1.
func NewScheduler(device driver.Device, numBuffers int) (*Scheduler, error) {
	if numBuffers < 1 {
		return nil, errors.New(prefix + "numBuffers must be >= 1")
	}
	frames := make([]*StagingBlock, numBuffers)
	for i := range frames {
		frames[i] = &StagingBlock{}
	}
	return &Scheduler{
		device:      device,
		frames:      frames,
		ringIndices: make([]int, numBuffers),
		// currentIndex == numBuffers is the sentinel for
		// "never advanced".
		currentIndex: numBuffers,
		earlyBatch:   NewTransferBatch(),
		lateBatch:    NewTransferBatch(),
	}, nil
}

// Advance rotates frame tracking. The first call sets
// current_index to 0; every subsequent call advances it
// modulo N and shifts the ring of historical indices right by
// one before writing the new current index into slot 0.
func (s *Scheduler) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.frames)
	if s.currentIndex == n {
		s.currentIndex = 0
	} else {
		s.currentIndex = (s.currentIndex + 1) % n
		for i := n - 1; i > 0; i-- {
			s.ringIndices[i] = s.ringIndices[i-1]
		}
	}
	s.ringIndices[0] = s.currentIndex
}

// Index returns ring_indices[k], or N (the sentinel meaning
// "no such historical frame yet") if k is out of range.
func (s *Scheduler) Index(k int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(k)
}

func (s *Scheduler) index(k int) int {
	if k < len(s.frames) {
		return s.ringIndices[k]
	}
	return len(s.frames)
}

// ContainsDataToTransfer reports whether either batch holds
// an entry.
func (s *Scheduler) ContainsDataToTransfer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.earlyBatch.HasData() || s.lateBatch.HasData()
}

// Assign adds data to the early batch. The three call shapes
// mirror the producer-facing API's three Assign overloads.
func (s *Scheduler) Assign(data DynamicData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earlyBatch.AssignBufferInfos(data.BufferInfos)
	s.earlyBatch.AssignImageInfos(data.ImageInfos)
}

func (s *Scheduler) AssignBufferInfos(infos []*BufferInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earlyBatch.AssignBufferInfos(infos)
}

func (s *Scheduler) AssignImageInfos(infos []*ImageInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earlyBatch.AssignImageInfos(infos)
}

// AssignLate is the late-batch mirror of Assign (spec §9,
// "two batches"): an application records uploads here when it
// wants them to land after the current render pass rather
// than at the top of the frame.
func (s *Scheduler) AssignLate(data DynamicData) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lateBatch.AssignBufferInfos(data.BufferInfos)
	s.lateBatch.AssignImageInfos(data.ImageInfos)
}

func (s *Scheduler) AssignBufferInfosLate(infos []*BufferInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lateBatch.AssignBufferInfos(infos)
}

func (s *Scheduler) AssignImageInfosLate(infos []*ImageInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lateBatch.AssignImageInfos(infos)
}

// TransferData runs one transfer cycle for the early batch.
// It returns the number of bytes staged: each uploaded buffer
// entry's range, plus each uploaded image's size rounded up to
// a multiple of 4. Zero bytes with a nil error means there was
// nothing to upload (NothingToDo).
func (s *Scheduler) TransferData() (int64, error) {
	return s.transferCycle(s.earlyBatch)
}

// TransferDataLate runs one transfer cycle for the late batch,
// with an identical contract to TransferData.
func (s *Scheduler) TransferDataLate() (int64, error) {
	return s.transferCycle(s.lateBatch)
}

func (s *Scheduler) transferCycle(batch *TransferBatch) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.currentIndex >= len(s.frames) {
		// The scheduler never advanced: nothing to do.
		return 0, nil
	}
	block := s.frames[s.currentIndex]

	imageSize, dataSize, regions, err := s.sizePass(batch)
	if err != nil {
		return 0, err
	}
	s.imageTotalSize, s.dataTotalSize, s.dataTotalRegions = imageSize, dataSize, regions
	total := dataSize + imageSize
	if total == 0 {
		return 0, nil
	}

	if err := block.ensureResources(s.device.GPU(), s.TransferQueue.QueueFamilyIndex()); err != nil {
		return 0, err
	}
	if block.capacity() < total {
		if err := block.grow(s.device.GPU(), total, s.MinimumStagingBufferSize); err != nil {
			return 0, errors.Wrap(ErrMapFailure, err.Error())
		}
	}

	if err := block.CmdBuffer.Begin(true); err != nil {
		return 0, err
	}
	offset, written1 := s.transferBufferInfos(batch, block, 0)
	offset, written2, err2 := s.transferImageInfos(batch, block, offset)
	if err2 != nil {
		return 0, err2
	}
	if err := block.CmdBuffer.End(); err != nil {
		return 0, err
	}
	_ = offset

	written := written1 + written2
	if written > 0 {
		signal := append([]driver.Semaphore{block.CompletionSemaphore}, s.SignalSemaphores...)
		err := s.TransferQueue.Submit(&driver.SubmitInfo{
			CmdBuffers: []driver.CmdBuffer{block.CmdBuffer},
			Wait:       s.WaitSemaphores,
			Signal:     signal,
		})
		s.WaitSemaphores = nil
		if err != nil {
			return 0, errors.Wrap(ErrSubmitFailure, err.Error())
		}
		s.currentTransferCompletedSemaphore = block.CompletionSemaphore
	} else {
		s.WaitSemaphores = nil
	}
	return written, nil
}

// StagingCapacity returns the current frame's staging buffer
// capacity, or 0 if the scheduler has not advanced yet or no
// buffer has been allocated for this frame.
func (s *Scheduler) StagingCapacity() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.currentIndex >= len(s.frames) {
		return 0
	}
	return s.frames[s.currentIndex].capacity()
}

// CurrentTransferCompletedSemaphore returns the most recent
// block's completion semaphore. It is left unchanged by a
// cycle that wrote zero bytes.
func (s *Scheduler) CurrentTransferCompletedSemaphore() driver.Semaphore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentTransferCompletedSemaphore
}

// sizePass computes the total bytes a cycle would need for
// the image set and the buffer map, independently of which
// entries will actually be dirty at record time (record-time
// filtering happens in transferBufferInfos/transferImageInfos
// below, per spec §4.4 step 2 vs step 4). The two walks touch
// disjoint containers and accumulate independently, so they
// run concurrently.
func (s *Scheduler) sizePass(batch *TransferBatch) (imageSize, dataSize int64, regions int, err error) {
	g := new(errgroup.Group)
	g.Go(func() error {
		for info := range batch.imageSet {
			traits := format.TraitsOf(info.ViewFormat)
			imageSize += alignUp4(int64(traits.Size) * int64(info.Data.ValueCount))
		}
		return nil
	})
	g.Go(func() error {
		for _, sub := range batch.bufferMap {
			for _, bi := range sub {
				dataSize += alignUp4(bi.Range)
				regions++
			}
		}
		return nil
	})
	err = g.Wait()
	return
}

// transferBufferInfos implements _transfer_buffer_infos: it
// erases abandoned entries, copies dirty ones into staging,
// records one copy_buffer call per destination buffer, and
// drops STATIC entries after they've been uploaded once.
func (s *Scheduler) transferBufferInfos(batch *TransferBatch, block *StagingBlock, offset int64) (int64, int64) {
	deviceID := s.device.DeviceID()
	var written int64
	mapped := block.mapped()
	for buf, sub := range batch.bufferMap {
		block.CopyRegions = block.CopyRegions[:0]
		for _, off := range sortedOffsets(sub) {
			bi := sub[off]
			if bi.abandoned() {
				bi.Release()
				delete(sub, off)
				continue
			}
			if bi.SyncModifiedCounts(deviceID) {
				n := copy(mapped[offset:], bi.Data.Bytes[:bi.Range])
				block.CopyRegions = append(block.CopyRegions, driver.BufferCopy{
					SrcOff: offset,
					DstOff: bi.Offset,
					Size:   int64(n),
				})
				offset += alignUp4(int64(n))
				written += int64(n)
			}
			if bi.Data.Variance == Static {
				bi.Release()
				delete(sub, off)
			}
		}
		if len(block.CopyRegions) > 0 {
			block.CmdBuffer.CopyBuffer(block.Buffer, buf, block.CopyRegions)
		}
		if len(sub) == 0 {
			delete(batch.bufferMap, buf)
		}
	}
	return offset, written
}

// transferImageInfos implements _transfer_image_infos.
func (s *Scheduler) transferImageInfos(batch *TransferBatch, block *StagingBlock, offset int64) (int64, int64, error) {
	deviceID := s.device.DeviceID()
	var written int64
	for info := range batch.imageSet {
		if info.abandoned() {
			info.Release()
			delete(batch.imageSet, info)
			continue
		}
		if info.SyncModifiedCounts(deviceID) {
			n, err := s.transferImageInfo(info, block, offset)
			if err != nil {
				return offset, written, err
			}
			offset += n
			written += n
		}
		if info.Data.Variance == Static {
			info.Release()
			delete(batch.imageSet, info)
		}
	}
	return offset, written, nil
}

// transferImageInfo implements _transfer_image_info's three
// format regimes (spec §4.4) and returns the 4-byte-aligned
// number of bytes it wrote into staging.
func (s *Scheduler) transferImageInfo(info *ImageInfo, block *StagingBlock, offset int64) (int64, error) {
	d := info.Data
	srcTraits := format.TraitsOf(d.Format)
	targetTraits := format.TraitsOf(info.ViewFormat)
	mapped := block.mapped()

	prop := driver.ImageProperties{Format: d.Format, Stride: srcTraits.Size}
	var n int64

	switch {
	case d.Format == info.ViewFormat, srcTraits.Size == targetTraits.Size:
		// Regime 1/2: identical format, or differing format
		// with identical size (reinterpret in place).
		size := int64(d.ValueCount) * int64(srcTraits.Size)
		copy(mapped[offset:], d.Bytes[:size])
		n = size
	default:
		// Regime 3: per-value expansion, padding with the
		// target format's default value.
		pos := offset
		for v := 0; v < d.ValueCount; v++ {
			srcOff := v * srcTraits.Size
			copy(mapped[pos:], d.Bytes[srcOff:srcOff+srcTraits.Size])
			pos += int64(srcTraits.Size)
			for b := srcTraits.Size; b < targetTraits.Size; b++ {
				mapped[pos] = targetTraits.DefaultValue[b]
				pos++
			}
		}
		n = int64(targetTraits.Size) * int64(d.ValueCount)
		prop.Format = info.ViewFormat
		prop.Stride = targetTraits.Size
	}

	levels := mipLevels(info)
	gpu := s.device.GPU()
	err := gpu.TransferImageData(
		info.View, info.Layout, prop,
		driver.Dim3D{Width: d.Width, Height: d.Height, Depth: d.Depth},
		levels, d.MipmapOffsets,
		block.Buffer, offset, block.CmdBuffer,
	)
	if err != nil {
		return 0, err
	}
	return alignUp4(n), nil
}

// mipLevels derives a level count from the image's extents
// and the sampler's mip constraints, mirroring the role the
// external graphics-API wrapper otherwise plays in computing
// this value.
func mipLevels(info *ImageInfo) int {
	if info.Sampler == nil || info.Sampler.MipFilter() == driver.FNoMipmap {
		return 1
	}
	d := info.Data
	max := d.Width
	if d.Height > max {
		max = d.Height
	}
	if d.Depth > max {
		max = d.Depth
	}
	levels := 1
	for max > 1 {
		max >>= 1
		levels++
	}
	if maxLOD := int(info.Sampler.MaxLOD()) + 1; maxLOD < levels {
		levels = maxLOD
	}
	return levels
}
