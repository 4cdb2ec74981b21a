// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package xfer

import "github.com/suchaoyong/VulkanSceneGraph/driver"

// StagingBlock provides a single frame slot's worth of
// host-visible memory plus the command buffer and semaphore
// used to transfer it. Sizing is grow-only (xfer/scheduler.go
// reallocates in place whenever a cycle's required total
// exceeds the current capacity) since staging is per-block and
// shrinking would only cause churn across frames.
type StagingBlock struct {
	Buffer driver.Buffer

	// CopyRegions is reusable scratch for one destination
	// buffer's worth of copy regions; the scheduler resets
	// and refills it once per destination buffer.
	CopyRegions []driver.BufferCopy

	CmdBuffer           driver.CmdBuffer
	CompletionSemaphore driver.Semaphore
}

// mapped returns the persistently-mapped view of the staging
// buffer, or nil if no buffer has been allocated yet.
func (s *StagingBlock) mapped() []byte {
	if s.Buffer == nil {
		return nil
	}
	return s.Buffer.Bytes()
}

func (s *StagingBlock) capacity() int64 {
	if s.Buffer == nil {
		return 0
	}
	return s.Buffer.Cap()
}

// grow reallocates the staging buffer to size
// max(required, minSize), releasing the previous one. Any
// mapping obtained before this call is invalid afterward.
func (s *StagingBlock) grow(gpu driver.GPU, required, minSize int64) error {
	size := required
	if minSize > size {
		size = minSize
	}
	buf, err := gpu.NewBuffer(size, true, driver.UCopySrc)
	if err != nil {
		return err
	}
	if s.Buffer != nil {
		s.Buffer.Destroy()
	}
	s.Buffer = buf
	return nil
}

// ensureResources lazily allocates the command buffer and
// completion semaphore on first use, and resets the command
// buffer for re-recording on subsequent cycles.
func (s *StagingBlock) ensureResources(gpu driver.GPU, queueFamily int) error {
	if s.CmdBuffer == nil {
		cmd, err := gpu.NewCmdBuffer(queueFamily)
		if err != nil {
			return err
		}
		s.CmdBuffer = cmd
	} else if err := s.CmdBuffer.Reset(); err != nil {
		return err
	}
	if s.CompletionSemaphore == nil {
		sem, err := gpu.NewSemaphore(driver.SAllCommands)
		if err != nil {
			return err
		}
		s.CompletionSemaphore = sem
	}
	return nil
}

// alignUp4 rounds n up to the next multiple of 4.
func alignUp4(n int64) int64 { return (n + 3) &^ 3 }
