// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package fakegpu provides an in-memory implementation of the
// driver interfaces, used only by xfer and driver tests to
// exercise the scheduler and driver registry without a real GPU.
package fakegpu

import (
	"github.com/pkg/errors"

	"github.com/suchaoyong/VulkanSceneGraph/driver"
)

// GPU is a driver.GPU backed entirely by host memory.
type GPU struct {
	drv driver.Driver

	// FailNextBuffer makes the next NewBuffer call fail and
	// return, simulating a host-memory allocation failure
	// (e.g. staging buffer growth).
	FailNextBuffer bool
}

// New creates a fake GPU. drv may be nil; it is only
// returned by Driver().
func New(drv driver.Driver) *GPU { return &GPU{drv: drv} }

func (g *GPU) Driver() driver.Driver { return g.drv }

func (g *GPU) NewCmdBuffer(queueFamily int) (driver.CmdBuffer, error) {
	return &CmdBuffer{queueFamily: queueFamily}, nil
}

func (g *GPU) NewBuffer(size int64, visible bool, usg driver.Usage) (driver.Buffer, error) {
	if g.FailNextBuffer {
		g.FailNextBuffer = false
		return nil, errors.New("fakegpu: buffer allocation failed")
	}
	if size <= 0 {
		return nil, errors.New("fakegpu: size must be > 0")
	}
	return &Buffer{data: make([]byte, size), visible: visible}, nil
}

func (g *GPU) NewSemaphore(stage driver.Sync) (driver.Semaphore, error) {
	return &Semaphore{stage: stage}, nil
}

func (g *GPU) TransferImageData(view driver.ImageView, layout driver.Layout, prop driver.ImageProperties, size driver.Dim3D, mipLevels int, mipmapOffsets []int64, src driver.Buffer, srcOff int64, cmd driver.CmdBuffer) error {
	iv, ok := view.(*ImageView)
	if !ok {
		return errors.New("fakegpu: foreign ImageView")
	}
	iv.Layout = layout
	iv.Properties = prop
	iv.Size = size
	iv.MipLevels = mipLevels
	iv.MipmapOffsets = mipmapOffsets
	iv.Src = src
	iv.SrcOff = srcOff
	return nil
}

// Driver is a driver.Driver that opens a fake, host-memory
// backed GPU. Its Open is idempotent per spec (a second call
// returns the same *GPU), matching the contract real driver
// implementations must satisfy.
type Driver struct {
	name string
	gpu  *GPU
}

// NewDriver creates a Driver identified by name. It does not
// open a GPU until Open is called.
func NewDriver(name string) *Driver { return &Driver{name: name} }

func (d *Driver) Open() (driver.GPU, error) {
	if d.gpu == nil {
		d.gpu = New(d)
	}
	return d.gpu, nil
}

func (d *Driver) Name() string { return d.name }

func (d *Driver) Close() { d.gpu = nil }

// Device pairs a GPU with a stable identity, as driver.Device
// requires.
type Device struct {
	id  int
	gpu *GPU
}

func NewDevice(id int, gpu *GPU) *Device { return &Device{id: id, gpu: gpu} }

func (d *Device) DeviceID() int  { return d.id }
func (d *Device) GPU() driver.GPU { return d.gpu }

// Queue records every SubmitInfo it receives so a test can
// assert on what was submitted.
type Queue struct {
	Family    int
	Submitted []*driver.SubmitInfo
	FailNext  bool
}

func (q *Queue) QueueFamilyIndex() int { return q.Family }

func (q *Queue) Submit(info *driver.SubmitInfo) error {
	if q.FailNext {
		q.FailNext = false
		return errors.New("fakegpu: submit failed")
	}
	q.Submitted = append(q.Submitted, info)
	return nil
}

// CmdBuffer records whether it is recording and the buffer
// copies issued against it, for test assertions.
type CmdBuffer struct {
	queueFamily int
	recording   bool
	destroyed   bool

	Copies      []copyCall
	Transitions []driver.Transition
}

type copyCall struct {
	Src, Dst driver.Buffer
	Regions  []driver.BufferCopy
}

func (c *CmdBuffer) Destroy() { c.destroyed = true }

func (c *CmdBuffer) IsRecording() bool { return c.recording }

func (c *CmdBuffer) Begin(oneTimeSubmit bool) error {
	c.recording = true
	return nil
}

func (c *CmdBuffer) End() error {
	c.recording = false
	return nil
}

func (c *CmdBuffer) Reset() error {
	c.recording = false
	c.Copies = nil
	c.Transitions = nil
	return nil
}

func (c *CmdBuffer) CopyBuffer(src, dst driver.Buffer, regions []driver.BufferCopy) {
	cp := make([]driver.BufferCopy, len(regions))
	copy(cp, regions)
	c.Copies = append(c.Copies, copyCall{Src: src, Dst: dst, Regions: cp})
}

func (c *CmdBuffer) Transition(t []driver.Transition) {
	c.Transitions = append(c.Transitions, t...)
}

// Buffer is a host-memory-backed driver.Buffer.
type Buffer struct {
	data      []byte
	visible   bool
	destroyed bool
}

func (b *Buffer) Destroy() { b.destroyed = true }

func (b *Buffer) Visible() bool { return b.visible }

func (b *Buffer) Bytes() []byte {
	if !b.visible {
		return nil
	}
	return b.data
}

func (b *Buffer) Cap() int64 { return int64(len(b.data)) }

// Semaphore records only its signal stage and whether it was
// destroyed; it does not track waits or signals, since fakegpu
// has no real GPU timeline to synchronize.
type Semaphore struct {
	stage     driver.Sync
	destroyed bool
}

func (s *Semaphore) Destroy() { s.destroyed = true }

func (s *Semaphore) Stage() driver.Sync { return s.stage }

// Image is a handle-only driver.Image; fakegpu keeps no pixel
// storage of its own, relying on the staging buffer for data.
type Image struct {
	destroyed bool
}

func NewImage() *Image { return &Image{} }

func (i *Image) Destroy() { i.destroyed = true }

func (i *Image) NewView(layer, layers, level, levels int) (driver.ImageView, error) {
	return &ImageView{img: i, Layer: layer, Layers: layers, Level: level, Levels: levels}, nil
}

// ImageView records the parameters of the most recent
// TransferImageData call made against it.
type ImageView struct {
	img       *Image
	destroyed bool

	Layer, Layers, Level, Levels int

	Layout        driver.Layout
	Properties    driver.ImageProperties
	Size          driver.Dim3D
	MipLevels     int
	MipmapOffsets []int64

	// Src/SrcOff are the staging buffer and offset the most
	// recent TransferImageData call copied from, recorded so
	// tests can inspect the exact bytes that were staged.
	Src    driver.Buffer
	SrcOff int64
}

func (v *ImageView) Destroy() { v.destroyed = true }

func (v *ImageView) Image() driver.Image { return v.img }

// Sampler is a fixed-value driver.Sampler.
type Sampler struct {
	Filter    driver.Filter
	MaxLODVal float32
}

func (s *Sampler) Destroy() {}

func (s *Sampler) MipFilter() driver.Filter { return s.Filter }

func (s *Sampler) MaxLOD() float32 { return s.MaxLODVal }
