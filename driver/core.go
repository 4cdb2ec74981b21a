// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package driver

// GPU is the main interface to an underlying driver
// implementation.
// It is used to create other types and to submit commands
// for execution. A GPU is obtained from a call to
// Driver.Open.
type GPU interface {
	// Driver returns the Driver that owns the GPU.
	Driver() Driver

	// NewCmdBuffer creates a new command buffer, allocated
	// from a pool bound to the given queue family.
	NewCmdBuffer(queueFamily int) (CmdBuffer, error)

	// NewBuffer creates a new buffer and binds memory to it.
	// If visible is true, the memory is host-visible and
	// host-coherent, and the returned Buffer is mapped for
	// the lifetime of the buffer (CreateBufferAndMemory).
	NewBuffer(size int64, visible bool, usg Usage) (Buffer, error)

	// NewSemaphore creates a new semaphore that will be
	// signaled at the given pipeline stage.
	NewSemaphore(stage Sync) (Semaphore, error)

	// TransferImageData records the commands necessary to
	// move image data staged at srcOff within src into the
	// destination view, transitioning layouts and generating
	// any requested mip levels.
	// It must only be called while cmd is recording.
	TransferImageData(view ImageView, layout Layout, prop ImageProperties, size Dim3D, mipLevels int, mipmapOffsets []int64, src Buffer, srcOff int64, cmd CmdBuffer) error
}

// Destroyer is the interface that wraps the Destroy method.
// Types that implement this interface may allocate external
// memory that is not managed by GC, so Destroy must be
// called explicitly to ensure such memory is deallocated.
type Destroyer interface {
	Destroy()
}

// Queue is the interface that defines a GPU command queue.
type Queue interface {
	// QueueFamilyIndex identifies the family that command
	// buffers submitted to this queue must be allocated from.
	QueueFamilyIndex() int

	// Submit submits a batch of work for execution.
	Submit(info *SubmitInfo) error
}

// SubmitInfo describes a single batch of work submitted to
// a Queue.
type SubmitInfo struct {
	CmdBuffers []CmdBuffer
	// Wait contains the semaphores that the batch must wait
	// on, and the pipeline stage at which each wait applies.
	Wait []WaitSemaphore
	// Signal contains the semaphores that the batch will
	// signal upon completion.
	Signal []Semaphore
}

// WaitSemaphore pairs a Semaphore with the pipeline stage at
// which a wait operation on it applies.
type WaitSemaphore struct {
	Semaphore Semaphore
	Stage     Sync
}

// CmdBuffer is the interface that defines a command buffer.
// Commands are recorded into command buffers and later
// submitted to a Queue for execution.
//
// Usage:
//
//	1. call Begin
//	2. call Copy*/Transition to record transfer commands
//	3. call End
//	4. call Queue.Submit
//	5. call Reset once execution completes, to record again
type CmdBuffer interface {
	Destroyer

	// IsRecording returns whether the command buffer is
	// currently accepting commands (Begin was called and
	// End/Reset has not been called since).
	IsRecording() bool

	// Begin prepares the command buffer for recording.
	// oneTimeSubmit indicates that the command buffer will
	// be submitted exactly once before being reset.
	Begin(oneTimeSubmit bool) error

	// End ends command recording and prepares the command
	// buffer for submission.
	End() error

	// Reset discards all recorded commands from the command
	// buffer, allowing Begin to be called again.
	Reset() error

	// CopyBuffer records a number of regions to copy between
	// two buffers. One call corresponds to one destination
	// buffer; it must only be called while recording.
	CopyBuffer(src, dst Buffer, regions []BufferCopy)

	// Transition records a number of image layout
	// transitions.
	Transition(t []Transition)
}

// BufferCopy describes a single region to copy from one
// buffer into another.
type BufferCopy struct {
	SrcOff int64
	DstOff int64
	Size   int64
}

// Sync is the type of a pipeline synchronization stage.
type Sync int

// Pipeline stages.
const (
	SCopy Sync = 1 << iota
	SVertexInput
	SVertexShading
	SFragmentShading
	SColorOutput
	SAllCommands
	SNone Sync = 0
)

// Access is the type of a memory access scope.
type Access int

// Memory access scopes.
const (
	ACopyRead Access = 1 << iota
	ACopyWrite
	AShaderRead
	AShaderWrite
	ANone Access = 0
)

// Layout is the type of an image layout.
type Layout int

// Image layouts.
const (
	LUndefined Layout = iota
	LCommon
	LCopySrc
	LCopyDst
	LShaderRead
)

// Barrier represents a synchronization barrier.
type Barrier struct {
	SyncBefore   Sync
	SyncAfter    Sync
	AccessBefore Access
	AccessAfter  Access
}

// Transition represents a layout transition on a specific
// image subresource.
type Transition struct {
	Barrier

	LayoutBefore Layout
	LayoutAfter  Layout
	View         ImageView
	Layer        int
	Layers       int
	Level        int
	Levels       int
}

// Topology is the type of primitive topologies, which
// determines how vertex data is assembled.
type Topology int

// Primitive topologies.
const (
	TPoint Topology = iota
	TLine
	TLnStrip
	TTriangle
	TTriStrip
)

// IndexFmt describes the format of index buffer data.
type IndexFmt int

// Index formats.
const (
	Index16 IndexFmt = 2
	Index32 IndexFmt = 4
)

// Usage is a mask indicating valid uses for a resource.
type Usage int

// Usage flags for Buffer and Image.
const (
	UCopySrc Usage = 1 << iota
	UCopyDst
	UShaderRead
	UShaderWrite
	UVertexData
	UIndexData
	UGeneric Usage = 1<<iota - 1
)

// Buffer is the interface that defines a GPU buffer.
// The size of the buffer is fixed. When a larger buffer is
// necessary, a new one must be created and the data copied
// explicitly.
type Buffer interface {
	Destroyer

	// Visible returns whether the buffer is host visible.
	// Non-visible memory cannot be accessed by the CPU.
	Visible() bool

	// Bytes returns a slice of length Cap referring to the
	// underlying, persistently-mapped data. It returns nil
	// if the buffer is not host visible.
	// The slice is valid for the lifetime of the buffer.
	Bytes() []byte

	// Cap returns the capacity of the buffer in bytes, which
	// may be greater than the size requested on creation.
	// This value is immutable.
	Cap() int64
}

// PixelFmt describes the format of a pixel.
// The concrete size and default-value byte pattern for each
// format is provided by the format package (the FormatTraits
// registry), kept separate since that registry is treated as
// an external collaborator.
type PixelFmt int

// Pixel formats.
const (
	RGBA8un PixelFmt = iota
	RGBA8n
	BGRA8un
	RGB8un
	RG8un
	R8un
	RGBA16f
	RGBA32f
)

// Dim3D is a three-dimensional size.
type Dim3D struct {
	Width, Height, Depth int
}

// Off3D is a three-dimensional offset.
type Off3D struct {
	X, Y, Z int
}

// ImageProperties mirrors the subset of an image data
// payload's properties that TransferImageData needs to know
// about: the format and byte stride to interpret the staged
// bytes with, which may differ from the destination view's
// own format/stride when a conversion was applied while
// staging (see xfer's format-expansion path).
type ImageProperties struct {
	Format PixelFmt
	Stride int
}

// Image is the interface that defines a GPU image.
// Direct access to image memory is not provided; copying
// data from the CPU to an image resource requires the use of
// a staging buffer (see xfer.StagingBlock).
type Image interface {
	Destroyer

	// NewView creates a new image view.
	NewView(layer, layers, level, levels int) (ImageView, error)
}

// ImageView is the interface that defines a typed view of an
// Image resource.
type ImageView interface {
	Destroyer

	// Image returns the image that the view was created from.
	Image() Image
}

// Filter is the type of sampler filters.
type Filter int

// Filters.
const (
	FNearest Filter = iota
	FLinear
	// FNoMipmap forces mip level 0 to be used. It is only
	// valid as the mip filter of a sampler.
	FNoMipmap
)

// Sampler is the interface that defines an image sampler.
// Its mip filter and LOD range drive mip-level-count
// computation for image uploads (xfer's mipLevels helper).
type Sampler interface {
	Destroyer

	// MipFilter returns the sampler's mip filter.
	MipFilter() Filter

	// MaxLOD returns the sampler's maximum level of detail.
	MaxLOD() float32
}

// Device is the interface that identifies a logical GPU
// device. DeviceID distinguishes devices in a multi-GPU
// setup; BufferInfo/ImageInfo modification counters are
// tracked per DeviceID (spec §3, §9).
type Device interface {
	DeviceID() int
	GPU() GPU
}

// Semaphore is the interface that defines a GPU semaphore
// used to order work across queue submissions.
type Semaphore interface {
	Destroyer

	// Stage returns the pipeline stage at which the
	// semaphore is signaled.
	Stage() Sync
}
