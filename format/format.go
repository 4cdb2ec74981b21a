// Package format implements the FormatTraits registry that
// xfer's image-transfer path consults to learn the byte size
// of a pixel format and the default value to pad a converted
// pixel out to.
//
// The registry is an external collaborator per the transfer
// scheduler's design (the real traits come from the
// graphics-API wrapper's format tables); this package ships
// a concrete table for the formats driver.PixelFmt defines so
// that the conversion path in xfer is exercisable without a
// real device.
package format

import "github.com/suchaoyong/VulkanSceneGraph/driver"

// Traits describes the per-format data that the transfer
// scheduler needs: the size of one value in bytes, and the
// default value (up to one vec4's worth of bytes) used to pad
// a value when expanding from a narrower source format.
type Traits struct {
	Size         int
	DefaultValue [16]byte
}

// Only the formats plausible as an expansion target (4 or
// more bytes wide, with a trailing alpha-sized channel) carry
// a non-zero default: the common case this registry exists
// for is expanding a 3-byte RGB source into a 4-byte RGBA
// target, where the padded alpha byte should read as opaque
// (255) rather than 0.
var table = map[driver.PixelFmt]Traits{
	driver.R8un:    {Size: 1, DefaultValue: defaultBytes(1)},
	driver.RG8un:   {Size: 2, DefaultValue: defaultBytes(2)},
	driver.RGB8un:  {Size: 3, DefaultValue: defaultBytes(3)},
	driver.RGBA8un: {Size: 4, DefaultValue: defaultBytes(4, 255)},
	driver.RGBA8n:  {Size: 4, DefaultValue: defaultBytes(4, 255)},
	driver.BGRA8un: {Size: 4, DefaultValue: defaultBytes(4, 255)},
	driver.RGBA16f: {Size: 8, DefaultValue: defaultBytes(8)},
	driver.RGBA32f: {Size: 16, DefaultValue: defaultBytes(16)},
}

// defaultBytes builds the default-value byte pattern for a
// format of the given size: zero-filled except for trailing
// "tail" bytes (e.g. an opaque alpha channel) placed at the
// end of the first size bytes of the vec4-sized slot.
func defaultBytes(size int, tail ...byte) (v [16]byte) {
	copy(v[size-len(tail):size], tail)
	return
}

// TraitsOf returns the registered Traits for f.
// It panics if f is not registered, mirroring the original
// collaborator's contract: callers never query a format that
// the graphics-API wrapper does not itself support.
func TraitsOf(f driver.PixelFmt) Traits {
	t, ok := table[f]
	if !ok {
		panic("format: unregistered PixelFmt")
	}
	return t
}

// Register adds or replaces the Traits for f.
// It allows a caller (or a test) to extend the table for
// formats driver.PixelFmt does not enumerate by default.
func Register(f driver.PixelFmt, t Traits) { table[f] = t }
