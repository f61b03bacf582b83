package chunkcanvas

import (
	"encoding/binary"
	"image/color"
)

// BytesPerPixel is the size of one RGBA8 pixel in upload payloads.
const BytesPerPixel = 4

// Common packed colours.
var (
	White = PackRGBA8([4]uint8{0xff, 0xff, 0xff, 0xff})
	Black = PackRGBA8([4]uint8{0x00, 0x00, 0x00, 0xff})
)

// PackRGBA8 packs [r, g, b, a] into a uint32 using little-endian byte order.
//
// The result is an opaque pixel token: canvas buffers store it as-is and the
// upload builder converts it back with UnpackRGBA8, so the bytes reaching
// the GPU are exactly r, g, b, a.
func PackRGBA8(c [4]uint8) uint32 {
	return binary.LittleEndian.Uint32(c[:])
}

// UnpackRGBA8 is the inverse of PackRGBA8.
func UnpackRGBA8(v uint32) [4]uint8 {
	var c [4]uint8
	binary.LittleEndian.PutUint32(c[:], v)
	return c
}

// PackColor converts any color.Color to a packed non-premultiplied RGBA8
// value.
func PackColor(c color.Color) uint32 {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return PackRGBA8([4]uint8{n.R, n.G, n.B, n.A})
}

// UnpackColor converts a packed value back to color.NRGBA.
func UnpackColor(v uint32) color.NRGBA {
	c := UnpackRGBA8(v)
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}
