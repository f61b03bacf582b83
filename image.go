package chunkcanvas

import (
	"image"

	"golang.org/x/image/draw"
)

// Image returns a snapshot of the whole canvas as a non-premultiplied RGBA
// image. The snapshot does not share memory with the canvas.
func (c *Canvas) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, c.cfg.Width, c.cfg.Height))
	chunkW, chunkH := c.layout.ChunkSize()

	for index := range c.store.Len() {
		key := c.layout.KeyOf(index)
		ox, oy := int(key.X)*chunkW, int(key.Y)*chunkH
		pixels := c.store.Chunk(index)

		for y := range chunkH {
			for x, px := range pixels[y*chunkW : (y+1)*chunkW] {
				img.SetNRGBA(ox+x, oy+y, UnpackColor(px))
			}
		}
	}
	return img
}

// RectFromImage builds a Rect request that draws img with its top-left
// corner at start. Any image type is accepted; it is converted to
// non-premultiplied RGBA first.
func RectFromImage(start Point, img image.Image) Rect {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	colours := make([]uint32, 0, w*h)
	for y := range h {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := range w {
			p := row[x*BytesPerPixel : x*BytesPerPixel+BytesPerPixel]
			colours = append(colours, PackRGBA8([4]uint8{p[0], p[1], p[2], p[3]}))
		}
	}
	return Rect{Start: start, Width: w, Height: h, Colours: colours}
}
