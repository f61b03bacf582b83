package chunkcanvas

import (
	"encoding/binary"
	"slices"

	"github.com/gogpu/chunkcanvas/layout"
)

// UploadOp is one texture write for one chunk.
//
// Bytes holds Height rows of RGBA8 pixels, each row BytesPerRow bytes long.
// A row carries Width*BytesPerPixel bytes of pixels followed by zero padding
// when the stride is wider than the row.
type UploadOp struct {
	// Chunk is the linear chunk index (texture table index).
	Chunk int

	// Key is the chunk's grid coordinate.
	Key layout.ChunkKey

	// X, Y is the destination origin in the chunk texture (pixels).
	X, Y int

	// Width, Height is the region size in pixels.
	Width, Height int

	// BytesPerRow is the aligned row stride of Bytes.
	BytesPerRow int

	// Bytes is the raw row-major payload, len == BytesPerRow*Height.
	Bytes []byte
}

// Clone returns a deep copy of op.
func (op UploadOp) Clone() UploadOp {
	op.Bytes = slices.Clone(op.Bytes)
	return op
}

// UploadBatch is the ordered set of texture writes produced by one frame.
type UploadBatch struct {
	Ops []UploadOp
}

// Len returns the number of ops.
func (b UploadBatch) Len() int {
	return len(b.Ops)
}

// TotalBytes returns the summed payload size.
func (b UploadBatch) TotalBytes() int {
	n := 0
	for i := range b.Ops {
		n += len(b.Ops[i].Bytes)
	}
	return n
}

// Clone returns a deep copy of the batch; no payload memory is shared.
func (b UploadBatch) Clone() UploadBatch {
	if len(b.Ops) == 0 {
		return UploadBatch{}
	}
	ops := make([]UploadOp, len(b.Ops))
	for i := range b.Ops {
		ops[i] = b.Ops[i].Clone()
	}
	return UploadBatch{Ops: ops}
}

// BuildUploads drains the dirty rectangles into texture writes, visiting
// chunks in linear index order and emitting at most one op per chunk.
//
// The X range of each rectangle is widened outward to the row alignment
// granularity (64 pixels for the default 256-byte alignment) and clamped to
// the chunk width. The row stride is the widened row size rounded up to the
// row alignment, so every op's stride is a multiple of the alignment even
// when the chunk width is not.
func (c *Canvas) BuildUploads() UploadBatch {
	var batch UploadBatch
	if c.dirty.IsEmpty() {
		return batch
	}
	chunkW, chunkH := c.layout.ChunkSize()

	for index := range c.dirty.Len() {
		r, ok := c.dirty.Take(index)
		if !ok {
			continue
		}

		// Inclusive -> exclusive, clamped to the chunk.
		minX := min(r.Min.X, chunkW-1)
		minY := min(r.Min.Y, chunkH-1)
		maxX := min(r.Max.X+1, chunkW)
		maxY := min(r.Max.Y+1, chunkH)

		// Widen X to the alignment granularity.
		x0 := minX / c.alignPx * c.alignPx
		x1 := min((maxX+c.alignPx-1)/c.alignPx*c.alignPx, chunkW)

		width := x1 - x0
		height := maxY - minY
		if width <= 0 || height <= 0 {
			continue
		}

		batch.Ops = append(batch.Ops, UploadOp{
			Chunk:       index,
			Key:         c.layout.KeyOf(index),
			X:           x0,
			Y:           minY,
			Width:       width,
			Height:      height,
			BytesPerRow: alignUp(width*BytesPerPixel, c.rowAlignment),
		})
	}

	if c.pool != nil {
		c.pool.Run(len(batch.Ops), func(i int) { c.encode(&batch.Ops[i]) })
	} else {
		for i := range batch.Ops {
			c.encode(&batch.Ops[i])
		}
	}
	return batch
}

// encode fills op.Bytes from the chunk buffer, little-endian per pixel.
func (c *Canvas) encode(op *UploadOp) {
	stride := c.store.Stride()
	pixels := c.store.Chunk(op.Chunk)
	op.Bytes = make([]byte, op.BytesPerRow*op.Height)

	for row := range op.Height {
		start := (op.Y+row)*stride + op.X
		dst := op.Bytes[row*op.BytesPerRow:]
		for i, px := range pixels[start : start+op.Width] {
			binary.LittleEndian.PutUint32(dst[i*BytesPerPixel:], px)
		}
	}
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
