//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/chunkcanvas"
	"github.com/gogpu/wgpu/hal"
)

// SubmitStats summarises one Submit call.
type SubmitStats struct {
	// Written is the number of ops sent to the queue.
	Written int

	// Deferred counts ops whose texture was not ready.
	Deferred int

	// Rejected counts malformed ops.
	Rejected int

	// Bytes is the payload size of the written ops.
	Bytes int
}

// Submitter writes upload batches to chunk textures.
type Submitter struct {
	queue        hal.Queue
	textures     *TextureTable
	rowAlignment int
}

// NewSubmitter returns a Submitter writing through queue into textures.
// rowAlignment is the byte stride granularity ops must honour; values
// that are not positive select chunkcanvas.DefaultRowAlignment.
func NewSubmitter(queue hal.Queue, textures *TextureTable, rowAlignment int) *Submitter {
	if rowAlignment <= 0 {
		rowAlignment = chunkcanvas.DefaultRowAlignment
	}
	return &Submitter{
		queue:        queue,
		textures:     textures,
		rowAlignment: rowAlignment,
	}
}

// Textures returns the submitter's texture table.
func (s *Submitter) Textures() *TextureTable {
	return s.textures
}

// Submit writes every op of batch in order and empties it.
//
// Ops aimed at a texture that is not ready are skipped and counted as
// deferred. Malformed ops are skipped and logged. Neither is retried.
func (s *Submitter) Submit(batch *chunkcanvas.UploadBatch) SubmitStats {
	var stats SubmitStats
	if batch == nil {
		return stats
	}

	for i := range batch.Ops {
		op := &batch.Ops[i]
		if err := s.validate(op); err != nil {
			stats.Rejected++
			chunkcanvas.Logger().Warn("gpu: dropped upload", "chunk", op.Chunk, "err", err)
			continue
		}

		tex, ok := s.textures.Texture(op.Chunk)
		if !ok {
			stats.Deferred++
			continue
		}

		writeTexture(s.queue, tex, op.X, op.Y, op.Width, op.Height, op.BytesPerRow, op.Bytes)
		stats.Written++
		stats.Bytes += len(op.Bytes)
	}

	batch.Ops = nil
	if stats.Deferred > 0 || stats.Rejected > 0 {
		chunkcanvas.Logger().Debug("gpu: partial submit",
			"written", stats.Written, "deferred", stats.Deferred, "rejected", stats.Rejected)
	}
	return stats
}

func (s *Submitter) validate(op *chunkcanvas.UploadOp) error {
	if op.Chunk < 0 || op.Chunk >= s.textures.Len() {
		return fmt.Errorf("%w: %w %d", ErrMalformedUpload, ErrUnknownChunk, op.Chunk)
	}

	chunkW, chunkH := s.textures.ChunkSize()
	if op.Width <= 0 || op.Height <= 0 || op.X < 0 || op.Y < 0 ||
		op.X+op.Width > chunkW || op.Y+op.Height > chunkH {
		return fmt.Errorf("%w: region (%d,%d %dx%d) outside %dx%d texture",
			ErrMalformedUpload, op.X, op.Y, op.Width, op.Height, chunkW, chunkH)
	}
	if op.BytesPerRow%s.rowAlignment != 0 || op.BytesPerRow < op.Width*chunkcanvas.BytesPerPixel {
		return fmt.Errorf("%w: stride %d for %d pixels (alignment %d)",
			ErrMalformedUpload, op.BytesPerRow, op.Width, s.rowAlignment)
	}
	if len(op.Bytes) != op.BytesPerRow*op.Height {
		return fmt.Errorf("%w: payload %d bytes, want %d",
			ErrMalformedUpload, len(op.Bytes), op.BytesPerRow*op.Height)
	}
	return nil
}

// writeTexture issues one bounded texture write.
func writeTexture(queue hal.Queue, tex hal.Texture, x, y, w, h, bytesPerRow int, data []byte) {
	queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   hal.Origin3D{X: uint32(x), Y: uint32(y), Z: 0},
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(bytesPerRow),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)
}
