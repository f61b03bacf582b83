// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package chunk provides the CPU backing store of a chunked canvas.
//
// The canvas is divided into a fixed grid of equally sized chunks. Each chunk
// owns a flat row-major buffer of packed RGBA8 colours (one uint32 per
// pixel). Chunks are stored in a flat slice, accessed via
// index = ky * chunksX + kx.
//
// Buffer shape never changes after construction; only content does.
//
// Thread safety: Store is NOT thread-safe. The frame pipeline owns it.
package chunk

import (
	"errors"
	"fmt"

	"github.com/gogpu/chunkcanvas/layout"
)

// Addressing errors. These indicate a caller bug: the public drawing API
// sizes every run with layout.Layout.MaxRunLen and never produces them.
var (
	// ErrIndexOutOfRange is returned when a chunk index is outside the grid.
	ErrIndexOutOfRange = errors.New("chunk: index out of range")

	// ErrRunOutOfRange is returned when a write would leave the chunk buffer.
	ErrRunOutOfRange = errors.New("chunk: run out of range")
)

// Store holds one pixel buffer per chunk.
type Store struct {
	// chunks is a flat slice of all chunk buffers (row-major order).
	chunks [][]uint32

	// chunkW is the chunk width in pixels (row stride of every buffer).
	chunkW int

	// chunkH is the chunk height in pixels.
	chunkH int
}

// New creates a store of chunksX x chunksY chunks, each chunkW x chunkH
// pixels, with every pixel set to fill.
// Panics if any dimension is not positive.
func New(chunksX, chunksY, chunkW, chunkH int, fill uint32) *Store {
	if chunksX <= 0 || chunksY <= 0 || chunkW <= 0 || chunkH <= 0 {
		panic(fmt.Sprintf("chunk: invalid store dimensions %dx%d chunks of %dx%d",
			chunksX, chunksY, chunkW, chunkH))
	}

	s := &Store{
		chunks: make([][]uint32, chunksX*chunksY),
		chunkW: chunkW,
		chunkH: chunkH,
	}

	pixels := chunkW * chunkH
	for i := range s.chunks {
		buf := make([]uint32, pixels)
		if fill != 0 {
			for j := range buf {
				buf[j] = fill
			}
		}
		s.chunks[i] = buf
	}
	return s
}

// Len returns the number of chunks.
func (s *Store) Len() int {
	return len(s.chunks)
}

// Stride returns the row stride of a chunk buffer in pixels.
func (s *Store) Stride() int {
	return s.chunkW
}

// PixelsPerChunk returns the length of every chunk buffer.
func (s *Store) PixelsPerChunk() int {
	return s.chunkW * s.chunkH
}

// Chunk returns the buffer of the chunk at the given linear index.
// The returned slice aliases the store; callers must not modify it.
// Returns nil for an out-of-range index.
func (s *Store) Chunk(index int) []uint32 {
	if index < 0 || index >= len(s.chunks) {
		return nil
	}
	return s.chunks[index]
}

// At returns the pixel at chunk-local linear offset in chunk index.
func (s *Store) At(index, offset int) uint32 {
	return s.chunks[index][offset]
}

// Offset converts a chunk-local coordinate into a linear buffer offset.
func (s *Store) Offset(local layout.Point) int {
	return local.Y*s.chunkW + local.X
}

// WriteRun copies src into chunk index starting at the chunk-local linear
// offset. The destination range must lie entirely within the chunk buffer.
func (s *Store) WriteRun(index, offset int, src []uint32) error {
	if index < 0 || index >= len(s.chunks) {
		return fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.chunks))
	}
	dst := s.chunks[index]
	if offset < 0 || offset+len(src) > len(dst) {
		return fmt.Errorf("%w: [%d,%d) in chunk of %d", ErrRunOutOfRange, offset, offset+len(src), len(dst))
	}
	copy(dst[offset:], src)
	return nil
}

// Fill sets every pixel of every chunk to colour.
func (s *Store) Fill(colour uint32) {
	for _, buf := range s.chunks {
		for i := range buf {
			buf[i] = colour
		}
	}
}
