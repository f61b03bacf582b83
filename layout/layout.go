// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package layout converts between the coordinate spaces of a chunked,
// toroidally wrapped canvas.
//
// Three spaces are involved:
//
//   - global: pixel coordinates on the whole canvas. Any value is accepted;
//     it is reduced modulo the canvas size on each axis (see [Layout.Wrap]).
//   - chunk grid: the (x, y) cell of the chunk owning a pixel ([ChunkKey]).
//   - chunk-local: pixel coordinates inside one chunk, origin at the chunk's
//     top-left pixel.
//
// Layout is a plain value with no mutable state; pass it by value.
package layout

import "fmt"

// MaxChunksPerAxis is the addressing limit of [ChunkKey].
const MaxChunksPerAxis = 255

// Point is a pixel coordinate in global or chunk-local space.
type Point struct {
	X, Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// String returns "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// ChunkKey identifies a chunk by its grid column and row.
// Each axis fits in 8 bits, which caps the grid at 255x255 chunks.
type ChunkKey struct {
	X, Y uint8
}

// String returns "chunk(x,y)".
func (k ChunkKey) String() string {
	return fmt.Sprintf("chunk(%d,%d)", k.X, k.Y)
}

// Layout holds the canvas and chunk dimensions in pixels.
//
// The canvas size must be an exact multiple of the chunk size on both axes;
// the caller (canvas configuration) validates this before building a Layout.
type Layout struct {
	canvasW, canvasH int
	chunkW, chunkH   int
}

// New creates a layout for a canvas of canvasW x canvasH pixels split into
// chunks of chunkW x chunkH pixels.
//
// Panics if any dimension is not positive or a canvas axis is not an exact
// multiple of the matching chunk axis. These are configuration bugs, not
// runtime conditions.
func New(canvasW, canvasH, chunkW, chunkH int) Layout {
	if canvasW <= 0 || canvasH <= 0 || chunkW <= 0 || chunkH <= 0 {
		panic(fmt.Sprintf("layout: non-positive size canvas=%dx%d chunk=%dx%d",
			canvasW, canvasH, chunkW, chunkH))
	}
	if canvasW%chunkW != 0 || canvasH%chunkH != 0 {
		panic(fmt.Sprintf("layout: canvas %dx%d not divisible by chunk %dx%d",
			canvasW, canvasH, chunkW, chunkH))
	}
	return Layout{canvasW: canvasW, canvasH: canvasH, chunkW: chunkW, chunkH: chunkH}
}

// CanvasSize returns the canvas size in pixels.
func (l Layout) CanvasSize() (w, h int) {
	return l.canvasW, l.canvasH
}

// ChunkSize returns the size of one chunk in pixels.
func (l Layout) ChunkSize() (w, h int) {
	return l.chunkW, l.chunkH
}

// NumChunks returns the chunk grid dimensions.
func (l Layout) NumChunks() (x, y int) {
	return l.canvasW / l.chunkW, l.canvasH / l.chunkH
}

// TotalChunks returns the number of chunks in the grid.
func (l Layout) TotalChunks() int {
	nx, ny := l.NumChunks()
	return nx * ny
}

// PixelsPerChunk returns chunkW*chunkH.
func (l Layout) PixelsPerChunk() int {
	return l.chunkW * l.chunkH
}

// Wrap reduces p modulo the canvas size on each axis.
// Negative coordinates wrap from the opposite edge.
func (l Layout) Wrap(p Point) Point {
	return Point{X: wrap(p.X, l.canvasW), Y: wrap(p.Y, l.canvasH)}
}

// ChunkXY returns the grid coordinate of the chunk owning the wrapped
// position p.
func (l Layout) ChunkXY(p Point) ChunkKey {
	return ChunkKey{X: uint8(p.X / l.chunkW), Y: uint8(p.Y / l.chunkH)} //nolint:gosec // grid validated to <= 255
}

// ChunkIndex maps a chunk grid coordinate to the row-major linear index used
// by the chunk store, dirty tracker and texture table.
func (l Layout) ChunkIndex(k ChunkKey) int {
	nx, _ := l.NumChunks()
	return int(k.Y)*nx + int(k.X)
}

// KeyOf is the inverse of ChunkIndex.
func (l Layout) KeyOf(index int) ChunkKey {
	nx, _ := l.NumChunks()
	return ChunkKey{X: uint8(index % nx), Y: uint8(index / nx)} //nolint:gosec // grid validated to <= 255
}

// LocalXY returns the wrapped position p relative to its owning chunk.
func (l Layout) LocalXY(p Point) Point {
	k := l.ChunkXY(p)
	return Point{X: p.X - int(k.X)*l.chunkW, Y: p.Y - int(k.Y)*l.chunkH}
}

// MaxRunLen returns the number of contiguous pixels that can be written
// along +X starting at the wrapped position p without leaving the owning
// chunk's row. Because the canvas width is a multiple of the chunk width,
// the chunk's right edge is never past the canvas's right edge, so the
// limit covers both boundaries.
//
// Every blit routine sizes its runs with this value; the write primitive
// never wraps mid-run.
func (l Layout) MaxRunLen(p Point) int {
	toCanvasEdge := l.canvasW - p.X
	toChunkEdge := l.chunkW - p.X%l.chunkW
	return min(toCanvasEdge, toChunkEdge)
}

func wrap(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}
