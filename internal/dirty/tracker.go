// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package dirty tracks which part of each canvas chunk changed since the
// last upload.
//
// Every chunk carries at most one axis-aligned rectangle in chunk-local
// pixel space. Marking a region grows the rectangle to the bounding box of
// the old rectangle and the new region, so the rectangle always contains
// every written pixel but may include untouched pixels between disjoint
// writes.
//
// Thread safety: Tracker is NOT thread-safe. The frame pipeline marks and
// drains it from a single goroutine.
package dirty

import (
	"fmt"

	"github.com/gogpu/chunkcanvas/layout"
)

// Rect is an inclusive chunk-local pixel rectangle.
type Rect struct {
	Min layout.Point
	Max layout.Point
}

// Width returns the number of columns covered by r.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X + 1
}

// Height returns the number of rows covered by r.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y + 1
}

// Contains reports whether the chunk-local point p lies inside r.
func (r Rect) Contains(p layout.Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Union returns the bounding box of r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: layout.Point{X: min(r.Min.X, o.Min.X), Y: min(r.Min.Y, o.Min.Y)},
		Max: layout.Point{X: max(r.Max.X, o.Max.X), Y: max(r.Max.Y, o.Max.Y)},
	}
}

// String returns "[minX,minY]-[maxX,maxY]".
func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d]-[%d,%d]", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}

// entry is one chunk's state. dirty=false means rect is ignored.
type entry struct {
	rect  Rect
	dirty bool
}

// Tracker holds one dirty rectangle per chunk.
type Tracker struct {
	// entries is indexed by linear chunk index = ky * chunksX + kx.
	entries []entry

	// chunksX is the number of chunks horizontally.
	chunksX int

	// chunkW, chunkH bound every rectangle.
	chunkW, chunkH int
}

// New creates a tracker for chunksX x chunksY chunks of chunkW x chunkH
// pixels. All chunks start clean.
// Panics if any dimension is not positive.
func New(chunksX, chunksY, chunkW, chunkH int) *Tracker {
	if chunksX <= 0 || chunksY <= 0 || chunkW <= 0 || chunkH <= 0 {
		panic(fmt.Sprintf("dirty: invalid tracker dimensions %dx%d chunks of %dx%d",
			chunksX, chunksY, chunkW, chunkH))
	}
	return &Tracker{
		entries: make([]entry, chunksX*chunksY),
		chunksX: chunksX,
		chunkW:  chunkW,
		chunkH:  chunkH,
	}
}

// Len returns the number of tracked chunks.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// MarkRect unions the chunk-local rectangle starting at min with extent
// (w, h) into chunk k's dirty rectangle.
// Does nothing if w or h is not positive. Both corners are clamped to the
// chunk bounds.
func (t *Tracker) MarkRect(k layout.ChunkKey, minPt layout.Point, w, h int) {
	if w <= 0 || h <= 0 {
		return
	}

	r := Rect{
		Min: t.clamp(minPt),
		Max: t.clamp(layout.Pt(minPt.X+w-1, minPt.Y+h-1)),
	}

	e := &t.entries[int(k.Y)*t.chunksX+int(k.X)]
	switch {
	case !e.dirty:
		e.rect = r
		e.dirty = true
	case e.rect.Contains(r.Min) && e.rect.Contains(r.Max):
		// Already covered.
	default:
		e.rect = e.rect.Union(r)
	}
}

// MarkAll marks every chunk fully dirty.
func (t *Tracker) MarkAll() {
	full := Rect{Max: layout.Pt(t.chunkW-1, t.chunkH-1)}
	for i := range t.entries {
		t.entries[i] = entry{rect: full, dirty: true}
	}
}

// Take returns chunk index's dirty rectangle and resets the chunk to clean.
// Returns false if the chunk had no writes since the previous Take.
func (t *Tracker) Take(index int) (Rect, bool) {
	e := &t.entries[index]
	if !e.dirty {
		return Rect{}, false
	}
	e.dirty = false
	return e.rect, true
}

// Peek returns chunk index's dirty rectangle without clearing it.
func (t *Tracker) Peek(index int) (Rect, bool) {
	e := t.entries[index]
	return e.rect, e.dirty
}

// IsEmpty returns true if no chunk is dirty.
func (t *Tracker) IsEmpty() bool {
	for i := range t.entries {
		if t.entries[i].dirty {
			return false
		}
	}
	return true
}

// Count returns the number of dirty chunks.
func (t *Tracker) Count() int {
	n := 0
	for i := range t.entries {
		if t.entries[i].dirty {
			n++
		}
	}
	return n
}

func (t *Tracker) clamp(p layout.Point) layout.Point {
	return layout.Pt(max(0, min(p.X, t.chunkW-1)), max(0, min(p.Y, t.chunkH-1)))
}
