package chunkcanvas

import "github.com/gogpu/chunkcanvas/layout"

// Point is a global canvas pixel coordinate. Values outside the canvas wrap
// toroidally, including negative ones.
type Point = layout.Point

// Request is a drawing operation queued on a Canvas for the next frame.
//
// Implementations: Clear, Pixel, PixelList, Rect, Span.
// Requests are values owned by the caller until submitted; the canvas
// consumes each one exactly once.
type Request interface {
	kind() requestKind
}

// requestKind orders request processing within a frame.
type requestKind uint8

const (
	kindClear requestKind = iota
	kindPixel
	kindPixelList
	kindRect
	kindSpan

	numKinds
)

// String returns the request kind name used in logs.
func (k requestKind) String() string {
	switch k {
	case kindClear:
		return "clear"
	case kindPixel:
		return "pixel"
	case kindPixelList:
		return "pixel list"
	case kindRect:
		return "rect"
	case kindSpan:
		return "span"
	default:
		return "unknown"
	}
}

// Clear sets every canvas pixel to Colour.
type Clear struct {
	Colour uint32
}

// Pixel sets a single pixel.
type Pixel struct {
	Pos    Point
	Colour uint32
}

// PixelList sets many independent pixels.
// len(Positions) must equal len(Colours).
type PixelList struct {
	Positions []Point
	Colours   []uint32
}

// Rect writes a Width x Height block starting at Start.
// Colours is row-major (index = y*Width + x) and must hold exactly
// Width*Height values. The block wraps toroidally past the canvas edges.
type Rect struct {
	Start         Point
	Width, Height int
	Colours       []uint32
}

// Span writes a contiguous row-major stream starting at Start.
// It advances along +X, moves to the next row at the canvas's right edge
// and wraps to the top after the bottom row.
type Span struct {
	Start   Point
	Colours []uint32
}

func (Clear) kind() requestKind     { return kindClear }
func (Pixel) kind() requestKind     { return kindPixel }
func (PixelList) kind() requestKind { return kindPixelList }
func (Rect) kind() requestKind      { return kindRect }
func (Span) kind() requestKind      { return kindSpan }

// queue buckets a frame's requests by kind, preserving submission order
// within each kind.
type queue struct {
	buckets [numKinds][]Request
}

func (q *queue) push(r Request) {
	k := r.kind()
	q.buckets[k] = append(q.buckets[k], r)
}

func (q *queue) len() int {
	n := 0
	for _, b := range q.buckets {
		n += len(b)
	}
	return n
}

// drain calls fn for every queued request in kind order and empties the
// queue. Bucket storage is kept for the next frame.
func (q *queue) drain(fn func(Request)) {
	for k := range q.buckets {
		for i, r := range q.buckets[k] {
			fn(r)
			q.buckets[k][i] = nil
		}
		q.buckets[k] = q.buckets[k][:0]
	}
}
