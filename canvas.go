package chunkcanvas

import (
	"fmt"

	"github.com/gogpu/chunkcanvas/internal/chunk"
	"github.com/gogpu/chunkcanvas/internal/dirty"
	"github.com/gogpu/chunkcanvas/internal/parallel"
	"github.com/gogpu/chunkcanvas/layout"
)

// Canvas is a chunked, toroidally wrapped pixel canvas.
//
// Drawing requests are queued with Submit and applied once per frame by
// Process, which writes the CPU chunk buffers and records per-chunk dirty
// rectangles. BuildUploads then drains the dirty rectangles into an
// UploadBatch of alignment-correct texture writes, at most one per chunk.
// Frame runs both steps.
//
// Canvas is NOT safe for concurrent use. Hand batches to another goroutine
// through an Extract.
type Canvas struct {
	cfg    Config
	layout layout.Layout
	store  *chunk.Store
	dirty  *dirty.Tracker
	queue  queue

	// alignPx is the X alignment of upload regions in pixels.
	alignPx int

	// rowAlignment is the upload row stride alignment in bytes.
	rowAlignment int

	// pool encodes upload payloads; nil encodes inline.
	pool *parallel.Pool

	// onRun, when set, observes every run handed to the write primitive.
	onRun func(pos Point, n int)
}

// New creates a canvas for cfg with every pixel set to cfg.ClearColour.
// Every chunk starts clean: the GPU textures are expected to be created
// with the same clear colour.
//
// Returns an error wrapping ErrInvalidConfig if cfg is invalid.
func New(cfg Config, opts ...Option) (*Canvas, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	l := cfg.Layout()
	chunkW, chunkH := l.ChunkSize()

	c := &Canvas{
		cfg:          cfg,
		layout:       l,
		store:        chunk.New(cfg.ChunksX, cfg.ChunksY, chunkW, chunkH, cfg.ClearColour),
		dirty:        dirty.New(cfg.ChunksX, cfg.ChunksY, chunkW, chunkH),
		alignPx:      o.rowAlignment / BytesPerPixel,
		rowAlignment: o.rowAlignment,
	}
	if o.workers > 1 {
		c.pool = parallel.NewPool(o.workers)
	}
	return c, nil
}

// Close stops the encoding workers started by WithWorkers.
// The canvas stays usable and encodes inline afterwards.
func (c *Canvas) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// MustNew is like New but panics on error.
// Use only when errors are programming mistakes (e.g., hardcoded sizes).
func MustNew(cfg Config, opts ...Option) *Canvas {
	c, err := New(cfg, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns the canvas configuration.
func (c *Canvas) Config() Config {
	return c.cfg
}

// Layout returns the canvas coordinate helper.
func (c *Canvas) Layout() layout.Layout {
	return c.layout
}

// RowAlignment returns the byte alignment of upload row strides.
func (c *Canvas) RowAlignment() int {
	return c.rowAlignment
}

// Submit queues drawing requests for the next Process call.
// Requests are applied in kind order (Clear, Pixel, PixelList, Rect, Span)
// and in submission order within a kind.
func (c *Canvas) Submit(reqs ...Request) {
	for _, r := range reqs {
		if r == nil {
			continue
		}
		c.queue.push(r)
	}
}

// Pending returns the number of queued requests.
func (c *Canvas) Pending() int {
	return c.queue.len()
}

// Clear queues a Clear request.
func (c *Canvas) Clear(colour uint32) {
	c.Submit(Clear{Colour: colour})
}

// DrawPixel queues a Pixel request.
func (c *Canvas) DrawPixel(pos Point, colour uint32) {
	c.Submit(Pixel{Pos: pos, Colour: colour})
}

// DrawPixels queues a PixelList request.
func (c *Canvas) DrawPixels(positions []Point, colours []uint32) {
	c.Submit(PixelList{Positions: positions, Colours: colours})
}

// DrawRect queues a Rect request.
func (c *Canvas) DrawRect(start Point, width, height int, colours []uint32) {
	c.Submit(Rect{Start: start, Width: width, Height: height, Colours: colours})
}

// DrawSpan queues a Span request.
func (c *Canvas) DrawSpan(start Point, colours []uint32) {
	c.Submit(Span{Start: start, Colours: colours})
}

// Frame applies every queued request and builds the frame's upload batch.
func (c *Canvas) Frame() (UploadBatch, FrameStats) {
	stats := c.Process()
	batch := c.BuildUploads()
	Logger().Debug("chunkcanvas: frame",
		"applied", stats.Applied,
		"rejected", stats.Rejected,
		"pixels", stats.PixelsWritten,
		"uploads", batch.Len(),
		"bytes", batch.TotalBytes())
	return batch, stats
}

// At returns the packed colour at global position p (wrapped).
func (c *Canvas) At(p Point) uint32 {
	pos := c.layout.Wrap(p)
	index := c.layout.ChunkIndex(c.layout.ChunkXY(pos))
	return c.store.At(index, c.store.Offset(c.layout.LocalXY(pos)))
}

// Chunk returns the pixel buffer of the chunk at the given linear index.
// The slice aliases canvas storage and must not be modified.
// Returns nil for an out-of-range index.
func (c *Canvas) Chunk(index int) []uint32 {
	return c.store.Chunk(index)
}

// DirtyRect returns the pending dirty rectangle of chunk index as inclusive
// chunk-local corners, without clearing it.
func (c *Canvas) DirtyRect(index int) (minPt, maxPt Point, ok bool) {
	if index < 0 || index >= c.dirty.Len() {
		return Point{}, Point{}, false
	}
	r, ok := c.dirty.Peek(index)
	return r.Min, r.Max, ok
}

// DirtyCount returns the number of chunks with pending writes.
func (c *Canvas) DirtyCount() int {
	return c.dirty.Count()
}

// String describes the canvas geometry.
func (c *Canvas) String() string {
	cw, ch := c.layout.ChunkSize()
	return fmt.Sprintf("chunkcanvas(%dx%d, %dx%d chunks of %dx%d)",
		c.cfg.Width, c.cfg.Height, c.cfg.ChunksX, c.cfg.ChunksY, cw, ch)
}
