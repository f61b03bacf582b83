package chunkcanvas

import (
	"errors"
	"fmt"
)

// Draw request errors. A rejected request is dropped whole: validation runs
// before any pixel is written.
var (
	// ErrLengthMismatch is returned when a request's parallel arrays
	// disagree (PixelList positions vs colours, Rect size vs colours).
	ErrLengthMismatch = errors.New("chunkcanvas: length mismatch")

	// ErrEmptyRequest is returned for a Rect with zero width or height.
	ErrEmptyRequest = errors.New("chunkcanvas: empty request")

	// ErrRunCrossesBoundary is returned when the write primitive is handed a
	// run longer than layout.Layout.MaxRunLen allows at its start. The
	// drawing routines never produce it.
	ErrRunCrossesBoundary = errors.New("chunkcanvas: run crosses row or chunk boundary")
)

// FrameStats summarises one Process call.
type FrameStats struct {
	// Applied is the number of requests written to the canvas.
	Applied int

	// Rejected is the number of malformed requests that were dropped.
	Rejected int

	// Skipped counts no-op requests (empty spans).
	Skipped int

	// PixelsWritten is the number of pixel writes performed, counting
	// overwrites.
	PixelsWritten int

	// Errors holds one error per rejected request, in processing order.
	Errors []error
}

// Process applies every queued request and empties the queue.
//
// Malformed requests are logged at warn level, reported in FrameStats and
// skipped; processing continues with the rest of the batch.
func (c *Canvas) Process() FrameStats {
	var stats FrameStats
	c.queue.drain(func(r Request) {
		n, err := c.apply(r)
		switch {
		case err != nil:
			stats.Rejected++
			stats.Errors = append(stats.Errors, err)
			Logger().Warn("chunkcanvas: dropped "+r.kind().String()+" request", "err", err)
		case n == 0:
			stats.Skipped++
		default:
			stats.Applied++
			stats.PixelsWritten += n
		}
	})
	return stats
}

// apply validates and performs one request, returning the number of pixels
// written.
func (c *Canvas) apply(r Request) (int, error) {
	switch r := r.(type) {
	case Clear:
		c.clearCanvas(r.Colour)
		return c.cfg.Width * c.cfg.Height, nil

	case Pixel:
		px := [1]uint32{r.Colour}
		if err := c.writeRun(r.Pos, px[:]); err != nil {
			return 0, err
		}
		return 1, nil

	case PixelList:
		if len(r.Positions) != len(r.Colours) {
			return 0, fmt.Errorf("%w: pixel list has %d positions, %d colours",
				ErrLengthMismatch, len(r.Positions), len(r.Colours))
		}
		return c.blitPixels(r.Positions, r.Colours)

	case Rect:
		if r.Width <= 0 || r.Height <= 0 {
			return 0, fmt.Errorf("%w: rect %dx%d", ErrEmptyRequest, r.Width, r.Height)
		}
		if r.Width > len(r.Colours)/r.Height {
			return 0, fmt.Errorf("%w: rect %dx%d exceeds %d colours",
				ErrLengthMismatch, r.Width, r.Height, len(r.Colours))
		}
		if want := r.Width * r.Height; len(r.Colours) != want {
			return 0, fmt.Errorf("%w: rect %dx%d needs %d colours, got %d",
				ErrLengthMismatch, r.Width, r.Height, want, len(r.Colours))
		}
		return c.blitRect(r.Start, r.Width, r.Height, r.Colours)

	case Span:
		return c.blitSpan(r.Start, r.Colours)

	default:
		return 0, fmt.Errorf("chunkcanvas: unknown request %T", r)
	}
}

// clearCanvas fills every chunk and marks every chunk fully dirty.
func (c *Canvas) clearCanvas(colour uint32) {
	c.store.Fill(colour)
	c.dirty.MarkAll()
}

// blitPixels writes independent pixels in order.
func (c *Canvas) blitPixels(positions []Point, colours []uint32) (int, error) {
	for i, pos := range positions {
		if err := c.writeRun(pos, colours[i:i+1]); err != nil {
			return i, err
		}
	}
	return len(positions), nil
}

// blitRect writes a row-major block with toroidal wrap. Each row is split
// into runs that stop at chunk and canvas edges.
func (c *Canvas) blitRect(start Point, width, height int, src []uint32) (int, error) {
	canvasW, _ := c.layout.CanvasSize()

	for row := range height {
		pos := c.layout.Wrap(Point{X: start.X, Y: start.Y + row})
		rowSrc := src[row*width : (row+1)*width]

		for len(rowSrc) > 0 {
			run := min(len(rowSrc), c.layout.MaxRunLen(pos))
			if err := c.writeRun(pos, rowSrc[:run]); err != nil {
				return row * width, err
			}
			rowSrc = rowSrc[run:]

			pos.X += run
			if pos.X == canvasW {
				pos.X = 0
			}
		}
	}
	return width * height, nil
}

// blitSpan writes a row-major stream starting at start, moving to the next
// row at the canvas's right edge and to the first row after the last.
func (c *Canvas) blitSpan(start Point, src []uint32) (int, error) {
	canvasW, canvasH := c.layout.CanvasSize()
	cursor := c.layout.Wrap(start)
	written := 0

	for len(src) > 0 {
		run := min(len(src), c.layout.MaxRunLen(cursor))
		if err := c.writeRun(cursor, src[:run]); err != nil {
			return written, err
		}
		src = src[run:]
		written += run

		cursor.X += run
		if cursor.X == canvasW {
			cursor.X = 0
			cursor.Y++
			if cursor.Y == canvasH {
				cursor.Y = 0
			}
		}
	}
	return written, nil
}

// writeRun copies a run of pixels on one scanline of one chunk and marks it
// dirty. len(src) must not exceed MaxRunLen at the wrapped start; the run
// never wraps.
func (c *Canvas) writeRun(start Point, src []uint32) error {
	if len(src) == 0 {
		return nil
	}

	pos := c.layout.Wrap(start)
	if limit := c.layout.MaxRunLen(pos); len(src) > limit {
		return fmt.Errorf("%w: %d pixels at %v, limit %d", ErrRunCrossesBoundary, len(src), pos, limit)
	}
	if c.onRun != nil {
		c.onRun(pos, len(src))
	}

	key := c.layout.ChunkXY(pos)
	local := c.layout.LocalXY(pos)
	if err := c.store.WriteRun(c.layout.ChunkIndex(key), c.store.Offset(local), src); err != nil {
		return err
	}

	c.dirty.MarkRect(key, local, len(src), 1)
	return nil
}
