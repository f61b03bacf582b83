package chunkcanvas

import (
	"errors"
	"math"
	"math/rand/v2"
	"slices"
	"testing"
)

var (
	red   = PackRGBA8([4]uint8{255, 0, 0, 255})
	green = PackRGBA8([4]uint8{0, 255, 0, 255})
	blue  = PackRGBA8([4]uint8{0, 0, 255, 255})
)

// newTestCanvas returns a 96x64 canvas of 3x2 chunks (32x32 each).
func newTestCanvas(t *testing.T) *Canvas {
	t.Helper()
	return MustNew(Config{Width: 96, Height: 64, ChunksX: 3, ChunksY: 2, ClearColour: White})
}

// sameContent reports whether two canvases hold identical pixels.
func sameContent(a, b *Canvas) bool {
	for i := range a.store.Len() {
		if !slices.Equal(a.Chunk(i), b.Chunk(i)) {
			return false
		}
	}
	return true
}

// =============================================================================
// Construction
// =============================================================================

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Width: 100, Height: 100, ChunksX: 3, ChunksY: 1})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("New() error = %v, want ErrInvalidConfig", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustNew with invalid config did not panic")
		}
	}()
	MustNew(Config{})
}

func TestNew_StartsFilledAndClean(t *testing.T) {
	c := newTestCanvas(t)

	if c.DirtyCount() != 0 {
		t.Errorf("DirtyCount() = %d, want 0", c.DirtyCount())
	}
	if c.At(Point{X: 50, Y: 40}) != White {
		t.Error("new canvas not filled with clear colour")
	}
	if got := c.BuildUploads(); got.Len() != 0 {
		t.Errorf("BuildUploads() on clean canvas = %d ops, want 0", got.Len())
	}
	if c.String() != "chunkcanvas(96x64, 3x2 chunks of 32x32)" {
		t.Errorf("String() = %q", c.String())
	}
}

// =============================================================================
// Write / read consistency
// =============================================================================

func TestPixel_WriteRead(t *testing.T) {
	c := newTestCanvas(t)
	l := c.Layout()

	positions := []Point{{X: 0, Y: 0}, {X: 31, Y: 31}, {X: 32, Y: 0}, {X: 95, Y: 63}, {X: -1, Y: 64}, {X: 200, Y: -70}}
	for i, p := range positions {
		colour := uint32(i + 1)
		c.DrawPixel(p, colour)
		c.Process()

		w := l.Wrap(p)
		index := l.ChunkIndex(l.ChunkXY(w))
		local := l.LocalXY(w)
		if got := c.Chunk(index)[local.Y*32+local.X]; got != colour {
			t.Errorf("pixel %v: chunk %d local %v = %d, want %d", p, index, local, got, colour)
		}
		if got := c.At(p); got != colour {
			t.Errorf("At(%v) = %d, want %d", p, got, colour)
		}

		minPt, maxPt, ok := c.DirtyRect(index)
		if !ok || minPt != local || maxPt != local {
			t.Errorf("pixel %v: dirty = %v-%v (%v), want %v", p, minPt, maxPt, ok, local)
		}
		c.BuildUploads()
	}
}

func TestClear_FillsAndMarksEverything(t *testing.T) {
	c := newTestCanvas(t)
	c.Clear(red)

	stats := c.Process()
	if stats.Applied != 1 || stats.PixelsWritten != 96*64 {
		t.Errorf("stats = %+v", stats)
	}

	for i := range 6 {
		for j, px := range c.Chunk(i) {
			if px != red {
				t.Fatalf("chunk %d pixel %d = %#x, want red", i, j, px)
			}
		}
		minPt, maxPt, ok := c.DirtyRect(i)
		if !ok || minPt != (Point{}) || maxPt != (Point{X: 31, Y: 31}) {
			t.Errorf("chunk %d dirty = %v-%v (%v), want full chunk", i, minPt, maxPt, ok)
		}
	}
}

func TestPixelList(t *testing.T) {
	c := newTestCanvas(t)
	c.DrawPixels(
		[]Point{{X: 1, Y: 1}, {X: 40, Y: 2}, {X: 1, Y: 1}},
		[]uint32{red, green, blue},
	)

	stats := c.Process()
	if stats.Applied != 1 || stats.PixelsWritten != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if c.At(Point{X: 1, Y: 1}) != blue {
		t.Error("later pixel in list should overwrite earlier one")
	}
	if c.At(Point{X: 40, Y: 2}) != green {
		t.Error("second pixel not written")
	}
}

// =============================================================================
// Ordering
// =============================================================================

func TestProcess_KindOrder(t *testing.T) {
	c := newTestCanvas(t)
	p := Point{X: 5, Y: 5}

	// Submitted in reverse; applied clear -> pixel -> span.
	c.DrawSpan(p, []uint32{blue})
	c.DrawPixel(p, green)
	c.Clear(red)

	if c.Pending() != 3 {
		t.Fatalf("Pending() = %d, want 3", c.Pending())
	}
	c.Process()

	if got := c.At(p); got != blue {
		t.Errorf("At(%v) = %#x, want span colour", p, got)
	}
	if c.At(Point{X: 6, Y: 5}) != red {
		t.Error("clear should have been applied first")
	}
	if c.Pending() != 0 {
		t.Errorf("Pending() after Process = %d", c.Pending())
	}
}

// =============================================================================
// Run splitting
// =============================================================================

func TestRect_MatchesPerPixelWrites(t *testing.T) {
	tests := []struct {
		name  string
		start Point
		w, h  int
	}{
		{"inside one chunk", Point{X: 2, Y: 3}, 5, 4},
		{"straddles chunk column", Point{X: 28, Y: 10}, 10, 3},
		{"straddles chunk row", Point{X: 40, Y: 30}, 4, 6},
		{"wraps right edge", Point{X: 90, Y: 0}, 12, 2},
		{"wraps bottom edge", Point{X: 10, Y: 60}, 3, 9},
		{"wraps both corners", Point{X: 94, Y: 62}, 5, 5},
		{"negative start", Point{X: -3, Y: -2}, 6, 4},
		{"wider than canvas", Point{X: 7, Y: 1}, 130, 2},
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colours := make([]uint32, tt.w*tt.h)
			for i := range colours {
				colours[i] = rng.Uint32()
			}

			got := newTestCanvas(t)
			l := got.Layout()
			got.onRun = func(pos Point, n int) {
				if n > l.MaxRunLen(pos) {
					t.Errorf("run of %d at %v exceeds MaxRunLen %d", n, pos, l.MaxRunLen(pos))
				}
				if l.ChunkXY(pos) != l.ChunkXY(Point{X: pos.X + n - 1, Y: pos.Y}) {
					t.Errorf("run of %d at %v crosses a chunk", n, pos)
				}
			}
			got.DrawRect(tt.start, tt.w, tt.h, colours)
			if stats := got.Process(); stats.Rejected != 0 {
				t.Fatalf("rect rejected: %v", stats.Errors)
			}

			want := newTestCanvas(t)
			for y := range tt.h {
				for x := range tt.w {
					want.DrawPixel(Point{X: tt.start.X + x, Y: tt.start.Y + y}, colours[y*tt.w+x])
				}
			}
			want.Process()

			if !sameContent(got, want) {
				t.Error("rect content differs from per-pixel writes")
			}
			for i := range got.dirty.Len() {
				gr, gok := got.dirty.Peek(i)
				wr, wok := want.dirty.Peek(i)
				if gok != wok || gr != wr {
					t.Errorf("chunk %d dirty = %v (%v), per-pixel %v (%v)", i, gr, gok, wr, wok)
				}
			}
		})
	}
}

func TestSpan_MatchesPerPixelWrites(t *testing.T) {
	tests := []struct {
		name  string
		start Point
		n     int
	}{
		{"short", Point{X: 3, Y: 3}, 4},
		{"crosses chunk", Point{X: 30, Y: 0}, 5},
		{"crosses row", Point{X: 94, Y: 10}, 6},
		{"wraps to top", Point{X: 90, Y: 63}, 20},
		{"longer than canvas", Point{X: 17, Y: 5}, 96*64 + 40},
		{"negative start", Point{X: -1, Y: -1}, 3},
	}

	rng := rand.New(rand.NewPCG(3, 4))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			colours := make([]uint32, tt.n)
			for i := range colours {
				colours[i] = rng.Uint32()
			}

			got := newTestCanvas(t)
			l := got.Layout()
			got.onRun = func(pos Point, n int) {
				if n > l.MaxRunLen(pos) {
					t.Errorf("run of %d at %v exceeds MaxRunLen %d", n, pos, l.MaxRunLen(pos))
				}
			}
			got.DrawSpan(tt.start, colours)
			stats := got.Process()
			if stats.PixelsWritten != tt.n {
				t.Errorf("PixelsWritten = %d, want %d", stats.PixelsWritten, tt.n)
			}

			want := newTestCanvas(t)
			w0 := l.Wrap(tt.start)
			for i, colour := range colours {
				lin := (w0.Y*96 + w0.X + i) % (96 * 64)
				want.DrawPixel(Point{X: lin % 96, Y: lin / 96}, colour)
			}
			want.Process()

			if !sameContent(got, want) {
				t.Error("span content differs from per-pixel writes")
			}
		})
	}
}

func TestSpan_EmptyIsNoOp(t *testing.T) {
	c := newTestCanvas(t)
	c.DrawSpan(Point{X: 1, Y: 1}, nil)

	stats := c.Process()
	if stats.Skipped != 1 || stats.Applied != 0 || stats.Rejected != 0 {
		t.Errorf("stats = %+v, want one skipped", stats)
	}
	if c.DirtyCount() != 0 {
		t.Error("empty span dirtied the canvas")
	}
}

// =============================================================================
// Validation
// =============================================================================

func TestMalformedRequests_LeaveCanvasUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"pixel list short colours", PixelList{Positions: []Point{{X: 1}, {X: 2}}, Colours: []uint32{red}}, ErrLengthMismatch},
		{"pixel list short positions", PixelList{Positions: []Point{{X: 1}}, Colours: []uint32{red, red}}, ErrLengthMismatch},
		{"rect short payload", Rect{Start: Point{X: 30}, Width: 4, Height: 4, Colours: make([]uint32, 15)}, ErrLengthMismatch},
		{"rect long payload", Rect{Start: Point{X: 30}, Width: 2, Height: 2, Colours: make([]uint32, 5)}, ErrLengthMismatch},
		{"rect zero width", Rect{Width: 0, Height: 3}, ErrEmptyRequest},
		{"rect negative height", Rect{Width: 3, Height: -1}, ErrEmptyRequest},
		{"rect area wraps int", Rect{Width: math.MaxInt/2 + 1, Height: 4}, ErrLengthMismatch},
		{"rect huge square", Rect{Width: 1 << 20, Height: 1 << 20, Colours: make([]uint32, 8)}, ErrLengthMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCanvas(t)
			before := make([][]uint32, c.store.Len())
			for i := range before {
				before[i] = slices.Clone(c.Chunk(i))
			}

			c.Submit(tt.req, Pixel{Pos: Point{X: 90, Y: 60}, Colour: green})
			stats := c.Process()

			if stats.Rejected != 1 || len(stats.Errors) != 1 {
				t.Fatalf("stats = %+v, want one rejection", stats)
			}
			if !errors.Is(stats.Errors[0], tt.wantErr) {
				t.Errorf("error = %v, want %v", stats.Errors[0], tt.wantErr)
			}
			if stats.Applied != 1 {
				t.Errorf("Applied = %d, remaining requests should still run", stats.Applied)
			}

			// Only the trailing valid pixel may have changed anything.
			if _, ok := c.dirty.Peek(5); c.DirtyCount() != 1 || !ok {
				t.Errorf("DirtyCount() = %d, want only chunk 5", c.DirtyCount())
			}
			for i := range 5 {
				if !slices.Equal(c.Chunk(i), before[i]) {
					t.Errorf("chunk %d modified by rejected request", i)
				}
			}
		})
	}
}

func TestWriteRun_RejectsBoundaryCrossing(t *testing.T) {
	c := newTestCanvas(t)

	err := c.writeRun(Point{X: 30, Y: 0}, make([]uint32, 3))
	if !errors.Is(err, ErrRunCrossesBoundary) {
		t.Fatalf("writeRun() error = %v, want ErrRunCrossesBoundary", err)
	}
	if c.DirtyCount() != 0 {
		t.Error("rejected run dirtied the canvas")
	}
}

// =============================================================================
// Nil / unknown requests
// =============================================================================

type bogusRequest struct{}

func (bogusRequest) kind() requestKind { return kindSpan }

func TestSubmit_NilAndUnknown(t *testing.T) {
	c := newTestCanvas(t)
	c.Submit(nil, bogusRequest{})

	if c.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1 (nil dropped)", c.Pending())
	}
	stats := c.Process()
	if stats.Rejected != 1 {
		t.Errorf("unknown request not rejected: %+v", stats)
	}
}
