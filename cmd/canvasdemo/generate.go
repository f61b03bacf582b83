package main

import (
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/gogpu/chunkcanvas"
)

// genState is shared by the request generators across frames.
type genState struct {
	rng *rand.Rand
	cfg chunkcanvas.Config

	// spanCursor is the linear pixel index where the next span starts.
	spanCursor int
}

// generator returns the requests to submit for one frame.
type generator func(s *genState) []chunkcanvas.Request

var generators = map[string]generator{
	"clear":  genClear,
	"pixel":  genPixel,
	"pixels": genPixels,
	"rect":   genRect,
	"span":   genSpan,
	"all":    genAll,
}

func (s *genState) colour() uint32 {
	return chunkcanvas.PackRGBA8([4]uint8{
		uint8(s.rng.IntN(256)),
		uint8(s.rng.IntN(256)),
		uint8(s.rng.IntN(256)),
		255,
	})
}

func (s *genState) point() chunkcanvas.Point {
	return chunkcanvas.Point{X: s.rng.IntN(s.cfg.Width), Y: s.rng.IntN(s.cfg.Height)}
}

func genClear(s *genState) []chunkcanvas.Request {
	return []chunkcanvas.Request{chunkcanvas.Clear{Colour: s.colour()}}
}

func genPixel(s *genState) []chunkcanvas.Request {
	return []chunkcanvas.Request{chunkcanvas.Pixel{Pos: s.point(), Colour: s.colour()}}
}

func genPixels(s *genState) []chunkcanvas.Request {
	n := s.rng.IntN(1000)
	positions := make([]chunkcanvas.Point, n)
	colours := make([]uint32, n)
	for i := range n {
		positions[i] = s.point()
		colours[i] = s.colour()
	}
	return []chunkcanvas.Request{chunkcanvas.PixelList{Positions: positions, Colours: colours}}
}

func genRect(s *genState) []chunkcanvas.Request {
	w, h := 1+s.rng.IntN(64), 1+s.rng.IntN(64)
	colours := make([]uint32, w*h)
	c := s.colour()
	for i := range colours {
		colours[i] = c
	}
	return []chunkcanvas.Request{chunkcanvas.Rect{Start: s.point(), Width: w, Height: h, Colours: colours}}
}

// genSpan writes consecutive spans, each starting where the previous ended.
func genSpan(s *genState) []chunkcanvas.Request {
	n := 1 + s.rng.IntN(128)
	colours := make([]uint32, n)
	c := s.colour()
	for i := range colours {
		colours[i] = c
	}

	start := chunkcanvas.Point{X: s.spanCursor % s.cfg.Width, Y: s.spanCursor / s.cfg.Width}
	s.spanCursor = (s.spanCursor + n) % (s.cfg.Width * s.cfg.Height)
	return []chunkcanvas.Request{chunkcanvas.Span{Start: start, Colours: colours}}
}

// genAll mixes every kind except clear, which would hide the rest.
func genAll(s *genState) []chunkcanvas.Request {
	var reqs []chunkcanvas.Request
	reqs = append(reqs, genPixel(s)...)
	reqs = append(reqs, genPixels(s)...)
	reqs = append(reqs, genRect(s)...)
	reqs = append(reqs, genSpan(s)...)
	return reqs
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
