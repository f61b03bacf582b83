// Command canvasdemo drives a chunkcanvas through the full frame pipeline
// against a headless GPU device and optionally saves a PNG preview.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"math/rand/v2"
	"os"
	"sync"

	"github.com/gogpu/chunkcanvas"
	"github.com/gogpu/chunkcanvas/gpu"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/pkg/profile"
	"golang.org/x/image/draw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func main() {
	var (
		mode       = flag.String("mode", "all", "request kind to generate: clear|pixel|pixels|rect|span|all")
		frames     = flag.Int("frames", 120, "number of frames to run")
		seed       = flag.Uint64("seed", 1, "random seed")
		configPath = flag.String("config", "", "TOML canvas config (default 512x512, 4x4 chunks)")
		output     = flag.String("output", "", "PNG preview file")
		scale      = flag.Int("scale", 1, "preview scale factor")
		cpuProfile = flag.Bool("profile", false, "write a CPU profile")
		verbose    = flag.Bool("v", false, "log every frame")
	)
	flag.Parse()

	if *cpuProfile {
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	}

	gen, ok := generators[*mode]
	if !ok {
		log.Fatalf("unknown mode %q", *mode)
	}

	cfg := chunkcanvas.Config{Width: 512, Height: 512, ChunksX: 4, ChunksY: 4, ClearColour: chunkcanvas.Black}
	if *configPath != "" {
		var err error
		if cfg, err = chunkcanvas.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *verbose {
		chunkcanvas.SetLogger(newLogger())
	}

	res, err := run(cfg, gen, *frames, *seed)
	if err != nil {
		log.Fatalf("Demo failed: %v", err)
	}
	res.print(cfg, *mode)

	if *output != "" {
		if err := savePNG(*output, res.preview, *scale); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Preview saved to %s\n", *output)
	}
}

// result collects the statistics of one run.
type result struct {
	frames   int
	requests int
	rejected int
	pixels   int
	ops      int
	bytes    int
	written  int
	deferred int
	preview  *image.NRGBA
}

// run draws frames on the canvas and submits every batch from a second
// goroutine through an Extract.
func run(cfg chunkcanvas.Config, gen generator, frames int, seed uint64) (*result, error) {
	device, queue, cleanup, err := openNoopDevice()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	canvas, err := chunkcanvas.New(cfg)
	if err != nil {
		return nil, err
	}
	table, err := gpu.NewTextureTable(device, queue, cfg)
	if err != nil {
		return nil, err
	}
	defer table.Destroy()
	sub := gpu.NewSubmitter(queue, table, canvas.RowAlignment())

	var (
		extract chunkcanvas.Extract
		wg      sync.WaitGroup
		res     = &result{}
	)
	ready := make(chan struct{}, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for range ready {
			batch, _ := extract.Take()
			stats := sub.Submit(&batch)
			res.written += stats.Written
			res.deferred += stats.Deferred
		}
		batch, _ := extract.Take()
		stats := sub.Submit(&batch)
		res.written += stats.Written
		res.deferred += stats.Deferred
	}()

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	state := &genState{rng: rng, cfg: cfg}
	for range frames {
		reqs := gen(state)
		canvas.Submit(reqs...)

		batch, stats := canvas.Frame()
		res.frames++
		res.requests += len(reqs)
		res.rejected += stats.Rejected
		res.pixels += stats.PixelsWritten
		res.ops += batch.Len()
		res.bytes += batch.TotalBytes()

		extract.Publish(batch)
		select {
		case ready <- struct{}{}:
		default:
		}
	}
	close(ready)
	wg.Wait()

	res.preview = canvas.Image()
	return res, nil
}

func (r *result) print(cfg chunkcanvas.Config, mode string) {
	p := message.NewPrinter(language.English)
	w, h := cfg.ChunkSize()
	p.Printf("canvas %dx%d, %d chunks of %dx%d, mode %s\n",
		cfg.Width, cfg.Height, cfg.TotalChunks(), w, h, mode)
	p.Printf("frames:          %d\n", r.frames)
	p.Printf("requests:        %d (%d rejected)\n", r.requests, r.rejected)
	p.Printf("pixels written:  %d\n", r.pixels)
	p.Printf("upload ops:      %d (%d written, %d deferred)\n", r.ops, r.written, r.deferred)
	p.Printf("upload bytes:    %d\n", r.bytes)
	if r.frames > 0 {
		p.Printf("bytes per frame: %d\n", r.bytes/r.frames)
	}
}

// openNoopDevice opens a headless HAL device.
func openNoopDevice() (hal.Device, hal.Queue, func(), error) {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, nil, nil, fmt.Errorf("open adapter: %w", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup, nil
}

func savePNG(path string, img *image.NRGBA, scale int) error {
	var out image.Image = img
	if scale > 1 {
		b := img.Bounds()
		dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		out = dst
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
