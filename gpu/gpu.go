//go:build !nogpu

// Package gpu writes chunkcanvas upload batches to per-chunk GPU textures
// through wgpu/hal.
//
// Each canvas chunk maps to one RGBA8Unorm texture held in a TextureTable,
// indexed by the chunk's linear index. A Submitter consumes the ops of an
// UploadBatch in order and issues one queue texture write per op.
//
// Textures may be realised late: a nil table entry means "not ready" and
// uploads aimed at it are skipped, not retried. The chunk is uploaded again
// the next time it is drawn to.
//
// Usage:
//
//	sub, err := gpu.NewFromProvider(provider, canvas)
//	...
//	batch, _ := canvas.Frame()
//	sub.Submit(&batch)
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/chunkcanvas"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrNilProvider is returned when NewFromProvider gets a nil provider.
	ErrNilProvider = errors.New("gpu: nil device provider")

	// ErrNilCanvas is returned when NewFromProvider gets a nil canvas.
	ErrNilCanvas = errors.New("gpu: nil canvas")

	// ErrNoHAL is returned when a provider does not expose a hal.Device
	// and hal.Queue.
	ErrNoHAL = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrTableSize is returned when a texture table does not hold exactly
	// one entry per chunk.
	ErrTableSize = errors.New("gpu: texture count does not match chunk grid")

	// ErrUnknownChunk is returned for a chunk index outside the table.
	ErrUnknownChunk = errors.New("gpu: chunk index out of range")

	// ErrMalformedUpload is reported for an op the queue cannot accept.
	ErrMalformedUpload = errors.New("gpu: malformed upload")
)

// halProvider is implemented by device providers that give direct access
// to the HAL device and queue (e.g. gogpu).
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// NewFromProvider creates a texture table for canvas on the provider's
// device and returns a Submitter writing to it. The Submitter accepts the
// row alignment the canvas was built with.
//
// The provider must also implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
func NewFromProvider(provider gpucontext.DeviceProvider, canvas *chunkcanvas.Canvas) (*Submitter, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if canvas == nil {
		return nil, ErrNilCanvas
	}
	device, queue, err := halFromProvider(provider)
	if err != nil {
		return nil, err
	}

	table, err := NewTextureTable(device, queue, canvas.Config())
	if err != nil {
		return nil, err
	}
	chunkcanvas.Logger().Info("gpu: chunk textures ready",
		"chunks", table.Len(), "format", "RGBA8Unorm", "row_alignment", canvas.RowAlignment())
	return NewSubmitter(queue, table, canvas.RowAlignment()), nil
}

func halFromProvider(provider any) (hal.Device, hal.Queue, error) {
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, nil, ErrNoHAL
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHAL)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHAL)
	}
	return device, queue, nil
}

func alignUp(n, align int) int {
	return (n + align - 1) / align * align
}
