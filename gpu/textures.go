//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/gogpu/chunkcanvas"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// TextureTable maps linear chunk indices to chunk textures.
//
// The table has exactly one entry per chunk. An entry may be nil until the
// texture is realised; Set installs it later. TextureTable is safe for
// concurrent use.
type TextureTable struct {
	mu       sync.RWMutex
	device   hal.Device
	textures []hal.Texture
	owned    []bool

	chunkW, chunkH int
}

// NewTextureTable creates one RGBA8Unorm texture per chunk of cfg and
// fills each with cfg.ClearColour, matching a freshly created Canvas.
// The table owns the textures; Destroy releases them.
func NewTextureTable(device hal.Device, queue hal.Queue, cfg chunkcanvas.Config) (*TextureTable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: nil device or queue", ErrNoHAL)
	}

	chunkW, chunkH := cfg.ChunkSize()
	n := cfg.TotalChunks()
	t := &TextureTable{
		device:   device,
		textures: make([]hal.Texture, n),
		owned:    make([]bool, n),
		chunkW:   chunkW,
		chunkH:   chunkH,
	}

	l := cfg.Layout()
	seed, stride := solidRows(chunkW, chunkH, cfg.ClearColour)
	for i := range n {
		key := l.KeyOf(i)
		tex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         fmt.Sprintf("chunkcanvas_chunk_%d_%d", key.X, key.Y),
			Size:          hal.Extent3D{Width: uint32(chunkW), Height: uint32(chunkH), DepthOrArrayLayers: 1},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
		})
		if err != nil {
			t.Destroy()
			return nil, fmt.Errorf("gpu: create texture for chunk %v: %w", key, err)
		}
		t.textures[i] = tex
		t.owned[i] = true

		writeTexture(queue, tex, 0, 0, chunkW, chunkH, stride, seed)
	}

	return t, nil
}

// NewTextureTableFrom adopts textures created elsewhere, one per chunk in
// linear index order. Nil entries are treated as not ready. The table does
// not destroy adopted textures.
func NewTextureTableFrom(textures []hal.Texture, cfg chunkcanvas.Config) (*TextureTable, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(textures) != cfg.TotalChunks() {
		return nil, fmt.Errorf("%w: got %d textures for %d chunks",
			ErrTableSize, len(textures), cfg.TotalChunks())
	}

	chunkW, chunkH := cfg.ChunkSize()
	return &TextureTable{
		textures: append([]hal.Texture(nil), textures...),
		owned:    make([]bool, len(textures)),
		chunkW:   chunkW,
		chunkH:   chunkH,
	}, nil
}

// Len returns the number of table entries (the chunk count).
func (t *TextureTable) Len() int {
	return len(t.textures)
}

// ChunkSize returns the texture dimensions in pixels.
func (t *TextureTable) ChunkSize() (w, h int) {
	return t.chunkW, t.chunkH
}

// Texture returns the texture of chunk index.
// Returns false if the index is out of range or the texture is not ready.
func (t *TextureTable) Texture(index int) (hal.Texture, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if index < 0 || index >= len(t.textures) || t.textures[index] == nil {
		return nil, false
	}
	return t.textures[index], true
}

// Ready returns the number of realised textures.
func (t *TextureTable) Ready() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, tex := range t.textures {
		if tex != nil {
			n++
		}
	}
	return n
}

// Set installs the texture for chunk index, typically once an external
// texture has been realised. The table does not take ownership.
func (t *TextureTable) Set(index int, tex hal.Texture) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= len(t.textures) {
		return fmt.Errorf("%w: %d of %d", ErrUnknownChunk, index, len(t.textures))
	}
	if t.owned[index] && t.textures[index] != nil {
		t.device.DestroyTexture(t.textures[index])
	}
	t.textures[index] = tex
	t.owned[index] = false
	return nil
}

// Destroy releases the textures the table created and clears every entry.
func (t *TextureTable) Destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, tex := range t.textures {
		if tex != nil && t.owned[i] {
			t.device.DestroyTexture(tex)
		}
		t.textures[i] = nil
		t.owned[i] = false
	}
}

// solidRows returns a w x h block of colour with an aligned row stride.
func solidRows(w, h int, colour uint32) ([]byte, int) {
	stride := alignUp(w*chunkcanvas.BytesPerPixel, chunkcanvas.DefaultRowAlignment)
	data := make([]byte, stride*h)
	for y := range h {
		row := data[y*stride:]
		for x := range w {
			binary.LittleEndian.PutUint32(row[x*chunkcanvas.BytesPerPixel:], colour)
		}
	}
	return data, stride
}
