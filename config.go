package chunkcanvas

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/chunkcanvas/layout"
	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidConfig is returned when a Config violates a sizing rule.
var ErrInvalidConfig = errors.New("chunkcanvas: invalid config")

// Default configuration values.
const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1024

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 1024

	// DefaultChunks is the default number of chunks per axis.
	DefaultChunks = 4

	// DefaultClearColour is opaque white.
	DefaultClearColour uint32 = 0xffffffff
)

// Config holds the immutable per-session canvas settings.
//
// The canvas is split into ChunksX x ChunksY chunks. Each canvas axis must be
// an exact multiple of its chunk count, and each chunk count must fit the
// 8-bit chunk addressing scheme (1..255).
type Config struct {
	// Width is the total canvas width in pixels.
	Width int `toml:"width"`

	// Height is the total canvas height in pixels.
	Height int `toml:"height"`

	// ChunksX is the number of chunks horizontally.
	ChunksX int `toml:"chunks_x"`

	// ChunksY is the number of chunks vertically.
	ChunksY int `toml:"chunks_y"`

	// ClearColour fills the CPU buffers and GPU textures at creation
	// (packed RGBA8, see PackRGBA8).
	ClearColour uint32 `toml:"clear_colour"`

	// ZIndex is the presentation depth of the chunk sprites.
	// The canvas itself never reads it.
	ZIndex float32 `toml:"z_index"`
}

// DefaultConfig returns a 1024x1024 canvas in a 4x4 chunk grid, cleared to
// white.
func DefaultConfig() Config {
	return Config{
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		ChunksX:     DefaultChunks,
		ChunksY:     DefaultChunks,
		ClearColour: DefaultClearColour,
	}
}

// Validate checks the sizing rules and returns an error wrapping
// ErrInvalidConfig describing the first violation.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas size %dx%d must be positive", ErrInvalidConfig, c.Width, c.Height)
	case c.ChunksX <= 0 || c.ChunksY <= 0:
		return fmt.Errorf("%w: chunk grid %dx%d must be positive", ErrInvalidConfig, c.ChunksX, c.ChunksY)
	case c.ChunksX > layout.MaxChunksPerAxis || c.ChunksY > layout.MaxChunksPerAxis:
		return fmt.Errorf("%w: chunk grid %dx%d exceeds %d per axis",
			ErrInvalidConfig, c.ChunksX, c.ChunksY, layout.MaxChunksPerAxis)
	case c.Width%c.ChunksX != 0:
		return fmt.Errorf("%w: width %d not divisible by %d chunks", ErrInvalidConfig, c.Width, c.ChunksX)
	case c.Height%c.ChunksY != 0:
		return fmt.Errorf("%w: height %d not divisible by %d chunks", ErrInvalidConfig, c.Height, c.ChunksY)
	}
	return nil
}

// ChunkSize returns the size of one chunk in pixels.
func (c Config) ChunkSize() (w, h int) {
	return c.Width / c.ChunksX, c.Height / c.ChunksY
}

// PixelsPerChunk returns the number of pixels in one chunk.
func (c Config) PixelsPerChunk() int {
	w, h := c.ChunkSize()
	return w * h
}

// TotalChunks returns ChunksX*ChunksY.
func (c Config) TotalChunks() int {
	return c.ChunksX * c.ChunksY
}

// Layout returns the coordinate helper for this configuration.
// The config must be valid.
func (c Config) Layout() layout.Layout {
	w, h := c.ChunkSize()
	return layout.New(c.Width, c.Height, w, h)
}

// DecodeConfig reads a TOML document on top of DefaultConfig and validates
// the result. Unknown keys are rejected.
//
//	width = 512
//	height = 512
//	chunks_x = 4
//	chunks_y = 4
//	clear_colour = 0xff000000
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("chunkcanvas: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig opens path and decodes it with DecodeConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path) //nolint:gosec // path supplied by the caller
	if err != nil {
		return Config{}, fmt.Errorf("chunkcanvas: open config: %w", err)
	}
	defer f.Close()
	return DecodeConfig(f)
}
