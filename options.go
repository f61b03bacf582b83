package chunkcanvas

// DefaultRowAlignment is the row stride granularity, in bytes, that GPU
// texture writes require (WebGPU's COPY_BYTES_PER_ROW_ALIGNMENT).
// For RGBA8 this is 64 pixels.
const DefaultRowAlignment = 256

// Option configures a Canvas during creation.
//
// Example:
//
//	c, err := chunkcanvas.New(cfg, chunkcanvas.WithRowAlignment(512))
type Option func(*options)

// options holds optional configuration for Canvas creation.
type options struct {
	rowAlignment int
	workers      int
}

// defaultOptions returns the default canvas options.
func defaultOptions() options {
	return options{
		rowAlignment: DefaultRowAlignment,
	}
}

// WithRowAlignment sets the byte alignment of upload row strides.
// The value must be a positive multiple of BytesPerPixel; other values
// are ignored and the default is kept.
func WithRowAlignment(bytes int) Option {
	return func(o *options) {
		if bytes > 0 && bytes%BytesPerPixel == 0 {
			o.rowAlignment = bytes
		}
	}
}

// WithWorkers encodes upload payloads on n goroutines. Values below 2 keep
// encoding on the calling goroutine. A canvas created with workers must be
// closed with Close.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}
