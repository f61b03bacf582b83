// Package chunkcanvas maintains a large 2D pixel canvas split into a grid of
// chunks and streams only the modified regions to GPU textures each frame.
//
// # Overview
//
// The canvas is toroidal: any coordinate outside [0, size) wraps to the
// opposite edge instead of failing. Each chunk owns a CPU buffer of packed
// RGBA8 colours and a dirty rectangle; on the GPU side each chunk maps to
// one texture (see package gpu).
//
// # Quick Start
//
//	c := chunkcanvas.MustNew(chunkcanvas.Config{
//	    Width: 512, Height: 512, ChunksX: 4, ChunksY: 4,
//	    ClearColour: chunkcanvas.White,
//	})
//
//	red := chunkcanvas.PackRGBA8([4]uint8{255, 0, 0, 255})
//	c.DrawPixel(chunkcanvas.Point{X: 10, Y: 20}, red)
//	c.DrawSpan(chunkcanvas.Point{X: 510, Y: 0}, []uint32{red, red, red, red})
//
//	batch, stats := c.Frame()
//
// # Frame pipeline
//
//  1. Submit queues Clear, Pixel, PixelList, Rect and Span requests.
//  2. Process applies them in that kind order, splitting every write into
//     runs that never cross a chunk row or the canvas edge, and grows each
//     touched chunk's dirty rectangle.
//  3. BuildUploads drains the dirty rectangles into an UploadBatch: one
//     op per dirty chunk, X widened to the 256-byte row alignment.
//  4. Extract hands a deep copy of the batch to the submission stage,
//     which writes it to the chunk textures (gpu.Submitter).
//
// # Errors
//
// Malformed requests (mismatched array lengths, empty rectangles) are
// dropped, logged and reported in FrameStats; the rest of the frame is
// still applied. Nothing fails because of out-of-canvas coordinates.
//
// # Coordinate System
//
//   - Origin (0,0) at top-left of chunk (0,0)
//   - X increases right, Y increases down
//   - Chunk index = chunkY * ChunksX + chunkX
package chunkcanvas
