package chunkcanvas

import "sync"

// Extract hands upload batches from the drawing stage to the submission
// stage, which may run on another goroutine.
//
// Publish stores a deep copy of the batch, so the drawing stage can keep
// mutating its canvas immediately. Take returns everything published since
// the previous Take, or an empty batch. The consumer never observes a
// partially published batch.
//
// If the consumer falls behind, batches accumulate in publish order rather
// than replacing each other, so no chunk write is lost.
type Extract struct {
	mu      sync.Mutex
	pending UploadBatch
	frames  int
}

// Publish copies b into the hand-off slot. Empty batches are ignored.
func (x *Extract) Publish(b UploadBatch) {
	if b.Len() == 0 {
		return
	}
	clone := b.Clone()

	x.mu.Lock()
	defer x.mu.Unlock()
	x.pending.Ops = append(x.pending.Ops, clone.Ops...)
	x.frames++
}

// Take returns the pending batch and the number of frames it spans, and
// empties the slot.
func (x *Extract) Take() (UploadBatch, int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	b, frames := x.pending, x.frames
	x.pending = UploadBatch{}
	x.frames = 0
	return b, frames
}

// Pending reports the number of ops waiting for Take.
func (x *Extract) Pending() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.pending.Len()
}
