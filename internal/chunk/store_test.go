// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package chunk

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/chunkcanvas/layout"
)

func TestNew_Shape(t *testing.T) {
	s := New(3, 2, 8, 4, 0xAABBCCDD)

	if s.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", s.Len())
	}
	if s.Stride() != 8 {
		t.Errorf("Stride() = %d, want 8", s.Stride())
	}
	if s.PixelsPerChunk() != 32 {
		t.Errorf("PixelsPerChunk() = %d, want 32", s.PixelsPerChunk())
	}
	for i := range s.Len() {
		buf := s.Chunk(i)
		if len(buf) != 32 {
			t.Fatalf("len(Chunk(%d)) = %d, want 32", i, len(buf))
		}
		for j, px := range buf {
			if px != 0xAABBCCDD {
				t.Fatalf("Chunk(%d)[%d] = %#x, want fill", i, j, px)
			}
		}
	}
}

func TestNew_PanicsOnInvalid(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("New(0, ...) did not panic")
		}
	}()
	New(0, 1, 1, 1, 0)
}

func TestChunk_OutOfRange(t *testing.T) {
	s := New(2, 2, 4, 4, 0)

	if s.Chunk(-1) != nil || s.Chunk(4) != nil {
		t.Error("Chunk() with invalid index should return nil")
	}
}

func TestWriteRun(t *testing.T) {
	s := New(2, 2, 4, 4, 0)

	local := layout.Pt(1, 2)
	off := s.Offset(local)
	if off != 9 {
		t.Fatalf("Offset(%v) = %d, want 9", local, off)
	}

	if err := s.WriteRun(3, off, []uint32{1, 2, 3}); err != nil {
		t.Fatalf("WriteRun: %v", err)
	}

	got := s.Chunk(1*2 + 1)[8:13]
	want := []uint32{0, 1, 2, 3, 0}
	if !slices.Equal(got, want) {
		t.Errorf("chunk row = %v, want %v", got, want)
	}
	if s.At(3, 10) != 2 {
		t.Errorf("At(3, 10) = %d, want 2", s.At(3, 10))
	}

	// Other chunks untouched
	for i := range 3 {
		for _, px := range s.Chunk(i) {
			if px != 0 {
				t.Fatalf("chunk %d modified", i)
			}
		}
	}
}

func TestWriteRun_Errors(t *testing.T) {
	s := New(2, 1, 4, 4, 0)

	tests := []struct {
		name    string
		index   int
		offset  int
		n       int
		wantErr error
	}{
		{"negative index", -1, 0, 1, ErrIndexOutOfRange},
		{"index past end", 2, 0, 1, ErrIndexOutOfRange},
		{"negative offset", 0, -1, 1, ErrRunOutOfRange},
		{"run past end", 0, 14, 3, ErrRunOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := make([][]uint32, s.Len())
			for i := range before {
				before[i] = slices.Clone(s.Chunk(i))
			}
			err := s.WriteRun(tt.index, tt.offset, make([]uint32, tt.n))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("WriteRun() error = %v, want %v", err, tt.wantErr)
			}
			for i := range s.Len() {
				if !slices.Equal(s.Chunk(i), before[i]) {
					t.Errorf("chunk %d changed after rejected write", i)
				}
			}
		})
	}
}

func TestFill(t *testing.T) {
	s := New(2, 2, 2, 2, 0)
	s.Fill(7)

	for i := range s.Len() {
		for j, px := range s.Chunk(i) {
			if px != 7 {
				t.Fatalf("Chunk(%d)[%d] = %d, want 7", i, j, px)
			}
		}
	}
}
