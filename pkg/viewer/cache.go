package viewer

import (
	"errors"
	"fmt"
)

// FrameBuffer is the most recently decoded frame, owned by the cache.
// Pix is always exactly W*H*4 bytes of RGBA with no row padding.
type FrameBuffer struct {
	W, H int
	Pix  []byte
}

var ErrPixelLength = errors.New("pixel data length does not match dimensions")

// FrameCache keeps a single reusable frame buffer between iterations.
// The buffer is reallocated only when the incoming dimensions change;
// same-sized frames are copied into the existing allocation.
type FrameCache struct {
	buf    *FrameBuffer
	allocs int
}

func NewFrameCache() *FrameCache { return &FrameCache{} }

// Put validates and stores one frame, returning the buffer ready for
// compositing. The incoming slice is copied, never retained.
func (c *FrameCache) Put(w, h int, pix []byte) (*FrameBuffer, error) {
	if len(pix) != w*h*4 {
		return nil, fmt.Errorf("%w: %vx%v wants %v bytes, got %v",
			ErrPixelLength, w, h, w*h*4, len(pix))
	}
	if c.buf == nil || c.buf.W != w || c.buf.H != h {
		c.buf = &FrameBuffer{W: w, H: h, Pix: make([]byte, len(pix))}
		c.allocs++
	}
	copy(c.buf.Pix, pix)
	return c.buf, nil
}

// Buffer returns the current frame or nil before the first Put.
func (c *FrameCache) Buffer() *FrameBuffer { return c.buf }

// Allocs reports how many buffer allocations happened so far.
func (c *FrameCache) Allocs() int { return c.allocs }
