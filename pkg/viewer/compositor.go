package viewer

import (
	"image"
	"math"
)

// Surface is a drawable render target. The SDL display and the
// software (in-memory) renderer both implement it.
type Surface interface {
	// Clear wipes the whole surface; letterbox margins and stale
	// pixels from larger previous frames must not survive a cycle.
	Clear()
	// Draw scales w*h RGBA pixels into dst with nearest-neighbor
	// sampling (no smoothing, capture stays pixel-exact).
	Draw(pix []byte, w, h int, dst image.Rectangle) error
	// Flip presents the finished iteration. On a vsync'ed display this
	// blocks until the next refresh and so paces the loop.
	Flip() error
}

// FitRect computes the aspect-preserving destination rectangle for a
// fw*fh frame centered in a vw*vh viewport. ok is false when either
// side is degenerate, in which case drawing is skipped for the cycle.
func FitRect(fw, fh, vw, vh int) (r image.Rectangle, ok bool) {
	if fw <= 0 || fh <= 0 || vw <= 0 || vh <= 0 {
		return image.Rectangle{}, false
	}
	scale := math.Min(float64(vw)/float64(fw), float64(vh)/float64(fh))
	sw := int(math.Round(float64(fw) * scale))
	sh := int(math.Round(float64(fh) * scale))
	x := (vw - sw) / 2
	y := (vh - sh) / 2
	return image.Rect(x, y, x+sw, y+sh), true
}

// Composite clears dst and draws buf letterboxed into the viewport.
// A degenerate frame or viewport is not an error: the cycle simply
// draws nothing.
func Composite(dst Surface, buf *FrameBuffer, vp Size) (drawn bool, err error) {
	r, ok := FitRect(buf.W, buf.H, vp.W, vp.H)
	if !ok {
		return false, nil
	}
	dst.Clear()
	if err := dst.Draw(buf.Pix, buf.W, buf.H, r); err != nil {
		return false, err
	}
	return true, nil
}
