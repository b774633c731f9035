package viewer

import (
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

// SoftwareSurface renders into process memory. It backs the PNG
// snapshot feature and the compositor tests; nothing here touches a
// window system.
type SoftwareSurface struct {
	img *image.RGBA
}

func NewSoftwareSurface(w, h int) *SoftwareSurface {
	return &SoftwareSurface{img: image.NewRGBA(image.Rect(0, 0, w, h))}
}

// SetSize resizes the surface, dropping previous contents.
func (s *SoftwareSurface) SetSize(w, h int) {
	if b := s.img.Bounds(); b.Dx() == w && b.Dy() == h {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (s *SoftwareSurface) Size() (w, h int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

func (s *SoftwareSurface) Clear() {
	clear(s.img.Pix)
}

func (s *SoftwareSurface) Draw(pix []byte, w, h int, dst image.Rectangle) error {
	if len(pix) != w*h*4 {
		return fmt.Errorf("draw %vx%v: %w", w, h, ErrPixelLength)
	}
	src := &image.RGBA{Pix: pix, Stride: w * 4, Rect: image.Rect(0, 0, w, h)}
	xdraw.NearestNeighbor.Scale(s.img, dst, src, src.Bounds(), xdraw.Src, nil)
	return nil
}

// Flip is a no-op: memory surfaces have no refresh cadence.
func (s *SoftwareSurface) Flip() error { return nil }

// Image exposes the backing image for pixel assertions.
func (s *SoftwareSurface) Image() *image.RGBA { return s.img }

// EncodePNG writes the current surface contents.
func (s *SoftwareSurface) EncodePNG(w io.Writer) error { return png.Encode(w, s.img) }
