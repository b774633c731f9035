package viewer

// Size is a logical pixel size of the drawable surface.
type Size struct {
	W, H int
}

// Viewport mirrors the host window's drawable area.
// Written only from resize notifications and read only by the
// compositor, both on the loop goroutine, so no locking is needed.
type Viewport struct {
	size Size
}

func NewViewport(w, h int) *Viewport { return &Viewport{size: Size{W: w, H: h}} }

// Set records a host resize notification as-is; rescaling is entirely
// the compositor's job on the next iteration.
func (v *Viewport) Set(w, h int) { v.size = Size{W: w, H: h} }

func (v *Viewport) Size() Size { return v.size }
