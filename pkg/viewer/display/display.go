// Package display owns the SDL overlay window: borderless, always on
// top, draggable by grabbing anywhere inside it.
//
// Everything that touches SDL runs through thread.MainMaybe, and all
// callbacks fire on the render loop goroutine during Flip's event
// poll, so the package needs no locking.
package display

import (
	"fmt"
	"image"

	"github.com/Sonicaii/lerche/pkg/config"
	"github.com/Sonicaii/lerche/pkg/logger"
	"github.com/Sonicaii/lerche/pkg/thread"
	"github.com/veandco/go-sdl2/sdl"
)

type Display struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	texW     int32
	texH     int32

	dragging     bool
	grabX, grabY int32 // pointer offset inside the window at grab time

	onResize   func(w, h int)
	onQuit     func()
	onSnapshot func()

	log *logger.Logger
}

func New(conf config.Window, log *logger.Logger) (*Display, error) {
	d := &Display{log: log}
	var err error
	thread.MainMaybe(func() { err = d.init(conf) })
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Display) init(conf config.Window) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl: %w", err)
	}
	// Nearest sampling keeps the capture pixel-exact when the renderer
	// stretches the streaming texture.
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	flags := uint32(sdl.WINDOW_BORDERLESS | sdl.WINDOW_RESIZABLE | sdl.WINDOW_SHOWN | sdl.WINDOW_ALLOW_HIGHDPI)
	if conf.AlwaysOnTop {
		flags |= sdl.WINDOW_ALWAYS_ON_TOP
	}
	w, err := sdl.CreateWindow(conf.Title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(conf.Width), int32(conf.Height), flags)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("window: %w", err)
	}
	if conf.Opacity > 0 && conf.Opacity < 1 {
		_ = w.SetWindowOpacity(conf.Opacity)
	}

	r, err := sdl.CreateRenderer(w, -1, sdl.RENDERER_ACCELERATED|sdl.RENDERER_PRESENTVSYNC)
	if err != nil {
		_ = w.Destroy()
		sdl.Quit()
		return fmt.Errorf("renderer: %w", err)
	}
	_ = r.SetDrawBlendMode(sdl.BLENDMODE_BLEND)

	d.window = w
	d.renderer = r
	return nil
}

// OnResize registers the host resize notification consumer.
func (d *Display) OnResize(fn func(w, h int)) { d.onResize = fn }

// OnQuit registers the teardown trigger (window close, Esc).
func (d *Display) OnQuit(fn func()) { d.onQuit = fn }

// OnSnapshot registers the handler for the snapshot key.
func (d *Display) OnSnapshot(fn func()) { d.onSnapshot = fn }

// Size returns the drawable size in pixels.
func (d *Display) Size() (int, int) {
	var w, h int32
	thread.MainMaybe(func() { w, h, _ = d.renderer.GetOutputSize() })
	return int(w), int(h)
}

// Clear wipes the full viewport to transparent black.
func (d *Display) Clear() {
	thread.MainMaybe(func() {
		_ = d.renderer.SetDrawColor(0, 0, 0, 0)
		_ = d.renderer.Clear()
	})
}

// Draw streams the RGBA pixels into the frame texture and copies it
// scaled into dst. The texture is recreated only on dimension change,
// mirroring the frame cache's reuse policy.
func (d *Display) Draw(pix []byte, w, h int, dst image.Rectangle) (err error) {
	thread.MainMaybe(func() { err = d.draw(pix, w, h, dst) })
	return err
}

func (d *Display) draw(pix []byte, w, h int, dst image.Rectangle) error {
	if d.texture == nil || d.texW != int32(w) || d.texH != int32(h) {
		if d.texture != nil {
			_ = d.texture.Destroy()
		}
		// ABGR8888 is byte-order RGBA on little-endian hosts.
		t, err := d.renderer.CreateTexture(sdl.PIXELFORMAT_ABGR8888, sdl.TEXTUREACCESS_STREAMING, int32(w), int32(h))
		if err != nil {
			d.texture = nil
			return fmt.Errorf("texture %vx%v: %w", w, h, err)
		}
		d.texture, d.texW, d.texH = t, int32(w), int32(h)
	}
	if err := d.texture.Update(nil, pix, w*4); err != nil {
		return err
	}
	rect := sdl.Rect{X: int32(dst.Min.X), Y: int32(dst.Min.Y), W: int32(dst.Dx()), H: int32(dst.Dy())}
	return d.renderer.Copy(d.texture, nil, &rect)
}

// Flip pumps window events and presents the frame. With vsync enabled
// the present blocks until the display refresh, pacing the caller.
func (d *Display) Flip() (err error) {
	thread.MainMaybe(func() {
		d.pumpEvents()
		d.renderer.Present()
	})
	return nil
}

func (d *Display) pumpEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			d.quit()
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED && d.onResize != nil {
				w, h, _ := d.renderer.GetOutputSize()
				d.onResize(int(w), int(h))
			}
		case *sdl.KeyboardEvent:
			if e.Type != sdl.KEYDOWN {
				break
			}
			switch e.Keysym.Sym {
			case sdl.K_ESCAPE, sdl.K_q:
				d.quit()
			case sdl.K_s:
				if d.onSnapshot != nil {
					d.onSnapshot()
				}
			}
		case *sdl.MouseButtonEvent:
			if e.Button != sdl.BUTTON_LEFT {
				break
			}
			switch e.Type {
			case sdl.MOUSEBUTTONDOWN:
				d.beginMove(e.X, e.Y)
			case sdl.MOUSEBUTTONUP:
				d.dragging = false
			}
		case *sdl.MouseMotionEvent:
			if d.dragging {
				d.moveTo()
			}
		}
	}
}

// beginMove starts an interactive window move: the press point stays
// under the pointer until release. Fire-and-forget as far as the
// render loop is concerned.
func (d *Display) beginMove(x, y int32) {
	d.dragging = true
	d.grabX, d.grabY = x, y
}

func (d *Display) moveTo() {
	mx, my, _ := sdl.GetGlobalMouseState()
	d.window.SetPosition(mx-d.grabX, my-d.grabY)
}

func (d *Display) quit() {
	d.dragging = false
	if d.onQuit != nil {
		d.onQuit()
	}
}

func (d *Display) Close() error {
	thread.MainMaybe(func() {
		if d.texture != nil {
			_ = d.texture.Destroy()
			d.texture = nil
		}
		if d.renderer != nil {
			_ = d.renderer.Destroy()
		}
		if d.window != nil {
			_ = d.window.Destroy()
		}
		sdl.Quit()
	})
	d.log.Debug().Msg("display closed")
	return nil
}
