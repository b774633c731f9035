package viewer

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/Sonicaii/lerche/pkg/logger"
)

// scriptedSource plays back a fixed sequence of results and cancels
// the loop when the script runs out.
type scriptedSource struct {
	script []func() (Frame, error)
	i      int
	cancel context.CancelFunc
}

func (s *scriptedSource) Next(ctx context.Context) (Frame, error) {
	if s.i >= len(s.script) {
		s.cancel()
		return Frame{}, ctx.Err()
	}
	step := s.script[s.i]
	s.i++
	return step()
}

func (s *scriptedSource) Close() error { return nil }

type recordingSurface struct {
	clears int
	draws  int
	flips  int
	last   image.Rectangle
	lastW  int
	lastH  int
}

func (r *recordingSurface) Clear() { r.clears++ }
func (r *recordingSurface) Draw(pix []byte, w, h int, dst image.Rectangle) error {
	r.draws++
	r.lastW, r.lastH = w, h
	r.last = dst
	return nil
}
func (r *recordingSurface) Flip() error { r.flips++; return nil }

func okFrame(w, h int, fill byte) func() (Frame, error) {
	return func() (Frame, error) {
		return Frame{W: w, H: h, Rate: 60, Pix: rgba(w, h, fill)}, nil
	}
}

func newTestLoop(src FrameSource, out Surface, vw, vh int) (*Loop, *Metrics) {
	m := NewMetrics(func() time.Time { return time.Unix(0, 0) })
	return NewLoop(src, out, NewViewport(vw, vh), m, logger.New(false)), m
}

func runScripted(t *testing.T, out Surface, vw, vh int, script ...func() (Frame, error)) (*Loop, *Metrics) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	src := &scriptedSource{script: script, cancel: cancel}
	l, m := newTestLoop(src, out, vw, vh)
	l.Run(ctx)
	return l, m
}

func TestLoopSurvivesFetchFailures(t *testing.T) {
	out := &recordingSurface{}
	fail := func() (Frame, error) { return Frame{}, ErrFetch }

	l, _ := runScripted(t, out, 100, 100,
		okFrame(10, 10, 1),
		fail,
		fail,
		okFrame(10, 10, 2),
	)

	if out.draws != 2 {
		t.Errorf("draws = %v, want 2 (failed fetches skip drawing)", out.draws)
	}
	// every iteration reschedules, failed ones included
	if out.flips != 4 {
		t.Errorf("flips = %v, want one per scripted iteration", out.flips)
	}
	if l.Cache().Allocs() != 1 {
		t.Errorf("allocs = %v, failed iterations must not touch the cache", l.Cache().Allocs())
	}
}

func TestLoopFailedIterationAltersNoState(t *testing.T) {
	out := &recordingSurface{}
	boom := errors.New("backend unreachable")

	l, m := runScripted(t, out, 100, 100,
		okFrame(4, 4, 7),
		func() (Frame, error) { return Frame{}, boom },
	)

	if buf := l.Cache().Buffer(); buf == nil || buf.Pix[0] != 7 {
		t.Error("failure overwrote the cached frame")
	}
	if m.winCount != 1 {
		t.Errorf("winCount = %v, failed iteration must not tick metrics", m.winCount)
	}
}

func TestLoopRejectsLengthMismatchAndContinues(t *testing.T) {
	out := &recordingSurface{}

	// frame byte length 100 with 6x5 dimensions (wants 120)
	l, _ := runScripted(t, out, 100, 100,
		func() (Frame, error) { return Frame{W: 6, H: 5, Pix: make([]byte, 100)}, nil },
		okFrame(6, 5, 3),
	)

	if out.draws != 1 {
		t.Errorf("draws = %v, want 1 (integrity failure skips drawing)", out.draws)
	}
	if l.Cache().Allocs() != 1 {
		t.Errorf("allocs = %v, rejected frame must not allocate", l.Cache().Allocs())
	}
}

func TestLoopDrawsFramesInFetchOrder(t *testing.T) {
	out := &recordingSurface{}

	runScripted(t, out, 200, 100,
		okFrame(10, 10, 1),
		okFrame(20, 10, 2),
		okFrame(10, 20, 3),
	)

	if out.lastW != 10 || out.lastH != 20 {
		t.Errorf("last drawn frame %vx%v, want the last fetched 10x20", out.lastW, out.lastH)
	}
	if want := image.Rect(75, 0, 125, 100); out.last != want {
		t.Errorf("last rect %v, want %v", out.last, want)
	}
	if out.draws != 3 || out.clears != 3 {
		t.Errorf("draws/clears = %v/%v, want 3/3", out.draws, out.clears)
	}
}

func TestLoopDiscardsFetchResolvedAfterTeardown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	out := &recordingSurface{}

	// the fetch "resolves" with a valid frame, but teardown already began
	src := &scriptedSource{cancel: func() {}, script: []func() (Frame, error){
		func() (Frame, error) {
			cancel()
			return Frame{W: 2, H: 2, Pix: rgba(2, 2, 1)}, nil
		},
	}}
	l, m := newTestLoop(src, out, 50, 50)
	l.Run(ctx)

	if out.draws != 0 || out.flips != 0 {
		t.Errorf("draws/flips = %v/%v, torn-down loop must not touch the surface", out.draws, out.flips)
	}
	if l.Cache().Buffer() != nil || m.winCount != 0 {
		t.Error("torn-down loop mutated render state")
	}
}

func TestLoopSkipsDrawOnCollapsedViewport(t *testing.T) {
	out := &recordingSurface{}

	l, m := runScripted(t, out, 0, 0, okFrame(8, 8, 1))

	if out.draws != 0 {
		t.Error("collapsed viewport still drew")
	}
	// a skipped draw is not a failure: the frame is cached and counted
	if l.Cache().Buffer() == nil {
		t.Error("frame was not cached")
	}
	if m.winCount != 1 {
		t.Errorf("winCount = %v, want 1", m.winCount)
	}
}
