package viewer

import (
	"context"

	"github.com/Sonicaii/lerche/pkg/logger"
)

// Loop is the cooperative driver of the acquisition-and-render cycle.
//
// One iteration: fetch a frame, reconcile it with the cached buffer,
// composite into the surface, tick the metrics, present. The present
// call is the only pacing: on a vsync'ed display it blocks until the
// next refresh. There is never more than one iteration in flight — the
// next one starts only after the current one's side effects completed
// or failed.
type Loop struct {
	src     FrameSource
	out     Surface
	cache   *FrameCache
	vp      *Viewport
	metrics *Metrics
	log     *logger.Logger
}

func NewLoop(src FrameSource, out Surface, vp *Viewport, metrics *Metrics, log *logger.Logger) *Loop {
	return &Loop{
		src:     src,
		out:     out,
		cache:   NewFrameCache(),
		vp:      vp,
		metrics: metrics,
		log:     log,
	}
}

// Cache exposes the frame cache for snapshotting between iterations.
func (l *Loop) Cache() *FrameCache { return l.cache }

// Run cycles until ctx is cancelled. A failed iteration is logged and
// dropped; the loop itself never stops on an error.
func (l *Loop) Run(ctx context.Context) {
	l.log.Info().Msg("render loop started")
	for ctx.Err() == nil {
		l.step(ctx)
	}
	l.log.Info().Msg("render loop stopped")
}

func (l *Loop) step(ctx context.Context) {
	frame, err := l.src.Next(ctx)
	// A fetch that resolves after teardown began must not touch any
	// render state, the surface may already be gone.
	if ctx.Err() != nil {
		return
	}
	switch {
	case err != nil:
		l.log.Warn().Err(err).Msg("iteration dropped")
	default:
		if err := l.render(frame); err != nil {
			l.log.Warn().Err(err).Msg("iteration dropped")
			break
		}
		if closed := l.metrics.Tick(frame.Rate); closed {
			l.log.Debug().Msgf("fps: %v measured, %v reported",
				l.metrics.MeasuredRate(), l.metrics.ReportedRate())
		}
	}
	// Rescheduling is unconditional; vsync on the presenting surface
	// supplies the cadence.
	if err := l.out.Flip(); err != nil {
		l.log.Warn().Err(err).Msg("present failed")
	}
}

func (l *Loop) render(frame Frame) error {
	buf, err := l.cache.Put(frame.W, frame.H, frame.Pix)
	if err != nil {
		return err
	}
	drawn, err := Composite(l.out, buf, l.vp.Size())
	if err != nil {
		return err
	}
	if !drawn {
		// Degenerate geometry (collapsed window or empty frame) is
		// not an error, the cycle just shows nothing new.
		l.log.Debug().Msgf("draw skipped: frame %vx%v viewport %+v",
			frame.W, frame.H, l.vp.Size())
	}
	return nil
}
