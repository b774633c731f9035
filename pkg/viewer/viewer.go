// Package viewer implements the overlay display client: a render loop
// that pulls raw RGBA frames from the capture backend and fits them
// into a borderless always-on-top window.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sonicaii/lerche/pkg/config"
	"github.com/Sonicaii/lerche/pkg/logger"
	"github.com/Sonicaii/lerche/pkg/monitoring"
	lros "github.com/Sonicaii/lerche/pkg/os"
	"github.com/Sonicaii/lerche/pkg/viewer/display"
	"github.com/prometheus/client_golang/prometheus"
)

var ErrAlreadyRunning = errors.New("another viewer instance holds the lock")

type Viewer struct {
	conf config.ViewerConfig
	log  *logger.Logger

	lock       *lros.Flock
	source     FrameSource
	display    *display.Display
	viewport   *Viewport
	metrics    *Metrics
	loop       *Loop
	monitoring *monitoring.Monitoring

	cancel context.CancelFunc
}

func New(conf config.ViewerConfig, log *logger.Logger) (*Viewer, error) {
	lock, err := lros.NewFileLock(conf.Viewer.LockFile)
	if err != nil {
		return nil, err
	}
	if ok, err := lock.TryLock(); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrAlreadyRunning
	}

	v := &Viewer{conf: conf, log: log, lock: lock}
	if conf.Viewer.Monitoring.IsEnabled() {
		v.monitoring = monitoring.New(conf.Viewer.Monitoring, conf.Viewer.Tag, log)
	}
	return v, nil
}

// Run mounts the window, dials the backend and drives the render loop
// until ctx is cancelled or the user closes the overlay. Blocking.
func (v *Viewer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	v.cancel = cancel
	defer cancel()

	d, err := display.New(v.conf.Viewer.Window, v.log)
	if err != nil {
		return fmt.Errorf("display: %w", err)
	}
	v.display = d

	src, err := NewSocketSource(v.conf.Backend)
	if err != nil {
		_ = d.Close()
		return fmt.Errorf("backend: %w", err)
	}
	v.source = src
	// The fetch has no response deadline, so a stalled backend would
	// otherwise keep the loop parked inside Next past cancellation.
	// Closing the socket fails that read and lets Run return.
	go func() {
		<-ctx.Done()
		_ = src.Close()
	}()

	v.viewport = NewViewport(d.Size())
	v.metrics = NewMetrics(nil)
	v.loop = NewLoop(src, d, v.viewport, v.metrics, v.log)

	d.OnResize(v.viewport.Set)
	d.OnQuit(cancel)
	d.OnSnapshot(v.snapshot)

	if v.monitoring != nil {
		prometheus.MustRegister(v.metrics.Collectors()...)
		v.monitoring.Run()
	}

	v.loop.Run(ctx)
	return nil
}

// Shutdown releases everything Run acquired. Safe after a failed Run.
func (v *Viewer) Shutdown(ctx context.Context) error {
	if v.cancel != nil {
		v.cancel()
	}
	var err error
	if v.source != nil {
		// No-op when the teardown path already closed it.
		err = errors.Join(err, v.source.Close())
	}
	if v.display != nil {
		err = errors.Join(err, v.display.Close())
	}
	if v.monitoring != nil {
		err = errors.Join(err, v.monitoring.Shutdown(ctx))
	}
	err = errors.Join(err, v.lock.Unlock())
	return err
}

// snapshot composites the cached frame into a software surface at the
// current viewport size and writes it next to the configured folder.
// Runs on the loop goroutine between iterations, so reading the cache
// is race-free.
func (v *Viewer) snapshot() {
	buf := v.loop.Cache().Buffer()
	if buf == nil {
		v.log.Warn().Msg("snapshot skipped: no frame yet")
		return
	}
	vp := v.viewport.Size()
	surface := NewSoftwareSurface(vp.W, vp.H)
	if drawn, err := Composite(surface, buf, vp); err != nil || !drawn {
		v.log.Warn().Err(err).Msg("snapshot skipped")
		return
	}
	name := filepath.Join(v.conf.Viewer.Snapshots,
		fmt.Sprintf("lerche-%s.png", time.Now().Format("20060102-150405")))
	f, err := os.Create(name)
	if err != nil {
		v.log.Error().Err(err).Msg("snapshot failed")
		return
	}
	defer func() { _ = f.Close() }()
	if err := surface.EncodePNG(f); err != nil {
		v.log.Error().Err(err).Msg("snapshot failed")
		return
	}
	v.log.Info().Msgf("snapshot saved to %v", name)
}
