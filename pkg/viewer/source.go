package viewer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/Sonicaii/lerche/pkg/api"
	"github.com/Sonicaii/lerche/pkg/config"
	"github.com/Sonicaii/lerche/pkg/network/websocket"
)

// Frame is one complete raster image received from the backend.
type Frame struct {
	W, H int
	Rate uint32 // api.RateUnknown when the backend omitted it
	Pix  []byte
}

// ErrFetch is the single opaque failure of a frame fetch; transport and
// decode problems all collapse into it. There is no internal retry —
// the next scheduled cycle is the retry.
var ErrFetch = errors.New("frame fetch failed")

// FrameSource fetches exactly one frame per call.
type FrameSource interface {
	Next(ctx context.Context) (Frame, error)
	Close() error
}

type socketSource struct {
	client    *websocket.Client
	closeOnce sync.Once
	closeErr  error
}

// NewSocketSource dials the capture backend.
func NewSocketSource(conf config.Backend) (FrameSource, error) {
	scheme := "ws"
	if conf.Secure {
		scheme = "wss"
	}
	address := url.URL{Scheme: scheme, Host: conf.Address, Path: conf.Endpoint}
	client, err := websocket.NewClient(address, conf.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return &socketSource{client: client}, nil
}

func (s *socketSource) Next(ctx context.Context) (Frame, error) {
	if err := ctx.Err(); err != nil {
		return Frame{}, err
	}
	packet, err := s.client.Call(api.EncodeFrameGet())
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	data, err := api.DecodeFrame(packet)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return Frame{W: int(data.W), H: int(data.H), Rate: data.Rate, Pix: data.Pix}, nil
}

// Close tears the socket down and fails any fetch blocked on it.
// Idempotent: both the teardown path and Shutdown may call it.
func (s *socketSource) Close() error {
	s.closeOnce.Do(func() { s.closeErr = s.client.Close() })
	return s.closeErr
}
