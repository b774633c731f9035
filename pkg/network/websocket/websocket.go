// Package websocket holds the viewer side of the backend socket.
//
// Unlike a general-purpose duplex wrapper there are no pump goroutines
// here: the render loop is the only caller and it is single-flight by
// construction, so every exchange is a plain write-then-read on the
// calling goroutine.
package websocket

import (
	"fmt"
	"net/url"
	"time"

	"github.com/gofrs/uuid"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

type Client struct {
	conn deadlinedConn
}

// NewClient dials the backend endpoint, identifying the session with a
// fresh uuid in the query string.
func NewClient(address url.URL, requestTimeout time.Duration) (*Client, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	q := address.Query()
	q.Set("sid", id.String())
	address.RawQuery = q.Encode()

	sock, _, err := websocket.DefaultDialer.Dial(address.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial %v: %w", address.String(), err)
	}
	return &Client{
		conn: deadlinedConn{sock: sock, rt: requestTimeout, wt: writeWait},
	}, nil
}

// Call sends one binary request packet and blocks for the single
// response message. Not safe for concurrent use; the render loop
// guarantees one call in flight.
func (c *Client) Call(request []byte) ([]byte, error) {
	if err := c.conn.write(websocket.BinaryMessage, request); err != nil {
		return nil, err
	}
	return c.conn.read()
}

func (c *Client) Close() error {
	_ = c.conn.write(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.close()
}
