package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/diwise/iot-tamper-dashboard/pkg/types"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

type WebsocketDialer struct {
	base   *url.URL
	dialer *websocket.Dialer
	log    zerolog.Logger
}

// NewWebsocketDialer returns a dialer that connects to baseURL with the device id
// added as the device_id query parameter.
func NewWebsocketDialer(baseURL string, log zerolog.Logger) (*WebsocketDialer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid transport url: %w", err)
	}

	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid transport url scheme %q", u.Scheme)
	}

	return &WebsocketDialer{
		base: u,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		log: log,
	}, nil
}

func (d *WebsocketDialer) Dial(ctx context.Context, deviceID string) (Connection, error) {
	u := *d.base
	q := u.Query()
	q.Set("device_id", deviceID)
	u.RawQuery = q.Encode()

	if u.Path == "" {
		u.Path = "/"
	}

	conn, resp, err := d.dialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", u.Redacted(), err)
	}

	c := &wsConnection{
		conn:     conn,
		deviceID: deviceID,
		log:      d.log.With().Str("device_id", deviceID).Logger(),
		events:   make(chan Event, 32),
		send:     make(chan []byte, 8),
		done:     make(chan struct{}),
	}

	c.events <- Event{Kind: Opened}

	go c.readPump()
	go c.writePump()

	return c, nil
}

type wsConnection struct {
	conn     *websocket.Conn
	deviceID string
	log      zerolog.Logger

	events chan Event
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *wsConnection) Events() <-chan Event {
	return c.events
}

func (c *wsConnection) Send(ctx context.Context, msg types.SimulateTamper) error {
	select {
	case <-c.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case c.send <- msg.Body():
		return nil
	case <-c.done:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrSendBufferFull
	}
}

// Close may be called more than once. The Closed event is still delivered.
func (c *wsConnection) Close() error {
	var err error

	c.once.Do(func() {
		close(c.done)

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))

		err = c.conn.Close()
	})

	return err
}

func (c *wsConnection) closing() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *wsConnection) emit(e Event) {
	select {
	case c.events <- e:
	case <-c.done:
		select {
		case c.events <- e:
		default:
		}
	}
}

func (c *wsConnection) readPump() {
	defer func() {
		c.emit(Event{Kind: Closed})
		close(c.events)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if !c.closing() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Warn().Err(err).Msg("websocket read failed")
				c.emit(Event{Kind: Error, Err: err})
			}
			return
		}

		msg, err := types.DecodeMessage(frame)
		if err != nil {
			if errors.Is(err, types.ErrUnknownMessageType) {
				c.log.Warn().Err(err).Msg("ignoring frame")
			} else {
				c.log.Warn().Err(err).Msg("malformed frame")
			}
			continue
		}

		c.emit(Event{Kind: Message, Message: msg})
	}
}

func (c *wsConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case b := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				c.log.Warn().Err(err).Msg("websocket write failed")
				c.conn.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug().Err(err).Msg("websocket ping failed")
				c.conn.Close()
				return
			}
		}
	}
}
