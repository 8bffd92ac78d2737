package eventhub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	lru "github.com/hashicorp/golang-lru/v2"

	"seqview/internal/logging"
	"seqview/internal/metrics"
	"seqview/internal/services"
)

const (
	wsWriteWait = 10 * time.Second
	wsPongWait  = 60 * time.Second
	wsPingEvery = (wsPongWait * 9) / 10

	maxReconnectDelay = 2 * time.Minute
	defaultDedupSize  = 512
)

// Frame types exchanged with the remote hub.
const (
	FrameSubscribe   = "subscribe"
	FrameUnsubscribe = "unsubscribe"
	FrameEvent       = "event"
	FramePublish     = "publish"
)

// Frame is the JSON envelope used on the websocket.
type Frame struct {
	Type         string `json:"type"`
	ID           string `json:"id,omitempty"`
	Subscription string `json:"subscription,omitempty"`
	Event        *Event `json:"event,omitempty"`
}

// ClientOptions configures a Client.
type ClientOptions struct {
	URL            string
	User           string
	APIKey         string
	ReconnectDelay time.Duration
	DedupSize      int
	Dialer         *websocket.Dialer
	Logger         *slog.Logger
}

// Client connects a local Hub to the remote event hub. Events received from
// the hub are dispatched locally; handler results are published as replies.
type Client struct {
	opts   ClientOptions
	hub    *Hub
	seen   *lru.Cache[string, struct{}]
	logger *slog.Logger

	mu     sync.Mutex
	conn   *connection
	closed bool
}

var _ Registry = (*Client)(nil)

type connection struct {
	ws   *websocket.Conn
	send chan Frame
	done chan struct{}
	once sync.Once
}

func (c *connection) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})
}

// NewClient builds a client; Connect must be called before events flow.
func NewClient(opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "eventhub", "new client", "hub url required", nil)
	}
	if opts.DedupSize <= 0 {
		opts.DedupSize = defaultDedupSize
	}
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = time.Second
	}
	if opts.Dialer == nil {
		opts.Dialer = websocket.DefaultDialer
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	seen, err := lru.New[string, struct{}](opts.DedupSize)
	if err != nil {
		return nil, fmt.Errorf("eventhub dedup cache: %w", err)
	}
	return &Client{
		opts:   opts,
		hub:    NewHub(logger),
		seen:   seen,
		logger: logging.NewComponentLogger(logger, "eventhub-client"),
	}, nil
}

// Hub exposes the local dispatcher.
func (c *Client) Hub() *Hub { return c.hub }

// Subscribe registers handler locally and with the remote hub when connected.
func (c *Client) Subscribe(expression string, handler Handler) (string, error) {
	id, err := c.hub.Subscribe(expression, handler)
	if err != nil {
		return "", err
	}
	c.enqueue(Frame{Type: FrameSubscribe, ID: id, Subscription: expression})
	return id, nil
}

// Unsubscribe removes a subscription locally and remotely.
func (c *Client) Unsubscribe(id string) error {
	if err := c.hub.Unsubscribe(id); err != nil {
		return err
	}
	c.enqueue(Frame{Type: FrameUnsubscribe, ID: id})
	return nil
}

// Publish sends an event to the remote hub.
func (c *Client) Publish(event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if !c.enqueue(Frame{Type: FramePublish, Event: &event}) {
		return services.Wrap(services.ErrRemote, "eventhub", "publish", "not connected", nil)
	}
	return nil
}

func (c *Client) enqueue(frame Frame) bool {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return false
	}
	select {
	case conn.send <- frame:
		return true
	case <-conn.done:
		return false
	}
}

// Connect dials the hub once and replays active subscriptions.
func (c *Client) Connect(ctx context.Context) error {
	if c.isClosed() {
		return services.Wrap(services.ErrRemote, "eventhub", "dial", "client closed", nil)
	}
	header := http.Header{}
	if c.opts.User != "" {
		header.Set("ftrack-user", c.opts.User)
	}
	if c.opts.APIKey != "" {
		header.Set("ftrack-api-key", c.opts.APIKey)
	}
	ws, resp, err := c.opts.Dialer.DialContext(ctx, c.opts.URL, header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return services.Wrap(services.ErrRemote, "eventhub", "dial", c.opts.URL, err)
	}

	conn := &connection{
		ws:   ws,
		send: make(chan Frame, 32),
		done: make(chan struct{}),
	}
	go c.writeLoop(conn)

	c.mu.Lock()
	previous := c.conn
	c.conn = conn
	c.mu.Unlock()
	if previous != nil {
		previous.close()
	}

	for id, expression := range c.hub.Expressions() {
		c.enqueue(Frame{Type: FrameSubscribe, ID: id, Subscription: expression})
	}
	metrics.SetHubConnected(true)
	c.logger.Info("connected to event hub", logging.String("url", c.opts.URL))
	return nil
}

// Run reads events until ctx is cancelled, reconnecting with exponential
// backoff when the connection drops. Connect must have succeeded first.
func (c *Client) Run(ctx context.Context) error {
	delay := c.opts.ReconnectDelay
	for {
		c.mu.Lock()
		conn, closed := c.conn, c.closed
		c.mu.Unlock()
		if closed {
			return nil
		}
		if conn == nil {
			return services.Wrap(services.ErrRemote, "eventhub", "run", "not connected", nil)
		}

		stop := context.AfterFunc(ctx, conn.close)
		err := c.readLoop(ctx, conn)
		stop()
		conn.close()
		metrics.SetHubConnected(false)
		if ctx.Err() != nil || c.isClosed() {
			return nil
		}
		c.logger.Warn("event hub connection lost", logging.Error(err))

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			if c.isClosed() {
				return nil
			}
			if err := c.Connect(ctx); err != nil {
				delay = min(delay*2, maxReconnectDelay)
				c.logger.Warn("event hub reconnect failed",
					logging.Error(err),
					logging.Duration("retry_in", delay),
				)
				continue
			}
			delay = c.opts.ReconnectDelay
			break
		}
	}
}

// Close drops the current connection.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.closed = true
	c.mu.Unlock()
	if conn != nil {
		_ = conn.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(wsWriteWait))
		conn.close()
	}
	return nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) writeLoop(conn *connection) {
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()
	for {
		select {
		case <-conn.done:
			return
		case frame := <-conn.send:
			if err := conn.ws.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				conn.close()
				return
			}
			if err := conn.ws.WriteJSON(frame); err != nil {
				c.logger.Debug("event hub write failed", logging.Error(err))
				conn.close()
				return
			}
		case <-ticker.C:
			if err := conn.ws.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				conn.close()
				return
			}
			if err := conn.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.close()
				return
			}
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *connection) error {
	if err := conn.ws.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return err
	}
	conn.ws.SetPongHandler(func(string) error {
		return conn.ws.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var frame Frame
		if err := conn.ws.ReadJSON(&frame); err != nil {
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
				return fmt.Errorf("hub closed connection")
			}
			return err
		}
		_ = conn.ws.SetReadDeadline(time.Now().Add(wsPongWait))
		if frame.Type != FrameEvent || frame.Event == nil {
			c.logger.Debug("ignoring frame", logging.String("type", frame.Type))
			continue
		}
		c.dispatch(ctx, *frame.Event)
	}
}

func (c *Client) dispatch(ctx context.Context, event Event) {
	if event.ID != "" {
		if seen, _ := c.seen.ContainsOrAdd(event.ID, struct{}{}); seen {
			c.logger.Debug("dropping duplicate event", logging.String(logging.FieldEventID, event.ID))
			return
		}
	}
	for _, result := range c.hub.Publish(ctx, event) {
		reply := Event{
			ID:        uuid.NewString(),
			Topic:     ReplyTopic,
			InReplyTo: event.ID,
			Data:      toData(result),
		}
		if err := c.Publish(reply); err != nil {
			c.logger.Warn("reply not sent",
				logging.String(logging.FieldEventID, event.ID),
				logging.Error(err),
			)
		}
	}
}

// toData converts a handler result into the reply payload.
func toData(result any) map[string]any {
	if m, ok := result.(map[string]any); ok {
		return m
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return map[string]any{"success": false, "message": err.Error()}
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return map[string]any{"result": result}
	}
	return data
}
