package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/yndnr/respkv/internal/resp"
)

const (
	// DefaultTimeout bounds one request when the context has no deadline.
	DefaultTimeout = 5 * time.Second

	readChunk = 4096
)

var (
	// ErrClosed is returned by requests on a closed Client.
	ErrClosed = errors.New("client: closed")

	// ErrConnection marks failures after which the connection is unusable.
	ErrConnection = errors.New("client: connection failed")
)

// ReplyError is an error reply sent by the server.
type ReplyError struct {
	Message string
}

func (e *ReplyError) Error() string {
	return e.Message
}

// AsError returns a *ReplyError for an error token and nil otherwise.
func AsError(t resp.Token) error {
	if t.Kind == resp.KindError {
		return &ReplyError{Message: t.Str}
	}
	return nil
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout used when the context carries
// no deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLimits bounds the replies the client will decode.
func WithLimits(l resp.Limits) Option {
	return func(c *Client) {
		c.limits = l
	}
}

// Client is a single RESP connection.
type Client struct {
	mu      sync.Mutex
	conn    net.Conn
	w       *bufio.Writer
	stream  *resp.Stream
	buf     []byte
	pending []resp.Token
	timeout time.Duration
	limits  resp.Limits
	broken  error
	closed  bool
}

// Dial connects to addr.
func Dial(ctx context.Context, addr string, opts ...Option) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return newClient(conn, opts...), nil
}

func newClient(conn net.Conn, opts ...Option) *Client {
	c := &Client{
		conn:    conn,
		w:       bufio.NewWriter(conn),
		buf:     make([]byte, readChunk),
		timeout: DefaultTimeout,
		limits:  resp.DefaultLimits(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stream = resp.NewStream(resp.WithLimits(c.limits))
	return c
}

// RemoteAddr returns the server address.
func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Do sends one command line and waits for its reply. Error replies are
// returned as tokens with a nil error; use AsError to convert them.
func (c *Client) Do(ctx context.Context, args ...string) (resp.Token, error) {
	return c.Send(ctx, resp.CommandLine(args...))
}

// Send writes an arbitrary request token and waits for one reply.
func (c *Client) Send(ctx context.Context, req resp.Token) (resp.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return resp.Token{}, ErrClosed
	}
	if c.broken != nil {
		return resp.Token{}, c.broken
	}

	stop := c.arm(ctx)
	defer stop()

	if err := resp.WriteToken(c.w, req); err != nil {
		return resp.Token{}, fmt.Errorf("encode request: %w", err)
	}
	if err := c.w.Flush(); err != nil {
		return resp.Token{}, c.fail(ctx, err)
	}

	for len(c.pending) == 0 {
		n, err := c.conn.Read(c.buf)
		if n > 0 {
			toks, ferr := c.stream.Feed(c.buf[:n])
			c.pending = append(c.pending, toks...)
			if ferr != nil {
				return resp.Token{}, c.fail(ctx, ferr)
			}
		}
		if err != nil && len(c.pending) == 0 {
			return resp.Token{}, c.fail(ctx, err)
		}
	}

	reply := c.pending[0]
	c.pending = c.pending[1:]
	return reply, nil
}

// arm applies the request deadline and makes ctx cancellation interrupt
// blocking I/O.
func (c *Client) arm(ctx context.Context) func() {
	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}
	_ = c.conn.SetDeadline(deadline)

	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetDeadline(time.Now())
	})
	return func() {
		stop()
		_ = c.conn.SetDeadline(time.Time{})
	}
}

// fail marks the connection unusable. A reply may still be in flight, so
// the stream can no longer be trusted to pair requests with replies.
func (c *Client) fail(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	}
	c.broken = fmt.Errorf("%w: %w", ErrConnection, err)
	return c.broken
}

// Healthy reports whether the connection can still carry requests.
func (c *Client) Healthy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed && c.broken == nil
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// Ping sends PING and expects PONG.
func (c *Client) Ping(ctx context.Context) error {
	reply, err := c.Do(ctx, "PING")
	if err != nil {
		return err
	}
	if err := AsError(reply); err != nil {
		return err
	}
	if reply.Kind != resp.KindSimpleString || reply.Str != "PONG" {
		return fmt.Errorf("unexpected PING reply %q", reply.String())
	}
	return nil
}

// Echo sends ECHO msg and returns the echoed value.
func (c *Client) Echo(ctx context.Context, msg string) (resp.Token, error) {
	return c.reply(c.Do(ctx, "ECHO", msg))
}

// Get returns the value at key, or a Null token when absent.
func (c *Client) Get(ctx context.Context, key string) (resp.Token, error) {
	return c.reply(c.Do(ctx, "GET", key))
}

// Set stores value at key. A positive px sets a time-to-live.
func (c *Client) Set(ctx context.Context, key, value string, px time.Duration) error {
	args := []string{"SET", key, value}
	if px > 0 {
		args = append(args, "PX", strconv.FormatInt(px.Milliseconds(), 10))
	}
	_, err := c.reply(c.Do(ctx, args...))
	return err
}

func (c *Client) reply(t resp.Token, err error) (resp.Token, error) {
	if err != nil {
		return t, err
	}
	if err := AsError(t); err != nil {
		return t, err
	}
	return t.Literal(), nil
}
