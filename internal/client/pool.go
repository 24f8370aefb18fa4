package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	pool "github.com/jolestar/go-commons-pool/v2"

	"github.com/yndnr/respkv/internal/resp"
)

// PoolConfig bounds a Pool.
type PoolConfig struct {
	// MaxTotal caps live connections; Borrow blocks when exhausted.
	MaxTotal int

	// MaxIdle caps connections kept open while unused.
	MaxIdle int

	// MinIdle connections are kept warm by the evictor.
	MinIdle int

	// TestOnBorrow pings a connection before handing it out.
	TestOnBorrow bool

	// IdleTimeout closes connections unused for longer. Zero disables
	// eviction.
	IdleTimeout time.Duration

	// RequestTimeout is passed to each Client (see WithTimeout).
	RequestTimeout time.Duration
}

// DefaultPoolConfig returns the default pool settings.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxTotal:       8,
		MaxIdle:        8,
		RequestTimeout: DefaultTimeout,
	}
}

// Pool shares Clients connected to one server.
type Pool struct {
	addr string
	pool *pool.ObjectPool
}

type connectionFactory struct {
	addr string
	opts []Option
}

func (f *connectionFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	c, err := Dial(ctx, f.addr, f.opts...)
	if err != nil {
		return nil, err
	}
	return pool.NewPooledObject(c), nil
}

func (f *connectionFactory) DestroyObject(_ context.Context, object *pool.PooledObject) error {
	c, ok := object.Object.(*Client)
	if !ok {
		return errors.New("client: pooled object type mismatch")
	}
	return c.Close()
}

func (f *connectionFactory) ValidateObject(ctx context.Context, object *pool.PooledObject) bool {
	c, ok := object.Object.(*Client)
	if !ok || !c.Healthy() {
		return false
	}
	return c.Ping(ctx) == nil
}

func (f *connectionFactory) ActivateObject(context.Context, *pool.PooledObject) error {
	return nil
}

func (f *connectionFactory) PassivateObject(context.Context, *pool.PooledObject) error {
	return nil
}

// NewPool creates a pool of connections to addr. Connections are dialed
// lazily on Borrow.
func NewPool(ctx context.Context, addr string, cfg PoolConfig) *Pool {
	pc := pool.NewDefaultPoolConfig()
	if cfg.MaxTotal > 0 {
		pc.MaxTotal = cfg.MaxTotal
	}
	if cfg.MaxIdle > 0 {
		pc.MaxIdle = cfg.MaxIdle
	}
	pc.MinIdle = cfg.MinIdle
	pc.TestOnBorrow = cfg.TestOnBorrow
	if cfg.IdleTimeout > 0 {
		pc.MinEvictableIdleTime = cfg.IdleTimeout
		pc.TimeBetweenEvictionRuns = cfg.IdleTimeout / 2
	}

	factory := &connectionFactory{
		addr: addr,
		opts: []Option{WithTimeout(cfg.RequestTimeout)},
	}
	return &Pool{
		addr: addr,
		pool: pool.NewObjectPool(ctx, factory, pc),
	}
}

// Borrow returns an idle Client or dials a new one. It blocks while the
// pool is exhausted until ctx ends.
func (p *Pool) Borrow(ctx context.Context) (*Client, error) {
	obj, err := p.pool.BorrowObject(ctx)
	if err != nil {
		return nil, fmt.Errorf("borrow connection to %s: %w", p.addr, err)
	}
	return obj.(*Client), nil
}

// Return gives c back to the pool. Broken clients are destroyed instead.
func (p *Pool) Return(ctx context.Context, c *Client) error {
	if !c.Healthy() {
		return p.pool.InvalidateObject(ctx, c)
	}
	return p.pool.ReturnObject(ctx, c)
}

// Do borrows a Client, runs one request and returns the Client.
func (p *Pool) Do(ctx context.Context, args ...string) (resp.Token, error) {
	c, err := p.Borrow(ctx)
	if err != nil {
		return resp.Token{}, err
	}
	reply, err := c.Do(ctx, args...)
	if rerr := p.Return(ctx, c); rerr != nil && err == nil {
		err = rerr
	}
	return reply, err
}

// Active returns the number of borrowed clients.
func (p *Pool) Active() int {
	return p.pool.GetNumActive()
}

// Idle returns the number of pooled idle clients.
func (p *Pool) Idle() int {
	return p.pool.GetNumIdle()
}

// Close closes idle clients and rejects further borrows.
func (p *Pool) Close(ctx context.Context) {
	p.pool.Close(ctx)
}
