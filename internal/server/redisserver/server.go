package redisserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/respkv/internal/resp"
	"github.com/yndnr/respkv/internal/telemetry/metric"
)

// Config holds the RESP server configuration.
type Config struct {
	// Address is the TCP listen address.
	Address string
	// ReadBufferSize is the size of each socket read (default: 512).
	ReadBufferSize int
	// MaxPendingBytes caps bytes buffered for an incomplete frame (default: 1 MiB).
	MaxPendingBytes int
	// MaxDepth caps array nesting (default: 32).
	MaxDepth int
	// MaxArrayLen caps elements per array (default: 1024).
	MaxArrayLen int
	// IdleTimeout closes connections that send nothing for this long (default: 5m).
	IdleTimeout time.Duration
	// WriteTimeout bounds each flush of replies (default: 30s).
	WriteTimeout time.Duration
	// RateLimit is the maximum number of commands per second per IP.
	// Set to 0 to disable rate limiting.
	RateLimit int
	// Strict answers unknown commands and non-array requests with errors.
	Strict bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:         "127.0.0.1:6379",
		ReadBufferSize:  512,
		MaxPendingBytes: resp.DefaultMaxPending,
		MaxDepth:        resp.DefaultMaxDepth,
		MaxArrayLen:     resp.DefaultMaxArrayLen,
		IdleTimeout:     5 * time.Minute,
		WriteTimeout:    30 * time.Second,
	}
}

func (c *Config) limits() resp.Limits {
	return resp.Limits{
		MaxDepth:    c.MaxDepth,
		MaxArrayLen: c.MaxArrayLen,
		MaxPending:  c.MaxPendingBytes,
	}
}

// Server is the RESP protocol server.
type Server struct {
	cfg        *Config
	dispatcher *Dispatcher
	limiter    *ipLimiter
	logger     *slog.Logger
	metrics    *metric.Registry

	ln       net.Listener
	running  atomic.Bool
	wg       sync.WaitGroup
	stopWait func() bool

	mu    sync.Mutex
	conns map[*conn]struct{}
}

// conn is a single client connection.
type conn struct {
	id      string
	netConn net.Conn
	bw      *bufio.Writer
	stream  *resp.Stream
	ip      string
	log     *slog.Logger

	closed atomic.Bool
}

func (c *conn) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	return c.netConn.Close()
}

// New creates a server backed by store. A nil cfg uses DefaultConfig, a
// nil log uses slog.Default and a nil metrics registry records nothing.
func New(cfg *Config, store Store, log *slog.Logger, metrics *metric.Registry) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "redis")

	return &Server{
		cfg: cfg,
		dispatcher: NewDispatcher(store,
			WithStrict(cfg.Strict),
			WithLogger(log),
			WithMetrics(metrics),
		),
		limiter: newIPLimiter(cfg.RateLimit),
		logger:  log,
		metrics: metrics,
		conns:   make(map[*conn]struct{}),
	}
}

// Start binds the listener and serves connections in the background.
// Cancelling ctx has the same effect as Shutdown without waiting.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)
	s.logger.Info("redis server listening", "address", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.acceptLoop(ctx, ln); err != nil {
			s.logger.Error("redis accept loop stopped", "error", err)
		}
	}()

	s.stopWait = context.AfterFunc(ctx, func() { _ = s.stop() })

	return nil
}

// Addr returns the bound listen address, or nil before Start.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Shutdown closes the listener and every open connection, then waits for
// their goroutines to finish or ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.stopWait != nil {
		s.stopWait()
	}
	err := s.stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	return err
}

// stop closes the listener and connections once.
func (s *Server) stop() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	var err error
	if s.ln != nil {
		if cerr := s.ln.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
			err = cerr
		}
	}

	s.mu.Lock()
	for c := range s.conns {
		_ = c.Close()
	}
	s.mu.Unlock()

	return err
}

// ActiveConns returns the number of open client connections.
func (s *Server) ActiveConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) acceptLoop(ctx context.Context, ln net.Listener) error {
	for {
		nc, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}

		c := s.newConn(nc)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(c)
		}()
	}
}

func (s *Server) newConn(nc net.Conn) *conn {
	id := ulid.Make().String()
	return &conn{
		id:      id,
		netConn: nc,
		bw:      bufio.NewWriter(nc),
		stream:  resp.NewStream(resp.WithLimits(s.cfg.limits())),
		ip:      hostOf(nc.RemoteAddr()),
		log:     s.logger.With("conn_id", id, "remote", nc.RemoteAddr().String()),
	}
}

func (s *Server) track(c *conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running.Load() {
		return false
	}
	s.conns[c] = struct{}{}
	return true
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
}

func (s *Server) serveConn(c *conn) {
	defer c.Close()
	if !s.track(c) {
		return
	}
	defer s.untrack(c)

	s.metrics.ConnOpened()
	defer s.metrics.ConnClosed()

	c.log.Debug("connection accepted")

	bufSize := s.cfg.ReadBufferSize
	if bufSize <= 0 {
		bufSize = 512
	}
	idleTimeout := s.cfg.IdleTimeout
	if idleTimeout <= 0 {
		idleTimeout = 5 * time.Minute
	}

	buf := make([]byte, bufSize)
	for {
		if err := c.netConn.SetReadDeadline(time.Now().Add(idleTimeout)); err != nil {
			return
		}
		n, rerr := c.netConn.Read(buf)
		if n > 0 {
			if !s.handleChunk(c, buf[:n]) {
				return
			}
		}
		if rerr != nil {
			s.logReadEnd(c, rerr)
			return
		}
	}
}

// handleChunk decodes one read's worth of bytes, dispatches every completed
// request and flushes the replies. It reports false when the connection
// must be closed.
func (s *Server) handleChunk(c *conn, chunk []byte) bool {
	tokens, ferr := c.stream.Feed(chunk)
	for _, tok := range tokens {
		s.handleRequest(c, tok)
	}

	keep := true
	if ferr != nil {
		s.writeDecodeFault(c, ferr)
		keep = false
	}

	if err := c.netConn.SetWriteDeadline(time.Now().Add(s.writeTimeout())); err != nil {
		return false
	}
	if err := c.bw.Flush(); err != nil {
		c.log.Debug("write failed", "error", err)
		return false
	}
	return keep
}

func (s *Server) handleRequest(c *conn, tok resp.Token) {
	if tok.Kind == resp.KindArray && !s.limiter.allow(c.ip) {
		s.writeReply(c, resp.Error(errRateLimited))
		return
	}

	reply, ok := s.dispatcher.Dispatch(tok)
	if !ok {
		return
	}
	c.log.Debug("command", "request", tok.String(), "reply", reply.String())
	s.writeReply(c, reply)
}

func (s *Server) writeReply(c *conn, reply resp.Token) {
	if err := resp.WriteToken(c.bw, reply); err != nil {
		c.log.Error("encode reply", "error", err)
		_ = resp.WriteToken(c.bw, resp.Error(errInternal))
	}
}

func (s *Server) writeDecodeFault(c *conn, err error) {
	if errors.Is(err, resp.ErrLimitExceeded) {
		c.log.Warn("protocol limit exceeded", "error", err)
		s.metrics.IncProtocolError("limit")
		s.writeReply(c, resp.Error(errLimitExceeded))
		return
	}

	reason := err.Error()
	var de *resp.DecodeError
	if errors.As(err, &de) {
		reason = de.Reason
	}
	c.log.Warn("protocol error", "error", err)
	s.metrics.IncProtocolError("protocol")
	s.writeReply(c, resp.Error("ERR Protocol error: "+reason))
}

func (s *Server) logReadEnd(c *conn, err error) {
	var netErr net.Error
	switch {
	case errors.Is(err, io.EOF):
		c.log.Debug("connection closed by client")
	case errors.As(err, &netErr) && netErr.Timeout():
		c.log.Debug("connection idle timeout")
	case c.closed.Load() || errors.Is(err, net.ErrClosed):
		c.log.Debug("connection closed by server")
	default:
		c.log.Debug("connection read error", "error", err)
	}
}

func (s *Server) writeTimeout() time.Duration {
	if s.cfg.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return s.cfg.WriteTimeout
}
