// Package server implements the TCP listener and connection-handling
// loop: a fixed-size worker pool, strict per-connection request
// ordering, and incremental reads off the wire.
package server

import (
	"errors"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"redikv/internal/command"
	"redikv/internal/logger"
	"redikv/internal/resp"
)

const readChunkSize = 1024

// Server owns the listener and dispatches accepted connections to a
// fixed pool of worker goroutines reading from a shared job channel,
// so the number of concurrently handled connections never exceeds the
// configured worker count.
type Server struct {
	addr     string
	workers  int
	registry *command.Registry
	env      *command.Env

	listener net.Listener
	conns    chan net.Conn

	// errLimiter caps how often a noisy, repeatedly-failing connection
	// can spam the log.
	errLimiter *rate.Limiter
}

// New builds a Server bound to addr, ready to Serve once called.
func New(addr string, workers int, env *command.Env) *Server {
	if workers < 1 {
		workers = 1
	}
	return &Server{
		addr:       addr,
		workers:    workers,
		registry:   command.NewRegistry(),
		env:        env,
		conns:      make(chan net.Conn, workers),
		errLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Listen opens the listener without serving yet, so a caller can read
// Addr() (useful when addr's port is 0) before Serve starts blocking.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// ListenAndServe opens the listener and blocks running the worker pool
// until the listener is closed or the accept loop returns an error.
func (s *Server) ListenAndServe() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	return s.serve()
}

// Serve runs the worker pool and accept loop against an already-opened
// listener (see Listen). It blocks until the listener closes.
func (s *Server) Serve() error {
	if s.listener == nil {
		return errors.New("server: Serve called before Listen")
	}
	return s.serve()
}

// Addr returns the bound address. Only meaningful after Listen (or
// ListenAndServe) has opened the listener; nil before that.
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

func (s *Server) serve() error {
	for i := 0; i < s.workers; i++ {
		go s.worker()
	}

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				close(s.conns)
				return nil
			}
			return err
		}
		s.conns <- conn
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.listener == nil {
		return nil
	}
	return s.listener.Close()
}

func (s *Server) worker() {
	for conn := range s.conns {
		s.handleConn(conn)
	}
}

// handleConn runs the read -> decode -> dispatch -> write loop for one
// connection until it closes or errors: requests are handled one at a
// time, in arrival order, never pipelined or reordered.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	var buf []byte
	chunk := make([]byte, readChunkSize)

	for {
		msg, n, err := resp.Decode(buf)
		if err == nil {
			buf = buf[n:]
			req, errMsg := command.FromMessage(msg)
			var reply resp.Message
			if errMsg != nil {
				reply = *errMsg
			} else {
				reply = s.registry.Dispatch(s.env, req)
			}
			if _, werr := conn.Write(resp.Encode(reply)); werr != nil {
				s.logIOError(conn, werr)
				return
			}
			continue
		}
		if !errors.Is(err, resp.ErrNotEnoughBytes) && !errors.Is(err, resp.ErrNoStartingByte) {
			// The bytes on the wire don't form a valid RESP message at
			// all (bad starting byte, malformed length, missing CRLF).
			// There's no way to resynchronize with whatever the client
			// sends next, so the connection is closed after telling it
			// why. This is distinct from a well-formed request that
			// names an unknown command or has the wrong arity, which
			// gets a RESP error reply and an open connection.
			conn.Write(resp.Encode(resp.Errf("ERR Protocol error: %v", err)))
			return
		}

		read, rerr := conn.Read(chunk)
		if read > 0 {
			buf = append(buf, chunk[:read]...)
		}
		if rerr != nil {
			if rerr == io.EOF {
				return
			}
			s.logIOError(conn, rerr)
			return
		}
	}
}

// logIOError logs unless the error is a broken pipe / connection reset,
// which are expected whenever a client disconnects mid-write and are
// closed silently.
func (s *Server) logIOError(conn net.Conn, err error) {
	if isBrokenPipe(err) {
		return
	}
	if s.errLimiter.Allow() {
		logger.Warn("server: connection %s: %v", conn.RemoteAddr(), err)
	}
}

func isBrokenPipe(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}

// JoinHostPort is a small convenience used by cmd/redis-server to build
// the listen address from discrete host/port config fields.
func JoinHostPort(host string, port uint16) string {
	return net.JoinHostPort(host, strconv.Itoa(int(port)))
}
