// Package server accepts game protocol connections and dispatches their
// requests to the registry.
package server

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"blackjack-server/internal/registry"

	"github.com/rs/zerolog/log"
)

const defaultSendBuffer = 16

type Server struct {
	reg        *registry.Registry
	sendBuffer int

	mu    sync.Mutex
	conns map[*conn]struct{}
}

func New(reg *registry.Registry) *Server {
	return &Server{
		reg:        reg,
		sendBuffer: defaultSendBuffer,
		conns:      map[*conn]struct{}{},
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("tcp_listen")
	return s.Serve(ctx, ln)
}

// Serve accepts connections until ctx is done, then closes the listener and
// every open connection. It returns nil on a ctx shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stop()

	var wg sync.WaitGroup
	defer func() {
		s.closeAll()
		wg.Wait()
	}()
	for {
		nc, err := accept(ln)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		c := s.newConn(nc)
		s.track(c)
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.handle(ctx, c)
		}()
	}
}

// accept retries temporary failures with a backoff capped at one second.
func accept(ln net.Listener) (net.Conn, error) {
	var delay time.Duration
	for {
		nc, err := ln.Accept()
		if err == nil {
			return nc, nil
		}
		var ne net.Error
		if !errors.As(err, &ne) || !ne.Timeout() && !isTemporary(ne) {
			return nil, err
		}
		if delay == 0 {
			delay = 5 * time.Millisecond
		} else {
			delay *= 2
		}
		if delay > time.Second {
			delay = time.Second
		}
		log.Warn().Err(err).Dur("retry_in", delay).Msg("tcp_accept_retry")
		time.Sleep(delay)
	}
}

func isTemporary(err error) bool {
	t, ok := err.(interface{ Temporary() bool })
	return ok && t.Temporary()
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.nc.Close()
	}
}

func (s *Server) track(c *conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
	metricConnectionsTotal.Add(1)
	metricConnectionsActive.Add(1)
}

func (s *Server) untrack(c *conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	metricConnectionsActive.Add(-1)
}
