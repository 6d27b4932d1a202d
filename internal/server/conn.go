package server

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"

	"blackjack-server/internal/protocol"
	"blackjack-server/internal/store"

	"github.com/rs/zerolog/log"
)

type conn struct {
	id   string
	nc   net.Conn
	send chan string
	// user is the username authenticated on this connection; only the read
	// goroutine touches it.
	user string
}

func (s *Server) newConn(nc net.Conn) *conn {
	return &conn{
		id:   store.NewTaggedID("conn"),
		nc:   nc,
		send: make(chan string, s.sendBuffer),
	}
}

// handle serves one connection: frames are read and dispatched in order on
// this goroutine, replies are written by writeLoop.
func (s *Server) handle(ctx context.Context, c *conn) {
	logger := log.With().Str("conn", c.id).Str("remote", c.nc.RemoteAddr().String()).Logger()
	logger.Info().Msg("conn_open")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		s.writeLoop(c)
	}()

	defer func() {
		close(c.send)
		<-writerDone
		_ = c.nc.Close()
		if c.user != "" {
			if err := s.reg.Disconnect(context.WithoutCancel(ctx), c.user); err != nil {
				logger.Warn().Err(err).Str("user", c.user).Msg("conn_disconnect_cleanup_failed")
			}
		}
		s.untrack(c)
		logger.Info().Str("user", c.user).Msg("conn_closed")
	}()

	r := bufio.NewReader(c.nc)
	for {
		frame, err := protocol.ReadFrame(r)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				logger.Debug().Err(err).Msg("conn_read_failed")
			}
			return
		}
		metricFramesTotal.Add(1)
		req, err := protocol.Parse(frame)
		if err != nil {
			metricFramesMalformed.Add(1)
			logger.Warn().Err(err).Str("frame", truncate(frame, 64)).Msg("frame_malformed")
			continue
		}
		s.dispatch(ctx, c, req)
	}
}

func (s *Server) writeLoop(c *conn) {
	w := bufio.NewWriter(c.nc)
	for msg := range c.send {
		if err := protocol.WriteFrame(w, msg); err != nil {
			log.Warn().Err(err).Str("conn", c.id).Msg("conn_write_failed")
			_ = c.nc.Close()
			break
		}
		if len(c.send) > 0 {
			continue
		}
		if err := w.Flush(); err != nil {
			_ = c.nc.Close()
			break
		}
	}
	// drain so the reader never blocks on a dead peer
	for range c.send {
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
