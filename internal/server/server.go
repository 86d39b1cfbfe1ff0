// Package server implements kvsd's connection-handling loop: a single
// listener accepting one connection at a time, decoding exactly one
// command frame per connection, dispatching it against the configured
// engine, and writing back exactly one response frame before closing.
// The accept loop shape is grounded on the corpus's lofoneh-kvlite TCP
// server, simplified to kvsd's single-threaded, one-frame-per-connection
// contract: no goroutine-per-connection, no keep-alive, no pipelining.
package server

import (
	"errors"
	"net"

	"go.uber.org/zap"

	"github.com/arvindmehta/kvsd/internal/engine"
	"github.com/arvindmehta/kvsd/internal/kvserrors"
	"github.com/arvindmehta/kvsd/internal/wire"
)

// Server owns the listener and the single storage engine it serves.
type Server struct {
	log      *zap.SugaredLogger
	engine   engine.Engine
	listener net.Listener
}

// New binds addr and returns a Server ready to Serve. Binding happens
// eagerly so callers can treat a returned error as fatal-at-startup.
func New(log *zap.SugaredLogger, eng engine.Engine, addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, kvserrors.New(err, kvserrors.IO, "failed to bind listener").WithDetail("addr", addr)
	}
	log.Infow("server listening", "addr", ln.Addr().String())
	return &Server{log: log, engine: eng, listener: ln}, nil
}

// Addr returns the address the server is actually bound to.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve runs the accept loop until the listener is closed. A failure
// accepting one connection is logged and the loop continues; a closed
// listener ends Serve with nil.
func (s *Server) Serve() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.log.Infow("listener closed, stopping accept loop")
				return nil
			}
			s.log.Errorw("failed to accept connection", "error", err)
			continue
		}

		s.handleConnection(conn)
	}
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	return s.listener.Close()
}

// handleConnection decodes one command frame, dispatches it, and
// writes one response frame. It never blocks the accept loop beyond a
// single request/response exchange.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()

	cmd, err := wire.DecodeCommand(conn)
	if err != nil {
		s.log.Warnw("failed to decode command frame", "remote", remote, "error", err, "kind", kvserrors.KindOf(err))
		return
	}

	s.log.Infow("dispatching command", "remote", remote, "opcode", cmd.Opcode.String(), "keyLen", len(cmd.Key))

	resp := wire.Dispatch(s.engine, cmd)

	encoded, err := resp.Encode()
	if err != nil {
		s.log.Errorw("failed to encode response frame", "remote", remote, "error", err)
		return
	}

	if _, err := conn.Write(encoded); err != nil {
		s.log.Warnw("failed to write response frame", "remote", remote, "error", err)
		return
	}

	s.log.Infow("handled command", "remote", remote, "opcode", cmd.Opcode.String(), "status", resp.Status.String())
}
