// Package ipc carries control commands from newsvox-ctl to the daemon over
// a unix socket, one JSON request and one JSON response per connection.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"
)

const SocketPath = "/tmp/newsvox.sock"

type ControlMessage struct {
	Cmd  string   `json:"cmd"`
	Args []string `json:"args,omitempty"`
}

type Response struct {
	OK    bool            `json:"ok"`
	Error string          `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Handler serves one control message.
type Handler func(ctx context.Context, msg ControlMessage) Response

type Server struct {
	path    string
	handler Handler
	log     *slog.Logger
	ln      net.Listener
}

func NewServer(path string, handler Handler, log *slog.Logger) *Server {
	if path == "" {
		path = SocketPath
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{path: path, handler: handler, log: log}
}

// Listen binds the socket, replacing a stale one left by a previous run.
func (s *Server) Listen() error {
	_ = os.Remove(s.path)

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.ln = ln
	return nil
}

// Serve accepts connections until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		return errors.New("ipc: Serve before Listen")
	}

	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()
	defer os.Remove(s.path)

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.log.Warn("Accept failed", "err", err)
			continue
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(10 * time.Second))

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		s.log.Warn("Bad control message", "err", err)
		_ = json.NewEncoder(conn).Encode(Response{Error: "malformed request"})
		return
	}

	s.log.Debug("Control message", "cmd", msg.Cmd, "args", msg.Args)

	resp := s.handler(ctx, msg)
	if err := json.NewEncoder(conn).Encode(resp); err != nil {
		s.log.Warn("Failed to reply", "err", err)
	}
}

// Send delivers msg to the daemon at path and waits for its answer.
func Send(ctx context.Context, path string, msg ControlMessage) (Response, error) {
	if path == "" {
		path = SocketPath
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", path)
	if err != nil {
		return Response{}, fmt.Errorf("dial %s: %w", path, err)
	}
	defer conn.Close()

	if dl, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(dl)
	}

	if err := json.NewEncoder(conn).Encode(msg); err != nil {
		return Response{}, fmt.Errorf("send: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return Response{}, fmt.Errorf("read reply: %w", err)
	}
	return resp, nil
}
