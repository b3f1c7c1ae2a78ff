package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"go.lsp.dev/jsonrpc2"
)

// TCPListener manages TCP connections speaking the patchd JSON-RPC
// protocol.
type TCPListener struct {
	listener net.Listener
	server   *Server

	// Session management
	sessions   map[string]jsonrpc2.Conn
	sessionsMu sync.Mutex
	sessionSeq atomic.Int64

	// Shutdown
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewTCPListener creates a new TCP listener.
func NewTCPListener(addr string, server *Server) (*TCPListener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return &TCPListener{
		listener: listener,
		server:   server,
		sessions: make(map[string]jsonrpc2.Conn),
	}, nil
}

// Addr returns the listener's network address.
func (l *TCPListener) Addr() net.Addr {
	return l.listener.Addr()
}

// Serve accepts connections and creates sessions.
// Blocks until Close is called or an error occurs.
func (l *TCPListener) Serve() error {
	l.server.Spec.Log.Info("TCP listener started", "addr", l.listener.Addr().String())

	for {
		conn, err := l.listener.Accept()
		if err != nil {
			if l.closed.Load() {
				return nil // Normal shutdown
			}
			l.server.Spec.Log.Error("accept error", "error", err)
			continue
		}
		l.wg.Add(1)
		go l.handleConnection(conn)
	}
}

// handleConnection runs a JSON-RPC session over the connection.
func (l *TCPListener) handleConnection(netConn net.Conn) {
	defer l.wg.Done()

	seq := l.sessionSeq.Add(1)
	sessionID := fmt.Sprintf("tcp-%d", seq)
	l.server.Spec.Log.Debug("new TCP connection", "session", sessionID, "remote", netConn.RemoteAddr().String())

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(netConn))

	l.sessionsMu.Lock()
	l.sessions[sessionID] = conn
	l.sessionsMu.Unlock()

	conn.Go(context.Background(), l.server.handler(sessionID))
	<-conn.Done()
	if err := conn.Err(); err != nil {
		l.server.Spec.Log.Debug("session ended", "session", sessionID, "error", err)
	}

	l.sessionsMu.Lock()
	delete(l.sessions, sessionID)
	l.sessionsMu.Unlock()
}

// Close stops accepting connections, closes live sessions, and waits
// for them to drain.
func (l *TCPListener) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	err := l.listener.Close()

	l.sessionsMu.Lock()
	for _, conn := range l.sessions {
		conn.Close()
	}
	l.sessionsMu.Unlock()

	l.wg.Wait()
	return err
}
