// Package server implements patchd, the live-patching daemon.
//
// A patchd process holds one class universe and one modifier engine.
// Clients drive the five verbs and unpatch over JSON-RPC; all patch
// state is in-process and dies with the server, matching the
// session-scoped model of the engine itself.
package server

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/signadot/classmod/class"
	"github.com/signadot/classmod/modify"
)

// Spec configures a Server.
type Spec struct {
	// Universe is the class universe served. Defaults to an empty
	// universe with no loader.
	Universe *class.Universe

	// Patcher is the modifier engine. Defaults to a fresh engine over
	// Universe.
	Patcher *modify.Patcher

	Log *slog.Logger
}

// Server represents the patchd server.
type Server struct {
	Spec Spec

	tcpListener *TCPListener
}

// New creates a new Server instance.
func New(spec *Spec) *Server {
	if spec.Log == nil {
		spec.Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slogLevel(),
		}))
	}
	if spec.Universe == nil {
		spec.Universe = class.NewUniverse(nil)
	}
	if spec.Patcher == nil {
		spec.Patcher = modify.New(spec.Universe, modify.WithLogger(spec.Log))
	}
	return &Server{Spec: *spec}
}

func slogLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// StartTCP starts the TCP listener on the given address.
// The listener runs in a separate goroutine.
func (s *Server) StartTCP(addr string) error {
	if s.tcpListener != nil {
		return fmt.Errorf("TCP listener already running")
	}
	listener, err := NewTCPListener(addr, s)
	if err != nil {
		return err
	}
	s.tcpListener = listener
	go func() {
		if err := listener.Serve(); err != nil {
			s.Spec.Log.Error("TCP listener error", "error", err)
		}
	}()
	return nil
}

// StopTCP stops the TCP listener.
func (s *Server) StopTCP() error {
	if s.tcpListener == nil {
		return nil
	}
	err := s.tcpListener.Close()
	s.tcpListener = nil
	return err
}

// TCPAddr returns the TCP listener's address, or "" if not running.
func (s *Server) TCPAddr() string {
	if s.tcpListener == nil {
		return ""
	}
	return s.tcpListener.Addr().String()
}
