package broker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/fogfish/opts"
	"github.com/grambus/grambus/internal/registry"
	"github.com/grambus/grambus/pkg/slogx"
	"github.com/grambus/grambus/wire"
)

// Server owns the broker's receive loop. It reads one datagram at a time and
// hands it to the dispatcher, so every request is handled to completion
// before the next is accepted.
type Server struct {
	port        uint16
	topics      int
	subscribers int
	transport   Transport
	log         *slog.Logger
}

var (
	// Port sets the UDP port the broker listens on.
	Port = opts.ForName[Server, uint16]("port")

	// Topics sets the number of topic slots in the registry.
	Topics = opts.ForName[Server, int]("topics")

	// Subscribers sets the number of subscriber slots per topic.
	Subscribers = opts.ForName[Server, int]("subscribers")

	// WithTransport injects a Transport, bypassing the UDP socket. The
	// configured port is ignored when set.
	WithTransport = opts.ForName[Server, Transport]("transport")

	// Logger sets the sink for broker event logging.
	Logger = opts.ForName[Server, *slog.Logger]("log")
)

// New creates a broker server. Without options it listens on the well-known
// port with the default registry capacities.
func New(options ...opts.Option[Server]) (*Server, error) {
	srv := &Server{
		port:        wire.DefaultPort,
		topics:      registry.DefaultTopics,
		subscribers: registry.DefaultSubscribers,
		log:         slog.Default(),
	}
	if err := opts.Apply(srv, options); err != nil {
		return nil, err
	}
	return srv, nil
}

// Run binds the socket and serves requests until the context is cancelled.
// It is fatal only when the socket cannot be bound; every per-request
// failure is logged and the loop continues.
func (s *Server) Run(ctx context.Context) error {
	transport := s.transport
	if transport == nil {
		t, err := ListenUDP(s.port)
		if err != nil {
			return fmt.Errorf("broker: bind port %d: %w", s.port, err)
		}
		transport = t
	}
	defer transport.Close()

	// Closing the transport is what unblocks a pending Receive.
	stop := context.AfterFunc(ctx, func() { transport.Close() })
	defer stop()

	dispatcher := NewDispatcher(registry.New(wire.Wildcard, s.topics, s.subscribers), transport, s.log)
	s.log.Info("broker listening", slog.Int("port", int(s.port)))

	for {
		payload, from, err := transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				s.log.Info("broker shutting down")
				return nil
			}
			s.log.Error("failed to receive datagram", slogx.Error(err))
			continue
		}
		dispatcher.Dispatch(from, payload)
	}
}
