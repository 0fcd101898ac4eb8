package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"

	"github.com/grambus/grambus/wire"
)

// Subscriber registers for one topic at a broker and receives the forwarded
// message bodies on the same socket the SUB record was sent from.
type Subscriber struct {
	conn  *net.UDPConn
	topic string
}

// NewSubscriber opens a socket towards the broker endpoint.
func NewSubscriber(broker netip.AddrPort) (*Subscriber, error) {
	conn, err := net.DialUDP("udp", nil, net.UDPAddrFromAddrPort(broker))
	if err != nil {
		return nil, fmt.Errorf("client: dial broker %s: %w", broker, err)
	}
	return &Subscriber{conn: conn}, nil
}

// Subscribe validates the topic and sends a single SUB datagram. The topic
// may be the wildcard "#" to receive every message the broker forwards.
func (s *Subscriber) Subscribe(topic string) error {
	if err := wire.ValidateTopic(topic, wire.Subscribe); err != nil {
		return err
	}
	if _, err := s.conn.Write(wire.SubscribeRecord(topic)); err != nil {
		return fmt.Errorf("client: subscribe to %s: %w", topic, err)
	}
	s.topic = topic
	return nil
}

// Unsubscribe sends a single UNSUB datagram for the previously subscribed
// topic. Calling it without a prior Subscribe is an error.
func (s *Subscriber) Unsubscribe() error {
	if s.topic == "" {
		return errors.New("client: not subscribed")
	}
	if _, err := s.conn.Write(wire.UnsubscribeRecord(s.topic)); err != nil {
		return fmt.Errorf("client: unsubscribe from %s: %w", s.topic, err)
	}
	return nil
}

// Listen receives forwarded message bodies and hands each to handle, until
// the context is cancelled. On cancellation it best-effort unsubscribes
// before returning, so the broker can release the subscription slot.
func (s *Subscriber) Listen(ctx context.Context, handle func(message string)) error {
	// The unsubscribe has to go out before the socket closes; closing is
	// what unblocks the pending read below.
	stop := context.AfterFunc(ctx, func() {
		s.Unsubscribe()
		s.conn.Close()
	})
	defer stop()

	buf := make([]byte, wire.MaxDatagram+1)
	for {
		n, err := s.conn.Read(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("client: receive: %w", err)
		}
		handle(string(buf[:n]))
	}
}

func (s *Subscriber) Close() error {
	return s.conn.Close()
}
