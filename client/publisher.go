package client

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"time"

	"github.com/grambus/grambus/wire"
)

// Publisher sends publish records to one broker. It is one-shot by design:
// the typical call sequence is NewPublisher, Publish, Close.
type Publisher struct {
	conn *net.UDPConn
}

// NewPublisher opens a socket towards the broker endpoint.
func NewPublisher(broker netip.AddrPort) (*Publisher, error) {
	conn, err := net.DialUDP("udp", nil, net.UDPAddrFromAddrPort(broker))
	if err != nil {
		return nil, fmt.Errorf("client: dial broker %s: %w", broker, err)
	}
	return &Publisher{conn: conn}, nil
}

// Publish validates the topic and message and sends a single PUB datagram.
// Delivery is fire-and-forget; a nil return means the datagram left this
// host, not that any subscriber received it.
func (p *Publisher) Publish(topic, message string) error {
	if err := wire.ValidateTopic(topic, wire.Publish); err != nil {
		return err
	}
	if err := wire.ValidateMessage(message); err != nil {
		return err
	}
	if _, err := p.conn.Write(wire.PublishRecord(topic, message)); err != nil {
		return fmt.Errorf("client: publish to %s: %w", topic, err)
	}
	return nil
}

// PublishEvery publishes the current Unix timestamp to the topic on every
// tick until the context is cancelled. The first publish happens
// immediately.
func (p *Publisher) PublishEvery(ctx context.Context, topic string, interval time.Duration) error {
	if err := p.Publish(topic, strconv.FormatInt(time.Now().Unix(), 10)); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if err := p.Publish(topic, strconv.FormatInt(now.Unix(), 10)); err != nil {
				return err
			}
		}
	}
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
