package broker

import (
	"context"
	"net"
	"net/netip"

	"github.com/grambus/grambus/wire"
)

// Transport moves datagrams between the broker and its clients. Receive
// blocks until a datagram arrives or the transport is closed; Send is a
// single fire-and-forget datagram write.
type Transport interface {
	Receive(ctx context.Context) (payload []byte, from netip.AddrPort, err error)
	Send(payload []byte, to netip.AddrPort) error
	Close() error
}

// UDPTransport is the production Transport, backed by a single UDP socket
// that serves both the inbound request stream and outbound forwards.
type UDPTransport struct {
	conn *net.UDPConn
}

// ListenUDP binds the broker socket on the given port on all interfaces.
func ListenUDP(port uint16) (*UDPTransport, error) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: int(port)})
	if err != nil {
		return nil, err
	}
	return &UDPTransport{conn: conn}, nil
}

// Receive reads the next datagram, truncated to the protocol's maximum size.
// A read error after the context is cancelled reports the cancellation.
func (t *UDPTransport) Receive(ctx context.Context) ([]byte, netip.AddrPort, error) {
	buf := make([]byte, wire.MaxDatagram+1)
	n, from, err := t.conn.ReadFromUDPAddrPort(buf)
	if err != nil {
		if ctx.Err() != nil {
			return nil, netip.AddrPort{}, ctx.Err()
		}
		return nil, netip.AddrPort{}, err
	}
	// Unmap so IPv4 senders compare equal across requests regardless of the
	// socket's dual-stack mapping.
	return buf[:n], netip.AddrPortFrom(from.Addr().Unmap(), from.Port()), nil
}

func (t *UDPTransport) Send(payload []byte, to netip.AddrPort) error {
	_, err := t.conn.WriteToUDPAddrPort(payload, to)
	return err
}

func (t *UDPTransport) Close() error {
	return t.conn.Close()
}
