// Package netx resolves broker addresses for the client programs.
package netx

import (
	"context"
	"fmt"
	"net"
	"net/netip"
)

// Resolve looks up the broker host name (or literal IP address) and combines
// the first resolved address with the given port. IPv4 addresses are
// preferred so the clients interoperate with a dual-stack broker socket.
func Resolve(ctx context.Context, host string, port uint16) (netip.AddrPort, error) {
	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return netip.AddrPort{}, fmt.Errorf("netx: resolve %q: %w", host, err)
	}
	if len(addrs) == 0 {
		return netip.AddrPort{}, fmt.Errorf("netx: resolve %q: no addresses", host)
	}

	addr := addrs[0]
	for _, a := range addrs {
		if a.Unmap().Is4() {
			addr = a
			break
		}
	}
	return netip.AddrPortFrom(addr.Unmap(), port), nil
}
