// Package client implements the thin publisher and subscriber sides of the
// grambus protocol. Both validate locally with the same rules the broker
// applies, so an operator learns about a bad topic or message before any
// datagram leaves the machine.
package client
