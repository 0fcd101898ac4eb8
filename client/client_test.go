package client

import (
	"context"
	"net"
	"net/netip"
	"regexp"
	"testing"
	"time"

	"github.com/grambus/grambus/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBroker is a loopback UDP socket standing in for the broker process.
func stubBroker(t *testing.T) (*net.UDPConn, netip.AddrPort) {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	return conn, conn.LocalAddr().(*net.UDPAddr).AddrPort()
}

func readRecord(t *testing.T, conn *net.UDPConn) (string, netip.AddrPort) {
	t.Helper()
	buf := make([]byte, wire.MaxDatagram+1)
	n, from, err := conn.ReadFromUDPAddrPort(buf)
	require.NoError(t, err)
	return string(buf[:n]), from
}

func TestPublisher(t *testing.T) {
	t.Run("sends a publish record", func(t *testing.T) {
		broker, addr := stubBroker(t)
		pub, err := NewPublisher(addr)
		require.NoError(t, err)
		defer pub.Close()

		require.NoError(t, pub.Publish("weather", "72F"))
		record, _ := readRecord(t, broker)
		assert.Equal(t, "PUB!weather!72F", record)
	})

	t.Run("rejects invalid topic before sending", func(t *testing.T) {
		_, addr := stubBroker(t)
		pub, err := NewPublisher(addr)
		require.NoError(t, err)
		defer pub.Close()

		require.ErrorIs(t, pub.Publish("#", "72F"), wire.ErrInvalidTopic)
		require.ErrorIs(t, pub.Publish("wea!ther", "72F"), wire.ErrInvalidTopic)
	})

	t.Run("rejects message containing the delimiter", func(t *testing.T) {
		_, addr := stubBroker(t)
		pub, err := NewPublisher(addr)
		require.NoError(t, err)
		defer pub.Close()

		require.ErrorIs(t, pub.Publish("weather", "72!F"), wire.ErrInvalidMessage)
	})

	t.Run("periodic mode publishes timestamps until cancelled", func(t *testing.T) {
		broker, addr := stubBroker(t)
		pub, err := NewPublisher(addr)
		require.NoError(t, err)
		defer pub.Close()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- pub.PublishEvery(ctx, "clock", 10*time.Millisecond) }()

		timestamp := regexp.MustCompile(`^PUB!clock!\d+$`)
		for range 2 {
			record, _ := readRecord(t, broker)
			assert.Regexp(t, timestamp, record)
		}
		cancel()
		require.NoError(t, <-done)
	})
}

func TestSubscriber(t *testing.T) {
	t.Run("sends a subscribe record", func(t *testing.T) {
		broker, addr := stubBroker(t)
		sub, err := NewSubscriber(addr)
		require.NoError(t, err)
		defer sub.Close()

		require.NoError(t, sub.Subscribe("weather"))
		record, _ := readRecord(t, broker)
		assert.Equal(t, "SUB!weather", record)
	})

	t.Run("accepts the wildcard topic", func(t *testing.T) {
		broker, addr := stubBroker(t)
		sub, err := NewSubscriber(addr)
		require.NoError(t, err)
		defer sub.Close()

		require.NoError(t, sub.Subscribe(wire.Wildcard))
		record, _ := readRecord(t, broker)
		assert.Equal(t, "SUB!#", record)
	})

	t.Run("rejects a partial wildcard topic", func(t *testing.T) {
		_, addr := stubBroker(t)
		sub, err := NewSubscriber(addr)
		require.NoError(t, err)
		defer sub.Close()

		require.ErrorIs(t, sub.Subscribe("wea#ther"), wire.ErrInvalidTopic)
	})

	t.Run("unsubscribe before subscribe is an error", func(t *testing.T) {
		_, addr := stubBroker(t)
		sub, err := NewSubscriber(addr)
		require.NoError(t, err)
		defer sub.Close()

		require.Error(t, sub.Unsubscribe())
	})

	t.Run("listen delivers bodies and unsubscribes on cancel", func(t *testing.T) {
		broker, addr := stubBroker(t)
		sub, err := NewSubscriber(addr)
		require.NoError(t, err)

		require.NoError(t, sub.Subscribe("weather"))
		record, subscriberAddr := readRecord(t, broker)
		require.Equal(t, "SUB!weather", record)

		received := make(chan string, 1)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- sub.Listen(ctx, func(message string) { received <- message })
		}()

		_, err = broker.WriteToUDPAddrPort([]byte("72F"), subscriberAddr)
		require.NoError(t, err)
		assert.Equal(t, "72F", <-received)

		cancel()
		require.NoError(t, <-done)
		record, _ = readRecord(t, broker)
		assert.Equal(t, "UNSUB!weather", record)
	})
}
