package broker

import (
	"log/slog"
	"net/netip"
	"sync"

	"github.com/grambus/grambus/internal/registry"
	"github.com/grambus/grambus/pkg/slogx"
	"github.com/grambus/grambus/pkg/uuidx"
	"github.com/grambus/grambus/wire"
)

// Dispatcher turns inbound datagrams into registry operations and outbound
// forwards. All registry access happens under its mutex, so requests are
// atomic from the outside no matter how the transport delivers them.
type Dispatcher struct {
	mu        sync.Mutex
	reg       *registry.Registry
	transport Transport
	log       *slog.Logger
}

// NewDispatcher creates a dispatcher over the given registry and transport.
// The logger is the sink for per-request events; nil falls back to
// slog.Default().
func NewDispatcher(reg *registry.Registry, transport Transport, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{reg: reg, transport: transport, log: log}
}

// Dispatch handles one inbound datagram to completion: parse, validate,
// execute, forward. It never fails the broker; malformed or invalid requests
// are logged and dropped.
func (d *Dispatcher) Dispatch(from netip.AddrPort, payload []byte) {
	log := d.log.With(slogx.RequestID(uuidx.NewString()), slogx.Endpoint("from", from))
	log.Debug("received request", slogx.ByteString("payload", payload))

	req, err := wire.ParseRequest(payload)
	if err != nil {
		log.Warn("dropping request", slogx.Error(err))
		return
	}
	log = log.With(slog.String("method", string(req.Method)), slogx.Topic(req.Topic))

	if err := req.Validate(); err != nil {
		log.Warn("rejecting request", slogx.Error(err))
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	switch req.Method {
	case wire.Publish:
		d.publish(log, req.Topic, req.Message)
	case wire.Subscribe:
		d.subscribe(log, req.Topic, from)
	case wire.Unsubscribe:
		d.unsubscribe(log, req.Topic, from)
	}
}

// publish fans the message out to the wildcard subscribers and then to the
// topic's own subscribers. The two passes are independent: an endpoint
// subscribed to both receives the message twice. A topic with no entry is
// not an error, the message simply has nowhere to go.
func (d *Dispatcher) publish(log *slog.Logger, topic, message string) {
	forwarded := 0
	if wild, ok := d.reg.Find(wire.Wildcard); ok {
		forwarded += d.forward(log, message, wild.Subscribers())
	}

	entry, ok := d.reg.Find(topic)
	if !ok {
		log.Info("topic has no subscribers, message discarded", slog.Int("forwards", forwarded))
		return
	}
	forwarded += d.forward(log, message, entry.Subscribers())
	log.Info("message forwarded", slog.Int("forwards", forwarded))
}

// forward sends the raw message body to each endpoint. Sends are independent:
// a transport failure for one subscriber is logged and the rest still get
// the message.
func (d *Dispatcher) forward(log *slog.Logger, message string, subscribers []netip.AddrPort) int {
	sent := 0
	for _, ep := range subscribers {
		if err := d.transport.Send([]byte(message), ep); err != nil {
			log.Error("failed to forward message", slogx.Endpoint("to", ep), slogx.Error(err))
			continue
		}
		sent++
	}
	return sent
}

func (d *Dispatcher) subscribe(log *slog.Logger, topic string, from netip.AddrPort) {
	entry, err := d.reg.FindOrInsert(topic)
	if err != nil {
		log.Warn("cannot register topic", slogx.Error(err))
		return
	}
	added, err := d.reg.AddSubscriber(entry, from)
	if err != nil {
		log.Warn("cannot register subscriber", slogx.Error(err))
		return
	}
	if !added {
		log.Info("subscriber already registered")
		return
	}
	log.Info("subscriber registered")
}

func (d *Dispatcher) unsubscribe(log *slog.Logger, topic string, from netip.AddrPort) {
	entry, ok := d.reg.Find(topic)
	if !ok {
		log.Info("unsubscribe for unknown topic ignored")
		return
	}
	if !d.reg.RemoveSubscriber(entry, from) {
		log.Info("endpoint was not subscribed")
		return
	}
	log.Info("subscriber removed")
}
