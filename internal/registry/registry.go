// Package registry holds the broker's only mutable state: a fixed-capacity
// table mapping topic names to subscriber endpoints. Slots are claimed by
// subscribes and released when the last subscriber leaves, except for the
// wildcard topic which is pinned to slot 0 for the life of the registry.
//
// Capacities are small and fixed, so every operation is a linear scan. The
// registry is not internally synchronized; callers serialize access.
package registry

import (
	"errors"
	"net/netip"
)

const (
	// DefaultTopics is the default number of topic slots.
	DefaultTopics = 10

	// DefaultSubscribers is the default number of subscriber slots per topic.
	DefaultSubscribers = 10

	wildcardSlot = 0
)

var (
	// ErrRegistryFull reports that no free topic slot remains for a new topic.
	ErrRegistryFull = errors.New("registry: no free topic slots")

	// ErrSubscribersFull reports that a topic's subscriber slots are exhausted.
	ErrSubscribersFull = errors.New("registry: no free subscriber slots")
)

// Entry is one topic slot. An entry with an empty name is free. A subscriber
// slot holding the zero netip.AddrPort is free.
type Entry struct {
	name        string
	subscribers []netip.AddrPort
}

// Name returns the topic this entry currently holds, or "" for a free slot.
func (e *Entry) Name() string { return e.name }

// Subscribers returns a copy of the currently occupied subscriber slots.
func (e *Entry) Subscribers() []netip.AddrPort {
	subs := make([]netip.AddrPort, 0, len(e.subscribers))
	for _, ep := range e.subscribers {
		if ep.IsValid() {
			subs = append(subs, ep)
		}
	}
	return subs
}

func (e *Entry) empty() bool {
	for _, ep := range e.subscribers {
		if ep.IsValid() {
			return false
		}
	}
	return true
}

// Registry is the topic table. Construct with New.
type Registry struct {
	entries []Entry
}

// New creates a registry with the given capacities and claims slot 0 for the
// wildcard topic so wildcard publishes and subscribes never miss.
func New(wildcard string, topics, subscribers int) *Registry {
	if topics <= 0 {
		topics = DefaultTopics
	}
	if subscribers <= 0 {
		subscribers = DefaultSubscribers
	}
	r := &Registry{entries: make([]Entry, topics)}
	for i := range r.entries {
		r.entries[i].subscribers = make([]netip.AddrPort, subscribers)
	}
	r.entries[wildcardSlot].name = wildcard
	return r
}

// Find scans for the entry holding topic. It has no side effects; a miss
// means the topic currently has no subscribers.
func (r *Registry) Find(topic string) (*Entry, bool) {
	for i := range r.entries {
		if r.entries[i].name == topic {
			return &r.entries[i], true
		}
	}
	return nil, false
}

// FindOrInsert returns the entry for topic, claiming the first free slot when
// the topic is new. It fails with ErrRegistryFull when every slot is taken.
func (r *Registry) FindOrInsert(topic string) (*Entry, error) {
	if entry, ok := r.Find(topic); ok {
		return entry, nil
	}
	for i := range r.entries {
		if r.entries[i].name == "" {
			r.entries[i].name = topic
			return &r.entries[i], nil
		}
	}
	return nil, ErrRegistryFull
}

// AddSubscriber stores endpoint in a free subscriber slot of entry. Adding an
// endpoint that is already present is an idempotent no-op reported by the
// false return. It fails with ErrSubscribersFull when the topic has no free
// subscriber slot.
func (r *Registry) AddSubscriber(entry *Entry, endpoint netip.AddrPort) (bool, error) {
	for _, ep := range entry.subscribers {
		if ep == endpoint {
			return false, nil
		}
	}
	for i, ep := range entry.subscribers {
		if !ep.IsValid() {
			entry.subscribers[i] = endpoint
			return true, nil
		}
	}
	return false, ErrSubscribersFull
}

// RemoveSubscriber clears endpoint's slot in entry, reporting whether it was
// present. When the last subscriber leaves a non-wildcard topic the entry's
// slot is released for reuse.
func (r *Registry) RemoveSubscriber(entry *Entry, endpoint netip.AddrPort) bool {
	removed := false
	for i, ep := range entry.subscribers {
		if ep == endpoint {
			entry.subscribers[i] = netip.AddrPort{}
			removed = true
			break
		}
	}
	if removed {
		r.evictIfEmpty(entry)
	}
	return removed
}

// evictIfEmpty frees a topic slot once nothing subscribes to it. The wildcard
// slot is never released.
func (r *Registry) evictIfEmpty(entry *Entry) {
	if entry == &r.entries[wildcardSlot] {
		return
	}
	if entry.empty() {
		entry.name = ""
	}
}
