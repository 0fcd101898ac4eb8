// Package slogx provides slog.Attr helpers for the attributes that recur
// throughout broker and client logging.
package slogx

import (
	"log/slog"
	"net/netip"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
func Error(err error) slog.Attr {
	return slog.String("error", err.Error())
}

// ByteString creates a slog.Attr with the given key and a string
// representation of the byte slice value. Useful for logging raw datagram
// payloads, which are text records on this protocol.
func ByteString(key string, value []byte) slog.Attr {
	return slog.String(key, string(value))
}

// Topic creates a slog.Attr with the key "topic" and the topic name.
func Topic(name string) slog.Attr {
	return slog.String("topic", name)
}

// Endpoint creates a slog.Attr with the given key and the string form of a
// subscriber or sender address.
func Endpoint(key string, ep netip.AddrPort) slog.Attr {
	return slog.String(key, ep.String())
}

// RequestID creates a slog.Attr with the key "request_id" for correlating the
// log records of one inbound datagram.
func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}
