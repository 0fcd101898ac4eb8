// Package broker implements the grambus message broker: a UDP listener that
// maintains an in-memory topic registry and forwards published messages to
// every endpoint currently subscribed to the message's topic or to the
// wildcard topic.
//
// The broker holds no message state. Forwarding is at-most-once and
// best-effort: a failed send to one subscriber is logged and does not affect
// delivery to the others. Requests are handled one at a time, each to
// completion, and no input can terminate the process; only a failure to bind
// the listening socket is fatal.
//
// Design decisions:
//   - Registry access is serialized behind a single mutex in the Dispatcher,
//     so the fixed-slot table stays consistent even if a Transport ever
//     delivers concurrently.
//   - The Transport is an interface so tests (and embedders) can run the
//     dispatch logic without a real socket.
//   - An endpoint subscribed to both a topic and the wildcard receives each
//     publish on that topic twice; the two fan-out passes are independent.
package broker
