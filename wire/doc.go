// Package wire defines the text protocol spoken between grambus clients and
// the broker. A request is a single datagram holding one delimiter-separated
// record:
//
//	PUB!<topic>!<message>
//	SUB!<topic>
//	UNSUB!<topic>
//
// The delimiter '!' is reserved and may not appear inside topics or message
// bodies. The topic '#' is the wildcard: subscribers registered for it
// receive every published message regardless of topic, and publishers may
// never target it directly.
//
// Outbound datagrams from the broker to subscribers carry only the raw
// message body, with no method or topic framing.
package wire
