package wire

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Delim separates the method token and the fields of a request record.
	// It is reserved: topics and message bodies may not contain it.
	Delim = '!'

	// Wildcard is the reserved topic name whose subscribers receive every
	// published message.
	Wildcard = "#"

	// WildcardChar is the character reserved for the wildcard topic. A topic
	// may only contain it by being exactly the Wildcard topic itself, and
	// only for subscribe/unsubscribe requests.
	WildcardChar = '#'

	// MaxTopicLen is the maximum number of bytes in a topic name.
	MaxTopicLen = 19

	// MaxDatagram is the maximum number of content bytes in a single
	// request or forwarded message.
	MaxDatagram = 511

	// DefaultPort is the well-known broker port.
	DefaultPort = 8080
)

// Method identifies the operation a request asks the broker to perform.
type Method string

const (
	Publish     Method = "PUB"
	Subscribe   Method = "SUB"
	Unsubscribe Method = "UNSUB"
)

var (
	// ErrMalformedRequest reports a datagram whose method token is not one
	// of PUB, SUB or UNSUB, or whose record is missing required fields.
	ErrMalformedRequest = errors.New("wire: malformed request")

	// ErrInvalidTopic reports a topic that is empty, too long, contains the
	// delimiter, or misuses the wildcard character.
	ErrInvalidTopic = errors.New("wire: invalid topic")

	// ErrInvalidMessage reports a message body containing the delimiter.
	ErrInvalidMessage = errors.New("wire: invalid message")
)

// Request is one parsed inbound record. Message is only set for Publish.
type Request struct {
	Method  Method
	Topic   string
	Message string
}

// ParseRequest splits a raw datagram into its method and fields. It does not
// validate the topic or message contents; see Request.Validate.
func ParseRequest(payload []byte) (Request, error) {
	record := string(payload)

	method, rest, ok := strings.Cut(record, string(Delim))
	if !ok {
		return Request{}, fmt.Errorf("%w: no delimiter after method token", ErrMalformedRequest)
	}

	switch Method(method) {
	case Publish:
		// The topic runs to the next delimiter, the remainder is the
		// message body verbatim.
		topic, message, ok := strings.Cut(rest, string(Delim))
		if !ok {
			return Request{}, fmt.Errorf("%w: publish record has no message field", ErrMalformedRequest)
		}
		return Request{Method: Publish, Topic: topic, Message: message}, nil
	case Subscribe:
		return Request{Method: Subscribe, Topic: rest}, nil
	case Unsubscribe:
		return Request{Method: Unsubscribe, Topic: rest}, nil
	default:
		return Request{}, fmt.Errorf("%w: unknown method %q", ErrMalformedRequest, method)
	}
}

// Validate applies the topic rules for the request's method, and the message
// rules for publishes. The request's mutating or forwarding effect must not
// be applied when Validate fails.
func (r Request) Validate() error {
	if err := ValidateTopic(r.Topic, r.Method); err != nil {
		return err
	}
	if r.Method == Publish {
		return ValidateMessage(r.Message)
	}
	return nil
}

// ValidateTopic checks a topic name against the rules for the given method.
// The wildcard topic is only addressable by subscribe and unsubscribe
// requests, and only as the whole topic name.
func ValidateTopic(topic string, method Method) error {
	if topic == "" {
		return fmt.Errorf("%w: topic is empty", ErrInvalidTopic)
	}
	if len(topic) > MaxTopicLen {
		return fmt.Errorf("%w: topic %q exceeds %d bytes", ErrInvalidTopic, topic, MaxTopicLen)
	}
	if strings.ContainsRune(topic, Delim) {
		return fmt.Errorf("%w: topic %q contains delimiter %q", ErrInvalidTopic, topic, Delim)
	}
	if strings.ContainsRune(topic, WildcardChar) {
		if method == Publish {
			return fmt.Errorf("%w: topic %q contains wildcard %q", ErrInvalidTopic, topic, WildcardChar)
		}
		if topic != Wildcard {
			return fmt.Errorf("%w: wildcard %q must be the whole topic", ErrInvalidTopic, WildcardChar)
		}
	}
	return nil
}

// ValidateMessage checks a publish body. The delimiter is excluded for
// protocol symmetry with publishers, even though the broker never re-parses
// outbound bodies.
func ValidateMessage(message string) error {
	if strings.ContainsRune(message, Delim) {
		return fmt.Errorf("%w: message contains delimiter %q", ErrInvalidMessage, Delim)
	}
	return nil
}
