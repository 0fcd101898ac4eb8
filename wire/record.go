package wire

// PublishRecord assembles the datagram a publisher sends for one message.
func PublishRecord(topic, message string) []byte {
	record := make([]byte, 0, len(Publish)+len(topic)+len(message)+2)
	record = append(record, string(Publish)...)
	record = append(record, Delim)
	record = append(record, topic...)
	record = append(record, Delim)
	record = append(record, message...)
	return record
}

// SubscribeRecord assembles the datagram that registers the sender for a topic.
func SubscribeRecord(topic string) []byte {
	return methodRecord(Subscribe, topic)
}

// UnsubscribeRecord assembles the datagram that removes the sender from a topic.
func UnsubscribeRecord(topic string) []byte {
	return methodRecord(Unsubscribe, topic)
}

func methodRecord(method Method, topic string) []byte {
	record := make([]byte, 0, len(method)+len(topic)+1)
	record = append(record, string(method)...)
	record = append(record, Delim)
	record = append(record, topic...)
	return record
}
