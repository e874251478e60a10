package broadcast

import (
	"net"
	"strings"
)

// Message is one delivery received by a subscriber.
type Message struct {
	Topic   string
	Payload []byte
}

// Subscriber is the receiving side of the broadcast channel. Deliveries
// arrive on the Messages channel in publish order; the channel closes when
// the connection drops or Close is called.
type Subscriber struct {
	conn net.Conn
	msgs chan Message
}

// Subscribe connects to a publisher and registers interest in the given
// topics. Messages on other topics are filtered out publisher-side and never
// cross the wire.
func Subscribe(addr string, topics ...string) (*Subscriber, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	if err := writeFrame(conn, []byte(strings.Join(topics, "\n"))); err != nil {
		conn.Close()
		return nil, err
	}

	s := &Subscriber{
		conn: conn,
		msgs: make(chan Message, sendBuffer),
	}
	go s.readLoop()
	return s, nil
}

func (s *Subscriber) readLoop() {
	defer close(s.msgs)
	for {
		topic, err := readFrame(s.conn)
		if err != nil {
			return
		}
		payload, err := readFrame(s.conn)
		if err != nil {
			return
		}
		s.msgs <- Message{Topic: string(topic), Payload: payload}
	}
}

// Messages returns the delivery channel. It closes on disconnect.
func (s *Subscriber) Messages() <-chan Message {
	return s.msgs
}

// Close disconnects from the publisher. The Messages channel closes shortly
// after.
func (s *Subscriber) Close() error {
	return s.conn.Close()
}
