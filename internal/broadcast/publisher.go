package broadcast

import (
	"log"
	"net"
	"strings"
	"sync"
)

// sendBuffer is the per-subscriber queue depth. A subscriber that falls more
// than this far behind starts losing messages, never blocking the publisher
// or its peers.
const sendBuffer = 64

type message struct {
	topic   string
	payload []byte
}

// subscription is the publisher-side state for one connected subscriber.
type subscription struct {
	topics map[string]bool
	send   chan message
}

// Publisher is the fan-out side of the topic-filtered broadcast channel.
// It accepts subscriber connections, records each one's topic set, and
// delivers every published message to all matching subscribers.
//
// Delivery is fire-and-forget: there are no acks, no retries, and no
// persistence. A subscriber that cannot keep up has messages dropped; a
// subscriber that disconnects is forgotten. This matches the scatter
// topology's needs: the coordinator's barrier, not the transport, accounts
// for who actually responded.
type Publisher struct {
	ln     net.Listener
	mu     sync.Mutex
	subs   map[net.Conn]*subscription
	closed bool
}

// NewPublisher binds the broadcast endpoint and starts accepting
// subscribers. Use ":0" in tests and read the actual address back
// with Addr.
func NewPublisher(addr string) (*Publisher, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	p := &Publisher{
		ln:   ln,
		subs: make(map[net.Conn]*subscription),
	}
	go p.acceptLoop()
	return p, nil
}

// Addr returns the bound listen address.
func (p *Publisher) Addr() string {
	return p.ln.Addr().String()
}

func (p *Publisher) acceptLoop() {
	for {
		conn, err := p.ln.Accept()
		if err != nil {
			// Listener closed during shutdown.
			return
		}
		go p.handleConn(conn)
	}
}

// handleConn performs the subscribe handshake, registers the subscriber, and
// runs its writer loop until the connection dies or the publisher closes.
func (p *Publisher) handleConn(conn net.Conn) {
	// First frame from the subscriber is its topic list, one per line.
	raw, err := readFrame(conn)
	if err != nil {
		conn.Close()
		return
	}
	topics := make(map[string]bool)
	for _, topic := range strings.Split(string(raw), "\n") {
		if topic != "" {
			topics[topic] = true
		}
	}

	sub := &subscription{
		topics: topics,
		send:   make(chan message, sendBuffer),
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		conn.Close()
		return
	}
	p.subs[conn] = sub
	p.mu.Unlock()

	for msg := range sub.send {
		if err := writeFrame(conn, []byte(msg.topic)); err != nil {
			break
		}
		if err := writeFrame(conn, msg.payload); err != nil {
			break
		}
	}

	p.mu.Lock()
	delete(p.subs, conn)
	p.mu.Unlock()
	conn.Close()
}

// Publish delivers payload to every subscriber of topic. Never blocks:
// subscribers with a full queue miss this message.
func (p *Publisher) Publish(topic string, payload []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	for _, sub := range p.subs {
		if !sub.topics[topic] {
			continue
		}
		select {
		case sub.send <- message{topic: topic, payload: payload}:
		default:
			log.Printf("broadcast: dropping %s message for slow subscriber", topic)
		}
	}
}

// SubscriberCount returns the number of registered subscribers.
func (p *Publisher) SubscriberCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Close stops accepting subscribers and disconnects the existing ones.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	for _, sub := range p.subs {
		close(sub.send)
	}
	p.mu.Unlock()
	return p.ln.Close()
}
