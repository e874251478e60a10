// Package broadcast implements the one-directional publish/subscribe channel
// the inventory coordinator scatters task descriptors on, and the ordering
// boundary publishes analytics events on.
//
// # Model
//
//	┌───────────┐  PUB             SUB  ┌────────────┐
//	│ Publisher ├───── topic+payload ──►│ Subscriber │ (robot_bread)
//	│  (binds)  ├───── topic+payload ──►│ Subscriber │ (robot_dairy)
//	└───────────┘          ...          └────────────┘
//
// The publisher binds a TCP listener; subscribers dial in and announce their
// topic set in the first frame. Each published message is fanned out to every
// subscriber whose topic set matches. Filtering is by exact topic match on
// the publisher side, so uninterested subscribers never see the traffic.
//
// # Wire format
//
// Everything on the connection is length-prefixed frames (4-byte big-endian
// length, then payload). The subscribe handshake is one frame holding the
// topic list, newline-separated. A delivery is a pair of frames: topic, then
// payload. Payload bytes are opaque to the transport; task descriptors use
// the wire package's binary encoding, analytics events use JSON.
//
// # Guarantees (and non-guarantees)
//
// Delivery is at-most-once and fire-and-forget. A subscriber that is slow
// has messages dropped rather than backpressuring the publisher; one that
// disconnects is silently forgotten; there is no replay for late joiners.
// The coordinator's barrier counts actual responses, so lost deliveries
// degrade an order to a partial reply instead of corrupting anything.
package broadcast
