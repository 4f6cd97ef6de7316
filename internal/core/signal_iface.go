package core

// Frame is one encoded message for a single browser session.
type Frame []byte

// SignalConnection abstracts the per-session event transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
