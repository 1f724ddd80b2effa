// Package transport defines the asynchronous byte-stream contract consumed by
// the TLS session layer. Implementations deliver connect results, arriving
// bytes and failures through callback interfaces instead of blocking reads.
package transport

import (
	"errors"
	"net"
	"time"
)

var (
	ErrConnClosed = errors.New("connection is closed")
	ErrNotOpen    = errors.New("connection is not open")
)

// WriteFlags modify how the transport handles a write.
type WriteFlags uint16

const (
	WriteFlagNone WriteFlags = 0
	// WriteFlagCork hints that more writes follow shortly.
	WriteFlagCork WriteFlags = 1 << (iota - 1)
	// WriteFlagEOR marks the end of an application record.
	WriteFlagEOR
)

// WriteCallback observes the completion of one asynchronous write.
// Exactly one of the two methods is invoked, exactly once.
type WriteCallback interface {
	WriteSuccess()
	WriteError(bytesWritten int, err error)
}

// Events receives data and failure notifications for an established
// connection. Handlers are invoked on the transport's execution context.
type Events interface {
	TransportData(data []byte)
	TransportError(err error)
}

// ConnectEvents receives the outcome of an asynchronous Connect.
type ConnectEvents interface {
	ConnectSuccess()
	ConnectError(err error)
}

// ConnectOptions carries the knobs for an asynchronous connect.
type ConnectOptions struct {
	Timeout  time.Duration
	BindAddr net.Addr
	// SocketOptions are passed through to the underlying socket.
	SocketOptions map[string]int
}

// Transport is an asynchronous byte stream.
//
// Writes never block: completion is reported through the WriteCallback.
// Bytes arrive via the Events sink installed with StartReads. All three
// close variants are idempotent.
type Transport interface {
	Good() bool
	Readable() bool
	Connecting() bool
	Error() bool

	// StartReads installs read interest and the event sink. Calling it
	// again while reads are active is harmless.
	StartReads(events Events)

	WriteChain(cb WriteCallback, data []byte, flags WriteFlags)

	// Connect starts an asynchronous connect. The outcome is delivered to
	// events. A non-nil return means the connect could not even be
	// attempted (e.g. the transport has no dialing capability).
	Connect(events ConnectEvents, addr net.Addr, opts ConnectOptions) error

	Close()
	CloseWithReset()
	CloseNow()
}
