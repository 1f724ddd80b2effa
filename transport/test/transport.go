// Package test provides a scriptable transport double for session tests.
package test

import (
	"net"

	"github.com/tlming16/fizz/transport"
)

// Write records one WriteChain call.
type Write struct {
	Data     []byte
	Flags    transport.WriteFlags
	Callback transport.WriteCallback
}

// Transport records every call made by the session layer and lets tests
// drive the event side by hand. It is not safe for concurrent use, matching
// the single execution context the session layer assumes.
type Transport struct {
	good       bool
	readable   bool
	connecting bool
	failed     bool

	events  transport.Events
	connect transport.ConnectEvents

	// AutoAck completes write callbacks synchronously with success.
	AutoAck bool
	// ConnectErr, when set, makes Connect fail immediately.
	ConnectErr error

	ReadsStarted int
	Writes       []Write
	Closes       []string

	ConnectedTo net.Addr
	ConnectOpts transport.ConnectOptions
}

var _ transport.Transport = (*Transport)(nil)

// New returns an established, readable transport.
func New() *Transport {
	return &Transport{good: true, readable: true}
}

// NewUnconnected returns a transport that still needs Connect.
func NewUnconnected() *Transport {
	return &Transport{}
}

func (t *Transport) Good() bool       { return t.good && !t.failed }
func (t *Transport) Readable() bool   { return t.readable && t.good }
func (t *Transport) Connecting() bool { return t.connecting }
func (t *Transport) Error() bool      { return t.failed }

func (t *Transport) StartReads(events transport.Events) {
	t.ReadsStarted++
	t.events = events
}

func (t *Transport) WriteChain(cb transport.WriteCallback, data []byte, flags transport.WriteFlags) {
	t.Writes = append(t.Writes, Write{Data: data, Flags: flags, Callback: cb})
	if t.AutoAck && cb != nil {
		cb.WriteSuccess()
	}
}

func (t *Transport) Connect(events transport.ConnectEvents, addr net.Addr, opts transport.ConnectOptions) error {
	if t.ConnectErr != nil {
		return t.ConnectErr
	}

	t.connecting = true
	t.connect = events
	t.ConnectedTo = addr
	t.ConnectOpts = opts
	return nil
}

func (t *Transport) Close()          { t.record("close") }
func (t *Transport) CloseWithReset() { t.record("reset") }
func (t *Transport) CloseNow()       { t.record("now") }

func (t *Transport) record(kind string) {
	t.Closes = append(t.Closes, kind)
	t.good = false
	t.readable = false
	t.connecting = false
}

// MarkBroken flips the transport into its error state without an event.
func (t *Transport) MarkBroken() { t.failed = true }

// DeliverData hands bytes to the installed event sink.
func (t *Transport) DeliverData(data []byte) { t.events.TransportData(data) }

// Fail reports a transport failure to the installed event sink.
func (t *Transport) Fail(err error) {
	t.failed = true
	t.events.TransportError(err)
}

// FinishConnect completes a pending Connect successfully.
func (t *Transport) FinishConnect() {
	t.connecting = false
	t.good = true
	t.readable = true
	t.connect.ConnectSuccess()
}

// FailConnect completes a pending Connect with an error.
func (t *Transport) FailConnect(err error) {
	t.connecting = false
	t.connect.ConnectError(err)
}
