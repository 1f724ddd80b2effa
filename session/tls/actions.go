package tls

import (
	"fmt"

	"github.com/tlming16/fizz/transport"
)

// Action is one side effect requested by the engine. The set of variants is
// closed; the dispatcher matches exhaustively and panics on anything else.
//
// Actions within one engine invocation are executed strictly in order,
// synchronously, on the invoking execution context. Later actions may depend
// on the side effects of earlier ones (a MutateState followed by a
// ReportHandshakeSuccess that reads the mutated state).
type Action interface{ isAction() }

// DeliverAppData passes decrypted application bytes to the data consumer.
type DeliverAppData struct {
	Data []byte
}

// WriteToSocket forwards bytes to the transport's write path.
type WriteToSocket struct {
	Callback transport.WriteCallback
	Data     []byte
	Flags    transport.WriteFlags
}

// ReportEarlyHandshakeSuccess signals that 0-RTT data may be sent, with the
// server-granted byte budget. This is the early success signal, distinct
// from full handshake success.
type ReportEarlyHandshakeSuccess struct {
	MaxEarlyDataSize uint32
}

// ReportHandshakeSuccess signals full handshake completion and whether any
// early data sent was accepted.
type ReportHandshakeSuccess struct {
	EarlyDataAccepted bool
}

// ReportEarlyWriteFailed reports an early write the engine could not send
// because early data was already rejected.
type ReportEarlyWriteFailed struct {
	Write EarlyAppWrite
}

// ReportError reports a fatal protocol failure.
type ReportError struct {
	Err error
}

// WaitForData signals the engine has no more synchronous progress until new
// transport bytes arrive.
type WaitForData struct{}

// MutateState applies an engine-supplied transformation to the session's
// protocol-visible state.
type MutateState struct {
	Mutate func(*State)
}

// NewCachedPsk carries a fresh resumption secret to store under the connect
// attempt's PSK identity.
type NewCachedPsk struct {
	Psk CachedPsk
}

func (DeliverAppData) isAction()              {}
func (WriteToSocket) isAction()               {}
func (ReportEarlyHandshakeSuccess) isAction() {}
func (ReportHandshakeSuccess) isAction()      {}
func (ReportEarlyWriteFailed) isAction()      {}
func (ReportError) isAction()                 {}
func (WaitForData) isAction()                 {}
func (MutateState) isAction()                 {}
func (NewCachedPsk) isAction()                {}

// processActions executes one engine-produced action sequence. Dispatch may
// re-enter the client through application callbacks; handlers re-check
// mutable state after every callback instead of caching it.
func (c *Client) processActions(actions []Action) {
	for _, action := range actions {
		switch a := action.(type) {
		case DeliverAppData:
			c.deliverAppData(a.Data)
		case WriteToSocket:
			c.transport.WriteChain(a.Callback, a.Data, a.Flags)
		case ReportEarlyHandshakeSuccess:
			c.handleEarlySuccess(a)
		case ReportHandshakeSuccess:
			c.handleSuccess(a)
		case ReportEarlyWriteFailed:
			// The engine can still emit an early write after rejection has
			// been decided. Synthesize a success so the completion isn't
			// leaked; the real outcome is settled by the full handshake
			// resolution. Known sharp edge: this can misreport the write's
			// outcome to the application.
			// TODO: buffer these until full handshake resolution and
			// complete them against the rejection policy instead.
			writeSuccess(a.Write.Callback)
		case ReportError:
			c.deliverAllErrors(wrapSsl(a.Err), true)
		case WaitForData:
			c.engine.WaitForData()
			if c.sink.pending() {
				// Make sure read interest is installed.
				c.transport.StartReads(c)
			}
		case MutateState:
			a.Mutate(&c.state)
		case NewCachedPsk:
			if c.pskIdentity != "" {
				c.cache.Put(c.pskIdentity, a.Psk)
			}
		default:
			panic(fmt.Sprintf("tls: unknown engine action %T", action))
		}
	}
}
