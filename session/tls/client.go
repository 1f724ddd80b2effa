package tls

import (
	"net"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/tlming16/fizz/transport"
)

// Client is the session orchestrator for one TLS 1.3 client connection. It
// feeds transport bytes and application writes into the engine and executes
// the engine's action sequences.
//
// A Client is not safe for concurrent use; see the package documentation.
type Client struct {
	engine    Engine
	transport transport.Transport
	clock     clock.Clock

	cache           PskCache
	rejectionPolicy EarlyDataRejectionPolicy
	extensions      []Extension
	consumer        DataConsumer

	state State

	sink        completionSink
	verifier    CertificateVerifier
	sni         string
	pskIdentity string

	hsTimer        *clock.Timer
	earlyData      *earlyData
	replayObserver ReplaySafetyObserver
}

var (
	_ transport.Events        = (*Client)(nil)
	_ transport.ConnectEvents = (*Client)(nil)
)

// Connect starts a handshake on an already-established transport. When
// verifier is nil a default verifier for sni is used; when pskIdentity is
// empty it defaults to sni. A zero timeout disables the handshake timer.
//
// Misuse (nil observer, connect already outstanding) is returned directly;
// every other failure is delivered through the observer.
func (c *Client) Connect(
	observer HandshakeObserver,
	verifier CertificateVerifier,
	sni string,
	pskIdentity string,
	timeout time.Duration,
) error {
	if observer == nil {
		return newError(KindInvalidUsage, "connect without observer")
	}
	if c.sink.pending() {
		return newError(KindInvalidUsage, "connect already outstanding")
	}
	c.sink.handshake = observer

	if !c.transport.Good() {
		c.deliverAllErrors(newError(KindNotOpen, "handshake connect called but transport isn't open"), false)
		return nil
	}

	if verifier == nil {
		verifier = NewDefaultVerifier(sni)
	}
	if pskIdentity == "" {
		pskIdentity = sni
	}
	c.verifier = verifier
	c.sni = sni
	c.pskIdentity = pskIdentity

	if timeout != 0 {
		c.startHandshakeTimeout(timeout)
	}

	// Read interest must be installed before any data can arrive.
	c.transport.StartReads(c)
	c.engineConnect()
	return nil
}

// ConnectTo performs the transport-level connect first and defers the
// engine until the transport reports success. totalTimeout bounds the whole
// attempt including the handshake; opts carries the socket-level knobs.
func (c *Client) ConnectTo(
	observer ConnectObserver,
	addr net.Addr,
	verifier CertificateVerifier,
	sni string,
	pskIdentity string,
	totalTimeout time.Duration,
	opts transport.ConnectOptions,
) error {
	if observer == nil {
		return newError(KindInvalidUsage, "connect without observer")
	}
	if c.sink.pending() {
		return newError(KindInvalidUsage, "connect already outstanding")
	}
	c.sink.connect = observer

	c.verifier = verifier
	c.sni = sni
	c.pskIdentity = pskIdentity

	if totalTimeout != 0 {
		c.startHandshakeTimeout(totalTimeout)
	}

	if err := c.transport.Connect(c, addr, opts); err != nil {
		err = errors.Wrap(err, "starting transport connect")
		c.deliverAllErrors(&SessionError{Kind: KindBadArgs, Message: "transport cannot connect", Cause: err}, false)
	}
	return nil
}

func (c *Client) engineConnect() {
	var psk *CachedPsk
	if c.pskIdentity != "" {
		if cached, ok := c.cache.Get(c.pskIdentity); ok {
			psk = &cached
		}
	}
	c.processActions(c.engine.Connect(c.verifier, c.sni, psk, c.extensions))
}

// Write submits one application write. The callback receives exactly one
// completion. While early data is in flight the write is either spent
// against the remaining budget or queued until the handshake resolves.
func (c *Client) Write(data []byte, cb transport.WriteCallback, flags transport.WriteFlags) {
	if c.InError() {
		writeError(cb, newError(KindInvalidState, "app write in error state"))
		return
	}

	w := AppWrite{Data: data, Callback: cb, Flags: flags}
	if c.earlyData != nil {
		c.writeEarly(w)
		return
	}
	c.processActions(c.engine.AppWrite(w))
}

// Close performs an orderly close: an application-level close through the
// engine if the transport is still usable, then every pending write fails
// with KindEndOfFile, then the transport closes gracefully.
func (c *Client) Close() {
	c.closeWith(c.transport.Close)
}

// CloseWithReset closes like Close but resets the transport.
func (c *Client) CloseWithReset() {
	c.closeWith(c.transport.CloseWithReset)
}

// CloseNow closes like Close but drops the transport immediately.
func (c *Client) CloseNow() {
	c.closeWith(c.transport.CloseNow)
}

func (c *Client) closeWith(closeTransport func()) {
	if c.transport.Good() {
		c.processActions(c.engine.AppClose())
	}
	c.deliverAllErrors(newError(KindEndOfFile, "socket closed locally"), false)
	closeTransport()
}

// Good reports whether the session carries no error and the transport is
// still usable.
func (c *Client) Good() bool { return !c.InError() && c.transport.Good() }

func (c *Client) Readable() bool { return c.transport.Readable() }

// Connecting is true while a connect attempt is outstanding.
func (c *Client) Connecting() bool { return c.sink.pending() || c.transport.Connecting() }

func (c *Client) InError() bool { return c.transport.Error() || c.engine.InErrorState() }

// PeerCertificate returns the peer identity. While early data is in flight
// it comes from the early parameter set, not the final negotiated one.
func (c *Client) PeerCertificate() Certificate {
	if c.earlyData != nil {
		if ep := c.state.EarlyParams; ep != nil {
			return ep.PeerCert
		}
		return nil
	}
	return c.state.PeerCert
}

// SelfCertificate returns the local identity, with the same early/final
// duality as PeerCertificate.
func (c *Client) SelfCertificate() Certificate {
	if c.earlyData != nil {
		if ep := c.state.EarlyParams; ep != nil {
			return ep.ClientCert
		}
		return nil
	}
	return c.state.ClientCert
}

// ApplicationProtocol returns the negotiated ALPN, or the assumed one while
// early data is in flight. Empty means no negotiated protocol.
func (c *Client) ApplicationProtocol() string {
	if c.earlyData != nil {
		if ep := c.state.EarlyParams; ep != nil {
			return ep.Alpn
		}
		return ""
	}
	return c.state.Alpn
}

// ReplaySafe is false exactly while early data's accept/reject outcome is
// still unknown.
func (c *Client) ReplaySafe() bool { return c.earlyData == nil }

// SetReplaySafetyObserver registers a single-shot observer fired when the
// session becomes replay safe. Registering one on an already replay-safe
// session is a misuse.
func (c *Client) SetReplaySafetyObserver(observer ReplaySafetyObserver) {
	if observer != nil && c.ReplaySafe() {
		panic("tls: replay safety observer registered on replay-safe session")
	}
	c.replayObserver = observer
}

// PskResumed reports whether the connection resumed from a cached PSK.
func (c *Client) PskResumed() bool { return c.state.PskMode != nil }

// Ekm derives exported keying material from the connection's master secret.
func (c *Client) Ekm(label string, context []byte, length uint16) ([]byte, error) {
	return c.engine.Ekm(label, context, length)
}

// EarlyEkm derives exported keying material from the early secret.
func (c *Client) EarlyEkm(label string, context []byte, length uint16) ([]byte, error) {
	return c.engine.EarlyEkm(label, context, length)
}

// TransportData feeds newly arrived bytes to the engine.
func (c *Client) TransportData(data []byte) {
	c.processActions(c.engine.NewTransportData(data))
}

// TransportError fans a transport failure out to every pending completion.
func (c *Client) TransportError(err error) {
	c.deliverAllErrors(err, true)
}

// ConnectSuccess continues a ConnectTo attempt once the transport is up.
func (c *Client) ConnectSuccess() {
	c.transport.StartReads(c)
	c.engineConnect()
}

// ConnectError fails a ConnectTo attempt.
func (c *Client) ConnectError(err error) {
	c.deliverAllErrors(err, false)
}

func (c *Client) handleEarlySuccess(a ReportEarlyHandshakeSuccess) {
	c.earlyData = &earlyData{remaining: a.MaxEarlyDataSize}
	c.sink.resolveSuccess(c)
}

func (c *Client) handleSuccess(a ReportHandshakeSuccess) {
	c.cancelHandshakeTimeout()

	if c.earlyData != nil {
		if !a.EarlyDataAccepted {
			if err := c.handleEarlyReject(); err != nil {
				if c.pskIdentity != "" {
					// The cached PSK led to a rejection; evict it.
					c.cache.Remove(c.pskIdentity)
				}
				c.deliverAllErrors(err, false)
				c.transport.CloseNow()
				return
			}
		}

		// Drain in submission order. Callbacks may re-enter and queue
		// further writes or tear the state down, so re-check every turn.
		for c.earlyData != nil && len(c.earlyData.pendingWrites) > 0 {
			w := c.earlyData.pendingWrites[0]
			c.earlyData.pendingWrites = c.earlyData.pendingWrites[1:]
			c.processActions(c.engine.AppWrite(w))
		}
		c.earlyData = nil
	}

	c.sink.resolveSuccess(c)

	if observer := c.replayObserver; observer != nil {
		c.replayObserver = nil
		observer.ReplaySafe()
	}
}

// deliverAllErrors is the only path an error takes to the outside world.
// Order matters: sink first, then the replay observer is dropped without
// notice, then queued early writes fail in FIFO order, then the engine moves
// to its terminal error state, then the data consumer hears about it.
func (c *Client) deliverAllErrors(err error, closeTransport bool) {
	c.deliverHandshakeError(err)

	c.replayObserver = nil

	// Callbacks may re-enter and destroy the early data state mid-loop.
	for c.earlyData != nil && len(c.earlyData.pendingWrites) > 0 {
		w := c.earlyData.pendingWrites[0]
		c.earlyData.pendingWrites = c.earlyData.pendingWrites[1:]
		writeError(w.Callback, err)
	}

	c.engine.MoveToErrorState(err)
	c.deliverError(err, closeTransport)
}

func (c *Client) deliverHandshakeError(err error) {
	if !c.sink.pending() {
		return
	}
	c.cancelHandshakeTimeout()
	c.sink.resolveError(c, err)
}

func (c *Client) deliverAppData(data []byte) {
	if c.consumer != nil {
		c.consumer.DeliverData(data)
	}
}

func (c *Client) deliverError(err error, closeTransport bool) {
	if c.consumer != nil {
		c.consumer.DeliverError(err)
	}
	if closeTransport {
		c.transport.CloseNow()
	}
}

func (c *Client) startHandshakeTimeout(d time.Duration) {
	c.hsTimer = c.clock.AfterFunc(d, c.handshakeTimeoutExpired)
}

func (c *Client) cancelHandshakeTimeout() {
	if c.hsTimer != nil {
		c.hsTimer.Stop()
		c.hsTimer = nil
	}
}

func (c *Client) handshakeTimeoutExpired() {
	c.hsTimer = nil
	c.deliverAllErrors(newError(KindTimeout, "handshake timed out"), true)
}
