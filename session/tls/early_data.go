package tls

import "bytes"

// EarlyDataRejectionPolicy selects what happens when the server rejects
// 0-RTT data. Configured once at construction.
type EarlyDataRejectionPolicy uint8

const (
	// FatalConnectionError fails the connection: every pending early write
	// receives KindEarlyDataRejected and the cached PSK is evicted.
	FatalConnectionError EarlyDataRejectionPolicy = iota
	// AutomaticResend resends the early payloads as ordinary application
	// data, provided the negotiated parameters match the assumed ones.
	AutomaticResend
)

// earlyData tracks one connect attempt's 0-RTT state. Its presence on the
// client (a non-nil pointer) is the "in early data" state bit; there is no
// separate boolean to fall out of sync with it.
//
// remaining never increases while the state exists. Once any write lands in
// pendingWrites, remaining is forced to 0 so every later write queues too,
// preserving submission order across the handshake boundary.
type earlyData struct {
	remaining     uint32
	pendingWrites []AppWrite

	// resendBuffer accumulates copies of already-sent early payloads, only
	// under the AutomaticResend policy.
	resendBuffer bytes.Buffer
}

// writeEarly decides between sending a write as 0-RTT data now and queueing
// it until the handshake resolves.
func (c *Client) writeEarly(w AppWrite) {
	ed := c.earlyData
	size := uint32(len(w.Data))

	if len(ed.pendingWrites) > 0 || size > ed.remaining {
		ed.remaining = 0
		ed.pendingWrites = append(ed.pendingWrites, w)
		return
	}

	if c.rejectionPolicy == AutomaticResend {
		// Copy the payload: the application may reuse its buffer as soon
		// as the write callback fires, and a resend happens later.
		ed.resendBuffer.Write(w.Data)
	}

	ed.remaining -= size
	c.processActions(c.engine.EarlyAppWrite(EarlyAppWrite{AppWrite: w}))
}

// handleEarlyReject applies the rejection policy after the server turned
// early data down. A non-nil return means the rejection is fatal.
func (c *Client) handleEarlyReject() error {
	switch c.rejectionPolicy {
	case FatalConnectionError:
		return newError(KindEarlyDataRejected, "early data rejected")
	case AutomaticResend:
		if !earlyParametersMatch(&c.state) {
			// Resending under a different security context is unsafe.
			return newError(KindEarlyDataRejected, "early data rejected, could not be resent")
		}
		if c.earlyData.resendBuffer.Len() > 0 {
			resend := AppWrite{Data: c.earlyData.resendBuffer.Bytes()}
			c.earlyData.resendBuffer = bytes.Buffer{}
			c.processActions(c.engine.AppWrite(resend))
		}
	}
	return nil
}

// earlyParametersMatch reports whether the final negotiated parameters equal
// the ones assumed when early data was sent.
func earlyParametersMatch(s *State) bool {
	ep := s.EarlyParams
	if ep == nil {
		return false
	}
	return ep.Version == s.Version &&
		ep.CipherSuite == s.CipherSuite &&
		ep.Alpn == s.Alpn
}
