package tls

// HandshakeObserver is the rich completion observer: it receives the client
// itself on success so it can inspect negotiated parameters.
type HandshakeObserver interface {
	HandshakeSuccess(c *Client)
	HandshakeError(c *Client, err error)
}

// ConnectObserver is the plain connect-style completion observer.
type ConnectObserver interface {
	ConnectSuccess()
	ConnectError(err error)
}

// ReplaySafetyObserver is notified exactly once, the first time the session
// becomes safe against replay.
type ReplaySafetyObserver interface {
	ReplaySafe()
}

// completionSink holds whoever is waiting on the handshake outcome. At most
// one field is non-nil. Resolution clears the sink before invoking the
// observer so re-entrant resolution cannot fire it twice.
type completionSink struct {
	handshake HandshakeObserver
	connect   ConnectObserver
}

func (s *completionSink) pending() bool {
	return s.handshake != nil || s.connect != nil
}

func (s *completionSink) resolveSuccess(c *Client) {
	switch {
	case s.handshake != nil:
		cb := s.handshake
		s.handshake = nil
		cb.HandshakeSuccess(c)
	case s.connect != nil:
		cb := s.connect
		s.connect = nil
		cb.ConnectSuccess()
	}
}

func (s *completionSink) resolveError(c *Client, err error) {
	switch {
	case s.handshake != nil:
		cb := s.handshake
		s.handshake = nil
		cb.HandshakeError(c, err)
	case s.connect != nil:
		cb := s.connect
		s.connect = nil
		// The plain observer only understands session errors.
		cb.ConnectError(wrapSsl(err))
	}
}
