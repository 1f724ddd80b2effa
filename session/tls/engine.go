package tls

// Reference: https://datatracker.ietf.org/doc/html/rfc8446#section-4.1.2
type Version uint16

const (
	VersionTLS12 Version = 0x0303
	VersionTLS13 Version = 0x0304
)

// CipherSuite identifies a negotiated AEAD/hash pair.
type CipherSuite uint16

const (
	TLS_AES_128_GCM_SHA256       CipherSuite = 0x1301
	TLS_AES_256_GCM_SHA384       CipherSuite = 0x1302
	TLS_CHACHA20_POLY1305_SHA256 CipherSuite = 0x1303
)

// PskMode reports how a resumption secret was bound into the handshake.
// Reference: https://datatracker.ietf.org/doc/html/rfc8446#section-4.2.9
type PskMode uint8

const (
	PskModeKe    PskMode = 0
	PskModeDheKe PskMode = 1
)

// Extension is an opaque extension advertised in the client hello.
type Extension struct {
	Type uint16
	Data []byte
}

// EarlyDataParams is the parameter set assumed while 0-RTT data is in
// flight, before the server has confirmed it.
type EarlyDataParams struct {
	Version     Version
	CipherSuite CipherSuite
	Alpn        string

	PeerCert   Certificate
	ClientCert Certificate
}

// State is the protocol-visible snapshot of one connect attempt. The engine
// mutates it exclusively through [MutateState] actions.
type State struct {
	Version     Version
	CipherSuite CipherSuite
	Alpn        string

	PeerCert   Certificate
	ClientCert Certificate

	// PskMode is non-nil iff the connection resumed from a PSK.
	PskMode *PskMode

	// EarlyParams is non-nil while the early parameter set is live.
	EarlyParams *EarlyDataParams
}

// Engine is the protocol state machine driving one connect attempt. It is a
// black box to this package: every entry point returns an ordered action
// sequence which the caller must execute strictly in order (see [Action]).
type Engine interface {
	Connect(verifier CertificateVerifier, sni string, psk *CachedPsk, extensions []Extension) []Action
	AppWrite(w AppWrite) []Action
	EarlyAppWrite(w EarlyAppWrite) []Action
	AppClose() []Action
	NewTransportData(data []byte) []Action

	// WaitForData acknowledges that no synchronous progress is possible
	// until more transport bytes arrive.
	WaitForData()

	// MoveToErrorState puts the engine into its terminal error state.
	MoveToErrorState(err error)
	InErrorState() bool

	// Ekm derives exported keying material from the master secret.
	Ekm(label string, context []byte, length uint16) ([]byte, error)
	// EarlyEkm derives exported keying material from the early secret.
	EarlyEkm(label string, context []byte, length uint16) ([]byte, error)
}
