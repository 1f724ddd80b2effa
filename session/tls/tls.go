// Package tls implements the client-side session orchestration for a
// TLS 1.3 connection.
//
// The package binds an asynchronous byte-stream transport to a protocol
// engine that emits abstract actions, and turns those actions into transport
// writes, application callbacks and session-cache updates. It owns the 0-RTT
// early-data budget, the handshake-completion delivery path and the error
// fan-out; the engine's record and handshake-message processing is behind the
// [Engine] interface.
//
// NOTE: A Client is driven by a single execution context. Public operations
// must not overlap; sharing a client across goroutines requires external
// synchronization. The [PskCache] may be shared across clients and is
// concurrency-safe on its own.
//
// Reference:
// - https://datatracker.ietf.org/doc/html/rfc8446
package tls

import (
	"github.com/benbjohnson/clock"

	"github.com/tlming16/fizz/transport"
)

// DataConsumer receives decrypted application bytes and terminal errors.
type DataConsumer interface {
	DeliverData(data []byte)
	DeliverError(err error)
}

// Options configures a Client. The zero value is usable.
type Options struct {
	// Clock drives the handshake timer. Defaults to the real clock.
	Clock clock.Clock

	// PskCache stores resumption secrets across connections.
	// Defaults to a fresh in-memory cache.
	PskCache PskCache

	// RejectionPolicy selects the behavior when the server rejects
	// early data. Immutable for the life of the client.
	RejectionPolicy EarlyDataRejectionPolicy

	// Extensions are advertised on every connect attempt.
	Extensions []Extension

	// Consumer receives decrypted application data and terminal errors.
	Consumer DataConsumer
}

// NewClient wires an engine and a transport into a session orchestrator.
func NewClient(engine Engine, tr transport.Transport, opts Options) *Client {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.PskCache == nil {
		opts.PskCache = NewMemoryPskCache()
	}

	return &Client{
		engine:          engine,
		transport:       tr,
		clock:           opts.Clock,
		cache:           opts.PskCache,
		rejectionPolicy: opts.RejectionPolicy,
		extensions:      opts.Extensions,
		consumer:        opts.Consumer,
	}
}
