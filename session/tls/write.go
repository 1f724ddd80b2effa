package tls

import "github.com/tlming16/fizz/transport"

// AppWrite is one application write request. It is consumed exactly once:
// either handed to the engine or completed with an error.
type AppWrite struct {
	Data     []byte
	Callback transport.WriteCallback
	Flags    transport.WriteFlags
}

// EarlyAppWrite is an application write sent as 0-RTT data.
type EarlyAppWrite struct {
	AppWrite
}

func writeSuccess(cb transport.WriteCallback) {
	if cb != nil {
		cb.WriteSuccess()
	}
}

func writeError(cb transport.WriteCallback, err error) {
	if cb != nil {
		cb.WriteError(0, err)
	}
}
