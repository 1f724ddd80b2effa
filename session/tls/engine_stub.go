package tls

import (
	"crypto/sha256"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/crypto/hkdf"
)

// stubEngine is a scriptable engine used in tests. Each entry point records
// its input and returns whatever the matching hook produces; a nil hook
// yields no actions.
type stubEngine struct {
	onConnect       func(verifier CertificateVerifier, sni string, psk *CachedPsk, extensions []Extension) []Action
	onAppWrite      func(w AppWrite) []Action
	onEarlyAppWrite func(w EarlyAppWrite) []Action
	onAppClose      func() []Action
	onData          func(data []byte) []Action

	connects    int
	appWrites   []AppWrite
	earlyWrites []EarlyAppWrite
	appCloses   int
	fed         [][]byte
	waits       int

	errState error

	ekmSecret      []byte
	earlyEkmSecret []byte
}

var _ Engine = (*stubEngine)(nil)

func (e *stubEngine) Connect(verifier CertificateVerifier, sni string, psk *CachedPsk, extensions []Extension) []Action {
	e.connects++
	if e.onConnect != nil {
		return e.onConnect(verifier, sni, psk, extensions)
	}
	return nil
}

func (e *stubEngine) AppWrite(w AppWrite) []Action {
	e.appWrites = append(e.appWrites, w)
	if e.onAppWrite != nil {
		return e.onAppWrite(w)
	}
	return nil
}

func (e *stubEngine) EarlyAppWrite(w EarlyAppWrite) []Action {
	e.earlyWrites = append(e.earlyWrites, w)
	if e.onEarlyAppWrite != nil {
		return e.onEarlyAppWrite(w)
	}
	return nil
}

func (e *stubEngine) AppClose() []Action {
	e.appCloses++
	if e.onAppClose != nil {
		return e.onAppClose()
	}
	return nil
}

func (e *stubEngine) NewTransportData(data []byte) []Action {
	e.fed = append(e.fed, data)
	if e.onData != nil {
		return e.onData(data)
	}
	return nil
}

func (e *stubEngine) WaitForData() { e.waits++ }

func (e *stubEngine) MoveToErrorState(err error) { e.errState = err }

func (e *stubEngine) InErrorState() bool { return e.errState != nil }

func (e *stubEngine) Ekm(label string, context []byte, length uint16) ([]byte, error) {
	return exportKeyingMaterial(e.ekmSecret, label, context, length)
}

func (e *stubEngine) EarlyEkm(label string, context []byte, length uint16) ([]byte, error) {
	return exportKeyingMaterial(e.earlyEkmSecret, label, context, length)
}

// exportKeyingMaterial expands secret into length bytes bound to label and
// context. Reference: https://datatracker.ietf.org/doc/html/rfc8446#section-7.5
func exportKeyingMaterial(secret []byte, label string, context []byte, length uint16) ([]byte, error) {
	if secret == nil {
		return nil, errors.New("no exporter secret available")
	}

	info := make([]byte, 0, len(label)+len(context))
	info = append(info, label...)
	info = append(info, context...)

	out := make([]byte, length)
	if _, err := io.ReadFull(hkdf.Expand(sha256.New, secret, info), out); err != nil {
		return nil, errors.Wrap(err, "expanding exporter secret")
	}

	return out, nil
}
