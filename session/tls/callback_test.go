package tls

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCompletionSinkSingleShot(t *testing.T) {
	observer := new(recordingHandshakeObserver)
	sink := completionSink{handshake: observer}

	assert.True(t, sink.pending())

	sink.resolveSuccess(nil)
	assert.False(t, sink.pending())
	assert.Equal(t, 1, observer.successes)

	// Already resolved; both resolutions are no-ops.
	sink.resolveSuccess(nil)
	sink.resolveError(nil, errors.New("late"))
	assert.Equal(t, 1, observer.successes)
	assert.Empty(t, observer.errs)
}

func TestCompletionSinkErrorClearsBeforeFiring(t *testing.T) {
	// A re-entrant resolution from inside the observer must find the sink
	// already cleared.
	sink := new(completionSink)
	fired := 0
	sink.connect = reentrantConnectObserver{sink: sink, fired: &fired}

	sink.resolveError(nil, errors.New("boom"))
	assert.Equal(t, 1, fired)
}

type reentrantConnectObserver struct {
	sink  *completionSink
	fired *int
}

func (o reentrantConnectObserver) ConnectSuccess() {}
func (o reentrantConnectObserver) ConnectError(error) {
	*o.fired++
	o.sink.resolveError(nil, errors.New("again"))
}

func TestCompletionSinkWrapsForConnectObserver(t *testing.T) {
	observer := new(recordingConnectObserver)
	sink := completionSink{connect: observer}

	cause := errors.New("handshake_failure alert")
	sink.resolveError(nil, cause)

	if assert.Len(t, observer.errs, 1) {
		assert.True(t, IsKind(observer.errs[0], KindSslError))
		assert.ErrorIs(t, observer.errs[0], cause)
	}
}

func TestCompletionSinkPassesSessionErrorsThrough(t *testing.T) {
	observer := new(recordingConnectObserver)
	sink := completionSink{connect: observer}

	sink.resolveError(nil, newError(KindTimeout, "handshake timed out"))

	if assert.Len(t, observer.errs, 1) {
		assert.True(t, IsKind(observer.errs[0], KindTimeout))
	}
}
