package bridge

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/bnema/nativeview/internal/logging"
)

// Receiver hands message bodies from the native handler to the host callback.
// Calls to the callback never overlap.
type Receiver struct {
	mu       sync.Mutex
	callback func(string)
	logger   zerolog.Logger

	received atomic.Uint64
	repaired atomic.Uint64
}

// NewReceiver creates a receiver that forwards to callback. A nil callback
// drops every message.
func NewReceiver(ctx context.Context, callback func(string)) *Receiver {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Receiver{
		callback: callback,
		logger:   logging.Component(ctx, logging.ComponentBridge),
	}
}

// Receive delivers body to the callback on the calling goroutine. Invalid
// UTF-8 sequences are replaced with U+FFFD.
func (r *Receiver) Receive(body string) {
	r.received.Add(1)

	if !utf8.ValidString(body) {
		r.repaired.Add(1)
		r.logger.Warn().Int("bytes", len(body)).Msg("message body is not valid UTF-8, replacing invalid sequences")
		body = strings.ToValidUTF8(body, string(utf8.RuneError))
	}

	if r.callback == nil {
		r.logger.Debug().Int("bytes", len(body)).Msg("no message callback, dropping message")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.callback(body)
}

// Stats returns the number of messages received and how many needed repair.
func (r *Receiver) Stats() (received, repaired uint64) {
	return r.received.Load(), r.repaired.Load()
}
