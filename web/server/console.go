package server

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// RequestLogger implements core.Logger by collecting the diagnostics of one
// request so they can be returned to the client. Every message is also
// written to the server log.
type RequestLogger struct {
	requestID string
	log       zerolog.Logger
	mu        sync.Mutex
	messages  []string
}

// NewRequestLogger creates a logger for a single request
func NewRequestLogger(requestID string, log zerolog.Logger) *RequestLogger {
	return &RequestLogger{requestID: requestID, log: log}
}

// Printf implements core.Logger interface
func (rl *RequestLogger) Printf(format string, args ...interface{}) {
	message := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	rl.log.Info().Str("request", rl.requestID).Msg(message)

	rl.mu.Lock()
	rl.messages = append(rl.messages, message)
	rl.mu.Unlock()
}

// Messages returns the diagnostics collected so far, never nil
func (rl *RequestLogger) Messages() []string {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return append([]string{}, rl.messages...)
}
