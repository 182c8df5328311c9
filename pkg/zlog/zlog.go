// Package zlog adapts a zerolog.Logger to the store's logging contract.
package zlog

import (
	"github.com/rs/zerolog"

	prefs "github.com/goliatone/go-prefstore"
)

// Logger forwards store events to a zerolog.Logger: failures at error
// level, everything else at debug.
type Logger struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) Logger {
	return Logger{log: log}
}

// LogStoreEvent implements prefs.StoreLogger.
func (l Logger) LogStoreEvent(event prefs.StoreLogEvent) {
	entry := l.log.Debug()
	if event.Err != nil {
		entry = l.log.Error().Err(event.Err)
	}
	entry.
		Str("op", event.Op).
		Str("key", event.Key).
		Dur("duration", event.Duration).
		Msg("store event")
}

var _ prefs.StoreLogger = Logger{}
