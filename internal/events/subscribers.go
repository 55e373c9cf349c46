package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// LogSubscriber writes every published event to logger at debug level.
func LogSubscriber(logger *zerolog.Logger) EventHandler {
	return func(event *Event) error {
		logger.Debug().
			Int64("event_id", event.ID).
			Str("event_type", event.Type).
			RawJSON("payload", event.Payload).
			Msg("event published")
		return nil
	}
}

// CountSubscriber increments counter with the event type as its only label.
func CountSubscriber(counter *prometheus.CounterVec) EventHandler {
	return func(event *Event) error {
		counter.WithLabelValues(event.Type).Inc()
		return nil
	}
}
