// Package repository implements the domain repositories on top of the
// in-memory store, simulating the latency of a remote backend.
package repository

import (
	"context"
	"time"

	"labtrack/internal/config"
	"labtrack/internal/metrics"
	"labtrack/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Options configures a store-backed repository.
type Options struct {
	Latency config.OperationLatency
	// Catalog enforces campus/building containment; nil disables the check.
	Catalog models.LocationCatalog
	// Location is the timezone used for calendar-date comparisons.
	Location *time.Location
	Now      func() time.Time
	Logger   *zerolog.Logger
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

// simulate rejects an already-cancelled context, then sleeps for d. Once the
// delay has started the operation always completes.
func simulate(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d > 0 {
		time.Sleep(d)
	}
	return nil
}

func newID(prefix string) string {
	return prefix + uuid.NewString()
}

func observe(entity, op string, err error) {
	metrics.ObserveRepository(entity, op, err)
}
