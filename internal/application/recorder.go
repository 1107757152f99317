package application

import (
	"context"
	"errors"

	"wealthwatch-service/internal/domain"
)

// NoopRecorder drops every resolution; used when no store is configured.
type NoopRecorder struct{}

func (NoopRecorder) Record(context.Context, domain.Resolution) error { return nil }

// MultiRecorder fans a resolution out to several recorders and joins their
// errors.
type MultiRecorder []ResolutionRecorder

func (m MultiRecorder) Record(ctx context.Context, r domain.Resolution) error {
	var errs []error
	for _, rec := range m {
		if err := rec.Record(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
