package availability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"marketplace/models"
)

// ReservationReader supplies the active reservations of a resource on one day.
type ReservationReader interface {
	FetchActive(ctx context.Context, resourceID, date string) ([]models.Reservation, error)
}

// Engine runs availability checks against a reservation store. It keeps no state between calls.
type Engine struct {
	store  ReservationReader
	tracer trace.Tracer
}

func NewEngine(store ReservationReader) *Engine {
	return &Engine{
		store:  store,
		tracer: otel.Tracer("marketplace/availability"),
	}
}

// Check validates candidate, then fetches the resource's reservations for candidate.Date and
// evaluates the overlap rule. Nothing is fetched for an invalid candidate.
func (e *Engine) Check(ctx context.Context, resourceID string, candidate models.TimeWindow, rules Rules) (Result, error) {
	ctx, span := e.tracer.Start(ctx, "availability.check",
		trace.WithAttributes(
			attribute.String("resource.id", resourceID),
			attribute.String("window", candidate.String()),
		))
	defer span.End()

	if err := ValidateWindow(candidate, rules); err != nil {
		span.SetAttributes(attribute.String("rejected", err.Error()))
		return Result{}, err
	}
	existing, err := e.store.FetchActive(ctx, resourceID, candidate.Date)
	if err != nil {
		span.RecordError(err)
		return Result{}, fmt.Errorf("fetch active reservations: %w", err)
	}
	res := evaluate(resourceID, candidate, existing)
	span.SetAttributes(attribute.Bool("available", res.Available), attribute.Int("conflicts", len(res.Conflicts)))
	return res, nil
}

func (e *Engine) CheckBooking(ctx context.Context, resourceID string, candidate models.TimeWindow, guestsCount int, bounds BoundedGuestCount) (Result, error) {
	return e.Check(ctx, resourceID, candidate, Rules{Policy: bounds, Quantity: guestsCount})
}

func (e *Engine) CheckEvent(ctx context.Context, resourceID string, candidate models.TimeWindow) (Result, error) {
	return e.Check(ctx, resourceID, candidate, Rules{})
}

// CheckMany evaluates several candidates for one resource. Each distinct date is fetched once,
// concurrently, and the read-only snapshots are shared by the candidates on that date.
// Results are returned in candidate order; the first validation or store error aborts the call.
func (e *Engine) CheckMany(ctx context.Context, resourceID string, candidates []models.TimeWindow, rules Rules) ([]Result, error) {
	for _, c := range candidates {
		if err := ValidateWindow(c, rules); err != nil {
			return nil, err
		}
	}

	snapshots := make(map[string][]models.Reservation)
	for _, c := range candidates {
		snapshots[c.Date] = nil
	}
	dates := make([]string, 0, len(snapshots))
	for d := range snapshots {
		dates = append(dates, d)
	}

	fetched := make([][]models.Reservation, len(dates))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range dates {
		i, d := i, d
		g.Go(func() error {
			rows, err := e.store.FetchActive(gctx, resourceID, d)
			if err != nil {
				return fmt.Errorf("fetch active reservations for %s: %w", d, err)
			}
			fetched[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i, d := range dates {
		snapshots[d] = fetched[i]
	}

	results := make([]Result, len(candidates))
	g = new(errgroup.Group)
	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			results[i] = evaluate(resourceID, c, snapshots[c.Date])
			return nil
		})
	}
	_ = g.Wait()
	return results, nil
}

// Schedule returns the booked and free windows of resourceID on date.
func (e *Engine) Schedule(ctx context.Context, resourceID, date string) ([]models.TimeWindow, []models.TimeWindow, error) {
	existing, err := e.store.FetchActive(ctx, resourceID, date)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch active reservations: %w", err)
	}
	return BookedWindows(resourceID, date, existing), FreeWindows(resourceID, date, existing), nil
}
