package commands

import (
	"context"
	"strings"
	"sync"
	"time"

	"confhub/contexts/conference-program/program-engine/domain/entities"
	domainerrors "confhub/contexts/conference-program/program-engine/domain/errors"
	"confhub/contexts/conference-program/program-engine/ports"
)

func findGeneration(
	generations []entities.Generation,
	eventID string,
	kind entities.GenerationKind,
) (entities.Generation, int) {
	for i, generation := range generations {
		if generation.EventID == eventID && generation.Kind == kind {
			return generation, i
		}
	}
	return entities.Generation{EventID: eventID, Kind: kind}, -1
}

// checkExpectedGeneration rejects a replace run when the caller inspected an
// older generation than the one currently stored.
func checkExpectedGeneration(current entities.Generation, expected *int64) error {
	if expected == nil {
		return nil
	}
	if *expected != current.Number {
		return domainerrors.ErrGenerationConflict
	}
	return nil
}

func advanceGeneration(
	generations []entities.Generation,
	eventID string,
	kind entities.GenerationKind,
	recordCount int,
	actorID string,
	now time.Time,
) ([]entities.Generation, entities.Generation) {
	current, idx := findGeneration(generations, eventID, kind)
	next := entities.Generation{
		EventID:     eventID,
		Kind:        kind,
		Number:      current.Number + 1,
		RecordCount: recordCount,
		ReplacedBy:  strings.TrimSpace(actorID),
		ReplacedAt:  now,
	}
	updated := append([]entities.Generation(nil), generations...)
	if idx < 0 {
		updated = append(updated, next)
	} else {
		updated[idx] = next
	}
	return updated, next
}

// localWork serializes units of work for use cases wired without a
// ports.UnitOfWork.
var localWork sync.Mutex

// atomically runs fn as one unit of work. Every command that reads a
// collection and writes it back goes through here, so commands on different
// events never overwrite each other's rows.
func atomically(ctx context.Context, work ports.UnitOfWork, fn func(ctx context.Context) error) error {
	if work == nil {
		localWork.Lock()
		defer localWork.Unlock()
		return fn(ctx)
	}
	return work.Atomically(ctx, fn)
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

type nopNotifier struct{}

func (nopNotifier) Notify(context.Context, entities.Notification) {}

func resolveNotifier(notifier ports.Notifier) ports.Notifier {
	if notifier == nil {
		return nopNotifier{}
	}
	return notifier
}

type nopMetrics struct{}

func (nopMetrics) ObserveAllocation(string, int, int) {}

func (nopMetrics) ObserveProgram(string, int, int, int) {}

func (nopMetrics) ObserveManualAssignment(string) {}

func resolveMetrics(metrics ports.Metrics) ports.Metrics {
	if metrics == nil {
		return nopMetrics{}
	}
	return metrics
}
