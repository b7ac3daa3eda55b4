// Package sideeffect queues audit and activity records produced by an
// opportunity mutation and dispatches them once the mutation has committed.
package sideeffect

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuditEntry struct {
	EntityType     string         `json:"entity_type"`
	EntityID       uuid.UUID      `json:"entity_id"`
	Action         string         `json:"action"`
	PreviousValues map[string]any `json:"previous_values,omitempty"`
	NewValues      map[string]any `json:"new_values"`
	ChangedBy      uuid.UUID      `json:"changed_by"`
}

type Activity struct {
	EntityType   string         `json:"entity_type"`
	EntityID     uuid.UUID      `json:"entity_id"`
	ActivityType string         `json:"activity_type"`
	Title        string         `json:"title"`
	Description  string         `json:"description,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	PerformedBy  uuid.UUID      `json:"performed_by"`
}

//go:generate mockgen -source=sideeffect.go -destination=sideeffect_mock.go -package=sideeffect
type AuditLogger interface {
	Log(ctx context.Context, entry AuditEntry) error
}

type ActivityFeed interface {
	Record(ctx context.Context, activity Activity) error
}

type FailureRecorder interface {
	IncrSideEffectFailure(collaborator string)
}

// Queue collects side effects while a transaction is open. The zero value is
// ready to use.
type Queue struct {
	audits     []AuditEntry
	activities []Activity
}

func (q *Queue) Audit(e AuditEntry) {
	q.audits = append(q.audits, e)
}

func (q *Queue) Activity(a Activity) {
	q.activities = append(q.activities, a)
}

func (q *Queue) Len() int {
	return len(q.audits) + len(q.activities)
}

// Audits returns the queued audit entries in insertion order.
func (q *Queue) Audits() []AuditEntry { return q.audits }

// Activities returns the queued activities in insertion order.
func (q *Queue) Activities() []Activity { return q.activities }

// Dispatcher delivers queued side effects to the audit log and activity feed.
// Delivery failures are logged and counted, never returned: a committed
// mutation stands regardless.
type Dispatcher struct {
	audit   AuditLogger
	feed    ActivityFeed
	metrics FailureRecorder
	logger  *zap.Logger

	// timeout > 0 moves delivery off the caller's goroutine.
	timeout time.Duration
	pending sync.WaitGroup
}

type Option func(*Dispatcher)

// InBackground makes Flush hand the queue to a goroutine and return at once.
// Each delivery run is bounded by timeout.
func InBackground(timeout time.Duration) Option {
	return func(d *Dispatcher) { d.timeout = timeout }
}

func NewDispatcher(audit AuditLogger, feed ActivityFeed, metrics FailureRecorder, logger *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		audit:   audit,
		feed:    feed,
		metrics: metrics,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Flush delivers every queued entry, audits first, and empties q. A nil
// Dispatcher drops the queue.
func (d *Dispatcher) Flush(ctx context.Context, q *Queue) {
	if d == nil || q == nil {
		return
	}

	audits, activities := q.audits, q.activities
	q.audits, q.activities = nil, nil

	if d.timeout <= 0 {
		d.deliver(ctx, audits, activities)
		return
	}

	if len(audits)+len(activities) == 0 {
		return
	}

	d.pending.Go(func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.timeout)
		defer cancel()

		d.deliver(ctx, audits, activities)
	})
}

// Wait blocks until background deliveries have finished or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	if d == nil {
		return nil
	}

	done := make(chan struct{})

	go func() {
		d.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, audits []AuditEntry, activities []Activity) {
	for _, e := range audits {
		if err := d.audit.Log(ctx, e); err != nil {
			d.fail("audit", err,
				zap.String("entity_type", e.EntityType),
				zap.Stringer("entity_id", e.EntityID),
				zap.String("action", e.Action),
			)
		}
	}

	for _, a := range activities {
		if err := d.feed.Record(ctx, a); err != nil {
			d.fail("activity", err,
				zap.String("entity_type", a.EntityType),
				zap.Stringer("entity_id", a.EntityID),
				zap.String("activity_type", a.ActivityType),
			)
		}
	}
}

func (d *Dispatcher) fail(collaborator string, err error, fields ...zap.Field) {
	if d.metrics != nil {
		d.metrics.IncrSideEffectFailure(collaborator)
	}

	d.logger.Error("side effect dispatch failed",
		append(fields, zap.String("collaborator", collaborator), zap.Error(err))...,
	)
}
