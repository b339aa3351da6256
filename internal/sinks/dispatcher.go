package sinks

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/rs/zerolog"
)

type job struct {
	kind  string
	err   error
	event Event
}

// Dispatcher decouples callers from a slow or failing Sink. Events are queued
// per partition (keyed by correlation id so one request's events stay ordered)
// and delivered by one worker per partition. When a partition is full the
// event is dropped and counted instead of blocking the request path.
type Dispatcher struct {
	target Sink
	queue  *partitionedQueue[job]

	wg        sync.WaitGroup
	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}

	logger zerolog.Logger
}

var _ Sink = (*Dispatcher)(nil)

func NewDispatcher(target Sink, partitions, buffer int, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		target: target,
		queue:  newPartitionedQueue[job](partitions, buffer),
		stopCh: make(chan struct{}),
		logger: logger,
	}
}

func (d *Dispatcher) CaptureException(err error, event Event) {
	d.publish(job{kind: jobCapture, err: err, event: event})
}

func (d *Dispatcher) AddBreadcrumb(event Event) {
	d.publish(job{kind: jobBreadcrumb, event: event})
}

func (d *Dispatcher) publish(j job) {
	key := j.event.Category
	if id, ok := j.event.Context[ContextCorrelationID].(string); ok && id != "" {
		key = id
	}
	if !d.queue.tryPublish(key, j) {
		metricSinkEventsTotal.WithLabelValues(j.kind, outcomeDropped).Inc()
	}
}

// Start spawns one worker per partition. Calling Start more than once has no effect.
func (d *Dispatcher) Start(ctx context.Context) {
	d.startOnce.Do(func() {
		for partitionIndex := 0; partitionIndex < d.queue.partitionCount(); partitionIndex++ {
			ch := d.queue.partitions[partitionIndex]
			d.wg.Add(1)
			go func() {
				defer d.wg.Done()
				d.runPartitionWorker(ctx, ch)
			}()
		}
	})
}

// Stop signals the workers, waits for them, then delivers whatever is still queued.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
	d.wg.Wait()
	for _, ch := range d.queue.partitions {
		d.drain(ch)
	}
}

func (d *Dispatcher) runPartitionWorker(ctx context.Context, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case j := <-ch:
			d.deliver(j)
		}
	}
}

func (d *Dispatcher) drain(ch <-chan job) {
	for {
		select {
		case j := <-ch:
			d.deliver(j)
		default:
			return
		}
	}
}

func (d *Dispatcher) deliver(j job) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error().
				Bytes("error_stack", debug.Stack()).
				Str("sink_job", j.kind).
				Msg(fmt.Sprintf("sink panic recovered: %v", r))
			metricSinkEventsTotal.WithLabelValues(j.kind, outcomePanicked).Inc()
		}
	}()

	switch j.kind {
	case jobCapture:
		d.target.CaptureException(j.err, j.event)
	case jobBreadcrumb:
		d.target.AddBreadcrumb(j.event)
	}
	metricSinkEventsTotal.WithLabelValues(j.kind, outcomeDelivered).Inc()
}
