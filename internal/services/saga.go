package services

import (
	"context"
	"fmt"
)

// Logger is the minimal logging surface the services need. cmd wraps the
// application's stdlib loggers behind it; tests pass a no-op.
type Logger interface {
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type compensation struct {
	name string
	fn   func(context.Context) error
}

// Saga runs an ordered sequence of locally-committing writes against the
// document store. Every completed step registers a compensating delete; the
// first failed step triggers the registered compensations in reverse order
// so a partial application is never left visible. Compensations are
// fault-tolerant: a failing compensation is logged and the rest still run.
type Saga struct {
	log   Logger
	comps []compensation
}

func NewSaga(log Logger) *Saga {
	return &Saga{log: log}
}

// Run executes the action. On success the compensation (if any) is recorded
// for a later rollback; on failure all recorded compensations run in reverse
// order and the original error is returned, wrapped with the step name.
func (s *Saga) Run(ctx context.Context, name string, action func(context.Context) error, compensate func(context.Context) error) error {
	if err := action(ctx); err != nil {
		s.Compensate(ctx)
		return fmt.Errorf("%s: %w", name, err)
	}
	if compensate != nil {
		s.comps = append(s.comps, compensation{name: name, fn: compensate})
	}
	return nil
}

// Defer registers a compensation for work already performed outside Run,
// e.g. a batch of concurrent creates.
func (s *Saga) Defer(name string, compensate func(context.Context) error) {
	if compensate == nil {
		return
	}
	s.comps = append(s.comps, compensation{name: name, fn: compensate})
}

// Compensate rolls back every recorded step in reverse order,
// log-and-continue on compensation failures.
func (s *Saga) Compensate(ctx context.Context) {
	for i := len(s.comps) - 1; i >= 0; i-- {
		c := s.comps[i]
		if err := c.fn(ctx); err != nil && s.log != nil {
			s.log.Errorf("saga: compensation %q failed: %v", c.name, err)
		}
	}
	s.comps = nil
}
