package app

import (
	"errors"
	"fmt"
)

type compensation struct {
	name string
	undo func() error
}

// saga records compensating actions for completed steps of a multi-file operation.
// The filesystem has no transactions, so a failure later in the sequence is handled by
// running the recorded compensations in reverse order.
type saga struct {
	steps []compensation
}

func (s *saga) done(name string, undo func() error) {
	s.steps = append(s.steps, compensation{name: name, undo: undo})
}

// rollback undoes every completed step, newest first. It keeps going after a failed
// compensation so as much as possible is restored, and reports all failures.
func (s *saga) rollback() error {
	var errs []error
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.undo(); err != nil {
			errs = append(errs, fmt.Errorf("undo %s: %w", step.name, err))
		}
	}
	s.steps = nil
	return errors.Join(errs...)
}
