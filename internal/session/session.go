// Package session owns the compute -> apply flow of one officer.
//
// The planner and apply workflow are stateless; the session holds the
// computed plan between the two and enforces that an applied plan is never
// re-applied:
//
//	Idle -> Computing -> Computed -> Applying -> Applied | PartiallyApplied | Failed
//
// Applied and PartiallyApplied discard the plan and return to Idle. Failed
// keeps the plan so the apply can be retried without recomputing.
package session

import (
	"context"
	"dock-rebalance-service/internal/domain"
	"errors"
	"fmt"
	"sync"
)

type State string

const (
	Idle             State = "idle"
	Computing        State = "computing"
	Computed         State = "computed"
	Applying         State = "applying"
	Applied          State = "applied"
	PartiallyApplied State = "partially-applied"
	Failed           State = "failed"
)

var (
	ErrBusy           = errors.New("session: operation already in progress")
	ErrNoPlan         = errors.New("session: no computed plan")
	ErrNothingToApply = errors.New("session: plan has no moved entries")
)

// PlanFunc computes the plan for a day and returns its fingerprint.
type PlanFunc func(ctx context.Context, day string) (domain.RebalancePlan, string, error)

// ApplyFunc applies the moved entries of a plan.
type ApplyFunc func(ctx context.Context, plan domain.RebalancePlan, fingerprint string, moved []domain.RebalanceResultEntry) (domain.ApplyOutcome, error)

type Session struct {
	mu          sync.Mutex
	state       State
	plan        *domain.RebalancePlan
	fingerprint string
	last        *domain.ApplyOutcome

	// OnTransition, when set, is called for every state change while the
	// session lock is held. It must not call back into the session.
	OnTransition func(from, to State)
}

func New() *Session {
	return &Session{state: Idle}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Plan returns the currently held plan, if any.
func (s *Session) Plan() (domain.RebalancePlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plan == nil {
		return domain.RebalancePlan{}, false
	}
	return *s.plan, true
}

// LastOutcome returns the outcome of the most recent apply run, if any.
func (s *Session) LastOutcome() (domain.ApplyOutcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return domain.ApplyOutcome{}, false
	}
	return *s.last, true
}

func (s *Session) transition(to State) {
	from := s.state
	s.state = to
	if s.OnTransition != nil && from != to {
		s.OnTransition(from, to)
	}
}

// Compute replaces any held plan with a freshly computed one. A failed
// compute leaves the session Idle with no plan.
func (s *Session) Compute(ctx context.Context, day string, plan PlanFunc) (domain.RebalancePlan, error) {
	s.mu.Lock()
	if s.state == Computing || s.state == Applying {
		s.mu.Unlock()
		return domain.RebalancePlan{}, ErrBusy
	}
	s.plan = nil
	s.fingerprint = ""
	s.transition(Computing)
	s.mu.Unlock()

	p, fp, err := plan(ctx, day)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.transition(Idle)
		return domain.RebalancePlan{}, fmt.Errorf("session: compute %s: %w", day, err)
	}

	s.plan = &p
	s.fingerprint = fp
	s.transition(Computed)
	return p, nil
}

// Apply runs apply over the held plan's moved entries.
func (s *Session) Apply(ctx context.Context, apply ApplyFunc) (domain.ApplyOutcome, error) {
	s.mu.Lock()
	if s.state == Computing || s.state == Applying {
		s.mu.Unlock()
		return domain.ApplyOutcome{}, ErrBusy
	}
	if s.plan == nil || (s.state != Computed && s.state != Failed) {
		s.mu.Unlock()
		return domain.ApplyOutcome{}, ErrNoPlan
	}

	plan, fp := *s.plan, s.fingerprint
	moved := plan.MovedEntries()
	if len(moved) == 0 {
		s.mu.Unlock()
		return domain.ApplyOutcome{}, ErrNothingToApply
	}
	s.transition(Applying)
	s.mu.Unlock()

	outcome, err := apply(ctx, plan, fp, moved)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.last = &outcome

	// Once any entry succeeded the stored dock data is stale, so the plan
	// must not be applied again.
	if outcome.SuccessCount > 0 {
		if outcome.FailCount == 0 && err == nil {
			s.transition(Applied)
		} else {
			s.transition(PartiallyApplied)
		}
		s.plan = nil
		s.fingerprint = ""
		s.transition(Idle)
	} else {
		s.transition(Failed)
	}

	if err != nil {
		return outcome, fmt.Errorf("session: apply: %w", err)
	}
	return outcome, nil
}
