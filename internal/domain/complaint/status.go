package complaint

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending  Status = "PENDENTE"
	StatusInReview Status = "EM_ANALISE"
	StatusResolved Status = "RESOLVIDA"
	StatusRejected Status = "REJEITADA"
)

// transitions is the only source of legal status changes.
var transitions = map[Status][]Status{
	StatusPending:  {StatusInReview, StatusRejected},
	StatusInReview: {StatusResolved, StatusRejected},
	StatusResolved: nil,
	StatusRejected: nil,
}

func Statuses() []Status {
	return []Status{StatusPending, StatusInReview, StatusResolved, StatusRejected}
}

func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := transitions[candidate]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return candidate, nil
}

func (s Status) String() string { return string(s) }

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) CanBeEdited() bool { return s == StatusPending }

func (s Status) IsActive() bool { return s == StatusPending || s == StatusInReview }

func (s Status) IsCompleted() bool { return s == StatusResolved || s == StatusRejected }

// AllowedTransitions returns a copy of the targets reachable from s.
func (s Status) AllowedTransitions() []Status {
	allowed := transitions[s]
	out := make([]Status, len(allowed))
	copy(out, allowed)
	return out
}

func (s Status) CanTransitionTo(target Status) error {
	if !s.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(s))
	}
	if !target.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, string(target))
	}
	for _, allowed := range transitions[s] {
		if allowed == target {
			return nil
		}
	}
	return fmt.Errorf("%w from %s to %s", ErrTransitionNotAllowed, s, target)
}
