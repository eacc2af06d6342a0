package complaint

import (
	"fmt"
	"strings"
)

type Urgency string

const (
	UrgencyLow      Urgency = "BAIXA"
	UrgencyMedium   Urgency = "MEDIA"
	UrgencyHigh     Urgency = "ALTA"
	UrgencyCritical Urgency = "CRITICA"
)

var urgencyPriority = map[Urgency]int{
	UrgencyLow:      1,
	UrgencyMedium:   2,
	UrgencyHigh:     3,
	UrgencyCritical: 4,
}

func Urgencies() []Urgency {
	return []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical}
}

func ParseUrgency(raw string) (Urgency, error) {
	candidate := Urgency(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := urgencyPriority[candidate]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidUrgency, raw)
	}
	return candidate, nil
}

func (u Urgency) String() string { return string(u) }

func (u Urgency) IsValid() bool {
	_, ok := urgencyPriority[u]
	return ok
}

// PriorityLevel is 1 (BAIXA) through 4 (CRITICA); 0 for unknown values.
func (u Urgency) PriorityLevel() int {
	return urgencyPriority[u]
}
