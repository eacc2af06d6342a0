package complaint

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 1000
)

// Complaint is an immutable snapshot. Every change returns a new value,
// so two holders of the same complaint never see divergent state.
type Complaint struct {
	ID          string
	AuthorID    string
	Category    Category
	Urgency     Urgency
	Description string
	Status      Status
	IsAnonymous bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
	// Version increases on every status write and guards concurrent transitions.
	Version int64
}

type NewParams struct {
	ID          string
	AuthorID    string
	Category    Category
	Urgency     Urgency
	Description string
	IsAnonymous bool
	Now         time.Time
}

// New validates params and returns a PENDENTE complaint.
func New(p NewParams) (Complaint, error) {
	if strings.TrimSpace(p.ID) == "" {
		return Complaint{}, fmt.Errorf("complaint id is required")
	}
	authorID := strings.TrimSpace(p.AuthorID)
	if authorID == "" {
		return Complaint{}, ErrAuthorRequired
	}
	if !p.Category.IsValid() {
		return Complaint{}, fmt.Errorf("%w: %q", ErrInvalidCategory, string(p.Category))
	}
	if !p.Urgency.IsValid() {
		return Complaint{}, fmt.Errorf("%w: %q", ErrInvalidUrgency, string(p.Urgency))
	}
	description, err := NormalizeDescription(p.Description)
	if err != nil {
		return Complaint{}, err
	}

	now := p.Now.UTC()
	return Complaint{
		ID:          p.ID,
		AuthorID:    authorID,
		Category:    p.Category,
		Urgency:     p.Urgency,
		Description: description,
		Status:      StatusPending,
		IsAnonymous: p.IsAnonymous,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NormalizeDescription trims raw and checks the character bounds.
func NormalizeDescription(raw string) (string, error) {
	description := strings.TrimSpace(raw)
	length := utf8.RuneCountInString(description)
	if length < MinDescriptionLength || length > MaxDescriptionLength {
		return "", fmt.Errorf(
			"%w: got %d characters, want %d to %d",
			ErrDescriptionLength, length, MinDescriptionLength, MaxDescriptionLength,
		)
	}
	return description, nil
}

func (c Complaint) IsDeleted() bool { return c.DeletedAt != nil }

func (c Complaint) CanBeEdited() bool {
	return c.Status.CanBeEdited() && !c.IsDeleted()
}

// WithStatus applies a transition checked against the status table.
func (c Complaint) WithStatus(target Status, at time.Time) (Complaint, error) {
	if c.IsDeleted() {
		return Complaint{}, ErrAlreadyDeleted
	}
	if err := c.Status.CanTransitionTo(target); err != nil {
		return Complaint{}, err
	}

	next := c.clone()
	next.Status = target
	next.UpdatedAt = at.UTC()
	next.Version = c.Version + 1
	return next, nil
}

func (c Complaint) MarkAsDeleted(at time.Time) (Complaint, error) {
	if c.IsDeleted() {
		return Complaint{}, ErrAlreadyDeleted
	}

	stamp := at.UTC()
	next := c.clone()
	next.DeletedAt = &stamp
	next.UpdatedAt = stamp
	return next, nil
}

// DetailsUpdate carries the author-editable fields. Nil means unchanged.
// Anonymity is fixed at creation.
type DetailsUpdate struct {
	Description *string
	Category    *Category
	Urgency     *Urgency
}

func (c Complaint) WithDetails(update DetailsUpdate, at time.Time) (Complaint, error) {
	if !c.CanBeEdited() {
		return Complaint{}, fmt.Errorf("%w: status %s", ErrNotEditable, c.Status)
	}

	next := c.clone()
	if update.Description != nil {
		description, err := NormalizeDescription(*update.Description)
		if err != nil {
			return Complaint{}, err
		}
		next.Description = description
	}
	if update.Category != nil {
		if !update.Category.IsValid() {
			return Complaint{}, fmt.Errorf("%w: %q", ErrInvalidCategory, string(*update.Category))
		}
		next.Category = *update.Category
	}
	if update.Urgency != nil {
		if !update.Urgency.IsValid() {
			return Complaint{}, fmt.Errorf("%w: %q", ErrInvalidUrgency, string(*update.Urgency))
		}
		next.Urgency = *update.Urgency
	}
	next.UpdatedAt = at.UTC()
	return next, nil
}

func (c Complaint) clone() Complaint {
	out := c
	if c.DeletedAt != nil {
		stamp := *c.DeletedAt
		out.DeletedAt = &stamp
	}
	return out
}
