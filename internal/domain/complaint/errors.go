package complaint

import "errors"

var (
	ErrInvalidStatus          = errors.New("invalid complaint status")
	ErrInvalidCategory        = errors.New("invalid complaint category")
	ErrInvalidUrgency         = errors.New("invalid complaint urgency")
	ErrInvalidRole            = errors.New("invalid role")
	ErrTransitionNotAllowed   = errors.New("transition not allowed")
	ErrDescriptionLength      = errors.New("description length out of range")
	ErrAuthorRequired         = errors.New("author is required")
	ErrAlreadyDeleted         = errors.New("complaint already deleted")
	ErrNotEditable            = errors.New("complaint can no longer be edited")
	ErrHistoryUnchangedStatus = errors.New("history requires previous and new status to differ")
	ErrActorRequired          = errors.New("actor is required")
)
