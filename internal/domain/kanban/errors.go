package kanban

import "errors"

var (
	ErrCardNotInBoard   = errors.New("card not in board")
	ErrCardNotInColumn  = errors.New("card not in column")
	ErrInvalidIndex     = errors.New("index must not be negative")
	ErrColumnNotFound   = errors.New("kanban column not found")
	ErrInvalidTemplate  = errors.New("invalid board template")
	ErrTitleRequired    = errors.New("card title is required")
	ErrDuplicateColumns = errors.New("duplicate column name")
)
