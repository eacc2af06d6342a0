package ports

import (
	"context"
	"errors"
	"time"

	"condoqueixas/internal/domain/complaint"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID        string
	Name      string
	Email     string
	Role      complaint.Role
	Block     string
	Apartment string
	CreatedAt time.Time
}

func (u User) Author() Author {
	return Author{ID: u.ID, Name: u.Name, Block: u.Block, Apartment: u.Apartment}
}

type UserDirectory interface {
	Save(ctx context.Context, user User) error
	FindByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
}
