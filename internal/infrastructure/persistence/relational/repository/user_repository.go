package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/errs"
	"condoqueixas/internal/infrastructure/persistence/relational/model"
	"condoqueixas/internal/ports"
)

type UserRepository struct {
	db *gorm.DB
}

var _ ports.UserDirectory = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Save(ctx context.Context, user ports.User) error {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return err
	}

	row := model.User{
		ID:        user.ID,
		Name:      strings.TrimSpace(user.Name),
		Email:     optionalEmail(user.Email),
		Role:      string(user.Role),
		Block:     user.Block,
		Apartment: user.Apartment,
		CreatedAt: user.CreatedAt.UTC(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "role", "block", "apartment"}),
	}).Create(&row).Error; err != nil {
		return errs.Wrap(err, "upsert user")
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (ports.User, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return ports.User{}, err
	}

	var row model.User
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, ports.ErrUserNotFound
		}
		return ports.User{}, errs.Wrap(err, "query user")
	}
	return mapUser(row), nil
}

func (r *UserRepository) List(ctx context.Context) ([]ports.User, error) {
	db, err := dbFromContext(r.db, ctx)
	if err != nil {
		return nil, err
	}

	var rows []model.User
	if err := db.Order("name asc").Find(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "query users")
	}

	users := make([]ports.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, mapUser(row))
	}
	return users, nil
}

// optionalEmail stores a missing email as NULL so the unique index ignores it.
func optionalEmail(email string) *string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	return &email
}

func mapUser(row model.User) ports.User {
	var email string
	if row.Email != nil {
		email = *row.Email
	}
	return ports.User{
		ID:        row.ID,
		Name:      row.Name,
		Email:     email,
		Role:      complaint.Role(row.Role),
		Block:     row.Block,
		Apartment: row.Apartment,
		CreatedAt: row.CreatedAt.UTC(),
	}
}
