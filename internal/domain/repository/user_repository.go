package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/civil"

	"github.com/oksasatya/user-registry/internal/domain/entity"
)

// ErrNotFound is returned by stores when no user has the requested id.
var ErrNotFound = errors.New("not found")

// UserRepository defines the record store for users and the records they own.
// Implementations must make each single-user write atomic.
type UserRepository interface {
	// FindByID returns ErrNotFound when the id is absent.
	FindByID(ctx context.Context, id int) (*entity.User, error)
	// Create assigns ids to u and its owned records.
	Create(ctx context.Context, u *entity.User) error
	// Upsert writes u at u.ID, replacing owned records wholesale, inserting if absent.
	Upsert(ctx context.Context, u *entity.User) error
	// DeleteByID removes the user and its owned records. Absent ids are not an error.
	DeleteByID(ctx context.Context, id int) error
	// FindByBirthdateBetween is inclusive on both ends and ordered by id.
	FindByBirthdateBetween(ctx context.Context, from, to civil.Date) ([]entity.User, error)
	Ping(ctx context.Context) error
}
