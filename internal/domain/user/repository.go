package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByIDOrEmail(ctx context.Context, id, email *string) (bool, error)
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	Update(ctx context.Context, id string, passwordHash *string, req UpdateUserRequest) (User, error)
	Delete(ctx context.Context, id string) error
}
