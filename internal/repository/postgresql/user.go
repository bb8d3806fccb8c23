package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-dashboard-go/internal/domain/user"
	"github.com/cmlabs-hris/payroll-dashboard-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, company_id, email, name, password_hash, role, oauth_provider, oauth_provider_id, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.CompanyID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) || isInvalidInput(err) {
		return user.User{}, user.ErrUserNotFound
	}
	return u, err
}

// LinkGoogleAccount implements user.UserRepository.
func (r *userRepositoryImpl) LinkGoogleAccount(ctx context.Context, googleID string, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET oauth_provider = $1, oauth_provider_id = $2, updated_at = NOW()
		WHERE email = $3
		RETURNING ` + userColumns

	linked, err := scanUser(q.QueryRow(ctx, query, "google", googleID, email))
	if err != nil {
		return user.User{}, fmt.Errorf("failed to link google account: %w", err)
	}
	return linked, nil
}

// ExistsByIDOrEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByIDOrEmail(ctx context.Context, id *string, email *string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var query string
	var arg interface{}

	switch {
	case id != nil && email != nil:
		var exists bool
		err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1 OR email = $2)`, *id, *email).Scan(&exists)
		return exists, err
	case id != nil:
		query = `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`
		arg = *id
	case email != nil:
		query = `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`
		arg = *email
	default:
		return false, nil
	}

	var exists bool
	if err := q.QueryRow(ctx, query, arg).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	if newUser.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return user.User{}, fmt.Errorf("failed to generate user id: %w", err)
		}
		newUser.ID = id.String()
	}

	query := `
		INSERT INTO users (id, company_id, email, name, password_hash, role, oauth_provider, oauth_provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.ID,
		newUser.CompanyID,
		newUser.Email,
		newUser.Name,
		newUser.PasswordHash,
		newUser.Role,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return created, nil
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.QueryRow(ctx, query, email))
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context, filter user.ListUsersFilter) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users`
	var args []interface{}
	if filter.CompanyID != nil {
		query += ` WHERE company_id = $1`
		args = append(args, *filter.CompanyID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, id string, passwordHash *string, req user.UpdateUserRequest) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{}
	args := []interface{}{}
	add := func(col string, val interface{}) {
		args = append(args, val)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		add("name", *req.Name)
	}
	if passwordHash != nil {
		add("password_hash", *passwordHash)
	}
	if req.Role != nil {
		add("role", *req.Role)
	}
	if req.CompanyID != nil {
		add("company_id", *req.CompanyID)
	}
	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := "UPDATE users SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + userColumns

	updated, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.User{}, err
		}
		return user.User{}, fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	return updated, nil
}

// Delete implements user.UserRepository.
func (r *userRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if isInvalidInput(err) {
		return user.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete user with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
