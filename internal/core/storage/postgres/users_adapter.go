package postgres

import (
	"context"
	"database/sql"
	"fmt"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
	"github.com/pulso-lab/pulso/internal/core/storage"
)

// UserAdapter implements storage.UserStore for PostgreSQL.
// It shares the connection pool owned by Adapter.
type UserAdapter struct {
	db *sql.DB
}

// NewUserAdapter creates a user adapter over an existing connection.
func NewUserAdapter(db *sql.DB) *UserAdapter {
	return &UserAdapter{db: db}
}

func (a *UserAdapter) CreateUser(ctx context.Context, user *v1.User) error {
	err := a.db.QueryRowContext(ctx, queryCreateUser,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Role,
	).Scan(&user.ID)

	if err == sql.ErrNoRows {
		return storage.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (a *UserAdapter) GetUserByEmail(ctx context.Context, email string) (*v1.User, error) {
	user, err := scanUserRow(a.db.QueryRowContext(ctx, queryGetUserByEmail, email))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (a *UserAdapter) GetUserByID(ctx context.Context, id int64) (*v1.User, error) {
	user, err := scanUserRow(a.db.QueryRowContext(ctx, queryGetUserByID, id))
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

func (a *UserAdapter) ListUsers(ctx context.Context) ([]*v1.User, error) {
	rows, err := a.db.QueryContext(ctx, queryListUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*v1.User
	for rows.Next() {
		user, scanErr := scanUserRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", scanErr)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

func (a *UserAdapter) UpdateUser(ctx context.Context, user *v1.User) error {
	var id int64
	err := a.db.QueryRowContext(ctx, queryUpdateUser,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Role,
		user.PasswordHash,
		user.ID,
	).Scan(&id)

	if err == sql.ErrNoRows {
		return storage.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (a *UserAdapter) DeleteUser(ctx context.Context, id int64) (string, error) {
	var username string
	err := a.db.QueryRowContext(ctx, queryDeleteUser, id).Scan(&username)
	if err == sql.ErrNoRows {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to delete user: %w", err)
	}
	return username, nil
}

func (a *UserAdapter) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	var taken bool
	if err := a.db.QueryRowContext(ctx, queryEmailTaken, email, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return taken, nil
}

func scanUserRow(row scanner) (*v1.User, error) {
	var user v1.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.Role,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
