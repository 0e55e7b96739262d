package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
)

// ErrDuplicate is returned when a row with the same unique key already exists.
var ErrDuplicate = errors.New("row already exists")

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("row not found")

// PostFilter narrows a QueryPosts call. Every aggregator asks the store for
// the minimal projection it needs and does the rest in application code.
type PostFilter struct {
	// Username scopes the query to one owner. Required.
	Username string

	// PostType, when non-empty, matches records with that exact type.
	PostType string

	// RequirePostType excludes rows whose tipo_post is empty.
	RequirePostType bool

	// StartDate/EndDate bound the publish date, inclusive on both ends.
	StartDate *time.Time
	EndDate   *time.Time

	// Limit/Offset page through results. Limit 0 returns everything.
	Limit  int
	Offset int
}

// PostStore is the read/write contract for post-performance records.
// The insights engine only ever reads through it.
type PostStore interface {
	// SavePost persists a record and populates its generated fields
	// (interacciones_total, engagement_rate) from the stored row.
	SavePost(ctx context.Context, post *v1.PostRecord) error

	// QueryPosts returns records matching the filter, newest first when
	// paginating (Limit > 0), otherwise in publish-date order.
	QueryPosts(ctx context.Context, filter PostFilter) ([]*v1.PostRecord, error)

	// CountPosts returns the owner's total record count.
	CountPosts(ctx context.Context, username string) (int64, error)

	// ListPostTypes returns the owner's distinct non-empty post types,
	// ascending.
	ListPostTypes(ctx context.Context, username string) ([]string, error)
}

// UserStore is the contract for account persistence.
type UserStore interface {
	// CreateUser inserts a new account and populates its ID.
	// Returns ErrDuplicate if the username or email is already registered.
	CreateUser(ctx context.Context, user *v1.User) error

	// GetUserByEmail returns the account registered under email,
	// or ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*v1.User, error)

	// GetUserByID returns the account with the given ID, or ErrNotFound.
	GetUserByID(ctx context.Context, id int64) (*v1.User, error)

	// ListUsers returns all accounts ordered by ID.
	ListUsers(ctx context.Context) ([]*v1.User, error)

	// UpdateUser rewrites profile fields of the account identified by
	// user.ID. Returns ErrNotFound if no such account exists.
	UpdateUser(ctx context.Context, user *v1.User) error

	// DeleteUser removes an account, returning its username,
	// or ErrNotFound.
	DeleteUser(ctx context.Context, id int64) (string, error)

	// EmailTaken reports whether email belongs to an account other than
	// excludeID.
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
}

// TaskStore is the contract for calendar task persistence.
type TaskStore interface {
	// ListTasks returns the owner's tasks ordered by date and time.
	ListTasks(ctx context.Context, username string) ([]*v1.Task, error)

	// SaveTask persists a new task.
	SaveTask(ctx context.Context, task *v1.Task) error
}
