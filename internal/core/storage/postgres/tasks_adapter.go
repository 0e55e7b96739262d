package postgres

import (
	"context"
	"database/sql"
	"fmt"

	v1 "github.com/pulso-lab/pulso/internal/api/v1"
)

// TaskAdapter implements storage.TaskStore for PostgreSQL.
// It shares the connection pool owned by Adapter.
type TaskAdapter struct {
	db *sql.DB
}

// NewTaskAdapter creates a task adapter over an existing connection.
func NewTaskAdapter(db *sql.DB) *TaskAdapter {
	return &TaskAdapter{db: db}
}

func (a *TaskAdapter) ListTasks(ctx context.Context, username string) ([]*v1.Task, error) {
	rows, err := a.db.QueryContext(ctx, queryListTasks, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*v1.Task
	for rows.Next() {
		var task v1.Task
		if err := rows.Scan(
			&task.ID,
			&task.Username,
			&task.Date,
			&task.Time,
			&task.Title,
			&task.Description,
			&task.Platform,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	return tasks, nil
}

func (a *TaskAdapter) SaveTask(ctx context.Context, task *v1.Task) error {
	_, err := a.db.ExecContext(ctx, querySaveTask,
		task.ID,
		task.Username,
		task.Date,
		task.Time,
		task.Title,
		task.Description,
		task.Platform,
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}
