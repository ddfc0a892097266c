package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/slok/ytdlq/internal/log"
	"github.com/slok/ytdlq/internal/model"
	"github.com/slok/ytdlq/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.TaskRepository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
}

// NewRepository creates a new SQLite repository.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	dir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite repository initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// ListTasks returns all the tasks, newest first.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	return listTasks(ctx, r.db)
}

// SaveTasks replaces all the stored tasks in a single transaction.
func (r *Repository) SaveTasks(ctx context.Context, tasks []model.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // Rollback is safe to call after Commit

	if err := saveTasks(ctx, tx, tasks); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	r.logger.Debugf("Saved %d tasks in repository", len(tasks))
	return nil
}

// UpdateTasks reads, mutates and saves the tasks inside a single write transaction.
// The write lock is taken before reading (BEGIN IMMEDIATE), so writers of other
// processes sharing the database wait (up to the busy timeout) instead of having
// their changes overwritten.
func (r *Repository) UpdateTasks(ctx context.Context, mutate func(tasks []model.Task) ([]model.Task, bool)) error {
	// database/sql transactions are deferred, the immediate one needs a pinned connection.
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("could not get connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `BEGIN IMMEDIATE`); err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), `ROLLBACK`)
		}
	}()

	tasks, err := listTasks(ctx, conn)
	if err != nil {
		return err
	}

	tasks, changed := mutate(tasks)
	if !changed {
		return nil
	}

	if err := saveTasks(ctx, conn, tasks); err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, `COMMIT`); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	committed = true

	r.logger.Debugf("Updated %d tasks in repository", len(tasks))
	return nil
}

// querier is satisfied by *sql.DB, *sql.Tx and *sql.Conn.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func listTasks(ctx context.Context, q querier) ([]model.Task, error) {
	query := `
		SELECT id, url, format, status, message, file_path, created_at
		FROM tasks
		ORDER BY position ASC
	`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("could not query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan row: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return tasks, nil
}

func saveTasks(ctx context.Context, q querier, tasks []model.Task) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("could not delete tasks: %w", err)
	}

	insertQuery := `
		INSERT INTO tasks (id, position, url, format, status, message, file_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := q.PrepareContext(ctx, insertQuery)
	if err != nil {
		return fmt.Errorf("could not prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if t.ID == "" {
			return fmt.Errorf("task id is required: %w", model.ErrNotValid)
		}

		_, err := stmt.ExecContext(ctx,
			t.ID,
			i,
			t.URL,
			string(t.Format),
			string(t.Status),
			nullString(t.Message),
			nullString(t.FilePath),
			t.CreatedAt.UnixMilli(),
		)
		if err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed: tasks.") {
				return fmt.Errorf("task %s: %w", t.ID, model.ErrAlreadyExists)
			}
			return fmt.Errorf("could not insert task: %w", err)
		}
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (model.Task, error) {
	var t model.Task
	var format, status string
	var message, filePath sql.NullString
	var createdAt int64

	err := s.Scan(
		&t.ID,
		&t.URL,
		&format,
		&status,
		&message,
		&filePath,
		&createdAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	t.Format = model.Format(format)
	t.Status = model.TaskStatus(status)
	t.CreatedAt = time.UnixMilli(createdAt).UTC()
	if message.Valid {
		t.Message = &message.String
	}
	if filePath.Valid {
		t.FilePath = &filePath.String
	}

	return t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
