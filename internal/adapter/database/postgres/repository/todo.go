package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"todoapp/internal/adapter/database/postgres"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
	tel "todoapp/internal/core/telemetry"
	"todoapp/pkg/db/cursor"
)

type TodoRepository struct {
	db        *postgres.DB
	cursors   *cursor.Codec
	telemetry port.Telemetry
}

func NewTodoRepository(db *postgres.DB, cursors *cursor.Codec, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		cursors:   cursors,
		telemetry: telemetry,
	}
}

const todoColumns = "id, uuid, text, completed, created_at, updated_at, deleted_at"

func scanTodo(row pgx.Row) (domain.Todo, error) {
	var (
		todo      domain.Todo
		uid       string
		deletedAt *time.Time
	)

	err := row.Scan(&todo.ID, &uid, &todo.Text, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt, &deletedAt)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.UUID, err = uuid.Parse(uid)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.DeletedAt = deletedAt

	return todo, nil
}

func (tr *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "List", "todo", map[string]interface{}{
		"db.system": "postgres",
		"db.table":  "todos",
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Select(todoColumns).
		From("todos").
		Where("deleted_at IS NULL").
		OrderBy("created_at ASC, id ASC").
		ToSql()

	if err != nil {
		return nil, tr.fail(ctx, span, "List", startTime, err)
	}

	rows, err := tr.db.Query(ctx, query, args...)

	if err != nil {
		return nil, tr.fail(ctx, span, "List", startTime, err)
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0)

	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, tr.fail(ctx, span, "List", startTime, err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, tr.fail(ctx, span, "List", startTime, err)
	}

	span.SetAttributes(map[string]interface{}{"db.rows_returned": len(todos)})
	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "List", "todo", time.Since(startTime), nil)

	return todos, nil
}

func (tr *TodoRepository) ListWithCursor(ctx context.Context, limit int, token string) ([]domain.Todo, bool, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "ListWithCursor", "todo", map[string]interface{}{
		"db.system":        "postgres",
		"db.table":         "todos",
		"pagination.limit": limit,
	})
	defer span.End()

	startTime := time.Now()

	actualLimit := limit + 1

	query := tr.db.QueryBuilder.Select(todoColumns).
		From("todos").
		Where("deleted_at IS NULL").
		OrderBy("created_at ASC, id ASC").
		Limit(uint64(actualLimit))

	if token != "" {
		datetimeStr, id, err := tr.cursors.Decode(token)
		if err != nil {
			return nil, false, tr.fail(ctx, span, "ListWithCursor", startTime, err)
		}

		datetime, err := time.Parse(time.RFC3339, datetimeStr)
		if err != nil {
			return nil, false, tr.fail(ctx, span, "ListWithCursor", startTime, err)
		}

		query = query.Where(sq.Or{
			sq.Gt{"created_at": datetime},
			sq.And{
				sq.Eq{"created_at": datetime},
				sq.Gt{"id": id},
			},
		})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, false, tr.fail(ctx, span, "ListWithCursor", startTime, err)
	}

	rows, err := tr.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, false, tr.fail(ctx, span, "ListWithCursor", startTime, err)
	}
	defer rows.Close()

	todos := make([]domain.Todo, 0, actualLimit)

	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, false, tr.fail(ctx, span, "ListWithCursor", startTime, err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, false, tr.fail(ctx, span, "ListWithCursor", startTime, err)
	}

	hasNext := len(todos) == actualLimit
	if hasNext {
		todos = todos[:limit]
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "ListWithCursor", "todo", time.Since(startTime), nil)

	return todos, hasNext, nil
}

func (tr *TodoRepository) GetByUUID(ctx context.Context, uid string) (domain.Todo, error) {
	query, args, err := tr.db.QueryBuilder.Select(todoColumns).
		From("todos").
		Where(sq.Eq{"uuid": uid}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := scanTodo(tr.db.QueryRow(ctx, query, args...))

	if err == pgx.ErrNoRows {
		return domain.Todo{}, fmt.Errorf("%w: %s", domain.ErrTodoNotFound, uid)
	}

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "todo", map[string]interface{}{
		"db.system":    "postgres",
		"db.table":     "todos",
		"db.operation": "INSERT",
		"todo.id":      todo.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("uuid", "text", "completed", "created_at", "updated_at").
		Values(todo.UUID.String(), todo.Text, todo.Completed, todo.CreatedAt, todo.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "Create", startTime, err)
	}

	if err := tr.db.QueryRow(ctx, query, args...).Scan(&todo.ID); err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "Create", startTime, err)
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "todo", time.Since(startTime), nil)

	return todo, nil
}

func (tr *TodoRepository) UpdateByUUID(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "UpdateByUUID", "todo", map[string]interface{}{
		"db.system":    "postgres",
		"db.table":     "todos",
		"db.operation": "UPDATE",
		"todo.id":      todo.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Update("todos").
		Set("text", todo.Text).
		Set("completed", todo.Completed).
		Set("updated_at", todo.UpdatedAt).
		Where(sq.Eq{"uuid": todo.UUID.String()}).
		Where("deleted_at IS NULL").
		ToSql()

	if err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "UpdateByUUID", startTime, err)
	}

	tag, err := tr.db.Exec(ctx, query, args...)

	if err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "UpdateByUUID", startTime, err)
	}

	if tag.RowsAffected() == 0 {
		err := fmt.Errorf("%w: %s", domain.ErrTodoNotFound, todo.UUID)
		return domain.Todo{}, tr.fail(ctx, span, "UpdateByUUID", startTime, err)
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "todo", time.Since(startTime), nil)

	return tr.GetByUUID(ctx, todo.UUID.String())
}

func (tr *TodoRepository) DeleteByUUID(ctx context.Context, uid string) error {
	tag, err := tr.db.Exec(ctx, "UPDATE todos SET deleted_at = $1 WHERE uuid = $2 AND deleted_at IS NULL", time.Now().UTC(), uid)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrTodoNotFound, uid)
	}

	return nil
}

func (tr *TodoRepository) fail(ctx context.Context, span port.Span, operation string, startTime time.Time, err error) error {
	span.SetStatus("error", err.Error())
	span.RecordError(err)
	tr.telemetry.RecordRepositoryOperation(ctx, operation, "todo", time.Since(startTime), err)
	return err
}
