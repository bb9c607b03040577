package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"todoapp/internal/adapter/database/sqlite"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
	tel "todoapp/internal/core/telemetry"
	"todoapp/pkg/db/cursor"
)

type TodoRepository struct {
	db        *sqlite.DB
	cursors   *cursor.Codec
	telemetry port.Telemetry
}

func NewTodoRepository(db *sqlite.DB, cursors *cursor.Codec, telemetry port.Telemetry) port.TodoRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoRepository{
		db:        db,
		cursors:   cursors,
		telemetry: telemetry,
	}
}

func scanTodo(scanner interface {
	Scan(dest ...any) error
}) (domain.Todo, error) {
	var (
		todo      domain.Todo
		uid       string
		deletedAt sql.NullTime
	)

	err := scanner.Scan(&todo.ID, &uid, &todo.Text, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt, &deletedAt)

	if err != nil {
		return domain.Todo{}, err
	}

	todo.UUID, err = uuid.Parse(uid)

	if err != nil {
		return domain.Todo{}, err
	}

	if deletedAt.Valid {
		todo.DeletedAt = &deletedAt.Time
	}

	return todo, nil
}

const todoColumns = "id, uuid, text, completed, created_at, updated_at, deleted_at"

func (tr *TodoRepository) List(ctx context.Context) ([]domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "List", "todo", map[string]interface{}{
		"db.system": "sqlite",
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

	tr.telemetry.RecordRepositoryQuery(ctx, "List", "todo", query, args)

	rows, err := tr.db.QueryContext(ctx, query, args...)

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
		"db.system":         "sqlite",
		"db.table":          "todos",
		"pagination.limit":  limit,
		"pagination.cursor": token,
	})
	defer span.End()

	startTime := time.Now()

	// One extra row decides has-next.
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

	tr.telemetry.RecordRepositoryQuery(ctx, "ListWithCursor", "todo", sqlStr, args)

	rows, err := tr.db.QueryContext(ctx, sqlStr, args...)
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

	span.SetAttributes(map[string]interface{}{
		"db.rows_returned": len(todos),
		"db.has_next":      hasNext,
	})
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

	row := tr.db.QueryRowContext(ctx, query, args...)

	todo, err := scanTodo(row)

	if err == sql.ErrNoRows {
		return domain.Todo{}, fmt.Errorf("%w: %s", domain.ErrTodoNotFound, uid)
	}

	if err != nil {
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "Create", "todo", map[string]interface{}{
		"db.system":    "sqlite",
		"db.table":     "todos",
		"db.operation": "INSERT",
		"todo.id":      todo.UUID.String(),
	})
	defer span.End()

	startTime := time.Now()

	query, args, err := tr.db.QueryBuilder.Insert("todos").
		Columns("uuid", "text", "completed", "created_at", "updated_at").
		Values(todo.UUID.String(), todo.Text, todo.Completed, todo.CreatedAt, todo.UpdatedAt).
		ToSql()

	if err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "Create", startTime, err)
	}

	tr.telemetry.RecordRepositoryQuery(ctx, "Create", "todo", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "Create", startTime, err)
	}

	if id, err := result.LastInsertId(); err == nil {
		todo.ID = int(id)
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "Create", "todo", time.Since(startTime), nil)

	return todo, nil
}

func (tr *TodoRepository) UpdateByUUID(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.telemetry.StartRepositorySpan(ctx, "UpdateByUUID", "todo", map[string]interface{}{
		"db.system":    "sqlite",
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

	tr.telemetry.RecordRepositoryQuery(ctx, "UpdateByUUID", "todo", query, args)

	result, err := tr.db.ExecContext(ctx, query, args...)

	if err != nil {
		return domain.Todo{}, tr.fail(ctx, span, "UpdateByUUID", startTime, err)
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
		err := fmt.Errorf("%w: %s", domain.ErrTodoNotFound, todo.UUID)
		return domain.Todo{}, tr.fail(ctx, span, "UpdateByUUID", startTime, err)
	}

	span.SetStatus("ok", "")
	tr.telemetry.RecordRepositoryOperation(ctx, "UpdateByUUID", "todo", time.Since(startTime), nil)

	return tr.GetByUUID(ctx, todo.UUID.String())
}

func (tr *TodoRepository) DeleteByUUID(ctx context.Context, uid string) error {
	stmt, err := tr.db.PrepareContext(ctx, "UPDATE todos SET deleted_at = ? WHERE uuid = ? AND deleted_at IS NULL")

	if err != nil {
		return err
	}

	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, time.Now().UTC(), uid)

	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()

	if rowsAffected == 0 {
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
