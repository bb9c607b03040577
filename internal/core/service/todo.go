package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/model/response"
	"todoapp/internal/core/port"
	tel "todoapp/internal/core/telemetry"
	"todoapp/internal/core/util"
	"todoapp/pkg/db/cursor"
)

const (
	listCacheKey    = "todos:list"
	todoCachePrefix = "todos:"
)

type TodoService struct {
	repo      port.TodoRepository
	cache     port.CacheRepository
	cursors   *cursor.Codec
	telemetry port.Telemetry
	cacheTTL  time.Duration
}

func NewTodoService(repo port.TodoRepository, cache port.CacheRepository, cursors *cursor.Codec, telemetry port.Telemetry, cacheTTL time.Duration) *TodoService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TodoService{
		repo:      repo,
		cache:     cache,
		cursors:   cursors,
		telemetry: telemetry,
		cacheTTL:  cacheTTL,
	}
}

// List returns every live todo in created-ascending order, read through the
// list cache when one is configured.
func (ts *TodoService) List(ctx context.Context) ([]response.TodoResponse, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "List", nil)
	defer span.End()

	if ts.cache != nil {
		if cached, err := ts.cache.Get(ctx, listCacheKey); err == nil && cached != nil {
			var data []response.TodoResponse
			if err := json.Unmarshal(cached, &data); err == nil {
				span.SetAttributes(map[string]interface{}{"cache.hit": true})
				return data, nil
			}
		}
	}

	rows, err := ts.repo.List(ctx)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return nil, err
	}

	data := make([]response.TodoResponse, 0, len(rows))

	for _, todo := range rows {
		data = append(data, response.NewTodoResponse(todo))
	}

	if ts.cache != nil {
		if encoded, err := json.Marshal(data); err == nil {
			if err := ts.cache.Set(ctx, listCacheKey, encoded, ts.cacheTTL); err != nil {
				slog.Warn("failed to prime list cache", "error", err)
			}
		}
	}

	span.SetStatus("ok", "")
	return data, nil
}

// ListPage returns one signed-cursor page.
func (ts *TodoService) ListPage(ctx context.Context, limit int, token string) (*response.CursorResponse, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "ListPage", map[string]interface{}{
		"pagination.limit": limit,
	})
	defer span.End()

	rows, hasNext, err := ts.repo.ListWithCursor(ctx, limit, token)

	data := make([]response.TodoResponse, 0, len(rows))

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)

		dataBytes, _ := util.Serialize(data)
		return &response.CursorResponse{Size: 0, Data: dataBytes}, err
	}

	for _, todo := range rows {
		data = append(data, response.NewTodoResponse(todo))
	}

	var nextCursor string

	if hasNext && len(rows) > 0 {
		last := rows[len(rows)-1]
		nextCursor = ts.cursors.Encode(last.CreatedAt.Format(time.RFC3339), last.ID)
	}

	dataBytes, _ := util.Serialize(data)

	resp := response.CursorResponse{
		Size: len(data),
		Data: dataBytes,
	}
	resp.Pagination.HasNext = hasNext
	resp.Pagination.NextCursor = nextCursor

	span.SetStatus("ok", "")
	return &resp, nil
}

func (ts *TodoService) Create(ctx context.Context, req request.CreateTodoRequest) (response.TodoResponse, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "Create", nil)
	defer span.End()

	now := time.Now().UTC()

	newTodo := domain.Todo{
		UUID:      uuid.New(),
		Text:      req.Text,
		Completed: req.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	todo, err := ts.repo.Create(ctx, newTodo)

	if err != nil {
		slog.Error("repository create failed", "error", err, "text", newTodo.Text)
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return response.TodoResponse{}, err
	}

	ts.invalidateListCache(ctx)
	ts.telemetry.RecordBusinessEvent(ctx, "created", "todo", todo.UUID.String(), todo.ToMap())

	span.SetStatus("ok", "")
	return response.NewTodoResponse(todo), nil
}

// UpdateByUUID merges the non-nil request fields into the stored record.
func (ts *TodoService) UpdateByUUID(ctx context.Context, uid string, req request.UpdateTodoRequest) (response.TodoResponse, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "UpdateByUUID", map[string]interface{}{
		"todo.id": uid,
	})
	defer span.End()

	todo, err := ts.repo.GetByUUID(ctx, uid)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return response.TodoResponse{}, err
	}

	if req.Text != nil {
		todo.Text = *req.Text
	}

	if req.Completed != nil {
		todo.Completed = *req.Completed
	}

	todo.UpdatedAt = time.Now().UTC()

	todo, err = ts.repo.UpdateByUUID(ctx, todo)

	if err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return response.TodoResponse{}, err
	}

	ts.invalidateListCache(ctx)
	ts.telemetry.RecordBusinessEvent(ctx, "updated", "todo", uid, map[string]interface{}{
		"updated_at": todo.UpdatedAt,
	})

	span.SetStatus("ok", "")
	return response.NewTodoResponse(todo), nil
}

func (ts *TodoService) DeleteByUUID(ctx context.Context, uid string) error {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "todo", "DeleteByUUID", map[string]interface{}{
		"todo.id": uid,
	})
	defer span.End()

	if err := ts.repo.DeleteByUUID(ctx, uid); err != nil {
		span.SetStatus("error", err.Error())
		span.RecordError(err)
		return err
	}

	ts.invalidateListCache(ctx)
	ts.telemetry.RecordBusinessEvent(ctx, "deleted", "todo", uid, nil)

	span.SetStatus("ok", "")
	return nil
}

func (ts *TodoService) invalidateListCache(ctx context.Context) {
	if ts.cache == nil {
		return
	}

	if err := ts.cache.DeleteByPrefix(ctx, todoCachePrefix); err != nil {
		slog.Warn("failed to invalidate list cache", "error", err)
	}
}
