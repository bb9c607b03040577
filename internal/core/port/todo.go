package port

import (
	"context"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/model/response"
)

type TodoRepository interface {
	// List returns all live todos in created-ascending order.
	List(ctx context.Context) ([]domain.Todo, error)
	// ListWithCursor returns one keyset page plus a has-next marker.
	ListWithCursor(ctx context.Context, limit int, cursor string) ([]domain.Todo, bool, error)
	GetByUUID(ctx context.Context, uid string) (domain.Todo, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	UpdateByUUID(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	DeleteByUUID(ctx context.Context, uid string) error
}

type TodoService interface {
	List(ctx context.Context) ([]response.TodoResponse, error)
	ListPage(ctx context.Context, limit int, cursor string) (*response.CursorResponse, error)
	Create(ctx context.Context, req request.CreateTodoRequest) (response.TodoResponse, error)
	UpdateByUUID(ctx context.Context, uid string, req request.UpdateTodoRequest) (response.TodoResponse, error)
	DeleteByUUID(ctx context.Context, uid string) error
}
