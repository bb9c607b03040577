package handler

import (
	"errors"
	"net/http"
	"strconv"

	"todoapp/internal/adapter/http/helper"
	"todoapp/internal/adapter/http/validation"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/port"
	"todoapp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *logger.Logger
}

func NewTodoHandler(svc port.TodoService, log *logger.Logger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		Logger: log,
	}
}

// GetAllTodos handles GET /todos: a bare array of todos, created ascending.
func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx := c.Request.Context()

	data, err := t.svc.List(ctx)

	if err != nil {
		if t.Logger != nil {
			t.Logger.Ctx(ctx).Error("failed to list todos", zap.Error(err))
		}

		helper.SendInternalError(c, "Error getting todos")
		return
	}

	c.JSON(http.StatusOK, data)
}

// GetTodosPage handles GET /todos/page with signed keyset pagination.
func (t *TodoHandler) GetTodosPage(c *gin.Context) {
	ctx := c.Request.Context()

	token := c.Query("cursor")
	limit, _ := strconv.Atoi(c.Query("limit"))

	if limit <= 0 {
		limit = 10
	}

	data, err := t.svc.ListPage(ctx, limit, token)

	if err != nil {
		if t.Logger != nil {
			t.Logger.Ctx(ctx).Error("failed to page todos",
				zap.Error(err),
				zap.Int("limit", limit),
			)
		}

		helper.SendBadRequestError(c, "cursor", err.Error())
		return
	}

	c.JSON(http.StatusOK, data)
}

// CreateTodo handles POST /todos: 201 with the canonical record.
func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.CreateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	todo, err := t.svc.Create(ctx, params)

	if err != nil {
		if t.Logger != nil {
			t.Logger.Ctx(ctx).Error("failed to create todo", zap.Error(err))
		}

		helper.SendBadRequestError(c, "creation", err.Error())
		return
	}

	c.JSON(http.StatusCreated, todo)
}

// UpdateTodo handles PATCH /todos/:id: partial update, 200 with the record.
func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	var params request.UpdateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		helper.SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if params.Empty() {
		helper.SendBadRequestError(c, "request", "No fields to update")
		return
	}

	if err := validation.Validator.Struct(params); err != nil {
		helper.SendValidationError(c, err)
		return
	}

	todo, err := t.svc.UpdateByUUID(ctx, c.Param("id"), params)

	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			helper.SendNotFoundError(c, err.Error())
			return
		}

		helper.SendBadRequestError(c, "update", err.Error())
		return
	}

	c.JSON(http.StatusOK, todo)
}

// DeleteTodo handles DELETE /todos/:id: 204 on success.
func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()

	err := t.svc.DeleteByUUID(ctx, c.Param("id"))

	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			helper.SendNotFoundError(c, err.Error())
			return
		}

		if t.Logger != nil {
			t.Logger.Ctx(ctx).Error("failed to delete todo",
				zap.Error(err),
				zap.String("todo_id", c.Param("id")),
			)
		}

		helper.SendInternalError(c, "Error deleting todo")
		return
	}

	c.Status(http.StatusNoContent)
}
