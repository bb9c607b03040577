package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTodoNotFound is returned by repositories when no live row matches the
// given identifier.
var ErrTodoNotFound = errors.New("todo not found")

type Todo struct {
	ID        int
	UUID      uuid.UUID
	Text      string `validate:"required,min=1,max=500"`
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (t *Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         t.ID,
		"uuid":       t.UUID,
		"text":       t.Text,
		"completed":  t.Completed,
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
	}
}

func (t *Todo) IsDeleted() bool {
	return t.DeletedAt != nil
}
