package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"
)

func NewTodo[T any](customData ...map[string]any) T {
	instance := fab.New(*new(T))

	defaults := map[string]any{
		"ID":        0,
		"UUID":      uuid.New(),
		"Completed": false,
		"CreatedAt": time.Now().UTC(),
		"UpdatedAt": time.Now().UTC(),
		"DeletedAt": (*time.Time)(nil),
	}

	customData = append([]map[string]any{defaults}, customData...)

	return instance.Build(customData...)
}
