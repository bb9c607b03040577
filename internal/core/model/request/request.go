package request

// CreateTodoRequest is the POST /todos payload.
type CreateTodoRequest struct {
	Text      string `json:"text" validate:"required,min=1,max=500"`
	Completed bool   `json:"completed"`
}

// UpdateTodoRequest is the PATCH /todos/:id payload. Nil fields are left
// untouched on the record.
type UpdateTodoRequest struct {
	Text      *string `json:"text,omitempty" validate:"omitempty,min=1,max=500"`
	Completed *bool   `json:"completed,omitempty"`
}

func (r UpdateTodoRequest) Empty() bool {
	return r.Text == nil && r.Completed == nil
}
