package optimistic

import "todoapp/internal/core/model/response"

// ActionKind discriminates the pending-log entries folded over the baseline.
type ActionKind int

const (
	// ActionAdd inserts a locally created todo under a temporary id.
	ActionAdd ActionKind = iota
	// ActionAddConfirmed inserts a server-acknowledged todo that the
	// baseline has not picked up yet.
	ActionAddConfirmed
	// ActionRemove hides the todo with the given id.
	ActionRemove
	// ActionUpdate overlays the set fields onto the todo with the given id.
	ActionUpdate
	// ActionRestoreAt reinserts a previously removed record at its old
	// position. It compensates a failed remove.
	ActionRestoreAt
)

func (k ActionKind) String() string {
	switch k {
	case ActionAdd:
		return "add"
	case ActionAddConfirmed:
		return "add_confirmed"
	case ActionRemove:
		return "remove"
	case ActionUpdate:
		return "update"
	case ActionRestoreAt:
		return "restore_at"
	default:
		return "unknown"
	}
}

// Fields carries the mutable todo attributes of an update. Nil means
// "leave as is".
type Fields struct {
	Text      *string
	Completed *bool
}

// Action is one entry of the pending log.
type Action struct {
	Kind   ActionKind
	ID     string
	Record response.TodoResponse
	Fields Fields
	Index  int
}

func Add(record response.TodoResponse) Action {
	return Action{Kind: ActionAdd, ID: record.ID, Record: record}
}

func AddConfirmed(record response.TodoResponse) Action {
	return Action{Kind: ActionAddConfirmed, ID: record.ID, Record: record}
}

func Remove(id string) Action {
	return Action{Kind: ActionRemove, ID: id}
}

func Update(id string, fields Fields) Action {
	return Action{Kind: ActionUpdate, ID: id, Fields: fields}
}

func RestoreAt(index int, record response.TodoResponse) Action {
	return Action{Kind: ActionRestoreAt, ID: record.ID, Record: record, Index: index}
}
