package optimistic

import "todoapp/internal/core/model/response"

// Fold derives the visible collection by applying the pending log to the
// baseline, in order. It never mutates its inputs.
//
// Actions targeting ids that are not visible are no-ops, so a stale entry
// (say, an update racing a remove) cannot corrupt the result. RestoreAt
// likewise no-ops when its id is already visible, which keeps ids unique
// when a remove is compensated after the baseline re-learned the record.
func Fold(baseline []response.TodoResponse, actions []Action) []response.TodoResponse {
	visible := make([]response.TodoResponse, len(baseline))
	copy(visible, baseline)

	for _, action := range actions {
		visible = apply(visible, action)
	}

	return visible
}

func apply(visible []response.TodoResponse, action Action) []response.TodoResponse {
	switch action.Kind {
	case ActionAdd, ActionAddConfirmed:
		if indexOf(visible, action.ID) >= 0 {
			return visible
		}

		return append(visible, action.Record)

	case ActionRemove:
		i := indexOf(visible, action.ID)

		if i < 0 {
			return visible
		}

		return append(visible[:i:i], visible[i+1:]...)

	case ActionUpdate:
		i := indexOf(visible, action.ID)

		if i < 0 {
			return visible
		}

		updated := visible[i]

		if action.Fields.Text != nil {
			updated.Text = *action.Fields.Text
		}

		if action.Fields.Completed != nil {
			updated.Completed = *action.Fields.Completed
		}

		out := make([]response.TodoResponse, len(visible))
		copy(out, visible)
		out[i] = updated

		return out

	case ActionRestoreAt:
		if indexOf(visible, action.ID) >= 0 {
			return visible
		}

		at := action.Index

		if at < 0 {
			at = 0
		}

		if at > len(visible) {
			at = len(visible)
		}

		out := make([]response.TodoResponse, 0, len(visible)+1)
		out = append(out, visible[:at]...)
		out = append(out, action.Record)
		out = append(out, visible[at:]...)

		return out
	}

	return visible
}

func indexOf(visible []response.TodoResponse, id string) int {
	for i, todo := range visible {
		if todo.ID == id {
			return i
		}
	}

	return -1
}
