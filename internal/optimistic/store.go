package optimistic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"todoapp/internal/core/model/request"
	"todoapp/internal/core/model/response"
)

const (
	maxTextLength = 500
	tempIDPrefix  = "tmp:"
)

var (
	ErrEmptyText   = errors.New("todo text must not be empty")
	ErrTextTooLong = fmt.Errorf("todo text must be at most %d characters", maxTextLength)
)

// Remote is the server surface the store reconciles against.
// *apiclient.Client satisfies it.
type Remote interface {
	FetchAll(ctx context.Context) ([]response.TodoResponse, error)
	Create(ctx context.Context, text string, completed bool) (response.TodoResponse, error)
	Update(ctx context.Context, id string, req request.UpdateTodoRequest) (response.TodoResponse, error)
	Delete(ctx context.Context, id string) error
}

type OpKind int

const (
	OpAdd OpKind = iota
	OpToggle
	OpSetText
	OpDelete
	OpRefresh
)

// Event reports the outcome of a dispatched operation. Err is nil on
// success; on failure the store has already rolled the operation back.
type Event struct {
	Kind OpKind
	ID   string
	Err  error
}

type entry struct {
	op      int64
	action  Action
	settled bool
}

// Store keeps a server baseline plus a log of pending actions. The visible
// collection is always Fold(baseline, log), so local edits show up
// immediately while their requests are still in flight.
//
// When a request succeeds its entry is marked settled and stays in the log
// until the next Refresh confirms the baseline reflects it. When a request
// fails the entry is swapped for a settled compensator that undoes the
// optimistic edit, so the rollback composes with every later entry the same
// way the original did.
type Store struct {
	remote Remote

	mu       sync.Mutex
	baseline []response.TodoResponse
	entries  []entry
	closed   bool

	opSeq   atomic.Int64
	tempSeq atomic.Int64

	events chan Event

	ctx    context.Context
	cancel context.CancelFunc
}

func NewStore(remote Remote) *Store {
	ctx, cancel := context.WithCancel(context.Background())

	return &Store{
		remote: remote,
		events: make(chan Event, 16),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Events delivers one Event per settled operation. The channel is buffered
// and the store never blocks on it; a slow consumer drops events, not edits.
func (s *Store) Events() <-chan Event {
	return s.events
}

// IsTempID reports whether id was minted locally and is not yet known to
// the server.
func IsTempID(id string) bool {
	return strings.HasPrefix(id, tempIDPrefix)
}

// Visible returns the current collection: baseline with the pending log
// folded in.
func (s *Store) Visible() []response.TodoResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Fold(s.baseline, s.actionsLocked())
}

type Stats struct {
	Total     int
	Completed int
	Remaining int
}

func (s *Store) Stats() Stats {
	visible := s.Visible()

	stats := Stats{Total: len(visible)}

	for _, todo := range visible {
		if todo.Completed {
			stats.Completed++
		}
	}

	stats.Remaining = stats.Total - stats.Completed

	return stats
}

// Pending reports how many operations are still in flight.
func (s *Store) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := 0

	for _, e := range s.entries {
		if !e.settled {
			pending++
		}
	}

	return pending
}

// Add appends a todo under a temporary id and dispatches the create. Once
// the server confirms, the temporary record is swapped for the acknowledged
// one and the temporary id stops resolving.
func (s *Store) Add(text string) (string, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return "", ErrEmptyText
	}

	if len(text) > maxTextLength {
		return "", ErrTextTooLong
	}

	now := time.Now().UTC()
	tempID := fmt.Sprintf("%s%d-%d", tempIDPrefix, s.tempSeq.Add(1), now.UnixNano())

	record := response.TodoResponse{
		ID:        tempID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}

	op := s.append(Add(record))

	if op < 0 {
		return "", errors.New("store is closed")
	}

	go func() {
		created, err := s.remote.Create(s.ctx, text, false)

		if err != nil {
			s.fail(op, OpAdd, tempID, Remove(tempID), err)
			return
		}

		s.confirm(op, OpAdd, AddConfirmed(created))
	}()

	return tempID, nil
}

// Toggle flips the completed flag of the visible todo with the given id.
// It returns false when the id is not visible or still awaiting its create.
func (s *Store) Toggle(id string) bool {
	// A temp id has no server-side counterpart yet; dispatching it would
	// only round-trip a 404 and roll the edit back.
	if IsTempID(id) {
		return false
	}

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return false
	}

	current, ok := s.lookupLocked(id)

	if !ok {
		s.mu.Unlock()
		return false
	}

	next := !current.Completed
	previous := current.Completed

	op := s.appendLocked(Update(id, Fields{Completed: &next}))
	s.mu.Unlock()

	go s.dispatchUpdate(op, OpToggle, id,
		request.UpdateTodoRequest{Completed: &next},
		Fields{Completed: &previous},
	)

	return true
}

// SetText replaces the text of the visible todo with the given id. It
// returns false when the id is not visible or still awaiting its create.
func (s *Store) SetText(id, text string) (bool, error) {
	text = strings.TrimSpace(text)

	if text == "" {
		return false, ErrEmptyText
	}

	if len(text) > maxTextLength {
		return false, ErrTextTooLong
	}

	if IsTempID(id) {
		return false, nil
	}

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return false, nil
	}

	current, ok := s.lookupLocked(id)

	if !ok {
		s.mu.Unlock()
		return false, nil
	}

	previous := current.Text

	op := s.appendLocked(Update(id, Fields{Text: &text}))
	s.mu.Unlock()

	go s.dispatchUpdate(op, OpSetText, id,
		request.UpdateTodoRequest{Text: &text},
		Fields{Text: &previous},
	)

	return true, nil
}

// Delete hides the visible todo with the given id and dispatches the
// remove. On failure the record is restored at its old position. Deleting a
// todo still awaiting its create returns false.
func (s *Store) Delete(id string) bool {
	if IsTempID(id) {
		return false
	}

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return false
	}

	visible := Fold(s.baseline, s.actionsLocked())
	index := indexOf(visible, id)

	if index < 0 {
		s.mu.Unlock()
		return false
	}

	record := visible[index]

	op := s.appendLocked(Remove(id))
	s.mu.Unlock()

	go func() {
		if err := s.remote.Delete(s.ctx, id); err != nil {
			s.fail(op, OpDelete, id, RestoreAt(index, record), err)
			return
		}

		s.settle(op)
		s.emit(Event{Kind: OpDelete, ID: id})
	}()

	return true
}

// Refresh replaces the baseline with the server's collection and drops the
// settled log entries the new collection already accounts for. Unsettled
// entries survive, and so do settled ones the fetch predates, so a confirmed
// add never vanishes behind a stale GET.
func (s *Store) Refresh(ctx context.Context) error {
	todos, err := s.remote.FetchAll(ctx)

	if err != nil {
		s.emit(Event{Kind: OpRefresh, Err: err})
		return err
	}

	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return errors.New("store is closed")
	}

	s.baseline = todos

	kept := s.entries[:0]

	for _, e := range s.entries {
		if !e.settled || !reflects(todos, e.action) {
			kept = append(kept, e)
		}
	}

	s.entries = kept
	s.mu.Unlock()

	s.emit(Event{Kind: OpRefresh})

	return nil
}

// reflects reports whether the fetched collection already accounts for a
// settled action, meaning dropping the entry leaves the fold result
// unchanged.
func reflects(baseline []response.TodoResponse, action Action) bool {
	switch action.Kind {
	case ActionAddConfirmed:
		return indexOf(baseline, action.ID) >= 0
	case ActionRemove:
		return indexOf(baseline, action.ID) < 0
	case ActionRestoreAt:
		return indexOf(baseline, action.ID) >= 0
	case ActionUpdate:
		i := indexOf(baseline, action.ID)

		if i < 0 {
			return true
		}

		if f := action.Fields.Text; f != nil && baseline[i].Text != *f {
			return false
		}

		if f := action.Fields.Completed; f != nil && baseline[i].Completed != *f {
			return false
		}

		return true
	default:
		return false
	}
}

// Close stops dispatching and settles nothing further. In-flight requests
// are cancelled.
func (s *Store) Close() {
	s.mu.Lock()

	if s.closed {
		s.mu.Unlock()
		return
	}

	s.closed = true
	s.mu.Unlock()

	s.cancel()
}

func (s *Store) dispatchUpdate(op int64, kind OpKind, id string, req request.UpdateTodoRequest, rollback Fields) {
	if _, err := s.remote.Update(s.ctx, id, req); err != nil {
		s.fail(op, kind, id, Update(id, rollback), err)
		return
	}

	s.settle(op)
	s.emit(Event{Kind: kind, ID: id})
}

// confirm replaces the optimistic action with its server-acknowledged form
// and marks the entry settled.
func (s *Store) confirm(op int64, kind OpKind, acked Action) {
	s.mu.Lock()

	for i := range s.entries {
		if s.entries[i].op == op {
			s.entries[i].action = acked
			s.entries[i].settled = true
			break
		}
	}

	s.mu.Unlock()

	s.emit(Event{Kind: kind, ID: acked.ID})
}

// fail swaps the entry for its settled compensator, undoing the optimistic
// edit while keeping later log entries composable.
func (s *Store) fail(op int64, kind OpKind, id string, compensator Action, err error) {
	s.mu.Lock()

	for i := range s.entries {
		if s.entries[i].op == op {
			s.entries[i].action = compensator
			s.entries[i].settled = true
			break
		}
	}

	s.mu.Unlock()

	s.emit(Event{Kind: kind, ID: id, Err: err})
}

func (s *Store) settle(op int64) {
	s.mu.Lock()

	for i := range s.entries {
		if s.entries[i].op == op {
			s.entries[i].settled = true
			break
		}
	}

	s.mu.Unlock()
}

func (s *Store) append(action Action) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return -1
	}

	return s.appendLocked(action)
}

func (s *Store) appendLocked(action Action) int64 {
	op := s.opSeq.Add(1)
	s.entries = append(s.entries, entry{op: op, action: action})

	return op
}

func (s *Store) lookupLocked(id string) (response.TodoResponse, bool) {
	visible := Fold(s.baseline, s.actionsLocked())
	i := indexOf(visible, id)

	if i < 0 {
		return response.TodoResponse{}, false
	}

	return visible[i], true
}

func (s *Store) actionsLocked() []Action {
	actions := make([]Action, len(s.entries))

	for i, e := range s.entries {
		actions[i] = e.action
	}

	return actions
}

func (s *Store) emit(event Event) {
	select {
	case s.events <- event:
	default:
	}
}
