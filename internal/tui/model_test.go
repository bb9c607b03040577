package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega"

	"todoapp/internal/core/model/request"
	"todoapp/internal/core/model/response"
	"todoapp/internal/optimistic"
)

// stuckRemote never acknowledges a create, so added rows stay in the saving
// state for the duration of the test.
type stuckRemote struct{}

func (stuckRemote) FetchAll(context.Context) ([]response.TodoResponse, error) {
	return nil, nil
}

func (stuckRemote) Create(ctx context.Context, _ string, _ bool) (response.TodoResponse, error) {
	<-ctx.Done()
	return response.TodoResponse{}, ctx.Err()
}

func (stuckRemote) Update(context.Context, string, request.UpdateTodoRequest) (response.TodoResponse, error) {
	return response.TodoResponse{}, nil
}

func (stuckRemote) Delete(context.Context, string) error {
	return nil
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSavingRowRefusesListKeys(t *testing.T) {
	RegisterTestingT(t)

	store := optimistic.NewStore(stuckRemote{})
	defer store.Close()

	_, err := store.Add("feed cat")
	Expect(err).NotTo(HaveOccurred())

	m := NewModel(store)

	updated, _ := m.Update(key("d"))
	m = updated.(Model)
	Expect(m.errMsg).NotTo(BeEmpty())
	Expect(store.Visible()).To(HaveLen(1))

	updated, _ = m.Update(key("e"))
	m = updated.(Model)
	Expect(m.mode).To(Equal(modeList))

	updated, _ = m.Update(key(" "))
	m = updated.(Model)
	Expect(store.Visible()[0].Completed).To(BeFalse())
	Expect(store.Pending()).To(Equal(1))
}

func TestEditKeyIgnoredOnEmptyList(t *testing.T) {
	RegisterTestingT(t)

	store := optimistic.NewStore(stuckRemote{})
	defer store.Close()

	m := NewModel(store)

	updated, _ := m.Update(key("e"))
	m = updated.(Model)
	Expect(m.mode).To(Equal(modeList))
}
