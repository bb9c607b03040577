package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"todoapp/internal/core/domain"
	"todoapp/pkg/db/cursor"
	. "todoapp/pkg/test"
	"todoapp/pkg/test/factory"
)

type TodoRepositoryTestSuite struct {
	suite.Suite
	Repo *TodoRepository
}

func (s *TodoRepositoryTestSuite) SetupTest() {
	db := InitTestDB()
	s.Repo = NewTodoRepository(db, cursor.New("test-secret"), nil).(*TodoRepository)
}

func TestTodoRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoRepositoryTestSuite))
}

func (s *TodoRepositoryTestSuite) createTodo(custom map[string]any) domain.Todo {
	todo := factory.NewTodo[domain.Todo](custom)

	saved, err := s.Repo.Create(context.Background(), todo)
	Expect(err).NotTo(HaveOccurred())

	return saved
}

func (s *TodoRepositoryTestSuite) TestList_Empty() {
	todos, err := s.Repo.List(context.Background())

	Expect(err).NotTo(HaveOccurred())
	Expect(todos).To(BeEmpty())
}

func (s *TodoRepositoryTestSuite) TestList_OrdersByCreatedAtThenID() {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	s.createTodo(map[string]any{"Text": "second", "CreatedAt": base.Add(time.Hour)})
	s.createTodo(map[string]any{"Text": "first", "CreatedAt": base})
	s.createTodo(map[string]any{"Text": "third", "CreatedAt": base.Add(time.Hour)})

	todos, err := s.Repo.List(context.Background())

	Expect(err).NotTo(HaveOccurred())
	Expect(todos).To(HaveLen(3))
	Expect(todos[0].Text).To(Equal("first"))
	Expect(todos[1].Text).To(Equal("second"))
	Expect(todos[2].Text).To(Equal("third"))
	Expect(todos[1].ID).To(BeNumerically("<", todos[2].ID))
}

func (s *TodoRepositoryTestSuite) TestList_ExcludesSoftDeleted() {
	kept := s.createTodo(map[string]any{"Text": "kept"})
	gone := s.createTodo(map[string]any{"Text": "gone"})

	Expect(s.Repo.DeleteByUUID(context.Background(), gone.UUID.String())).To(Succeed())

	todos, err := s.Repo.List(context.Background())

	Expect(err).NotTo(HaveOccurred())
	Expect(todos).To(HaveLen(1))
	Expect(todos[0].UUID).To(Equal(kept.UUID))
}

func (s *TodoRepositoryTestSuite) TestListWithCursor_Pagination() {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	for i, text := range []string{"one", "two", "three", "four", "five"} {
		s.createTodo(map[string]any{"Text": text, "CreatedAt": base.Add(time.Duration(i) * time.Minute)})
	}

	firstPage, hasNext, err := s.Repo.ListWithCursor(context.Background(), 2, "")

	Expect(err).NotTo(HaveOccurred())
	Expect(hasNext).To(BeTrue())
	Expect(firstPage).To(HaveLen(2))
	Expect(firstPage[0].Text).To(Equal("one"))
	Expect(firstPage[1].Text).To(Equal("two"))

	last := firstPage[len(firstPage)-1]
	token := cursor.New("test-secret").Encode(last.CreatedAt.Format(time.RFC3339), last.ID)

	secondPage, hasNext, err := s.Repo.ListWithCursor(context.Background(), 2, token)

	Expect(err).NotTo(HaveOccurred())
	Expect(hasNext).To(BeTrue())
	Expect(secondPage[0].Text).To(Equal("three"))
	Expect(secondPage[1].Text).To(Equal("four"))
}

func (s *TodoRepositoryTestSuite) TestListWithCursor_LastPage() {
	s.createTodo(map[string]any{"Text": "only"})

	todos, hasNext, err := s.Repo.ListWithCursor(context.Background(), 10, "")

	Expect(err).NotTo(HaveOccurred())
	Expect(hasNext).To(BeFalse())
	Expect(todos).To(HaveLen(1))
}

func (s *TodoRepositoryTestSuite) TestListWithCursor_RejectsForgedToken() {
	_, _, err := s.Repo.ListWithCursor(context.Background(), 10, "bogus.token")

	Expect(err).To(HaveOccurred())
}

func (s *TodoRepositoryTestSuite) TestCreate_Success() {
	todo, err := s.Repo.Create(context.Background(), domain.Todo{
		UUID:      uuid.New(),
		Text:      "buy milk",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})

	Expect(err).NotTo(HaveOccurred())
	Expect(todo.ID).To(BeNumerically(">", 0))
	Expect(todo.Text).To(Equal("buy milk"))
	Expect(todo.Completed).To(BeFalse())
}

func (s *TodoRepositoryTestSuite) TestGetByUUID_Success() {
	created := s.createTodo(map[string]any{"Text": "find me"})

	found, err := s.Repo.GetByUUID(context.Background(), created.UUID.String())

	Expect(err).NotTo(HaveOccurred())
	Expect(found.UUID).To(Equal(created.UUID))
	Expect(found.Text).To(Equal("find me"))
}

func (s *TodoRepositoryTestSuite) TestGetByUUID_NotFound() {
	_, err := s.Repo.GetByUUID(context.Background(), uuid.NewString())

	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestUpdateByUUID_Success() {
	created := s.createTodo(map[string]any{"Text": "before"})

	created.Text = "after"
	created.Completed = true
	created.UpdatedAt = time.Now().UTC()

	updated, err := s.Repo.UpdateByUUID(context.Background(), created)

	Expect(err).NotTo(HaveOccurred())
	Expect(updated.Text).To(Equal("after"))
	Expect(updated.Completed).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestUpdateByUUID_NotFound() {
	_, err := s.Repo.UpdateByUUID(context.Background(), domain.Todo{
		UUID:      uuid.New(),
		Text:      "ghost",
		UpdatedAt: time.Now().UTC(),
	})

	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestDeleteByUUID_Success() {
	created := s.createTodo(map[string]any{"Text": "remove me"})

	Expect(s.Repo.DeleteByUUID(context.Background(), created.UUID.String())).To(Succeed())

	_, err := s.Repo.GetByUUID(context.Background(), created.UUID.String())
	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestDeleteByUUID_NotFound() {
	err := s.Repo.DeleteByUUID(context.Background(), uuid.NewString())

	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}

func (s *TodoRepositoryTestSuite) TestDeleteByUUID_Twice() {
	created := s.createTodo(map[string]any{"Text": "remove me"})

	Expect(s.Repo.DeleteByUUID(context.Background(), created.UUID.String())).To(Succeed())

	err := s.Repo.DeleteByUUID(context.Background(), created.UUID.String())
	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}
