package service

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"todoapp/internal/adapter/cache/memory"
	"todoapp/internal/adapter/database/sqlite/repository"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/port"
	"todoapp/pkg/db/cursor"
	. "todoapp/pkg/test"
)

type TodoServiceTestSuite struct {
	suite.Suite
	Service *TodoService
	Repo    port.TodoRepository
	Cache   port.CacheRepository
}

func (s *TodoServiceTestSuite) SetupTest() {
	db := InitTestDB()
	codec := cursor.New("test-secret")

	s.Repo = repository.NewTodoRepository(db, codec, nil)
	s.Cache = memory.NewMemoryRepository()
	s.Service = NewTodoService(s.Repo, s.Cache, codec, nil, time.Minute)
}

func (s *TodoServiceTestSuite) TearDownTest() {
	s.Cache.Close()
}

func TestTodoServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoServiceTestSuite))
}

func (s *TodoServiceTestSuite) TestCreate_AssignsIdentityAndTimestamps() {
	todo, err := s.Service.Create(context.Background(), request.CreateTodoRequest{Text: "buy milk"})

	Expect(err).NotTo(HaveOccurred())

	_, err = uuid.Parse(todo.ID)
	Expect(err).NotTo(HaveOccurred())
	Expect(todo.Text).To(Equal("buy milk"))
	Expect(todo.Completed).To(BeFalse())
	Expect(todo.CreatedAt).NotTo(BeZero())
	Expect(todo.UpdatedAt).To(Equal(todo.CreatedAt))
}

func (s *TodoServiceTestSuite) TestList_ReturnsCreatedOrder() {
	first, _ := s.Service.Create(context.Background(), request.CreateTodoRequest{Text: "first"})
	second, _ := s.Service.Create(context.Background(), request.CreateTodoRequest{Text: "second"})

	todos, err := s.Service.List(context.Background())

	Expect(err).NotTo(HaveOccurred())
	Expect(todos).To(HaveLen(2))
	Expect(todos[0].ID).To(Equal(first.ID))
	Expect(todos[1].ID).To(Equal(second.ID))
}

func (s *TodoServiceTestSuite) TestList_CacheInvalidatedByWrites() {
	s.Service.Create(context.Background(), request.CreateTodoRequest{Text: "first"})

	todos, err := s.Service.List(context.Background())
	Expect(err).NotTo(HaveOccurred())
	Expect(todos).To(HaveLen(1))

	// This write lands after List primed the cache; a stale cache would
	// hide it.
	s.Service.Create(context.Background(), request.CreateTodoRequest{Text: "second"})

	todos, err = s.Service.List(context.Background())
	Expect(err).NotTo(HaveOccurred())
	Expect(todos).To(HaveLen(2))
}

func (s *TodoServiceTestSuite) TestListPage_EncodesNextCursor() {
	for _, text := range []string{"one", "two", "three"} {
		_, err := s.Service.Create(context.Background(), request.CreateTodoRequest{Text: text})
		Expect(err).NotTo(HaveOccurred())
	}

	page, err := s.Service.ListPage(context.Background(), 2, "")

	Expect(err).NotTo(HaveOccurred())
	Expect(page.Size).To(Equal(2))
	Expect(page.Pagination.HasNext).To(BeTrue())
	Expect(page.Pagination.NextCursor).NotTo(BeEmpty())

	next, err := s.Service.ListPage(context.Background(), 2, page.Pagination.NextCursor)

	Expect(err).NotTo(HaveOccurred())
	Expect(next.Size).To(Equal(1))
	Expect(next.Pagination.HasNext).To(BeFalse())
	Expect(next.Pagination.NextCursor).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestUpdateByUUID_MergesPartialFields() {
	created, _ := s.Service.Create(context.Background(), request.CreateTodoRequest{Text: "before"})

	completed := true

	updated, err := s.Service.UpdateByUUID(context.Background(), created.ID, request.UpdateTodoRequest{
		Completed: &completed,
	})

	Expect(err).NotTo(HaveOccurred())
	Expect(updated.Text).To(Equal("before"))
	Expect(updated.Completed).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestUpdateByUUID_NotFound() {
	text := "ghost"

	_, err := s.Service.UpdateByUUID(context.Background(), uuid.NewString(), request.UpdateTodoRequest{
		Text: &text,
	})

	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}

func (s *TodoServiceTestSuite) TestDeleteByUUID_Success() {
	created, _ := s.Service.Create(context.Background(), request.CreateTodoRequest{Text: "remove me"})

	Expect(s.Service.DeleteByUUID(context.Background(), created.ID)).To(Succeed())

	todos, err := s.Service.List(context.Background())
	Expect(err).NotTo(HaveOccurred())
	Expect(todos).To(BeEmpty())
}

func (s *TodoServiceTestSuite) TestDeleteByUUID_NotFound() {
	err := s.Service.DeleteByUUID(context.Background(), uuid.NewString())

	Expect(errors.Is(err, domain.ErrTodoNotFound)).To(BeTrue())
}
