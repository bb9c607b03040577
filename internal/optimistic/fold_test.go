package optimistic

import (
	"testing"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"todoapp/internal/core/model/response"
)

type FoldSuite struct {
	suite.Suite
	baseline []response.TodoResponse
}

func (s *FoldSuite) SetupTest() {
	s.baseline = []response.TodoResponse{
		{ID: "a", Text: "buy milk"},
		{ID: "b", Text: "walk dog", Completed: true},
		{ID: "c", Text: "write report"},
	}
}

func TestFoldSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(FoldSuite))
}

func ids(todos []response.TodoResponse) []string {
	out := make([]string, len(todos))

	for i, t := range todos {
		out[i] = t.ID
	}

	return out
}

func (s *FoldSuite) TestEmptyLogIsIdentity() {
	visible := Fold(s.baseline, nil)

	Expect(visible).To(Equal(s.baseline))
}

func (s *FoldSuite) TestFoldDoesNotMutateInputs() {
	text := "changed"
	actions := []Action{
		Remove("a"),
		Update("b", Fields{Text: &text}),
	}

	_ = Fold(s.baseline, actions)

	Expect(s.baseline[0].ID).To(Equal("a"))
	Expect(s.baseline[1].Text).To(Equal("walk dog"))
}

func (s *FoldSuite) TestAddAppends() {
	visible := Fold(s.baseline, []Action{
		Add(response.TodoResponse{ID: "tmp:1", Text: "new"}),
	})

	Expect(ids(visible)).To(Equal([]string{"a", "b", "c", "tmp:1"}))
}

func (s *FoldSuite) TestAddWithExistingIDIsNoOp() {
	visible := Fold(s.baseline, []Action{
		AddConfirmed(response.TodoResponse{ID: "b", Text: "dup"}),
	})

	Expect(visible).To(Equal(s.baseline))
}

func (s *FoldSuite) TestRemoveHides() {
	visible := Fold(s.baseline, []Action{Remove("b")})

	Expect(ids(visible)).To(Equal([]string{"a", "c"}))
}

func (s *FoldSuite) TestRemoveAbsentIDIsNoOp() {
	visible := Fold(s.baseline, []Action{Remove("zzz")})

	Expect(visible).To(Equal(s.baseline))
}

func (s *FoldSuite) TestUpdateOverlaysOnlySetFields() {
	completed := true
	visible := Fold(s.baseline, []Action{
		Update("a", Fields{Completed: &completed}),
	})

	Expect(visible[0].Completed).To(BeTrue())
	Expect(visible[0].Text).To(Equal("buy milk"))
}

func (s *FoldSuite) TestUpdateAbsentIDIsNoOp() {
	text := "ghost"
	visible := Fold(s.baseline, []Action{
		Update("zzz", Fields{Text: &text}),
	})

	Expect(visible).To(Equal(s.baseline))
}

func (s *FoldSuite) TestUpdateAfterRemoveIsNoOp() {
	text := "late"
	visible := Fold(s.baseline, []Action{
		Remove("a"),
		Update("a", Fields{Text: &text}),
	})

	Expect(ids(visible)).To(Equal([]string{"b", "c"}))
}

func (s *FoldSuite) TestRestoreAtReinsertsAtPosition() {
	visible := Fold(s.baseline, []Action{
		Remove("b"),
		RestoreAt(1, response.TodoResponse{ID: "b", Text: "walk dog", Completed: true}),
	})

	Expect(visible).To(Equal(s.baseline))
}

func (s *FoldSuite) TestRestoreAtClampsIndex() {
	visible := Fold(s.baseline, []Action{
		RestoreAt(99, response.TodoResponse{ID: "z", Text: "tail"}),
	})

	Expect(ids(visible)).To(Equal([]string{"a", "b", "c", "z"}))

	visible = Fold(s.baseline, []Action{
		RestoreAt(-1, response.TodoResponse{ID: "y", Text: "head"}),
	})

	Expect(ids(visible)).To(Equal([]string{"y", "a", "b", "c"}))
}

func (s *FoldSuite) TestRestoreAtWithVisibleIDIsNoOp() {
	visible := Fold(s.baseline, []Action{
		RestoreAt(0, response.TodoResponse{ID: "c", Text: "write report"}),
	})

	Expect(visible).To(Equal(s.baseline))
}

func (s *FoldSuite) TestAddThenRemoveCancelsOut() {
	visible := Fold(s.baseline, []Action{
		Add(response.TodoResponse{ID: "tmp:1", Text: "oops"}),
		Remove("tmp:1"),
	})

	Expect(visible).To(Equal(s.baseline))
}

func (s *FoldSuite) TestUpdateRollbackRestoresOriginal() {
	changed := "changed"
	original := "buy milk"

	visible := Fold(s.baseline, []Action{
		Update("a", Fields{Text: &changed}),
		Update("a", Fields{Text: &original}),
	})

	Expect(visible).To(Equal(s.baseline))
}
