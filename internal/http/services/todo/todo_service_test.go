package todo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/todolabs/todolist/internal/domain"
	storemem "github.com/todolabs/todolist/internal/store/memory"
)

func newService() Service {
	return NewService(Deps{Todos: storemem.New().Todos()})
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestCreateRequiresTitle(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	_, err := svc.Create(ctx, "u-1", CreateInput{Title: ""})
	require.ErrorIs(t, err, ErrTitleRequired)

	_, err = svc.Create(ctx, "u-1", CreateInput{Title: "   "})
	require.ErrorIs(t, err, ErrTitleRequired)
}

func TestCreateTrimsTitle(t *testing.T) {
	svc := newService()

	created, err := svc.Create(context.Background(), "u-1", CreateInput{Title: "  buy milk  ", Description: "2L"})
	require.NoError(t, err)
	assert.Equal(t, "buy milk", created.Title)
	assert.Equal(t, "2L", created.Description)
	assert.False(t, created.Completed)
	assert.NotEmpty(t, created.ID)
}

func TestUpdateRejectsBlankTitle(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "u-1", CreateInput{Title: "task"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "u-1", created.ID, UpdateInput{Title: strPtr("  ")})
	require.ErrorIs(t, err, ErrTitleRequired)

	// Partial update without title is fine.
	got, err := svc.Update(ctx, "u-1", created.ID, UpdateInput{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, "task", got.Title)
}

func TestOperationsAreUserScoped(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", CreateInput{Title: "secret task"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, "bob", created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
