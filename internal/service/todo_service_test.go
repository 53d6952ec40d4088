package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-server/internal/domain"
)

// memoryRepo is an in-memory TodoRepository.
type memoryRepo struct {
	mu     sync.Mutex
	nextID int32
	rows   map[int32]domain.Todo
	err    error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: map[int32]domain.Todo{}}
}

func (m *memoryRepo) Create(_ context.Context, todo *domain.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	todo.ID = m.nextID
	m.rows[todo.ID] = *todo
	return nil
}

func (m *memoryRepo) GetAll(_ context.Context) ([]domain.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Todo, 0, len(m.rows))
	for _, td := range m.rows {
		out = append(out, td)
	}
	return out, nil
}

func (m *memoryRepo) MarkCompleted(_ context.Context, id int32) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	td, ok := m.rows[id]
	if !ok {
		return 0, nil
	}
	td.Status = domain.StatusCompleted
	m.rows[id] = td
	return 1, nil
}

func (m *memoryRepo) Delete(_ context.Context, id int32) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	if _, ok := m.rows[id]; !ok {
		return 0, nil
	}
	delete(m.rows, id)
	return 1, nil
}

func strPtr(s string) *string { return &s }

func TestCreateTodo(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewTodoService(repo, zerolog.Nop())

	resp, err := svc.CreateTodo(context.Background(), CreateTodoRequest{Title: "Buy milk"})
	require.NoError(t, err)

	assert.Equal(t, int32(1), resp.ID)
	assert.Equal(t, "Buy milk", resp.Title)
	assert.Nil(t, resp.Description)
	assert.Equal(t, domain.StatusNew, resp.Status)
	assert.Equal(t, domain.StatusNew, repo.rows[1].Status)
}

func TestCreateTodoPassesEmptyTitleThrough(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewTodoService(repo, zerolog.Nop())

	resp, err := svc.CreateTodo(context.Background(), CreateTodoRequest{Description: strPtr("no title")})
	require.NoError(t, err)
	assert.Empty(t, resp.Title)
	assert.Equal(t, "no title", *resp.Description)
}

func TestListTodos(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewTodoService(repo, zerolog.Nop())
	ctx := context.Background()

	empty, err := svc.ListTodos(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "Buy milk", Description: strPtr("2 litres")})
	require.NoError(t, err)

	todos, err := svc.ListTodos(ctx)
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, *created, todos[0])
}

func TestMarkCompletedIgnoresMissingRows(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewTodoService(repo, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "Buy milk"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkCompleted(ctx, created.ID))
	require.NoError(t, svc.MarkCompleted(ctx, created.ID))
	require.NoError(t, svc.MarkCompleted(ctx, 999))

	assert.Equal(t, domain.StatusCompleted, repo.rows[created.ID].Status)
}

func TestDeleteTodoTwice(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewTodoService(repo, zerolog.Nop())
	ctx := context.Background()

	created, err := svc.CreateTodo(ctx, CreateTodoRequest{Title: "Buy milk"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTodo(ctx, created.ID))
	require.NoError(t, svc.DeleteTodo(ctx, created.ID))

	todos, err := svc.ListTodos(ctx)
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestStorageErrorsAreWrapped(t *testing.T) {
	boom := errors.New("connection refused")
	repo := newMemoryRepo()
	repo.err = boom
	svc := NewTodoService(repo, zerolog.Nop())
	ctx := context.Background()

	_, err := svc.ListTodos(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "list todos")

	_, err = svc.CreateTodo(ctx, CreateTodoRequest{Title: "x"})
	assert.ErrorIs(t, err, boom)

	err = svc.MarkCompleted(ctx, 3)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "mark todo 3 completed")

	err = svc.DeleteTodo(ctx, 3)
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "delete todo 3")
}

func TestFetchUser(t *testing.T) {
	assert.Equal(t, UserResponse{ID: 42, Username: domain.PlaceholderUsername}, FetchUser(42))
}
