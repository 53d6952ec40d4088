package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Tomlord1122/todo-server/internal/domain"
	"github.com/Tomlord1122/todo-server/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
// Title is not checked; whatever arrives is handed to the store.
type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// TodoResponse is the wire representation of a Todo; Description encodes as
// null when absent.
type TodoResponse struct {
	ID          int32   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
}

// TodoService defines the operations for managing todos.
type TodoService interface {
	// ListTodos returns every todo in storage order.
	ListTodos(ctx context.Context) ([]TodoResponse, error)

	// CreateTodo inserts a todo with status New.
	CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error)

	// MarkCompleted and DeleteTodo succeed whether or not a row matched id.
	MarkCompleted(ctx context.Context, id int32) error
	DeleteTodo(ctx context.Context, id int32) error
}

type todoService struct {
	repo repository.TodoRepository
	log  zerolog.Logger
}

// NewTodoService creates a todo service on top of repo.
func NewTodoService(repo repository.TodoRepository, log zerolog.Logger) TodoService {
	return &todoService{
		repo: repo,
		log:  log.With().Str("component", "todo_service").Logger(),
	}
}

func toResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:          todo.ID,
		Title:       todo.Title,
		Description: todo.Description,
		Status:      todo.Status,
	}
}

func (s *todoService) ListTodos(ctx context.Context) ([]TodoResponse, error) {
	todos, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	responses := make([]TodoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, toResponse(todo))
	}
	return responses, nil
}

func (s *todoService) CreateTodo(ctx context.Context, req CreateTodoRequest) (*TodoResponse, error) {
	newTodo := &domain.Todo{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.StatusNew,
	}

	if err := s.repo.Create(ctx, newTodo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	response := toResponse(*newTodo)
	return &response, nil
}

func (s *todoService) MarkCompleted(ctx context.Context, id int32) error {
	affected, err := s.repo.MarkCompleted(ctx, id)
	if err != nil {
		return fmt.Errorf("mark todo %d completed: %w", id, err)
	}
	s.log.Debug().Int32("id", id).Int64("rows_affected", affected).Msg("todo marked completed")
	return nil
}

func (s *todoService) DeleteTodo(ctx context.Context, id int32) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	s.log.Debug().Int32("id", id).Int64("rows_affected", affected).Msg("todo deleted")
	return nil
}
