package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-server/internal/domain"
)

// TodoRepository defines the interface for todo data operations.
// Every method issues exactly one statement against the todos table.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	GetAll(ctx context.Context) ([]domain.Todo, error)
	// MarkCompleted and Delete report the number of rows affected; zero is
	// not an error.
	MarkCompleted(ctx context.Context, id int32) (int64, error)
	Delete(ctx context.Context, id int32) (int64, error)
}

// gormTodoRepository implements TodoRepository using GORM
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

// Create inserts the row; GORM fills todo.ID from the database afterwards.
func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// GetAll selects every row with no ordering guarantee.
func (r *gormTodoRepository) GetAll(ctx context.Context) ([]domain.Todo, error) {
	var todos []domain.Todo
	result := r.db.WithContext(ctx).Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// MarkCompleted sets status to Completed regardless of its previous value.
func (r *gormTodoRepository) MarkCompleted(ctx context.Context, id int32) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Todo{}).
		Where("id = ?", id).
		Update("status", domain.StatusCompleted)
	return result.RowsAffected, result.Error
}

// Delete removes the row permanently; Todo has no DeletedAt so there is no soft delete.
func (r *gormTodoRepository) Delete(ctx context.Context, id int32) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&domain.Todo{}, id)
	return result.RowsAffected, result.Error
}
