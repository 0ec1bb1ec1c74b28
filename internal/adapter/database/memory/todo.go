package memory

import (
	"context"
	"sync"

	"todos/internal/core/domain"
	"todos/internal/core/port"
)

// TodoRepository is a map-backed item store with the same contract as the
// managed one: unconditional writes, no-op updates and deletes on missing
// keys. Used by tests and offline runs.
type TodoRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Todo
}

func NewTodoRepository() port.TodoRepository {
	return &TodoRepository{
		items: make(map[string]domain.Todo),
	}
}

func (tr *TodoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	todos := make([]domain.Todo, 0)

	for _, todo := range tr.items {
		if todo.BelongsToUser(userID) {
			todos = append(todos, todo)
		}
	}

	return todos, nil
}

func (tr *TodoRepository) Get(ctx context.Context, userID, todoID string) (domain.Todo, bool, error) {
	tr.mu.RLock()
	defer tr.mu.RUnlock()

	todo, found := tr.items[itemKey(userID, todoID)]

	return todo, found, nil
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	tr.items[itemKey(todo.UserID, todo.TodoID)] = todo

	return todo, nil
}

func (tr *TodoRepository) Update(ctx context.Context, userID, todoID string, patch domain.TodoPatch) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	todo, found := tr.items[itemKey(userID, todoID)]

	if !found {
		// missing key is a silent success, same as the store of record
		return nil
	}

	todo.Name = patch.Name
	todo.DueDate = patch.DueDate
	todo.Done = patch.Done

	tr.items[itemKey(userID, todoID)] = todo

	return nil
}

func (tr *TodoRepository) Delete(ctx context.Context, userID, todoID string) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	delete(tr.items, itemKey(userID, todoID))

	return nil
}

func itemKey(userID, todoID string) string {
	return userID + "/" + todoID
}
