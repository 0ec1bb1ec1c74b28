package port

import (
	"context"

	"todos/internal/core/domain"
	"todos/internal/core/model/request"
)

// TodoRepository is the item store: one table partitioned by owner id with
// the item id as sort key, plus an owner-only index for listing.
type TodoRepository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Todo, error)
	Get(ctx context.Context, userID, todoID string) (domain.Todo, bool, error)
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	// Update touches exactly name, dueDate and done. Updating a missing
	// key is a no-op success; callers cannot tell the difference.
	Update(ctx context.Context, userID, todoID string, patch domain.TodoPatch) error
	// Delete is idempotent; a missing key is not an error.
	Delete(ctx context.Context, userID, todoID string) error
}

// AttachmentStore owns the binary objects, keyed by item id within a
// single bucket fixed at construction.
type AttachmentStore interface {
	BucketName() string
	// SignedUploadURL is a local computation; no network call happens.
	SignedUploadURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type TodoService interface {
	List(ctx context.Context, userID string) ([]domain.Todo, error)
	Create(ctx context.Context, userID string, req request.CreateTodoRequest) (domain.Todo, error)
	GenerateUploadURL(ctx context.Context, todoID string) (string, error)
	Update(ctx context.Context, userID, todoID string, req request.UpdateTodoRequest) error
	Delete(ctx context.Context, userID, todoID string) error
}
