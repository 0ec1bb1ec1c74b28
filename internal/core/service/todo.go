package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"todos/internal/core/domain"
	"todos/internal/core/model/request"
	"todos/internal/core/port"
)

type TodoService struct {
	repo        port.TodoRepository
	attachments port.AttachmentStore
	probe       port.Telemetry
}

func NewTodoService(repo port.TodoRepository, attachments port.AttachmentStore, probe port.Telemetry) *TodoService {
	return &TodoService{
		repo:        repo,
		attachments: attachments,
		probe:       probe,
	}
}

func (ts *TodoService) List(ctx context.Context, userID string) ([]domain.Todo, error) {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo", "List", userID, nil)
	defer span.End()

	todos, err := ts.repo.ListByUser(ctx, userID)

	if err != nil {
		ts.probe.RecordError(ctx, "todo.List", err)
		return nil, err
	}

	return todos, nil
}

// Create assigns the item id and creation timestamp and derives the
// attachment URL. The URL only names where the object will live; the
// object itself is uploaded later through a signed URL.
func (ts *TodoService) Create(ctx context.Context, userID string, req request.CreateTodoRequest) (domain.Todo, error) {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo", "Create", userID, nil)
	defer span.End()

	todoID := uuid.New().String()

	todo := domain.Todo{
		UserID:        userID,
		TodoID:        todoID,
		Name:          req.Name,
		DueDate:       req.DueDate,
		Done:          false,
		AttachmentURL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", ts.attachments.BucketName(), todoID),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}

	span.SetAttributes(attribute.String("todo.id", todoID))

	created, err := ts.repo.Create(ctx, todo)

	if err != nil {
		ts.probe.RecordError(ctx, "todo.Create", err)
		slog.Error("repository create failed", "error", err, "name", todo.Name)

		return domain.Todo{}, err
	}

	ts.probe.RecordBusinessEvent(ctx, "todo.created", "todo", todoID, userID)

	return created, nil
}

// GenerateUploadURL mints an upload URL for whatever item id the caller
// presents. Ownership of the id is not checked: any authenticated user
// can obtain a URL for any item.
func (ts *TodoService) GenerateUploadURL(ctx context.Context, todoID string) (string, error) {
	return ts.attachments.SignedUploadURL(ctx, todoID)
}

func (ts *TodoService) Update(ctx context.Context, userID, todoID string, req request.UpdateTodoRequest) error {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo", "Update", userID, []attribute.KeyValue{
		attribute.String("todo.id", todoID),
	})

	defer span.End()

	err := ts.repo.Update(ctx, userID, todoID, domain.TodoPatch{
		Name:    req.Name,
		DueDate: req.DueDate,
		Done:    req.Done,
	})

	if err != nil {
		ts.probe.RecordError(ctx, "todo.Update", err)
		return err
	}

	return nil
}

// Delete removes the item record, then the attachment object. The two
// deletions are not one transaction: if the second fails the record is
// already gone and the object stays behind.
func (ts *TodoService) Delete(ctx context.Context, userID, todoID string) error {
	ctx, span := ts.probe.StartServiceSpan(ctx, "todo", "Delete", userID, []attribute.KeyValue{
		attribute.String("todo.id", todoID),
	})

	defer span.End()

	if err := ts.repo.Delete(ctx, userID, todoID); err != nil {
		ts.probe.RecordError(ctx, "todo.Delete", err)
		return err
	}

	if err := ts.attachments.Delete(ctx, todoID); err != nil {
		ts.probe.RecordError(ctx, "todo.DeleteAttachment", err)
		slog.Error("attachment delete failed after record delete", "todoId", todoID, "error", err)

		return err
	}

	ts.probe.RecordBusinessEvent(ctx, "todo.deleted", "todo", todoID, userID)

	return nil
}
