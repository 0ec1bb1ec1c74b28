package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"todos/internal/adapter/database/memory"
	"todos/internal/core/domain"
)

var ctx = context.Background()

func TestUpdateMissingKeyIsNoOp(t *testing.T) {
	repo := memory.NewTodoRepository()

	err := repo.Update(ctx, "user-1", "missing", domain.TodoPatch{Name: "x"})

	assert.NoError(t, err)

	todos, _ := repo.ListByUser(ctx, "user-1")
	assert.Empty(t, todos)
}

func TestDeleteMissingKeyIsNoOp(t *testing.T) {
	repo := memory.NewTodoRepository()

	assert.NoError(t, repo.Delete(ctx, "user-1", "missing"))
}

func TestGetReportsAbsence(t *testing.T) {
	repo := memory.NewTodoRepository()

	_, found, err := repo.Get(ctx, "user-1", "missing")

	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCreateThenGet(t *testing.T) {
	repo := memory.NewTodoRepository()

	created, err := repo.Create(ctx, domain.Todo{
		UserID:  "user-1",
		TodoID:  "todo-1",
		Name:    "Task",
		DueDate: "2025-01-01",
	})

	assert.NoError(t, err)

	stored, found, _ := repo.Get(ctx, "user-1", "todo-1")
	assert.True(t, found)
	assert.Equal(t, created, stored)
}
