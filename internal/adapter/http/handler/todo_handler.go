package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	. "todos/internal/adapter/http/helper"
	. "todos/internal/adapter/http/validation"
	"todos/internal/core/model/request"
	"todos/internal/core/model/response"
	"todos/internal/core/port"
	"todos/pkg/config"
	. "todos/pkg/tracing"
)

// TodoHandler holds one method per operation. The auth middleware has
// already placed the owner id on the context as x-user-id.
type TodoHandler struct {
	svc    port.TodoService
	Logger *config.AppLogger
}

func NewTodoHandler(svc port.TodoService, logger *config.AppLogger) *TodoHandler {
	return &TodoHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userID := c.GetString("x-user-id")

	span.SetAttributes(attribute.String("user.id", userID))

	items, err := t.svc.List(ctx, userID)

	if err != nil {
		AddSpanError(span, err)

		t.Logger.Logger.Ctx(ctx).Error("Failed to get todos",
			zap.Error(err),
			zap.String("user_id", userID),
		)

		SendInternalError(c, "Error getting todos")
		return
	}

	c.JSON(http.StatusOK, response.ListResponse{Items: items})
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.GetString("x-user-id")

	var params request.CreateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	item, err := t.svc.Create(ctx, userID, params)

	if err != nil {
		t.Logger.Logger.Ctx(ctx).Error("Failed to create todo",
			zap.Error(err),
			zap.String("user_id", userID),
		)

		SendInternalError(c, "Error creating todo")
		return
	}

	c.JSON(http.StatusCreated, response.ItemResponse{Item: item})
}

// UpdateTodo applies the three mutable fields and echoes the request body
// back as the item, matching the wire contract.
func (t *TodoHandler) UpdateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.GetString("x-user-id")
	todoID := c.Param("todoId")

	var params request.UpdateTodoRequest

	if err := c.ShouldBindJSON(&params); err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	if err := Validator.Struct(params); err != nil {
		SendValidationError(c, err)
		return
	}

	if err := t.svc.Update(ctx, userID, todoID, params); err != nil {
		t.Logger.Logger.Ctx(ctx).Error("Failed to update todo",
			zap.Error(err),
			zap.String("todo_id", todoID),
		)

		SendInternalError(c, "Error updating todo")
		return
	}

	c.JSON(http.StatusOK, response.UpdateResponse{Item: params})
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()

	userID := c.GetString("x-user-id")
	todoID := c.Param("todoId")

	if err := t.svc.Delete(ctx, userID, todoID); err != nil {
		t.Logger.Logger.Ctx(ctx).Error("Failed to delete todo",
			zap.Error(err),
			zap.String("todo_id", todoID),
		)

		SendInternalError(c, "Error deleting todo")
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (t *TodoHandler) GenerateUploadURL(c *gin.Context) {
	ctx := c.Request.Context()

	todoID := c.Param("todoId")

	uploadURL, err := t.svc.GenerateUploadURL(ctx, todoID)

	if err != nil {
		t.Logger.Logger.Ctx(ctx).Error("Failed to generate upload url",
			zap.Error(err),
			zap.String("todo_id", todoID),
		)

		SendInternalError(c, "Error generating upload url")
		return
	}

	c.JSON(http.StatusCreated, response.UploadURLResponse{UploadURL: uploadURL})
}
