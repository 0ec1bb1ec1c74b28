package response

import (
	"todos/internal/core/domain"
	"todos/internal/core/model/request"
)

type ListResponse struct {
	Items []domain.Todo `json:"items"`
}

type ItemResponse struct {
	Item domain.Todo `json:"item"`
}

// UpdateResponse echoes the request body back to the caller.
type UpdateResponse struct {
	Item request.UpdateTodoRequest `json:"item"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
