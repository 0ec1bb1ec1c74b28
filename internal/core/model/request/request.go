package request

type CreateTodoRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	DueDate string `json:"dueDate" validate:"required"`
}

type UpdateTodoRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	DueDate string `json:"dueDate" validate:"required"`
	Done    bool   `json:"done"`
}
