package domain

import "time"

// Todo is one to-do record, partitioned by owner and keyed by item id.
// Attribute names follow the wire contract; dynamodbav tags mirror the
// table schema.
type Todo struct {
	UserID        string `json:"userId" dynamodbav:"userId"`
	TodoID        string `json:"todoId" dynamodbav:"todoId"`
	Name          string `json:"name" dynamodbav:"name" validate:"required,min=1,max=255"`
	DueDate       string `json:"dueDate" dynamodbav:"dueDate" validate:"required"`
	Done          bool   `json:"done" dynamodbav:"done"`
	AttachmentURL string `json:"attachmentUrl" dynamodbav:"attachmentUrl"`
	CreatedAt     string `json:"createdAt" dynamodbav:"createdAt"`
}

// TodoPatch carries the only three fields an update may touch.
type TodoPatch struct {
	Name    string
	DueDate string
	Done    bool
}

func (t *Todo) BelongsToUser(userID string) bool {
	return t.UserID == userID
}

func (t *Todo) CreatedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, t.CreatedAt)
}

func (t *Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"userId":        t.UserID,
		"todoId":        t.TodoID,
		"name":          t.Name,
		"dueDate":       t.DueDate,
		"done":          t.Done,
		"attachmentUrl": t.AttachmentURL,
		"createdAt":     t.CreatedAt,
	}
}
