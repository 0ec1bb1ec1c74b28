package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	dbmemory "todos/internal/adapter/database/memory"
	"todos/internal/adapter/http/handler"
	"todos/internal/adapter/http/routes"
	stmemory "todos/internal/adapter/storage/memory"
	"todos/internal/core/domain"
	"todos/internal/core/port"
	"todos/internal/core/service"
	"todos/internal/core/telemetry"
	"todos/pkg/auth"
	"todos/pkg/config"
	factory "todos/pkg/test/factory"
)

var ctx = context.Background()

// stubVerifier authorizes any token and uses it verbatim as the subject,
// so each test picks its owner by picking its bearer token.
type stubVerifier struct{}

func (stubVerifier) Verify(_ context.Context, header string) (auth.Claims, error) {
	if header == "" {
		return auth.Claims{}, auth.ErrAuthHeaderMissing
	}

	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return auth.Claims{}, auth.ErrAuthHeaderMalformed
	}

	token := header[len("Bearer "):]

	if token == "bad-token" {
		return auth.Claims{}, auth.ErrSignatureInvalid
	}

	return auth.Claims{Subject: token}, nil
}

type TodoHandlerSuite struct {
	suite.Suite
	Repo   port.TodoRepository
	Bucket *stmemory.BucketStore
	Router *gin.Engine
}

func (s *TodoHandlerSuite) SetupTest() {
	s.Repo = dbmemory.NewTodoRepository()
	s.Bucket = stmemory.NewBucketStore("todos-images", 300*time.Second)

	todoSvc := service.NewTodoService(s.Repo, s.Bucket, telemetry.NewNoOpProbe())
	todoHandler := handler.NewTodoHandler(todoSvc, config.NewTestLogger())

	s.Router = routes.SetupRouterForTests(routes.HandlersConfig{
		TodoHandler: todoHandler,
	}, stubVerifier{})
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)

	suite.Run(t, new(TodoHandlerSuite))
}

func (s *TodoHandlerSuite) request(method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader

	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	recorder := httptest.NewRecorder()
	s.Router.ServeHTTP(recorder, req)

	return recorder
}

func (s *TodoHandlerSuite) seedTodo(userID, name string) domain.Todo {
	todo, _ := s.Repo.Create(ctx, factory.NewTodo[domain.Todo](map[string]any{
		"UserID":    userID,
		"Name":      name,
		"DueDate":   "2025-06-01",
		"Done":      false,
		"CreatedAt": time.Now().UTC().Format(time.RFC3339),
	}))

	return todo
}

func (s *TodoHandlerSuite) TestCreateTodoScenario() {
	resp := s.request(http.MethodPost, "/todos", "user-1", `{"name":"Buy milk","dueDate":"2025-01-01"}`)

	Expect(resp.Code).To(Equal(http.StatusCreated))

	var body struct {
		Item domain.Todo `json:"item"`
	}

	Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Item.Name).To(Equal("Buy milk"))
	Expect(body.Item.Done).To(BeFalse())
	Expect(body.Item.TodoID).NotTo(BeEmpty())
	Expect(body.Item.AttachmentURL).To(ContainSubstring(body.Item.TodoID))
}

func (s *TodoHandlerSuite) TestCreateTodoRejectsMissingName() {
	resp := s.request(http.MethodPost, "/todos", "user-1", `{"dueDate":"2025-01-01"}`)

	Expect(resp.Code).To(Equal(http.StatusBadRequest))
	Expect(resp.Body.String()).To(ContainSubstring("VALIDATION_ERROR"))
}

func (s *TodoHandlerSuite) TestMissingTokenIsDeniedBeforeHandlers() {
	resp := s.request(http.MethodGet, "/todos", "", "")

	Expect(resp.Code).To(Equal(http.StatusForbidden))
	Expect(resp.Body.String()).NotTo(ContainSubstring("items"))
}

func (s *TodoHandlerSuite) TestInvalidTokenIsDenied() {
	resp := s.request(http.MethodGet, "/todos", "bad-token", "")

	Expect(resp.Code).To(Equal(http.StatusForbidden))
}

func (s *TodoHandlerSuite) TestListIsScopedToTokenSubject() {
	s.seedTodo("user-a", "A1")
	s.seedTodo("user-a", "A2")
	s.seedTodo("user-b", "B1")

	resp := s.request(http.MethodGet, "/todos", "user-b", "")

	Expect(resp.Code).To(Equal(http.StatusOK))

	var body struct {
		Items []domain.Todo `json:"items"`
	}

	Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Items).To(HaveLen(1))
	Expect(body.Items[0].Name).To(Equal("B1"))
}

func (s *TodoHandlerSuite) TestUpdateEchoesRequestBody() {
	todo := s.seedTodo("user-1", "Before")

	resp := s.request(http.MethodPatch, "/todos/"+todo.TodoID, "user-1", `{"name":"x","dueDate":"2024-01-01","done":true}`)

	Expect(resp.Code).To(Equal(http.StatusOK))

	var body struct {
		Item struct {
			Name    string `json:"name"`
			DueDate string `json:"dueDate"`
			Done    bool   `json:"done"`
		} `json:"item"`
	}

	Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
	Expect(body.Item.Name).To(Equal("x"))
	Expect(body.Item.DueDate).To(Equal("2024-01-01"))
	Expect(body.Item.Done).To(BeTrue())

	stored, found, _ := s.Repo.Get(ctx, "user-1", todo.TodoID)
	Expect(found).To(BeTrue())
	Expect(stored.Name).To(Equal("x"))
}

func (s *TodoHandlerSuite) TestDeleteReturnsEmptyObject() {
	todo := s.seedTodo("user-1", "Doomed")

	resp := s.request(http.MethodDelete, "/todos/"+todo.TodoID, "user-1", "")

	Expect(resp.Code).To(Equal(http.StatusOK))
	Expect(resp.Body.String()).To(MatchJSON(`{}`))

	_, found, _ := s.Repo.Get(ctx, "user-1", todo.TodoID)
	Expect(found).To(BeFalse())
}

func (s *TodoHandlerSuite) TestDeleteUnknownIdSucceeds() {
	resp := s.request(http.MethodDelete, "/todos/never-created", "user-1", "")

	Expect(resp.Code).To(Equal(http.StatusOK))
}

func (s *TodoHandlerSuite) TestGenerateUploadURL() {
	resp := s.request(http.MethodPost, "/todos/abc/attachment", "user-1", "")

	Expect(resp.Code).To(Equal(http.StatusCreated))

	var body struct {
		UploadURL string `json:"uploadUrl"`
	}

	Expect(json.Unmarshal(resp.Body.Bytes(), &body)).To(Succeed())
	Expect(body.UploadURL).To(ContainSubstring("/abc?"))
	Expect(body.UploadURL).To(ContainSubstring("X-Amz-Expires=300"))
}

func (s *TodoHandlerSuite) TestResponsesCarryPermissiveCORSHeader() {
	resp := s.request(http.MethodGet, "/todos", "user-1", "")

	Expect(resp.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
}
