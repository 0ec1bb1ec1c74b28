package http

import (
	"context"

	"todos/internal/adapter/database/dynamo"
	dynrepo "todos/internal/adapter/database/dynamo/repository"
	"todos/internal/adapter/http/handler"
	s3store "todos/internal/adapter/storage/s3"
	"todos/internal/core/port"
	"todos/internal/core/service"
	"todos/pkg/auth"
	"todos/pkg/config"
)

// Container builds the store clients once per process and passes them
// explicitly down the stack.
type Container struct {
	TodoRepo    port.TodoRepository
	Attachments port.AttachmentStore
	TodoService port.TodoService
	Verifier    port.TokenVerifier

	TodoHandler *handler.TodoHandler
}

func NewContainer(ctx context.Context, cfg *config.AppConfig, logger *config.AppLogger, probe port.Telemetry) (*Container, error) {
	dynamoClient, err := dynamo.NewClient(ctx, cfg.OfflineEndpoint)

	if err != nil {
		return nil, err
	}

	s3Client, err := s3store.NewClient(ctx)

	if err != nil {
		return nil, err
	}

	todoRepo := dynrepo.NewTodoRepository(dynamoClient, cfg.TodosTable, cfg.TodosUserIDIndex, probe)
	attachments := s3store.NewBucketStore(s3Client, cfg.ImagesBucket, cfg.SignedURLExpiration)

	todoSvc := service.NewTodoService(todoRepo, attachments, probe)
	todoHandler := handler.NewTodoHandler(todoSvc, logger)

	verifier := auth.NewJWKSVerifier(cfg.JWKSURL, cfg.JWKSCacheTTL)

	return &Container{
		TodoRepo:    todoRepo,
		Attachments: attachments,
		TodoService: todoSvc,
		Verifier:    verifier,

		TodoHandler: todoHandler,
	}, nil
}
