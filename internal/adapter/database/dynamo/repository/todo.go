package repository

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.opentelemetry.io/otel/attribute"

	"todos/internal/core/domain"
	"todos/internal/core/port"
	"todos/pkg/tracing"
)

// TodoRepository stores items in a single table keyed by (userId, todoId),
// with an owner-only secondary index for listing.
type TodoRepository struct {
	client *dynamodb.Client
	table  string
	index  string
	probe  port.Telemetry
}

func NewTodoRepository(client *dynamodb.Client, table, index string, probe port.Telemetry) port.TodoRepository {
	return &TodoRepository{
		client: client,
		table:  table,
		index:  index,
		probe:  probe,
	}
}

// ListByUser queries the owner index. Order is whatever the store
// returns; callers get no ordering guarantee.
func (tr *TodoRepository) ListByUser(ctx context.Context, userID string) ([]domain.Todo, error) {
	ctx, span := tr.probe.StartRepositorySpan(ctx, "Query", "todos", []attribute.KeyValue{
		attribute.String("db.index", tr.index),
		attribute.String("user.id", userID),
	})

	defer span.End()

	out, err := tr.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(tr.table),
		IndexName:              aws.String(tr.index),
		KeyConditionExpression: aws.String("userId = :userId"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userId": &types.AttributeValueMemberS{Value: userID},
		},
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		return nil, fmt.Errorf("querying todos: %w", err)
	}

	items := make([]domain.Todo, 0, len(out.Items))

	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, fmt.Errorf("unmarshalling todos: %w", err)
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(items)))

	return items, nil
}

func (tr *TodoRepository) Get(ctx context.Context, userID, todoID string) (domain.Todo, bool, error) {
	ctx, span := tr.probe.StartRepositorySpan(ctx, "GetItem", "todos", nil)
	defer span.End()

	out, err := tr.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(tr.table),
		Key:       itemKey(userID, todoID),
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		return domain.Todo{}, false, fmt.Errorf("getting todo: %w", err)
	}

	if out.Item == nil {
		return domain.Todo{}, false, nil
	}

	var todo domain.Todo

	if err := attributevalue.UnmarshalMap(out.Item, &todo); err != nil {
		return domain.Todo{}, false, fmt.Errorf("unmarshalling todo: %w", err)
	}

	return todo, true, nil
}

// Create is an unconditional insert; uniqueness rests on the freshly
// generated item id.
func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	ctx, span := tr.probe.StartRepositorySpan(ctx, "PutItem", "todos", nil)
	defer span.End()

	item, err := attributevalue.MarshalMap(todo)

	if err != nil {
		return domain.Todo{}, fmt.Errorf("marshalling todo: %w", err)
	}

	_, err = tr.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(tr.table),
		Item:      item,
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		return domain.Todo{}, fmt.Errorf("creating todo: %w", err)
	}

	return todo, nil
}

// Update sets exactly name, dueDate and done. Existence is not checked;
// "name" needs an expression attribute name because it is reserved.
func (tr *TodoRepository) Update(ctx context.Context, userID, todoID string, patch domain.TodoPatch) error {
	ctx, span := tr.probe.StartRepositorySpan(ctx, "UpdateItem", "todos", nil)
	defer span.End()

	_, err := tr.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(tr.table),
		Key:              itemKey(userID, todoID),
		UpdateExpression: aws.String("SET #name = :name, dueDate = :dueDate, done = :done"),
		ExpressionAttributeNames: map[string]string{
			"#name": "name",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":name":    &types.AttributeValueMemberS{Value: patch.Name},
			":dueDate": &types.AttributeValueMemberS{Value: patch.DueDate},
			":done":    &types.AttributeValueMemberBOOL{Value: patch.Done},
		},
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		return fmt.Errorf("updating todo: %w", err)
	}

	return nil
}

// Delete is unconditional; deleting a key that never existed succeeds.
func (tr *TodoRepository) Delete(ctx context.Context, userID, todoID string) error {
	ctx, span := tr.probe.StartRepositorySpan(ctx, "DeleteItem", "todos", nil)
	defer span.End()

	_, err := tr.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(tr.table),
		Key:       itemKey(userID, todoID),
	})

	if err != nil {
		tracing.AddSpanError(span, err)
		return fmt.Errorf("deleting todo: %w", err)
	}

	return nil
}

func itemKey(userID, todoID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
		"todoId": &types.AttributeValueMemberS{Value: todoID},
	}
}
