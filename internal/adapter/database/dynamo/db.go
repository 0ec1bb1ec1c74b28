package dynamo

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewClient builds the item store client. A non-empty offlineEndpoint
// points it at a local instance instead of the managed service.
func NewClient(ctx context.Context, offlineEndpoint string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)

	if err != nil {
		return nil, err
	}

	if offlineEndpoint != "" {
		slog.Info("creating a local item store client", "endpoint", offlineEndpoint)

		return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(offlineEndpoint)
		}), nil
	}

	return dynamodb.NewFromConfig(cfg), nil
}
