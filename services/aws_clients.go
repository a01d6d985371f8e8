package services

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// NewAWSClients builds the DynamoDB and S3 clients from the default
// credential chain. Called once at startup, before anything else is wired.
func NewAWSClients(ctx context.Context, region string) (*dynamodb.Client, *s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), s3.NewFromConfig(cfg), nil
}
