package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hooparchives_server/access"
	"hooparchives_server/models"
)

// DraftService exposes the Drafts table operations.
type DraftService struct {
	Dynamo    *DynamoService
	Table     string
	Policy    *access.Policy
	Principal access.Principal
}

// PutDraft upserts a draft record.
func (ds *DraftService) PutDraft(ctx context.Context, draft models.Draft) error {
	if err := ds.Policy.Authorize(ds.Principal, access.ResourceDrafts, access.OpWrite); err != nil {
		return err
	}
	return ds.Dynamo.PutItem(ctx, ds.Table, draft)
}

// QueryDraftsByTitle looks up drafts through the title index.
func (ds *DraftService) QueryDraftsByTitle(ctx context.Context, leagueID, title string) ([]models.Draft, error) {
	if err := ds.Policy.Authorize(ds.Principal, access.ResourceDrafts, access.OpRead); err != nil {
		return nil, err
	}

	items, err := ds.Dynamo.QueryItemsWithIndex(
		ctx,
		ds.Table,
		models.DraftsByTitleIndex,
		"leagueId = :leagueId AND title = :title",
		map[string]types.AttributeValue{
			":leagueId": &types.AttributeValueMemberS{Value: leagueID},
			":title":    &types.AttributeValueMemberS{Value: title},
		},
		nil,
		100,
	)
	if err != nil {
		return nil, err
	}

	var drafts []models.Draft
	if err := attributevalue.UnmarshalListOfMaps(items, &drafts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal drafts: %w", err)
	}
	return drafts, nil
}
