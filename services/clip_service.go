package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hooparchives_server/access"
	"hooparchives_server/models"
)

// ClipService exposes the Clips table operations. PutClip is a full upsert
// keyed by (leagueId, clipId): re-executing a job after a crash overwrites
// the same record instead of creating a duplicate.
type ClipService struct {
	Dynamo    *DynamoService
	Table     string
	Policy    *access.Policy
	Principal access.Principal
}

// PutClip upserts a clip record.
func (cs *ClipService) PutClip(ctx context.Context, clip models.Clip) error {
	if err := cs.Policy.Authorize(cs.Principal, access.ResourceClips, access.OpWrite); err != nil {
		return err
	}
	return cs.Dynamo.PutItem(ctx, cs.Table, clip)
}

// GetClip retrieves one clip by its full key.
func (cs *ClipService) GetClip(ctx context.Context, leagueID, clipID string) (*models.Clip, error) {
	if err := cs.Policy.Authorize(cs.Principal, access.ResourceClips, access.OpRead); err != nil {
		return nil, err
	}

	key := map[string]types.AttributeValue{
		"leagueId": &types.AttributeValueMemberS{Value: leagueID},
		"clipId":   &types.AttributeValueMemberS{Value: clipID},
	}
	item, err := cs.Dynamo.GetItem(ctx, cs.Table, key)
	if err != nil {
		return nil, err
	}

	var clip models.Clip
	if err := attributevalue.UnmarshalMap(item, &clip); err != nil {
		return nil, fmt.Errorf("failed to unmarshal clip: %w", err)
	}
	return &clip, nil
}

// QueryClips lists every clip in a league through the table's partition key.
func (cs *ClipService) QueryClips(ctx context.Context, leagueID string) ([]models.Clip, error) {
	if err := cs.Policy.Authorize(cs.Principal, access.ResourceClips, access.OpRead); err != nil {
		return nil, err
	}

	items, err := cs.Dynamo.QueryItems(
		ctx,
		cs.Table,
		"leagueId = :leagueId",
		map[string]types.AttributeValue{
			":leagueId": &types.AttributeValueMemberS{Value: leagueID},
		},
		nil,
		100,
	)
	if err != nil {
		return nil, err
	}
	return unmarshalClips(items)
}

// QueryClipsByGame lists a game's clips through the gameId index. The
// partition key keeps the query inside one league; clipId collisions in
// other leagues are unreachable.
func (cs *ClipService) QueryClipsByGame(ctx context.Context, leagueID, gameID string) ([]models.Clip, error) {
	if err := cs.Policy.Authorize(cs.Principal, access.ResourceClips, access.OpRead); err != nil {
		return nil, err
	}

	items, err := cs.Dynamo.QueryItemsWithIndex(
		ctx,
		cs.Table,
		models.ClipsByGameIndex,
		"leagueId = :leagueId AND gameId = :gameId",
		map[string]types.AttributeValue{
			":leagueId": &types.AttributeValueMemberS{Value: leagueID},
			":gameId":   &types.AttributeValueMemberS{Value: gameID},
		},
		nil,
		100,
	)
	if err != nil {
		return nil, err
	}
	return unmarshalClips(items)
}

// QueryClipsByTitle lists clips through the game-title index.
func (cs *ClipService) QueryClipsByTitle(ctx context.Context, leagueID, gameTitle string) ([]models.Clip, error) {
	if err := cs.Policy.Authorize(cs.Principal, access.ResourceClips, access.OpRead); err != nil {
		return nil, err
	}

	items, err := cs.Dynamo.QueryItemsWithIndex(
		ctx,
		cs.Table,
		models.ClipsByTitleIndex,
		"leagueId = :leagueId AND gameTitle = :gameTitle",
		map[string]types.AttributeValue{
			":leagueId":  &types.AttributeValueMemberS{Value: leagueID},
			":gameTitle": &types.AttributeValueMemberS{Value: gameTitle},
		},
		nil,
		100,
	)
	if err != nil {
		return nil, err
	}
	return unmarshalClips(items)
}

func unmarshalClips(items []map[string]types.AttributeValue) ([]models.Clip, error) {
	var clips []models.Clip
	if err := attributevalue.UnmarshalListOfMaps(items, &clips); err != nil {
		return nil, fmt.Errorf("failed to unmarshal clips: %w", err)
	}
	return clips, nil
}
