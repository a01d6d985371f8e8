package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hooparchives_server/access"
	"hooparchives_server/models"
)

// PlayerService exposes the Players table operations.
type PlayerService struct {
	Dynamo    *DynamoService
	Table     string
	Policy    *access.Policy
	Principal access.Principal
}

// PutPlayer upserts a player record.
func (ps *PlayerService) PutPlayer(ctx context.Context, player models.Player) error {
	if err := ps.Policy.Authorize(ps.Principal, access.ResourcePlayers, access.OpWrite); err != nil {
		return err
	}
	return ps.Dynamo.PutItem(ctx, ps.Table, player)
}

// QueryPlayersByFullName looks up players through the fullName index.
func (ps *PlayerService) QueryPlayersByFullName(ctx context.Context, leagueID, fullName string) ([]models.Player, error) {
	if err := ps.Policy.Authorize(ps.Principal, access.ResourcePlayers, access.OpRead); err != nil {
		return nil, err
	}

	items, err := ps.Dynamo.QueryItemsWithIndex(
		ctx,
		ps.Table,
		models.PlayersByFullNameIndex,
		"leagueId = :leagueId AND fullName = :fullName",
		map[string]types.AttributeValue{
			":leagueId": &types.AttributeValueMemberS{Value: leagueID},
			":fullName": &types.AttributeValueMemberS{Value: fullName},
		},
		nil,
		100,
	)
	if err != nil {
		return nil, err
	}

	var players []models.Player
	if err := attributevalue.UnmarshalListOfMaps(items, &players); err != nil {
		return nil, fmt.Errorf("failed to unmarshal players: %w", err)
	}
	return players, nil
}
