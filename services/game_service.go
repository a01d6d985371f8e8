package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hooparchives_server/access"
	"hooparchives_server/models"
)

// GameService exposes the Games table operations. The worker only ever
// reads games; writes belong to the upload flow.
type GameService struct {
	Dynamo    *DynamoService
	Table     string
	Policy    *access.Policy
	Principal access.Principal
}

// GetGame retrieves one game by its full key.
func (gs *GameService) GetGame(ctx context.Context, leagueID, gameID string) (*models.Game, error) {
	if err := gs.Policy.Authorize(gs.Principal, access.ResourceGames, access.OpRead); err != nil {
		return nil, err
	}

	key := map[string]types.AttributeValue{
		"leagueId": &types.AttributeValueMemberS{Value: leagueID},
		"gameId":   &types.AttributeValueMemberS{Value: gameID},
	}
	item, err := gs.Dynamo.GetItem(ctx, gs.Table, key)
	if err != nil {
		return nil, err
	}

	var game models.Game
	if err := attributevalue.UnmarshalMap(item, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}
	return &game, nil
}

// QueryGamesByTitle looks up games through the title index.
func (gs *GameService) QueryGamesByTitle(ctx context.Context, leagueID, title string) ([]models.Game, error) {
	if err := gs.Policy.Authorize(gs.Principal, access.ResourceGames, access.OpRead); err != nil {
		return nil, err
	}

	items, err := gs.Dynamo.QueryItemsWithIndex(
		ctx,
		gs.Table,
		models.GamesByTitleIndex,
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

	var games []models.Game
	if err := attributevalue.UnmarshalListOfMaps(items, &games); err != nil {
		return nil, fmt.Errorf("failed to unmarshal games: %w", err)
	}
	return games, nil
}

// PutGame upserts a game record.
func (gs *GameService) PutGame(ctx context.Context, game models.Game) error {
	if err := gs.Policy.Authorize(gs.Principal, access.ResourceGames, access.OpWrite); err != nil {
		return err
	}
	return gs.Dynamo.PutItem(ctx, gs.Table, game)
}
