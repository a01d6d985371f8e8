package services

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"hooparchives_server/access"
	"hooparchives_server/models"
)

// StatService exposes the Stats table operations.
type StatService struct {
	Dynamo    *DynamoService
	Table     string
	Policy    *access.Policy
	Principal access.Principal
}

// PutStat upserts a stat line.
func (ss *StatService) PutStat(ctx context.Context, stat models.Stat) error {
	if err := ss.Policy.Authorize(ss.Principal, access.ResourceStats, access.OpWrite); err != nil {
		return err
	}
	return ss.Dynamo.PutItem(ctx, ss.Table, stat)
}

// QueryStatsByPlayer lists a player's stat lines through the playerId index.
func (ss *StatService) QueryStatsByPlayer(ctx context.Context, leagueID, playerID string) ([]models.Stat, error) {
	if err := ss.Policy.Authorize(ss.Principal, access.ResourceStats, access.OpRead); err != nil {
		return nil, err
	}
	return ss.queryIndex(ctx, models.StatsByPlayerIndex,
		"leagueId = :leagueId AND playerId = :playerId",
		map[string]types.AttributeValue{
			":leagueId": &types.AttributeValueMemberS{Value: leagueID},
			":playerId": &types.AttributeValueMemberS{Value: playerID},
		})
}

// QueryStatsByGame lists a game's stat lines through the gameId index.
func (ss *StatService) QueryStatsByGame(ctx context.Context, leagueID, gameID string) ([]models.Stat, error) {
	if err := ss.Policy.Authorize(ss.Principal, access.ResourceStats, access.OpRead); err != nil {
		return nil, err
	}
	return ss.queryIndex(ctx, models.StatsByGameIndex,
		"leagueId = :leagueId AND gameId = :gameId",
		map[string]types.AttributeValue{
			":leagueId": &types.AttributeValueMemberS{Value: leagueID},
			":gameId":   &types.AttributeValueMemberS{Value: gameID},
		})
}

func (ss *StatService) queryIndex(ctx context.Context, index, keyCondition string, values map[string]types.AttributeValue) ([]models.Stat, error) {
	items, err := ss.Dynamo.QueryItemsWithIndex(ctx, ss.Table, index, keyCondition, values, nil, 100)
	if err != nil {
		return nil, err
	}

	var stats []models.Stat
	if err := attributevalue.UnmarshalListOfMaps(items, &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return stats, nil
}
