package models

// Stat is a per-player, per-game stat line.
type Stat struct {
	LeagueID string `json:"leagueId" dynamodbav:"leagueId"`
	StatID   string `json:"statId" dynamodbav:"statId"`
	PlayerID string `json:"playerId" dynamodbav:"playerId"`
	GameID   string `json:"gameId" dynamodbav:"gameId"`
	Points   int    `json:"points" dynamodbav:"points"`
	Rebounds int    `json:"rebounds" dynamodbav:"rebounds"`
	Assists  int    `json:"assists" dynamodbav:"assists"`
}

// Secondary indexes on the Stats table
const (
	StatsByPlayerIndex = "GSI_playerId"
	StatsByGameIndex   = "GSI_gameId"
)
