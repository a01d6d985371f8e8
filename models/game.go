package models

// Game is a metadata record for one recorded game. The worker reads games
// to resolve titles; games are written by the upload flow, not the worker.
type Game struct {
	LeagueID string `json:"leagueId" dynamodbav:"leagueId"`
	GameID   string `json:"gameId" dynamodbav:"gameId"`
	Title    string `json:"title" dynamodbav:"title"`
	Date     string `json:"date,omitempty" dynamodbav:"date,omitempty"`
}

// GamesByTitleIndex is the secondary index for title lookup
const GamesByTitleIndex = "GSI_title"
