package models

import "fmt"

// Clip is a metadata record for a derived clip. The worker is the only
// writer; clipId is unique within a league and writes are full upserts.
type Clip struct {
	LeagueID  string  `json:"leagueId" dynamodbav:"leagueId"`
	ClipID    string  `json:"clipId" dynamodbav:"clipId"`
	GameID    string  `json:"gameId" dynamodbav:"gameId"`
	GameTitle string  `json:"gameTitle" dynamodbav:"gameTitle"`
	Key       string  `json:"key" dynamodbav:"key"`
	StartTime float64 `json:"startTime" dynamodbav:"startTime"`
	EndTime   float64 `json:"endTime" dynamodbav:"endTime"`
}

// Secondary indexes on the Clips table
const (
	ClipsByGameIndex  = "GSI_gameId"
	ClipsByTitleIndex = "GSI_title"
)

// DerivedClipKey returns the deterministic object-store key for a clip's
// derived artifact. Repeated attempts for the same job overwrite this key
// instead of creating duplicates.
func DerivedClipKey(leagueID, clipID string) string {
	return fmt.Sprintf("clips/%s/%s.mp4", leagueID, clipID)
}
