package models

// Draft is an in-progress game record awaiting clip selection.
type Draft struct {
	LeagueID string `json:"leagueId" dynamodbav:"leagueId"`
	DraftID  string `json:"draftId" dynamodbav:"draftId"`
	Title    string `json:"title" dynamodbav:"title"`
}

// DraftsByTitleIndex is the secondary index for title lookup
const DraftsByTitleIndex = "GSI_title"
