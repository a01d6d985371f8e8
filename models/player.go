package models

// Player is a roster record scoped to a league.
type Player struct {
	LeagueID  string `json:"leagueId" dynamodbav:"leagueId"`
	PlayerID  string `json:"playerId" dynamodbav:"playerId"`
	FullName  string `json:"fullName" dynamodbav:"fullName"`
	FirstName string `json:"firstName,omitempty" dynamodbav:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" dynamodbav:"lastName,omitempty"`
}

// PlayersByFullNameIndex is the secondary index for name lookup
const PlayersByFullNameIndex = "GSI_fullName"
