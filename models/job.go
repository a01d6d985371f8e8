package models

import (
	"errors"
	"fmt"
)

// TrimJob is the queue payload describing a single clip to extract from a
// raw upload. The delivery-attempt count lives on the queue message, not here.
type TrimJob struct {
	LeagueID  string  `json:"leagueId"`
	GameID    string  `json:"gameId"`
	ClipID    string  `json:"clipId"`
	SourceKey string  `json:"sourceKey"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
}

// ErrInvalidJob marks a payload that can never be processed successfully.
var ErrInvalidJob = errors.New("invalid trim job")

// Validate checks that all required fields are present and the time range
// is well-formed.
func (j TrimJob) Validate() error {
	switch {
	case j.LeagueID == "":
		return fmt.Errorf("%w: missing leagueId", ErrInvalidJob)
	case j.GameID == "":
		return fmt.Errorf("%w: missing gameId", ErrInvalidJob)
	case j.ClipID == "":
		return fmt.Errorf("%w: missing clipId", ErrInvalidJob)
	case j.SourceKey == "":
		return fmt.Errorf("%w: missing sourceKey", ErrInvalidJob)
	case j.StartTime < 0:
		return fmt.Errorf("%w: startTime %v is negative", ErrInvalidJob, j.StartTime)
	case j.StartTime >= j.EndTime:
		return fmt.Errorf("%w: startTime %v is not before endTime %v", ErrInvalidJob, j.StartTime, j.EndTime)
	}
	return nil
}
