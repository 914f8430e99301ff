package models

// NameCount pairs a display name with a count, used for vote and roll
// leaderboards where ties are listed together.
type NameCount struct {
	DisplayName string
	Count       int64
}

// ServerStats is the server-wide rollup behind the stats command.
type ServerStats struct {
	TotalMedia    int64
	TopScore      int64
	TopScoreNames []string // display names of the tied top-score holders
	TopUpvoters   []NameCount
	TopDownvoters []NameCount
	TotalRolls    int64
	TopRollers    []NameCount
}

// UserScore is the per-user rollup behind the score command.
type UserScore struct {
	DisplayName    string
	MediaCount     int64
	TotalScore     int64
	UpvotesGiven   int64
	DownvotesGiven int64
	RollsStarted   int64
}
