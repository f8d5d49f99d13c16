package postgres

import "time"

type predictionTableModel struct {
	ID        string    `db:"id"`
	FixtureID int64     `db:"fixture_id"`
	LeagueID  int64     `db:"league_id"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	KickoffAt time.Time `db:"kickoff_at"`

	Market  string `db:"market"`
	Outcome string `db:"outcome"`

	Probability   float64 `db:"probability"`
	Confidence    float64 `db:"confidence"`
	SuggestedOdd  float64 `db:"suggested_odd"`
	ExpectedValue float64 `db:"expected_value"`
	BookmakerOdd  bool    `db:"bookmaker_odd"`

	Rationale string `db:"rationale"`

	CreatedAt time.Time `db:"created_at"`
}
