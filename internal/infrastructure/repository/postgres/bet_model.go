package postgres

import (
	"database/sql"
	"time"
)

type betTableModel struct {
	ID   string `db:"id"`
	Kind string `db:"kind"`

	FixtureID int64     `db:"fixture_id"`
	HomeTeam  string    `db:"home_team"`
	AwayTeam  string    `db:"away_team"`
	KickoffAt time.Time `db:"kickoff_at"`

	Market  string `db:"market"`
	Outcome string `db:"outcome"`

	ComboID string `db:"combo_id"`
	Legs    string `db:"legs"`

	Odd   float64 `db:"odd"`
	Stake float64 `db:"stake"`

	Status      string       `db:"status"`
	Profit      float64      `db:"profit"`
	NeedsReview bool         `db:"needs_review"`
	SettledAt   sql.NullTime `db:"settled_at"`

	CreatedAt time.Time `db:"created_at"`
}

type userBetTableModel struct {
	ID     string `db:"id"`
	BetID  string `db:"bet_id"`
	UserID string `db:"user_id"`

	Stake    float64 `db:"stake"`
	EntryOdd float64 `db:"entry_odd"`

	Status    string       `db:"status"`
	Profit    float64      `db:"profit"`
	SettledAt sql.NullTime `db:"settled_at"`
}
