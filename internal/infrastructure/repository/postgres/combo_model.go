package postgres

import "time"

type comboTableModel struct {
	ID                  string    `db:"id"`
	Legs                string    `db:"legs"`
	TotalOdd            float64   `db:"total_odd"`
	CombinedProbability float64   `db:"combined_probability"`
	AvgConfidence       float64   `db:"avg_confidence"`
	CreatedAt           time.Time `db:"created_at"`
}
