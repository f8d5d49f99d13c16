package market

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategoryGoals        Category = "GOALS"
	CategoryBTTS         Category = "BTTS"
	CategoryMatchResult  Category = "MATCH_RESULT"
	CategoryDoubleChance Category = "DOUBLE_CHANCE"
	CategoryCorners      Category = "CORNERS"
	CategoryCards        Category = "CARDS"
	CategoryShots        Category = "SHOTS"
)

type Period string

const (
	PeriodFirstHalf  Period = "1H"
	PeriodSecondHalf Period = "2H"
	PeriodFullTime   Period = "FT"
)

type Comparator string

const (
	ComparatorOver  Comparator = "OVER"
	ComparatorUnder Comparator = "UNDER"
)

type Side string

const (
	SideHome Side = "HOME"
	SideAway Side = "AWAY"
	SideDraw Side = "DRAW"
	SideYes  Side = "YES"
	SideNo   Side = "NO"
)

// Spec is the canonical, evaluable form of a market. Line markets
// (goals, corners, cards, shots) carry a comparator and a line;
// result-style markets (1X2, BTTS, double chance) carry a side.
type Spec struct {
	Category   Category
	Period     Period
	Comparator Comparator
	Line       float64
	Side       Side
}

func (s Spec) IsLineMarket() bool {
	switch s.Category {
	case CategoryGoals, CategoryCorners, CategoryCards, CategoryShots:
		return true
	default:
		return false
	}
}

func (s Spec) Valid() bool {
	if s.IsLineMarket() {
		return s.Comparator != "" && s.Line > 0
	}
	switch s.Category {
	case CategoryMatchResult:
		return s.Side == SideHome || s.Side == SideAway || s.Side == SideDraw
	case CategoryBTTS:
		return s.Side == SideYes || s.Side == SideNo
	case CategoryDoubleChance:
		return s.Side == SideHome || s.Side == SideAway
	default:
		return false
	}
}

// Label renders the spec in the product vocabulary used on published
// tips. Classify is the inverse; the round trip must preserve the
// category, period, comparator, line and side.
func (s Spec) Label() string {
	switch s.Category {
	case CategoryGoals:
		return fmt.Sprintf("%s %s Gols %s", comparatorLabel(s.Comparator), formatLine(s.Line), periodLabel(s.Period))
	case CategoryCorners:
		return fmt.Sprintf("%s %s Escanteios", comparatorLabel(s.Comparator), formatLine(s.Line))
	case CategoryCards:
		return fmt.Sprintf("%s %s Cartões", comparatorLabel(s.Comparator), formatLine(s.Line))
	case CategoryShots:
		return fmt.Sprintf("%s %s Chutes ao Gol", comparatorLabel(s.Comparator), formatLine(s.Line))
	case CategoryBTTS:
		if s.Side == SideNo {
			return "Ambas Marcam - Não"
		}
		return "Ambas Marcam"
	case CategoryMatchResult:
		switch s.Side {
		case SideHome:
			return "Vitória Casa"
		case SideAway:
			return "Vitória Fora"
		default:
			return "Empate"
		}
	case CategoryDoubleChance:
		if s.Side == SideAway {
			return "Dupla Chance Fora ou Empate"
		}
		return "Dupla Chance Casa ou Empate"
	default:
		return ""
	}
}

// LabelFor renders the spec with concrete team names where the side
// refers to a team.
func (s Spec) LabelFor(homeTeam, awayTeam string) string {
	switch s.Category {
	case CategoryMatchResult:
		switch s.Side {
		case SideHome:
			return "Vitória " + homeTeam
		case SideAway:
			return "Vitória " + awayTeam
		default:
			return "Empate"
		}
	case CategoryDoubleChance:
		if s.Side == SideAway {
			return "Dupla Chance " + awayTeam + " ou Empate"
		}
		return "Dupla Chance " + homeTeam + " ou Empate"
	default:
		return s.Label()
	}
}

func comparatorLabel(c Comparator) string {
	if c == ComparatorUnder {
		return "Under"
	}
	return "Over"
}

func periodLabel(p Period) string {
	switch p {
	case PeriodFirstHalf:
		return "1T"
	case PeriodSecondHalf:
		return "2T"
	default:
		return "FT"
	}
}

func formatLine(line float64) string {
	out := fmt.Sprintf("%.1f", line)
	return strings.TrimSuffix(out, ".0")
}
