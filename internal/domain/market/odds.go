package market

import "fmt"

// OddsTable is the bookmaker price surface of one fixture as returned
// by the odds provider: market name -> outcome label -> decimal odd.
type OddsTable map[string]map[string]float64

// ProviderMarket maps a canonical Spec back to the odds provider's
// market vocabulary so a real bookmaker price can be fetched for it.
func ProviderMarket(spec Spec) (marketName, outcome string, ok bool) {
	switch spec.Category {
	case CategoryGoals:
		name := "Goals Over/Under"
		if spec.Period == PeriodFirstHalf {
			name = "Goals Over/Under First Half"
		}
		return name, fmt.Sprintf("%s %s", comparatorLabel(spec.Comparator), formatLine(spec.Line)), true
	case CategoryCorners:
		return "Corners Over Under", fmt.Sprintf("%s %s", comparatorLabel(spec.Comparator), formatLine(spec.Line)), true
	case CategoryCards:
		return "Cards Over/Under", fmt.Sprintf("%s %s", comparatorLabel(spec.Comparator), formatLine(spec.Line)), true
	case CategoryShots:
		return "Shots on Target Over/Under", fmt.Sprintf("%s %s", comparatorLabel(spec.Comparator), formatLine(spec.Line)), true
	case CategoryBTTS:
		if spec.Side == SideNo {
			return "Both Teams Score", "No", true
		}
		return "Both Teams Score", "Yes", true
	case CategoryMatchResult:
		switch spec.Side {
		case SideHome:
			return "Match Winner", "Home", true
		case SideAway:
			return "Match Winner", "Away", true
		case SideDraw:
			return "Match Winner", "Draw", true
		}
	case CategoryDoubleChance:
		if spec.Side == SideAway {
			return "Double Chance", "Draw/Away", true
		}
		return "Double Chance", "Home/Draw", true
	}
	return "", "", false
}

// Lookup resolves the bookmaker odd for a canonical spec, when the
// provider quoted that exact market and outcome.
func (t OddsTable) Lookup(spec Spec) (float64, bool) {
	if len(t) == 0 {
		return 0, false
	}
	name, outcome, ok := ProviderMarket(spec)
	if !ok {
		return 0, false
	}
	outcomes, ok := t[name]
	if !ok {
		return 0, false
	}
	odd, ok := outcomes[outcome]
	if !ok || odd <= 1.0 {
		return 0, false
	}
	return odd, true
}
