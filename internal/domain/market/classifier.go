package market

import (
	"regexp"
	"strconv"
	"strings"
)

// The classifier is an ordered rule list, most specific category
// first. Each rule inspects the normalized text and either produces a
// Spec or passes. No rule matching means the market cannot be settled
// automatically and must go to manual review.

var lineRegex = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

var accentReplacer = strings.NewReplacer(
	"á", "a", "â", "a", "ã", "a", "à", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "ô", "o", "õ", "o",
	"ú", "u", "ü", "u",
	"ç", "c",
)

type rule func(text string, home, away string) (Spec, bool)

var rules = []rule{
	classifyCorners,
	classifyCards,
	classifyShots,
	classifyBTTS,
	classifyDoubleChance,
	classifyMatchResult,
	classifyGoals,
}

// Classify parses a free-form market description into its canonical
// Spec. The second return is false when no rule matches; callers must
// treat that as "needs manual review", never as a loss.
func Classify(text string) (Spec, bool) {
	return ClassifyForFixture(text, "", "")
}

// ClassifyForFixture additionally resolves team-name sides for result
// and double-chance markets against the fixture's team names.
func ClassifyForFixture(text, homeTeam, awayTeam string) (Spec, bool) {
	normalized := normalize(text)
	if normalized == "" {
		return Spec{}, false
	}

	home := normalize(homeTeam)
	away := normalize(awayTeam)
	for _, r := range rules {
		if spec, ok := r(normalized, home, away); ok {
			if !spec.Valid() {
				return Spec{}, false
			}
			return spec, true
		}
	}
	return Spec{}, false
}

func classifyCorners(text, _, _ string) (Spec, bool) {
	if !containsAny(text, "escanteio", "corner") {
		return Spec{}, false
	}
	return lineSpec(text, CategoryCorners)
}

func classifyCards(text, _, _ string) (Spec, bool) {
	if !containsAny(text, "cartoes", "cartao", "card") {
		return Spec{}, false
	}
	return lineSpec(text, CategoryCards)
}

func classifyShots(text, _, _ string) (Spec, bool) {
	if !containsAny(text, "chute", "finalizac", "shot") {
		return Spec{}, false
	}
	return lineSpec(text, CategoryShots)
}

func classifyBTTS(text, _, _ string) (Spec, bool) {
	if !containsAny(text, "ambas marcam", "ambas equipes marcam", "btts", "both teams to score", "both teams score") {
		return Spec{}, false
	}
	side := SideYes
	if containsAny(text, "nao") || hasToken(text, "no") {
		side = SideNo
	}
	return Spec{Category: CategoryBTTS, Period: parsePeriod(text), Side: side}, true
}

func classifyDoubleChance(text, home, away string) (Spec, bool) {
	if !containsAny(text, "dupla chance", "double chance") && !hasToken(text, "1x") && !hasToken(text, "x2") {
		return Spec{}, false
	}
	side := SideHome
	switch {
	case hasToken(text, "x2"):
		side = SideAway
	case hasToken(text, "1x"):
		side = SideHome
	case away != "" && strings.Contains(text, away):
		side = SideAway
	case containsAny(text, "fora", "visitante") || hasToken(text, "away"):
		side = SideAway
	}
	return Spec{Category: CategoryDoubleChance, Period: parsePeriod(text), Side: side}, true
}

func classifyMatchResult(text, home, away string) (Spec, bool) {
	if containsAny(text, "empate") || hasToken(text, "draw") {
		return Spec{Category: CategoryMatchResult, Period: parsePeriod(text), Side: SideDraw}, true
	}
	if !containsAny(text, "vitoria", "vencedor", "match winner", "to win", "1x2") {
		return Spec{}, false
	}

	spec := Spec{Category: CategoryMatchResult, Period: parsePeriod(text)}
	switch {
	case home != "" && strings.Contains(text, home):
		spec.Side = SideHome
	case away != "" && strings.Contains(text, away):
		spec.Side = SideAway
	case containsAny(text, "casa") || hasToken(text, "home"):
		spec.Side = SideHome
	case containsAny(text, "fora", "visitante") || hasToken(text, "away"):
		spec.Side = SideAway
	default:
		return Spec{}, false
	}
	return spec, true
}

func classifyGoals(text, _, _ string) (Spec, bool) {
	if !containsAny(text, "gol", "goal", "total") {
		return Spec{}, false
	}
	return lineSpec(text, CategoryGoals)
}

func lineSpec(text string, category Category) (Spec, bool) {
	line, ok := parseLine(text)
	if !ok {
		return Spec{}, false
	}
	return Spec{
		Category:   category,
		Period:     parsePeriod(text),
		Comparator: parseComparator(text),
		Line:       line,
	}, true
}

func parseLine(text string) (float64, bool) {
	token := lineRegex.FindString(text)
	if token == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}

func parseComparator(text string) Comparator {
	if containsAny(text, "under", "menos de", "abaixo") {
		return ComparatorUnder
	}
	return ComparatorOver
}

func parsePeriod(text string) Period {
	switch {
	case hasToken(text, "1t") || hasToken(text, "ht") || containsAny(text, "1st half", "first half", "primeiro tempo"):
		return PeriodFirstHalf
	case hasToken(text, "2t") || containsAny(text, "2nd half", "second half", "segundo tempo"):
		return PeriodSecondHalf
	default:
		return PeriodFullTime
	}
}

func normalize(text string) string {
	return accentReplacer.Replace(strings.ToLower(strings.TrimSpace(text)))
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}

func hasToken(text, token string) bool {
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '-' || r == '/' || r == '(' || r == ')'
	}) {
		if part == token {
			return true
		}
	}
	return false
}
