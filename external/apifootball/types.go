package apifootball

import (
	"strconv"
	"strings"
)

// The provider intermittently types numeric fields as strings (odds
// always, statistics sometimes, including "55%" style percentages).
// flexInt and flexFloat accept number, string or null and fail closed:
// a malformed value reads as zero rather than poisoning the payload.

type flexInt int64

func (v *flexInt) UnmarshalJSON(data []byte) error {
	*v = 0
	if parsed, ok := parseFlexNumber(data); ok {
		*v = flexInt(parsed)
	}
	return nil
}

type flexFloat float64

func (v *flexFloat) UnmarshalJSON(data []byte) error {
	*v = 0
	if parsed, ok := parseFlexNumber(data); ok {
		*v = flexFloat(parsed)
	}
	return nil
}

func parseFlexNumber(data []byte) (float64, bool) {
	text := strings.TrimSpace(string(data))
	if text == "" || text == "null" {
		return 0, false
	}
	text = strings.Trim(text, `"`)
	text = strings.TrimSuffix(strings.TrimSpace(text), "%")
	if text == "" {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

type teamRef struct {
	ID   flexInt `json:"id"`
	Name string  `json:"name"`
}

type fixtureEnvelope struct {
	Response []fixtureItem `json:"response"`
}

type fixtureItem struct {
	Fixture struct {
		ID     flexInt `json:"id"`
		Date   string  `json:"date"`
		Status struct {
			Short string `json:"short"`
		} `json:"status"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"fixture"`
	League struct {
		ID     flexInt `json:"id"`
		Season flexInt `json:"season"`
	} `json:"league"`
	Teams struct {
		Home teamRef `json:"home"`
		Away teamRef `json:"away"`
	} `json:"teams"`
	Goals struct {
		Home flexInt `json:"home"`
		Away flexInt `json:"away"`
	} `json:"goals"`
	Score struct {
		Halftime struct {
			Home flexInt `json:"home"`
			Away flexInt `json:"away"`
		} `json:"halftime"`
	} `json:"score"`
}

type statisticsEnvelope struct {
	Response []teamStatisticsItem `json:"response"`
}

type teamStatisticsItem struct {
	Team       teamRef     `json:"team"`
	Statistics []statEntry `json:"statistics"`
}

type statEntry struct {
	Type  string  `json:"type"`
	Value flexInt `json:"value"`
}

type oddsEnvelope struct {
	Response []oddsItem `json:"response"`
}

type oddsItem struct {
	Bookmakers []bookmakerItem `json:"bookmakers"`
}

type bookmakerItem struct {
	Name string      `json:"name"`
	Bets []betMarket `json:"bets"`
}

type betMarket struct {
	Name   string     `json:"name"`
	Values []oddValue `json:"values"`
}

type oddValue struct {
	Value string    `json:"value"`
	Odd   flexFloat `json:"odd"`
}
