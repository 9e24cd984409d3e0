package rag

import (
	"strings"
	"time"

	"travel-assistant-be/pkg/rag/intent"
	"travel-assistant-be/pkg/vectorindex"
)

// FreeCostSentinel is the cost value the corpus uses for free events.
const FreeCostSentinel = "FREE"

// categoryVocabulary is the closed set of categories the find-category
// filter recognizes. First match in the raw query wins.
var categoryVocabulary = []string{"museum", "comedy", "music", "market", "festival", "art"}

// BuildFilter maps an intent plus the raw query text to a metadata
// filter. Pure and deterministic; no model call. Filters are added only
// under high confidence: a missed filter merely widens results, while a
// wrong one can silently return nothing. Any ambiguity therefore
// resolves to the permissive match-all filter, never an empty filter an
// index could read as "no documents".
func BuildFilter(it intent.Intent, rawQuery string, now time.Time) vectorindex.Filter {
	switch it {
	case intent.FindFree:
		return vectorindex.Filter{
			"cost": {Op: vectorindex.OpEq, Value: FreeCostSentinel},
		}

	case intent.FindCategory:
		lowered := strings.ToLower(rawQuery)
		for _, category := range categoryVocabulary {
			if strings.Contains(lowered, category) {
				return vectorindex.Filter{
					"category": {Op: vectorindex.OpEq, Value: category},
				}
			}
		}
		return vectorindex.MatchAll()

	case intent.FindDateRange:
		// Only the explicit "this weekend" phrasing is recognized
		if strings.Contains(strings.ToLower(rawQuery), "this weekend") {
			saturday, sundayEnd := upcomingWeekend(now)
			return vectorindex.Filter{
				"eventDate": {Op: vectorindex.OpBetween, Values: []any{
					saturday.Format(time.RFC3339),
					sundayEnd.Format(time.RFC3339),
				}},
			}
		}
		return vectorindex.MatchAll()

	default:
		// general, or any unrecognized tag the classifier produced
		return vectorindex.MatchAll()
	}
}

// upcomingWeekend returns the start of the next Saturday (today if
// already Saturday) and the end of the following Sunday.
func upcomingWeekend(now time.Time) (time.Time, time.Time) {
	daysUntilSaturday := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	year, month, day := now.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, now.Location())
	saturday := midnight.AddDate(0, 0, daysUntilSaturday)
	sundayEnd := saturday.AddDate(0, 0, 2).Add(-time.Second)
	return saturday, sundayEnd
}
