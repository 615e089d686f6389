// Package rank implements the conversation picker's search and sort order:
// fuzzy matching over weighted text fields, "!command:arg" exact filters,
// and recency- or title-based ordering of the results.
package rank

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mercurychat/mercury-cli/internal/model"
)

// Result pairs a conversation with its match quality. Score is nil for
// command-based exact matches and for empty-query listings; when set,
// lower is better (0 = perfect).
type Result struct {
	Conversation model.Conversation
	Score        *float64
}

// recencyWeightPerMilli converts activity age to score units. One unit of
// match score outweighs roughly one week of recency difference; the blend
// is a tuned heuristic, not a guarantee.
const recencyWeightPerMilli = 1.0 / float64(7*24*time.Hour/time.Millisecond)

// nowMillis is replaceable in tests.
var nowMillis = func() int64 { return time.Now().UnixMilli() }

// ByRecency ranks conversations for the picker's "recent" mode.
//
// Non-empty query: fuzzy (or command) filter, then ascending
// age*recencyWeight + matchScore, so a strong match beats a merely recent
// conversation. Empty query: every conversation, most recently active
// first; never-active conversations sort last.
func ByRecency(list []model.Conversation, query, region string) []Result {
	query = strings.TrimSpace(query)
	if results, ok := runCommand(list, query); ok {
		sortByCombined(results)
		return results
	}
	if query == "" {
		results := unscored(list)
		sort.SliceStable(results, func(i, j int) bool {
			return moreRecentlyActive(results[i].Conversation, results[j].Conversation)
		})
		return results
	}
	results := search(list, searchTerms(query, region))
	sortByCombined(results)
	return results
}

// ByTitle ranks conversations for the picker's alphabetical mode.
//
// Non-empty query: fuzzy (or command) filter, ascending match score.
// Empty query: named conversations before unnamed ones, locale-aware
// alphabetical on title within each group. The locale tag drives the
// collation; when empty, the phone region stands in for it.
func ByTitle(list []model.Conversation, query, region, locale string) []Result {
	query = strings.TrimSpace(query)
	if results, ok := runCommand(list, query); ok {
		sortByScore(results)
		return results
	}
	if query == "" {
		results := unscored(list)
		cl := collatorFor(locale, region)
		sort.SliceStable(results, func(i, j int) bool {
			return titleBefore(cl, results[i].Conversation, results[j].Conversation)
		})
		return results
	}
	results := search(list, searchTerms(query, region))
	sortByScore(results)
	return results
}

// Conversations strips scores, returning records in ranked order.
func Conversations(results []Result) []model.Conversation {
	out := make([]model.Conversation, len(results))
	for i, r := range results {
		out[i] = r.Conversation
	}
	return out
}

func unscored(list []model.Conversation) []Result {
	results := make([]Result, len(list))
	for i, c := range list {
		results[i] = Result{Conversation: c}
	}
	return results
}

// combinedScore blends recency with match quality. A missing ActiveAt is
// treated as 0, i.e. very old.
func combinedScore(now int64, r Result) float64 {
	score := float64(now-r.Conversation.ActiveAt) * recencyWeightPerMilli
	if r.Score != nil {
		score += *r.Score
	}
	return score
}

func sortByCombined(results []Result) {
	now := nowMillis()
	sort.SliceStable(results, func(i, j int) bool {
		return combinedScore(now, results[i]) < combinedScore(now, results[j])
	})
}

func sortByScore(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		return score(results[i]) < score(results[j])
	})
}

func score(r Result) float64 {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

func moreRecentlyActive(a, b model.Conversation) bool {
	return a.ActiveAt > b.ActiveAt
}

// titleBefore orders named conversations ahead of unnamed ones, then by
// locale-aware title comparison.
func titleBefore(cl *collate.Collator, a, b model.Conversation) bool {
	if a.HasName() != b.HasName() {
		return a.HasName()
	}
	return cl.CompareString(a.Title, b.Title) < 0
}

// Built collators, keyed by resolved language tag. No eviction: a process
// only ever sees the profile's locale plus whatever --region values the
// invocation used, so the map stays a handful of entries.
var collators struct {
	sync.Mutex
	byTag map[string]*collate.Collator
}

// collatorFor builds (and caches) a collator for the locale tag, e.g.
// "sv". An empty or unparseable locale falls back to the region's
// undetermined language ("und-SE" for region "SE"), then to root
// collation.
func collatorFor(locale, region string) *collate.Collator {
	tag := language.Und
	if locale = strings.TrimSpace(locale); locale != "" {
		if parsed, err := language.Parse(locale); err == nil {
			tag = parsed
		}
	}
	if tag == language.Und {
		if region = strings.ToUpper(strings.TrimSpace(region)); region != "" {
			if parsed, err := language.Parse("und-" + region); err == nil {
				tag = parsed
			}
		}
	}

	key := tag.String()
	collators.Lock()
	defer collators.Unlock()
	if collators.byTag == nil {
		collators.byTag = make(map[string]*collate.Collator)
	}
	if cl, ok := collators.byTag[key]; ok {
		return cl
	}
	cl := collate.New(tag, collate.IgnoreCase)
	collators.byTag[key] = cl
	return cl
}
