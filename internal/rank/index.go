package rank

import (
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/mercurychat/mercury-cli/internal/model"
)

// scoreThreshold is the match-leniency cutoff: candidates whose weighted
// similarity exceeds it are dropped. Similarity is in [0,1], 0 = perfect.
const scoreThreshold = 0.55

// Field weights mirror the picker: title-like fields dominate, the phone
// number only matters when the query is basically the number itself.
var indexedFields = []struct {
	get    func(model.Conversation) string
	weight float64
}{
	{func(c model.Conversation) string { return c.Title }, 1.0},
	{func(c model.Conversation) string { return c.Name }, 1.0},
	{func(c model.Conversation) string { return c.ProfileName }, 0.5},
	{func(c model.Conversation) string { return c.Username }, 0.5},
	{func(c model.Conversation) string { return c.E164 }, 0.25},
}

type indexEntry struct {
	conv   int // position in the source list
	weight float64
	text   string // lowercased field value
}

// index is a flattened, lowercased view of every searchable field.
// It implements fuzzy.Source.
type index struct {
	entries []indexEntry
}

func (ix *index) String(i int) string { return ix.entries[i].text }
func (ix *index) Len() int            { return len(ix.entries) }

func buildIndex(list []model.Conversation) *index {
	ix := &index{entries: make([]indexEntry, 0, len(list))}
	for i, c := range list {
		for _, f := range indexedFields {
			text := f.get(c)
			if text == "" {
				continue
			}
			ix.entries = append(ix.entries, indexEntry{
				conv:   i,
				weight: f.weight,
				text:   strings.ToLower(text),
			})
		}
	}
	return ix
}

// indexKey identifies a conversation slice by the address of its backing
// array plus its length. Only the key is retained, never the slice, so a
// retired list stays collectable. The sharp edge: mutating a list in place
// without producing a new slice header can serve a stale index.
type indexKey struct {
	data uintptr
	len  int
}

func keyFor(list []model.Conversation) indexKey {
	return indexKey{data: reflect.ValueOf(list).Pointer(), len: len(list)}
}

// Single-generation cache: the picker re-ranks the same list on every
// keystroke, so only the most recent list is worth holding on to.
var indexCache struct {
	sync.Mutex
	key indexKey
	ix  *index
}

func indexFor(list []model.Conversation) *index {
	key := keyFor(list)
	indexCache.Lock()
	defer indexCache.Unlock()
	if indexCache.ix != nil && indexCache.key == key {
		return indexCache.ix
	}
	ix := buildIndex(list)
	indexCache.key = key
	indexCache.ix = ix
	return ix
}

// selfScore is the score a term earns matching against itself; it is the
// normalization ceiling for similarity.
func selfScore(term string) float64 {
	matches := fuzzy.Find(term, []string{term})
	if len(matches) == 0 || matches[0].Score < 1 {
		return 1
	}
	return float64(matches[0].Score)
}

// search runs every term through the index and keeps, per conversation, the
// best weighted similarity across all terms and fields. Results come back
// in source-list order; callers sort.
func search(list []model.Conversation, terms []string) []Result {
	ix := indexFor(list)
	best := make(map[int]float64)
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		ceiling := selfScore(term)
		for _, m := range fuzzy.FindFrom(term, ix) {
			e := ix.entries[m.Index]
			sim := 1 - float64(m.Score)/ceiling
			if sim < 0 {
				sim = 0
			} else if sim > 1 {
				sim = 1
			}
			// Weight works like an exponent on [0,1]: low-weight fields
			// pull imperfect similarities toward 1 (worse), while an
			// exact field hit stays 0 regardless of weight.
			adjusted := math.Pow(sim, e.weight)
			if adjusted > scoreThreshold {
				continue
			}
			if cur, ok := best[e.conv]; !ok || adjusted < cur {
				best[e.conv] = adjusted
			}
		}
	}

	results := make([]Result, 0, len(best))
	for i, c := range list {
		if score, ok := best[i]; ok {
			s := score
			results = append(results, Result{Conversation: c, Score: &s})
		}
	}
	return results
}
