package rank

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// phoneAlternative returns the E.164 form of the query when it parses as a
// valid phone number for the region. Parse failures are not errors here;
// the query simply goes to fuzzy search un-augmented. An empty region still
// handles fully-qualified "+..." input.
func phoneAlternative(query, region string) (string, bool) {
	num, err := phonenumbers.Parse(query, strings.ToUpper(region))
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

// searchTerms is the query plus, when the query looks like a phone number,
// its normalized form as an OR alternative.
func searchTerms(query, region string) []string {
	terms := []string{query}
	if e164, ok := phoneAlternative(query, region); ok && e164 != query {
		terms = append(terms, e164)
	}
	return terms
}
