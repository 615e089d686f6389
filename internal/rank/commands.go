package rank

import (
	"regexp"
	"strings"

	"github.com/mercurychat/mercury-cli/internal/model"
)

// Queries of the form "!name:rest" bypass fuzzy search and run an exact
// suffix filter instead. Unknown names fall through to fuzzy search.
var commandRegex = regexp.MustCompile(`^!([a-zA-Z]+):(.*)$`)

var commandFields = map[string]func(model.Conversation) string{
	"idEndsWith":        func(c model.Conversation) string { return c.ID },
	"serviceIdEndsWith": func(c model.Conversation) string { return c.ServiceID },
	"e164EndsWith":      func(c model.Conversation) string { return c.E164 },
	"groupIdEndsWith":   func(c model.Conversation) string { return c.GroupID },
}

// runCommand applies a "!name:rest" suffix filter. The second return is
// false when the query is not a recognized command.
func runCommand(list []model.Conversation, query string) ([]Result, bool) {
	m := commandRegex.FindStringSubmatch(query)
	if m == nil {
		return nil, false
	}
	field, ok := commandFields[m[1]]
	if !ok {
		return nil, false
	}
	suffix := m[2]

	results := make([]Result, 0)
	for _, c := range list {
		value := field(c)
		if value == "" {
			continue
		}
		if strings.HasSuffix(value, suffix) {
			results = append(results, Result{Conversation: c})
		}
	}
	return results, true
}
