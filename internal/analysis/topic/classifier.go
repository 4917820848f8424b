package topic

import "strings"

// Route selects which backend endpoint receives a message.
type Route string

const (
	// Ask is the knowledge endpoint used for Dhamma questions.
	Ask Route = "ask"
	// Chat is the general conversation endpoint.
	Chat Route = "chat"
)

// Path returns the endpoint path for the route.
func (r Route) Path() string {
	if r == Ask {
		return "/ask"
	}
	return "/chat"
}

// Decision is the classification result for one outgoing message.
type Decision struct {
	Route   Route
	Keyword string
}

// Dhamma reports whether the message matched the keyword set.
func (d Decision) Dhamma() bool {
	return d.Route == Ask
}

// dhammaKeywords is fixed; matching is a case-sensitive substring test.
var dhammaKeywords = []string{"อริยสัจ", "หลักธรรม", "นิพพาน"}

// Keywords returns a copy of the keyword set.
func Keywords() []string {
	return append([]string(nil), dhammaKeywords...)
}

// Classify routes text to Ask when it contains any Dhamma keyword, otherwise to Chat.
func Classify(text string) Decision {
	for _, word := range dhammaKeywords {
		if strings.Contains(text, word) {
			return Decision{Route: Ask, Keyword: word}
		}
	}
	return Decision{Route: Chat}
}
