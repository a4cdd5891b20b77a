package acquire

import "strings"

// topicAliases expands abbreviations so feed text is matched on the words
// articles actually use.
var topicAliases = map[string]string{
	"ai":   "artificial intelligence",
	"ml":   "machine learning",
	"tech": "technology",
	"us":   "united states",
	"uk":   "united kingdom",
	"eu":   "european union",
}

// NormalizeTopic lowercases a topic, collapses whitespace and expands known
// abbreviations.
func NormalizeTopic(topic string) string {
	t := strings.ToLower(strings.Join(strings.Fields(topic), " "))
	if alias, ok := topicAliases[t]; ok {
		return alias
	}
	return t
}

// MatchesTopic reports whether every word of the normalized topic occurs in
// the combined lowercase title and description.
func MatchesTopic(topic, title, description string) bool {
	words := strings.Fields(NormalizeTopic(topic))
	if len(words) == 0 {
		return false
	}
	text := strings.ToLower(title + " " + description)
	for _, w := range words {
		if !strings.Contains(text, w) {
			return false
		}
	}
	return true
}
