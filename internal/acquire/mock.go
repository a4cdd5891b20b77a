package acquire

import (
	"fmt"
	"strings"
	"time"

	"github.com/hoanghai1803/newsdesk/internal/models"
)

var mockTitles = map[string][]string{
	"politics": {
		"Breaking: Major Policy Changes Announced in %s",
		"Senate Votes on Landmark %s Legislation",
		"Political Analysis: %s Impact on Upcoming Elections",
		"International Relations: %s Diplomatic Breakthrough",
		"Expert Opinion: %s Policy Implications",
		"Government Announces New %s Initiative",
		"Opposition Party Criticizes %s Decision",
		"Bipartisan Support Growing for %s Reform",
	},
	"sports": {
		"Championship Update: %s Tournament Results",
		"Player Transfer News Shakes %s World",
		"Record-Breaking Performance in %s Competition",
		"Injury Report: Key %s Players Sidelined",
		"Season Analysis: %s Team Standings",
		"Olympic Preparation: %s Athletes Training Hard",
		"Coach Interview: %s Strategy Revealed",
		"Fan Reactions: %s Match Generates Buzz",
	},
	"ai": {
		"AI Breakthrough: Revolutionary %s Technology",
		"Tech Giants Invest Billions in %s Research",
		"Ethical Concerns Raised Over %s Development",
		"Industry Impact: %s Transforms Business Operations",
		"Research Paper: %s Advances Published",
		"Startup Announces %s Innovation",
		"AI Safety: New %s Regulations Proposed",
		"Academic Conference: %s Findings Presented",
	},
	"movies": {
		"Box Office Hit: %s Film Breaks Records",
		"Celebrity News: %s Stars Announce New Project",
		"Film Festival: %s Movies Win Critical Acclaim",
		"Industry Insider: %s Production Updates",
		"Review: %s Film Receives Mixed Reception",
		"Director Interview: %s Vision Explained",
		"Behind the Scenes: %s Movie Magic",
		"Awards Season: %s Nominations Announced",
	},
}

var categoryKeywords = []struct {
	category string
	words    []string
}{
	{"politics", []string{"politics", "government", "election", "elections", "policy"}},
	{"sports", []string{"sports", "football", "basketball", "soccer", "tennis", "olympics"}},
	{"ai", []string{"ai", "artificial", "intelligence", "machine", "learning", "technology", "tech"}},
	{"movies", []string{"movies", "film", "cinema", "hollywood", "entertainment"}},
}

var mockAuthors = map[Family][]string{
	FamilyCommunity:   {"u/newsreporter", "u/politicsexpert", "u/sportswriter", "u/techguru"},
	FamilyNewsletter:  {"Sarah Chen", "David Rodriguez", "Emily Watson", "Michael Thompson", "Lisa Chang"},
	FamilyTraditional: {"Reuters Staff", "AP Reporter", "BBC Correspondent", "Guardian Writer", "NPR Correspondent"},
}

const mockContentTmpl = "Recent developments in %[1]s have captured significant attention from experts and stakeholders worldwide. " +
	"Industry analysts suggest this trend represents a fundamental shift in how %[1]s is approached, with new strategies being adopted globally. " +
	"Key findings indicate the current trajectory in %[1]s will likely continue, driven by emerging technologies and changing preferences. " +
	"The next few months will be crucial in determining the long-term impact on the %[1]s sector."

// topicCategory picks the template family for a topic, defaulting to
// politics.
func topicCategory(topic string) string {
	words := strings.Fields(strings.ToLower(topic))
	for _, c := range categoryKeywords {
		for _, w := range words {
			for _, k := range c.words {
				if w == k {
					return c.category
				}
			}
		}
	}
	return "politics"
}

// Mock builds a synthetic candidate pool from templates, used when real
// acquisition yields nothing. It produces max(1, count/pairs)+1 articles per
// (topic, source) pair and finalizes them like a real acquisition. With no
// sources it returns nothing.
func (a *Acquirer) Mock(topics []string, sources []models.Provider, count int) []models.CandidateArticle {
	if len(topics) == 0 || len(sources) == 0 || count <= 0 {
		return nil
	}

	perPair := max(1, count/(len(topics)*len(sources))) + 1
	now := a.now()

	var out []models.CandidateArticle
	for _, topic := range topics {
		templates := mockTitles[topicCategory(topic)]
		for _, src := range sources {
			offset := a.intN(len(templates))
			for i := 0; i < perPair; i++ {
				title := fmt.Sprintf(templates[(offset+i)%len(templates)], topic)
				slug := slugify(src.Name) + "-" + slugify(title)
				if i >= len(templates) {
					slug += fmt.Sprintf("-%d", i/len(templates)+1)
				}
				out = append(out, models.CandidateArticle{
					Title:       title,
					Content:     fmt.Sprintf(mockContentTmpl, topic),
					URL:         fmt.Sprintf("https://example.com/%s/%s", slugify(topic), slug),
					Source:      src.Name,
					PublishedAt: now.Add(-time.Duration(1+a.intN(24)) * time.Hour).UTC(),
					Metadata:    a.mockMetadata(src),
				})
			}
		}
	}
	return finalize(out, count)
}

func (a *Acquirer) mockMetadata(src models.Provider) map[string]any {
	family := FamilyOf(src)
	authors := mockAuthors[family]
	author := authors[a.intN(len(authors))]

	switch family {
	case FamilyCommunity:
		return map[string]any{
			"views":    1000 + a.intN(49001),
			"comments": 50 + a.intN(951),
			"upvotes":  100 + a.intN(4901),
			"author":   author,
		}
	case FamilyNewsletter:
		return map[string]any{
			"author":      author,
			"read_time":   fmt.Sprintf("%d min read", 3+a.intN(13)),
			"subscribers": 1000 + a.intN(49001),
			"likes":       50 + a.intN(451),
		}
	default:
		return map[string]any{
			"views":            5000 + a.intN(95001),
			"author":           author,
			"published_outlet": src.Name,
			"word_count":       500 + a.intN(1501),
		}
	}
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > 50 {
		out = strings.TrimSuffix(out[:50], "-")
	}
	return out
}
