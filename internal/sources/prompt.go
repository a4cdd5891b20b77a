package sources

import (
	"fmt"
	"strings"
)

const selectSystemPromptTmpl = `You are a news curation expert. Recommend up to %d credible news sources for the given topics and region.

Consider source credibility and reputation, coverage quality for the topics, regional relevance, diversity of perspectives, and update frequency.

Only recommend sources that can actually be retrieved: each one must have either a public RSS/Atom feed URL ("feed_url") or a NewsAPI source identifier ("api_id", e.g. "bbc-news"). Do NOT recommend community or social platforms such as Reddit, X/Twitter, Facebook, TikTok, YouTube or forums.

Return ONLY valid JSON with this structure:
{"sources": [{"name": "Source Name", "type": "newspaper|magazine|news_agency|broadcaster|digital_native|newsletter_platform", "api_id": "newsapi-id or empty", "feed_url": "https://... or empty", "relevanceScore": 85, "credibilityScore": 90, "reasoning": "one sentence"}]}`

// SelectPrompt builds the system and user prompts for source selection.
func SelectPrompt(topics []string, region string, excluded []string, maxSources int) (systemPrompt string, userPrompt string) {
	systemPrompt = fmt.Sprintf(selectSystemPromptTmpl, maxSources)

	var b strings.Builder
	fmt.Fprintf(&b, "Topics: %s\n", strings.Join(topics, ", "))
	fmt.Fprintf(&b, "Region: %s\n", region)
	if len(excluded) > 0 {
		fmt.Fprintf(&b, "Excluded sources (never recommend these): %s\n", strings.Join(excluded, ", "))
	} else {
		b.WriteString("Excluded sources: none\n")
	}
	b.WriteString("\nFocus on authoritative, well-established sources with strong coverage of these topics.\n")

	userPrompt = b.String()
	return systemPrompt, userPrompt
}
