package rank

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hoanghai1803/newsdesk/internal/models"
)

const rankSystemPrompt = `You are a news analysis expert. Score each article from 0 to 100 based on:
1. Relevance to the user's topics (40%)
2. Article quality and depth (25%)
3. Timeliness and newsworthiness (20%)
4. Source credibility (15%)

Assign each article the single most relevant topic from the user's list.

Return ONLY valid JSON with one entry per article, using the article's "id" exactly as given:
{"articles": [{"id": 0, "score": 85, "topic": "one of the user's topics", "reasoning": "one short sentence"}]}`

const maxPromptContent = 500

type promptArticle struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

// RankPrompt builds the system and user prompts for scoring the given
// candidates. Each candidate is identified by its index in the slice.
func RankPrompt(candidates []models.CandidateArticle, topics []string, rc Context) (systemPrompt string, userPrompt string) {
	items := make([]promptArticle, len(candidates))
	for i, c := range candidates {
		content := c.Content
		if r := []rune(content); len(r) > maxPromptContent {
			content = string(r[:maxPromptContent]) + "..."
		}
		items[i] = promptArticle{
			ID:          i,
			Title:       c.Title,
			Content:     content,
			Source:      c.Source,
			PublishedAt: c.PublishedAt.UTC().Format(time.RFC3339),
		}
	}
	encoded, _ := json.MarshalIndent(items, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, "User topics: %s\n", strings.Join(topics, ", "))
	fmt.Fprintf(&b, "User region: %s\n", rc.Region)
	if rc.Country != "" {
		fmt.Fprintf(&b, "User country: %s\n", rc.Country)
	}
	if len(rc.ExcludedSources) > 0 {
		fmt.Fprintf(&b, "Sources the user excluded: %s\n", strings.Join(rc.ExcludedSources, ", "))
	}
	b.WriteString("\nArticles to analyze:\n")
	b.Write(encoded)
	b.WriteString("\n")

	userPrompt = b.String()
	return rankSystemPrompt, userPrompt
}
