package acquire

import (
	"strings"

	"github.com/hoanghai1803/newsdesk/internal/feeds"
	"github.com/hoanghai1803/newsdesk/internal/models"
)

// Family groups providers by the shape of metadata their articles carry.
type Family string

const (
	FamilyCommunity   Family = "community"
	FamilyNewsletter  Family = "newsletter"
	FamilyTraditional Family = "traditional"
)

// FamilyOf classifies a provider by category, then by well-known names.
func FamilyOf(p models.Provider) Family {
	name := strings.ToLower(p.Name)
	switch {
	case p.Category == models.CategoryCommunity || strings.Contains(name, "reddit"):
		return FamilyCommunity
	case p.Category == models.CategoryNewsletter || strings.Contains(name, "substack"):
		return FamilyNewsletter
	default:
		return FamilyTraditional
	}
}

// feedMetadata derives what it can from a real feed entry.
func feedMetadata(p models.Provider, e feeds.Entry) map[string]any {
	md := map[string]any{}
	if e.Author != "" {
		md["author"] = e.Author
	}

	body := e.Text
	if body == "" {
		body = e.Description
	}

	switch FamilyOf(p) {
	case FamilyNewsletter:
		if body != "" {
			md["read_time"] = feeds.FormatReadTime(feeds.ReadingTime(body))
		}
	case FamilyTraditional:
		md["published_outlet"] = p.Name
		if e.Text != "" {
			md["word_count"] = feeds.CountWords(e.Text)
		}
	}
	return md
}

// apiMetadata derives metadata from a keyed aggregation result.
func apiMetadata(p models.Provider, author, outlet string) map[string]any {
	md := map[string]any{}
	if author != "" {
		md["author"] = author
	}
	if FamilyOf(p) == FamilyTraditional {
		if outlet == "" {
			outlet = p.Name
		}
		md["published_outlet"] = outlet
	}
	return md
}
