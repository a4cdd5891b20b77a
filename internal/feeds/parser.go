package feeds

import (
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
)

// Entry is a feed item reduced to the fields the acquirer needs. Published
// is zero when the feed carries no usable date.
type Entry struct {
	Title       string
	Link        string
	Description string
	// Text is the readable body extracted from full item content, if any.
	Text      string
	Author    string
	Published time.Time
}

// parseFeedItems converts gofeed items into entries. Items with an empty
// title or link are skipped. Undated items inherit the feed's update time.
func parseFeedItems(feed *gofeed.Feed) []Entry {
	var fallback time.Time
	if feed.UpdatedParsed != nil {
		fallback = *feed.UpdatedParsed
	}

	var entries []Entry
	for _, item := range feed.Items {
		title := collapseSpace(StripHTML(item.Title))
		if title == "" || item.Link == "" {
			continue
		}

		e := Entry{
			Title:       title,
			Link:        item.Link,
			Description: collapseSpace(StripHTML(item.Description)),
			Published:   fallback,
		}
		switch {
		case item.PublishedParsed != nil:
			e.Published = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			e.Published = *item.UpdatedParsed
		}
		if item.Author != nil {
			e.Author = item.Author.Name
		} else if len(item.Authors) > 0 && item.Authors[0] != nil {
			e.Author = item.Authors[0].Name
		}
		if item.Content != "" {
			e.Text = readableText(item.Content, item.Link)
		}
		if e.Description == "" && e.Text != "" {
			e.Description = e.Text
		}

		entries = append(entries, e)
	}
	return entries
}

// readableText runs go-readability over an item's HTML content and falls
// back to plain tag stripping when extraction yields nothing.
func readableText(content, link string) string {
	pageURL, _ := url.Parse(link)
	article, err := readability.FromReader(strings.NewReader(content), pageURL)
	if err == nil {
		if text := collapseSpace(article.TextContent); text != "" {
			return text
		}
	}
	return collapseSpace(StripHTML(content))
}

// StripHTML returns the text content of an HTML fragment with entities
// decoded. Non-HTML input is returned as-is.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

// Truncate shortens s to at most max runes, cutting on a rune boundary.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
