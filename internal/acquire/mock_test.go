package acquire

import (
	"strings"
	"testing"
	"time"

	"github.com/hoanghai1803/newsdesk/internal/models"
)

func TestMock(t *testing.T) {
	sources := []models.Provider{
		{Name: "Reuters", Category: models.CategoryNewsAgency, APIID: "reuters"},
		{Name: "Substack", Category: models.CategoryNewsletter, FeedURL: "https://on.substack.com/feed"},
		{Name: "Reddit", Category: models.CategoryCommunity, FeedURL: "https://reddit.com/.rss"},
	}
	a := newTestAcquirer(nil, nil)

	got := a.Mock([]string{"ai"}, sources, 5)
	// max(1, 5/3) + 1 = 2 per pair, 6 total, under the 2*count cap.
	if len(got) != 6 {
		t.Fatalf("len(Mock) = %d, want 6", len(got))
	}

	seen := map[string]bool{}
	for i, art := range got {
		if seen[art.URL] {
			t.Errorf("duplicate URL %q", art.URL)
		}
		seen[art.URL] = true
		if !strings.HasPrefix(art.URL, "https://example.com/ai/") {
			t.Errorf("URL = %q", art.URL)
		}
		if !strings.Contains(art.Title, "ai") {
			t.Errorf("title %q does not mention the topic", art.Title)
		}
		age := base.Sub(art.PublishedAt)
		if age < time.Hour || age > 24*time.Hour {
			t.Errorf("published %v ago, want within 1-24h", age)
		}
		if i > 0 && art.PublishedAt.After(got[i-1].PublishedAt) {
			t.Error("mock articles not sorted newest first")
		}

		var wantKeys []string
		switch art.Source {
		case "Reddit":
			wantKeys = []string{"views", "comments", "upvotes", "author"}
		case "Substack":
			wantKeys = []string{"author", "read_time", "subscribers", "likes"}
		default:
			wantKeys = []string{"views", "author", "published_outlet", "word_count"}
		}
		for _, k := range wantKeys {
			if _, ok := art.Metadata[k]; !ok {
				t.Errorf("%s metadata missing %q: %v", art.Source, k, art.Metadata)
			}
		}
	}
}

func TestMock_TruncatesToTwiceCount(t *testing.T) {
	sources := make([]models.Provider, 6)
	for i := range sources {
		sources[i] = models.Provider{Name: string(rune('A' + i)), FeedURL: "https://x.example/rss"}
	}
	got := newTestAcquirer(nil, nil).Mock([]string{"ai"}, sources, 5)
	if len(got) != 10 {
		t.Errorf("len(Mock) = %d, want 10", len(got))
	}
}

func TestMock_ManyPerPairKeepsURLsUnique(t *testing.T) {
	got := newTestAcquirer(nil, nil).Mock([]string{"sports"}, []models.Provider{{Name: "Wire", FeedURL: "u"}}, 20)
	// 20/1 + 1 = 21 for the single pair, under the cap of 40.
	if len(got) != 21 {
		t.Fatalf("len(Mock) = %d, want 21", len(got))
	}
	seen := map[string]bool{}
	for _, art := range got {
		if seen[art.URL] {
			t.Fatalf("duplicate URL %q", art.URL)
		}
		seen[art.URL] = true
	}
}

func TestMock_NoSources(t *testing.T) {
	if got := newTestAcquirer(nil, nil).Mock([]string{"ai"}, nil, 5); len(got) != 0 {
		t.Errorf("Mock without sources = %d articles, want 0", len(got))
	}
}

func TestTopicCategory(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"AI", "ai"},
		{"machine learning", "ai"},
		{"Football", "sports"},
		{"Hollywood gossip", "movies"},
		{"elections", "politics"},
		{"gardening", "politics"},
		{"brain science", "politics"},
	}
	for _, tt := range tests {
		if got := topicCategory(tt.topic); got != tt.want {
			t.Errorf("topicCategory(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	if got := slugify("Breaking: Major Policy Changes!"); got != "breaking-major-policy-changes" {
		t.Errorf("slugify = %q", got)
	}
	if got := slugify(strings.Repeat("word ", 30)); len(got) > 50 || strings.HasSuffix(got, "-") {
		t.Errorf("slugify long = %q", got)
	}
}
