package acquire

import (
	"testing"

	"github.com/hoanghai1803/newsdesk/internal/models"
)

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ai", "artificial intelligence"},
		{" AI ", "artificial intelligence"},
		{"Tech", "technology"},
		{"Climate   Change", "climate change"},
	}
	for _, tt := range tests {
		if got := NormalizeTopic(tt.in); got != tt.want {
			t.Errorf("NormalizeTopic(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMatchesTopic(t *testing.T) {
	tests := []struct {
		name  string
		topic string
		title string
		desc  string
		want  bool
	}{
		{"all words in title", "climate change", "Climate Change accelerates", "", true},
		{"words split across title and description", "climate change", "Climate talks", "policy change expected", true},
		{"missing one word", "climate change", "Climate talks", "", false},
		{"alias expanded", "ai", "Artificial intelligence and you", "", true},
		{"alias not matched by abbreviation alone", "ai", "AI chips", "", false},
		{"blank topic", "  ", "anything", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesTopic(tt.topic, tt.title, tt.desc); got != tt.want {
				t.Errorf("MatchesTopic(%q, %q, %q) = %v, want %v", tt.topic, tt.title, tt.desc, got, tt.want)
			}
		})
	}
}

func TestFamilyOf(t *testing.T) {
	tests := []struct {
		p    models.Provider
		want Family
	}{
		{models.Provider{Name: "r/worldnews on Reddit"}, FamilyCommunity},
		{models.Provider{Name: "Platformer", Category: models.CategoryNewsletter}, FamilyNewsletter},
		{models.Provider{Name: "Substack"}, FamilyNewsletter},
		{models.Provider{Name: "Reuters", Category: models.CategoryNewsAgency}, FamilyTraditional},
	}
	for _, tt := range tests {
		if got := FamilyOf(tt.p); got != tt.want {
			t.Errorf("FamilyOf(%q) = %q, want %q", tt.p.Name, got, tt.want)
		}
	}
}
