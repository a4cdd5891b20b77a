package models

// Provider categories understood by the acquirer and mock generator.
const (
	CategoryNewsAgency  = "news_agency"
	CategoryBroadcaster = "broadcaster"
	CategoryNewspaper   = "newspaper"
	CategoryMagazine    = "magazine"
	CategoryDigital     = "digital_native"
	CategoryNewsletter  = "newsletter_platform"
	CategoryCommunity   = "community"
)

// Provider is a news source that articles can be acquired from. At least one
// of APIID and FeedURL must be set for the acquirer to use it.
type Provider struct {
	Name        string `json:"name" yaml:"name"`
	Category    string `json:"type" yaml:"category"`
	APIID       string `json:"api_id,omitempty" yaml:"api_id"`
	FeedURL     string `json:"feed_url,omitempty" yaml:"feed_url"`
	Relevance   int    `json:"relevance_score,omitempty" yaml:"relevance"`
	Credibility int    `json:"credibility_score,omitempty" yaml:"credibility"`
	Reasoning   string `json:"reasoning,omitempty" yaml:"-"`
}

// Usable reports whether the provider exposes an endpoint articles can be
// fetched from.
func (p Provider) Usable() bool {
	return p.APIID != "" || p.FeedURL != ""
}
