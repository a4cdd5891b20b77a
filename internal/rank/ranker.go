// Package rank scores candidate articles for relevance through a text
// completion service, with a randomized degraded mode.
package rank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"strings"

	"github.com/hoanghai1803/newsdesk/internal/ai"
	"github.com/hoanghai1803/newsdesk/internal/models"
)

const (
	// MaxPromptCandidates caps how many candidates are sent for scoring.
	MaxPromptCandidates = 20
	// NeutralScore is given to candidates the service did not score.
	NeutralScore = 50

	fallbackMin   = 60
	fallbackRange = 40 // scores land in [60,100)
)

// Context is the user context passed along with the candidates.
type Context struct {
	Region          string
	Country         string
	ExcludedSources []string
}

// Result is the outcome of ranking. Fallback is true when every score was
// assigned randomly; Err then holds the reason.
type Result struct {
	Articles []models.RankedArticle
	Fallback bool
	Err      error
}

// Ranker scores candidates through a Completer.
type Ranker struct {
	completer ai.Completer
	intN      func(int) int
}

// NewRanker creates a Ranker. completer may be nil, in which case every
// ranking takes the degraded path.
func NewRanker(completer ai.Completer) *Ranker {
	return &Ranker{completer: completer, intN: rand.Intn}
}

type verdict struct {
	score     int
	topic     string
	reasoning string
}

// Rank scores candidates, sorted by score descending. The sort is stable so
// ties keep candidate order.
func (r *Ranker) Rank(ctx context.Context, candidates []models.CandidateArticle, topics []string, rc Context) Result {
	if len(candidates) == 0 || len(topics) == 0 {
		return Result{}
	}

	verdicts, err := r.score(ctx, candidates, topics, rc)
	if err != nil {
		slog.Warn("ranking degraded to random scores", "error", err, "candidates", len(candidates))
		return Result{Articles: r.fallback(candidates, topics), Fallback: true, Err: err}
	}

	ranked := make([]models.RankedArticle, len(candidates))
	for i, c := range candidates {
		v, ok := verdicts[i]
		if !ok {
			v = verdict{score: NeutralScore, topic: topics[0]}
		}
		ranked[i] = models.RankedArticle{
			CandidateArticle: c,
			Score:            v.score,
			Topic:            v.topic,
			Reasoning:        v.reasoning,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	slog.Info("ranked articles", "candidates", len(candidates), "scored", len(verdicts))
	return Result{Articles: ranked}
}

// score asks the service about the first MaxPromptCandidates candidates and
// returns verdicts keyed by candidate index.
func (r *Ranker) score(ctx context.Context, candidates []models.CandidateArticle, topics []string, rc Context) (map[int]verdict, error) {
	if r.completer == nil {
		return nil, ai.ErrNotConfigured
	}

	sent := candidates[:min(len(candidates), MaxPromptCandidates)]
	systemPrompt, userPrompt := RankPrompt(sent, topics, rc)

	text, err := r.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("requesting article scores: %w", err)
	}

	obj, err := ai.ParseObject(text)
	if err != nil {
		return nil, err
	}
	entries, ok := ai.ObjectList(obj, "articles")
	if !ok {
		return nil, &ai.ParseError{Err: errors.New(`missing "articles" array`)}
	}

	verdicts := make(map[int]verdict, len(entries))
	for pos, e := range entries {
		idx, ok := ai.IntField(e, "id")
		if !ok {
			idx = pos
		}
		if idx < 0 || idx >= len(sent) {
			continue
		}
		if _, dup := verdicts[idx]; dup {
			continue
		}
		score, ok := ai.IntField(e, "score")
		if !ok {
			continue
		}
		verdicts[idx] = verdict{
			score:     clamp(score),
			topic:     matchTopic(ai.StringField(e, "topic"), topics),
			reasoning: ai.StringField(e, "reasoning"),
		}
	}
	return verdicts, nil
}

func (r *Ranker) fallback(candidates []models.CandidateArticle, topics []string) []models.RankedArticle {
	ranked := make([]models.RankedArticle, len(candidates))
	for i, c := range candidates {
		ranked[i] = models.RankedArticle{
			CandidateArticle: c,
			Score:            fallbackMin + r.intN(fallbackRange),
			Topic:            topics[0],
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

// matchTopic maps a model-provided label onto the requested topic it names,
// or the first requested topic when it names none.
func matchTopic(label string, topics []string) string {
	for _, t := range topics {
		if strings.EqualFold(strings.TrimSpace(label), t) {
			return t
		}
	}
	return topics[0]
}

func clamp(score int) int {
	return max(0, min(100, score))
}
