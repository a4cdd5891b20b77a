package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/hoanghai1803/newsdesk/internal/models"
)

// RetentionWindow is how long a stored article survives before Evict
// removes it.
const RetentionWindow = 24 * time.Hour

// ErrNotFound is returned when a requested article does not exist.
var ErrNotFound = errors.New("not found")

var articleColumns = []string{
	"id", "title", "content", "url", "source", "topic",
	"score", "reasoning", "published_at", "fetched_at", "metadata",
}

// Filter narrows a Query. Zero values disable the corresponding condition.
type Filter struct {
	Topics   []string
	Source   string
	MinScore *int
	Limit    int
}

// Cache stores ranked articles for later retrieval.
type Cache struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewCache wraps an already migrated database.
func NewCache(db *sql.DB) *Cache {
	return &Cache{db: db, now: time.Now}
}

// OpenCache opens a fresh in-memory database and returns a Cache over it.
func OpenCache(ctx context.Context) (*Cache, error) {
	db, err := OpenMemoryDatabase(ctx)
	if err != nil {
		return nil, err
	}
	return NewCache(db), nil
}

// Close releases the underlying database. The cached articles are lost.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Store writes a ranked article, assigning its id and fetch time.
func (c *Cache) Store(ctx context.Context, article models.RankedArticle) (models.StoredArticle, error) {
	meta := article.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return models.StoredArticle{}, fmt.Errorf("encoding metadata: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fetchedAt := c.now().UTC()
	query, args, err := sq.Insert("articles").
		Columns(articleColumns[1:]...).
		Values(
			article.Title, article.Content, article.URL, article.Source, article.Topic,
			article.Score, article.Reasoning,
			article.PublishedAt.UTC().UnixNano(), fetchedAt.UnixNano(), string(metaJSON),
		).
		ToSql()
	if err != nil {
		return models.StoredArticle{}, fmt.Errorf("building insert: %w", err)
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.StoredArticle{}, fmt.Errorf("inserting article %q: %w", article.URL, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.StoredArticle{}, fmt.Errorf("reading article id: %w", err)
	}

	return models.StoredArticle{ID: id, RankedArticle: article, FetchedAt: fetchedAt}, nil
}

// Query returns stored articles matching every condition in f, ordered by
// score descending, then newest first, then by id.
func (c *Cache) Query(ctx context.Context, f Filter) ([]models.StoredArticle, error) {
	q := sq.Select(articleColumns...).
		From("articles").
		OrderBy("score DESC", "published_at DESC", "id ASC")

	if topics := lowerAll(f.Topics); len(topics) > 0 {
		q = q.Where(sq.Eq{"LOWER(topic)": topics})
	}
	if src := strings.TrimSpace(f.Source); src != "" {
		q = q.Where(sq.Eq{"LOWER(source)": strings.ToLower(src)})
	}
	if f.MinScore != nil {
		q = q.Where(sq.GtOrEq{"score": *f.MinScore})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []models.StoredArticle
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating articles: %w", err)
	}
	return articles, nil
}

// Get returns a single stored article. Returns ErrNotFound if the id is
// unknown or already evicted.
func (c *Cache) Get(ctx context.Context, id int64) (models.StoredArticle, error) {
	query, args, err := sq.Select(articleColumns...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.StoredArticle{}, fmt.Errorf("building query: %w", err)
	}

	a, err := scanArticle(c.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.StoredArticle{}, ErrNotFound
	}
	return a, err
}

// Count reports how many articles are currently stored.
func (c *Cache) Count(ctx context.Context) (int, error) {
	query, args, err := sq.Select("COUNT(*)").From("articles").ToSql()
	if err != nil {
		return 0, fmt.Errorf("building count: %w", err)
	}
	var n int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting articles: %w", err)
	}
	return n, nil
}

// Evict deletes every article fetched more than RetentionWindow ago and
// reports how many were removed.
func (c *Cache) Evict(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-RetentionWindow).UTC().UnixNano()
	query, args, err := sq.Delete("articles").
		Where(sq.Lt{"fetched_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("building delete: %w", err)
	}

	res, err := c.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("evicting articles: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading evicted count: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(s rowScanner) (models.StoredArticle, error) {
	var (
		a         models.StoredArticle
		published int64
		fetched   int64
		metaJSON  string
	)
	err := s.Scan(
		&a.ID, &a.Title, &a.Content, &a.URL, &a.Source, &a.Topic,
		&a.Score, &a.Reasoning, &published, &fetched, &metaJSON,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, err
		}
		return a, fmt.Errorf("scanning article: %w", err)
	}

	a.PublishedAt = time.Unix(0, published).UTC()
	a.FetchedAt = time.Unix(0, fetched).UTC()
	if metaJSON != "" && metaJSON != "{}" {
		if err := json.Unmarshal([]byte(metaJSON), &a.Metadata); err != nil {
			return a, fmt.Errorf("decoding metadata for article %d: %w", a.ID, err)
		}
	}
	return a, nil
}

func lowerAll(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}
