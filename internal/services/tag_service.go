package services

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"time-tagger/internal/domain"
	"time-tagger/internal/errors"
	"time-tagger/internal/repository/sqlite"
)

// TagCache remembers every tag ever used until it is invalidated.
type TagCache struct {
	mu          sync.Mutex
	load        func(ctx context.Context) ([]domain.Record, error)
	suggestions []TagSuggestion
	valid       bool
}

// NewTagCache creates a cache that builds itself from the records load returns
func NewTagCache(load func(ctx context.Context) ([]domain.Record, error)) *TagCache {
	return &TagCache{load: load}
}

// Get returns the tags, most recently used first. force rebuilds the cache.
func (c *TagCache) Get(ctx context.Context, force bool) ([]TagSuggestion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && !force {
		return slices.Clone(c.suggestions), nil
	}

	records, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	c.suggestions = buildSuggestions(records, timeNow().Unix())
	c.valid = true
	return slices.Clone(c.suggestions), nil
}

// Invalidate makes the next Get rebuild the cache
func (c *TagCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}

func buildSuggestions(records []domain.Record, now int64) []TagSuggestion {
	lastUsed := make(map[string]int64)
	for _, record := range records {
		if record.IsHidden() {
			continue
		}
		t2 := record.T2
		if record.IsRunning() {
			t2 = max(now, record.T1)
		}
		for _, tag := range domain.ExtractTags(record.Ds) {
			lastUsed[tag] = max(lastUsed[tag], t2)
		}
	}

	suggestions := make([]TagSuggestion, 0, len(lastUsed))
	for tag, t := range lastUsed {
		suggestions = append(suggestions, TagSuggestion{Tag: tag, LastUsed: t})
	}
	slices.SortFunc(suggestions, func(a, b TagSuggestion) int {
		return cmp.Or(cmp.Compare(b.LastUsed, a.LastUsed), cmp.Compare(a.Tag, b.Tag))
	})
	return suggestions
}

// tagServiceImpl implements the TagService interface
type tagServiceImpl struct {
	repo   sqlite.Repository
	cache  *TagCache
	mapper *domain.Mapper
}

// NewTagService creates a new TagService instance
func NewTagService(repo sqlite.Repository) TagService {
	mapper := domain.NewMapper()
	cache := NewTagCache(func(ctx context.Context) ([]domain.Record, error) {
		dbRecords, err := repo.ListRecords(ctx)
		if err != nil {
			return nil, err
		}
		return mapper.Record.FromDatabaseSlice(dbRecords), nil
	})
	return &tagServiceImpl{repo: repo, cache: cache, mapper: mapper}
}

// Suggestions returns every tag in use, most recent first
func (t *tagServiceImpl) Suggestions(ctx context.Context, force bool) ([]TagSuggestion, error) {
	return t.cache.Get(ctx, force)
}

// Invalidate drops the cached suggestions
func (t *tagServiceImpl) Invalidate() {
	t.cache.Invalidate()
}

// SetPriority marks a tag as primary (1) or secondary (2)
func (t *tagServiceImpl) SetPriority(ctx context.Context, tag string, priority int) (*domain.TagInfo, error) {
	normalized := domain.ConvertTextToValidTag(tag)
	if normalized == "" {
		return nil, errors.NewInvalidInputError("tag", tag, "must contain at least one letter or digit")
	}
	if priority != domain.PriorityPrimary && priority != domain.PrioritySecondary {
		return nil, errors.NewInvalidInputError("priority", priority, "must be 1 (primary) or 2 (secondary)")
	}

	if err := t.repo.SetTagPriority(ctx, normalized, priority); err != nil {
		return nil, err
	}

	info := domain.TagInfo{Tag: normalized, Priority: priority}
	return &info, nil
}

// Priorities returns the tags that have a stored priority
func (t *tagServiceImpl) Priorities(ctx context.Context) ([]domain.TagInfo, error) {
	dbInfos, err := t.repo.ListTagPriorities(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]domain.TagInfo, len(dbInfos))
	for i, dbInfo := range dbInfos {
		infos[i] = t.mapper.TagInfo.FromDatabase(*dbInfo)
	}
	return infos, nil
}
